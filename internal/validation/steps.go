package validation

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrStepsRequired = errors.New("steps are required")
	ErrStepsInvalid  = errors.New("steps must be a whole number of at least 1")
)

// ParseSteps parses a positive step count from form input
func ParseSteps(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrStepsRequired
	}

	steps, err := strconv.Atoi(raw)
	if err != nil || steps < 1 {
		return 0, ErrStepsInvalid
	}

	return steps, nil
}
