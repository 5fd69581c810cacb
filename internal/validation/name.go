package validation

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxNameLength = 100

var ErrNameTooLong = errors.New("name is too long (max 100 characters)")

// NormalizeName trims, collapses inner whitespace and title-cases a display name.
// Submission, search and grouping all go through this so "  aLICE  smith" and
// "Alice Smith" are the same person. Returns "" for blank input.
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	joined := strings.Join(fields, " ")
	return cases.Title(language.Und).String(strings.ToLower(joined))
}

// ValidateName validates an already normalized name
func ValidateName(name string) error {
	if len([]rune(name)) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}
