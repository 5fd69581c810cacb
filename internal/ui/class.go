package ui

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// Class merges tailwind class lists, later classes winning over conflicting earlier ones.
// Empty entries are skipped so conditional classes can be passed as "".
func Class(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}
	return twmerge.Merge(parts...)
}

// If returns class when cond holds, "" otherwise
func If(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}
