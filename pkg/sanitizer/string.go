// Package sanitizer normalizes untrusted request strings before validation
// and storage. Functions are idempotent and never return errors; invalid
// input collapses to the empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading and trailing whitespace and collapses
// internal whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeOccupant cleans the requester-supplied display name. The name is
// untrusted and carries no identity binding; it is display data only.
func NormalizeOccupant(name string) string {
	return TrimAndNormalize(name)
}
