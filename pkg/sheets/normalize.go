package sheets

import (
	"strings"
	"unicode"
)

// NormalizeHeader canonicalizes a sheet column header: surrounding
// whitespace is trimmed, inner spaces become underscores and each letter
// run is title-cased, so "  academic year " and "Academic_Year" both
// resolve to "Academic_Year". Every column lookup in the system goes
// through this single normalization.
func NormalizeHeader(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")

	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// Fold prepares a cell value for case-insensitive comparison: trim, then
// lower-case. Usernames and lecturer assignments compare through this.
func Fold(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
