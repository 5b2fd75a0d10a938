package domain

import (
	"strings"
)

// CollapseSpace replaces every run of whitespace (any Unicode space, including
// tabs and newlines) with a single ASCII space and trims both ends.
func CollapseSpace(text string) string {
	fields := strings.Fields(text)
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	}
	return strings.Join(fields, " ")
}

// NormalizeText prepares a lemma for storage and comparison:
//   - collapses and trims whitespace
//   - converts to lowercase
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	return strings.ToLower(CollapseSpace(text))
}
