// Package district reconciles district names across population, accident and
// boundary sources.
package district

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize standardizes a district name for joining by:
//  1. Composing Unicode to NFC so visually equal names compare equal
//  2. Trimming whitespace
//  3. Lowercasing
func Normalize(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return ""
	}
	return cases.Lower(language.Und).String(name)
}

// NormalizeBoundary normalizes a boundary feature name. Boundary files label
// districts as "Madurai District", so the word is dropped before trimming.
func NormalizeBoundary(name string) string {
	name = Normalize(name)
	name = strings.ReplaceAll(name, " district", "")
	return strings.TrimSpace(name)
}
