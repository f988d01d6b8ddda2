package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

// NormalizeCard strips the spaces and dashes users type between digit groups.
func NormalizeCard(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// IsCard reports whether s is a 12 to 19 digit number passing the Luhn check.
func IsCard(s string) bool {
	s = NormalizeCard(s)
	if len(s) < 12 || len(s) > 19 {
		return false
	}
	return goluhn.Validate(s) == nil
}

// MaskCard keeps only the last four digits.
func MaskCard(s string) string {
	s = NormalizeCard(s)
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
