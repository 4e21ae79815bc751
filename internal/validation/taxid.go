// Package validation checks applicant input and formats Brazilian document
// numbers for display.
package validation

import "strings"

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidTaxID reports whether s is a valid CPF. Formatting characters are
// ignored. Identifiers made of one repeated digit are always rejected.
func ValidTaxID(s string) bool {
	d := Digits(s)
	if len(d) != 11 || repeated(d) {
		return false
	}
	return checkDigit(d[:9]) == int(d[9]-'0') &&
		checkDigit(d[:10]) == int(d[10]-'0')
}

// checkDigit computes the next CPF check digit for the given prefix. Weights
// run from len(prefix)+1 down to 2.
func checkDigit(prefix string) int {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}
	rem := (sum * 10) % 11
	if rem == 10 || rem == 11 {
		rem = 0
	}
	return rem
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
