package validation

import "strings"

// FormatTaxID masks up to 11 digits as 000.000.000-00. Partial input is
// masked progressively.
func FormatTaxID(s string) string {
	return mask(Digits(s), 11, []int{3, 3, 3, 2}, []string{"", ".", ".", "-"})
}

// FormatPhone masks up to 11 digits as (00) 00000-0000.
func FormatPhone(s string) string {
	d := limit(Digits(s), 11)
	if len(d) <= 2 {
		return d
	}
	out := "(" + d[:2] + ") " + d[2:]
	if len(d) > 7 {
		out = "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
	return out
}

// FormatDate masks up to 8 digits as DD/MM/YYYY.
func FormatDate(s string) string {
	return mask(Digits(s), 8, []int{2, 2, 4}, []string{"", "/", "/"})
}

// FormatPostalCode masks up to 8 digits as 00000-000.
func FormatPostalCode(s string) string {
	return mask(Digits(s), 8, []int{5, 3}, []string{"", "-"})
}

// mask writes consecutive groups of d, placing seps[i] before group i only
// when that group has at least one digit.
func mask(d string, n int, groups []int, seps []string) string {
	d = limit(d, n)
	var b strings.Builder
	pos := 0
	for i, size := range groups {
		if pos >= len(d) {
			break
		}
		end := pos + size
		if end > len(d) {
			end = len(d)
		}
		b.WriteString(seps[i])
		b.WriteString(d[pos:end])
		pos = end
	}
	return b.String()
}

func limit(d string, n int) string {
	if len(d) > n {
		return d[:n]
	}
	return d
}
