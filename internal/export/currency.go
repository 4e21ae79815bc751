package export

import (
	"strconv"
	"strings"
)

// FormatBRL renders an amount in centavos as Brazilian currency, e.g.
// "R$ 1.234,56".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	intPart := strconv.FormatInt(cents/100, 10)
	dec := cents % 100

	if len(intPart) > 3 {
		var b strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				b.WriteByte('.')
			}
			b.WriteRune(digit)
		}
		intPart = b.String()
	}

	frac := strconv.FormatInt(dec, 10)
	if dec < 10 {
		frac = "0" + frac
	}
	return sign + "R$ " + intPart + "," + frac
}
