package product

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// pricePattern is the accepted price syntax: digits with an optional 1-2 digit fraction.
var pricePattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidPrice reports whether s is an accepted price string.
func ValidPrice(s string) bool {
	return pricePattern.MatchString(s)
}

// ParsePrice converts a price string into an exact decimal.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return d, nil
}

// FormatBRL renders d as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// FormatPrice formats a price string as BRL. Strings that are not numbers are returned as is.
func FormatPrice(s string) string {
	d, err := ParsePrice(s)
	if err != nil {
		return s
	}
	return FormatBRL(d)
}
