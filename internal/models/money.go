package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount keeps cents well inside int64.
var maxAmount = decimal.New(9, 15)

// ParseAmount converts a decimal string such as "-12.50" to signed cents,
// rounding half away from zero at the third decimal place. A comma is
// accepted as the decimal separator only when no dot is present and one or
// two digits follow it, so "12,5" is 12.50 while "1,234" is rejected rather
// than read as a thousands separator.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if strings.Contains(s, ",") {
		whole, frac, _ := strings.Cut(s, ",")
		if strings.Contains(s, ".") || strings.Contains(frac, ",") || len(frac) < 1 || len(frac) > 2 || !isDigits(frac) {
			return 0, fmt.Errorf("invalid amount %q: use a dot as the decimal separator and no thousands separators", s)
		}
		s = whole + "." + frac
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("amount %q is too large", s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// CentsToDecimal converts signed cents to a decimal value.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders signed cents with exactly two decimals, e.g. "-12.50".
func FormatAmount(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
