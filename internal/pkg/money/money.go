// internal/pkg/money/money.go

// Package money converts between decimal amount strings used at the API edge
// and the integer cents stored everywhere else.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var centsPerUnit = decimal.NewFromInt(100)

// ParseAmount parses a decimal amount string (e.g. "45.00") into cents.
// Amounts with more than two fractional digits or negative values are rejected.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", s)
	}
	cents := d.Mul(centsPerUnit)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return cents.IntPart(), nil
}

// FormatAmount renders cents as a decimal string with two places
func FormatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(centsPerUnit).StringFixed(2)
}
