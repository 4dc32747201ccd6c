// Package money provides integer-cents arithmetic and formatting. All amounts
// in the ledger are int64 cents; floats never appear at any boundary. The
// shopspring decimal type is used only at the edges, to parse and render
// user-facing amounts without drift.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Sum adds cent values. Plain int64 addition; amounts are bounded well below
// overflow for any realistic book.
func Sum(values ...int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// Format renders cents as a plain decimal string, e.g. 123456 -> "1234.56",
// -505 -> "-5.05".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseAmount converts a user-facing decimal amount such as "1234.56" into
// cents. Amounts with sub-cent precision are rejected rather than rounded.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into cents, rejecting sub-cent
// precision.
func FromDecimal(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return scaled.IntPart(), nil
}

// ToDecimal converts cents into a decimal amount for display.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}
