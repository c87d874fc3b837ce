package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToCents converts a decimal currency amount to integer cents.
// Amounts with sub-cent precision are rejected rather than rounded.
func ToCents(d decimal.Decimal) (int64, error) {
	cents := d.Mul(hundred)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d)
	}
	return cents.IntPart(), nil
}

// CentsToFloat converts integer cents back to the JSON number the API
// exposes. Two decimal places are exact in float64 for any realistic balance.
func CentsToFloat(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(hundred).Float64()
	return f
}
