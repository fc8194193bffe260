// Package core holds the domain types and pure calendar/money helpers
// shared by the aggregation engine.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw ledger amount into a non-negative magnitude.
//
// The ledger stores expense amounts with a leading minus sign; display math
// always works on the absolute value, so the sign is dropped here. An empty
// or non-numeric string returns ErrInvalidAmount so bulk decoders can skip
// the record and continue.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Abs(), nil
}

// Percent returns part/whole*100 capped at 100, and 0 when whole is not
// positive. Division by zero is guarded, not an error: a zero-limit budget
// or zero-target goal simply clamps to a safe default.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if !whole.IsPositive() {
		return decimal.Zero
	}
	p := part.Div(whole).Mul(hundred)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
