package insights

import (
	"github.com/shopspring/decimal"

	"budgetwise/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Transfer records the outcome of applying a transfer to a goal.
// JustCompleted is true only on the transfer that crosses the target from
// below, so the caller can fire a one-shot celebration instead of
// repeating it on every render.
type Transfer struct {
	Amount        decimal.Decimal
	Completed     bool
	JustCompleted bool
}

// ApplyTransfer adds amount to the goal's current balance. Transfers are
// additive only; amount must be strictly positive or the goal is returned
// unchanged with core.ErrInvalidAmount.
func ApplyTransfer(g core.Goal, amount decimal.Decimal) (core.Goal, Transfer, error) {
	if !amount.IsPositive() {
		return g, Transfer{}, core.ErrInvalidAmount
	}

	wasCompleted := IsCompleted(g)
	g.Current = g.Current.Add(amount)
	completed := IsCompleted(g)

	return g, Transfer{
		Amount:        amount,
		Completed:     completed,
		JustCompleted: completed && !wasCompleted,
	}, nil
}

// IsCompleted reports whether the goal has reached its target. A goal
// with a non-positive target counts as completed immediately.
func IsCompleted(g core.Goal) bool {
	if !g.Target.IsPositive() {
		return true
	}
	return g.Current.GreaterThanOrEqual(g.Target)
}

// GoalProgress returns current/target as a percentage capped at 100.
// A non-positive target clamps to 100 rather than failing.
func GoalProgress(g core.Goal) decimal.Decimal {
	if !g.Target.IsPositive() {
		return hundred
	}
	return core.Percent(g.Current, g.Target)
}
