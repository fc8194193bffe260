package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionKind = "EXPENSE"
	Income  TransactionKind = "INCOME"
)

type (
	TransactionKind string

	// Transaction is a single ledger entry. Amount holds the magnitude;
	// the sign shown to a user is derived from Kind.
	Transaction struct {
		ID          int64
		AccountID   int64
		CategoryID  int64
		Kind        TransactionKind
		Amount      decimal.Decimal
		Description string
		OccurredAt  time.Time
	}

	Category struct {
		ID   int64
		Name string
	}

	// Budget caps spending for one category within [StartDate, EndDate].
	// Spent and adherence are always derived from the live transaction
	// set, never stored here.
	Budget struct {
		ID         int64
		CategoryID int64
		Limit      decimal.Decimal
		StartDate  time.Time
		EndDate    time.Time
	}

	// Goal is a savings goal. Current only grows via transfers.
	Goal struct {
		ID      int64
		Name    string
		Target  decimal.Decimal
		Current decimal.Decimal
	}

	Account struct {
		ID       int64
		Name     string
		Balance  decimal.Decimal
		Currency string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroDate         = errors.New("date cannot be zero")

	// ErrAuthExpired marks the one cross-cutting ledger condition the
	// engine never recovers from: the caller must re-authenticate.
	ErrAuthExpired = errors.New("authentication expired")
)

// IsValid reports whether the kind is one of the two known values.
func (k TransactionKind) IsValid() bool {
	return k == Expense || k == Income
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

func (b Budget) Validate() error {
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrZeroDate
	}
	if b.EndDate.Before(b.StartDate) {
		return errors.New("end date must not precede start date")
	}
	return nil
}

// Contains reports whether ts falls within the budget's period,
// inclusive on both ends.
func (b Budget) Contains(ts time.Time) bool {
	return !ts.Before(b.StartDate) && !ts.After(b.EndDate)
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyDescription
	}
	if g.Current.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// CategoryNames builds a lookup from category ID to display name.
func CategoryNames(categories []Category) map[int64]string {
	m := make(map[int64]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Name
	}
	return m
}
