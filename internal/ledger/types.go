package ledger

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"budgetwise/internal/core"
)

// Wire shapes of the ledger service. Amounts arrive as arbitrary JSON
// scalars (the service is loose about numbers vs strings), so they are
// held raw and converted with skip-and-continue semantics: one malformed
// record never aborts the batch.
type (
	transactionDTO struct {
		TransactionID int64           `json:"transactionId"`
		AccountID     int64           `json:"accountId"`
		CategoryID    int64           `json:"categoryId"`
		Amount        json.RawMessage `json:"amount"`
		Type          string          `json:"type"`
		Description   string          `json:"description"`
		Date          string          `json:"transactionDate"`
	}

	categoryDTO struct {
		CategoryID   int64  `json:"categoryId"`
		CategoryName string `json:"categoryName"`
	}

	budgetDTO struct {
		BudgetID    int64           `json:"budgetId"`
		CategoryID  int64           `json:"categoryId"`
		AmountLimit json.RawMessage `json:"amountLimit"`
		StartDate   string          `json:"startDate"`
		EndDate     string          `json:"endDate"`
	}

	goalDTO struct {
		GoalID        int64           `json:"goalId"`
		GoalName      string          `json:"goalName"`
		TargetAmount  json.RawMessage `json:"targetAmount"`
		CurrentAmount json.RawMessage `json:"currentAmount"`
	}

	accountDTO struct {
		AccountID   int64           `json:"accountId"`
		AccountName string          `json:"accountName"`
		Balance     json.RawMessage `json:"balance"`
		Currency    string          `json:"currency"`
	}
)

// dateFormats covers the shapes the ledger emits: bare dates for budget
// periods, RFC3339 timestamps for transactions.
var dateFormats = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// rawAmount strips surrounding quotes so both `"12.50"` and `12.50` parse.
func rawAmount(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	s := string(raw)
	if s == "null" {
		return "", false
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s, true
}

func (d transactionDTO) toCore() (core.Transaction, error) {
	s, ok := rawAmount(d.Amount)
	if !ok {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	amount, err := core.ParseAmount(s)
	if err != nil {
		return core.Transaction{}, err
	}
	ts, ok := parseDate(d.Date)
	if !ok {
		return core.Transaction{}, core.ErrZeroDate
	}
	kind := core.TransactionKind(d.Type)
	if !kind.IsValid() {
		return core.Transaction{}, core.ErrInvalidKind
	}
	return core.Transaction{
		ID:          d.TransactionID,
		AccountID:   d.AccountID,
		CategoryID:  d.CategoryID,
		Kind:        kind,
		Amount:      amount,
		Description: d.Description,
		OccurredAt:  ts,
	}, nil
}

func decodeTransactions(dtos []transactionDTO, logger *slog.Logger) []core.Transaction {
	txs := make([]core.Transaction, 0, len(dtos))
	for _, d := range dtos {
		tx, err := d.toCore()
		if err != nil {
			logger.Warn("Skipping malformed transaction", "transaction_id", d.TransactionID, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

func (d budgetDTO) toCore() (core.Budget, error) {
	s, ok := rawAmount(d.AmountLimit)
	if !ok {
		return core.Budget{}, core.ErrInvalidAmount
	}
	limit, err := core.ParseAmount(s)
	if err != nil {
		return core.Budget{}, err
	}
	start, okStart := parseDate(d.StartDate)
	end, okEnd := parseDate(d.EndDate)
	if !okStart || !okEnd {
		return core.Budget{}, core.ErrZeroDate
	}
	return core.Budget{
		ID:         d.BudgetID,
		CategoryID: d.CategoryID,
		Limit:      limit,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

func (d goalDTO) toCore() (core.Goal, error) {
	targetRaw, ok := rawAmount(d.TargetAmount)
	if !ok {
		return core.Goal{}, core.ErrInvalidAmount
	}
	target, err := core.ParseAmount(targetRaw)
	if err != nil {
		return core.Goal{}, err
	}
	current := decimal.Zero
	if currentRaw, ok := rawAmount(d.CurrentAmount); ok {
		if current, err = core.ParseAmount(currentRaw); err != nil {
			return core.Goal{}, err
		}
	}
	return core.Goal{
		ID:      d.GoalID,
		Name:    d.GoalName,
		Target:  target,
		Current: current,
	}, nil
}

func (d accountDTO) toCore() (core.Account, error) {
	s, ok := rawAmount(d.Balance)
	if !ok {
		return core.Account{}, core.ErrInvalidAmount
	}
	balance, err := core.ParseAmount(s)
	if err != nil {
		return core.Account{}, err
	}
	return core.Account{
		ID:       d.AccountID,
		Name:     d.AccountName,
		Balance:  balance,
		Currency: d.Currency,
	}, nil
}
