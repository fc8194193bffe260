package insights

import (
	"github.com/shopspring/decimal"

	"budgetwise/internal/core"
)

// BudgetStatus joins a budget with the spend derived from the live
// transaction set. Spent is recomputed on every evaluation pass, never
// carried over from a previous one.
type BudgetStatus struct {
	Budget          core.Budget
	Spent           decimal.Decimal
	ProgressPercent decimal.Decimal
	Exceeded        bool
}

// EvaluateBudget filters transactions to the budget's own category and
// [StartDate, EndDate] window, sums expense magnitudes and derives the
// adherence state. Spending exactly the limit is still within budget;
// exceeded requires strictly more.
func EvaluateBudget(b core.Budget, txs []core.Transaction) BudgetStatus {
	spent := decimal.Zero
	for _, tx := range txs {
		if tx.Kind != core.Expense || tx.CategoryID != b.CategoryID {
			continue
		}
		if !b.Contains(tx.OccurredAt) {
			continue
		}
		spent = spent.Add(tx.Amount.Abs())
	}

	return BudgetStatus{
		Budget:          b,
		Spent:           spent,
		ProgressPercent: core.Percent(spent, b.Limit),
		Exceeded:        spent.GreaterThan(b.Limit),
	}
}

// EvaluateBudgets evaluates every budget independently. Duplicate active
// budgets for the same category are tolerated; each gets its own status.
func EvaluateBudgets(budgets []core.Budget, txs []core.Transaction) []BudgetStatus {
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, EvaluateBudget(b, txs))
	}
	return statuses
}

// CollectAlerts returns only the exceeded budgets. An empty result means
// no alert is shown; there is no distinguished "all ok" value.
func CollectAlerts(statuses []BudgetStatus) []BudgetStatus {
	var alerts []BudgetStatus
	for _, s := range statuses {
		if s.Exceeded {
			alerts = append(alerts, s)
		}
	}
	return alerts
}
