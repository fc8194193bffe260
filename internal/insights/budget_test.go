package insights

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgetwise/internal/core"
)

func marchBudget(category int64, limit string) core.Budget {
	l, _ := decimal.NewFromString(limit)
	return core.Budget{
		ID:         1,
		CategoryID: category,
		Limit:      l,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Scenario from the product: two Food expenses of 200 and 150 against a
// 300 budget for March.
func TestEvaluateBudgetScenario(t *testing.T) {
	status := EvaluateBudget(marchBudget(1, "300"), marchSet())

	if !status.Spent.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("spent = %s, want 350", status.Spent)
	}
	if !status.Exceeded {
		t.Fatal("350 over a 300 limit must be exceeded")
	}
	if !status.ProgressPercent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("progress = %s, want capped 100", status.ProgressPercent)
	}
}

func TestEvaluateBudgetBoundary(t *testing.T) {
	b := marchBudget(1, "350")
	status := EvaluateBudget(b, marchSet())
	if status.Exceeded {
		t.Fatal("spent == limit must not be exceeded")
	}
	if !status.ProgressPercent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("progress = %s, want 100", status.ProgressPercent)
	}

	withPenny := append(marchSet(), tx(9, core.Expense, 1, "0.01", "2024-03-22"))
	if !EvaluateBudget(b, withPenny).Exceeded {
		t.Fatal("limit + 0.01 must be exceeded")
	}
}

func TestEvaluateBudgetFiltersPeriodAndCategory(t *testing.T) {
	txs := append(marchSet(),
		tx(10, core.Expense, 1, "500", "2024-04-01"), // outside period
		tx(11, core.Expense, 2, "500", "2024-03-10"), // other category
	)
	status := EvaluateBudget(marchBudget(1, "1000"), txs)
	if !status.Spent.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("spent = %s, want 350", status.Spent)
	}
}

func TestEvaluateBudgetZeroLimit(t *testing.T) {
	status := EvaluateBudget(marchBudget(1, "0"), marchSet())
	if !status.ProgressPercent.IsZero() {
		t.Fatalf("zero limit progress = %s, want 0", status.ProgressPercent)
	}
	if !status.Exceeded {
		t.Fatal("any spend against a zero limit is exceeded")
	}
}

func TestEvaluateBudgetsToleratesDuplicates(t *testing.T) {
	dupes := []core.Budget{marchBudget(1, "300"), marchBudget(1, "400")}
	statuses := EvaluateBudgets(dupes, marchSet())
	if len(statuses) != 2 {
		t.Fatalf("expected both duplicates evaluated, got %d", len(statuses))
	}
	if !statuses[0].Exceeded || statuses[1].Exceeded {
		t.Fatalf("independent evaluation broken: %v / %v", statuses[0].Exceeded, statuses[1].Exceeded)
	}
}

func TestCollectAlerts(t *testing.T) {
	statuses := []BudgetStatus{
		{Exceeded: true},
		{Exceeded: false},
		{Exceeded: true},
	}
	if alerts := CollectAlerts(statuses); len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts := CollectAlerts(nil); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
}
