// Package insights derives the dashboard figures from raw ledger records:
// KPI totals, category distributions, monthly trend series, budget
// adherence and goal progress. Everything here is pure and synchronous;
// callers pass the full record set on every pass.
package insights

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"budgetwise/internal/core"
)

// OthersCategory is the fallback bucket for transactions whose category
// reference cannot be resolved.
const OthersCategory = "Others"

// DefaultRecentLimit bounds the recent-transactions list when the caller
// does not ask for a specific size.
const DefaultRecentLimit = 5

// TrendPoint is one month's expense total in a trend series.
type TrendPoint struct {
	Month core.MonthKey
	Spent decimal.Decimal
}

// MonthSpend sums expense magnitudes for the given calendar month.
func MonthSpend(txs []core.Transaction, month core.MonthKey) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		if core.MonthOf(tx.OccurredAt) == month {
			total = total.Add(tx.Amount.Abs())
		}
	}
	return total
}

// CurrentMonthSpend sums expense magnitudes for the month containing now.
func CurrentMonthSpend(txs []core.Transaction, now time.Time) decimal.Decimal {
	return MonthSpend(txs, core.MonthOf(now))
}

// CategoryDistribution groups expense transactions by resolved category
// name, summing magnitudes. Unresolvable references land in
// OthersCategory. Categories with no matching transactions are simply
// absent; the result carries no zero entries, so the sum of its values
// always equals the expense total of the input set.
func CategoryDistribution(txs []core.Transaction, names map[int64]string) map[string]decimal.Decimal {
	dist := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		name, ok := names[tx.CategoryID]
		if !ok || name == "" {
			name = OthersCategory
		}
		dist[name] = dist[name].Add(tx.Amount.Abs())
	}
	return dist
}

// MonthlyTrend groups expense transactions by calendar month and emits the
// buckets in ascending chronological order. Months without transactions
// are absent, never zero-filled: consumers must expect a sparse series.
func MonthlyTrend(txs []core.Transaction) []TrendPoint {
	buckets := make(map[core.MonthKey]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		key := core.MonthOf(tx.OccurredAt)
		buckets[key] = buckets[key].Add(tx.Amount.Abs())
	}

	points := make([]TrendPoint, 0, len(buckets))
	for key, spent := range buckets {
		points = append(points, TrendPoint{Month: key, Spent: spent})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})
	return points
}

// RecentTransactions returns the newest transactions first, truncated to
// limit (DefaultRecentLimit when limit is not positive). Ties on the
// timestamp keep their input order. The input slice is not modified.
func RecentTransactions(txs []core.Transaction, limit int) []core.Transaction {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// TotalBudgetLimit sums the limits of all supplied budgets, the "Total
// Budget" KPI shown next to the monthly spend.
func TotalBudgetLimit(budgets []core.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Limit)
	}
	return total
}

// OverTotalBudget reports whether the month's spend exceeds the combined
// budget limit. A zero combined limit never counts as exceeded.
func OverTotalBudget(spend, totalLimit decimal.Decimal) bool {
	return totalLimit.IsPositive() && spend.GreaterThan(totalLimit)
}
