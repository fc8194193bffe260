package analytics

// Typed payloads for the analytics service. Each insight arrives as a
// self-contained JSON document; the engine validates shape at this
// boundary instead of passing untyped blobs downstream. Only the fields
// the dashboard reads are declared; everything else is dropped on decode.

// Summary is the header block of the full-insights document.
type Summary struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalSpending     float64 `json:"total_spending"`
}

// CategoryTrend compares one category's current month against the
// previous one.
type CategoryTrend struct {
	Category          string  `json:"category"`
	CurrentSpending   float64 `json:"current_spending"`
	PreviousSpending  float64 `json:"previous_spending"`
	GrowthRate        float64 `json:"growth_rate"`
	Trend             string  `json:"trend"`
	Alert             string  `json:"alert"`
	TotalTransactions int     `json:"total_transactions"`
}

type CategoryTrendReport struct {
	Categories         []CategoryTrend `json:"categories"`
	TopGrowingCategory string          `json:"top_growing_category"`
	AnalysisDate       string          `json:"analysis_date"`
}

// DayStat is spending aggregated over one weekday.
type DayStat struct {
	Day                   string  `json:"day"`
	TotalSpent            float64 `json:"total_spent"`
	Transactions          int     `json:"transactions"`
	AveragePerTransaction float64 `json:"average_per_transaction"`
}

type MonthlyPeriodAnalysis struct {
	EarlyMonthTotal float64 `json:"early_month_total"`
	MidMonthTotal   float64 `json:"mid_month_total"`
	LateMonthTotal  float64 `json:"late_month_total"`
	PeakPeriod      string  `json:"peak_period"`
}

type DayPatternReport struct {
	PeakDayOfWeek  *DayStat              `json:"peak_day_of_week"`
	WeeklyPattern  []DayStat             `json:"weekly_spending_pattern"`
	HighSpendDates []int                 `json:"high_spending_dates"`
	MonthlyPeriods MonthlyPeriodAnalysis `json:"monthly_period_analysis"`
	Insights       []string              `json:"insights"`
}

type Forecast struct {
	PredictedSpending float64 `json:"predicted_spending"`
	Trend             string  `json:"trend"`
	Confidence        string  `json:"confidence"`
}

type Recommendation struct {
	Category           string  `json:"category"`
	RecommendedBudget  float64 `json:"recommended_budget"`
	CurrentSpending    float64 `json:"current_spending"`
	Variance           float64 `json:"variance"`
	VariancePercent    float64 `json:"variance_percent"`
	Status             string  `json:"status"`
	SavingsOpportunity float64 `json:"savings_opportunity"`
}

type RecommendationReport struct {
	Recommendations        []Recommendation `json:"recommendations"`
	TotalRecommendedBudget float64          `json:"total_recommended_budget"`
	TotalCurrentSpending   float64          `json:"total_current_spending"`
}

type Anomaly struct {
	ExpenseID   int64   `json:"expense_id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
}

type AnomalyReport struct {
	TotalAnomalies int       `json:"total_anomalies"`
	Anomalies      []Anomaly `json:"anomalies"`
	Insight        string    `json:"insight"`
}

type HealthBreakdown struct {
	Consistency     float64 `json:"consistency"`
	Trend           float64 `json:"trend"`
	Diversity       float64 `json:"diversity"`
	BudgetAdherence float64 `json:"budget_adherence"`
}

type HealthScore struct {
	OverallScore float64         `json:"overall_score"`
	Grade        string          `json:"grade"`
	Breakdown    HealthBreakdown `json:"breakdown"`
	Insights     []string        `json:"insights"`
}

// Bundle is the composite of all independently-sourced insights. Every
// field is optional: nil means that source failed on this pass, and the
// absence of one never blocks the others.
type Bundle struct {
	Summary         *Summary              `json:"summary,omitempty"`
	CategoryTrends  *CategoryTrendReport  `json:"categoryTrends,omitempty"`
	PeakDays        *DayPatternReport     `json:"peakDays,omitempty"`
	Forecast        *Forecast             `json:"forecast,omitempty"`
	Recommendations *RecommendationReport `json:"recommendations,omitempty"`
	Anomalies       *AnomalyReport        `json:"anomalies,omitempty"`
	Health          *HealthScore          `json:"health,omitempty"`
}

// Empty reports whether no source contributed anything.
func (b *Bundle) Empty() bool {
	return b.Summary == nil &&
		b.CategoryTrends == nil &&
		b.PeakDays == nil &&
		b.Forecast == nil &&
		b.Recommendations == nil &&
		b.Anomalies == nil &&
		b.Health == nil
}
