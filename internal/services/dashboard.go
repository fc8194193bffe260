// Package services assembles the ledger reads and the derived insight
// figures into the view models the HTTP layer serves.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"budgetwise/internal/core"
	"budgetwise/internal/insights"
	"budgetwise/internal/ledger"
	"budgetwise/internal/log"
)

// EventPublisher pushes engine events to a broker. A nil publisher is
// valid; events are then dropped silently.
type EventPublisher interface {
	PublishBudgetAlert(ctx context.Context, budgetID, categoryID int64, spent, limit string) error
	PublishGoalCompleted(ctx context.Context, goalID int64, name, target string) error
}

// GoalView pairs a goal with its derived progress.
type GoalView struct {
	Goal            core.Goal
	ProgressPercent decimal.Decimal
	Completed       bool
}

// DashboardView is one consistent snapshot of everything the dashboard
// shows. It is assembled from a single load pass and replaced wholesale;
// nothing in it is mutated after assembly.
type DashboardView struct {
	MonthlySpend       decimal.Decimal
	PreviousMonthSpend decimal.Decimal
	MonthDelta         decimal.Decimal
	TotalBudget        decimal.Decimal
	OverTotalBudget    bool
	Distribution       map[string]decimal.Decimal
	Trend              []insights.TrendPoint
	Recent             []core.Transaction
	Budgets            []insights.BudgetStatus
	Alerts             []insights.BudgetStatus
	Goals              []GoalView
	Accounts           []core.Account
	GeneratedAt        time.Time
}

// TransferResult is what a goal transfer hands back to the caller: the
// updated goal plus the one-shot completion signal.
type TransferResult struct {
	Goal            core.Goal
	ProgressPercent decimal.Decimal
	Completed       bool
	JustCompleted   bool
}

type DashboardService struct {
	ledger    *ledger.Client
	publisher EventPublisher
	logger    *log.Logger
	now       func() time.Time

	// alerted holds the budget IDs that were exceeded on the previous
	// pass, so a continuously exceeded budget publishes one event on the
	// crossing, not one per refresh.
	alertMu sync.Mutex
	alerted map[int64]struct{}
}

func NewDashboardService(ledgerClient *ledger.Client, publisher EventPublisher, logger *log.Logger) *DashboardService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DashboardService{
		ledger:    ledgerClient,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentDashboard),
		now:       time.Now,
		alerted:   make(map[int64]struct{}),
	}
}

// Load fetches all ledger sources concurrently and assembles the view.
// An expired session aborts the whole load; any other source failure
// degrades that section to empty with a warning, so one flaky endpoint
// cannot blank the entire dashboard.
func (s *DashboardService) Load(ctx context.Context, session core.Session) (*DashboardView, error) {
	var (
		txs        []core.Transaction
		categories []core.Category
		budgets    []core.Budget
		goals      []core.Goal
		accounts   []core.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.fetch(gctx, "transactions", func(ctx context.Context) error {
		var err error
		txs, err = s.ledger.Transactions(ctx, session)
		return err
	}))
	g.Go(s.fetch(gctx, "categories", func(ctx context.Context) error {
		var err error
		categories, err = s.ledger.Categories(ctx, session)
		return err
	}))
	g.Go(s.fetch(gctx, "budgets", func(ctx context.Context) error {
		var err error
		budgets, err = s.ledger.Budgets(ctx, session)
		return err
	}))
	g.Go(s.fetch(gctx, "goals", func(ctx context.Context) error {
		var err error
		goals, err = s.ledger.Goals(ctx, session)
		return err
	}))
	g.Go(s.fetch(gctx, "accounts", func(ctx context.Context) error {
		var err error
		accounts, err = s.ledger.Accounts(ctx, session)
		return err
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := s.assemble(txs, categories, budgets, goals, accounts)
	s.publishAlerts(ctx, view.Alerts)

	s.logger.InfoContext(ctx, "Dashboard loaded",
		log.FieldUserID, session.UserID,
		log.FieldTransactions, len(txs),
		"alerts", len(view.Alerts))
	return view, nil
}

// fetch wraps one ledger read. Only an expired session propagates; every
// other error is downgraded to a warning and an empty section.
func (s *DashboardService) fetch(ctx context.Context, source string, fn func(context.Context) error) func() error {
	return func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, core.ErrAuthExpired) {
			return err
		}
		s.logger.WarnContext(ctx, "Ledger source failed, serving section empty",
			log.FieldSource, source, log.FieldError, err)
		return nil
	}
}

func (s *DashboardService) assemble(
	txs []core.Transaction,
	categories []core.Category,
	budgets []core.Budget,
	goals []core.Goal,
	accounts []core.Account,
) *DashboardView {
	now := s.now()
	currentMonth := core.MonthOf(now)
	previousMonth := core.MonthOf(now.AddDate(0, -1, 0))

	monthlySpend := insights.MonthSpend(txs, currentMonth)
	previousSpend := insights.MonthSpend(txs, previousMonth)
	totalBudget := insights.TotalBudgetLimit(budgets)
	statuses := insights.EvaluateBudgets(budgets, txs)

	goalViews := make([]GoalView, 0, len(goals))
	for _, goal := range goals {
		goalViews = append(goalViews, GoalView{
			Goal:            goal,
			ProgressPercent: insights.GoalProgress(goal),
			Completed:       insights.IsCompleted(goal),
		})
	}

	return &DashboardView{
		MonthlySpend:       monthlySpend,
		PreviousMonthSpend: previousSpend,
		MonthDelta:         monthlySpend.Sub(previousSpend),
		TotalBudget:        totalBudget,
		OverTotalBudget:    insights.OverTotalBudget(monthlySpend, totalBudget),
		Distribution:       insights.CategoryDistribution(txs, core.CategoryNames(categories)),
		Trend:              insights.MonthlyTrend(txs),
		Recent:             insights.RecentTransactions(txs, insights.DefaultRecentLimit),
		Budgets:            statuses,
		Alerts:             insights.CollectAlerts(statuses),
		Goals:              goalViews,
		Accounts:           accounts,
		GeneratedAt:        now,
	}
}

// publishAlerts emits an event for each budget that crossed into the
// exceeded state since the previous pass. A budget that recovers and
// later exceeds again alerts again; one that stays exceeded does not
// repeat.
func (s *DashboardService) publishAlerts(ctx context.Context, alerts []insights.BudgetStatus) {
	s.alertMu.Lock()
	previous := s.alerted
	current := make(map[int64]struct{}, len(alerts))
	var newly []insights.BudgetStatus
	for _, alert := range alerts {
		current[alert.Budget.ID] = struct{}{}
		if _, ok := previous[alert.Budget.ID]; !ok {
			newly = append(newly, alert)
		}
	}
	s.alerted = current
	s.alertMu.Unlock()

	if s.publisher == nil {
		return
	}
	for _, alert := range newly {
		err := s.publisher.PublishBudgetAlert(ctx,
			alert.Budget.ID, alert.Budget.CategoryID,
			alert.Spent.String(), alert.Budget.Limit.String())
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to publish budget alert",
				log.FieldBudgetID, alert.Budget.ID, log.FieldError, err)
		}
	}
}

// ErrGoalNotFound is returned when a transfer names a goal the ledger
// does not know.
var ErrGoalNotFound = errors.New("goal not found")

// TransferToGoal applies an additive transfer to one of the session's
// goals and reports the outcome. The completion event fires only on the
// transfer that crosses the target from below.
//
// The engine never writes the ledger: the updated goal is returned to
// the caller, which persists it through the CRUD service that owns goal
// state. Until that write lands, reloads serve the ledger's stored
// balance, and replaying the same transfer recomputes from it.
func (s *DashboardService) TransferToGoal(ctx context.Context, session core.Session, goalID int64, amount decimal.Decimal) (*TransferResult, error) {
	goals, err := s.ledger.Goals(ctx, session)
	if err != nil {
		return nil, err
	}

	var goal core.Goal
	found := false
	for _, g := range goals {
		if g.ID == goalID {
			goal = g
			found = true
			break
		}
	}
	if !found {
		return nil, ErrGoalNotFound
	}

	updated, transfer, err := insights.ApplyTransfer(goal, amount)
	if err != nil {
		return nil, err
	}

	if transfer.JustCompleted && s.publisher != nil {
		if err := s.publisher.PublishGoalCompleted(ctx, updated.ID, updated.Name, updated.Target.String()); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish goal completion",
				log.FieldGoalID, updated.ID, log.FieldError, err)
		}
	}

	s.logger.InfoContext(ctx, "Goal transfer applied",
		log.FieldGoalID, updated.ID,
		log.FieldAmount, transfer.Amount.String(),
		"just_completed", transfer.JustCompleted)

	return &TransferResult{
		Goal:            updated,
		ProgressPercent: insights.GoalProgress(updated),
		Completed:       transfer.Completed,
		JustCompleted:   transfer.JustCompleted,
	}, nil
}
