package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budgetwise/internal/analytics"
	"budgetwise/internal/core"
	"budgetwise/internal/insights"
	"budgetwise/internal/log"
	"budgetwise/internal/services"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sessionFromRequest reads the caller's identity. The gateway in front of
// the engine resolves authentication and forwards the user ID; the token
// is passed through to the ledger untouched.
func sessionFromRequest(r *http.Request) (core.Session, error) {
	userIDRaw := r.Header.Get("X-User-ID")
	if userIDRaw == "" {
		userIDRaw = r.URL.Query().Get("userId")
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(userIDRaw), 10, 64)
	if err != nil || userID <= 0 {
		return core.Session{}, errors.New("missing or invalid user id")
	}

	session := core.Session{UserID: userID}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		session.Token = strings.TrimPrefix(auth, "Bearer ")
	}
	if incomeRaw := r.URL.Query().Get("income"); incomeRaw != "" {
		income, err := decimal.NewFromString(incomeRaw)
		if err != nil {
			return core.Session{}, errors.New("invalid income")
		}
		session.Income = income
	}
	return session, nil
}

// View shapes served to the frontend. Amounts travel as decimal strings.
type (
	trendPointJSON struct {
		Month string `json:"month"`
		Spent string `json:"spent"`
	}

	transactionJSON struct {
		TransactionID int64  `json:"transactionId"`
		AccountID     int64  `json:"accountId"`
		CategoryID    int64  `json:"categoryId"`
		Type          string `json:"type"`
		Amount        string `json:"amount"`
		Description   string `json:"description"`
		Date          string `json:"transactionDate"`
	}

	budgetStatusJSON struct {
		BudgetID        int64  `json:"budgetId"`
		CategoryID      int64  `json:"categoryId"`
		Limit           string `json:"amountLimit"`
		Spent           string `json:"spent"`
		ProgressPercent string `json:"progressPercent"`
		Exceeded        bool   `json:"exceeded"`
	}

	goalJSON struct {
		GoalID          int64  `json:"goalId"`
		Name            string `json:"goalName"`
		Target          string `json:"targetAmount"`
		Current         string `json:"currentAmount"`
		ProgressPercent string `json:"progressPercent"`
		Completed       bool   `json:"completed"`
	}

	accountJSON struct {
		AccountID int64  `json:"accountId"`
		Name      string `json:"accountName"`
		Balance   string `json:"balance"`
		Currency  string `json:"currency"`
	}

	dashboardJSON struct {
		MonthlySpend       string             `json:"monthlySpend"`
		PreviousMonthSpend string             `json:"previousMonthSpend"`
		MonthDelta         string             `json:"monthDelta"`
		TotalBudget        string             `json:"totalBudget"`
		OverTotalBudget    bool               `json:"overTotalBudget"`
		Distribution       map[string]string  `json:"distribution"`
		Trend              []trendPointJSON   `json:"trend"`
		Recent             []transactionJSON  `json:"recentTransactions"`
		Budgets            []budgetStatusJSON `json:"budgets"`
		Alerts             []budgetStatusJSON `json:"alerts"`
		Goals              []goalJSON         `json:"goals"`
		Accounts           []accountJSON      `json:"accounts"`
		GeneratedAt        time.Time          `json:"generatedAt"`
	}
)

func toBudgetStatusJSON(statuses []insights.BudgetStatus) []budgetStatusJSON {
	out := make([]budgetStatusJSON, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, budgetStatusJSON{
			BudgetID:        s.Budget.ID,
			CategoryID:      s.Budget.CategoryID,
			Limit:           s.Budget.Limit.String(),
			Spent:           s.Spent.String(),
			ProgressPercent: s.ProgressPercent.String(),
			Exceeded:        s.Exceeded,
		})
	}
	return out
}

func toDashboardJSON(view *services.DashboardView) dashboardJSON {
	dist := make(map[string]string, len(view.Distribution))
	for name, amount := range view.Distribution {
		dist[name] = amount.String()
	}

	trend := make([]trendPointJSON, 0, len(view.Trend))
	for _, p := range view.Trend {
		trend = append(trend, trendPointJSON{Month: p.Month.String(), Spent: p.Spent.String()})
	}

	recent := make([]transactionJSON, 0, len(view.Recent))
	for _, tx := range view.Recent {
		recent = append(recent, transactionJSON{
			TransactionID: tx.ID,
			AccountID:     tx.AccountID,
			CategoryID:    tx.CategoryID,
			Type:          string(tx.Kind),
			Amount:        tx.Amount.String(),
			Description:   tx.Description,
			Date:          tx.OccurredAt.Format(time.RFC3339),
		})
	}

	goals := make([]goalJSON, 0, len(view.Goals))
	for _, g := range view.Goals {
		goals = append(goals, goalJSON{
			GoalID:          g.Goal.ID,
			Name:            g.Goal.Name,
			Target:          g.Goal.Target.String(),
			Current:         g.Goal.Current.String(),
			ProgressPercent: g.ProgressPercent.String(),
			Completed:       g.Completed,
		})
	}

	accounts := make([]accountJSON, 0, len(view.Accounts))
	for _, a := range view.Accounts {
		accounts = append(accounts, accountJSON{
			AccountID: a.ID,
			Name:      a.Name,
			Balance:   a.Balance.String(),
			Currency:  a.Currency,
		})
	}

	return dashboardJSON{
		MonthlySpend:       view.MonthlySpend.String(),
		PreviousMonthSpend: view.PreviousMonthSpend.String(),
		MonthDelta:         view.MonthDelta.String(),
		TotalBudget:        view.TotalBudget.String(),
		OverTotalBudget:    view.OverTotalBudget,
		Distribution:       dist,
		Trend:              trend,
		Recent:             recent,
		Budgets:            toBudgetStatusJSON(view.Budgets),
		Alerts:             toBudgetStatusJSON(view.Alerts),
		Goals:              goals,
		Accounts:           accounts,
		GeneratedAt:        view.GeneratedAt,
	}
}

func dashboardCacheKey(userID int64) string {
	return "dashboard:" + strconv.FormatInt(userID, 10)
}

// loadView serves the cached snapshot when fresh, otherwise runs a full
// refresh and caches the result.
func (s *Server) loadView(r *http.Request, session core.Session) (*services.DashboardView, error) {
	key := dashboardCacheKey(session.UserID)
	if view, ok := s.viewCache.Get(key); ok {
		s.logger.DebugContext(r.Context(), "Dashboard cache hit", log.FieldUserID, session.UserID)
		return view, nil
	}

	view, err := s.loader.Refresh(r.Context(), session)
	if err != nil {
		return nil, err
	}
	s.viewCache.Set(key, view)
	return view, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, err := sessionFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.loadView(r, session)
	if err != nil {
		s.writeDashboardError(w, r, session, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardJSON(view))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, err := sessionFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.loadView(r, session)
	if err != nil {
		s.writeDashboardError(w, r, session, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Alerts []budgetStatusJSON `json:"alerts"`
	}{Alerts: toBudgetStatusJSON(view.Alerts)})
}

func (s *Server) writeDashboardError(w http.ResponseWriter, r *http.Request, session core.Session, err error) {
	if errors.Is(err, core.ErrAuthExpired) {
		writeError(w, http.StatusUnauthorized, "authentication expired")
		return
	}
	s.logger.ErrorContext(r.Context(), "Dashboard load failed",
		log.FieldUserID, session.UserID, log.FieldError, err)
	writeError(w, http.StatusInternalServerError, "dashboard load failed")
}

func insightsCacheKey(session core.Session) string {
	return fmt.Sprintf("insights:%d:%s", session.UserID, session.Income.String())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, err := sessionFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := insightsCacheKey(session)
	if bundle, ok := s.bundleCache.Get(key); ok {
		s.logger.DebugContext(r.Context(), "Insight bundle cache hit", log.FieldUserID, session.UserID)
		writeJSON(w, http.StatusOK, bundle)
		return
	}

	bundle, err := s.orchestrator.FetchBundle(r.Context(), session)
	if err != nil {
		// A fully failed orchestration is a gateway problem, not ours.
		// Unreachable is worth an immediate retry; no data is not.
		switch {
		case errors.Is(err, analytics.ErrUnreachable):
			writeJSON(w, http.StatusBadGateway, errorResponse{
				Error: "insight service unreachable", Retryable: true,
			})
		case errors.Is(err, analytics.ErrNoInsightData):
			writeJSON(w, http.StatusBadGateway, errorResponse{
				Error: "no insight data available",
			})
		default:
			s.logger.ErrorContext(r.Context(), "Insight fetch failed",
				log.FieldUserID, session.UserID, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "insight fetch failed")
		}
		return
	}

	s.bundleCache.Set(key, bundle)
	writeJSON(w, http.StatusOK, bundle)
}

type transferRequest struct {
	GoalID int64  `json:"goalId"`
	Amount string `json:"amount"`
}

type transferResponse struct {
	Goal          goalJSON `json:"goal"`
	JustCompleted bool     `json:"justCompleted"`
}

func (s *Server) handleGoalTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, err := sessionFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	result, err := s.service.TransferToGoal(r.Context(), session, req.GoalID, amount)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAuthExpired):
			writeError(w, http.StatusUnauthorized, "authentication expired")
		case errors.Is(err, services.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "goal not found")
		case errors.Is(err, core.ErrInvalidAmount):
			writeError(w, http.StatusUnprocessableEntity, "amount must be positive")
		default:
			s.logger.ErrorContext(r.Context(), "Goal transfer failed",
				log.FieldGoalID, req.GoalID, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "goal transfer failed")
		}
		return
	}

	// Drop the snapshot so the next read reflects whatever goal state
	// the ledger holds once the caller persists the transfer.
	s.viewCache.Delete(dashboardCacheKey(session.UserID))

	writeJSON(w, http.StatusOK, transferResponse{
		Goal: goalJSON{
			GoalID:          result.Goal.ID,
			Name:            result.Goal.Name,
			Target:          result.Goal.Target.String(),
			Current:         result.Goal.Current.String(),
			ProgressPercent: result.ProgressPercent.String(),
			Completed:       result.Completed,
		},
		JustCompleted: result.JustCompleted,
	})
}
