package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"budgetwise/internal/analytics"
	"budgetwise/internal/ledger"
	"budgetwise/internal/services"
)

func fakeLedger(t *testing.T, unauthorized bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unauthorized {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/transactions":
			w.Write([]byte(`[
				{"transactionId":1,"accountId":1,"categoryId":10,"amount":200,"type":"EXPENSE","description":"Groceries","transactionDate":"2024-03-05T10:00:00Z"},
				{"transactionId":2,"accountId":1,"categoryId":10,"amount":150,"type":"EXPENSE","description":"Restaurant","transactionDate":"2024-03-12T19:30:00Z"}
			]`))
		case "/api/categories":
			w.Write([]byte(`[{"categoryId":10,"categoryName":"Food"}]`))
		case "/api/budgets":
			w.Write([]byte(`[{"budgetId":100,"categoryId":10,"amountLimit":300,"startDate":"2024-03-01","endDate":"2024-03-31"}]`))
		case "/api/goals":
			w.Write([]byte(`[{"goalId":7,"goalName":"Vacation","targetAmount":1000,"currentAmount":950}]`))
		case "/api/accounts":
			w.Write([]byte(`[{"accountId":1,"accountName":"Checking","balance":2400,"currency":"EUR"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func fakeAnalytics(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"No expenses found"}`))
			return
		}
		switch {
		case strings.Contains(r.URL.Path, "full-insights"):
			w.Write([]byte(`{"success":true,"data":{"total_transactions":2,"total_spending":350}}`))
		default:
			// The remaining sources are irrelevant here; an envelope
			// failure just leaves their bundle slots empty.
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"No expenses found"}`))
		}
	}))
}

func newTestServer(t *testing.T, ledgerURL, analyticsURL string) *Server {
	t.Helper()
	ledgerClient, err := ledger.NewClient(ledgerURL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("ledger.NewClient: %v", err)
	}
	analyticsClient, err := analytics.NewClient(analyticsURL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("analytics.NewClient: %v", err)
	}
	service := services.NewDashboardService(ledgerClient, nil, nil)
	loader := services.NewLoader(service, nil)
	orchestrator := analytics.NewOrchestrator(analyticsClient, nil)

	srv := NewServer(":0", loader, service, orchestrator, 16, time.Minute, nil)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("Authorization", "Bearer token-123")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestDashboardEndpoint(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		MonthlySpend string            `json:"monthlySpend"`
		TotalBudget  string            `json:"totalBudget"`
		Distribution map[string]string `json:"distribution"`
		Alerts       []struct {
			BudgetID int64 `json:"budgetId"`
		} `json:"alerts"`
		Goals []struct {
			GoalID    int64 `json:"goalId"`
			Completed bool  `json:"completed"`
		} `json:"goals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MonthlySpend == "" {
		t.Error("monthly spend missing")
	}
	if resp.Distribution["Food"] != "350" {
		t.Errorf("distribution = %v", resp.Distribution)
	}
	if len(resp.Alerts) != 1 || resp.Alerts[0].BudgetID != 100 {
		t.Fatalf("alerts = %+v", resp.Alerts)
	}
	if len(resp.Goals) != 1 || resp.Goals[0].Completed {
		t.Fatalf("goals = %+v", resp.Goals)
	}
}

func TestDashboardRequiresUserID(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDashboardAuthExpired(t *testing.T) {
	ledgerSrv := fakeLedger(t, true)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestDashboardMethodNotAllowed(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodPost, "/api/dashboard", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodGet, "/api/alerts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Alerts []struct {
			BudgetID int64  `json:"budgetId"`
			Spent    string `json:"spent"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Alerts) != 1 || resp.Alerts[0].Spent != "350" {
		t.Fatalf("alerts = %+v", resp.Alerts)
	}
}

func TestInsightsEndpointPartialData(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodGet, "/api/insights?income=50000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var bundle struct {
		Summary *struct {
			TotalTransactions int `json:"total_transactions"`
		} `json:"summary"`
		Forecast *json.RawMessage `json:"forecast"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bundle.Summary == nil || bundle.Summary.TotalTransactions != 2 {
		t.Fatalf("summary = %+v", bundle.Summary)
	}
	if bundle.Forecast != nil {
		t.Error("failed source must be omitted from the bundle")
	}
}

func TestInsightsEndpointNoData(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, false)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodGet, "/api/insights", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Retryable {
		t.Error("empty data is not retryable")
	}
}

func TestInsightsEndpointUnreachable(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	analyticsSrv.Close() // refuse connections
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodGet, "/api/insights", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Retryable {
		t.Error("unreachable service must be marked retryable")
	}
}

func TestGoalTransferEndpoint(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	rec := doRequest(t, srv, http.MethodPost, "/api/goals/transfer", `{"goalId":7,"amount":"50"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Goal struct {
			Current   string `json:"currentAmount"`
			Completed bool   `json:"completed"`
		} `json:"goal"`
		JustCompleted bool `json:"justCompleted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Goal.Current != "1000" || !resp.Goal.Completed || !resp.JustCompleted {
		t.Fatalf("transfer response = %+v", resp)
	}
}

func TestGoalTransferValidation(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed body", `not json`, http.StatusBadRequest},
		{"bad amount", `{"goalId":7,"amount":"abc"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"goalId":7,"amount":"0"}`, http.StatusUnprocessableEntity},
		{"unknown goal", `{"goalId":999,"amount":"50"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/goals/transfer", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestGoalTransferInvalidatesDashboardCache(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	doRequest(t, srv, http.MethodGet, "/api/dashboard", "")
	if _, ok := srv.viewCache.Get(dashboardCacheKey(1)); !ok {
		t.Fatal("dashboard view must be cached after a GET")
	}

	doRequest(t, srv, http.MethodPost, "/api/goals/transfer", `{"goalId":7,"amount":"10"}`)
	if _, ok := srv.viewCache.Get(dashboardCacheKey(1)); ok {
		t.Fatal("transfer must invalidate the cached view")
	}
}

func TestHealthEndpoints(t *testing.T) {
	ledgerSrv := fakeLedger(t, false)
	defer ledgerSrv.Close()
	analyticsSrv := fakeAnalytics(t, true)
	defer analyticsSrv.Close()
	srv := newTestServer(t, ledgerSrv.URL, analyticsSrv.URL)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}
