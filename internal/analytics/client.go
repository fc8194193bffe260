// Package analytics is the read-side client for the AI insight service
// plus the orchestrator that joins its independent sources into a
// best-effort composite.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("analytics base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("analytics %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode analytics %s: %w", path, err)
	}
	// The service reports "no data" as success=false with a message,
	// sometimes alongside a 404. Both read the same way here.
	if !env.Success {
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("analytics %s: %s", path, env.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("analytics %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode analytics %s payload: %w", path, err)
	}
	return nil
}

func userPath(kind string, userID int64) string {
	return "/api/analyze/" + kind + "/" + strconv.FormatInt(userID, 10)
}

// Summary reads only the totals header of the full-insights document.
func (c *Client) Summary(ctx context.Context, userID int64) (*Summary, error) {
	var s Summary
	if err := c.get(ctx, userPath("full-insights", userID), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CategoryTrends(ctx context.Context, userID int64) (*CategoryTrendReport, error) {
	var r CategoryTrendReport
	if err := c.get(ctx, userPath("categories", userID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) PeakDays(ctx context.Context, userID int64) (*DayPatternReport, error) {
	var r DayPatternReport
	if err := c.get(ctx, userPath("peak-days", userID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Forecast(ctx context.Context, userID int64) (*Forecast, error) {
	var f Forecast
	if err := c.get(ctx, userPath("forecast", userID), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) Recommendations(ctx context.Context, userID int64) (*RecommendationReport, error) {
	var r RecommendationReport
	if err := c.get(ctx, userPath("budget-recommendations", userID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Anomalies(ctx context.Context, userID int64) (*AnomalyReport, error) {
	var r AnomalyReport
	if err := c.get(ctx, userPath("anomalies", userID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// HealthScore is the one income-parameterized insight.
func (c *Client) HealthScore(ctx context.Context, userID int64, income decimal.Decimal) (*HealthScore, error) {
	query := url.Values{}
	if income.IsPositive() {
		query.Set("income", income.String())
	}
	var h HealthScore
	if err := c.get(ctx, userPath("health-score", userID), query, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// isUnreachable reports whether the error is a transport failure rather
// than a service-level refusal.
func isUnreachable(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
