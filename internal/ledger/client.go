// Package ledger is the read-side client for the ledger service, the
// system of record for transactions, budgets, categories, goals and
// accounts. The engine only consumes the read shapes; mutations belong to
// the CRUD layer that owns them.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"budgetwise/internal/core"
)

// StatusError is a non-2xx reply from the ledger service. It is
// retryable from the caller's point of view; the engine does no local
// recovery beyond mapping 401 to core.ErrAuthExpired.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ledger %s: unexpected status %d", e.Endpoint, e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a ledger client. The timeout applies per request.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ledger base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse ledger base URL: %w", err)
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

func (c *Client) get(ctx context.Context, session core.Session, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ledger %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("ledger %s: %w", path, core.ErrAuthExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: path, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ledger %s: %w", path, err)
	}
	return nil
}

// Transactions returns every ledger entry visible to the session.
// Records with malformed amounts, dates or kinds are skipped with a
// warning; the rest of the batch survives.
func (c *Client) Transactions(ctx context.Context, session core.Session) ([]core.Transaction, error) {
	var dtos []transactionDTO
	if err := c.get(ctx, session, "/api/transactions", &dtos); err != nil {
		return nil, err
	}
	return decodeTransactions(dtos, c.logger), nil
}

func (c *Client) Categories(ctx context.Context, session core.Session) ([]core.Category, error) {
	var dtos []categoryDTO
	if err := c.get(ctx, session, "/api/categories", &dtos); err != nil {
		return nil, err
	}
	categories := make([]core.Category, 0, len(dtos))
	for _, d := range dtos {
		categories = append(categories, core.Category{ID: d.CategoryID, Name: d.CategoryName})
	}
	return categories, nil
}

func (c *Client) Budgets(ctx context.Context, session core.Session) ([]core.Budget, error) {
	var dtos []budgetDTO
	if err := c.get(ctx, session, "/api/budgets", &dtos); err != nil {
		return nil, err
	}
	budgets := make([]core.Budget, 0, len(dtos))
	for _, d := range dtos {
		b, err := d.toCore()
		if err != nil {
			c.logger.Warn("Skipping malformed budget", "budget_id", d.BudgetID, "error", err)
			continue
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

func (c *Client) Goals(ctx context.Context, session core.Session) ([]core.Goal, error) {
	var dtos []goalDTO
	if err := c.get(ctx, session, "/api/goals", &dtos); err != nil {
		return nil, err
	}
	goals := make([]core.Goal, 0, len(dtos))
	for _, d := range dtos {
		g, err := d.toCore()
		if err != nil {
			c.logger.Warn("Skipping malformed goal", "goal_id", d.GoalID, "error", err)
			continue
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (c *Client) Accounts(ctx context.Context, session core.Session) ([]core.Account, error) {
	var dtos []accountDTO
	if err := c.get(ctx, session, "/api/accounts", &dtos); err != nil {
		return nil, err
	}
	accounts := make([]core.Account, 0, len(dtos))
	for _, d := range dtos {
		a, err := d.toCore()
		if err != nil {
			c.logger.Warn("Skipping malformed account", "account_id", d.AccountID, "error", err)
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}
