package analytics

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"budgetwise/internal/core"
)

var (
	// ErrUnreachable means the analytics service answered no request at
	// all; the caller may retry the whole orchestration.
	ErrUnreachable = errors.New("analytics service unreachable")

	// ErrNoInsightData means the service responded but produced no
	// usable insight from any source.
	ErrNoInsightData = errors.New("no insight data available")
)

// Orchestrator fans out one request per insight source and joins the
// outcomes into a Bundle. Fetching is a pure read: re-invoking it is
// always safe.
type Orchestrator struct {
	client *Client
	logger *slog.Logger
}

func NewOrchestrator(client *Client, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, logger: logger}
}

// FetchBundle issues all source requests concurrently and waits for every
// one to settle. Each bundle field is populated if and only if its source
// succeeded; a failing source is logged and omitted, never fatal on its
// own. Only when every source fails does the caller get a hard error:
// ErrUnreachable when the transport never connected, ErrNoInsightData
// otherwise.
func (o *Orchestrator) FetchBundle(ctx context.Context, session core.Session) (*Bundle, error) {
	bundle := &Bundle{}
	userID := session.UserID

	// One slot per source; each goroutine writes only its own slot, so
	// the join needs no lock.
	sources := []struct {
		name  string
		fetch func(context.Context) error
	}{
		{"full-insights", func(ctx context.Context) error {
			s, err := o.client.Summary(ctx, userID)
			if err == nil {
				bundle.Summary = s
			}
			return err
		}},
		{"categories", func(ctx context.Context) error {
			r, err := o.client.CategoryTrends(ctx, userID)
			if err == nil {
				bundle.CategoryTrends = r
			}
			return err
		}},
		{"peak-days", func(ctx context.Context) error {
			r, err := o.client.PeakDays(ctx, userID)
			if err == nil {
				bundle.PeakDays = r
			}
			return err
		}},
		{"forecast", func(ctx context.Context) error {
			f, err := o.client.Forecast(ctx, userID)
			if err == nil {
				bundle.Forecast = f
			}
			return err
		}},
		{"budget-recommendations", func(ctx context.Context) error {
			r, err := o.client.Recommendations(ctx, userID)
			if err == nil {
				bundle.Recommendations = r
			}
			return err
		}},
		{"anomalies", func(ctx context.Context) error {
			r, err := o.client.Anomalies(ctx, userID)
			if err == nil {
				bundle.Anomalies = r
			}
			return err
		}},
		{"health-score", func(ctx context.Context) error {
			h, err := o.client.HealthScore(ctx, userID, session.Income)
			if err == nil {
				bundle.Health = h
			}
			return err
		}},
	}

	failures := make([]error, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := src.fetch(ctx); err != nil {
				failures[i] = err
				o.logger.WarnContext(ctx, "Insight source failed",
					"source", src.name, "user_id", userID, "error", err)
			}
			// Partial failure is recovered here; never propagate so the
			// remaining sources keep running.
			return nil
		})
	}
	g.Wait()

	if bundle.Empty() {
		allUnreachable := true
		for _, err := range failures {
			if err != nil && !isUnreachable(err) {
				allUnreachable = false
				break
			}
		}
		if allUnreachable {
			return nil, ErrUnreachable
		}
		return nil, ErrNoInsightData
	}

	return bundle, nil
}
