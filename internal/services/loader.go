package services

import (
	"context"
	"sync"

	"budgetwise/internal/core"
	"budgetwise/internal/log"
)

// Loader serializes dashboard refreshes behind a generation counter.
// Overlapping refreshes may run concurrently, but only the most recently
// started one is allowed to install its view; stale results are dropped
// so the visible snapshot never moves backwards in time.
type Loader struct {
	service *DashboardService
	logger  *log.Logger

	mu      sync.Mutex
	started uint64
	current *DashboardView
}

func NewLoader(service *DashboardService, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Loader{
		service: service,
		logger:  logger.WithComponent(log.ComponentDashboard),
	}
}

// Refresh runs one full load pass. The returned view is always the fresh
// result of this call; whether it also becomes the shared snapshot
// depends on no newer refresh having started in the meantime.
func (l *Loader) Refresh(ctx context.Context, session core.Session) (*DashboardView, error) {
	l.mu.Lock()
	l.started++
	generation := l.started
	l.mu.Unlock()

	return l.refreshWithGeneration(ctx, session, generation)
}

func (l *Loader) refreshWithGeneration(ctx context.Context, session core.Session, generation uint64) (*DashboardView, error) {
	view, err := l.service.Load(ctx, session)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if generation < l.started {
		l.logger.DebugContext(ctx, "Discarding superseded dashboard load",
			log.FieldGeneration, generation)
		return view, nil
	}
	l.current = view
	return view, nil
}

// Current returns the last installed snapshot, if any.
func (l *Loader) Current() (*DashboardView, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.current != nil
}
