// Package worker runs periodic background maintenance.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// Cleaner drops expired in-process state.
type Cleaner interface {
	Cleanup()
}

// SessionCleanupConfig holds configuration for the session cleanup worker.
type SessionCleanupConfig struct {
	Interval time.Duration
	// Retention keeps inactive sessions around for this long before removal.
	Retention time.Duration
}

// DefaultSessionCleanupConfig returns the default worker configuration.
func DefaultSessionCleanupConfig() SessionCleanupConfig {
	return SessionCleanupConfig{
		Interval:  time.Hour,
		Retention: 24 * time.Hour,
	}
}

// SessionCleanupWorker removes expired and revoked sessions.
type SessionCleanupWorker struct {
	sessions  adapter.SessionRepository
	clock     adapter.Clock
	cleaners  []Cleaner
	interval  time.Duration
	retention time.Duration
}

// NewSessionCleanupWorker creates a new session cleanup worker.
// Each cleaner is also run on every tick.
func NewSessionCleanupWorker(sessions adapter.SessionRepository, clock adapter.Clock, config SessionCleanupConfig, cleaners ...Cleaner) *SessionCleanupWorker {
	defaults := DefaultSessionCleanupConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Retention < 0 {
		config.Retention = defaults.Retention
	}
	return &SessionCleanupWorker{
		sessions:  sessions,
		clock:     clock,
		cleaners:  cleaners,
		interval:  config.Interval,
		retention: config.Retention,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *SessionCleanupWorker) Start(ctx context.Context) {
	slog.Info("Session cleanup worker started",
		"interval", w.interval,
		"retention", w.retention,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Session cleanup worker shutting down")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single cleanup pass and returns the number of sessions removed.
func (w *SessionCleanupWorker) RunOnce(ctx context.Context) int64 {
	for _, cleaner := range w.cleaners {
		cleaner.Cleanup()
	}

	cutoff := w.clock.Now().UTC().Add(-w.retention)
	removed, err := w.sessions.DeleteInactive(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to delete inactive sessions", "error", err)
		return 0
	}

	if removed > 0 {
		slog.Debug("Deleted inactive sessions", "count", removed, "cutoff", cutoff)
	}
	return removed
}
