// Package worker runs background maintenance over a loaded application
// session.
package worker

import (
	"context"
	"log/slog"
	"time"

	"gastos/internal/services"
)

// AlertWorker re-verifies every alert on a fixed interval. The HTTP paths
// already verify after each mutation; the worker exists for breaches that
// happen with no traffic at all, such as a weekly window rolling over while
// nobody registers anything.
type AlertWorker struct {
	alerts   *services.AlertService
	interval time.Duration
}

func NewAlertWorker(alerts *services.AlertService, interval time.Duration) *AlertWorker {
	return &AlertWorker{
		alerts:   alerts,
		interval: interval,
	}
}

// Run blocks until the context is cancelled, verifying once immediately and
// then on every tick. Verification errors are logged and the loop keeps
// going.
func (w *AlertWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Alert worker started", "interval", w.interval)

	w.verify(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Alert worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.verify(ctx)
		}
	}
}

func (w *AlertWorker) verify(ctx context.Context) {
	fired, err := w.alerts.VerifyAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Periodic alert verification failed", "error", err)
		return
	}
	if len(fired) > 0 {
		slog.InfoContext(ctx, "Periodic verification fired notifications", "count", len(fired))
	}
}
