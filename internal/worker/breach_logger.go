package worker

import (
	"context"
	"log/slog"

	"gastos/internal/amqp"
)

// breachSource delivers alert breach events until the context is cancelled.
type breachSource interface {
	ConsumeAlertBreach(ctx context.Context, handler func(*amqp.AlertBreachMessage) error) error
}

// BreachLogger consumes breach events from the broker and surfaces them in
// the worker's log, the delivery channel for deployments with no UI attached.
type BreachLogger struct {
	source breachSource
}

func NewBreachLogger(source breachSource) *BreachLogger {
	return &BreachLogger{source: source}
}

// Run blocks consuming breach events until the context is cancelled or the
// source fails.
func (l *BreachLogger) Run(ctx context.Context) error {
	return l.source.ConsumeAlertBreach(ctx, func(msg *amqp.AlertBreachMessage) error {
		slog.InfoContext(ctx, "Alert breach received",
			"alert_id", msg.AlertID,
			"notification_id", msg.NotificationID,
			"message", msg.Message)
		return nil
	})
}
