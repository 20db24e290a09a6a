package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/registry"
	"gastos/internal/storage"
)

// AlertService manages spending alerts and their notification journal. Every
// mutation persists the whole alert collection; every verification pass
// publishes a breach event per new notification.
type AlertService struct {
	alerts     *registry.Alerts
	expenses   *registry.Expenses
	categories *registry.Categories
	storage    storage.Repository
	amqpClient *amqp.Client
	now        func() time.Time
}

func NewAlertService(alerts *registry.Alerts, expenses *registry.Expenses, categories *registry.Categories, repo storage.Repository, amqpClient *amqp.Client) *AlertService {
	return &AlertService{
		alerts:     alerts,
		expenses:   expenses,
		categories: categories,
		storage:    repo,
		amqpClient: amqpClient,
		now:        time.Now,
	}
}

// Create registers an active alert. A non-empty category must name an existing
// category; empty means the alert watches all spend.
func (s *AlertService) Create(ctx context.Context, limit float64, period core.Period, category string) (*core.Alert, error) {
	if category != "" {
		if _, ok := s.categories.ByName(category); !ok {
			return nil, &core.NotFoundError{Kind: "category", Key: category}
		}
	}
	alert, err := core.NewAlert(limit, period, category)
	if err != nil {
		return nil, err
	}
	s.alerts.Add(alert)
	if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
		return nil, fmt.Errorf("save alerts: %w", err)
	}
	return alert, nil
}

// SetLimit updates the alert's spend limit.
func (s *AlertService) SetLimit(ctx context.Context, id string, limit float64) error {
	alert, ok := s.alerts.ByID(id)
	if !ok {
		return &core.NotFoundError{Kind: "alert", Key: id}
	}
	if err := alert.SetLimit(limit); err != nil {
		return err
	}
	if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

// SetActive toggles whether the alert participates in verification. The
// notification journal is untouched either way.
func (s *AlertService) SetActive(ctx context.Context, id string, active bool) error {
	alert, ok := s.alerts.ByID(id)
	if !ok {
		return &core.NotFoundError{Kind: "alert", Key: id}
	}
	alert.Active = active
	if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

// Delete removes the alert and its notifications.
func (s *AlertService) Delete(ctx context.Context, id string) error {
	if !s.alerts.Remove(id) {
		return &core.NotFoundError{Kind: "alert", Key: id}
	}
	if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

func (s *AlertService) ByID(id string) (*core.Alert, error) {
	alert, ok := s.alerts.ByID(id)
	if !ok {
		return nil, &core.NotFoundError{Kind: "alert", Key: id}
	}
	return alert, nil
}

func (s *AlertService) All() []*core.Alert {
	return s.alerts.All()
}

// VerifyAll evaluates every alert against the personal expense set, persists
// the journal when anything fired, and publishes one breach event per new
// notification. Publish failures are logged, never surfaced: the notification
// is already journaled locally.
func (s *AlertService) VerifyAll(ctx context.Context) ([]*core.Notification, error) {
	fired, err := s.alerts.VerifyAll(s.expenses.All(), s.now())
	if err != nil {
		return nil, fmt.Errorf("verify alerts: %w", err)
	}
	if len(fired) == 0 {
		return nil, nil
	}
	if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
		return fired, fmt.Errorf("save alerts: %w", err)
	}
	for _, n := range fired {
		if err := s.amqpClient.PublishAlertBreach(ctx, n.AlertID, n.ID, n.Message); err != nil {
			slog.ErrorContext(ctx, "Failed to publish breach event",
				"alert_id", n.AlertID,
				"notification_id", n.ID,
				"error", err)
		}
	}
	return fired, nil
}

// verifyAfterChange is the hook the expense paths call after a mutation.
// Verification problems must not fail the mutation that triggered them.
func (s *AlertService) verifyAfterChange(ctx context.Context) {
	if _, err := s.VerifyAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Alert verification after change failed", "error", err)
	}
}

// Unread returns every unread notification across all alerts.
func (s *AlertService) Unread() []*core.Notification {
	return s.alerts.Unread()
}

// Notifications returns the full journal, read and unread.
func (s *AlertService) Notifications() []*core.Notification {
	return s.alerts.Notifications()
}

func (s *AlertService) CountUnread() int {
	return s.alerts.CountUnread()
}

// MarkRead marks a single notification as read.
func (s *AlertService) MarkRead(ctx context.Context, notificationID string) error {
	for _, n := range s.alerts.Notifications() {
		if n.ID == notificationID {
			n.MarkRead()
			if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
				return fmt.Errorf("save alerts: %w", err)
			}
			return nil
		}
	}
	return &core.NotFoundError{Kind: "notification", Key: notificationID}
}

// MarkAllRead marks every unread notification as read.
func (s *AlertService) MarkAllRead(ctx context.Context) error {
	unread := s.alerts.Unread()
	if len(unread) == 0 {
		return nil
	}
	for _, n := range unread {
		n.MarkRead()
	}
	if err := s.storage.SaveAlerts(ctx, s.alerts.All()); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}
