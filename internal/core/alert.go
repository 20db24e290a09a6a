package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Period is the rolling window an alert aggregates spend over. The window is
// a pure function of the period and the current moment, so an alert reloaded
// from storage needs nothing rebuilt before verification.
type Period string

const (
	// Weekly covers the ISO week (Monday through Sunday) containing now.
	Weekly Period = "weekly"
	// Monthly covers the first day of the current month through now.
	Monthly Period = "monthly"
)

// periodWindows maps each period to its window computation.
var periodWindows = map[Period]func(now time.Time) (start, end time.Time){
	Weekly:  weeklyWindow,
	Monthly: monthlyWindow,
}

func weeklyWindow(now time.Time) (time.Time, time.Time) {
	day := startOfDay(now)
	// time.Weekday counts Sunday as 0; shift so Monday opens the week.
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	return start, endOfDay(end)
}

func monthlyWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// Window returns the [start, end] range the period covers at the given
// moment.
func (p Period) Window(now time.Time) (start, end time.Time, err error) {
	window, ok := periodWindows[p]
	if !ok {
		return time.Time{}, time.Time{}, validationErr("period", p, "unknown period")
	}
	start, end = window(now)
	return start, end, nil
}

// Valid reports whether p names a known period.
func (p Period) Valid() bool {
	_, ok := periodWindows[p]
	return ok
}

// Notification records one alert breach. It is append-only: notifications are
// never deleted, only marked read.
type Notification struct {
	ID        string    `json:"id"`
	AlertID   string    `json:"alertId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// MarkRead is idempotent.
func (n *Notification) MarkRead() {
	n.Read = true
}

// Alert compares aggregate spend within a rolling period against a limit and
// journals a notification per distinct breach.
type Alert struct {
	ID            string          `json:"id"`
	Limit         float64         `json:"limit"`
	Period        Period          `json:"period"`
	Category      string          `json:"category,omitempty"`
	Active        bool            `json:"active"`
	Notifications []*Notification `json:"notifications"`
}

// NewAlert builds an active alert. Category is optional; empty means the
// alert watches all spend.
func NewAlert(limit float64, period Period, category string) (*Alert, error) {
	if limit <= 0 {
		return nil, validationErr("limit", limit, "must be greater than 0")
	}
	if !period.Valid() {
		return nil, validationErr("period", period, "unknown period")
	}
	return &Alert{
		ID:       uuid.NewString(),
		Limit:    limit,
		Period:   period,
		Category: category,
		Active:   true,
	}, nil
}

// SetLimit validates and updates the spend limit.
func (a *Alert) SetLimit(limit float64) error {
	if limit <= 0 {
		return validationErr("limit", limit, "must be greater than 0")
	}
	a.Limit = limit
	return nil
}

// Spend sums the expenses dated within the alert's current window, optionally
// restricted to the alert's category.
func (a *Alert) Spend(expenses []Expense, now time.Time) (float64, error) {
	start, end, err := a.Period.Window(now)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range expenses {
		if !e.InRange(start, end) {
			continue
		}
		if a.Category != "" && !e.InCategory(a.Category) {
			continue
		}
		total += e.Amount
	}
	return total, nil
}

// Verify evaluates the alert against the full expense set. When spend exceeds
// the limit it appends a notification, unless an unread notification with the
// identical message already exists. The message text is the sole dedup key:
// re-verifying with an unchanged spend never duplicates, while a different
// over-limit spend is a new breach and notifies again. Returns the new
// notification, or nil when nothing fired.
func (a *Alert) Verify(expenses []Expense, now time.Time) (*Notification, error) {
	if !a.Active {
		return nil, nil
	}
	spend, err := a.Spend(expenses, now)
	if err != nil {
		return nil, err
	}
	if spend <= a.Limit {
		return nil, nil
	}
	msg := a.breachMessage(spend)
	for _, n := range a.Notifications {
		if !n.Read && n.Message == msg {
			return nil, nil
		}
	}
	notif := &Notification{
		ID:        uuid.NewString(),
		AlertID:   a.ID,
		Message:   msg,
		CreatedAt: now,
	}
	a.Notifications = append(a.Notifications, notif)
	return notif, nil
}

func (a *Alert) breachMessage(spend float64) string {
	msg := fmt.Sprintf("Alert %s! Limit exceeded: %.2f/%.2f", a.Period, spend, a.Limit)
	if a.Category != "" {
		msg += " in " + a.Category
	}
	return msg
}

// Unread returns the alert's unread notifications.
func (a *Alert) Unread() []*Notification {
	var out []*Notification
	for _, n := range a.Notifications {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}
