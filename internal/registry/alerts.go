package registry

import (
	"strings"
	"time"

	"gastos/internal/core"
)

// Alerts is the alert collection plus its notification journal views.
type Alerts struct {
	items []*core.Alert
}

func NewAlerts() *Alerts {
	return &Alerts{}
}

func (s *Alerts) Add(a *core.Alert) {
	if a == nil {
		return
	}
	s.items = append(s.items, a)
}

func (s *Alerts) Replace(items []*core.Alert) {
	s.items = append([]*core.Alert(nil), items...)
}

func (s *Alerts) Remove(id string) bool {
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Alerts) ByID(id string) (*core.Alert, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

func (s *Alerts) All() []*core.Alert {
	return append([]*core.Alert(nil), s.items...)
}

func (s *Alerts) Len() int {
	return len(s.items)
}

// VerifyAll evaluates every active alert against the expense set and returns
// the notifications created by this pass. Safe to call repeatedly: dedup
// lives in Alert.Verify.
func (s *Alerts) VerifyAll(expenses []core.Expense, now time.Time) ([]*core.Notification, error) {
	var fired []*core.Notification
	for _, a := range s.items {
		n, err := a.Verify(expenses, now)
		if err != nil {
			return fired, err
		}
		if n != nil {
			fired = append(fired, n)
		}
	}
	return fired, nil
}

// Unread is the computed view over all alerts' unread notifications.
func (s *Alerts) Unread() []*core.Notification {
	var out []*core.Notification
	for _, a := range s.items {
		out = append(out, a.Unread()...)
	}
	return out
}

// Notifications returns every notification, read or not.
func (s *Alerts) Notifications() []*core.Notification {
	var out []*core.Notification
	for _, a := range s.items {
		out = append(out, a.Notifications...)
	}
	return out
}

func (s *Alerts) CountUnread() int {
	return len(s.Unread())
}

// ReferencesCategory reports whether any alert filters on the category name.
func (s *Alerts) ReferencesCategory(name string) bool {
	for _, a := range s.items {
		if a.Category != "" && strings.EqualFold(a.Category, name) {
			return true
		}
	}
	return false
}
