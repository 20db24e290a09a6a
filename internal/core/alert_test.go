package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPeriodWindow(t *testing.T) {
	// Wednesday 2025-06-18.
	now := time.Date(2025, time.June, 18, 15, 30, 0, 0, time.UTC)

	t.Run("weekly covers Monday through Sunday", func(t *testing.T) {
		start, end, err := Weekly.Window(now)
		if err != nil {
			t.Fatalf("Window() error = %v", err)
		}
		if start.Weekday() != time.Monday {
			t.Errorf("week start weekday = %v, want Monday", start.Weekday())
		}
		if got := start.Day(); got != 16 {
			t.Errorf("week start day = %d, want 16", got)
		}
		if end.Weekday() != time.Sunday {
			t.Errorf("week end weekday = %v, want Sunday", end.Weekday())
		}
		if got := end.Day(); got != 22 {
			t.Errorf("week end day = %d, want 22", got)
		}
	})

	t.Run("weekly on a Sunday stays in the running week", func(t *testing.T) {
		sunday := time.Date(2025, time.June, 22, 10, 0, 0, 0, time.UTC)
		start, _, err := Weekly.Window(sunday)
		if err != nil {
			t.Fatalf("Window() error = %v", err)
		}
		if got := start.Day(); got != 16 {
			t.Errorf("week start day = %d, want 16", got)
		}
	})

	t.Run("monthly covers first of month through now", func(t *testing.T) {
		start, end, err := Monthly.Window(now)
		if err != nil {
			t.Fatalf("Window() error = %v", err)
		}
		if start.Day() != 1 || start.Month() != time.June {
			t.Errorf("month start = %v, want June 1", start)
		}
		if !end.Equal(now) {
			t.Errorf("month end = %v, want now", end)
		}
	})

	t.Run("unknown period", func(t *testing.T) {
		_, _, err := Period("quarterly").Window(now)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Window() error = %v, want ValidationError", err)
		}
	})
}

func TestNewAlert_Validation(t *testing.T) {
	if _, err := NewAlert(0, Weekly, ""); err == nil {
		t.Error("NewAlert(limit=0) = nil error, want ValidationError")
	}
	if _, err := NewAlert(-5, Monthly, ""); err == nil {
		t.Error("NewAlert(limit=-5) = nil error, want ValidationError")
	}
	if _, err := NewAlert(10, Period("daily"), ""); err == nil {
		t.Error("NewAlert(unknown period) = nil error, want ValidationError")
	}
	a, err := NewAlert(10, Weekly, "Food")
	if err != nil {
		t.Fatalf("NewAlert() error = %v", err)
	}
	if !a.Active {
		t.Error("new alert should start active")
	}
}

func TestVerify_WeeklyBreach(t *testing.T) {
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	expenses := []Expense{
		expense(t, 60, now, "Food"),
		expense(t, 50, now, "Transporte"),
	}

	a, err := NewAlert(100, Weekly, "")
	if err != nil {
		t.Fatal(err)
	}

	notif, err := a.Verify(expenses, now)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if notif == nil {
		t.Fatal("Verify() fired no notification, want one")
	}
	if !strings.Contains(notif.Message, "110") || !strings.Contains(notif.Message, "100") {
		t.Errorf("message %q should contain spend 110 and limit 100", notif.Message)
	}
	if len(a.Unread()) != 1 {
		t.Errorf("unread count = %d, want 1", len(a.Unread()))
	}
}

func TestVerify_DedupUnchangedSpend(t *testing.T) {
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	expenses := []Expense{expense(t, 150, now, "Food")}

	a, err := NewAlert(100, Weekly, "")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := a.Verify(expenses, now); err != nil {
			t.Fatalf("Verify() #%d error = %v", i, err)
		}
	}
	if got := len(a.Unread()); got != 1 {
		t.Fatalf("unread after repeated verification = %d, want 1", got)
	}

	// A different over-limit spend is a distinct breach.
	expenses = append(expenses, expense(t, 25, now, "Food"))
	if _, err := a.Verify(expenses, now); err != nil {
		t.Fatal(err)
	}
	if got := len(a.Unread()); got != 2 {
		t.Fatalf("unread after changed spend = %d, want 2", got)
	}

	// Once read, the same message may notify again.
	for _, n := range a.Notifications {
		n.MarkRead()
	}
	if _, err := a.Verify(expenses, now); err != nil {
		t.Fatal(err)
	}
	if got := len(a.Unread()); got != 1 {
		t.Fatalf("unread after mark-read and re-verify = %d, want 1", got)
	}
}

func TestVerify_InactiveAlert(t *testing.T) {
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	a, err := NewAlert(10, Weekly, "")
	if err != nil {
		t.Fatal(err)
	}
	a.Active = false

	notif, err := a.Verify([]Expense{expense(t, 100, now, "Food")}, now)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if notif != nil {
		t.Errorf("inactive alert fired %v", notif)
	}
}

func TestVerify_CategoryScope(t *testing.T) {
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	expenses := []Expense{
		expense(t, 90, now, "food"),
		expense(t, 90, now, "Transporte"),
	}

	a, err := NewAlert(100, Weekly, "Food")
	if err != nil {
		t.Fatal(err)
	}
	notif, err := a.Verify(expenses, now)
	if err != nil {
		t.Fatal(err)
	}
	if notif != nil {
		t.Fatalf("Verify() fired %q, want none: category spend is 90", notif.Message)
	}

	expenses = append(expenses, expense(t, 20, now, "FOOD"))
	notif, err = a.Verify(expenses, now)
	if err != nil {
		t.Fatal(err)
	}
	if notif == nil {
		t.Fatal("Verify() fired nothing, want category breach")
	}
	if !strings.Contains(notif.Message, "in Food") {
		t.Errorf("message %q should name the category", notif.Message)
	}
}

func TestVerify_MonthlyIgnoresOtherMonths(t *testing.T) {
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	expenses := []Expense{
		expense(t, 90, day(2025, time.May, 30), "Food"),
		expense(t, 90, day(2025, time.June, 2), "Food"),
	}

	a, err := NewAlert(100, Monthly, "")
	if err != nil {
		t.Fatal(err)
	}
	notif, err := a.Verify(expenses, now)
	if err != nil {
		t.Fatal(err)
	}
	if notif != nil {
		t.Fatalf("Verify() fired %q; May spend must not count", notif.Message)
	}
}

func TestVerify_AfterReload(t *testing.T) {
	// An alert rebuilt from stored fields carries nothing but the period tag;
	// verification must still work.
	now := time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)
	reloaded := &Alert{
		ID:     "stored-alert",
		Limit:  50,
		Period: Monthly,
		Active: true,
	}

	notif, err := reloaded.Verify([]Expense{expense(t, 80, now, "Food")}, now)
	if err != nil {
		t.Fatalf("Verify() after reload error = %v", err)
	}
	if notif == nil {
		t.Fatal("Verify() after reload fired nothing, want breach")
	}
	if reloaded.Period != Monthly {
		t.Errorf("period changed across verify: %v", reloaded.Period)
	}
}

func TestNotification_MarkReadIdempotent(t *testing.T) {
	n := &Notification{ID: "n", Message: "m"}
	n.MarkRead()
	n.MarkRead()
	if !n.Read {
		t.Error("notification should stay read")
	}
}
