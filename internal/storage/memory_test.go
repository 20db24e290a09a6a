package storage

import (
	"context"
	"testing"
	"time"

	"gastos/internal/core"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	e, err := core.NewExpense(12.5, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), "coffee", "Food")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveExpenses(ctx, []core.Expense{e}); err != nil {
		t.Fatalf("SaveExpenses() error = %v", err)
	}

	loaded, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != e.ID || loaded[0].Amount != 12.5 {
		t.Errorf("LoadExpenses() = %v", loaded)
	}
}

func TestMemoryRepository_EmptyLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for name, load := range map[string]func() (int, error){
		"expenses": func() (int, error) { v, err := repo.LoadExpenses(ctx); return len(v), err },
		"categories": func() (int, error) {
			v, err := repo.LoadCategories(ctx)
			return len(v), err
		},
		"alerts":   func() (int, error) { v, err := repo.LoadAlerts(ctx); return len(v), err },
		"accounts": func() (int, error) { v, err := repo.LoadAccounts(ctx); return len(v), err },
	} {
		n, err := load()
		if err != nil || n != 0 {
			t.Errorf("load %s on empty repo = %d items, err %v", name, n, err)
		}
	}
}

func TestMemoryRepository_SavedAlertsDecoupledFromLive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	a, err := core.NewAlert(100, core.Weekly, "Food")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveAlerts(ctx, []*core.Alert{a}); err != nil {
		t.Fatal(err)
	}

	// Mutating the live alert must not leak into the saved snapshot.
	a.Limit = 1

	loaded, err := repo.LoadAlerts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Limit != 100 {
		t.Errorf("LoadAlerts() = %+v, want saved limit 100", loaded)
	}
	if loaded[0].Period != core.Weekly {
		t.Errorf("reloaded alert period = %v, want weekly", loaded[0].Period)
	}
}

func TestMemoryRepository_AccountsRecomputedOnLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	ana, err := core.NewPerson("Ana", 0)
	if err != nil {
		t.Fatal(err)
	}
	bea, err := core.NewPerson("Bea", 0)
	if err != nil {
		t.Fatal(err)
	}
	acc, err := core.NewSharedAccount("flat", core.SplitEqual, []*core.Person{ana, bea})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := acc.AddExpense(100, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), "rent", "Shared", "Ana"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveAccounts(ctx, []*core.SharedAccount{acc}); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.LoadAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("LoadAccounts() = %d accounts, want 1", len(loaded))
	}
	var sum float64
	for _, p := range loaded[0].Participants {
		sum += p.Balance
	}
	if sum != 0 {
		t.Errorf("reloaded balances sum = %v, want 0", sum)
	}
	p, ok := loaded[0].Participant("Ana")
	if !ok || p.Balance != 50 {
		t.Errorf("Ana reloaded balance = %v, want 50", p)
	}
}
