package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func participants(t *testing.T, shares map[string]float64) []*Person {
	t.Helper()
	// Deterministic order for tests that index the roster.
	names := []string{"Ana", "Bea", "Carl", "Dora"}
	var out []*Person
	for _, name := range names {
		pct, ok := shares[name]
		if !ok {
			continue
		}
		p, err := NewPerson(name, pct)
		if err != nil {
			t.Fatalf("NewPerson(%q) error = %v", name, err)
		}
		out = append(out, p)
	}
	return out
}

func balanceOf(t *testing.T, a *SharedAccount, name string) float64 {
	t.Helper()
	p, ok := a.Participant(name)
	if !ok {
		t.Fatalf("participant %q missing", name)
	}
	return p.Balance
}

func assertZeroSum(t *testing.T, a *SharedAccount) {
	t.Helper()
	var sum float64
	for _, p := range a.Participants {
		sum += p.Balance
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("balance sum = %v, want 0", sum)
	}
}

func TestNewSharedAccount_EqualAssignsEvenShares(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0, "Carl": 0, "Dora": 0}))
	if err != nil {
		t.Fatalf("NewSharedAccount() error = %v", err)
	}
	for _, p := range a.Participants {
		if p.Percentage != 25 {
			t.Errorf("%s percentage = %v, want 25", p.Name, p.Percentage)
		}
	}
}

func TestNewSharedAccount_Validation(t *testing.T) {
	tests := []struct {
		name   string
		policy DistributionPolicy
		shares map[string]float64
	}{
		{
			name:   "fewer than two participants",
			policy: SplitEqual,
			shares: map[string]float64{"Ana": 0},
		},
		{
			name:   "weighted sum below 100",
			policy: SplitWeighted,
			shares: map[string]float64{"Ana": 50, "Bea": 40},
		},
		{
			name:   "weighted sum above tolerance",
			policy: SplitWeighted,
			shares: map[string]float64{"Ana": 50, "Bea": 50.02},
		},
		{
			name:   "unknown policy",
			policy: DistributionPolicy("thirds"),
			shares: map[string]float64{"Ana": 50, "Bea": 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSharedAccount("acc", tt.policy, participants(t, tt.shares))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewSharedAccount() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestNewSharedAccount_WeightedTolerance(t *testing.T) {
	// 100 ± 0.01 is accepted.
	_, err := NewSharedAccount("acc", SplitWeighted, participants(t, map[string]float64{"Ana": 50, "Bea": 50.009}))
	if err != nil {
		t.Fatalf("NewSharedAccount() error = %v, want nil within tolerance", err)
	}
}

func TestAddExpense_EqualSplit(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.AddExpense(100, day(2025, time.June, 1), "groceries", "Shared", "Ana"); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	if got := balanceOf(t, a, "Ana"); got != 50 {
		t.Errorf("Ana balance = %v, want 50", got)
	}
	if got := balanceOf(t, a, "Bea"); got != -50 {
		t.Errorf("Bea balance = %v, want -50", got)
	}
	assertZeroSum(t, a)
}

func TestAddExpense_WeightedSplit(t *testing.T) {
	a, err := NewSharedAccount("trip", SplitWeighted, participants(t, map[string]float64{"Ana": 70, "Bea": 30}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.AddExpense(100, day(2025, time.June, 1), "hotel", "Shared", "Bea"); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}

	if got := balanceOf(t, a, "Ana"); got != -70 {
		t.Errorf("Ana balance = %v, want -70", got)
	}
	if got := balanceOf(t, a, "Bea"); got != 70 {
		t.Errorf("Bea balance = %v, want 70", got)
	}
	assertZeroSum(t, a)
}

func TestAddExpense_UnknownPayer(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = a.AddExpense(10, day(2025, time.June, 1), "x", "Shared", "Zoe")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("AddExpense() error = %v, want ValidationError", err)
	}
}

func TestRemoveExpense(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}
	exp, err := a.AddExpense(100, day(2025, time.June, 1), "groceries", "Shared", "Ana")
	if err != nil {
		t.Fatal(err)
	}

	if err := a.RemoveExpense(exp.ID); err != nil {
		t.Fatalf("RemoveExpense() error = %v", err)
	}
	if got := balanceOf(t, a, "Ana"); got != 0 {
		t.Errorf("Ana balance after removal = %v, want 0", got)
	}
	assertZeroSum(t, a)

	err = a.RemoveExpense(exp.ID)
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("RemoveExpense(gone) error = %v, want NotFoundError", err)
	}
}

func TestZeroSum_MutationSequence(t *testing.T) {
	a, err := NewSharedAccount("trip", SplitWeighted, participants(t, map[string]float64{"Ana": 12.5, "Bea": 37.5, "Carl": 50}))
	if err != nil {
		t.Fatal(err)
	}

	ops := []struct {
		amount float64
		payer  string
	}{
		{33.33, "Ana"},
		{0.01, "Bea"},
		{199.99, "Carl"},
		{75.10, "Ana"},
		{12.34, "Carl"},
	}
	var added []Expense
	for _, op := range ops {
		e, err := a.AddExpense(op.amount, day(2025, time.June, 1), "seq", "Shared", op.payer)
		if err != nil {
			t.Fatalf("AddExpense(%v) error = %v", op, err)
		}
		added = append(added, e)
		assertZeroSum(t, a)
	}
	// Remove in a different order than insertion.
	for _, i := range []int{2, 0, 3, 1, 4} {
		if err := a.RemoveExpense(added[i].ID); err != nil {
			t.Fatalf("RemoveExpense(%d) error = %v", i, err)
		}
		assertZeroSum(t, a)
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddExpense(100, day(2025, time.June, 1), "groceries", "Shared", "Ana"); err != nil {
		t.Fatal(err)
	}

	before := balanceOf(t, a, "Ana")
	a.Recompute()
	a.Recompute()
	if got := balanceOf(t, a, "Ana"); got != before {
		t.Errorf("balance drifted across recomputes: %v → %v", before, got)
	}
}

func TestSettlementSummary(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddExpense(100, day(2025, time.June, 1), "groceries", "Shared", "Ana"); err != nil {
		t.Fatal(err)
	}

	lines := a.SettlementSummary()
	want := []string{"Ana is owed 50.00", "Bea owes 50.00"}
	if len(lines) != len(want) {
		t.Fatalf("SettlementSummary() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSettlementSummary_Settled(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}
	lines := a.SettlementSummary()
	for _, line := range lines {
		if line != "Ana is settled" && line != "Bea is settled" {
			t.Errorf("unexpected line %q", line)
		}
	}
}

func TestExpensesPaidBy(t *testing.T) {
	a, err := NewSharedAccount("flat", SplitEqual, participants(t, map[string]float64{"Ana": 0, "Bea": 0}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddExpense(10, day(2025, time.June, 1), "a", "Shared", "Ana"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddExpense(20, day(2025, time.June, 2), "b", "Shared", "Bea"); err != nil {
		t.Fatal(err)
	}
	if got := a.ExpensesPaidBy("Ana"); len(got) != 1 || got[0].Amount != 10 {
		t.Errorf("ExpensesPaidBy(Ana) = %v", got)
	}
	if got := a.Total(); got != 30 {
		t.Errorf("Total() = %v, want 30", got)
	}
}
