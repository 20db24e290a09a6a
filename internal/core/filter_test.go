package core

import (
	"errors"
	"testing"
	"time"
)

func expense(t *testing.T, amount float64, date time.Time, category string) Expense {
	t.Helper()
	e, err := NewExpense(amount, date, "test expense", category)
	if err != nil {
		t.Fatalf("NewExpense() error = %v", err)
	}
	return e
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestCategoryFilter(t *testing.T) {
	expenses := []Expense{
		expense(t, 10, day(2025, time.March, 1), "Transporte"),
		expense(t, 20, day(2025, time.March, 2), "Food"),
		expense(t, 30, day(2025, time.March, 3), "transporte"),
	}

	f, err := NewCategoryFilter([]string{"Transporte"})
	if err != nil {
		t.Fatalf("NewCategoryFilter() error = %v", err)
	}

	got := f.Apply(expenses)
	if len(got) != 2 {
		t.Fatalf("Apply() kept %d expenses, want 2", len(got))
	}
	// Case-insensitive match, input order preserved.
	if got[0].Amount != 10 || got[1].Amount != 30 {
		t.Errorf("Apply() reordered results: %v", got)
	}
}

func TestCategoryFilter_EmptyInput(t *testing.T) {
	f, err := NewCategoryFilter([]string{"Transporte"})
	if err != nil {
		t.Fatalf("NewCategoryFilter() error = %v", err)
	}
	if got := f.Apply(nil); len(got) != 0 {
		t.Errorf("Apply(nil) = %v, want empty", got)
	}
}

func TestCategoryFilter_EmptyCriteria(t *testing.T) {
	_, err := NewCategoryFilter(nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("NewCategoryFilter(nil) error = %v, want ValidationError", err)
	}
}

func TestDateRangeFilter(t *testing.T) {
	expenses := []Expense{
		expense(t, 1, day(2025, time.January, 1), "a"),
		expense(t, 2, day(2025, time.January, 15), "a"),
		expense(t, 3, day(2025, time.January, 31), "a"),
		expense(t, 4, day(2025, time.February, 1), "a"),
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       []float64
	}{
		{
			name:  "inclusive bounds",
			start: day(2025, time.January, 1),
			end:   day(2025, time.January, 31),
			want:  []float64{1, 2, 3},
		},
		{
			name:  "inner range",
			start: day(2025, time.January, 2),
			end:   day(2025, time.January, 30),
			want:  []float64{2},
		},
		{
			name:  "inverted range matches nothing",
			start: day(2025, time.February, 1),
			end:   day(2025, time.January, 1),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDateRangeFilter(tt.start, tt.end).Apply(expenses)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() kept %d, want %d", len(got), len(tt.want))
			}
			for i, amount := range tt.want {
				if got[i].Amount != amount {
					t.Errorf("Apply()[%d].Amount = %v, want %v", i, got[i].Amount, amount)
				}
			}
		})
	}
}

func TestMonthFilter_YearIndependent(t *testing.T) {
	expenses := []Expense{
		expense(t, 1, day(2024, time.March, 10), "a"),
		expense(t, 2, day(2025, time.March, 20), "a"),
		expense(t, 3, day(2025, time.April, 1), "a"),
	}

	f, err := NewMonthFilter([]time.Month{time.March})
	if err != nil {
		t.Fatalf("NewMonthFilter() error = %v", err)
	}
	got := f.Apply(expenses)
	if len(got) != 2 {
		t.Fatalf("Apply() kept %d, want 2 (March of any year)", len(got))
	}
}

func TestMonthFilter_EmptyCriteria(t *testing.T) {
	_, err := NewMonthFilter(nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("NewMonthFilter(nil) error = %v, want ValidationError", err)
	}
}

func TestCompositeFilter_OrderIndependent(t *testing.T) {
	expenses := []Expense{
		expense(t, 1, day(2025, time.March, 5), "Food"),
		expense(t, 2, day(2025, time.March, 10), "Transporte"),
		expense(t, 3, day(2025, time.April, 5), "Food"),
		expense(t, 4, day(2025, time.May, 5), "Food"),
	}

	byCategory, err := NewCategoryFilter([]string{"Food"})
	if err != nil {
		t.Fatal(err)
	}
	byRange := NewDateRangeFilter(day(2025, time.March, 1), day(2025, time.April, 30))
	byMonth, err := NewMonthFilter([]time.Month{time.March, time.April})
	if err != nil {
		t.Fatal(err)
	}

	permutations := [][]Filter{
		{byCategory, byRange, byMonth},
		{byCategory, byMonth, byRange},
		{byRange, byCategory, byMonth},
		{byRange, byMonth, byCategory},
		{byMonth, byCategory, byRange},
		{byMonth, byRange, byCategory},
	}

	for i, perm := range permutations {
		got := NewCompositeFilter(perm...).Apply(expenses)
		if len(got) != 2 {
			t.Fatalf("permutation %d kept %d expenses, want 2", i, len(got))
		}
		if got[0].Amount != 1 || got[1].Amount != 3 {
			t.Errorf("permutation %d result = %v", i, got)
		}
	}
}

func TestCompositeFilter_EmptyIsIdentity(t *testing.T) {
	expenses := []Expense{
		expense(t, 1, day(2025, time.March, 5), "Food"),
		expense(t, 2, day(2025, time.March, 10), "Transporte"),
	}
	got := NewCompositeFilter().Apply(expenses)
	if len(got) != len(expenses) {
		t.Fatalf("empty composite kept %d, want %d", len(got), len(expenses))
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Month
		wantErr bool
	}{
		{in: "march", want: time.March},
		{in: "December", want: time.December},
		{in: "notamonth", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMonth(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseMonth(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
