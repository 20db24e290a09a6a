// Package registry holds the in-memory authoritative collections the
// services operate on: personal expenses, categories, alerts and shared
// accounts. One instance of each is built per application session and passed
// explicitly; there is no process-wide state. The collections assume a single
// writer; callers sharing them across goroutines must serialize access.
package registry

import (
	"time"

	"gastos/internal/core"
)

// Expenses is the personal expense collection.
type Expenses struct {
	items []core.Expense
}

func NewExpenses() *Expenses {
	return &Expenses{}
}

func (s *Expenses) Add(e core.Expense) {
	s.items = append(s.items, e)
}

// Replace swaps the whole collection, used when loading from storage.
func (s *Expenses) Replace(items []core.Expense) {
	s.items = append([]core.Expense(nil), items...)
}

func (s *Expenses) Remove(id string) bool {
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Expenses) ByID(id string) (core.Expense, bool) {
	for _, e := range s.items {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// Update replaces the stored expense with the same id.
func (s *Expenses) Update(e core.Expense) bool {
	for i, old := range s.items {
		if old.ID == e.ID {
			s.items[i] = e
			return true
		}
	}
	return false
}

// All returns a copy; mutations go through Add/Update/Remove only.
func (s *Expenses) All() []core.Expense {
	return append([]core.Expense(nil), s.items...)
}

func (s *Expenses) Len() int {
	return len(s.items)
}

func (s *Expenses) Total() float64 {
	var total float64
	for _, e := range s.items {
		total += e.Amount
	}
	return total
}

// Filter applies a predicate over a copy of the collection.
func (s *Expenses) Filter(f core.Filter) []core.Expense {
	return f.Apply(s.All())
}

// GroupByCategory buckets expenses by category name, preserving insertion
// order within each bucket.
func (s *Expenses) GroupByCategory() map[string][]core.Expense {
	groups := make(map[string][]core.Expense)
	for _, e := range s.items {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// GroupByMonth buckets expenses by calendar month, year-independent.
func (s *Expenses) GroupByMonth() map[time.Month][]core.Expense {
	groups := make(map[time.Month][]core.Expense)
	for _, e := range s.items {
		m := e.Date.Month()
		groups[m] = append(groups[m], e)
	}
	return groups
}

// ReferencesCategory reports whether any expense uses the category name.
func (s *Expenses) ReferencesCategory(name string) bool {
	for _, e := range s.items {
		if e.InCategory(name) {
			return true
		}
	}
	return false
}
