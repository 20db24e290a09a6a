// Package services orchestrates the registries, storage and the AMQP
// publisher behind each application operation. The contract is uniform:
// mutate the in-memory collection, persist the whole collection, then re-run
// alert verification when the expense set changed.
package services

import (
	"context"
	"fmt"
	"time"

	"gastos/internal/core"
	"gastos/internal/registry"
	"gastos/internal/storage"
)

// ExpenseService manages the personal expense collection.
type ExpenseService struct {
	expenses   *registry.Expenses
	categories *registry.Categories
	accounts   *registry.Accounts
	storage    storage.Repository
	alerts     *AlertService
}

func NewExpenseService(expenses *registry.Expenses, categories *registry.Categories, accounts *registry.Accounts, repo storage.Repository, alerts *AlertService) *ExpenseService {
	return &ExpenseService{
		expenses:   expenses,
		categories: categories,
		accounts:   accounts,
		storage:    repo,
		alerts:     alerts,
	}
}

// Register records a personal expense. An unknown category is created on the
// fly with an empty description, so registering never fails on taxonomy.
func (s *ExpenseService) Register(ctx context.Context, amount float64, date time.Time, description, category string) (core.Expense, error) {
	if err := s.ensureCategory(ctx, category); err != nil {
		return core.Expense{}, err
	}
	exp, err := core.NewExpense(amount, date, description, category)
	if err != nil {
		return core.Expense{}, err
	}
	s.expenses.Add(exp)
	if err := s.storage.SaveExpenses(ctx, s.expenses.All()); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	s.alerts.verifyAfterChange(ctx)
	return exp, nil
}

// Modify rewrites an existing expense in place. Unlike Register, the category
// must already exist: a typo on edit should not silently grow the taxonomy.
func (s *ExpenseService) Modify(ctx context.Context, id string, amount float64, date time.Time, description, category string) (core.Expense, error) {
	old, ok := s.expenses.ByID(id)
	if !ok {
		return core.Expense{}, s.missing(id)
	}
	if amount < 0 {
		return core.Expense{}, &core.ValidationError{Field: "amount", Value: amount, Reason: "must not be negative"}
	}
	if _, found := s.categories.ByName(category); !found {
		return core.Expense{}, &core.NotFoundError{Kind: "category", Key: category}
	}
	updated := old
	updated.Amount = amount
	updated.Date = date
	updated.Description = description
	updated.Category = category
	s.expenses.Update(updated)
	if err := s.storage.SaveExpenses(ctx, s.expenses.All()); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	s.alerts.verifyAfterChange(ctx)
	return updated, nil
}

// Delete removes a personal expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if !s.expenses.Remove(id) {
		return s.missing(id)
	}
	if err := s.storage.SaveExpenses(ctx, s.expenses.All()); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	s.alerts.verifyAfterChange(ctx)
	return nil
}

// missing distinguishes an unknown id from an id owned by a shared account:
// the latter is a live expense that must be edited through its account.
func (s *ExpenseService) missing(id string) error {
	if acct, ok := s.accounts.Owner(id); ok {
		return &core.StateConflictError{
			Kind:   "expense",
			Key:    id,
			Reason: fmt.Sprintf("owned by shared account %q, edit it there", acct.Name),
		}
	}
	return &core.NotFoundError{Kind: "expense", Key: id}
}

func (s *ExpenseService) ByID(id string) (core.Expense, error) {
	exp, ok := s.expenses.ByID(id)
	if !ok {
		return core.Expense{}, s.missing(id)
	}
	return exp, nil
}

func (s *ExpenseService) All() []core.Expense {
	return s.expenses.All()
}

func (s *ExpenseService) Total() float64 {
	return s.expenses.Total()
}

// Filtered applies any predicate over a copy of the collection.
func (s *ExpenseService) Filtered(f core.Filter) []core.Expense {
	return s.expenses.Filter(f)
}

// ByCategories keeps expenses in any of the named categories.
func (s *ExpenseService) ByCategories(names ...string) ([]core.Expense, error) {
	f, err := core.NewCategoryFilter(names)
	if err != nil {
		return nil, err
	}
	return s.expenses.Filter(f), nil
}

// ByMonths keeps expenses dated in any of the given calendar months,
// regardless of year.
func (s *ExpenseService) ByMonths(months ...time.Month) ([]core.Expense, error) {
	f, err := core.NewMonthFilter(months)
	if err != nil {
		return nil, err
	}
	return s.expenses.Filter(f), nil
}

// ByDateRange keeps expenses dated within [start, end] inclusive. An inverted
// range is rejected here rather than silently matching nothing.
func (s *ExpenseService) ByDateRange(start, end time.Time) ([]core.Expense, error) {
	if start.After(end) {
		return nil, &core.ValidationError{Field: "date range", Value: fmt.Sprintf("%s..%s", start.Format("2006-01-02"), end.Format("2006-01-02")), Reason: "start must not be after end"}
	}
	return s.expenses.Filter(core.NewDateRangeFilter(start, end)), nil
}

func (s *ExpenseService) GroupByCategory() map[string][]core.Expense {
	return s.expenses.GroupByCategory()
}

func (s *ExpenseService) GroupByMonth() map[time.Month][]core.Expense {
	return s.expenses.GroupByMonth()
}

// TotalsByCategory sums spend per category name.
func (s *ExpenseService) TotalsByCategory() map[string]float64 {
	totals := make(map[string]float64)
	for name, group := range s.expenses.GroupByCategory() {
		for _, e := range group {
			totals[name] += e.Amount
		}
	}
	return totals
}

// TotalsByMonth sums spend per calendar month, year-independent.
func (s *ExpenseService) TotalsByMonth() map[time.Month]float64 {
	totals := make(map[time.Month]float64)
	for month, group := range s.expenses.GroupByMonth() {
		for _, e := range group {
			totals[month] += e.Amount
		}
	}
	return totals
}

func (s *ExpenseService) ensureCategory(ctx context.Context, name string) error {
	if name == "" {
		return &core.ValidationError{Field: "category", Value: name, Reason: "must not be empty"}
	}
	if _, ok := s.categories.ByName(name); ok {
		return nil
	}
	cat, err := core.NewCategory(name, "")
	if err != nil {
		return err
	}
	if err := s.categories.Add(cat); err != nil {
		return err
	}
	if err := s.storage.SaveCategories(ctx, s.categories.All()); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}
