package services

import (
	"context"
	"fmt"

	"gastos/internal/core"
	"gastos/internal/registry"
	"gastos/internal/storage"
)

// CategoryService manages the category taxonomy. Deletion is blocking: a
// category referenced by any expense, shared account or alert stays.
type CategoryService struct {
	categories *registry.Categories
	expenses   *registry.Expenses
	accounts   *registry.Accounts
	alerts     *registry.Alerts
	storage    storage.Repository
}

func NewCategoryService(categories *registry.Categories, expenses *registry.Expenses, accounts *registry.Accounts, alerts *registry.Alerts, repo storage.Repository) *CategoryService {
	return &CategoryService{
		categories: categories,
		expenses:   expenses,
		accounts:   accounts,
		alerts:     alerts,
		storage:    repo,
	}
}

// Add creates a category. The name is unique case-insensitively.
func (s *CategoryService) Add(ctx context.Context, name, description string) (core.Category, error) {
	cat, err := core.NewCategory(name, description)
	if err != nil {
		return core.Category{}, err
	}
	if err := s.categories.Add(cat); err != nil {
		return core.Category{}, err
	}
	if err := s.storage.SaveCategories(ctx, s.categories.All()); err != nil {
		return core.Category{}, fmt.Errorf("save categories: %w", err)
	}
	return cat, nil
}

// Delete removes a category by id, refusing while anything still references
// its name.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	cat, ok := s.categories.ByID(id)
	if !ok {
		return &core.NotFoundError{Kind: "category", Key: id}
	}
	if reason, referenced := s.referenced(cat.Name); referenced {
		return &core.StateConflictError{Kind: "category", Key: cat.Name, Reason: reason}
	}
	s.categories.Remove(id)
	if err := s.storage.SaveCategories(ctx, s.categories.All()); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

func (s *CategoryService) referenced(name string) (string, bool) {
	switch {
	case s.expenses.ReferencesCategory(name):
		return "still referenced by personal expenses", true
	case s.accounts.ReferencesCategory(name):
		return "still referenced by shared account expenses", true
	case s.alerts.ReferencesCategory(name):
		return "still referenced by alerts", true
	}
	return "", false
}

func (s *CategoryService) ByName(name string) (core.Category, error) {
	cat, ok := s.categories.ByName(name)
	if !ok {
		return core.Category{}, &core.NotFoundError{Kind: "category", Key: name}
	}
	return cat, nil
}

func (s *CategoryService) ByID(id string) (core.Category, error) {
	cat, ok := s.categories.ByID(id)
	if !ok {
		return core.Category{}, &core.NotFoundError{Kind: "category", Key: id}
	}
	return cat, nil
}

func (s *CategoryService) All() []core.Category {
	return s.categories.All()
}
