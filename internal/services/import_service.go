package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/importer"
	"gastos/internal/registry"
	"gastos/internal/storage"
)

// ImportSummary reports one import run.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// RowFetcher is a row source that pulls its data itself, such as a
// spreadsheet range, instead of parsing a stream.
type RowFetcher interface {
	Fetch(ctx context.Context) (*importer.Result, error)
}

// ImportService ingests external expense exports into the personal
// collection. Categories named by imported rows are created on the fly, the
// whole collection is persisted once per run, and alerts are re-verified at
// the end.
type ImportService struct {
	expenses   *registry.Expenses
	categories *registry.Categories
	storage    storage.Repository
	alerts     *AlertService
	formats    *importer.Registry
}

func NewImportService(expenses *registry.Expenses, categories *registry.Categories, repo storage.Repository, alerts *AlertService, formats *importer.Registry) *ImportService {
	return &ImportService{
		expenses:   expenses,
		categories: categories,
		storage:    repo,
		alerts:     alerts,
		formats:    formats,
	}
}

// Formats lists the registered stream formats.
func (s *ImportService) Formats() []string {
	return s.formats.Names()
}

// ImportStream parses r with the named format adapter and ingests the rows.
func (s *ImportService) ImportStream(ctx context.Context, format string, r io.Reader) (ImportSummary, error) {
	adapter, ok := s.formats.Get(format)
	if !ok {
		return ImportSummary{}, &core.ValidationError{Field: "format", Value: format, Reason: fmt.Sprintf("unknown format, have %v", s.formats.Names())}
	}
	result, err := adapter.Parse(ctx, r)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("parse %s import: %w", adapter.Name(), err)
	}
	return s.ingest(ctx, result)
}

// ImportFetched ingests rows from a self-fetching source.
func (s *ImportService) ImportFetched(ctx context.Context, src RowFetcher) (ImportSummary, error) {
	result, err := src.Fetch(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("fetch import rows: %w", err)
	}
	return s.ingest(ctx, result)
}

func (s *ImportService) ingest(ctx context.Context, result *importer.Result) (ImportSummary, error) {
	summary := ImportSummary{Skipped: result.Skipped}
	for _, row := range result.Rows {
		if err := s.ensureCategory(row.Category); err != nil {
			summary.Skipped++
			continue
		}
		exp, err := core.NewExpense(row.Amount, row.Date, row.Description, row.Category)
		if err != nil {
			summary.Skipped++
			continue
		}
		s.expenses.Add(exp)
		summary.Imported++
	}
	if summary.Imported == 0 {
		return summary, nil
	}
	if err := s.storage.SaveCategories(ctx, s.categories.All()); err != nil {
		return summary, fmt.Errorf("save categories: %w", err)
	}
	if err := s.storage.SaveExpenses(ctx, s.expenses.All()); err != nil {
		return summary, fmt.Errorf("save expenses: %w", err)
	}
	slog.InfoContext(ctx, "Import completed",
		"imported", summary.Imported,
		"skipped", summary.Skipped)
	s.alerts.verifyAfterChange(ctx)
	return summary, nil
}

func (s *ImportService) ensureCategory(name string) error {
	if _, ok := s.categories.ByName(name); ok {
		return nil
	}
	cat, err := core.NewCategory(name, "")
	if err != nil {
		return err
	}
	return s.categories.Add(cat)
}
