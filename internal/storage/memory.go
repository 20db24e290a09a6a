package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"gastos/internal/core"
)

// MemoryRepository keeps the collections in process memory. It is the default
// backend for development and the repository used by the service tests.
// Collections are stored as JSON snapshots so saved state is decoupled from
// the live aggregates, the same isolation a real backend gives.
type MemoryRepository struct {
	expenses   []byte
	categories []byte
	alerts     []byte
	accounts   []byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Close() error { return nil }

func snapshot(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot collection: %w", err)
	}
	return data, nil
}

func restore[T any](data []byte) (T, error) {
	var out T
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("restore collection: %w", err)
	}
	return out, nil
}

func (r *MemoryRepository) SaveExpenses(_ context.Context, expenses []core.Expense) error {
	data, err := snapshot(expenses)
	if err != nil {
		return err
	}
	r.expenses = data
	return nil
}

func (r *MemoryRepository) LoadExpenses(_ context.Context) ([]core.Expense, error) {
	return restore[[]core.Expense](r.expenses)
}

func (r *MemoryRepository) SaveCategories(_ context.Context, categories []core.Category) error {
	data, err := snapshot(categories)
	if err != nil {
		return err
	}
	r.categories = data
	return nil
}

func (r *MemoryRepository) LoadCategories(_ context.Context) ([]core.Category, error) {
	return restore[[]core.Category](r.categories)
}

func (r *MemoryRepository) SaveAlerts(_ context.Context, alerts []*core.Alert) error {
	data, err := snapshot(alerts)
	if err != nil {
		return err
	}
	r.alerts = data
	return nil
}

func (r *MemoryRepository) LoadAlerts(_ context.Context) ([]*core.Alert, error) {
	return restore[[]*core.Alert](r.alerts)
}

func (r *MemoryRepository) SaveAccounts(_ context.Context, accounts []*core.SharedAccount) error {
	data, err := snapshot(accounts)
	if err != nil {
		return err
	}
	r.accounts = data
	return nil
}

func (r *MemoryRepository) LoadAccounts(_ context.Context) ([]*core.SharedAccount, error) {
	accounts, err := restore[[]*core.SharedAccount](r.accounts)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		a.Recompute()
	}
	return accounts, nil
}

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*SQLiteRepository)(nil)
