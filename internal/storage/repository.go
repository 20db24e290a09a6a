// Package storage is the persistence collaborator. Every operation moves a
// whole collection: the services call the relevant Save* after each mutation
// and the app calls all Load* once at startup. There are no partial updates.
package storage

import (
	"context"

	"gastos/internal/core"
)

type Repository interface {
	SaveExpenses(ctx context.Context, expenses []core.Expense) error
	LoadExpenses(ctx context.Context) ([]core.Expense, error)

	SaveCategories(ctx context.Context, categories []core.Category) error
	LoadCategories(ctx context.Context) ([]core.Category, error)

	SaveAlerts(ctx context.Context, alerts []*core.Alert) error
	LoadAlerts(ctx context.Context) ([]*core.Alert, error)

	SaveAccounts(ctx context.Context, accounts []*core.SharedAccount) error
	LoadAccounts(ctx context.Context) ([]*core.SharedAccount, error)

	Close() error
}
