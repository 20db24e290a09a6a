package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/importer"
	"gastos/internal/registry"
	"gastos/internal/storage"
)

// App wires the registries and services for one application session and owns
// the startup load.
type App struct {
	Expenses   *ExpenseService
	Categories *CategoryService
	Accounts   *AccountService
	Alerts     *AlertService
	Imports    *ImportService

	expenses   *registry.Expenses
	categories *registry.Categories
	accounts   *registry.Accounts
	alerts     *registry.Alerts
	storage    storage.Repository
	amqpClient *amqp.Client
}

func NewApp(repo storage.Repository, amqpClient *amqp.Client) *App {
	expenses := registry.NewExpenses()
	categories := registry.NewCategories()
	accounts := registry.NewAccounts()
	alerts := registry.NewAlerts()

	alertSvc := NewAlertService(alerts, expenses, categories, repo, amqpClient)
	formats := importer.NewRegistry(importer.NewDelimitedAdapter())

	return &App{
		Expenses:   NewExpenseService(expenses, categories, accounts, repo, alertSvc),
		Categories: NewCategoryService(categories, expenses, accounts, alerts, repo),
		Accounts:   NewAccountService(accounts, categories, repo, alertSvc),
		Alerts:     alertSvc,
		Imports:    NewImportService(expenses, categories, repo, alertSvc, formats),

		expenses:   expenses,
		categories: categories,
		accounts:   accounts,
		alerts:     alerts,
		storage:    repo,
		amqpClient: amqpClient,
	}
}

// Load pulls every collection from storage concurrently and seeds the default
// categories on a fresh database. The registries are not touched by anything
// else until Load returns.
func (a *App) Load(ctx context.Context) error {
	var (
		expenses   []core.Expense
		categories []core.Category
		alerts     []*core.Alert
		accounts   []*core.SharedAccount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = a.storage.LoadExpenses(gctx)
		return err
	})
	g.Go(func() (err error) {
		categories, err = a.storage.LoadCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		alerts, err = a.storage.LoadAlerts(gctx)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = a.storage.LoadAccounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	a.expenses.Replace(expenses)
	a.categories.Replace(categories)
	a.alerts.Replace(alerts)
	a.accounts.Replace(accounts)

	if a.categories.Len() == 0 {
		a.categories.SeedDefaults()
		if err := a.storage.SaveCategories(ctx, a.categories.All()); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		slog.InfoContext(ctx, "Seeded default categories", "count", a.categories.Len())
	}

	slog.InfoContext(ctx, "Collections loaded",
		"expenses", a.expenses.Len(),
		"categories", a.categories.Len(),
		"alerts", a.alerts.Len(),
		"accounts", a.accounts.Len())
	return nil
}

// Close closes the storage and AMQP connections.
func (a *App) Close() error {
	var errs []error

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if err := a.amqpClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("amqp: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close app: %v", errs)
	}
	return nil
}
