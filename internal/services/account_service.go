package services

import (
	"context"
	"fmt"
	"time"

	"gastos/internal/core"
	"gastos/internal/registry"
	"gastos/internal/storage"
)

// DefaultSharedCategory is assigned to shared-account expenses registered
// without an explicit category.
const DefaultSharedCategory = "Shared"

// AccountService manages shared accounts and the expenses they own.
type AccountService struct {
	accounts   *registry.Accounts
	categories *registry.Categories
	storage    storage.Repository
	alerts     *AlertService
}

func NewAccountService(accounts *registry.Accounts, categories *registry.Categories, repo storage.Repository, alerts *AlertService) *AccountService {
	return &AccountService{
		accounts:   accounts,
		categories: categories,
		storage:    repo,
		alerts:     alerts,
	}
}

// Member is one roster entry for account creation. Percentage is ignored by
// the equal policy.
type Member struct {
	Name       string
	Percentage float64
}

// CreateEqual builds an account splitting every expense evenly.
func (s *AccountService) CreateEqual(ctx context.Context, name string, members []Member) (*core.SharedAccount, error) {
	return s.create(ctx, name, core.SplitEqual, members)
}

// CreateWeighted builds an account splitting by the members' percentages,
// which must sum to 100.
func (s *AccountService) CreateWeighted(ctx context.Context, name string, members []Member) (*core.SharedAccount, error) {
	return s.create(ctx, name, core.SplitWeighted, members)
}

func (s *AccountService) create(ctx context.Context, name string, policy core.DistributionPolicy, members []Member) (*core.SharedAccount, error) {
	participants := make([]*core.Person, 0, len(members))
	for _, m := range members {
		p, err := core.NewPerson(m.Name, m.Percentage)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	acct, err := core.NewSharedAccount(name, policy, participants)
	if err != nil {
		return nil, err
	}
	s.accounts.Add(acct)
	if err := s.storage.SaveAccounts(ctx, s.accounts.All()); err != nil {
		return nil, fmt.Errorf("save accounts: %w", err)
	}
	return acct, nil
}

// AddExpense records an expense on the account and rebalances. An empty
// category falls back to the default shared category, created on first use;
// an explicit category must already exist.
func (s *AccountService) AddExpense(ctx context.Context, accountID string, amount float64, date time.Time, description, category, payer string) (core.Expense, error) {
	acct, ok := s.accounts.ByID(accountID)
	if !ok {
		return core.Expense{}, &core.NotFoundError{Kind: "account", Key: accountID}
	}
	if category == "" {
		category = DefaultSharedCategory
		if err := s.ensureDefaultCategory(ctx); err != nil {
			return core.Expense{}, err
		}
	} else if _, found := s.categories.ByName(category); !found {
		return core.Expense{}, &core.NotFoundError{Kind: "category", Key: category}
	}
	exp, err := acct.AddExpense(amount, date, description, category, payer)
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.storage.SaveAccounts(ctx, s.accounts.All()); err != nil {
		return core.Expense{}, fmt.Errorf("save accounts: %w", err)
	}
	s.alerts.verifyAfterChange(ctx)
	return exp, nil
}

// RemoveExpense deletes an account-owned expense and rebalances.
func (s *AccountService) RemoveExpense(ctx context.Context, accountID, expenseID string) error {
	acct, ok := s.accounts.ByID(accountID)
	if !ok {
		return &core.NotFoundError{Kind: "account", Key: accountID}
	}
	if err := acct.RemoveExpense(expenseID); err != nil {
		return err
	}
	if err := s.storage.SaveAccounts(ctx, s.accounts.All()); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	s.alerts.verifyAfterChange(ctx)
	return nil
}

// Delete removes the account and everything it owns.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if !s.accounts.Remove(id) {
		return &core.NotFoundError{Kind: "account", Key: id}
	}
	if err := s.storage.SaveAccounts(ctx, s.accounts.All()); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *AccountService) ByID(id string) (*core.SharedAccount, error) {
	acct, ok := s.accounts.ByID(id)
	if !ok {
		return nil, &core.NotFoundError{Kind: "account", Key: id}
	}
	return acct, nil
}

func (s *AccountService) All() []*core.SharedAccount {
	return s.accounts.All()
}

// SettlementSummary renders each participant's net position.
func (s *AccountService) SettlementSummary(id string) ([]string, error) {
	acct, ok := s.accounts.ByID(id)
	if !ok {
		return nil, &core.NotFoundError{Kind: "account", Key: id}
	}
	return acct.SettlementSummary(), nil
}

func (s *AccountService) ensureDefaultCategory(ctx context.Context) error {
	if _, ok := s.categories.ByName(DefaultSharedCategory); ok {
		return nil
	}
	cat, err := core.NewCategory(DefaultSharedCategory, "Shared account expenses")
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
