package registry

import "gastos/internal/core"

// Accounts is the shared-account collection.
type Accounts struct {
	items []*core.SharedAccount
}

func NewAccounts() *Accounts {
	return &Accounts{}
}

func (s *Accounts) Add(a *core.SharedAccount) {
	if a == nil {
		return
	}
	s.items = append(s.items, a)
}

func (s *Accounts) Replace(items []*core.SharedAccount) {
	s.items = append([]*core.SharedAccount(nil), items...)
}

func (s *Accounts) Remove(id string) bool {
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Accounts) ByID(id string) (*core.SharedAccount, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

func (s *Accounts) All() []*core.SharedAccount {
	return append([]*core.SharedAccount(nil), s.items...)
}

func (s *Accounts) Len() int {
	return len(s.items)
}

// Owner returns the account owning the expense id, if any. Used by the
// personal expense path to refuse cross-aggregate edits.
func (s *Accounts) Owner(expenseID string) (*core.SharedAccount, bool) {
	for _, a := range s.items {
		for _, e := range a.Expenses {
			if e.ID == expenseID {
				return a, true
			}
		}
	}
	return nil, false
}

// ReferencesCategory reports whether any account-owned expense uses the
// category name.
func (s *Accounts) ReferencesCategory(name string) bool {
	for _, a := range s.items {
		for _, e := range a.Expenses {
			if e.InCategory(name) {
				return true
			}
		}
	}
	return false
}
