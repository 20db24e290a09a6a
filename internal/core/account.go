package core

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DistributionPolicy selects how a shared account splits its expenses.
type DistributionPolicy string

const (
	// SplitEqual assigns every participant an even 100/n share.
	SplitEqual DistributionPolicy = "equal"
	// SplitWeighted uses caller-supplied percentages that must sum to 100.
	SplitWeighted DistributionPolicy = "weighted"
)

// percentageTolerance is the accepted deviation of a weighted roster's
// percentage sum from 100.
const percentageTolerance = 0.01

// SharedAccount is a pool of expenses split among a fixed roster of
// participants. Balances are never accumulated incrementally: every mutation
// recomputes all of them from the full expense history, which keeps the
// zero-sum invariant independent of insertion order and prior rounding.
type SharedAccount struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Policy       DistributionPolicy `json:"policy"`
	Participants []*Person          `json:"participants"`
	Expenses     []Expense          `json:"expenses"`
}

// NewSharedAccount validates the roster and fixes it for the account's
// lifetime. Equal-split rosters get 100/n percent each; weighted rosters must
// already carry percentages summing to 100 within tolerance.
func NewSharedAccount(name string, policy DistributionPolicy, participants []*Person) (*SharedAccount, error) {
	if len(participants) < 2 {
		return nil, validationErr("participants", len(participants), "a shared account needs at least 2 participants")
	}
	switch policy {
	case SplitEqual:
		even := 100.0 / float64(len(participants))
		for _, p := range participants {
			p.Percentage = even
		}
	case SplitWeighted:
		var sum float64
		for _, p := range participants {
			sum += p.Percentage
		}
		if math.Abs(sum-100.0) > percentageTolerance {
			return nil, validationErr("percentages", sum, "must sum to 100")
		}
	default:
		return nil, validationErr("policy", policy, "unknown distribution policy")
	}
	return &SharedAccount{
		ID:           uuid.NewString(),
		Name:         name,
		Policy:       policy,
		Participants: participants,
	}, nil
}

// Participant finds a roster member by name.
func (a *SharedAccount) Participant(name string) (*Person, bool) {
	for _, p := range a.Participants {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddExpense appends an expense paid by the named participant and recomputes
// every balance from scratch.
func (a *SharedAccount) AddExpense(amount float64, date time.Time, description, category, payerName string) (Expense, error) {
	payer, ok := a.Participant(payerName)
	if !ok {
		return Expense{}, validationErr("payer", payerName, "payer must be an account participant")
	}
	exp, err := NewExpense(amount, date, description, category)
	if err != nil {
		return Expense{}, err
	}
	exp.Payer = payer.Name
	a.Expenses = append(a.Expenses, exp)
	a.Recompute()
	return exp, nil
}

// RemoveExpense deletes the expense with the given id and recomputes every
// balance from scratch.
func (a *SharedAccount) RemoveExpense(id string) error {
	for i, e := range a.Expenses {
		if e.ID == id {
			a.Expenses = append(a.Expenses[:i], a.Expenses[i+1:]...)
			a.Recompute()
			return nil
		}
	}
	return notFoundErr("expense", id)
}

// Recompute rebuilds all participant balances from the full expense history.
// It is a pure function of the roster percentages and the current expense
// set, so calling it repeatedly is a no-op, and the balances always sum to
// zero: per expense, the payer gains amount-share while the others lose
// exactly the remaining shares.
func (a *SharedAccount) Recompute() {
	for _, p := range a.Participants {
		p.Balance = 0
	}
	for _, e := range a.Expenses {
		payer, ok := a.Participant(e.Payer)
		if !ok {
			continue
		}
		for _, p := range a.Participants {
			share := e.Share(p.Percentage)
			if p == payer {
				p.Balance += e.Amount - share
			} else {
				p.Balance -= share
			}
		}
	}
}

// Total is the sum of all expenses owned by the account.
func (a *SharedAccount) Total() float64 {
	var total float64
	for _, e := range a.Expenses {
		total += e.Amount
	}
	return total
}

// ExpensesPaidBy returns the expenses paid by the named participant.
func (a *SharedAccount) ExpensesPaidBy(name string) []Expense {
	var out []Expense
	for _, e := range a.Expenses {
		if e.Payer == name {
			out = append(out, e)
		}
	}
	return out
}

// SettlementSummary renders one line per participant describing their net
// position: positive balance means they are owed money, negative that they
// owe it.
func (a *SharedAccount) SettlementSummary() []string {
	lines := make([]string, 0, len(a.Participants))
	for _, p := range a.Participants {
		switch {
		case p.Balance > 0:
			lines = append(lines, fmt.Sprintf("%s is owed %.2f", p.Name, p.Balance))
		case p.Balance < 0:
			lines = append(lines, fmt.Sprintf("%s owes %.2f", p.Name, -p.Balance))
		default:
			lines = append(lines, fmt.Sprintf("%s is settled", p.Name))
		}
	}
	return lines
}
