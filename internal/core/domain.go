package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Expense is a single monetary outflow. Identity is the opaque ID; two
// expenses are the same expense iff their IDs match. Payer is empty for
// personal expenses and holds the participant name for expenses owned by a
// shared account.
type Expense struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Payer       string    `json:"payer,omitempty"`
}

// NewExpense validates and builds a personal expense with a fresh id.
func NewExpense(amount float64, date time.Time, description, category string) (Expense, error) {
	if amount < 0 {
		return Expense{}, validationErr("amount", amount, "must not be negative")
	}
	return Expense{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        date,
		Description: description,
		Category:    category,
	}, nil
}

// Shared reports whether the expense is owned by a shared account.
func (e Expense) Shared() bool {
	return e.Payer != ""
}

// InCategory matches the expense's category name case-insensitively.
func (e Expense) InCategory(name string) bool {
	return e.Category != "" && strings.EqualFold(e.Category, name)
}

// InRange reports whether the expense date lies within [start, end] inclusive.
func (e Expense) InRange(start, end time.Time) bool {
	return !e.Date.Before(start) && !e.Date.After(end)
}

// Share is the fraction of this expense attributed to a participant holding
// the given percentage.
func (e Expense) Share(percentage float64) float64 {
	return e.Amount * percentage / 100.0
}

// Category is a spending category. Names are unique case-insensitively within
// a registry; equality is by name.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewCategory(name, description string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, validationErr("category name", name, "must not be empty")
	}
	return Category{ID: uuid.NewString(), Name: name, Description: description}, nil
}

// Same compares categories by name, case-insensitively.
func (c Category) Same(other Category) bool {
	return strings.EqualFold(c.Name, other.Name)
}

// Person is a shared-account participant. Balance is derived state, always
// recomputed from the owning account's expense history.
type Person struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Balance    float64 `json:"balance"`
}

func NewPerson(name string, percentage float64) (*Person, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationErr("person name", name, "must not be empty")
	}
	if percentage < 0 || percentage > 100 {
		return nil, validationErr("percentage", percentage, "must be between 0 and 100")
	}
	return &Person{ID: uuid.NewString(), Name: name, Percentage: percentage}, nil
}
