package registry

import (
	"strings"

	"gastos/internal/core"
)

// Categories is the name-unique category registry.
type Categories struct {
	items []core.Category
}

func NewCategories() *Categories {
	return &Categories{}
}

// SeedDefaults installs the starter categories on a fresh registry. Ignores
// names that already exist, so calling it after a load is harmless.
func (s *Categories) SeedDefaults() {
	defaults := []struct{ name, description string }{
		{"Food", "Groceries and drinks"},
		{"Transport", "Fuel and public transport"},
		{"Entertainment", "Leisure, cinema, events"},
		{"Health", "Pharmacy and doctors"},
		{"Education", "Books and courses"},
	}
	for _, d := range defaults {
		if _, ok := s.ByName(d.name); ok {
			continue
		}
		c, err := core.NewCategory(d.name, d.description)
		if err != nil {
			continue
		}
		s.items = append(s.items, c)
	}
}

// Add rejects a case-insensitive duplicate name.
func (s *Categories) Add(c core.Category) error {
	if _, ok := s.ByName(c.Name); ok {
		return &core.ValidationError{Field: "category name", Value: c.Name, Reason: "a category with this name already exists"}
	}
	s.items = append(s.items, c)
	return nil
}

func (s *Categories) Replace(items []core.Category) {
	s.items = append([]core.Category(nil), items...)
}

// Remove deletes by id. The registry does not check for dangling references;
// the category service guards deletion across aggregates.
func (s *Categories) Remove(id string) bool {
	for i, c := range s.items {
		if c.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// ByName is case-insensitive.
func (s *Categories) ByName(name string) (core.Category, bool) {
	for _, c := range s.items {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return core.Category{}, false
}

// ByID is exact-match.
func (s *Categories) ByID(id string) (core.Category, bool) {
	for _, c := range s.items {
		if c.ID == id {
			return c, true
		}
	}
	return core.Category{}, false
}

func (s *Categories) All() []core.Category {
	return append([]core.Category(nil), s.items...)
}

func (s *Categories) Len() int {
	return len(s.items)
}
