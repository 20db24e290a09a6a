package core

import (
	"strings"
	"time"
)

// Filter narrows an expense list. Implementations must be pure: they never
// mutate the input and preserve the relative order of the expenses they keep.
type Filter interface {
	Apply(expenses []Expense) []Expense
}

// CategoryFilter keeps expenses whose category name matches any of the given
// names, case-insensitively.
type CategoryFilter struct {
	names []string
}

// NewCategoryFilter rejects an empty criteria set; filtering by "no category"
// is a caller mistake, not an identity filter.
func NewCategoryFilter(names []string) (*CategoryFilter, error) {
	if len(names) == 0 {
		return nil, validationErr("categories", names, "at least one category is required")
	}
	return &CategoryFilter{names: append([]string(nil), names...)}, nil
}

func (f *CategoryFilter) Apply(expenses []Expense) []Expense {
	var out []Expense
	for _, e := range expenses {
		for _, name := range f.names {
			if e.InCategory(name) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// DateRangeFilter keeps expenses dated within [start, end] inclusive. The
// filter does not reorder an inverted range; start > end simply matches
// nothing. Callers that consider that an error must validate before building
// the filter.
type DateRangeFilter struct {
	start, end time.Time
}

func NewDateRangeFilter(start, end time.Time) *DateRangeFilter {
	return &DateRangeFilter{start: start, end: end}
}

func (f *DateRangeFilter) Apply(expenses []Expense) []Expense {
	var out []Expense
	for _, e := range expenses {
		if e.InRange(f.start, f.end) {
			out = append(out, e)
		}
	}
	return out
}

// MonthFilter keeps expenses whose calendar month, regardless of year, is in
// the given set.
type MonthFilter struct {
	months map[time.Month]bool
}

func NewMonthFilter(months []time.Month) (*MonthFilter, error) {
	if len(months) == 0 {
		return nil, validationErr("months", months, "at least one month is required")
	}
	set := make(map[time.Month]bool, len(months))
	for _, m := range months {
		set[m] = true
	}
	return &MonthFilter{months: set}, nil
}

func (f *MonthFilter) Apply(expenses []Expense) []Expense {
	var out []Expense
	for _, e := range expenses {
		if f.months[e.Date.Month()] {
			out = append(out, e)
		}
	}
	return out
}

// CompositeFilter pipes the expense list through each member filter in turn,
// the logical AND of all predicates. Order does not change the result; an
// empty composite is the identity filter.
type CompositeFilter struct {
	filters []Filter
}

func NewCompositeFilter(filters ...Filter) *CompositeFilter {
	return &CompositeFilter{filters: append([]Filter(nil), filters...)}
}

func (f *CompositeFilter) Add(filter Filter) {
	f.filters = append(f.filters, filter)
}

func (f *CompositeFilter) Apply(expenses []Expense) []Expense {
	out := expenses
	for _, filter := range f.filters {
		out = filter.Apply(out)
	}
	return out
}

// ParseMonth converts an English month name to its time.Month. Used by the
// presentation collaborators which address months by name.
func ParseMonth(name string) (time.Month, error) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, validationErr("month", name, "unknown month name")
}
