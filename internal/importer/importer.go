// Package importer turns external expense exports into rows the services can
// ingest. Each supported format lives behind an Adapter; the Registry maps
// format names to adapters and is built per application session, never as
// package state.
package importer

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

// Row is one parsed expense line, not yet an identified domain expense.
type Row struct {
	Amount      float64
	Date        time.Time
	Description string
	Category    string
}

// Result is the outcome of parsing one source: the rows that parsed plus the
// count of lines that did not.
type Result struct {
	Rows    []Row
	Skipped int
}

// Adapter parses one external format into expense rows. Parse never fails on
// a bad line; it skips the line and counts it. It returns an error only when
// the source itself is unreadable.
type Adapter interface {
	Name() string
	Parse(ctx context.Context, r io.Reader) (*Result, error)
}

// Registry maps format names to adapters.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	reg := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		reg.Register(a)
	}
	return reg
}

func (r *Registry) Register(a Adapter) {
	r.adapters[strings.ToLower(a.Name())] = a
}

func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[strings.ToLower(name)]
	return a, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dateLayouts are tried in order when parsing a row date.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// Bank exports in some locales use a decimal comma.
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// parseRecord maps one raw record onto a Row. Expected columns:
// date, description, category, amount. Extra columns are ignored.
func parseRecord(fields []string) (Row, error) {
	if len(fields) < 4 {
		return Row{}, &core.ValidationError{Field: "record", Value: strings.Join(fields, ";"), Reason: "expected at least 4 columns (date, description, category, amount)"}
	}
	date, err := parseDate(fields[0])
	if err != nil {
		return Row{}, &core.ValidationError{Field: "date", Value: fields[0], Reason: "unrecognized date format"}
	}
	amount, err := parseAmount(fields[3])
	if err != nil {
		return Row{}, &core.ValidationError{Field: "amount", Value: fields[3], Reason: "not a number"}
	}
	if amount < 0 {
		return Row{}, &core.ValidationError{Field: "amount", Value: amount, Reason: "must not be negative"}
	}
	return Row{
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(fields[1]),
		Category:    strings.TrimSpace(fields[2]),
	}, nil
}
