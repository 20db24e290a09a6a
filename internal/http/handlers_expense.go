package http

import (
	"net/http"
	"time"

	"gastos/internal/core"
)

type expenseRequest struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &core.ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}

// handleListExpenses lists the personal collection, narrowed by the optional
// category, month, from and to query parameters. All given criteria apply
// together.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	composite := core.NewCompositeFilter()

	if names, ok := q["category"]; ok {
		f, err := core.NewCategoryFilter(names)
		if err != nil {
			writeError(w, r, err)
			return
		}
		composite.Add(f)
	}
	if names, ok := q["month"]; ok {
		months := make([]time.Month, 0, len(names))
		for _, name := range names {
			m, err := core.ParseMonth(name)
			if err != nil {
				writeError(w, r, err)
				return
			}
			months = append(months, m)
		}
		f, err := core.NewMonthFilter(months)
		if err != nil {
			writeError(w, r, err)
			return
		}
		composite.Add(f)
	}
	if q.Get("from") != "" || q.Get("to") != "" {
		from, to, err := parseRange(q.Get("from"), q.Get("to"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		composite.Add(core.NewDateRangeFilter(from, to))
	}

	writeJSON(w, http.StatusOK, s.app.Expenses.Filtered(composite))
}

// parseRange fills open ends with the widest representable window and rejects
// an inverted range.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
	var err error
	if fromStr != "" {
		if from, err = parseDate(fromStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		if to, err = parseDate(toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, &core.ValidationError{Field: "date range", Value: fromStr + ".." + toStr, Reason: "start must not be after end"}
	}
	return from, to, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	exp, err := s.app.Expenses.Register(r.Context(), req.Amount, date, req.Description, req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Clear()
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := s.app.Expenses.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	exp, err := s.app.Expenses.Modify(r.Context(), r.PathValue("id"), req.Amount, date, req.Description, req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Clear()
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Clear()
	writeJSON(w, http.StatusNoContent, nil)
}
