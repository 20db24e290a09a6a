package http

import (
	"log/slog"
	"net/http"
)

// handleCategorySummary returns total spend per category name.
func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	const key = "categories"
	if totals, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
		writeJSON(w, http.StatusOK, totals)
		return
	}
	totals := s.app.Expenses.TotalsByCategory()
	s.summaryCache.Set(key, totals)
	writeJSON(w, http.StatusOK, totals)
}

// handleMonthSummary returns total spend per calendar month, year-independent.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	const key = "months"
	if totals, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
		writeJSON(w, http.StatusOK, totals)
		return
	}
	totals := make(map[string]float64)
	for month, total := range s.app.Expenses.TotalsByMonth() {
		totals[month.String()] = total
	}
	s.summaryCache.Set(key, totals)
	writeJSON(w, http.StatusOK, totals)
}
