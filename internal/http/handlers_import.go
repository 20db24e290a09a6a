package http

import (
	"net/http"

	"gastos/internal/importer"
)

// handleImport ingests an expense export uploaded as the request body. The
// format query parameter selects the adapter and defaults to delimited.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "delimited"
	}
	summary, err := s.app.Imports.ImportStream(r.Context(), format, r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Clear()
	writeJSON(w, http.StatusOK, summary)
}

// handleImportSheets ingests expense rows from the Google Sheets range
// configured in the environment. Responds 503 when the source is not
// configured, so callers can tell a deployment gap from a bad request.
func (s *Server) handleImportSheets(w http.ResponseWriter, r *http.Request) {
	src, err := importer.NewSheetsSourceFromEnv(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "sheets import not configured: " + err.Error()})
		return
	}
	summary, err := s.app.Imports.ImportFetched(r.Context(), src)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Clear()
	writeJSON(w, http.StatusOK, summary)
}
