package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gastos/internal/core"
	applog "gastos/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses: validation
// failures are 422, missing entities 404, ownership and reference conflicts
// 409. Anything else is a plain 500 with a generic body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *core.ValidationError
		nferr    *core.NotFoundError
		conflict *core.StateConflictError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error()})
	case errors.As(err, &nferr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: nferr.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflict.Error()})
	default:
		sl := applog.NewStructuredLogger(applog.FromContext(r.Context()))
		sl.LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, r.Method,
			applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody rejects unknown fields so client typos surface as 400s instead
// of silently dropped data.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
