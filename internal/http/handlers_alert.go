package http

import (
	"net/http"

	"gastos/internal/core"
)

type alertRequest struct {
	Limit    float64 `json:"limit"`
	Period   string  `json:"period"`
	Category string  `json:"category"`
}

type alertUpdateRequest struct {
	Limit  *float64 `json:"limit"`
	Active *bool    `json:"active"`
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Alerts.All())
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	alert, err := s.app.Alerts.Create(r.Context(), req.Limit, core.Period(req.Period), req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

// handleUpdateAlert applies a partial update: only the fields present in the
// body change.
func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	id := r.PathValue("id")
	if req.Limit != nil {
		if err := s.app.Alerts.SetLimit(r.Context(), id, *req.Limit); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.Active != nil {
		if err := s.app.Alerts.SetActive(r.Context(), id, *req.Active); err != nil {
			writeError(w, r, err)
			return
		}
	}
	alert, err := s.app.Alerts.ByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Alerts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleVerifyAlerts(w http.ResponseWriter, r *http.Request) {
	fired, err := s.app.Alerts.VerifyAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if fired == nil {
		fired = []*core.Notification{}
	}
	writeJSON(w, http.StatusOK, fired)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	var notifications []*core.Notification
	if r.URL.Query().Get("unread") == "true" {
		notifications = s.app.Alerts.Unread()
	} else {
		notifications = s.app.Alerts.Notifications()
	}
	if notifications == nil {
		notifications = []*core.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Alerts.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Alerts.MarkAllRead(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
