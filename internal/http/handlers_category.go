package http

import "net/http"

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Categories.All())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	cat, err := s.app.Categories.Add(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
