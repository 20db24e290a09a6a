package http

import (
	"net/http"

	"gastos/internal/core"
	"gastos/internal/services"
)

type accountRequest struct {
	Name    string          `json:"name"`
	Policy  string          `json:"policy"`
	Members []memberRequest `json:"members"`
}

type memberRequest struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type accountExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Payer       string  `json:"payer"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Accounts.All())
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	members := make([]services.Member, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, services.Member{Name: m.Name, Percentage: m.Percentage})
	}

	var (
		acct *core.SharedAccount
		err  error
	)
	switch core.DistributionPolicy(req.Policy) {
	case core.SplitEqual:
		acct, err = s.app.Accounts.CreateEqual(r.Context(), req.Name, members)
	case core.SplitWeighted:
		acct, err = s.app.Accounts.CreateWeighted(r.Context(), req.Name, members)
	default:
		err = &core.ValidationError{Field: "policy", Value: req.Policy, Reason: "must be equal or weighted"}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.app.Accounts.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAccountAddExpense(w http.ResponseWriter, r *http.Request) {
	var req accountExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	exp, err := s.app.Accounts.AddExpense(r.Context(), r.PathValue("id"), req.Amount, date, req.Description, req.Category, req.Payer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleAccountRemoveExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Accounts.RemoveExpense(r.Context(), r.PathValue("id"), r.PathValue("expenseID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAccountSettlement(w http.ResponseWriter, r *http.Request) {
	lines, err := s.app.Accounts.SettlementSummary(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"settlement": lines})
}
