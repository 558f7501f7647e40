package http

import (
	"net/http"

	"github.com/Tijigui/fintrack/internal/core"
)

// Credit cards, goals and budgets share the plain CRUD shape: list, create
// with server-side validation, pointer-field patch update, delete.

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCreditCards(r.Context(), UserID(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var card core.CreditCard
	if err := decodeJSON(r, &card); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	card.UserID = UserID(r.Context())

	if err := card.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	created, err := s.store.CreateCreditCard(r.Context(), card)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var patch core.CreditCardPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := patch.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	updated, err := s.store.UpdateCreditCard(r.Context(), UserID(r.Context()), id, patch)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteCreditCard(r.Context(), UserID(r.Context()), id); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context(), UserID(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(r, &goal); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	goal.UserID = UserID(r.Context())

	if err := goal.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	created, err := s.store.CreateGoal(r.Context(), goal)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var patch core.GoalPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := patch.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	updated, err := s.store.UpdateGoal(r.Context(), UserID(r.Context()), id, patch)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.store.DeleteGoal(r.Context(), UserID(r.Context()), id); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context(), UserID(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var budget core.Budget
	if err := decodeJSON(r, &budget); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	budget.UserID = UserID(r.Context())

	if err := budget.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	created, err := s.store.CreateBudget(r.Context(), budget)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(created.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var patch core.BudgetPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := patch.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	userID := UserID(r.Context())
	updated, err := s.store.UpdateBudget(r.Context(), userID, id, patch)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID := UserID(r.Context())
	if err := s.store.DeleteBudget(r.Context(), userID, id); err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	w.WriteHeader(http.StatusNoContent)
}
