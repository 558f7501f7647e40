package http

import (
	"net/http"
	"strconv"

	"github.com/Tijigui/fintrack/internal/core"
	applog "github.com/Tijigui/fintrack/internal/log"
)

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Server) invalidateSummary(userID int64) {
	s.summaryCache.Delete(cacheKey(userID))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context(), UserID(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := decodeJSON(r, &account); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	account.UserID = UserID(r.Context())

	if err := account.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	created, err := s.store.CreateAccount(r.Context(), account)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(created.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var patch core.AccountPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := patch.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	userID := UserID(r.Context())
	if patch.SetsBalance() {
		// Direct balance edits bypass the paired-write bookkeeping and can
		// drift from the transaction history.
		s.logger.WarnContext(r.Context(), "Account balance set directly",
			applog.FieldUserID, userID,
			applog.FieldAccountID, id,
			applog.FieldBalance, patch.Balance.Cents)
	}

	updated, err := s.store.UpdateAccount(r.Context(), userID, id, patch)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID := UserID(r.Context())
	if err := s.store.DeleteAccount(r.Context(), userID, id); err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	w.WriteHeader(http.StatusNoContent)
}
