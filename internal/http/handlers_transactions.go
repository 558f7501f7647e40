package http

import (
	"net/http"
	"time"

	"github.com/Tijigui/fintrack/internal/alerts"
	"github.com/Tijigui/fintrack/internal/core"
	applog "github.com/Tijigui/fintrack/internal/log"
)

// transactionResponse embeds the account the paired write updated, so
// clients can apply the new balance without a second round trip.
type transactionResponse struct {
	Transaction core.Transaction `json:"transaction"`
	Account     core.Account     `json:"account"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context(), UserID(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	t.UserID = UserID(r.Context())
	if t.Date.IsZero() {
		t.Date = core.DateOnly(time.Now())
	}

	if err := t.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	created, account, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(created.UserID)
	if created.Type == core.Expense {
		s.checkBudgetAlert(r, created)
	}
	writeJSON(w, http.StatusCreated, transactionResponse{Transaction: created, Account: account})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var patch core.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := patch.Validate(); err != nil {
		writeErr(w, r, err)
		return
	}

	userID := UserID(r.Context())
	updated, err := s.store.UpdateTransaction(r.Context(), userID, id, patch)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID := UserID(r.Context())
	account, err := s.store.DeleteTransaction(r.Context(), userID, id)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	writeJSON(w, http.StatusOK, map[string]core.Account{"account": account})
}

// checkBudgetAlert publishes an alert when the expense pushes its category
// to or past the budget limit. Failures are logged, never surfaced to the
// caller.
func (s *Server) checkBudgetAlert(r *http.Request, created core.Transaction) {
	if s.alerts == nil {
		return
	}
	ctx := r.Context()
	userID := created.UserID

	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Budget lookup for alert failed", applog.FieldError, err)
		return
	}

	var matched []core.Budget
	for _, b := range budgets {
		if b.AlertsEnabled && b.Category == created.Category {
			matched = append(matched, b)
		}
	}
	if len(matched) == 0 {
		return
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Transaction lookup for alert failed", applog.FieldError, err)
		return
	}

	for _, u := range crossedBudgets(matched, txs, created, time.Now()) {
		alert := alerts.NewBudgetAlert(userID, u.Budget, u.Spent)
		if err := s.alerts.PublishBudgetAlert(ctx, alert); err != nil {
			s.logger.ErrorContext(ctx, "Budget alert publish failed",
				applog.FieldError, err,
				applog.FieldCategory, u.Budget.Category)
			continue
		}
	}
}

// crossedBudgets reports the budgets the new expense pushed from under their
// limit to at or over it. A budget already at or over before this expense
// stays quiet until the period rolls over.
func crossedBudgets(budgets []core.Budget, txs []core.Transaction, created core.Transaction, now time.Time) []core.BudgetUtilization {
	prior := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID != created.ID {
			prior = append(prior, tx)
		}
	}
	before := make(map[int64]core.BudgetStatus, len(budgets))
	for _, u := range core.UtilizeBudgets(budgets, prior, now) {
		before[u.Budget.ID] = u.Status
	}

	var crossed []core.BudgetUtilization
	for _, u := range core.UtilizeBudgets(budgets, txs, now) {
		if u.Status == core.BudgetUnder || before[u.Budget.ID] != core.BudgetUnder {
			continue
		}
		crossed = append(crossed, u)
	}
	return crossed
}
