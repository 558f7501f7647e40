package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
	"github.com/Tijigui/fintrack/internal/csvio"
	applog "github.com/Tijigui/fintrack/internal/log"
)

const importCategory = "Other"

func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(r.URL.Query().Get("account_id"), 10, 64)
	if err != nil || accountID <= 0 {
		writeError(w, http.StatusBadRequest, "account_id query parameter is required")
		return
	}

	userID := UserID(r.Context())
	if _, err := s.store.GetAccount(r.Context(), userID, accountID); err != nil {
		writeErr(w, r, err)
		return
	}

	rows, skipped, err := csvio.ParseTransactions(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable CSV body")
		return
	}

	summary := csvio.Summary{Failed: skipped}
	for _, row := range rows {
		t := core.Transaction{
			UserID:      userID,
			Description: row.Description,
			Amount:      row.Amount,
			Type:        row.Type,
			Category:    importCategory,
			AccountID:   accountID,
			Date:        row.Date,
		}
		if err := t.Validate(); err != nil {
			summary.Failed++
			continue
		}
		if _, _, err := s.store.CreateTransaction(r.Context(), t); err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
	}

	s.invalidateSummary(userID)
	s.logger.InfoContext(r.Context(), "Imported transactions",
		applog.FieldUserID, userID,
		applog.FieldAccountID, accountID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "all"
	}
	switch kind {
	case "transactions", "accounts", "cards", "goals", "budgets", "all":
	default:
		writeError(w, http.StatusBadRequest, "unknown export type")
		return
	}

	ctx := r.Context()
	userID := UserID(ctx)
	all := kind == "all"
	var data csvio.ExportData
	var err error

	if all || kind == "transactions" {
		if data.Transactions, err = s.store.ListTransactions(ctx, userID); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if all || kind == "accounts" {
		if data.Accounts, err = s.store.ListAccounts(ctx, userID); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if all || kind == "cards" {
		if data.CreditCards, err = s.store.ListCreditCards(ctx, userID); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if all || kind == "goals" {
		if data.Goals, err = s.store.ListGoals(ctx, userID); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if all || kind == "budgets" {
		if data.Budgets, err = s.store.ListBudgets(ctx, userID); err != nil {
			writeErr(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", csvio.Filename(kind, time.Now())))

	if err := csvio.Export(w, kind, data); err != nil {
		s.logger.ErrorContext(ctx, "Export failed", applog.FieldError, err)
	}
}
