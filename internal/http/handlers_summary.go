package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	if cached, ok := s.summaryCache.Get(cacheKey(userID)); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	accounts, err := s.store.ListAccounts(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	txs, err := s.store.ListTransactions(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	budgets, err := s.store.ListBudgets(r.Context(), userID)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	now := time.Now()
	resp := summaryResponse{
		Overview:   core.BuildOverview(accounts, txs, now),
		Categories: core.ExpensesByCategory(txs, nil),
		Accounts:   core.ActivityByAccount(txs, nil),
		Budgets:    core.UtilizeBudgets(budgets, txs, now),
	}

	s.summaryCache.Set(cacheKey(userID), resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	period := core.BudgetPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = core.Monthly
	}
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "period must be weekly, monthly or yearly")
		return
	}

	count := 6
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 60")
			return
		}
		count = n
	}

	txs, err := s.store.ListTransactions(r.Context(), UserID(r.Context()))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, core.Series(txs, period, count, time.Now()))
}
