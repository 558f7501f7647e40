// Package http exposes the REST API over the storage layer.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/Tijigui/fintrack/internal/alerts"
	"github.com/Tijigui/fintrack/internal/auth"
	"github.com/Tijigui/fintrack/internal/core"
	applog "github.com/Tijigui/fintrack/internal/log"
	"github.com/Tijigui/fintrack/internal/storage"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user for the request, 0 when anonymous.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

type summaryResponse struct {
	Overview   core.Overview            `json:"overview"`
	Categories []core.CategoryShare     `json:"categories"`
	Accounts   []core.AccountActivity   `json:"accounts"`
	Budgets    []core.BudgetUtilization `json:"budgets"`
}

type Server struct {
	http.Server

	store  storage.Store
	auth   *auth.Manager
	alerts *alerts.Client
	logger *applog.Logger

	rateLimiter  *rateLimiter
	summaryCache *lruCache[summaryResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. alertsClient may be nil; publishing then becomes a no-op.
func NewServer(addr string, store storage.Store, authMgr *auth.Manager, alertsClient *alerts.Client, logger *applog.Logger) *Server {
	s := &Server{
		store:            store,
		auth:             authMgr,
		alerts:           alertsClient,
		logger:           logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:      newRateLimiter(),
		summaryCache:     newLRUCache[summaryResponse](500, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	r := mux.NewRouter()
	r.Use(applog.Middleware(s.logger))
	r.Use(s.limitRate)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)

	authed.HandleFunc("/accounts", s.handleListAccounts).Methods(http.MethodGet)
	authed.HandleFunc("/accounts", s.handleCreateAccount).Methods(http.MethodPost)
	authed.HandleFunc("/accounts/{id:[0-9]+}", s.handleUpdateAccount).Methods(http.MethodPut)
	authed.HandleFunc("/accounts/{id:[0-9]+}", s.handleDeleteAccount).Methods(http.MethodDelete)

	authed.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	authed.HandleFunc("/transactions/{id:[0-9]+}", s.handleUpdateTransaction).Methods(http.MethodPut)
	authed.HandleFunc("/transactions/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	authed.HandleFunc("/cards", s.handleListCards).Methods(http.MethodGet)
	authed.HandleFunc("/cards", s.handleCreateCard).Methods(http.MethodPost)
	authed.HandleFunc("/cards/{id:[0-9]+}", s.handleUpdateCard).Methods(http.MethodPut)
	authed.HandleFunc("/cards/{id:[0-9]+}", s.handleDeleteCard).Methods(http.MethodDelete)

	authed.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	authed.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	authed.HandleFunc("/goals/{id:[0-9]+}", s.handleUpdateGoal).Methods(http.MethodPut)
	authed.HandleFunc("/goals/{id:[0-9]+}", s.handleDeleteGoal).Methods(http.MethodDelete)

	authed.HandleFunc("/budgets", s.handleListBudgets).Methods(http.MethodGet)
	authed.HandleFunc("/budgets", s.handleCreateBudget).Methods(http.MethodPost)
	authed.HandleFunc("/budgets/{id:[0-9]+}", s.handleUpdateBudget).Methods(http.MethodPut)
	authed.HandleFunc("/budgets/{id:[0-9]+}", s.handleDeleteBudget).Methods(http.MethodDelete)

	authed.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	authed.HandleFunc("/summary/series", s.handleSeries).Methods(http.MethodGet)

	authed.HandleFunc("/import/transactions", s.handleImportTransactions).Methods(http.MethodPost)
	authed.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)

	s.Server.Addr = addr
	s.Server.Handler = r
	s.Server.ReadHeaderTimeout = 10 * time.Second

	go s.startCacheCleanup()

	return s
}

// Handler exposes the router for tests.
func (s *Server) HTTPHandler() http.Handler {
	return s.Server.Handler
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := s.auth.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) limitRate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	// Storage reachability is the readiness signal.
	if _, err := s.store.ListAccounts(r.Context(), 0); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background cleanup goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
