// Package session is the client-side aggregate: one signed-in user, five
// entity stores mirroring the server, and the sign-in/out lifecycle around
// them.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tijigui/fintrack/internal/core"
	"github.com/Tijigui/fintrack/internal/gateway"
)

type Session struct {
	client *gateway.Client
	tokens gateway.TokenStore

	Accounts     *AccountStore
	Transactions *TransactionStore
	Cards        *CardStore
	Goals        *GoalStore
	Budgets      *BudgetStore

	mu      sync.Mutex
	profile *core.Profile
}

func New(client *gateway.Client, tokens gateway.TokenStore) *Session {
	accounts := newAccountStore(client, tokens)
	return &Session{
		client:       client,
		tokens:       tokens,
		Accounts:     accounts,
		Transactions: newTransactionStore(client, tokens, accounts),
		Cards:        newCardStore(client, tokens),
		Goals:        newGoalStore(client, tokens),
		Budgets:      newBudgetStore(client, tokens),
	}
}

type credentials struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type authPayload struct {
	Token   string       `json:"token"`
	Profile core.Profile `json:"profile"`
}

// SignIn authenticates, persists the token and loads all five stores.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "/api/login", credentials{Email: email, Password: password})
}

// SignUp registers a new profile and continues like SignIn.
func (s *Session) SignUp(ctx context.Context, email, name, password string) error {
	return s.authenticate(ctx, "/api/register", credentials{Email: email, Name: name, Password: password})
}

func (s *Session) authenticate(ctx context.Context, path string, creds credentials) error {
	var resp authPayload
	if err := s.client.Post(ctx, path, creds, &resp); err != nil {
		return err
	}
	if err := s.tokens.SetToken(resp.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.profile = &resp.Profile
	s.mu.Unlock()

	return s.LoadAll(ctx)
}

// LoadAll refreshes every store concurrently.
func (s *Session) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Accounts.Load(ctx) })
	g.Go(func() error { return s.Transactions.Load(ctx) })
	g.Go(func() error { return s.Cards.Load(ctx) })
	g.Go(func() error { return s.Goals.Load(ctx) })
	g.Go(func() error { return s.Budgets.Load(ctx) })
	return g.Wait()
}

// SignOut clears the token and resets every store.
func (s *Session) SignOut() error {
	err := s.tokens.Clear()

	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()

	s.Accounts.Clear()
	s.Transactions.Clear()
	s.Cards.Clear()
	s.Goals.Clear()
	s.Budgets.Clear()

	return err
}

// Profile returns the signed-in user, nil when signed out.
func (s *Session) Profile() *core.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Overview computes the dashboard numbers locally from the loaded
// collections, no server round trip.
func (s *Session) Overview(now time.Time) core.Overview {
	return core.BuildOverview(s.Accounts.Items(), s.Transactions.Items(), now)
}

// BudgetUtilization derives spend against each budget from the loaded
// transactions.
func (s *Session) BudgetUtilization(now time.Time) []core.BudgetUtilization {
	return core.UtilizeBudgets(s.Budgets.Items(), s.Transactions.Items(), now)
}
