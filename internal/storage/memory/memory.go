// Package memory is the in-memory storage backend, used for development and
// tests. It implements the same contract as the SQL backends, including
// atomic paired writes and per-user row scoping.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

type Store struct {
	mu sync.Mutex

	nextID       int64
	profiles     map[int64]core.Profile
	accounts     map[int64]core.Account
	transactions map[int64]core.Transaction
	cards        map[int64]core.CreditCard
	goals        map[int64]core.Goal
	budgets      map[int64]core.Budget
}

func New() *Store {
	return &Store{
		profiles:     make(map[int64]core.Profile),
		accounts:     make(map[int64]core.Account),
		transactions: make(map[int64]core.Transaction),
		cards:        make(map[int64]core.CreditCard),
		goals:        make(map[int64]core.Goal),
		budgets:      make(map[int64]core.Budget),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- profiles ---

func (s *Store) CreateProfile(_ context.Context, p core.Profile) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return core.Profile{}, core.ErrEmailTaken
		}
	}
	p.ID = s.id()
	p.CreatedAt = time.Now().UTC()
	s.profiles[p.ID] = p
	return p, nil
}

func (s *Store) FindProfileByEmail(_ context.Context, email string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return core.Profile{}, core.ErrNotFound
}

func (s *Store) GetProfile(_ context.Context, id int64) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return core.Profile{}, core.ErrNotFound
	}
	return p, nil
}

// --- accounts ---

func (s *Store) ListAccounts(_ context.Context, userID int64) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0)
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, userID, id int64) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return core.Account{}, core.ErrNotFound
	}
	return a, nil
}

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	a.CreatedAt = time.Now().UTC()
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAccount(_ context.Context, userID, id int64, p core.AccountPatch) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return core.Account{}, core.ErrNotFound
	}
	p.Apply(&a)
	s.accounts[id] = a
	return a, nil
}

func (s *Store) DeleteAccount(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

// --- transactions ---

func (s *Store) ListTransactions(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[t.AccountID]
	if !ok || a.UserID != t.UserID {
		return core.Transaction{}, core.Account{}, core.ErrNotFound
	}
	t.ID = s.id()
	s.transactions[t.ID] = t
	a.Balance = a.Balance.Add(t.Signed())
	s.accounts[a.ID] = a
	return t, a, nil
}

func (s *Store) UpdateTransaction(_ context.Context, userID, id int64, p core.TransactionPatch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, core.ErrNotFound
	}
	p.Apply(&t)
	s.transactions[id] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return core.Account{}, core.ErrNotFound
	}
	a, ok := s.accounts[t.AccountID]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	delete(s.transactions, id)
	a.Balance = a.Balance.Sub(t.Signed())
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) ListRecurringDue(_ context.Context, periodStart time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type seriesKey struct {
		userID    int64
		accountID int64
		desc      string
	}
	latest := make(map[seriesKey]core.Transaction)
	for _, t := range s.transactions {
		if !t.Recurring {
			continue
		}
		key := seriesKey{t.UserID, t.AccountID, t.Description}
		cur, ok := latest[key]
		if !ok || t.Date.After(cur.Date) {
			latest[key] = t
		}
	}
	out := make([]core.Transaction, 0)
	for _, t := range latest {
		if t.Date.Before(periodStart) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- credit cards ---

func (s *Store) ListCreditCards(_ context.Context, userID int64) ([]core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CreditCard, 0)
	for _, c := range s.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateCreditCard(_ context.Context, c core.CreditCard) (core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.cards[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCreditCard(_ context.Context, userID, id int64, p core.CreditCardPatch) (core.CreditCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return core.CreditCard{}, core.ErrNotFound
	}
	p.Apply(&c)
	s.cards[id] = c
	return c, nil
}

func (s *Store) DeleteCreditCard(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.cards, id)
	return nil
}

// --- goals ---

func (s *Store) ListGoals(_ context.Context, userID int64) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	g.CreatedAt = time.Now().UTC()
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, userID, id int64, p core.GoalPatch) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.Goal{}, core.ErrNotFound
	}
	p.Apply(&g)
	s.goals[id] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

// --- budgets ---

func (s *Store) ListBudgets(_ context.Context, userID int64) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, userID, id int64, p core.BudgetPatch) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return core.Budget{}, core.ErrNotFound
	}
	p.Apply(&b)
	s.budgets[id] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}
