package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Tijigui/fintrack/internal/core"
	"github.com/Tijigui/fintrack/internal/gateway"
)

// Status tracks a store's lifecycle. Consumers render a spinner on loading
// and trust the collection once ready.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
)

type validator interface {
	Validate() error
}

// store is the shared machinery of the five entity stores: a mutex-guarded
// in-memory collection mirroring the server, replaced wholesale on Load and
// patched incrementally on Add/Update/Delete.
type store[T validator] struct {
	mu     sync.Mutex
	client *gateway.Client
	tokens gateway.TokenStore
	path   string
	id     func(T) int64

	status Status
	items  []T
}

func newStore[T validator](client *gateway.Client, tokens gateway.TokenStore, path string, id func(T) int64) *store[T] {
	return &store[T]{
		client: client,
		tokens: tokens,
		path:   path,
		id:     id,
		status: StatusUninitialized,
	}
}

func (s *store[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Items returns a copy of the collection.
func (s *store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Load replaces the collection with the server's. With no signed-in user it
// settles on ready and empty without a request.
func (s *store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.tokens.Token() == "" {
		s.items = nil
		s.status = StatusReady
		s.mu.Unlock()
		return nil
	}
	s.status = StatusLoading
	s.mu.Unlock()

	var items []T
	if err := s.client.Get(ctx, s.path, &items); err != nil {
		s.mu.Lock()
		s.status = StatusUninitialized
		s.mu.Unlock()
		return fmt.Errorf("load %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.items = items
	s.status = StatusReady
	s.mu.Unlock()
	return nil
}

// Add validates the draft, creates it remotely and prepends the server
// record.
func (s *store[T]) Add(ctx context.Context, draft T) (T, error) {
	var zero T
	if err := draft.Validate(); err != nil {
		return zero, err
	}

	var created T
	if err := s.client.Post(ctx, s.path, draft, &created); err != nil {
		return zero, err
	}

	s.mu.Lock()
	s.items = append([]T{created}, s.items...)
	s.mu.Unlock()
	return created, nil
}

// update sends the patch and swaps in the server's merged record.
func (s *store[T]) update(ctx context.Context, id int64, patch validator) (T, error) {
	var zero T
	if err := patch.Validate(); err != nil {
		return zero, err
	}

	var updated T
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", s.path, id), patch, &updated); err != nil {
		return zero, err
	}

	s.replace(updated)
	return updated, nil
}

func (s *store[T]) replace(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.id(s.items[i]) == s.id(item) {
			s.items[i] = item
			return
		}
	}
}

// Delete removes the record remotely, then locally.
func (s *store[T]) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", s.path, id), nil); err != nil {
		return err
	}
	s.remove(id)
	return nil
}

func (s *store[T]) remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if s.id(item) != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// Clear drops the collection back to uninitialized. SignOut uses it.
func (s *store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.status = StatusUninitialized
}

// AccountStore mirrors /api/accounts.
type AccountStore struct {
	*store[core.Account]
}

func newAccountStore(client *gateway.Client, tokens gateway.TokenStore) *AccountStore {
	return &AccountStore{newStore(client, tokens, "/api/accounts",
		func(a core.Account) int64 { return a.ID })}
}

func (s *AccountStore) Update(ctx context.Context, id int64, patch core.AccountPatch) (core.Account, error) {
	return s.update(ctx, id, patch)
}

// applyServer overwrites the local copy of an account the server reports as
// changed. Reports whether the account was known locally.
func (s *AccountStore) applyServer(account core.Account) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == account.ID {
			s.items[i] = account
			return true
		}
	}
	return false
}

// CardStore mirrors /api/cards.
type CardStore struct {
	*store[core.CreditCard]
}

func newCardStore(client *gateway.Client, tokens gateway.TokenStore) *CardStore {
	return &CardStore{newStore(client, tokens, "/api/cards",
		func(c core.CreditCard) int64 { return c.ID })}
}

func (s *CardStore) Update(ctx context.Context, id int64, patch core.CreditCardPatch) (core.CreditCard, error) {
	return s.update(ctx, id, patch)
}

// GoalStore mirrors /api/goals.
type GoalStore struct {
	*store[core.Goal]
}

func newGoalStore(client *gateway.Client, tokens gateway.TokenStore) *GoalStore {
	return &GoalStore{newStore(client, tokens, "/api/goals",
		func(g core.Goal) int64 { return g.ID })}
}

func (s *GoalStore) Update(ctx context.Context, id int64, patch core.GoalPatch) (core.Goal, error) {
	return s.update(ctx, id, patch)
}

// BudgetStore mirrors /api/budgets.
type BudgetStore struct {
	*store[core.Budget]
}

func newBudgetStore(client *gateway.Client, tokens gateway.TokenStore) *BudgetStore {
	return &BudgetStore{newStore(client, tokens, "/api/budgets",
		func(b core.Budget) int64 { return b.ID })}
}

func (s *BudgetStore) Update(ctx context.Context, id int64, patch core.BudgetPatch) (core.Budget, error) {
	return s.update(ctx, id, patch)
}

// TransactionStore mirrors /api/transactions, ordered by date descending.
// Add and Delete carry the paired-write result through to the account store.
type TransactionStore struct {
	*store[core.Transaction]
	accounts *AccountStore
}

func newTransactionStore(client *gateway.Client, tokens gateway.TokenStore, accounts *AccountStore) *TransactionStore {
	return &TransactionStore{
		store: newStore(client, tokens, "/api/transactions",
			func(t core.Transaction) int64 { return t.ID }),
		accounts: accounts,
	}
}

type transactionEnvelope struct {
	Transaction core.Transaction `json:"transaction"`
	Account     core.Account     `json:"account"`
}

// Add creates the transaction and applies the updated account balance the
// server returns. When the response lacks the account, the account store is
// reloaded instead.
func (s *TransactionStore) Add(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var resp transactionEnvelope
	if err := s.client.Post(ctx, s.path, draft, &resp); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.items = append([]core.Transaction{resp.Transaction}, s.items...)
	s.resortLocked()
	s.mu.Unlock()

	s.applyAccount(ctx, resp.Account)
	return resp.Transaction, nil
}

func (s *TransactionStore) Update(ctx context.Context, id int64, patch core.TransactionPatch) (core.Transaction, error) {
	updated, err := s.update(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	s.resortLocked()
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the transaction and applies the restored account balance.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	var resp struct {
		Account core.Account `json:"account"`
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", s.path, id), &resp); err != nil {
		return err
	}

	s.remove(id)
	s.applyAccount(ctx, resp.Account)
	return nil
}

func (s *TransactionStore) applyAccount(ctx context.Context, account core.Account) {
	if account.ID != 0 && s.accounts.applyServer(account) {
		return
	}
	// Stale or missing paired-write result; resync the whole store. The
	// balance is wrong until this lands, so transient failures get retried.
	err := gateway.Retry(ctx, func(ctx context.Context) error {
		return s.accounts.Load(ctx)
	})
	if err != nil {
		slog.WarnContext(ctx, "Account resync failed", "error", err)
	}
}

func (s *TransactionStore) resortLocked() {
	sort.SliceStable(s.items, func(i, j int) bool {
		if !s.items[i].Date.Equal(s.items[j].Date) {
			return s.items[i].Date.After(s.items[j].Date)
		}
		return s.items[i].ID > s.items[j].ID
	})
}
