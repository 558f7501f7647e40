// Package storage defines the persistence ports and the backend factory.
// Every operation below is scoped by the owning user: a row belonging to
// another user behaves exactly like a row that does not exist.
package storage

import (
	"context"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

// Backends return core.ErrNotFound for absent rows and rows owned by someone
// else; callers must not be able to tell the two apart. Registering an
// already-used email returns core.ErrEmailTaken.
var (
	ErrNotFound   = core.ErrNotFound
	ErrEmailTaken = core.ErrEmailTaken
)

type ProfileStore interface {
	CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (core.Profile, error)
	GetProfile(ctx context.Context, id int64) (core.Profile, error)
}

type AccountStore interface {
	ListAccounts(ctx context.Context, userID int64) ([]core.Account, error)
	GetAccount(ctx context.Context, userID, id int64) (core.Account, error)
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	UpdateAccount(ctx context.Context, userID, id int64, p core.AccountPatch) (core.Account, error)
	DeleteAccount(ctx context.Context, userID, id int64) error
}

// TransactionStore pairs ledger writes with the owning account's balance.
// Create and Delete adjust the balance by the signed amount inside one
// database transaction and return the updated account, so a failure leaves
// both rows untouched. Update deliberately does not touch the balance: the
// balance moves only through add/delete.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, core.Account, error)
	UpdateTransaction(ctx context.Context, userID, id int64, p core.TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) (core.Account, error)

	// ListRecurringDue returns, for each recurring series (user, account,
	// description), its most recent occurrence when that occurrence predates
	// periodStart and the series has no occurrence at or after it.
	ListRecurringDue(ctx context.Context, periodStart time.Time) ([]core.Transaction, error)
}

type CreditCardStore interface {
	ListCreditCards(ctx context.Context, userID int64) ([]core.CreditCard, error)
	CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error)
	UpdateCreditCard(ctx context.Context, userID, id int64, p core.CreditCardPatch) (core.CreditCard, error)
	DeleteCreditCard(ctx context.Context, userID, id int64) error
}

type GoalStore interface {
	ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, userID, id int64, p core.GoalPatch) (core.Goal, error)
	DeleteGoal(ctx context.Context, userID, id int64) error
}

type BudgetStore interface {
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, userID, id int64, p core.BudgetPatch) (core.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) error
}

// Store is the unified persistence port served by all backends.
type Store interface {
	ProfileStore
	AccountStore
	TransactionStore
	CreditCardStore
	GoalStore
	BudgetStore

	Close() error
}
