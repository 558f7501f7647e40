package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func seedAccount(t *testing.T, s *Store, userID int64, cents int64) core.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), core.Account{
		UserID: userID, Name: "Main", Bank: "Acme", Type: core.Checking,
		Balance: core.Money{Cents: cents},
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return a
}

func TestPairedWriteAdjustsBalance(t *testing.T) {
	ctx := context.Background()
	s := New()
	acc := seedAccount(t, s, 1, 10000)

	tx, updated, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: 1, AccountID: acc.ID, Description: "groceries",
		Amount: core.Money{Cents: 3000}, Type: core.Expense,
		Category: "Food", Date: date(2025, 1, 10),
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if updated.Balance.Cents != 7000 {
		t.Fatalf("balance after expense = %d, want 7000", updated.Balance.Cents)
	}

	restored, err := s.DeleteTransaction(ctx, 1, tx.ID)
	if err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if restored.Balance.Cents != 10000 {
		t.Fatalf("balance after delete = %d, want 10000", restored.Balance.Cents)
	}
	txs, _ := s.ListTransactions(ctx, 1)
	if len(txs) != 0 {
		t.Fatalf("transaction list should be empty, got %d", len(txs))
	}
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	s := New()
	_, _, err := s.CreateTransaction(context.Background(), core.Transaction{
		UserID: 1, AccountID: 99, Description: "x",
		Amount: core.Money{Cents: 100}, Type: core.Income,
		Category: "Other", Date: date(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	s := New()
	acc := seedAccount(t, s, 1, 5000)

	// User 2 cannot see, update or delete user 1's account.
	if _, err := s.GetAccount(ctx, 2, acc.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user get: expected ErrNotFound, got %v", err)
	}
	name := "stolen"
	if _, err := s.UpdateAccount(ctx, 2, acc.ID, core.AccountPatch{Name: &name}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user update: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteAccount(ctx, 2, acc.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user delete: expected ErrNotFound, got %v", err)
	}

	// User 2 cannot attach a transaction to user 1's account either.
	_, _, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: 2, AccountID: acc.ID, Description: "x",
		Amount: core.Money{Cents: 100}, Type: core.Expense,
		Category: "Food", Date: date(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-user transaction: expected ErrNotFound, got %v", err)
	}

	lists, _ := s.ListAccounts(ctx, 2)
	if len(lists) != 0 {
		t.Fatalf("user 2 should see no accounts, got %d", len(lists))
	}
}

func TestListTransactionsOrderedByDateDesc(t *testing.T) {
	ctx := context.Background()
	s := New()
	acc := seedAccount(t, s, 1, 0)
	for _, d := range []time.Time{date(2025, 1, 5), date(2025, 1, 20), date(2025, 1, 10)} {
		if _, _, err := s.CreateTransaction(ctx, core.Transaction{
			UserID: 1, AccountID: acc.ID, Description: "t",
			Amount: core.Money{Cents: 100}, Type: core.Income,
			Category: "Other", Date: d,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	txs, _ := s.ListTransactions(ctx, 1)
	if len(txs) != 3 {
		t.Fatalf("got %d transactions", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date) {
			t.Fatalf("transactions not in date-descending order: %v", txs)
		}
	}
}

func TestProfileEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.CreateProfile(ctx, core.Profile{Email: "a@b.c", Name: "A"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := s.CreateProfile(ctx, core.Profile{Email: "A@B.C", Name: "B"}); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestListRecurringDue(t *testing.T) {
	ctx := context.Background()
	s := New()
	acc := seedAccount(t, s, 1, 0)

	mk := func(desc string, d time.Time, recurring bool) {
		t.Helper()
		if _, _, err := s.CreateTransaction(ctx, core.Transaction{
			UserID: 1, AccountID: acc.ID, Description: desc,
			Amount: core.Money{Cents: 1000}, Type: core.Expense,
			Category: "Housing", Date: d, Recurring: recurring,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	mk("rent", date(2024, 12, 1), true)
	mk("rent", date(2025, 1, 1), true) // already materialized this month
	mk("netflix", date(2024, 12, 15), true)
	mk("one-off", date(2024, 12, 20), false)

	due, err := s.ListRecurringDue(ctx, date(2025, 1, 1))
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("got %d due series, want  1 (netflix only): %+v", len(due), due)
	}
	if due[0].Description != "netflix" {
		t.Fatalf("due series = %q, want netflix", due[0].Description)
	}
}

func TestUpdateTransactionDoesNotTouchBalance(t *testing.T) {
	ctx := context.Background()
	s := New()
	acc := seedAccount(t, s, 1, 10000)
	tx, _, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: 1, AccountID: acc.ID, Description: "gym",
		Amount: core.Money{Cents: 2000}, Type: core.Expense,
		Category: "Health", Date: date(2025, 1, 5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "gym membership"
	if _, err := s.UpdateTransaction(ctx, 1, tx.ID, core.TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetAccount(ctx, 1, acc.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if got.Balance.Cents != 8000 {
		t.Fatalf("balance = %d, want 8000 (update must not re-adjust)", got.Balance.Cents)
	}
}
