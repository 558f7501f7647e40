package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tijigui/fintrack/internal/auth"
	"github.com/Tijigui/fintrack/internal/core"
	"github.com/Tijigui/fintrack/internal/gateway"
	api "github.com/Tijigui/fintrack/internal/http"
	applog "github.com/Tijigui/fintrack/internal/log"
	"github.com/Tijigui/fintrack/internal/storage/memory"
)

// Sessions run against a real server over httptest with the in-memory
// backend, so the paired-write plumbing is exercised end to end.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	logger := applog.New(applog.DefaultConfig())
	srv := api.NewServer(":0", memory.New(), auth.NewManager("test-secret", time.Hour), nil, logger)
	ts := httptest.NewServer(srv.HTTPHandler())
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown(context.Background())
	})

	tokens := &gateway.MemoryTokenStore{}
	return New(gateway.NewClient(ts.URL, tokens), tokens)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func signUp(t *testing.T, s *Session) {
	t.Helper()
	if err := s.SignUp(context.Background(), "user@example.com", "User", "hunter2hunter2"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
}

func TestSignUpLoadsStores(t *testing.T) {
	s := newTestSession(t)

	if s.Accounts.Status() != StatusUninitialized {
		t.Fatalf("fresh store status = %v", s.Accounts.Status())
	}

	signUp(t, s)

	for name, status := range map[string]Status{
		"accounts":     s.Accounts.Status(),
		"transactions": s.Transactions.Status(),
		"cards":        s.Cards.Status(),
		"goals":        s.Goals.Status(),
		"budgets":      s.Budgets.Status(),
	} {
		if status != StatusReady {
			t.Errorf("%s status = %v, want ready", name, status)
		}
	}

	if p := s.Profile(); p == nil || p.Email != "user@example.com" {
		t.Fatalf("profile = %+v", p)
	}
}

func TestLoadWithoutUserSettlesReadyEmpty(t *testing.T) {
	s := newTestSession(t)

	if err := s.Accounts.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Accounts.Status() != StatusReady {
		t.Fatalf("status = %v, want ready", s.Accounts.Status())
	}
	if len(s.Accounts.Items()) != 0 {
		t.Fatal("expected empty collection")
	}
}

func TestTransactionAddCarriesBalanceToAccountStore(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	signUp(t, s)

	account, err := s.Accounts.Add(ctx, core.Account{
		Name: "Main", Bank: "Acme", Type: core.Checking,
		Balance: core.Money{Cents: 10000},
	})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}

	tx, err := s.Transactions.Add(ctx, core.Transaction{
		Description: "groceries", Amount: core.Money{Cents: 3000},
		Type: core.Expense, Category: "Food",
		AccountID: account.ID, Date: date(2025, 4, 10),
	})
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}

	accounts := s.Accounts.Items()
	if len(accounts) != 1 || accounts[0].Balance.Cents != 7000 {
		t.Fatalf("account store after expense = %+v, want balance 7000", accounts)
	}

	if err := s.Transactions.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	accounts = s.Accounts.Items()
	if accounts[0].Balance.Cents != 10000 {
		t.Fatalf("balance after delete = %d, want 10000", accounts[0].Balance.Cents)
	}
	if len(s.Transactions.Items()) != 0 {
		t.Fatal("transaction store should be empty")
	}
}

func TestTransactionsStayOrderedByDateDesc(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	signUp(t, s)

	account, err := s.Accounts.Add(ctx, core.Account{Name: "Main", Bank: "Acme", Type: core.Checking})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}

	for _, d := range []time.Time{date(2025, 1, 15), date(2025, 1, 5), date(2025, 1, 25)} {
		if _, err := s.Transactions.Add(ctx, core.Transaction{
			Description: "salary", Amount: core.Money{Cents: 1000},
			Type: core.Income, Category: "Salary",
			AccountID: account.ID, Date: d,
		}); err != nil {
			t.Fatalf("add transaction: %v", err)
		}
	}

	items := s.Transactions.Items()
	want := []time.Time{date(2025, 1, 25), date(2025, 1, 15), date(2025, 1, 5)}
	for i, tx := range items {
		if !tx.Date.Equal(want[i]) {
			t.Errorf("items[%d].Date = %v, want %v", i, tx.Date, want[i])
		}
	}
}

func TestAddValidatesBeforeRequest(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	signUp(t, s)

	_, err := s.Accounts.Add(ctx, core.Account{Name: "", Bank: "Acme", Type: "offshore"})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T %v, want *core.ValidationError", err, err)
	}
	if verr.Fields["name"] == "" || verr.Fields["type"] == "" {
		t.Fatalf("fields = %v", verr.Fields)
	}
	if len(s.Accounts.Items()) != 0 {
		t.Fatal("invalid draft must not be stored")
	}
}

func TestUpdateMergesServerRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	signUp(t, s)

	account, err := s.Accounts.Add(ctx, core.Account{
		Name: "Main", Bank: "Acme", Type: core.Checking,
		Balance: core.Money{Cents: 500},
	})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}

	name := "Renamed"
	updated, err := s.Accounts.Update(ctx, account.ID, core.AccountPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Bank != "Acme" || updated.Balance.Cents != 500 {
		t.Fatalf("merged record = %+v", updated)
	}

	items := s.Accounts.Items()
	if items[0].Name != "Renamed" {
		t.Fatalf("store not updated: %+v", items[0])
	}
}

func TestSignOutClearsEverything(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	signUp(t, s)

	if _, err := s.Accounts.Add(ctx, core.Account{Name: "Main", Bank: "Acme", Type: core.Savings}); err != nil {
		t.Fatalf("add account: %v", err)
	}

	if err := s.SignOut(); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if s.Profile() != nil {
		t.Fatal("profile should be nil after sign out")
	}
	if s.Accounts.Status() != StatusUninitialized || len(s.Accounts.Items()) != 0 {
		t.Fatalf("account store = %v/%d items", s.Accounts.Status(), len(s.Accounts.Items()))
	}

	// Subsequent loads settle empty, not erroring.
	if err := s.Accounts.Load(ctx); err != nil {
		t.Fatalf("load after sign out: %v", err)
	}
	if s.Accounts.Status() != StatusReady {
		t.Fatalf("status = %v, want ready", s.Accounts.Status())
	}
}

func TestOverviewFromLoadedStores(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	signUp(t, s)

	account, err := s.Accounts.Add(ctx, core.Account{Name: "Main", Bank: "Acme", Type: core.Checking})
	if err != nil {
		t.Fatalf("add account: %v", err)
	}

	now := date(2025, 1, 20)
	if _, err := s.Transactions.Add(ctx, core.Transaction{
		Description: "salary", Amount: core.Money{Cents: 100000},
		Type: core.Income, Category: "Salary", AccountID: account.ID, Date: date(2025, 1, 15),
	}); err != nil {
		t.Fatalf("add income: %v", err)
	}
	if _, err := s.Transactions.Add(ctx, core.Transaction{
		Description: "groceries", Amount: core.Money{Cents: 20000},
		Type: core.Expense, Category: "Food", AccountID: account.ID, Date: date(2025, 1, 16),
	}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	overview := s.Overview(now)
	if overview.MonthlyIncome.Cents != 100000 || overview.MonthlyExpenses.Cents != 20000 {
		t.Fatalf("overview = %+v", overview)
	}
	if overview.SavingsRate != 80.0 {
		t.Fatalf("savings rate = %v, want 80", overview.SavingsRate)
	}
	if overview.TotalBalance.Cents != 80000 {
		t.Fatalf("total balance = %d, want 80000", overview.TotalBalance.Cents)
	}
}
