package core

import (
	"errors"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Main", Bank: "Acme", Type: Checking}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero and negative balances are allowed.
	good.Balance = Money{Cents: -5000}
	if err := good.Validate(); err != nil {
		t.Fatalf("negative balance should validate, got %v", err)
	}

	cases := []struct {
		name  string
		acc   Account
		field string
	}{
		{"missing name", Account{Bank: "Acme", Type: Checking}, "name"},
		{"missing bank", Account{Name: "Main", Type: Checking}, "bank"},
		{"bad type", Account{Name: "Main", Bank: "Acme", Type: "crypto"}, "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.acc.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "groceries",
		Amount:      Money{Cents: 3200},
		Type:        Expense,
		Category:    "Food",
		AccountID:   1,
		Date:        date(2025, 3, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Description = ""
	bad.Amount = Money{}
	bad.Type = "transfer"
	bad.Category = " "
	bad.AccountID = 0
	bad.Date = time.Time{}
	err := bad.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"description", "amount", "type", "category", "account_id", "date"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected field %q in %v", field, verr.Fields)
		}
	}
}

func TestTransactionSigned(t *testing.T) {
	tx := Transaction{Amount: Money{Cents: 500}, Type: Income}
	if got := tx.Signed().Cents; got != 500 {
		t.Fatalf("income signed = %d, want 500", got)
	}
	tx.Type = Expense
	if got := tx.Signed().Cents; got != -500 {
		t.Fatalf("expense signed = %d, want -500", got)
	}
}

func TestCreditCardValidate(t *testing.T) {
	good := CreditCard{Name: "Gold", Bank: "Acme", Limit: Money{Cents: 100000}, DueDay: 10, ClosingDay: 3}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, day := range []int{0, 32, -1} {
		bad := good
		bad.DueDay = day
		if bad.Validate() == nil {
			t.Errorf("due day %d should fail", day)
		}
		bad = good
		bad.ClosingDay = day
		if bad.Validate() == nil {
			t.Errorf("closing day %d should fail", day)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Title:        "Emergency fund",
		TargetAmount: Money{Cents: 1000000},
		Deadline:     date(2026, 12, 31),
		Category:     GoalEmergency,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.Category = "vacation"
	if bad.Validate() == nil {
		t.Fatal("unknown goal category should fail")
	}
	bad = good
	bad.TargetAmount = Money{Cents: 0}
	if bad.Validate() == nil {
		t.Fatal("zero target should fail")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food", Limit: Money{Cents: 50000}, Period: Monthly}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.Period = "daily"
	if bad.Validate() == nil {
		t.Fatal("unknown period should fail")
	}
}

func TestPatchApply(t *testing.T) {
	acc := Account{Name: "Main", Bank: "Acme", Type: Checking, Balance: Money{Cents: 100}}
	name := "Renamed"
	patch := AccountPatch{Name: &name}
	patch.Apply(&acc)
	if acc.Name != "Renamed" || acc.Bank != "Acme" || acc.Balance.Cents != 100 {
		t.Fatalf("patch should touch only set fields: %+v", acc)
	}
	if patch.SetsBalance() {
		t.Fatal("patch without balance should not report SetsBalance")
	}
	b := Money{Cents: 999}
	if !(AccountPatch{Balance: &b}).SetsBalance() {
		t.Fatal("patch with balance should report SetsBalance")
	}
}
