package core

import (
	"testing"
)

func TestBuildOverview(t *testing.T) {
	now := date(2025, 1, 15)
	accounts := []Account{
		{ID: 1, Balance: Money{Cents: 10000}},
		{ID: 2, Balance: Money{Cents: -2500}},
	}
	transactions := []Transaction{
		{Date: date(2025, 1, 5), Amount: Money{Cents: 100000}, Type: Income, AccountID: 1},
		{Date: date(2025, 1, 20), Amount: Money{Cents: 20000}, Type: Expense, AccountID: 1},
		{Date: date(2024, 12, 31), Amount: Money{Cents: 99900}, Type: Expense, AccountID: 1}, // previous year
	}

	o := BuildOverview(accounts, transactions, now)
	if o.TotalBalance.Cents != 7500 {
		t.Errorf("total balance = %d, want 7500", o.TotalBalance.Cents)
	}
	if o.MonthlyIncome.Cents != 100000 {
		t.Errorf("monthly income = %d, want 100000", o.MonthlyIncome.Cents)
	}
	if o.MonthlyExpenses.Cents != 20000 {
		t.Errorf("monthly expenses = %d, want 20000", o.MonthlyExpenses.Cents)
	}
	if o.YearlyIncome.Cents != 100000 || o.YearlyExpenses.Cents != 20000 {
		t.Errorf("yearly totals = %d/%d, want 100000/20000", o.YearlyIncome.Cents, o.YearlyExpenses.Cents)
	}
	if o.SavingsRate != 80.0 {
		t.Errorf("savings rate = %v, want 80.0", o.SavingsRate)
	}
}

func TestSavingsRateZeroIncome(t *testing.T) {
	if rate := SavingsRate(Money{}, Money{Cents: 123456}); rate != 0 {
		t.Fatalf("savings rate with no income = %v, want 0", rate)
	}
}

func TestExpensesByCategory(t *testing.T) {
	transactions := []Transaction{
		{Date: date(2025, 1, 1), Amount: Money{Cents: 7500}, Type: Expense, Category: "Food"},
		{Date: date(2025, 1, 2), Amount: Money{Cents: 2500}, Type: Expense, Category: "Transport"},
		{Date: date(2025, 1, 3), Amount: Money{Cents: 50000}, Type: Income, Category: "Salary"},
	}
	shares := ExpensesByCategory(transactions, nil)
	if len(shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(shares))
	}
	if shares[0].Category != "Food" || shares[0].Percent != 75.0 {
		t.Errorf("top share = %+v, want Food at 75%%", shares[0])
	}
	if shares[1].Category != "Transport" || shares[1].Percent != 25.0 {
		t.Errorf("second share = %+v, want Transport at 25%%", shares[1])
	}
}

func TestActivityByAccount(t *testing.T) {
	transactions := []Transaction{
		{AccountID: 2, Date: date(2025, 1, 1), Amount: Money{Cents: 100}, Type: Expense},
		{AccountID: 1, Date: date(2025, 1, 2), Amount: Money{Cents: 300}, Type: Income},
		{AccountID: 1, Date: date(2025, 1, 3), Amount: Money{Cents: 50}, Type: Expense},
	}
	acts := ActivityByAccount(transactions, nil)
	if len(acts) != 2 {
		t.Fatalf("got %d activities, want 2", len(acts))
	}
	if acts[0].AccountID != 1 || acts[0].Income.Cents != 300 || acts[0].Expenses.Cents != 50 {
		t.Errorf("account 1 activity = %+v", acts[0])
	}
	if acts[1].AccountID != 2 || acts[1].Expenses.Cents != 100 {
		t.Errorf("account 2 activity = %+v", acts[1])
	}
}

func TestUtilizeBudgetsStatus(t *testing.T) {
	now := date(2025, 1, 15)
	budgets := []Budget{
		{ID: 1, Category: "Food", Limit: Money{Cents: 10000}, Period: Monthly},
	}
	cases := []struct {
		name  string
		spent int64
		want  BudgetStatus
	}{
		{"under", 9999, BudgetUnder},
		{"at", 10000, BudgetAt},
		{"over", 10001, BudgetOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txs := []Transaction{
				{Date: date(2025, 1, 10), Amount: Money{Cents: tc.spent}, Type: Expense, Category: "Food"},
			}
			us := UtilizeBudgets(budgets, txs, now)
			if len(us) != 1 {
				t.Fatalf("got %d utilizations", len(us))
			}
			if us[0].Status != tc.want {
				t.Errorf("status = %s, want %s", us[0].Status, tc.want)
			}
			if us[0].Spent.Cents != tc.spent {
				t.Errorf("spent = %d, want %d", us[0].Spent.Cents, tc.spent)
			}
		})
	}
}

func TestUtilizeBudgetsIgnoresOutOfPeriod(t *testing.T) {
	now := date(2025, 1, 15)
	budgets := []Budget{{Category: "Food", Limit: Money{Cents: 10000}, Period: Monthly}}
	txs := []Transaction{
		{Date: date(2024, 12, 20), Amount: Money{Cents: 5000}, Type: Expense, Category: "Food"},
		{Date: date(2025, 1, 5), Amount: Money{Cents: 2000}, Type: Expense, Category: "Food"},
		{Date: date(2025, 1, 5), Amount: Money{Cents: 9000}, Type: Expense, Category: "Transport"},
	}
	us := UtilizeBudgets(budgets, txs, now)
	if us[0].Spent.Cents != 2000 {
		t.Fatalf("spent = %d, want 2000 (current month, matching category only)", us[0].Spent.Cents)
	}
}

func TestSeriesZeroFill(t *testing.T) {
	now := date(2025, 3, 20)
	txs := []Transaction{
		{Date: date(2025, 1, 10), Amount: Money{Cents: 1000}, Type: Income},
		{Date: date(2025, 3, 5), Amount: Money{Cents: 400}, Type: Expense},
	}
	points := Series(txs, Monthly, 3, now)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	// Oldest first: Jan, Feb, Mar.
	if !points[0].Start.Equal(date(2025, 1, 1)) || points[0].Income.Cents != 1000 {
		t.Errorf("jan point = %+v", points[0])
	}
	if points[1].Income.Cents != 0 || points[1].Expenses.Cents != 0 || points[1].Savings.Cents != 0 {
		t.Errorf("feb should be zero-filled: %+v", points[1])
	}
	if points[2].Expenses.Cents != 400 || points[2].Savings.Cents != -400 {
		t.Errorf("mar point = %+v", points[2])
	}
	if points[0].Label != "2025-01" {
		t.Errorf("label = %q, want 2025-01", points[0].Label)
	}
}

func TestSeriesWeekly(t *testing.T) {
	// 2025-01-15 is a Wednesday; current week starts 2025-01-13.
	now := date(2025, 1, 15)
	points := Series(nil, Weekly, 2, now)
	if len(points) != 2 {
		t.Fatalf("got %d points", len(points))
	}
	if !points[0].Start.Equal(date(2025, 1, 6)) || !points[1].Start.Equal(date(2025, 1, 13)) {
		t.Fatalf("week starts = %v, %v", points[0].Start, points[1].Start)
	}
}
