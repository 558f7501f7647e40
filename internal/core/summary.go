package core

import (
	"sort"
	"time"
)

// The aggregation layer: stateless derivations over the in-memory entity
// collections. Everything recomputes from scratch on each call; collections
// are expected to stay in the hundreds-to-low-thousands range.

const (
	BudgetUnder BudgetStatus = "under"
	BudgetAt    BudgetStatus = "at"
	BudgetOver  BudgetStatus = "over"
)

type (
	BudgetStatus string

	// DateRange is a half-open [Start, End) filter over transaction dates.
	DateRange struct {
		Start time.Time
		End   time.Time
	}

	Overview struct {
		TotalBalance    Money   `json:"total_balance"`
		MonthlyIncome   Money   `json:"monthly_income"`
		MonthlyExpenses Money   `json:"monthly_expenses"`
		YearlyIncome    Money   `json:"yearly_income"`
		YearlyExpenses  Money   `json:"yearly_expenses"`
		SavingsRate     float64 `json:"savings_rate"` // percent
	}

	CategoryShare struct {
		Category string  `json:"category"`
		Amount   Money   `json:"amount"`
		Percent  float64 `json:"percent"`
	}

	AccountActivity struct {
		AccountID int64 `json:"account_id"`
		Income    Money `json:"income"`
		Expenses  Money `json:"expenses"`
	}

	BudgetUtilization struct {
		Budget  Budget       `json:"budget"`
		Spent   Money        `json:"spent"`
		Percent float64      `json:"percent"`
		Status  BudgetStatus `json:"status"`
	}

	SeriesPoint struct {
		Start    time.Time `json:"start"`
		Label    string    `json:"label"`
		Income   Money     `json:"income"`
		Expenses Money     `json:"expenses"`
		Savings  Money     `json:"savings"`
	}
)

// TotalBalance sums account balances.
func TotalBalance(accounts []Account) Money {
	var total Money
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// FilterByRange returns the transactions whose date falls inside r. A nil
// range returns the input unchanged.
func FilterByRange(transactions []Transaction, r *DateRange) []Transaction {
	if r == nil {
		return transactions
	}
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if InRange(t.Date, r.Start, r.End) {
			out = append(out, t)
		}
	}
	return out
}

func sumByType(transactions []Transaction, start, end time.Time) (income, expenses Money) {
	for _, t := range transactions {
		if !InRange(t.Date, start, end) {
			continue
		}
		if t.Type == Income {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

// SavingsRate is (income - expenses) / income as a percentage, defined as 0
// when income is 0 so a pure-expense month never divides by zero.
func SavingsRate(income, expenses Money) float64 {
	if income.Cents == 0 {
		return 0
	}
	return float64(income.Cents-expenses.Cents) / float64(income.Cents) * 100
}

// BuildOverview derives the dashboard headline numbers for the calendar
// month and year containing now.
func BuildOverview(accounts []Account, transactions []Transaction, now time.Time) Overview {
	mStart, mEnd := MonthBounds(now)
	yStart, yEnd := YearBounds(now)
	mInc, mExp := sumByType(transactions, mStart, mEnd)
	yInc, yExp := sumByType(transactions, yStart, yEnd)
	return Overview{
		TotalBalance:    TotalBalance(accounts),
		MonthlyIncome:   mInc,
		MonthlyExpenses: mExp,
		YearlyIncome:    yInc,
		YearlyExpenses:  yExp,
		SavingsRate:     SavingsRate(mInc, mExp),
	}
}

// ExpensesByCategory totals expense transactions per category and reports
// each category's share of total expenses, largest first.
func ExpensesByCategory(transactions []Transaction, r *DateRange) []CategoryShare {
	totals := make(map[string]Money)
	var overall Money
	for _, t := range FilterByRange(transactions, r) {
		if t.Type != Expense {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
		overall = overall.Add(t.Amount)
	}
	shares := make([]CategoryShare, 0, len(totals))
	for cat, amount := range totals {
		share := CategoryShare{Category: cat, Amount: amount}
		if overall.Cents > 0 {
			share.Percent = float64(amount.Cents) / float64(overall.Cents) * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount.Cents != shares[j].Amount.Cents {
			return shares[i].Amount.Cents > shares[j].Amount.Cents
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// ActivityByAccount totals income and expenses per account.
func ActivityByAccount(transactions []Transaction, r *DateRange) []AccountActivity {
	byAccount := make(map[int64]*AccountActivity)
	order := make([]int64, 0)
	for _, t := range FilterByRange(transactions, r) {
		act, ok := byAccount[t.AccountID]
		if !ok {
			act = &AccountActivity{AccountID: t.AccountID}
			byAccount[t.AccountID] = act
			order = append(order, t.AccountID)
		}
		if t.Type == Income {
			act.Income = act.Income.Add(t.Amount)
		} else {
			act.Expenses = act.Expenses.Add(t.Amount)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]AccountActivity, 0, len(order))
	for _, id := range order {
		out = append(out, *byAccount[id])
	}
	return out
}

// UtilizeBudgets derives spend for each budget from expense transactions in
// the budget's current period. Spent is never read from storage. Status is
// three-valued: exactly-at-limit is its own state, distinct from over.
func UtilizeBudgets(budgets []Budget, transactions []Transaction, now time.Time) []BudgetUtilization {
	out := make([]BudgetUtilization, 0, len(budgets))
	for _, b := range budgets {
		start, end := PeriodBounds(b.Period, now)
		var spent Money
		for _, t := range transactions {
			if t.Type != Expense || t.Category != b.Category {
				continue
			}
			if InRange(t.Date, start, end) {
				spent = spent.Add(t.Amount)
			}
		}
		u := BudgetUtilization{Budget: b, Spent: spent}
		if b.Limit.Cents > 0 {
			u.Percent = float64(spent.Cents) / float64(b.Limit.Cents) * 100
		}
		switch {
		case spent.Cents > b.Limit.Cents:
			u.Status = BudgetOver
		case spent.Cents == b.Limit.Cents:
			u.Status = BudgetAt
		default:
			u.Status = BudgetUnder
		}
		out = append(out, u)
	}
	return out
}

// Series buckets transactions into count calendar periods ending with the
// one containing now, oldest first. Periods with no transactions still get a
// point with zero income, expenses and savings.
func Series(transactions []Transaction, period BudgetPeriod, count int, now time.Time) []SeriesPoint {
	if count <= 0 {
		return nil
	}
	currentStart, _ := PeriodBounds(period, now)
	points := make([]SeriesPoint, count)
	for i := 0; i < count; i++ {
		start := ShiftPeriod(period, currentStart, -(count - 1 - i))
		points[i] = SeriesPoint{Start: start, Label: PeriodLabel(period, start)}
	}
	for _, t := range transactions {
		tStart, _ := PeriodBounds(period, t.Date)
		for i := range points {
			if points[i].Start.Equal(tStart) {
				if t.Type == Income {
					points[i].Income = points[i].Income.Add(t.Amount)
				} else {
					points[i].Expenses = points[i].Expenses.Add(t.Amount)
				}
				break
			}
		}
	}
	for i := range points {
		points[i].Savings = points[i].Income.Sub(points[i].Expenses)
	}
	return points
}
