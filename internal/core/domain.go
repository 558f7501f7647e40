package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"

	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	GoalSavings    GoalCategory = "savings"
	GoalInvestment GoalCategory = "investment"
	GoalPurchase   GoalCategory = "purchase"
	GoalDebt       GoalCategory = "debt"
	GoalEmergency  GoalCategory = "emergency"

	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

const maxNameLen = 100

type (
	AccountType     string
	TransactionType string
	GoalCategory    string
	BudgetPeriod    string

	Account struct {
		ID        int64       `json:"id"`
		UserID    int64       `json:"user_id"`
		Name      string      `json:"name"`
		Bank      string      `json:"bank"`
		Type      AccountType `json:"type"`
		Balance   Money       `json:"balance"`
		Color     string      `json:"color"`
		CreatedAt time.Time   `json:"created_at"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"user_id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"` // magnitude; sign implied by Type
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		AccountID   int64           `json:"account_id"`
		Date        time.Time       `json:"date"`
		Recurring   bool            `json:"recurring"`
		Tags        []string        `json:"tags,omitempty"`
	}

	CreditCard struct {
		ID         int64  `json:"id"`
		UserID     int64  `json:"user_id"`
		Name       string `json:"name"`
		Bank       string `json:"bank"`
		Limit      Money  `json:"limit"`
		Balance    Money  `json:"balance"`
		DueDay     int    `json:"due_day"`
		ClosingDay int    `json:"closing_day"`
		Color      string `json:"color"`
	}

	Goal struct {
		ID            int64        `json:"id"`
		UserID        int64        `json:"user_id"`
		Title         string       `json:"title"`
		Description   string       `json:"description,omitempty"`
		TargetAmount  Money        `json:"target_amount"`
		CurrentAmount Money        `json:"current_amount"`
		Deadline      time.Time    `json:"deadline"`
		Category      GoalCategory `json:"category"`
		Color         string       `json:"color"`
		Completed     bool         `json:"completed"`
		CreatedAt     time.Time    `json:"created_at"`
	}

	Budget struct {
		ID            int64        `json:"id"`
		UserID        int64        `json:"user_id"`
		Category      string       `json:"category"`
		Limit         Money        `json:"limit"`
		Period        BudgetPeriod `json:"period"`
		Color         string       `json:"color"`
		AlertsEnabled bool         `json:"alerts_enabled"`
	}

	Profile struct {
		ID           int64     `json:"id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"created_at"`
	}
)

// DefaultCategories is the built-in transaction category set; any other
// non-empty category is accepted as a custom one.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Housing",
	"Health",
	"Education",
	"Leisure",
	"Shopping",
	"Salary",
	"Other",
}

func (t AccountType) Valid() bool {
	switch t {
	case Checking, Savings, Investment:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (c GoalCategory) Valid() bool {
	switch c {
	case GoalSavings, GoalInvestment, GoalPurchase, GoalDebt, GoalEmergency:
		return true
	}
	return false
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Signed returns the amount with the sign implied by the transaction type:
// income positive, expense negative.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return Money{Cents: -t.Amount.Cents}
	}
	return Money{Cents: t.Amount.Cents}
}

// ValidationError maps field paths to messages. Every failed check lands
// under the field that failed, never in one opaque string.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// or returns nil when no field failed.
func (e *ValidationError) or() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func checkName(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	} else if len(value) > maxNameLen {
		v.add(field, fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
}

func (a Account) Validate() error {
	var v ValidationError
	checkName(&v, "name", a.Name)
	checkName(&v, "bank", a.Bank)
	if !a.Type.Valid() {
		v.add("type", "must be one of checking, savings, investment")
	}
	// Balance may be zero or negative (overdrafts).
	return v.or()
}

func (t Transaction) Validate() error {
	var v ValidationError
	if strings.TrimSpace(t.Description) == "" {
		v.add("description", "is required")
	} else if len(t.Description) > 200 {
		v.add("description", "must be at most 200 characters")
	}
	if t.Amount.Cents <= 0 {
		v.add("amount", "must be greater than zero")
	}
	if !t.Type.Valid() {
		v.add("type", "must be income or expense")
	}
	if strings.TrimSpace(t.Category) == "" {
		v.add("category", "is required")
	}
	if t.AccountID <= 0 {
		v.add("account_id", "is required")
	}
	if t.Date.IsZero() {
		v.add("date", "is required")
	}
	for i, tag := range t.Tags {
		if strings.TrimSpace(tag) == "" {
			v.add(fmt.Sprintf("tags[%d]", i), "must not be empty")
		}
	}
	return v.or()
}

func (c CreditCard) Validate() error {
	var v ValidationError
	checkName(&v, "name", c.Name)
	checkName(&v, "bank", c.Bank)
	if c.Limit.Cents <= 0 {
		v.add("limit", "must be greater than zero")
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		v.add("due_day", "must be between 1 and 31")
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		v.add("closing_day", "must be between 1 and 31")
	}
	// Card balance may be zero; negative means credit in the holder's favour.
	return v.or()
}

func (g Goal) Validate() error {
	var v ValidationError
	checkName(&v, "title", g.Title)
	if len(g.Description) > 500 {
		v.add("description", "must be at most 500 characters")
	}
	if g.TargetAmount.Cents <= 0 {
		v.add("target_amount", "must be greater than zero")
	}
	if g.CurrentAmount.Cents < 0 {
		v.add("current_amount", "must not be negative")
	}
	if g.Deadline.IsZero() {
		v.add("deadline", "is required")
	}
	if !g.Category.Valid() {
		v.add("category", "must be one of savings, investment, purchase, debt, emergency")
	}
	return v.or()
}

func (b Budget) Validate() error {
	var v ValidationError
	if strings.TrimSpace(b.Category) == "" {
		v.add("category", "is required")
	}
	if b.Limit.Cents <= 0 {
		v.add("limit", "must be greater than zero")
	}
	if !b.Period.Valid() {
		v.add("period", "must be one of weekly, monthly, yearly")
	}
	return v.or()
}
