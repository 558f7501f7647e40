package core

import (
	"fmt"
	"strings"
	"time"
)

// Patch types carry partial updates: nil fields are untouched, set fields
// replace the current value. The same shapes travel over the wire and reach
// the storage layer, so client and server agree on what "changed fields only"
// means for each entity.

type (
	AccountPatch struct {
		Name    *string      `json:"name,omitempty"`
		Bank    *string      `json:"bank,omitempty"`
		Type    *AccountType `json:"type,omitempty"`
		Balance *Money       `json:"balance,omitempty"`
		Color   *string      `json:"color,omitempty"`
	}

	TransactionPatch struct {
		Description *string          `json:"description,omitempty"`
		Amount      *Money           `json:"amount,omitempty"`
		Type        *TransactionType `json:"type,omitempty"`
		Category    *string          `json:"category,omitempty"`
		Date        *time.Time       `json:"date,omitempty"`
		Recurring   *bool            `json:"recurring,omitempty"`
		Tags        *[]string        `json:"tags,omitempty"`
	}

	CreditCardPatch struct {
		Name       *string `json:"name,omitempty"`
		Bank       *string `json:"bank,omitempty"`
		Limit      *Money  `json:"limit,omitempty"`
		Balance    *Money  `json:"balance,omitempty"`
		DueDay     *int    `json:"due_day,omitempty"`
		ClosingDay *int    `json:"closing_day,omitempty"`
		Color      *string `json:"color,omitempty"`
	}

	GoalPatch struct {
		Title         *string       `json:"title,omitempty"`
		Description   *string       `json:"description,omitempty"`
		TargetAmount  *Money        `json:"target_amount,omitempty"`
		CurrentAmount *Money        `json:"current_amount,omitempty"`
		Deadline      *time.Time    `json:"deadline,omitempty"`
		Category      *GoalCategory `json:"category,omitempty"`
		Color         *string       `json:"color,omitempty"`
		Completed     *bool         `json:"completed,omitempty"`
	}

	BudgetPatch struct {
		Category      *string       `json:"category,omitempty"`
		Limit         *Money        `json:"limit,omitempty"`
		Period        *BudgetPeriod `json:"period,omitempty"`
		Color         *string       `json:"color,omitempty"`
		AlertsEnabled *bool         `json:"alerts_enabled,omitempty"`
	}
)

func (p AccountPatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Bank != nil {
		a.Bank = *p.Bank
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
}

func (p AccountPatch) Validate() error {
	var v ValidationError
	if p.Name != nil {
		checkName(&v, "name", *p.Name)
	}
	if p.Bank != nil {
		checkName(&v, "bank", *p.Bank)
	}
	if p.Type != nil && !p.Type.Valid() {
		v.add("type", "must be one of checking, savings, investment")
	}
	return v.or()
}

// SetsBalance reports whether the patch writes the balance directly, outside
// the transaction flow. Callers use this to log the consistency hazard.
func (p AccountPatch) SetsBalance() bool {
	return p.Balance != nil
}

func (p TransactionPatch) Apply(t *Transaction) {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Recurring != nil {
		t.Recurring = *p.Recurring
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
}

func (p TransactionPatch) Validate() error {
	var v ValidationError
	if p.Description != nil {
		if strings.TrimSpace(*p.Description) == "" {
			v.add("description", "is required")
		} else if len(*p.Description) > 200 {
			v.add("description", "must be at most 200 characters")
		}
	}
	if p.Amount != nil && p.Amount.Cents <= 0 {
		v.add("amount", "must be greater than zero")
	}
	if p.Type != nil && !p.Type.Valid() {
		v.add("type", "must be income or expense")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		v.add("category", "is required")
	}
	if p.Date != nil && p.Date.IsZero() {
		v.add("date", "is required")
	}
	if p.Tags != nil {
		for i, tag := range *p.Tags {
			if strings.TrimSpace(tag) == "" {
				v.add(fmt.Sprintf("tags[%d]", i), "must not be empty")
			}
		}
	}
	return v.or()
}

func (p CreditCardPatch) Apply(c *CreditCard) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Bank != nil {
		c.Bank = *p.Bank
	}
	if p.Limit != nil {
		c.Limit = *p.Limit
	}
	if p.Balance != nil {
		c.Balance = *p.Balance
	}
	if p.DueDay != nil {
		c.DueDay = *p.DueDay
	}
	if p.ClosingDay != nil {
		c.ClosingDay = *p.ClosingDay
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}

func (p CreditCardPatch) Validate() error {
	var v ValidationError
	if p.Name != nil {
		checkName(&v, "name", *p.Name)
	}
	if p.Bank != nil {
		checkName(&v, "bank", *p.Bank)
	}
	if p.Limit != nil && p.Limit.Cents <= 0 {
		v.add("limit", "must be greater than zero")
	}
	if p.DueDay != nil && (*p.DueDay < 1 || *p.DueDay > 31) {
		v.add("due_day", "must be between 1 and 31")
	}
	if p.ClosingDay != nil && (*p.ClosingDay < 1 || *p.ClosingDay > 31) {
		v.add("closing_day", "must be between 1 and 31")
	}
	return v.or()
}

func (p GoalPatch) Apply(g *Goal) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.Completed != nil {
		g.Completed = *p.Completed
	}
}

func (p GoalPatch) Validate() error {
	var v ValidationError
	if p.Title != nil {
		checkName(&v, "title", *p.Title)
	}
	if p.Description != nil && len(*p.Description) > 500 {
		v.add("description", "must be at most 500 characters")
	}
	if p.TargetAmount != nil && p.TargetAmount.Cents <= 0 {
		v.add("target_amount", "must be greater than zero")
	}
	if p.CurrentAmount != nil && p.CurrentAmount.Cents < 0 {
		v.add("current_amount", "must not be negative")
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		v.add("deadline", "is required")
	}
	if p.Category != nil && !p.Category.Valid() {
		v.add("category", "must be one of savings, investment, purchase, debt, emergency")
	}
	return v.or()
}

func (p BudgetPatch) Apply(b *Budget) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Limit != nil {
		b.Limit = *p.Limit
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.AlertsEnabled != nil {
		b.AlertsEnabled = *p.AlertsEnabled
	}
}

func (p BudgetPatch) Validate() error {
	var v ValidationError
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		v.add("category", "is required")
	}
	if p.Limit != nil && p.Limit.Cents <= 0 {
		v.add("limit", "must be greater than zero")
	}
	if p.Period != nil && !p.Period.Valid() {
		v.add("period", "must be one of weekly, monthly, yearly")
	}
	return v.or()
}
