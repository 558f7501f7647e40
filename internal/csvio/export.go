package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Tijigui/fintrack/internal/core"
)

// ExportData holds the collections a single export can draw from.
type ExportData struct {
	Accounts     []core.Account
	Transactions []core.Transaction
	CreditCards  []core.CreditCard
	Goals        []core.Goal
	Budgets      []core.Budget
}

const dateLayout = "2006-01-02"

// Filename returns the download name for an export, e.g.
// "transactions_2025-03-14.csv".
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", kind, now.Format(dateLayout))
}

// Export writes the requested kind as UTF-8 CSV with a BOM so spreadsheet
// tools pick the encoding up. Kind "all" concatenates every section under a
// header line naming it.
func Export(w io.Writer, kind string, data ExportData) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	switch kind {
	case "transactions":
		return exportTransactions(cw, data.Transactions)
	case "accounts":
		return exportAccounts(cw, data.Accounts)
	case "cards":
		return exportCards(cw, data.CreditCards)
	case "goals":
		return exportGoals(cw, data.Goals)
	case "budgets":
		return exportBudgets(cw, data.Budgets)
	case "all":
		sections := []struct {
			name  string
			write func() error
		}{
			{"ACCOUNTS", func() error { return exportAccounts(cw, data.Accounts) }},
			{"TRANSACTIONS", func() error { return exportTransactions(cw, data.Transactions) }},
			{"CREDIT CARDS", func() error { return exportCards(cw, data.CreditCards) }},
			{"GOALS", func() error { return exportGoals(cw, data.Goals) }},
			{"BUDGETS", func() error { return exportBudgets(cw, data.Budgets) }},
		}
		for i, s := range sections {
			if i > 0 {
				if err := cw.Write([]string{""}); err != nil {
					return err
				}
			}
			if err := cw.Write([]string{"# " + s.name}); err != nil {
				return err
			}
			if err := s.write(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown export type %q", kind)
	}
}

func exportTransactions(cw *csv.Writer, txs []core.Transaction) error {
	if err := cw.Write([]string{"date", "description", "amount", "type", "category", "account_id"}); err != nil {
		return err
	}
	for _, t := range txs {
		row := []string{
			t.Date.Format(dateLayout),
			t.Description,
			t.Signed().String(),
			string(t.Type),
			t.Category,
			fmt.Sprintf("%d", t.AccountID),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportAccounts(cw *csv.Writer, accounts []core.Account) error {
	if err := cw.Write([]string{"name", "bank", "type", "balance"}); err != nil {
		return err
	}
	for _, a := range accounts {
		row := []string{a.Name, a.Bank, string(a.Type), a.Balance.String()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportCards(cw *csv.Writer, cards []core.CreditCard) error {
	if err := cw.Write([]string{"name", "bank", "limit", "balance", "due_day", "closing_day"}); err != nil {
		return err
	}
	for _, c := range cards {
		row := []string{
			c.Name, c.Bank, c.Limit.String(), c.Balance.String(),
			fmt.Sprintf("%d", c.DueDay), fmt.Sprintf("%d", c.ClosingDay),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportGoals(cw *csv.Writer, goals []core.Goal) error {
	if err := cw.Write([]string{"title", "target", "current", "deadline", "category", "completed"}); err != nil {
		return err
	}
	for _, g := range goals {
		row := []string{
			g.Title, g.TargetAmount.String(), g.CurrentAmount.String(),
			g.Deadline.Format(dateLayout), string(g.Category),
			fmt.Sprintf("%t", g.Completed),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportBudgets(cw *csv.Writer, budgets []core.Budget) error {
	if err := cw.Write([]string{"category", "limit", "period"}); err != nil {
		return err
	}
	for _, b := range budgets {
		row := []string{b.Category, b.Limit.String(), string(b.Period)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
