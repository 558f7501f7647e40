// Package sqlite is the embedded storage backend, backed by a single
// database file. Suited to single-host deployments; the postgres backend
// covers everything else.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tijigui/fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func fmtDate(t time.Time) string { return t.UTC().Format(dateLayout) }
func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func joinTags(tags []string) string { return strings.Join(tags, ",") }

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Nullable helpers for COALESCE-based partial updates.
func strPtr[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func centsPtr(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

func intPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolPtr(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

// --- profiles ---

func (r *Repository) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	p.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		p.Email, p.Name, p.PasswordHash, fmtTime(p.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.Profile{}, core.ErrEmailTaken
		}
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Profile{}, fmt.Errorf("profile id: %w", err)
	}
	return p, nil
}

func (r *Repository) FindProfileByEmail(ctx context.Context, email string) (core.Profile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM profiles WHERE email = ?`, email))
}

func (r *Repository) GetProfile(ctx context.Context, id int64) (core.Profile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM profiles WHERE id = ?`, id))
}

func (r *Repository) scanProfile(row *sql.Row) (core.Profile, error) {
	var p core.Profile
	var created string
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, core.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return core.Profile{}, err
	}
	return p, nil
}

// --- accounts ---

const accountCols = `id, user_id, name, bank, type, balance_cents, color, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var a core.Account
	var created string
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Bank, &a.Type, &a.Balance.Cents, &a.Color, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+accountCols+` FROM accounts
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	out := make([]core.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GetAccount(ctx context.Context, userID, id int64) (core.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM accounts
		WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	a.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, name, bank, type, balance_cents, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Bank, string(a.Type), a.Balance.Cents, a.Color, fmtTime(a.CreatedAt))
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return core.Account{}, fmt.Errorf("account id: %w", err)
	}
	return a, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, userID, id int64, p core.AccountPatch) (core.Account, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET
			name = COALESCE(?, name),
			bank = COALESCE(?, bank),
			type = COALESCE(?, type),
			balance_cents = COALESCE(?, balance_cents),
			color = COALESCE(?, color)
		WHERE id = ? AND user_id = ?`,
		p.Name, p.Bank, strPtr(p.Type), centsPtr(p.Balance), p.Color, id, userID)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Account{}, core.ErrNotFound
	}
	return r.GetAccount(ctx, userID, id)
}

func (r *Repository) DeleteAccount(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- transactions ---

const txCols = `id, user_id, description, amount_cents, type, category, account_id, date, recurring, tags`

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, tags string
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &t.Type,
		&t.Category, &t.AccountID, &date, &t.Recurring, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if t.Date, err = parseDate(date); err != nil {
		return core.Transaction{}, err
	}
	t.Tags = splitTags(tags)
	return t, nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+txCols+` FROM transactions
		WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTransaction inserts the row and adjusts the owning account's balance
// by the signed amount in one database transaction. Either both writes land
// or neither does.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, core.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM accounts WHERE id = ? AND user_id = ?`,
		t.AccountID, t.UserID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("check account: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (user_id, description, amount_cents, type, category, account_id, date, recurring, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.AccountID, fmtDate(t.Date), t.Recurring, joinTags(t.Tags))
	if err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("insert transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("transaction id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance_cents = balance_cents + ? WHERE id = ?`,
		t.Signed().Cents, t.AccountID); err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("adjust balance: %w", err)
	}

	account, err := scanAccount(tx.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE id = ?`, t.AccountID))
	if err != nil {
		return core.Transaction{}, core.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("commit: %w", err)
	}
	return t, account, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, userID, id int64, p core.TransactionPatch) (core.Transaction, error) {
	var date any
	if p.Date != nil {
		date = fmtDate(*p.Date)
	}
	var tags any
	if p.Tags != nil {
		tags = joinTags(*p.Tags)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			description = COALESCE(?, description),
			amount_cents = COALESCE(?, amount_cents),
			type = COALESCE(?, type),
			category = COALESCE(?, category),
			date = COALESCE(?, date),
			recurring = COALESCE(?, recurring),
			tags = COALESCE(?, tags)
		WHERE id = ? AND user_id = ?`,
		p.Description, centsPtr(p.Amount), strPtr(p.Type), p.Category,
		date, boolPtr(p.Recurring), tags, id, userID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return scanTransaction(r.db.QueryRowContext(ctx, `
		SELECT `+txCols+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID))
}

// DeleteTransaction removes the row and restores the account balance inside
// one database transaction.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) (core.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Account{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	t, err := scanTransaction(tx.QueryRowContext(ctx, `
		SELECT `+txCols+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return core.Account{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return core.Account{}, fmt.Errorf("delete transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance_cents = balance_cents - ? WHERE id = ?`,
		t.Signed().Cents, t.AccountID); err != nil {
		return core.Account{}, fmt.Errorf("restore balance: %w", err)
	}

	account, err := scanAccount(tx.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE id = ?`, t.AccountID))
	if err != nil {
		return core.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Account{}, fmt.Errorf("commit: %w", err)
	}
	return account, nil
}

func (r *Repository) ListRecurringDue(ctx context.Context, periodStart time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+txCols+` FROM transactions t
		WHERE t.recurring = 1
		  AND t.date < ?
		  AND t.date = (
			SELECT MAX(m.date) FROM transactions m
			WHERE m.recurring = 1 AND m.user_id = t.user_id
			  AND m.account_id = t.account_id AND m.description = t.description)
		ORDER BY t.id`, fmtDate(periodStart))
	if err != nil {
		return nil, fmt.Errorf("list recurring due: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- credit cards ---

const cardCols = `id, user_id, name, bank, limit_cents, balance_cents, due_day, closing_day, color`

func scanCard(row rowScanner) (core.CreditCard, error) {
	var c core.CreditCard
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Bank, &c.Limit.Cents,
		&c.Balance.Cents, &c.DueDay, &c.ClosingDay, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCard{}, core.ErrNotFound
	}
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("scan credit card: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCreditCards(ctx context.Context, userID int64) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cardCols+` FROM credit_cards
		WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	out := make([]core.CreditCard, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO credit_cards (user_id, name, bank, limit_cents, balance_cents, due_day, closing_day, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Bank, c.Limit.Cents, c.Balance.Cents, c.DueDay, c.ClosingDay, c.Color)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return core.CreditCard{}, fmt.Errorf("credit card id: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateCreditCard(ctx context.Context, userID, id int64, p core.CreditCardPatch) (core.CreditCard, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credit_cards SET
			name = COALESCE(?, name),
			bank = COALESCE(?, bank),
			limit_cents = COALESCE(?, limit_cents),
			balance_cents = COALESCE(?, balance_cents),
			due_day = COALESCE(?, due_day),
			closing_day = COALESCE(?, closing_day),
			color = COALESCE(?, color)
		WHERE id = ? AND user_id = ?`,
		p.Name, p.Bank, centsPtr(p.Limit), centsPtr(p.Balance),
		intPtr(p.DueDay), intPtr(p.ClosingDay), p.Color, id, userID)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("update credit card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.CreditCard{}, core.ErrNotFound
	}
	return scanCard(r.db.QueryRowContext(ctx, `
		SELECT `+cardCols+` FROM credit_cards WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *Repository) DeleteCreditCard(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM credit_cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete credit card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- goals ---

const goalCols = `id, user_id, title, description, target_cents, current_cents, deadline, category, color, completed, created_at`

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	var deadline, created string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmount.Cents,
		&g.CurrentAmount.Cents, &deadline, &g.Category, &g.Color, &g.Completed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if g.Deadline, err = parseDate(deadline); err != nil {
		return core.Goal{}, err
	}
	if g.CreatedAt, err = parseTime(created); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (r *Repository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+goalCols+` FROM financial_goals
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	out := make([]core.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO financial_goals (user_id, title, description, target_cents, current_cents, deadline, category, color, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Title, g.Description, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		fmtDate(g.Deadline), string(g.Category), g.Color, g.Completed, fmtTime(g.CreatedAt))
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return core.Goal{}, fmt.Errorf("goal id: %w", err)
	}
	return g, nil
}

func (r *Repository) UpdateGoal(ctx context.Context, userID, id int64, p core.GoalPatch) (core.Goal, error) {
	var deadline any
	if p.Deadline != nil {
		deadline = fmtDate(*p.Deadline)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE financial_goals SET
			title = COALESCE(?, title),
			description = COALESCE(?, description),
			target_cents = COALESCE(?, target_cents),
			current_cents = COALESCE(?, current_cents),
			deadline = COALESCE(?, deadline),
			category = COALESCE(?, category),
			color = COALESCE(?, color),
			completed = COALESCE(?, completed)
		WHERE id = ? AND user_id = ?`,
		p.Title, p.Description, centsPtr(p.TargetAmount), centsPtr(p.CurrentAmount),
		deadline, strPtr(p.Category), p.Color, boolPtr(p.Completed), id, userID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Goal{}, core.ErrNotFound
	}
	return scanGoal(r.db.QueryRowContext(ctx, `
		SELECT `+goalCols+` FROM financial_goals WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *Repository) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM financial_goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- budgets ---

const budgetCols = `id, user_id, category, limit_cents, period, color, alerts_enabled`

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit.Cents, &b.Period, &b.Color, &b.AlertsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}

func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+budgetCols+` FROM budgets
		WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, limit_cents, period, color, alerts_enabled)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Category, b.Limit.Cents, string(b.Period), b.Color, b.AlertsEnabled)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	return b, nil
}

func (r *Repository) UpdateBudget(ctx context.Context, userID, id int64, p core.BudgetPatch) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET
			category = COALESCE(?, category),
			limit_cents = COALESCE(?, limit_cents),
			period = COALESCE(?, period),
			color = COALESCE(?, color),
			alerts_enabled = COALESCE(?, alerts_enabled)
		WHERE id = ? AND user_id = ?`,
		p.Category, centsPtr(p.Limit), strPtr(p.Period), p.Color, boolPtr(p.AlertsEnabled), id, userID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Budget{}, core.ErrNotFound
	}
	return scanBudget(r.db.QueryRowContext(ctx, `
		SELECT `+budgetCols+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
