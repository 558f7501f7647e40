// Package postgres is the shared storage backend for multi-host deployments.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tijigui/fintrack/internal/core"
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*Repository, error) {
	if err := runMigrations(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// --- profiles ---

func (r *Repository) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		p.Email, p.Name, p.PasswordHash).Scan(&p.ID, &p.CreatedAt)
	if isUniqueViolation(err) {
		return core.Profile{}, core.ErrEmailTaken
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (r *Repository) FindProfileByEmail(ctx context.Context, email string) (core.Profile, error) {
	var p core.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM profiles WHERE lower(email) = lower($1)`, email).
		Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return core.Profile{}, notFound(err)
	}
	return p, nil
}

func (r *Repository) GetProfile(ctx context.Context, id int64) (core.Profile, error) {
	var p core.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		return core.Profile{}, notFound(err)
	}
	return p, nil
}

// --- accounts ---

const accountCols = `id, user_id, name, bank, type, balance_cents, color, created_at`

func scanAccount(row pgx.Row) (core.Account, error) {
	var a core.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Bank, &a.Type, &a.Balance.Cents, &a.Color, &a.CreatedAt)
	if err != nil {
		return core.Account{}, notFound(err)
	}
	return a, nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountCols+` FROM accounts
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
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
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+` FROM accounts
		WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, bank, type, balance_cents, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		a.UserID, a.Name, a.Bank, string(a.Type), a.Balance.Cents, a.Color).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, userID, id int64, p core.AccountPatch) (core.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts SET
			name = COALESCE($1, name),
			bank = COALESCE($2, bank),
			type = COALESCE($3, type),
			balance_cents = COALESCE($4, balance_cents),
			color = COALESCE($5, color)
		WHERE id = $6 AND user_id = $7
		RETURNING `+accountCols,
		p.Name, p.Bank, p.Type, centsPtr(p.Balance), p.Color, id, userID))
}

func (r *Repository) DeleteAccount(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func centsPtr(m *core.Money) *int64 {
	if m == nil {
		return nil
	}
	return &m.Cents
}

// --- transactions ---

const txCols = `id, user_id, description, amount_cents, type, category, account_id, date, recurring, tags`

func scanTransaction(row pgx.Row) (core.Transaction, error) {
	var t core.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &t.Type,
		&t.Category, &t.AccountID, &t.Date, &t.Recurring, &t.Tags)
	if err != nil {
		return core.Transaction{}, notFound(err)
	}
	return t, nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txCols+` FROM transactions
		WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
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
// in one database transaction.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, core.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM accounts WHERE id = $1 AND user_id = $2`,
		t.AccountID, t.UserID).Scan(&exists)
	if err != nil {
		return core.Transaction{}, core.Account{}, notFound(err)
	}

	if t.Tags == nil {
		t.Tags = []string{}
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, description, amount_cents, type, category, account_id, date, recurring, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		t.UserID, t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.AccountID, t.Date, t.Recurring, t.Tags).Scan(&t.ID)
	if err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("insert transaction: %w", err)
	}

	account, err := scanAccount(tx.QueryRow(ctx, `
		UPDATE accounts SET balance_cents = balance_cents + $1
		WHERE id = $2
		RETURNING `+accountCols, t.Signed().Cents, t.AccountID))
	if err != nil {
		return core.Transaction{}, core.Account{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return core.Transaction{}, core.Account{}, fmt.Errorf("commit: %w", err)
	}
	return t, account, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, userID, id int64, p core.TransactionPatch) (core.Transaction, error) {
	return scanTransaction(r.pool.QueryRow(ctx, `
		UPDATE transactions SET
			description = COALESCE($1, description),
			amount_cents = COALESCE($2, amount_cents),
			type = COALESCE($3, type),
			category = COALESCE($4, category),
			date = COALESCE($5, date),
			recurring = COALESCE($6, recurring),
			tags = COALESCE($7, tags)
		WHERE id = $8 AND user_id = $9
		RETURNING `+txCols,
		p.Description, centsPtr(p.Amount), p.Type, p.Category,
		p.Date, p.Recurring, p.Tags, id, userID))
}

// DeleteTransaction removes the row and restores the account balance inside
// one database transaction.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) (core.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return core.Account{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	t, err := scanTransaction(tx.QueryRow(ctx, `
		DELETE FROM transactions WHERE id = $1 AND user_id = $2
		RETURNING `+txCols, id, userID))
	if err != nil {
		return core.Account{}, err
	}

	account, err := scanAccount(tx.QueryRow(ctx, `
		UPDATE accounts SET balance_cents = balance_cents - $1
		WHERE id = $2
		RETURNING `+accountCols, t.Signed().Cents, t.AccountID))
	if err != nil {
		return core.Account{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return core.Account{}, fmt.Errorf("commit: %w", err)
	}
	return account, nil
}

func (r *Repository) ListRecurringDue(ctx context.Context, periodStart time.Time) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txCols+` FROM transactions t
		WHERE t.recurring
		  AND t.date < $1
		  AND t.date = (
			SELECT max(m.date) FROM transactions m
			WHERE m.recurring AND m.user_id = t.user_id
			  AND m.account_id = t.account_id AND m.description = t.description)
		ORDER BY t.id`, periodStart)
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

func scanCard(row pgx.Row) (core.CreditCard, error) {
	var c core.CreditCard
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Bank, &c.Limit.Cents,
		&c.Balance.Cents, &c.DueDay, &c.ClosingDay, &c.Color)
	if err != nil {
		return core.CreditCard{}, notFound(err)
	}
	return c, nil
}

func (r *Repository) ListCreditCards(ctx context.Context, userID int64) ([]core.CreditCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cardCols+` FROM credit_cards
		WHERE user_id = $1 ORDER BY id DESC`, userID)
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
	err := r.pool.QueryRow(ctx, `
		INSERT INTO credit_cards (user_id, name, bank, limit_cents, balance_cents, due_day, closing_day, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		c.UserID, c.Name, c.Bank, c.Limit.Cents, c.Balance.Cents, c.DueDay, c.ClosingDay, c.Color).
		Scan(&c.ID)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateCreditCard(ctx context.Context, userID, id int64, p core.CreditCardPatch) (core.CreditCard, error) {
	return scanCard(r.pool.QueryRow(ctx, `
		UPDATE credit_cards SET
			name = COALESCE($1, name),
			bank = COALESCE($2, bank),
			limit_cents = COALESCE($3, limit_cents),
			balance_cents = COALESCE($4, balance_cents),
			due_day = COALESCE($5, due_day),
			closing_day = COALESCE($6, closing_day),
			color = COALESCE($7, color)
		WHERE id = $8 AND user_id = $9
		RETURNING `+cardCols,
		p.Name, p.Bank, centsPtr(p.Limit), centsPtr(p.Balance),
		p.DueDay, p.ClosingDay, p.Color, id, userID))
}

func (r *Repository) DeleteCreditCard(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM credit_cards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete credit card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- goals ---

const goalCols = `id, user_id, title, description, target_cents, current_cents, deadline, category, color, completed, created_at`

func scanGoal(row pgx.Row) (core.Goal, error) {
	var g core.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmount.Cents,
		&g.CurrentAmount.Cents, &g.Deadline, &g.Category, &g.Color, &g.Completed, &g.CreatedAt)
	if err != nil {
		return core.Goal{}, notFound(err)
	}
	return g, nil
}

func (r *Repository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+goalCols+` FROM financial_goals
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
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
	err := r.pool.QueryRow(ctx, `
		INSERT INTO financial_goals (user_id, title, description, target_cents, current_cents, deadline, category, color, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		g.UserID, g.Title, g.Description, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline, string(g.Category), g.Color, g.Completed).
		Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (r *Repository) UpdateGoal(ctx context.Context, userID, id int64, p core.GoalPatch) (core.Goal, error) {
	return scanGoal(r.pool.QueryRow(ctx, `
		UPDATE financial_goals SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			target_cents = COALESCE($3, target_cents),
			current_cents = COALESCE($4, current_cents),
			deadline = COALESCE($5, deadline),
			category = COALESCE($6, category),
			color = COALESCE($7, color),
			completed = COALESCE($8, completed)
		WHERE id = $9 AND user_id = $10
		RETURNING `+goalCols,
		p.Title, p.Description, centsPtr(p.TargetAmount), centsPtr(p.CurrentAmount),
		p.Deadline, p.Category, p.Color, p.Completed, id, userID))
}

func (r *Repository) DeleteGoal(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM financial_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- budgets ---

const budgetCols = `id, user_id, category, limit_cents, period, color, alerts_enabled`

func scanBudget(row pgx.Row) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit.Cents, &b.Period, &b.Color, &b.AlertsEnabled)
	if err != nil {
		return core.Budget{}, notFound(err)
	}
	return b, nil
}

func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetCols+` FROM budgets
		WHERE user_id = $1 ORDER BY id DESC`, userID)
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
	err := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category, limit_cents, period, color, alerts_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		b.UserID, b.Category, b.Limit.Cents, string(b.Period), b.Color, b.AlertsEnabled).
		Scan(&b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (r *Repository) UpdateBudget(ctx context.Context, userID, id int64, p core.BudgetPatch) (core.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx, `
		UPDATE budgets SET
			category = COALESCE($1, category),
			limit_cents = COALESCE($2, limit_cents),
			period = COALESCE($3, period),
			color = COALESCE($4, color),
			alerts_enabled = COALESCE($5, alerts_enabled)
		WHERE id = $6 AND user_id = $7
		RETURNING `+budgetCols,
		p.Category, centsPtr(p.Limit), p.Period, p.Color, p.AlertsEnabled, id, userID))
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
