package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the collections in a local SQLite database. A
// whole-collection save runs as one transaction that clears the relevant
// tables and reinserts every row, which is exactly the replace-everything
// contract the Repository interface promises.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		for _, e := range expenses {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO expenses (id, amount, date, description, category) VALUES (?, ?, ?, ?, ?)`,
				e.ID, e.Amount, e.Date.Format(time.RFC3339), e.Description, e.Category)
			if err != nil {
				return fmt.Errorf("insert expense %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "Expenses saved", "count", len(expenses))
	return nil
}

func (r *SQLiteRepository) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, date, description, category FROM expenses ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.Amount, &date, &e.Description, &e.Category); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveCategories(ctx context.Context, categories []core.Category) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		for _, c := range categories {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
				c.ID, c.Name, c.Description)
			if err != nil {
				return fmt.Errorf("insert category %s: %w", c.Name, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveAlerts(ctx context.Context, alerts []*core.Alert) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notifications`); err != nil {
			return fmt.Errorf("clear notifications: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM alerts`); err != nil {
			return fmt.Errorf("clear alerts: %w", err)
		}
		for _, a := range alerts {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO alerts (id, spend_limit, period, category, active) VALUES (?, ?, ?, ?, ?)`,
				a.ID, a.Limit, string(a.Period), a.Category, a.Active)
			if err != nil {
				return fmt.Errorf("insert alert %s: %w", a.ID, err)
			}
			for _, n := range a.Notifications {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO notifications (id, alert_id, message, created_at, read) VALUES (?, ?, ?, ?, ?)`,
					n.ID, a.ID, n.Message, n.CreatedAt.Format(time.RFC3339), n.Read)
				if err != nil {
					return fmt.Errorf("insert notification %s: %w", n.ID, err)
				}
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadAlerts(ctx context.Context) ([]*core.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, spend_limit, period, category, active FROM alerts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []*core.Alert
	byID := make(map[string]*core.Alert)
	for rows.Next() {
		a := &core.Alert{}
		var period string
		if err := rows.Scan(&a.ID, &a.Limit, &period, &a.Category, &a.Active); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Period = core.Period(period)
		out = append(out, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	nrows, err := r.db.QueryContext(ctx,
		`SELECT id, alert_id, message, created_at, read FROM notifications ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer nrows.Close()

	for nrows.Next() {
		n := &core.Notification{}
		var created string
		if err := nrows.Scan(&n.ID, &n.AlertID, &n.Message, &created, &n.Read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parse notification timestamp %q: %w", created, err)
		}
		if a, ok := byID[n.AlertID]; ok {
			a.Notifications = append(a.Notifications, n)
		}
	}
	return out, nrows.Err()
}

func (r *SQLiteRepository) SaveAccounts(ctx context.Context, accounts []*core.SharedAccount) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"account_expenses", "participants", "accounts"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, a := range accounts {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO accounts (id, name, policy) VALUES (?, ?, ?)`,
				a.ID, a.Name, string(a.Policy))
			if err != nil {
				return fmt.Errorf("insert account %s: %w", a.ID, err)
			}
			for i, p := range a.Participants {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO participants (id, account_id, name, percentage, balance, position) VALUES (?, ?, ?, ?, ?, ?)`,
					p.ID, a.ID, p.Name, p.Percentage, p.Balance, i)
				if err != nil {
					return fmt.Errorf("insert participant %s: %w", p.Name, err)
				}
			}
			for i, e := range a.Expenses {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO account_expenses (id, account_id, amount, date, description, category, payer, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					e.ID, a.ID, e.Amount, e.Date.Format(time.RFC3339), e.Description, e.Category, e.Payer, i)
				if err != nil {
					return fmt.Errorf("insert account expense %s: %w", e.ID, err)
				}
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadAccounts(ctx context.Context) ([]*core.SharedAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, policy FROM accounts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []*core.SharedAccount
	byID := make(map[string]*core.SharedAccount)
	for rows.Next() {
		a := &core.SharedAccount{}
		var policy string
		if err := rows.Scan(&a.ID, &a.Name, &policy); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Policy = core.DistributionPolicy(policy)
		out = append(out, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, name, percentage, balance FROM participants ORDER BY account_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		p := &core.Person{}
		var accountID string
		if err := prows.Scan(&p.ID, &accountID, &p.Name, &p.Percentage, &p.Balance); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if a, ok := byID[accountID]; ok {
			a.Participants = append(a.Participants, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	erows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, amount, date, description, category, payer FROM account_expenses ORDER BY account_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query account expenses: %w", err)
	}
	defer erows.Close()

	for erows.Next() {
		var e core.Expense
		var accountID, date string
		if err := erows.Scan(&e.ID, &accountID, &e.Amount, &date, &e.Description, &e.Category, &e.Payer); err != nil {
			return nil, fmt.Errorf("scan account expense: %w", err)
		}
		e.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse account expense date %q: %w", date, err)
		}
		if a, ok := byID[accountID]; ok {
			a.Expenses = append(a.Expenses, e)
		}
	}
	if err := erows.Err(); err != nil {
		return nil, err
	}

	// Balances are derived state; rebuild them rather than trusting the rows.
	for _, a := range out {
		a.Recompute()
	}
	return out, nil
}
