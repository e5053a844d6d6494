// Package storage implements the SQLite backend. Each user's collections are
// stored as ordered rows and replaced wholesale on write, mirroring the
// whole-collection persistence model of the other backends.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"habitly/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
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

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) LoadExpenses(ctx context.Context, userKey string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, category, date, is_impulse, source
		FROM expenses
		WHERE user_key = ?
		ORDER BY position`, userKey)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var date string
		var impulse int64
		var category, source string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &category, &date, &impulse, &source); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = core.Category(category)
		e.Source = core.Source(source)
		e.IsImpulse = impulse != 0
		e.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *Repository) ReplaceExpenses(ctx context.Context, userKey string, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE user_key = ?`, userKey); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (user_key, position, id, description, amount, category, date, is_impulse, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range expenses {
		impulse := 0
		if e.IsImpulse {
			impulse = 1
		}
		_, err := stmt.ExecContext(ctx, userKey, i, e.ID, e.Description, e.Amount,
			string(e.Category), e.Date.Format(time.RFC3339), impulse, string(e.Source))
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) LoadSavings(ctx context.Context, userKey string) ([]core.SavingEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, source_expense_category, reason, type, date, linked_expense_id, created_at
		FROM savings
		WHERE user_key = ?
		ORDER BY position`, userKey)
	if err != nil {
		return nil, fmt.Errorf("query savings: %w", err)
	}
	defer rows.Close()

	var entries []core.SavingEntry
	for rows.Next() {
		var e core.SavingEntry
		var category, entryType, createdAt string
		var linked sql.NullString
		if err := rows.Scan(&e.ID, &e.Amount, &category, &e.Reason, &entryType, &e.Date, &linked, &createdAt); err != nil {
			return nil, fmt.Errorf("scan saving entry: %w", err)
		}
		e.SourceExpenseCategory = core.Category(category)
		e.Type = core.SavingType(entryType)
		e.LinkedExpenseID = linked.String
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse entry timestamp %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) ReplaceSavings(ctx context.Context, userKey string, entries []core.SavingEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM savings WHERE user_key = ?`, userKey); err != nil {
		return fmt.Errorf("clear savings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO savings (user_key, position, id, amount, source_expense_category, reason, type, date, linked_expense_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		linked := sql.NullString{String: e.LinkedExpenseID, Valid: e.LinkedExpenseID != ""}
		_, err := stmt.ExecContext(ctx, userKey, i, e.ID, e.Amount, string(e.SourceExpenseCategory),
			e.Reason, string(e.Type), e.Date, linked, e.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert saving entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}
