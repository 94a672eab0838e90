// Package sqlite implements the local expense cache on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

// Ensure ExpenseStore implements the interface.
var _ driven.ExpenseStore = (*ExpenseStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	id             TEXT PRIMARY KEY,
	spreadsheet_id TEXT NOT NULL,
	date           TEXT,
	description    TEXT NOT NULL DEFAULT '',
	amount         REAL NOT NULL,
	row            INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_expenses_sheet ON expenses(spreadsheet_id, date);
`

// ExpenseStore caches extracted expense rows in a local SQLite database.
type ExpenseStore struct {
	db   *sql.DB
	path string
}

// NewExpenseStore opens (creating if needed) the cache database.
// If dataDir is empty, defaults to ~/.sheetspend/data.
func NewExpenseStore(dataDir string) (*ExpenseStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sheetspend", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "expenses.db")

	// WAL mode for better concurrency between extract and summary reads.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &ExpenseStore{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *ExpenseStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ExpenseStore) Path() string {
	return s.path
}

// Replace swaps the cached rows for a spreadsheet in one transaction.
func (s *ExpenseStore) Replace(ctx context.Context, spreadsheetID string, expenses []domain.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expenses WHERE spreadsheet_id = ?`, spreadsheetID); err != nil {
		return fmt.Errorf("clearing cached rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (id, spreadsheet_id, date, description, amount, row)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range expenses {
		e := expenses[i]
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		var date any
		if !e.Date.IsZero() {
			date = e.Date.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx, id, spreadsheetID, date, e.Description, e.Amount, e.Row); err != nil {
			return fmt.Errorf("inserting expense row %d: %w", e.Row, err)
		}
	}

	return tx.Commit()
}

// List returns the cached rows for a spreadsheet, dated rows first in
// date order, undated rows after in source-row order.
func (s *ExpenseStore) List(ctx context.Context, spreadsheetID string) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spreadsheet_id, date, description, amount, row
		FROM expenses
		WHERE spreadsheet_id = ?
		ORDER BY date IS NULL, date, row`, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		var e domain.Expense
		var date sql.NullString
		if err := rows.Scan(&e.ID, &e.SpreadsheetID, &date, &e.Description, &e.Amount, &e.Row); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		if date.Valid {
			parsed, err := time.Parse(time.RFC3339, date.String)
			if err != nil {
				return nil, fmt.Errorf("parsing cached date %q: %w", date.String, err)
			}
			e.Date = parsed
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
