package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"policymap/internal/core"
	"policymap/internal/sources"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the raw bill rows in a local SQLite file.
// Derived summaries are never stored; they are rebuilt from these rows on every load.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

var _ sources.BillReader = (*SQLiteRepository)(nil)

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
		return nil, err
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Describe implements sources.Describer
func (r *SQLiteRepository) Describe() string {
	return "sqlite:" + r.path
}

const selectBills = `SELECT state, state_leg, number, status, issues, notes, source_link, year
FROM bills ORDER BY id`

// ReadBills implements sources.BillReader, returning rows in insertion order.
func (r *SQLiteRepository) ReadBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx, selectBills)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		var b core.Bill
		if err := rows.Scan(&b.State, &b.StateLeg, &b.Number, &b.Status, &b.Issues, &b.Notes, &b.SourceLink, &b.Year); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

const insertBill = `INSERT INTO bills (state, state_leg, number, status, issues, notes, source_link, year)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceBills swaps the whole table contents in a single transaction.
func (r *SQLiteRepository) ReplaceBills(ctx context.Context, bills []core.Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bills`); err != nil {
		return fmt.Errorf("clear bills: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertBill)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range bills {
		if _, err := stmt.ExecContext(ctx, b.State, b.StateLeg, b.Number, b.Status, b.Issues, b.Notes, b.SourceLink, b.Year); err != nil {
			return fmt.Errorf("insert bill %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Bills replaced in SQLite", "count", len(bills), "path", r.path)
	return nil
}

// CountBills returns the number of stored rows.
func (r *SQLiteRepository) CountBills(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bills`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return n, nil
}
