// Package storage keeps the ledger in a local SQLite database. It is the
// offline alternative to the Sheets backend and shares its ports.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"caja/internal/core"
	"caja/internal/ledger"

	_ "modernc.org/sqlite"
)

const isoDay = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Backend = (*SQLiteRepository)(nil)

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

// Append implements ledger.RecordAppender.
func (r *SQLiteRepository) Append(ctx context.Context, rec core.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO records (kind, record_date, counterparty, payment_method, invoice_or_category, notes, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Kind),
		rec.Date.Time.Format(isoDay),
		rec.Counterparty,
		rec.PaymentMethod,
		rec.InvoiceOrCategory,
		rec.Notes,
		rec.Amount.Cents,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", id,
		"kind", string(rec.Kind),
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.Format())

	return strconv.FormatInt(id, 10), nil
}

// ListRecords implements ledger.RecordLister. Window bounds are inclusive;
// zero bounds are unbounded.
func (r *SQLiteRepository) ListRecords(ctx context.Context, w core.Window) ([]core.Record, error) {
	query := `SELECT kind, record_date, counterparty, payment_method, invoice_or_category, notes, amount_cents
		FROM records`
	var (
		conds []string
		args  []any
	)
	if !w.Start.IsZero() {
		conds = append(conds, "record_date >= ?")
		args = append(args, w.Start.Time.Format(isoDay))
	}
	if !w.End.IsZero() {
		conds = append(conds, "record_date <= ?")
		args = append(args, w.End.Time.Format(isoDay))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY record_date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var (
			kind, day string
			rec       core.Record
		)
		if err := rows.Scan(&kind, &day, &rec.Counterparty, &rec.PaymentMethod, &rec.InvoiceOrCategory, &rec.Notes, &rec.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Kind = core.Kind(kind)
		t, err := time.Parse(isoDay, day)
		if err != nil {
			return nil, fmt.Errorf("parse record date %q: %w", day, err)
		}
		rec.Date = core.DateOf(t)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
