package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const queryTimeout = 5 * time.Second

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func count(ctx context.Context, q queryer, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// invoicePaths lists the non-empty invoice paths of the registrations matched
// by where, which must select on a single parameter.
func invoicePaths(ctx context.Context, tx *sql.Tx, where string, id int64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT invoice_path FROM registrations WHERE `+where+` = $1 AND invoice_path <> ''`, id)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
