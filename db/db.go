package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured database, verifies the connection and
// creates the schema if it does not exist yet.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	d, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open %s: %w", driver, err)
	}

	switch driver {
	case DriverPostgres:
		d.SetMaxOpenConns(20)
		d.SetMaxIdleConns(10)
	case DriverSQLite:
		// One connection serializes writers and keeps in-memory databases alive.
		d.SetMaxOpenConns(1)
		d.SetConnMaxLifetime(0)
	default:
		_ = d.Close()
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := d.PingContext(pingCtx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		for _, p := range []string{`PRAGMA foreign_keys=ON`, `PRAGMA busy_timeout=5000`} {
			if _, err := d.ExecContext(ctx, p); err != nil {
				_ = d.Close()
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
	}

	if err := createTables(ctx, d, driver); err != nil {
		_ = d.Close()
		return nil, err
	}
	slog.InfoContext(ctx, "database ready", "driver", driver)
	return d, nil
}

func createTables(ctx context.Context, d *sql.DB, driver string) error {
	stmts := postgresSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, s := range stmts {
		if _, err := d.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
