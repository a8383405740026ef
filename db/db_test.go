package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	d, err := Open(context.Background(), DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	require.Error(t, err)
}

func TestOpenCreatesSchemaIdempotently(t *testing.T) {
	d := openMemory(t)
	require.NoError(t, createTables(context.Background(), d, DriverSQLite))

	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'societies', 'events', 'registrations')`).Scan(&n))
	require.Equal(t, 4, n)
}

func TestUniqueViolationSQLite(t *testing.T) {
	d := openMemory(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insertUser := func(email, number string) error {
		_, err := d.ExecContext(ctx,
			`INSERT INTO users (name, email, student_number, password_hash, role, created_at) VALUES ($1, $2, $3, 'h', 'student', $4)`,
			"n", email, number, now)
		return err
	}
	require.NoError(t, insertUser("a@x.y", "1"))

	field, ok := UniqueViolation(insertUser("a@x.y", "2"))
	require.True(t, ok)
	require.Equal(t, FieldEmail, field)

	field, ok = UniqueViolation(insertUser("b@x.y", "1"))
	require.True(t, ok)
	require.Equal(t, FieldStudentNumber, field)

	_, err := d.ExecContext(ctx,
		`INSERT INTO events (title, event_date, location, capacity, created_by, created_at) VALUES ('t', $1, 'l', 1, 999, $1)`, now)
	require.Error(t, err)
	_, ok = UniqueViolation(err)
	require.False(t, ok, "foreign key failure is not a unique violation")
}

func TestUniqueViolationPostgres(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "registrations_event_student_key"}
	field, ok := UniqueViolation(err)
	require.True(t, ok)
	require.Equal(t, FieldRegistration, field)

	_, ok = UniqueViolation(&pq.Error{Code: "23503"})
	require.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	require.False(t, ok)
	_, ok = UniqueViolation(nil)
	require.False(t, ok)
}
