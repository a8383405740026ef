package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type sqlEventRepo struct{ db *sql.DB }

func NewSQLEventRepository(d *sql.DB) EventRepository { return &sqlEventRepo{d} }

// The registered count comes from live rows on every read.
const eventSelect = `SELECT e.id, e.title, e.description, e.event_date, e.location, e.capacity,
	e.is_paid, e.cost, e.society_id, COALESCE(s.name, ''), e.created_by, e.created_at,
	(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id)
	FROM events e LEFT JOIN societies s ON s.id = e.society_id`

func scanEvent(row interface{ Scan(...any) error }) (Event, error) {
	var (
		e       Event
		society sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Location, &e.Capacity,
		&e.IsPaid, &e.Cost, &society, &e.SocietyName, &e.CreatedBy, &e.CreatedAt, &e.RegisteredCount)
	if err != nil {
		return Event{}, err
	}
	if society.Valid {
		id := society.Int64
		e.SocietyID = &id
	}
	return e, nil
}

func (r *sqlEventRepo) list(ctx context.Context, query string, args ...any) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *sqlEventRepo) GetAll(ctx context.Context) ([]Event, error) {
	return r.list(ctx, eventSelect+` ORDER BY e.event_date DESC, e.id DESC`)
}

func (r *sqlEventRepo) ListByCreator(ctx context.Context, userID int64) ([]Event, error) {
	return r.list(ctx, eventSelect+` WHERE e.created_by = $1 ORDER BY e.event_date DESC, e.id DESC`, userID)
}

func (r *sqlEventRepo) ListUpcoming(ctx context.Context, from time.Time) ([]Event, error) {
	return r.list(ctx, eventSelect+` WHERE e.event_date >= $1 ORDER BY e.event_date ASC, e.id ASC`, from.UTC())
}

func (r *sqlEventRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.list(ctx, eventSelect+` ORDER BY e.created_at DESC, e.id DESC LIMIT $1`, limit)
}

func (r *sqlEventRepo) GetByID(ctx context.Context, id int64) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func validateEvent(e *Event) error {
	e.Title = strings.TrimSpace(e.Title)
	e.Location = strings.TrimSpace(e.Location)
	if e.Title == "" {
		return Validationf("title is required")
	}
	if e.Location == "" {
		return Validationf("location is required")
	}
	if e.EventDate.IsZero() {
		return Validationf("event date is required")
	}
	if e.Capacity <= 0 {
		return Validationf("capacity must be positive")
	}
	if !e.IsPaid {
		e.Cost = 0
	} else if e.Cost < 0 {
		return Validationf("cost cannot be negative")
	}
	if e.CreatedBy == 0 {
		return Validationf("event creator is required")
	}
	return nil
}

func (r *sqlEventRepo) Create(ctx context.Context, e *Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	e.EventDate = e.EventDate.UTC()
	e.CreatedAt = time.Now().UTC()
	e.RegisteredCount = 0
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO events (title, description, event_date, location, capacity, is_paid, cost, society_id, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		e.Title, e.Description, e.EventDate, e.Location, e.Capacity, e.IsPaid, e.Cost,
		nullInt64(e.SocietyID), e.CreatedBy, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// lockEvent takes the write lock on an event row for the rest of tx and
// returns its capacity. Registrations and capacity edits for the same event
// serialize here.
func lockEvent(ctx context.Context, tx *sql.Tx, id int64) (int, error) {
	res, err := tx.ExecContext(ctx, `UPDATE events SET capacity = capacity WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("lock event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	var capacity int
	if err := tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1`, id).Scan(&capacity); err != nil {
		return 0, fmt.Errorf("read capacity: %w", err)
	}
	return capacity, nil
}

func (r *sqlEventRepo) Update(ctx context.Context, e *Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	e.EventDate = e.EventDate.UTC()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockEvent(ctx, tx, e.ID); err != nil {
			return err
		}
		registered, err := count(ctx, tx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, e.ID)
		if err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		if e.Capacity < registered {
			return &CapacityTooLowError{Requested: e.Capacity, Registered: registered}
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET title = $1, description = $2, event_date = $3, location = $4,
			 capacity = $5, is_paid = $6, cost = $7, society_id = $8 WHERE id = $9`,
			e.Title, e.Description, e.EventDate, e.Location, e.Capacity, e.IsPaid, e.Cost,
			nullInt64(e.SocietyID), e.ID)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		e.RegisteredCount = registered
		return nil
	})
}

func (r *sqlEventRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var invoices []string
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockEvent(ctx, tx, id); err != nil {
			return err
		}
		var err error
		if invoices, err = invoicePaths(ctx, tx, "event_id", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *sqlEventRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return count(ctx, r.db, `SELECT COUNT(*) FROM events`)
}
