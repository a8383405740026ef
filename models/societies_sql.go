package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/db"
)

type sqlSocietyRepo struct{ db *sql.DB }

func NewSQLSocietyRepository(d *sql.DB) SocietyRepository { return &sqlSocietyRepo{d} }

const societyColumns = `id, name, description, society_head_id, created_at`

func scanSociety(row interface{ Scan(...any) error }) (Society, error) {
	var s Society
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.HeadID, &s.CreatedAt)
	return s, err
}

// requireOrganizer enforces that a society head is an organizer-role user.
func requireOrganizer(ctx context.Context, tx *sql.Tx, userID int64) error {
	var roleText string
	err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&roleText)
	if errors.Is(err, sql.ErrNoRows) {
		return Validationf("society head %d does not exist", userID)
	}
	if err != nil {
		return fmt.Errorf("find society head: %w", err)
	}
	if role, _ := ParseRole(roleText); role != RoleOrganizer {
		return Validationf("society head must be an organizer")
	}
	return nil
}

func validateSociety(s *Society) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Validationf("society name is required")
	}
	if s.HeadID == 0 {
		return Validationf("society head is required")
	}
	return nil
}

func (r *sqlSocietyRepo) Create(ctx context.Context, s *Society) error {
	if err := validateSociety(s); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s.CreatedAt = time.Now().UTC()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireOrganizer(ctx, tx, s.HeadID); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx,
			`INSERT INTO societies (name, description, society_head_id, created_at)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			s.Name, s.Description, s.HeadID, s.CreatedAt,
		).Scan(&s.ID)
		if field, ok := db.UniqueViolation(err); ok {
			return uniquenessConflict("society " + field)
		}
		if err != nil {
			return fmt.Errorf("insert society: %w", err)
		}
		return nil
	})
}

func (r *sqlSocietyRepo) GetByID(ctx context.Context, id int64) (Society, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSociety(r.db.QueryRowContext(ctx, `SELECT `+societyColumns+` FROM societies WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Society{}, ErrNotFound
	}
	return s, err
}

// GetByHead returns the first society headed by the given organizer.
func (r *sqlSocietyRepo) GetByHead(ctx context.Context, headID int64) (Society, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s, err := scanSociety(r.db.QueryRowContext(ctx,
		`SELECT `+societyColumns+` FROM societies WHERE society_head_id = $1 ORDER BY id LIMIT 1`, headID))
	if errors.Is(err, sql.ErrNoRows) {
		return Society{}, ErrNotFound
	}
	return s, err
}

func (r *sqlSocietyRepo) GetAll(ctx context.Context) ([]Society, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+societyColumns+` FROM societies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list societies: %w", err)
	}
	defer rows.Close()

	out := []Society{}
	for rows.Next() {
		s, err := scanSociety(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sqlSocietyRepo) Update(ctx context.Context, s *Society) error {
	if err := validateSociety(s); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireOrganizer(ctx, tx, s.HeadID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE societies SET name = $1, description = $2, society_head_id = $3 WHERE id = $4`,
			s.Name, s.Description, s.HeadID, s.ID)
		if field, ok := db.UniqueViolation(err); ok {
			return uniquenessConflict("society " + field)
		}
		if err != nil {
			return fmt.Errorf("update society: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes a society that owns no events.
func (r *sqlSocietyRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := count(ctx, tx, `SELECT COUNT(*) FROM societies WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("find society: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		events, err := count(ctx, tx, `SELECT COUNT(*) FROM events WHERE society_id = $1`, id)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		if events > 0 {
			return referentialConflict("society has %d associated event(s)", events)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM societies WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete society: %w", err)
		}
		return nil
	})
}

func (r *sqlSocietyRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return count(ctx, r.db, `SELECT COUNT(*) FROM societies`)
}
