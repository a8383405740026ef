package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusevents/db"
)

type sqlRegistrationRepo struct{ db *sql.DB }

func NewSQLRegistrationRepository(d *sql.DB) RegistrationRepository {
	return &sqlRegistrationRepo{d}
}

// Register checks, in order, that the event exists, that the student holds
// no registration for it and that a seat is free. The event row stays locked
// until commit; UNIQUE(event_id, student_id) is the backstop.
func (r *sqlRegistrationRepo) Register(ctx context.Context, reg *Registration) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		capacity, err := lockEvent(ctx, tx, reg.EventID)
		if err != nil {
			return err
		}

		existing, err := count(ctx, tx,
			`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND student_id = $2`, reg.EventID, reg.StudentID)
		if err != nil {
			return fmt.Errorf("check registration: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateRegistration
		}

		registered, err := count(ctx, tx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, reg.EventID)
		if err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		if registered >= capacity {
			return ErrCapacityExceeded
		}

		reg.RegistrationDate = time.Now().UTC()
		err = tx.QueryRowContext(ctx,
			`INSERT INTO registrations (event_id, student_id, registration_date, phone_number, payment_method, invoice_path)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			reg.EventID, reg.StudentID, reg.RegistrationDate, reg.PhoneNumber, string(reg.PaymentMethod), reg.InvoicePath,
		).Scan(&reg.ID)
		if field, ok := db.UniqueViolation(err); ok && (field == db.FieldRegistration || field == "") {
			return ErrDuplicateRegistration
		}
		if err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	})
}

func (r *sqlRegistrationRepo) Cancel(ctx context.Context, studentID, eventID int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE student_id = $1 AND event_id = $2`, studentID, eventID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

const registrationColumns = `r.id, r.event_id, r.student_id, r.registration_date, r.phone_number, r.payment_method, r.invoice_path`

func scanRegistration(dest *Registration, extra ...any) []any {
	return append([]any{
		&dest.ID, &dest.EventID, &dest.StudentID, &dest.RegistrationDate,
		&dest.PhoneNumber, (*string)(&dest.PaymentMethod), &dest.InvoicePath,
	}, extra...)
}

func (r *sqlRegistrationRepo) Get(ctx context.Context, eventID, studentID int64) (Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var reg Registration
	err := r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations r WHERE r.event_id = $1 AND r.student_id = $2`,
		eventID, studentID,
	).Scan(scanRegistration(&reg)...)
	if errors.Is(err, sql.ErrNoRows) {
		return Registration{}, ErrNotFound
	}
	return reg, err
}

func (r *sqlRegistrationRepo) ListByEvent(ctx context.Context, eventID int64) ([]RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+`, u.name, u.email
		 FROM registrations r JOIN users u ON u.id = r.student_id
		 WHERE r.event_id = $1 ORDER BY r.registration_date, r.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer rows.Close()

	out := []RosterEntry{}
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(scanRegistration(&e.Registration, &e.StudentName, &e.StudentEmail)...); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *sqlRegistrationRepo) ListByStudent(ctx context.Context, studentID int64) ([]StudentRegistration, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+`, e.title, e.event_date, e.location
		 FROM registrations r JOIN events e ON e.id = r.event_id
		 WHERE r.student_id = $1 ORDER BY e.event_date, r.id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student registrations: %w", err)
	}
	defer rows.Close()

	out := []StudentRegistration{}
	for rows.Next() {
		var s StudentRegistration
		if err := rows.Scan(scanRegistration(&s.Registration, &s.EventTitle, &s.EventDate, &s.EventLocation)...); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sqlRegistrationRepo) CountForEvent(ctx context.Context, eventID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return count(ctx, r.db, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID)
}

func (r *sqlRegistrationRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return count(ctx, r.db, `SELECT COUNT(*) FROM registrations`)
}
