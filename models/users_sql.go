package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/db"
	"campusevents/utils"
)

type sqlUserRepo struct{ db *sql.DB }

func NewSQLUserRepository(d *sql.DB) UserRepository { return &sqlUserRepo{d} }

const userColumns = `id, name, email, student_number, password_hash, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u        User
		number   sql.NullString
		roleText string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &number, &u.PasswordHash, &roleText, &u.CreatedAt); err != nil {
		return User{}, err
	}
	role, err := ParseRole(roleText)
	if err != nil {
		return User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	u.Role = role
	u.StudentNumber = number.String
	return u, nil
}

func validateUser(u *User, requirePassword bool) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	u.StudentNumber = strings.TrimSpace(u.StudentNumber)
	if u.Name == "" {
		return Validationf("name is required")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return Validationf("a valid email is required")
	}
	if requirePassword && u.Password == "" {
		return Validationf("password is required")
	}
	if !u.Role.Valid() {
		return Validationf("role is required")
	}
	if u.Role != RoleStudent && u.StudentNumber != "" {
		return Validationf("only students carry a student number")
	}
	return nil
}

func (r *sqlUserRepo) Create(ctx context.Context, u *User) error {
	if err := validateUser(u, true); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hashed
	u.Password = ""
	u.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, student_number, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		u.Name, u.Email, nullString(u.StudentNumber), u.PasswordHash, u.Role.String(), u.CreatedAt,
	).Scan(&u.ID)
	if field, ok := db.UniqueViolation(err); ok {
		return uniquenessConflict(field)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqlUserRepo) ValidateCredentials(ctx context.Context, email, plain string) (User, error) {
	u, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !utils.CheckPasswordHash(plain, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *sqlUserRepo) GetByID(ctx context.Context, id int64) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *sqlUserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *sqlUserRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name, id`, role.String())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update changes name, email and student number, and the password when a new
// one is supplied. The role column is never written.
func (r *sqlUserRepo) Update(ctx context.Context, u *User) error {
	if err := validateUser(u, false); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		res sql.Result
		err error
	)
	if u.Password != "" {
		hashed, herr := utils.HashPassword(u.Password)
		if herr != nil {
			return fmt.Errorf("hash password: %w", herr)
		}
		u.PasswordHash = hashed
		u.Password = ""
		res, err = r.db.ExecContext(ctx,
			`UPDATE users SET name = $1, email = $2, student_number = $3, password_hash = $4 WHERE id = $5`,
			u.Name, u.Email, nullString(u.StudentNumber), u.PasswordHash, u.ID)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE users SET name = $1, email = $2, student_number = $3 WHERE id = $4`,
			u.Name, u.Email, nullString(u.StudentNumber), u.ID)
	}
	if field, ok := db.UniqueViolation(err); ok {
		return uniquenessConflict(field)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user. Heads of societies and creators of events cannot be
// deleted; a student's registrations go with them and the invoice paths they
// held are returned.
func (r *sqlUserRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var invoices []string
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := count(ctx, tx, `SELECT COUNT(*) FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		headed, err := count(ctx, tx, `SELECT COUNT(*) FROM societies WHERE society_head_id = $1`, id)
		if err != nil {
			return fmt.Errorf("count societies: %w", err)
		}
		if headed > 0 {
			return referentialConflict("user is head of %d society(ies)", headed)
		}

		created, err := count(ctx, tx, `SELECT COUNT(*) FROM events WHERE created_by = $1`, id)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		if created > 0 {
			return referentialConflict("user created %d event(s)", created)
		}

		if invoices, err = invoicePaths(ctx, tx, "student_id", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE student_id = $1`, id); err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *sqlUserRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return count(ctx, r.db, `SELECT COUNT(*) FROM users`)
}
