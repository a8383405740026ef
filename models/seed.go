package models

import (
	"context"
	"errors"
	"log/slog"
)

// EnsureSuperAdmin creates the bootstrap superadmin unless a user with that
// email already exists. It reports whether a user was created.
func EnsureSuperAdmin(ctx context.Context, users UserRepository, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	u := User{Name: "Super Admin", Email: email, Password: password, Role: RoleSuperAdmin}
	if err := users.Create(ctx, &u); err != nil {
		return false, err
	}
	slog.InfoContext(ctx, "superadmin created", "userId", u.ID, "email", u.Email)
	return true, nil
}
