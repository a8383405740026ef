package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrCapacityExceeded      = errors.New("event is full")
	ErrCapacityTooLow        = errors.New("capacity is below the current registration count")
	ErrReferentialConflict   = errors.New("record still has dependents")
	ErrValidation            = errors.New("validation failed")
	ErrAccessDenied          = errors.New("access denied")
	ErrUniquenessConflict    = errors.New("already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)

// CapacityTooLowError is returned when an event update asks for fewer seats
// than are already taken.
type CapacityTooLowError struct {
	Requested  int
	Registered int
}

func (e *CapacityTooLowError) Error() string {
	return fmt.Sprintf("cannot reduce capacity to %d: event already has %d registrations", e.Requested, e.Registered)
}

func (e *CapacityTooLowError) Is(target error) bool { return target == ErrCapacityTooLow }

// Validationf wraps ErrValidation with a field-level message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func uniquenessConflict(field string) error {
	if field == "" {
		return ErrUniquenessConflict
	}
	return fmt.Errorf("%s %w", field, ErrUniquenessConflict)
}

func referentialConflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReferentialConflict, fmt.Sprintf(format, args...))
}
