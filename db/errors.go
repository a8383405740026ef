package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Field names reported by UniqueViolation.
const (
	FieldEmail         = "email"
	FieldStudentNumber = "student_number"
	FieldSocietyName   = "name"
	FieldRegistration  = "registration"
)

var pgConstraintFields = map[string]string{
	"users_email_key":                 FieldEmail,
	"users_student_number_key":        FieldStudentNumber,
	"societies_name_key":              FieldSocietyName,
	"registrations_event_student_key": FieldRegistration,
}

// SQLite reports the columns, not the constraint name.
var sqliteColumnFields = map[string]string{
	"users.email":                                      FieldEmail,
	"users.student_number":                             FieldStudentNumber,
	"societies.name":                                   FieldSocietyName,
	"registrations.event_id, registrations.student_id": FieldRegistration,
}

// UniqueViolation reports whether err is a unique-constraint violation from
// either driver and, if so, which field it concerns.
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != "23505" {
			return "", false
		}
		return pgConstraintFields[pqErr.Constraint], true
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		// extended codes keep the primary code in the low byte
		if sqErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
			return "", false
		}
		msg := sqErr.Error()
		const marker = "UNIQUE constraint failed: "
		i := strings.Index(msg, marker)
		if i < 0 {
			return "", false
		}
		cols := msg[i+len(marker):]
		if j := strings.Index(cols, " ("); j >= 0 {
			cols = cols[:j]
		}
		return sqliteColumnFields[strings.TrimSpace(cols)], true
	}
	return "", false
}
