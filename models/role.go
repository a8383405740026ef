package models

import (
	"fmt"
)

// Role is the closed set of account roles. The zero value is invalid.
type Role uint8

const (
	RoleSuperAdmin Role = iota + 1
	RoleOrganizer
	RoleStudent
)

// ParseRole maps the stored string form back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "superadmin":
		return RoleSuperAdmin, nil
	case "organizer":
		return RoleOrganizer, nil
	case "student":
		return RoleStudent, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "superadmin"
	case RoleOrganizer:
		return "organizer"
	case RoleStudent:
		return "student"
	}
	return "invalid"
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOrganizer, RoleStudent:
		return true
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DashboardPath is where a role lands after login.
func (r Role) DashboardPath() string {
	switch r {
	case RoleSuperAdmin:
		return "/admin/dashboard"
	case RoleOrganizer:
		return "/organizer/dashboard"
	case RoleStudent:
		return "/student/dashboard"
	}
	return "/"
}

// Identity is the authenticated caller of a request. It is resolved once per
// request and passed explicitly to every operation that needs it.
type Identity struct {
	UserID int64
	Role   Role
}
