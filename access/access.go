// Package access decides which identities may perform which operations.
package access

import (
	"fmt"

	"campusevents/models"
)

// Gate is the closed set of permission groups guarding operations.
type Gate uint8

const (
	// GateAdmin admits superadmins only.
	GateAdmin Gate = iota + 1
	// GateOrganizer admits superadmins and organizers.
	GateOrganizer
	// GateStudent admits students only.
	GateStudent
)

func (g Gate) String() string {
	switch g {
	case GateAdmin:
		return "admin"
	case GateOrganizer:
		return "organizer"
	case GateStudent:
		return "student"
	}
	return "invalid"
}

// Allows reports whether role passes the gate.
func (g Gate) Allows(role models.Role) bool {
	switch g {
	case GateAdmin:
		return role == models.RoleSuperAdmin
	case GateOrganizer:
		return role == models.RoleSuperAdmin || role == models.RoleOrganizer
	case GateStudent:
		return role == models.RoleStudent
	}
	return false
}

// Authorize returns models.ErrAccessDenied unless id is present and passes g.
func Authorize(id *models.Identity, g Gate) error {
	if id == nil {
		return fmt.Errorf("%w: not authenticated", models.ErrAccessDenied)
	}
	if !g.Allows(id.Role) {
		return fmt.Errorf("%w: %s cannot use %s operations", models.ErrAccessDenied, id.Role, g)
	}
	return nil
}

// AuthorizeOwner checks that id may manage a record created by ownerID.
// Superadmins manage everything, organizers only their own records.
func AuthorizeOwner(id *models.Identity, ownerID int64) error {
	if id == nil {
		return fmt.Errorf("%w: not authenticated", models.ErrAccessDenied)
	}
	switch id.Role {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleOrganizer:
		if ownerID == id.UserID {
			return nil
		}
		return fmt.Errorf("%w: record belongs to another organizer", models.ErrAccessDenied)
	case models.RoleStudent:
		return fmt.Errorf("%w: students cannot manage events", models.ErrAccessDenied)
	}
	return fmt.Errorf("%w: invalid role", models.ErrAccessDenied)
}
