package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"campusevents/models"
)

func TestGateAllows(t *testing.T) {
	cases := []struct {
		gate Gate
		role models.Role
		want bool
	}{
		{GateAdmin, models.RoleSuperAdmin, true},
		{GateAdmin, models.RoleOrganizer, false},
		{GateAdmin, models.RoleStudent, false},
		{GateOrganizer, models.RoleSuperAdmin, true},
		{GateOrganizer, models.RoleOrganizer, true},
		{GateOrganizer, models.RoleStudent, false},
		{GateStudent, models.RoleSuperAdmin, false},
		{GateStudent, models.RoleOrganizer, false},
		{GateStudent, models.RoleStudent, true},
		{GateStudent, models.Role(0), false},
		{Gate(0), models.RoleSuperAdmin, false},
	}
	for _, tc := range cases {
		t.Run(tc.gate.String()+"/"+tc.role.String(), func(t *testing.T) {
			require.Equal(t, tc.want, tc.gate.Allows(tc.role))
		})
	}
}

func TestAuthorizeNilIdentity(t *testing.T) {
	err := Authorize(nil, GateStudent)
	require.True(t, errors.Is(err, models.ErrAccessDenied))
}

func TestAuthorizeWrongRole(t *testing.T) {
	err := Authorize(&models.Identity{UserID: 1, Role: models.RoleStudent}, GateAdmin)
	require.ErrorIs(t, err, models.ErrAccessDenied)

	require.NoError(t, Authorize(&models.Identity{UserID: 1, Role: models.RoleOrganizer}, GateOrganizer))
}

func TestAuthorizeOwner(t *testing.T) {
	admin := &models.Identity{UserID: 1, Role: models.RoleSuperAdmin}
	org := &models.Identity{UserID: 2, Role: models.RoleOrganizer}
	student := &models.Identity{UserID: 3, Role: models.RoleStudent}

	require.NoError(t, AuthorizeOwner(admin, 99))
	require.NoError(t, AuthorizeOwner(org, 2))
	require.ErrorIs(t, AuthorizeOwner(org, 99), models.ErrAccessDenied)
	require.ErrorIs(t, AuthorizeOwner(student, 3), models.ErrAccessDenied)
	require.ErrorIs(t, AuthorizeOwner(nil, 3), models.ErrAccessDenied)
}
