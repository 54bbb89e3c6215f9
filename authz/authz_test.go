package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllow_RoleInSet(t *testing.T) {
	id := Identity{UserID: 7, Role: RoleStaff}
	require.NoError(t, Allow(id, RoleStaff))
	require.NoError(t, Allow(id, RoleStaff, RoleAdmin))
}

func TestAllow_RoleNotInSet(t *testing.T) {
	id := Identity{UserID: 7, Role: RoleStudent}
	require.ErrorIs(t, Allow(id, RoleStaff, RoleAdmin), ErrForbidden)
	require.ErrorIs(t, Allow(id), ErrForbidden)
}

func TestAllow_EveryRoleDisjoint(t *testing.T) {
	roles := []Role{RoleStudent, RoleStaff, RoleDriver, RoleAdmin}
	for _, have := range roles {
		for _, want := range roles {
			err := Allow(Identity{UserID: 1, Role: have}, want)
			if have == want {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrForbidden)
			}
		}
	}
}
