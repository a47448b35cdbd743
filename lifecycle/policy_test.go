package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissionGrid(t *testing.T) {
	allowed := map[Role][]Status{
		RoleAdmin:   {StatusPaid, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled},
		RoleStaff:   {StatusPaid},
		RoleKitchen: {StatusPreparing, StatusReady},
		RoleWaiter:  {StatusDelivered},
	}

	for _, role := range Roles {
		for _, target := range Statuses {
			want := false
			for _, s := range allowed[role] {
				if s == target {
					want = true
				}
			}
			assert.Equalf(t, want, RoleMaySet(role, target), "%s sets %s", role, target)
		}
	}
}

func TestNobodySetsPending(t *testing.T) {
	for _, role := range Roles {
		assert.Falsef(t, RoleMaySet(role, StatusPending), "%s must not set PENDING", role)
	}
}

func TestUnknownRoleSetsNothing(t *testing.T) {
	for _, target := range Statuses {
		assert.False(t, RoleMaySet(Role("CLEANER"), target))
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("KITCHEN")
	assert.NoError(t, err)
	assert.Equal(t, RoleKitchen, r)

	_, err = ParseRole("kitchen")
	assert.Error(t, err)

	_, err = ParseRole("CUSTOMER")
	assert.Error(t, err)
}
