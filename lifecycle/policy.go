package lifecycle

import "fmt"

// Role is the authorization class of the acting staff member, carried in the
// JWT and threaded explicitly into every transition call.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF" // cashier
	RoleKitchen Role = "KITCHEN"
	RoleWaiter  Role = "WAITER"
)

var Roles = []Role{RoleAdmin, RoleStaff, RoleKitchen, RoleWaiter}

func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleKitchen, RoleWaiter:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// rolePermissions maps a role to the target statuses it may set. Nobody may
// set PENDING; only order creation produces it.
var rolePermissions = map[Role][]Status{
	RoleAdmin:   {StatusPaid, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled},
	RoleStaff:   {StatusPaid},
	RoleKitchen: {StatusPreparing, StatusReady},
	RoleWaiter:  {StatusDelivered},
}

// RoleMaySet decides whether the role is authorized to request the target
// status, independent of whether the order's current state allows it.
func RoleMaySet(role Role, target Status) bool {
	for _, allowed := range rolePermissions[role] {
		if allowed == target {
			return true
		}
	}
	return false
}
