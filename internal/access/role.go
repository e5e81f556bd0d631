// Package access decides what a signed-in principal may see.
package access

import (
	"fmt"
	"strings"
)

// Role is the single role held by a profile.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
	RoleTenant   Role = "tenant"
	RoleProvider Role = "provider"

	// RoleAny is the requirement satisfied by any authenticated principal.
	RoleAny Role = ""
)

// Roles lists the assignable roles in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleOwner, RoleTenant, RoleProvider}

// ParseRole accepts the stored spelling of a role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOwner, RoleTenant, RoleProvider:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// SelfAssignable reports whether a role may be chosen at registration.
// Admin and manager are only granted by an admin.
func SelfAssignable(r Role) bool {
	switch r {
	case RoleOwner, RoleTenant, RoleProvider:
		return true
	case RoleAdmin, RoleManager:
		return false
	default:
		return false
	}
}
