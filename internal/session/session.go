// Package session holds who is signed in and their profile, and answers
// role questions about them.
package session

import (
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/identity"
)

// Session is an immutable view of a principal and its profile. Either may
// be nil.
type Session struct {
	Principal *identity.Principal
	Profile   *domain.User
}

func (s Session) SignedIn() bool {
	return s.Principal.UID() != ""
}

// Role is the profile's role, or "" before a profile is loaded.
func (s Session) Role() access.Role {
	return s.Profile.ProfileRole()
}

// HasRole is an exact match; admin does not imply other roles here.
func (s Session) HasRole(r access.Role) bool {
	return s.Profile != nil && r != access.RoleAny && s.Profile.Role == r
}

func (s Session) IsAdmin() bool    { return s.HasRole(access.RoleAdmin) }
func (s Session) IsManager() bool  { return s.HasRole(access.RoleManager) }
func (s Session) IsOwner() bool    { return s.HasRole(access.RoleOwner) }
func (s Session) IsTenant() bool   { return s.HasRole(access.RoleTenant) }
func (s Session) IsProvider() bool { return s.HasRole(access.RoleProvider) }

// CanAccess applies the access gate, where admin satisfies every role.
func (s Session) CanAccess(required access.Role) bool {
	return access.Allow(s.Principal, s.Profile, required)
}
