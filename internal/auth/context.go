package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/session"
)

// PrincipalFrom returns the principal set by the bearer middleware, or nil.
func PrincipalFrom(c *gin.Context) *identity.Principal {
	v, ok := c.Get(access.CtxPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*identity.Principal)
	return p
}

// ProfileFrom returns the caller's profile, or nil when none is stored.
func ProfileFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(access.CtxProfile)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// SessionFrom is the per-request session snapshot.
func SessionFrom(c *gin.Context) session.Session {
	return session.Session{Principal: PrincipalFrom(c), Profile: ProfileFrom(c)}
}
