package access

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gin context keys written by the authentication middleware.
const (
	CtxPrincipal = "principal"
	CtxProfile   = "profile"
)

func principalFrom(c *gin.Context) (Principal, Profile) {
	var (
		principal Principal
		profile   Profile
	)
	if v, ok := c.Get(CtxPrincipal); ok {
		principal, _ = v.(Principal)
	}
	if v, ok := c.Get(CtxProfile); ok {
		profile, _ = v.(Profile)
	}
	return principal, profile
}

// RequireAuth rejects requests without an authenticated principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, profile := principalFrom(c)
		if !Allow(principal, profile, RoleAny) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated", "message": "sign in required"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose profile does not hold role.
func RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, profile := principalFrom(c)
		if !Allow(principal, profile, RoleAny) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated", "message": "sign in required"})
			return
		}
		if !Allow(principal, profile, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden", "message": "requires role " + role.String()})
			return
		}
		c.Next()
	}
}
