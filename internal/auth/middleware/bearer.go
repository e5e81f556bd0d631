package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/audit"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/logging"
)

// ProfileGetter loads the profile document of a principal.
type ProfileGetter interface {
	Get(ctx context.Context, uid string) (domain.User, error)
}

// BearerAuth verifies the bearer token, loads the caller's profile and
// stores both on the gin context. Requests without a valid token get 401.
func BearerAuth(tokens identity.Provider, profiles ProfileGetter) gin.HandlerFunc {
	return authenticate(tokens, profiles, true)
}

// OptionalAuth behaves like BearerAuth but lets anonymous requests through.
// A token that is present and invalid is still rejected.
func OptionalAuth(tokens identity.Provider, profiles ProfileGetter) gin.HandlerFunc {
	return authenticate(tokens, profiles, false)
}

func authenticate(tokens identity.Provider, profiles ProfileGetter, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated", "message": "missing authorization token"})
				return
			}
			c.Next()
			return
		}

		ctx := c.Request.Context()
		p, err := tokens.VerifyToken(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated", "message": "invalid token"})
			return
		}
		c.Set(access.CtxPrincipal, p)

		profile, err := profiles.Get(ctx, p.ID)
		switch {
		case err == nil:
			c.Set(access.CtxProfile, &profile)
		case errors.Is(err, repository.ErrNotFound):
		default:
			logging.Op(ctx, "auth.load_profile").WithError(err).WithField("uid", p.ID).Error("profile fetch failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal_error", "message": "failed to load profile"})
			return
		}

		c.Request = c.Request.WithContext(audit.WithActor(ctx, p.ID))
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
