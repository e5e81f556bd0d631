package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/middleware"
	authhttp "github.com/skyproperties/sky-backend/internal/auth/http"
	authmw "github.com/skyproperties/sky-backend/internal/auth/middleware"
	estatehttp "github.com/skyproperties/sky-backend/internal/estate/http"
	"github.com/skyproperties/sky-backend/internal/identity"
)

type V1Deps struct {
	Auth    *authhttp.Handler
	Estate  *estatehttp.Handler
	Tokens  identity.Provider
	Limiter *middleware.IPRateLimiter
}

// RegisterV1 mounts /api/v1: public endpoints, rate limited sign-in,
// optionally authenticated route decisions, and everything behind a bearer
// token.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	dep.Auth.RegisterPublic(api, dep.Limiter.Middleware())
	dep.Estate.RegisterPublic(api)

	optional := api.Group("", authmw.OptionalAuth(dep.Tokens, dep.Estate.Users()))
	dep.Auth.RegisterOptional(optional)

	authed := api.Group("", authmw.BearerAuth(dep.Tokens, dep.Estate.Users()))
	dep.Auth.Register(authed)
	dep.Estate.Register(authed)
}
