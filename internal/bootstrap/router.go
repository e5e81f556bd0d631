package bootstrap

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/skyproperties/sky-backend/internal/api/http"
	"github.com/skyproperties/sky-backend/internal/api/http/middleware"
	"github.com/skyproperties/sky-backend/internal/api/http/routes"
	authhttp "github.com/skyproperties/sky-backend/internal/auth/http"
	"github.com/skyproperties/sky-backend/internal/auth/service"
	estatehttp "github.com/skyproperties/sky-backend/internal/estate/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	LoginRate      float64
	LoginBurst     int
	Stack          *Stack
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "Accept-Language"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	st := dep.Stack

	checks := map[string]httpapi.Check{"store": st.PingStore}
	if st.redis != nil {
		checks["redis"] = st.PingRedis
	}
	if st.Audit != nil {
		checks["audit"] = func(ctx context.Context) error { return st.Audit.Ping(ctx) }
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, checks, st.Metrics).RegisterRoutes(r)

	if st.RedisBlobs != nil {
		httpapi.NewBlobHandler(st.RedisBlobs).RegisterRoutes(r)
	}

	var auditLog estatehttp.AuditLog
	if st.Audit != nil {
		auditLog = st.Audit
	}
	estate := estatehttp.New(st.Deps, auditLog)

	routes.RegisterV1(r, routes.V1Deps{
		Auth:    authhttp.New(service.NewAuthService(st.Provider, estate.Users())),
		Estate:  estate,
		Tokens:  st.Provider,
		Limiter: middleware.NewIPRateLimiter(dep.LoginRate, dep.LoginBurst),
	})

	return r
}
