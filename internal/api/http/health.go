package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/gateway"
)

type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Service   string                   `json:"service"`
	Version   string                   `json:"version"`
	Checks    map[string]string        `json:"checks,omitempty"`
	Gateway   *gateway.MetricsSnapshot `json:"gateway,omitempty"`
}

// Check tests one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	version     string
	checks      map[string]Check
	metrics     *gateway.Metrics
}

// NewHealthHandler reports on checks, keyed by dependency name. metrics
// may be nil.
func NewHealthHandler(serviceName, version string, checks map[string]Check, metrics *gateway.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
		metrics:     metrics,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		if err := check(pingCtx); err != nil {
			results[name] = "down"
			status = "degraded"
		} else {
			results[name] = "up"
		}
		cancel()
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Checks:    results,
	}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.Gateway = &snap
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
