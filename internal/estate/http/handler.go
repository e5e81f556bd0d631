// Package http exposes the estate repositories over gin.
package http

import (
	"context"

	"github.com/skyproperties/sky-backend/internal/analytics"
	"github.com/skyproperties/sky-backend/internal/audit"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
)

// AuditLog lists recorded mutations.
type AuditLog interface {
	List(ctx context.Context, collection string, limit int) ([]audit.Entry, error)
}

type Handler struct {
	properties *repository.Properties
	units      *repository.Units
	tickets    *repository.Tickets
	payments   *repository.Payments
	guests     *repository.GuestRequests
	users      *repository.Users
	settings   *repository.SettingsRepo
	analytics  *analytics.Service
	audit      AuditLog
}

// New builds every repository over deps. auditLog may be nil when no audit
// database is configured.
func New(deps *repository.Deps, auditLog AuditLog) *Handler {
	h := &Handler{
		properties: repository.NewProperties(deps),
		units:      repository.NewUnits(deps),
		tickets:    repository.NewTickets(deps),
		payments:   repository.NewPayments(deps),
		guests:     repository.NewGuestRequests(deps),
		users:      repository.NewUsers(deps),
		settings:   repository.NewSettings(deps),
		audit:      auditLog,
	}
	h.analytics = analytics.NewService(h.properties, h.units, h.tickets, h.payments)
	return h
}

// Users exposes the profile repository to the auth middleware.
func (h *Handler) Users() *repository.Users {
	return h.users
}
