package http

import (
	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/access"
)

// RegisterPublic mounts the landing page endpoints.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/public/properties", h.publicProperties)
	rg.POST("/guest-requests", h.createGuestRequest)
}

// Register mounts the endpoints for signed-in callers. rg must already
// authenticate.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.POST("/tickets", h.openTicket)

	m := rg.Group("", access.RequireRole(access.RoleManager))
	m.GET("/properties", h.listProperties)
	m.GET("/properties/:id", h.getProperty)
	m.POST("/properties", h.createProperty)
	m.PUT("/properties/:id", h.updateProperty)
	m.DELETE("/properties/:id", h.deleteProperty)

	m.GET("/units", h.listUnits)
	m.GET("/units/:id", h.getUnit)
	m.POST("/units", h.createUnit)
	m.PUT("/units/:id", h.updateUnit)
	m.DELETE("/units/:id", h.deleteUnit)

	m.GET("/tickets", h.listTickets)
	m.PUT("/tickets/:id/status", h.setTicketStatus)

	m.GET("/payments", h.listPayments)
	m.POST("/payments", h.createPayment)

	m.GET("/guest-requests", h.listGuestRequests)
	m.PUT("/guest-requests/:id/status", h.setGuestRequestStatus)

	m.GET("/analytics", h.getAnalytics)

	a := rg.Group("", access.RequireRole(access.RoleAdmin))
	a.GET("/users", h.listUsers)
	a.PUT("/users/:id", h.updateUser)
	a.DELETE("/users/:id", h.deleteUser)
	a.GET("/settings", h.getSettings)
	a.PUT("/settings", h.saveSettings)
	a.GET("/audit", h.listAudit)
}
