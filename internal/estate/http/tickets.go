package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/auth"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/search"
)

type ticketReq struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	UnitID      string `json:"unitId"`
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) listTickets(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		items []domain.Ticket
		err   error
	)
	if status := domain.TicketStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			respond.BadRequest(c, "unknown ticket status")
			return
		}
		items, err = h.tickets.ListByStatus(ctx, status)
	} else {
		items, err = h.tickets.ListAll(ctx)
	}
	if err != nil {
		respond.Fail(c, "tickets.list", err)
		return
	}
	items = search.Filter(items, c.Query("q"), domain.Ticket.SearchFields)
	respond.OK(c, http.StatusOK, gin.H{"tickets": items})
}

// openTicket lets any signed-in caller report a problem.
func (h *Handler) openTicket(c *gin.Context) {
	var req ticketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}
	t, err := h.tickets.Create(c.Request.Context(), repository.TicketInput{
		Category:    req.Category,
		Description: req.Description,
		UnitID:      req.UnitID,
		CreatedBy:   auth.PrincipalFrom(c).UID(),
	})
	if err != nil {
		respond.Fail(c, "tickets.create", err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"ticket": t})
}

func (h *Handler) setTicketStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "status is required")
		return
	}
	status := domain.TicketStatus(req.Status)
	if !status.Valid() {
		respond.BadRequest(c, "unknown ticket status")
		return
	}
	t, err := h.tickets.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respond.Fail(c, "tickets.status", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"ticket": t})
}
