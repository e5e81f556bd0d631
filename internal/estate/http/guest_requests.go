package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/search"
)

// createGuestRequest records an inquiry from the public landing page.
func (h *Handler) createGuestRequest(c *gin.Context) {
	var in repository.GuestRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}
	g, err := h.guests.Create(c.Request.Context(), in)
	if err != nil {
		respond.Fail(c, "guest_requests.create", err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"request": g})
}

func (h *Handler) listGuestRequests(c *gin.Context) {
	items, err := h.guests.ListAll(c.Request.Context())
	if err != nil {
		respond.Fail(c, "guest_requests.list", err)
		return
	}
	items = search.Filter(items, c.Query("q"), domain.GuestRequest.SearchFields)
	respond.OK(c, http.StatusOK, gin.H{"requests": items})
}

func (h *Handler) setGuestRequestStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "status is required")
		return
	}
	status := domain.GuestRequestStatus(req.Status)
	if !status.Valid() {
		respond.BadRequest(c, "unknown request status")
		return
	}
	g, err := h.guests.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respond.Fail(c, "guest_requests.status", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"request": g})
}
