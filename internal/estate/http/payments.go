package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/search"
)

func (h *Handler) listPayments(c *gin.Context) {
	items, err := h.payments.ListAll(c.Request.Context())
	if err != nil {
		respond.Fail(c, "payments.list", err)
		return
	}
	items = search.Filter(items, c.Query("q"), domain.Payment.SearchFields)
	respond.OK(c, http.StatusOK, gin.H{"payments": items})
}

func (h *Handler) createPayment(c *gin.Context) {
	var in repository.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}
	p, err := h.payments.Create(c.Request.Context(), in)
	if err != nil {
		respond.Fail(c, "payments.create", err)
		return
	}
	respond.OK(c, http.StatusCreated, gin.H{"payment": p})
}
