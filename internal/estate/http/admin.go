package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/search"
)

const defaultAuditLimit = 100

func (h *Handler) listUsers(c *gin.Context) {
	items, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		respond.Fail(c, "users.list", err)
		return
	}
	items = search.Filter(items, c.Query("q"), domain.User.SearchFields)
	respond.OK(c, http.StatusOK, gin.H{"users": items})
}

func (h *Handler) updateUser(c *gin.Context) {
	var patch repository.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}
	u, err := h.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respond.Fail(c, "users.update", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"user": u})
}

// deleteUser removes the profile document; the account itself stays with
// the identity provider.
func (h *Handler) deleteUser(c *gin.Context) {
	if !respond.Confirmed(c) {
		return
	}
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respond.Fail(c, "users.delete", err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respond.Fail(c, "settings.get", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"settings": s})
}

func (h *Handler) saveSettings(c *gin.Context) {
	var s domain.Settings
	if err := c.ShouldBindJSON(&s); err != nil {
		respond.BadRequest(c, "invalid body")
		return
	}
	saved, err := h.settings.Save(c.Request.Context(), s)
	if err != nil {
		respond.Fail(c, "settings.save", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"settings": saved})
}

func (h *Handler) listAudit(c *gin.Context) {
	if h.audit == nil {
		respond.Error(c, http.StatusNotFound, "audit_disabled", "no audit database is configured")
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.audit.List(c.Request.Context(), c.Query("collection"), limit)
	if err != nil {
		respond.Fail(c, "audit.list", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) getAnalytics(c *gin.Context) {
	report, err := h.analytics.Compute(c.Request.Context())
	if err != nil {
		respond.Fail(c, "analytics.compute", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"report": report})
}
