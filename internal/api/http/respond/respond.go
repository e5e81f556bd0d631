// Package respond writes the JSON envelopes shared by every handler.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/gateway"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/logging"
	"github.com/skyproperties/sky-backend/internal/session"
)

func OK(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["ok"] = true
	c.JSON(status, body)
}

func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": code, "message": message})
}

// Fail maps err to a status and error code. Authentication errors keep
// their message; anything unexpected is logged and answered generically.
func Fail(c *gin.Context, op string, err error) {
	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"ok":      false,
			"error":   "validation_failed",
			"message": verr.Error(),
			"fields":  verr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, gateway.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, repository.ErrUnknownProperty):
		Error(c, http.StatusBadRequest, "unknown_property", err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrInvalidToken):
		Error(c, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, identity.ErrEmailExists):
		Error(c, http.StatusConflict, "email_exists", err.Error())
	case errors.Is(err, identity.ErrWeakPassword), errors.Is(err, session.ErrRoleNotAvailable):
		Error(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, identity.ErrUnknownEmail):
		Error(c, http.StatusNotFound, "unknown_email", err.Error())
	case errors.Is(err, repository.ErrUpload):
		logging.Op(c.Request.Context(), op).WithError(err).Error("upload failed")
		Error(c, http.StatusInternalServerError, "upload_failed", "file upload failed")
	default:
		logging.Op(c.Request.Context(), op).WithError(err).Error("request failed")
		Error(c, http.StatusInternalServerError, "internal_error", "request failed")
	}
}

// BadRequest answers a malformed body or query.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "invalid_request", message)
}

// Confirmed reports whether a destructive request carries confirm=true,
// answering 428 when it does not.
func Confirmed(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	Error(c, http.StatusPreconditionRequired, "confirmation_required", "repeat the request with confirm=true")
	return false
}
