package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/gateway"
)

// BlobReader serves stored bytes; the Redis blob backend implements it.
type BlobReader interface {
	ReadBlob(ctx context.Context, path string) ([]byte, string, error)
}

// BlobHandler serves GET /blobs/*path.
type BlobHandler struct {
	blobs BlobReader
}

func NewBlobHandler(blobs BlobReader) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

func (h *BlobHandler) serve(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "blob not found")
		return
	}

	body, contentType, err := h.blobs.ReadBlob(c.Request.Context(), path)
	if errors.Is(err, gateway.ErrBlobNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "blob not found")
		return
	}
	if err != nil {
		respond.Fail(c, "blobs.read", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, body)
}

func (h *BlobHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/blobs/*path", h.serve)
}
