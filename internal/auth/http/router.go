package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts the endpoints that issue tokens. limit throttles
// them per client.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	g := rg.Group("/auth", limit)
	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.POST("/password-reset", h.resetPassword)
}

// RegisterOptional mounts endpoints that answer anonymous callers too.
func (h *Handler) RegisterOptional(rg *gin.RouterGroup) {
	rg.GET("/routes/decide", h.decideRoute)
}

// Register mounts the endpoints that need a signed-in caller.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.logout)
	rg.GET("/me", h.me)
	rg.PUT("/me/language", h.setLanguage)
}
