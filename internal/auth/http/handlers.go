package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/api/http/respond"
	"github.com/skyproperties/sky-backend/internal/auth"
	"github.com/skyproperties/sky-backend/internal/auth/service"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/locale"
)

func sessionBody(p *identity.Principal, profile *domain.User) gin.H {
	body := gin.H{
		"token":   p.IDToken,
		"uid":     p.ID,
		"email":   p.Email,
		"profile": profile,
	}
	if profile != nil {
		body["navigation"] = access.Navigation(profile.Role)
		body["direction"] = locale.Direction(profile.Language)
	}
	return body
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "email and password are required")
		return
	}

	p, profile, err := h.authService.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		respond.Fail(c, "auth.login", err)
		return
	}
	respond.OK(c, http.StatusOK, sessionBody(p, profile))
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "email and password are required")
		return
	}

	p, profile, err := h.authService.Register(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, repository.ProfileFields{
		Name:  req.Name,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		respond.Fail(c, "auth.register", err)
		return
	}
	respond.OK(c, http.StatusCreated, sessionBody(p, profile))
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), auth.PrincipalFrom(c)); err != nil {
		respond.Fail(c, "auth.logout", err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "email is required")
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), strings.TrimSpace(req.Email)); err != nil {
		respond.Fail(c, "auth.password_reset", err)
		return
	}
	respond.OK(c, http.StatusAccepted, nil)
}

func (h *Handler) me(c *gin.Context) {
	s := auth.SessionFrom(c)
	body := gin.H{
		"uid":     s.Principal.UID(),
		"email":   s.Principal.Email,
		"profile": s.Profile,
		"role":    s.Role(),
	}
	if s.Profile != nil {
		body["navigation"] = access.Navigation(s.Role())
		body["direction"] = locale.Direction(s.Profile.Language)
	} else {
		body["language"] = locale.Negotiate(c.GetHeader("Accept-Language"))
	}
	respond.OK(c, http.StatusOK, body)
}

func (h *Handler) setLanguage(c *gin.Context) {
	var req languageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "language is required")
		return
	}

	u, err := h.authService.SetLanguage(c.Request.Context(), auth.PrincipalFrom(c).UID(), req.Language)
	if errors.Is(err, service.ErrUnsupportedLanguage) {
		respond.BadRequest(c, "language must be en or ar")
		return
	}
	if err != nil {
		respond.Fail(c, "auth.set_language", err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"profile": u, "direction": locale.Direction(u.Language)})
}

// decideRoute answers whether the caller may open a client route and where
// to send them otherwise.
func (h *Handler) decideRoute(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	principal, profile := auth.PrincipalFrom(c), auth.ProfileFrom(c)

	var (
		p  access.Principal
		pr access.Profile
	)
	if principal != nil {
		p = principal
	}
	if profile != nil {
		pr = profile
	}

	d := access.Decide(path, p, pr)
	body := gin.H{"path": path, "decision": d.String(), "redirect": d.Target()}
	if route, ok := access.LookupRoute(path); ok && route.Protected {
		body["requires"] = route.Requires
	}
	respond.OK(c, http.StatusOK, body)
}
