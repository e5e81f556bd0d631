package http

import (
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerReq struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Role     access.Role `json:"role"`
}

type resetReq struct {
	Email string `json:"email" binding:"required"`
}

type languageReq struct {
	Language string `json:"language" binding:"required"`
}
