package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/middleware"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Me returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Unauthorized(c, "not logged in")
		return
	}

	user, err := h.authService.Me(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
