package handler

import (
	"energy-dex/internal/adapter/http/dto"
	"energy-dex/internal/core/ports"
	"energy-dex/pkg/apperror"
	"energy-dex/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	sessions ports.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions ports.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidRequest(err.Error()))
		return
	}

	identity, token, err := h.sessions.Login(c.Request.Context(), req.Credential)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Address:     identity.Address,
		DisplayName: identity.DisplayName,
		Role:        string(identity.Role),
		Token:       token,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}
