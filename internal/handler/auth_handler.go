package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
	"github.com/hubinity/hubinity-api/pkg/response"
)

type authService interface {
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler resolves the authenticated caller's profile. Token issuance
// lives in the external auth service; only the read side is exposed here.
type AuthHandler struct {
	service authService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Me godoc
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.service.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"user":        user,
		"displayName": user.DisplayName(),
	})
}
