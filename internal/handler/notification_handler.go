package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
	"github.com/hubinity/hubinity-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

// NotificationHandler serves the inbox read side.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service notificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @Summary List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	notifications, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, map[string]interface{}{"count": len(notifications)})
}

// MarkRead godoc
// @Summary Mark one of the caller's notifications as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204
// @Router /student/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
