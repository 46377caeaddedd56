package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

// NotificationService creates and reads inbox notifications. Creation is
// best-effort: a failed insert is logged and never bubbles into the workflow
// that triggered it.
type NotificationService struct {
	repo     notificationStore
	logger   *zap.Logger
	pageSize int
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationStore, logger *zap.Logger, pageSize int) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	return &NotificationService{repo: repo, logger: logger, pageSize: pageSize}
}

// Notify records a fire-and-forget notification for the recipient.
func (s *NotificationService) Notify(ctx context.Context, recipientID string, senderID *string, kind models.NotificationType, message, link string) {
	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        kind,
		Message:     message,
	}
	if link != "" {
		notification.Link = &link
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("recipient_id", recipientID),
			zap.String("type", string(kind)),
			zap.Error(err))
	}
}

// List returns the recipient's inbox, newest first. Message text for chat
// notifications is rewritten around the sender's display name the way the
// web client renders it.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]models.Notification, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, s.pageSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	for i := range notifications {
		if notifications[i].Type == models.NotificationTypeMessage && notifications[i].SenderName != "" {
			notifications[i].Message = "New message from " + notifications[i].SenderName
		}
	}
	return notifications, nil
}

// MarkRead flags a notification as read for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	if err := s.repo.MarkRead(ctx, id, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}
