package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
)

type stubNotificationStore struct {
	createErr error
	listErr   error
	markErr   error

	created   []*models.Notification
	inbox     []models.Notification
	lastRead  string
	lastOwner string
}

func (s *stubNotificationStore) Create(_ context.Context, notification *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, notification)
	return nil
}

func (s *stubNotificationStore) ListByRecipient(_ context.Context, _ string, _ int) ([]models.Notification, error) {
	return s.inbox, s.listErr
}

func (s *stubNotificationStore) MarkRead(_ context.Context, id, recipientID string) error {
	s.lastRead = id
	s.lastOwner = recipientID
	return s.markErr
}

func TestNotify(t *testing.T) {
	t.Run("records notification with link", func(t *testing.T) {
		store := &stubNotificationStore{}
		svc := NewNotificationService(store, zap.NewNop(), 50)

		sender := "startup-1"
		svc.Notify(context.Background(), "student-1", &sender, models.NotificationTypeTask, "New submission received", "/startup/tasks/task-1")

		require.Len(t, store.created, 1)
		require.Equal(t, "student-1", store.created[0].RecipientID)
		require.NotNil(t, store.created[0].Link)
		require.Equal(t, "/startup/tasks/task-1", *store.created[0].Link)
	})

	t.Run("insert failure is swallowed", func(t *testing.T) {
		store := &stubNotificationStore{createErr: errors.New("connection reset")}
		svc := NewNotificationService(store, zap.NewNop(), 50)

		svc.Notify(context.Background(), "student-1", nil, models.NotificationTypeCertificate, "Certificate ready", "")
	})
}

func TestNotificationList(t *testing.T) {
	store := &stubNotificationStore{inbox: []models.Notification{
		{ID: "n1", Type: models.NotificationTypeMessage, SenderName: "Acme Labs", Message: "raw"},
		{ID: "n2", Type: models.NotificationTypeTask, Message: "New submission received"},
	}}
	svc := NewNotificationService(store, zap.NewNop(), 50)

	notifications, err := svc.List(context.Background(), "student-1")
	require.NoError(t, err)
	require.Equal(t, "New message from Acme Labs", notifications[0].Message)
	require.Equal(t, "New submission received", notifications[1].Message)
}

func TestNotificationMarkRead(t *testing.T) {
	t.Run("delegates with recipient guard", func(t *testing.T) {
		store := &stubNotificationStore{}
		svc := NewNotificationService(store, zap.NewNop(), 50)

		require.NoError(t, svc.MarkRead(context.Background(), "n1", "student-1"))
		require.Equal(t, "n1", store.lastRead)
		require.Equal(t, "student-1", store.lastOwner)
	})

	t.Run("foreign or missing notification is not found", func(t *testing.T) {
		store := &stubNotificationStore{markErr: sql.ErrNoRows}
		svc := NewNotificationService(store, zap.NewNop(), 50)

		err := svc.MarkRead(context.Background(), "n1", "student-2")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})
}
