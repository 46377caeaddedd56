package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/hubinity/hubinity-api/internal/models"
)

func TestNotificationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	notification := &models.Notification{
		RecipientID: "student-1",
		Type:        models.NotificationTypeTask,
		Message:     "New submission received",
	}
	require.NoError(t, repo.Create(context.Background(), notification))
	require.NotEmpty(t, notification.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryListByRecipient(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	columns := []string{"id", "recipient_id", "sender_id", "type", "message", "link", "read", "created_at", "sender_name"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT n.id, n.recipient_id")).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("n1", "student-1", "startup-1", "message", "hello", nil, false, time.Now(), "Acme Labs").
			AddRow("n2", "student-1", nil, "certificate", "Certificate ready", "/certificates", false, time.Now(), ""))

	notifications, err := repo.ListByRecipient(context.Background(), "student-1", 50)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, "Acme Labs", notifications[0].SenderName)
	require.Nil(t, notifications[1].SenderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkRead(t *testing.T) {
	t.Run("owned notification", func(t *testing.T) {
		db, mock, cleanup := newRepoMock(t)
		defer cleanup()

		repo := NewNotificationRepository(db)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = TRUE")).
			WithArgs("n1", "student-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkRead(context.Background(), "n1", "student-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign notification is no rows", func(t *testing.T) {
		db, mock, cleanup := newRepoMock(t)
		defer cleanup()

		repo := NewNotificationRepository(db)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = TRUE")).
			WithArgs("n1", "student-2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkRead(context.Background(), "n1", "student-2")
		require.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
