package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hubinity/hubinity-api/internal/models"
)

// NotificationRepository persists inbox notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new unread notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, recipient_id, sender_id, type, message, link, read, created_at)
	VALUES (:id, :recipient_id, :sender_id, :type, :message, :link, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns a recipient's notifications, newest first, with
// sender display names resolved.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT n.id, n.recipient_id, n.sender_id, n.type, n.message, n.link, n.read, n.created_at,
       COALESCE(u.company_name, NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''), u.username, u.email, '') AS sender_name
FROM notifications n LEFT JOIN users u ON u.id = n.sender_id
WHERE n.recipient_id = $1
ORDER BY n.created_at DESC
LIMIT %d`, limit)
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, recipientID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag for a notification owned by the recipient.
// sql.ErrNoRows means the notification does not exist or belongs to someone
// else.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check notification update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
