package models

import "time"

// NotificationType classifies inbox entries.
type NotificationType string

const (
	NotificationTypeMessage      NotificationType = "message"
	NotificationTypeTaskAssigned NotificationType = "task-assigned"
	NotificationTypeTask         NotificationType = "task"
	NotificationTypeCertificate  NotificationType = "certificate"
)

// Notification is a best-effort inbox message emitted on workflow events.
// Recipients only ever flip the read flag; entries are never deleted.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	RecipientID string           `db:"recipient_id" json:"recipient_id"`
	SenderID    *string          `db:"sender_id" json:"sender_id,omitempty"`
	SenderName  string           `db:"sender_name" json:"sender_name,omitempty"`
	Type        NotificationType `db:"type" json:"type"`
	Message     string           `db:"message" json:"message"`
	Link        *string          `db:"link" json:"link,omitempty"`
	Read        bool             `db:"read" json:"read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
