package models

import (
	"time"

	"github.com/lib/pq"
)

// TaskStatus is the aggregate lifecycle state of a task. The stored value is
// a cache of the derivation over the submission ledger, never independent
// state.
type TaskStatus string

const (
	TaskStatusOpen        TaskStatus = "open"
	TaskStatusSubmitted   TaskStatus = "submitted"
	TaskStatusUnderReview TaskStatus = "under-review"
	TaskStatusCompleted   TaskStatus = "completed"
	TaskStatusRejected    TaskStatus = "rejected"
	TaskStatusCancelled   TaskStatus = "cancelled"
)

// TaskWorkType splits tasks into technical and non-technical work.
type TaskWorkType string

const (
	WorkTypeTechnical    TaskWorkType = "technical"
	WorkTypeNonTechnical TaskWorkType = "non-technical"
)

// TaskPriority orders tasks in listings.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Task represents a unit of work posted by a startup.
type Task struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	Category        string         `db:"category" json:"category"`
	WorkType        TaskWorkType   `db:"work_type" json:"work_type"`
	Skills          pq.StringArray `db:"skills" json:"skills"`
	Deadline        time.Time      `db:"deadline" json:"deadline"`
	Priority        TaskPriority   `db:"priority" json:"priority"`
	Status          TaskStatus     `db:"status" json:"status"`
	StartupID       string         `db:"startup_id" json:"startup_id"`
	StartupName     string         `db:"startup_name" json:"startup_name,omitempty"`
	AssignedStudent *string        `db:"assigned_student_id" json:"assigned_student_id,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
	CompletedAt     *time.Time     `db:"completed_at" json:"completed_at,omitempty"`

	// Submission ledger, loaded alongside the task row. Ordered by
	// submitted_at ascending.
	Submissions []Submission `db:"-" json:"submissions"`
}

// SubmissionStatus tracks one student's submission through review. The only
// legal transitions are pending -> under-review -> approved|rejected and
// pending -> rejected; approved and rejected are terminal.
type SubmissionStatus string

const (
	SubmissionStatusPending     SubmissionStatus = "pending"
	SubmissionStatusUnderReview SubmissionStatus = "under-review"
	SubmissionStatusApproved    SubmissionStatus = "approved"
	SubmissionStatusRejected    SubmissionStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected
}

// Submission is one student's claimed completion of a task. At most one
// exists per (task, student) pair.
type Submission struct {
	ID          string           `db:"id" json:"id"`
	TaskID      string           `db:"task_id" json:"task_id"`
	StudentID   string           `db:"student_id" json:"student_id"`
	StudentName string           `db:"student_name" json:"student_name,omitempty"`
	Link        string           `db:"link" json:"link"`
	Status      SubmissionStatus `db:"status" json:"status"`
	SubmittedAt time.Time        `db:"submitted_at" json:"submitted_at"`
	ReviewedAt  *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNotes *string          `db:"review_notes" json:"review_notes,omitempty"`
}

// TaskFilter constrains task listing queries.
type TaskFilter struct {
	Status    TaskStatus
	Category  string
	StartupID string
}
