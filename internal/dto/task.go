package dto

import "time"

// CreateTaskRequest is the payload for posting new work.
type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"required,max=1000"`
	Category    string    `json:"category" validate:"required"`
	WorkType    string    `json:"workType" validate:"required,oneof=technical non-technical"`
	Skills      []string  `json:"skills" validate:"required,min=1,dive,required"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	// Optional direct assignment; the student is notified on creation.
	AssignedStudent string `json:"assignedStudent" validate:"omitempty"`
}

// SubmitLinkRequest is the payload for a student submitting a work link.
type SubmitLinkRequest struct {
	Link string `json:"link" validate:"required,uri"`
}

// SubmitLinkResponse mirrors the contract the web client expects.
type SubmitLinkResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	TaskID  string `json:"taskId"`
}

// StartReviewRequest moves a pending submission to under-review.
type StartReviewRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// StartReviewResponse acknowledges the transition.
type StartReviewResponse struct {
	Message string `json:"message"`
}

// ReviewRequest decides a submission: approve=true approves, approve=false
// rejects.
type ReviewRequest struct {
	StudentID   string `json:"studentId" validate:"required"`
	Approve     bool   `json:"approve"`
	ReviewNotes string `json:"reviewNotes" validate:"max=500"`
}

// ReviewResponse mirrors the contract the web client expects.
type ReviewResponse struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	TaskID    string `json:"taskId"`
	StudentID string `json:"studentId"`
}

// TaskQuery filters task listings.
type TaskQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Startup  string `form:"startup"`
}
