package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/internal/repository"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
)

type workflowTaskStore interface {
	GetByID(ctx context.Context, id string) (*models.Task, error)
	AddSubmission(ctx context.Context, submission *models.Submission) error
	FindSubmission(ctx context.Context, taskID, studentID string) (*models.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, params repository.UpdateSubmissionParams) error
	SetStatus(ctx context.Context, taskID string, status models.TaskStatus, assignedStudent *string, completedAt *time.Time) error
}

type certificateIssuer interface {
	Issue(ctx context.Context, task *models.Task, submission *models.Submission) (*models.Certificate, error)
}

type workflowNotifier interface {
	Notify(ctx context.Context, recipientID string, senderID *string, kind models.NotificationType, message, link string)
}

type taskCacheInvalidator interface {
	InvalidateTasks(ctx context.Context)
}

// WorkflowService is the single entry point for submission-ledger mutations.
// It owns the submit -> review -> approve/reject transitions, re-derives the
// task's aggregate status after every change, and fans out the side effects
// (certificate issuance, notifications) that accompany each transition.
type WorkflowService struct {
	tasks        workflowTaskStore
	certificates certificateIssuer
	notifier     workflowNotifier
	cache        taskCacheInvalidator
	logger       *zap.Logger
}

// NewWorkflowService constructs the service. cache may be nil.
func NewWorkflowService(tasks workflowTaskStore, certificates certificateIssuer, notifier workflowNotifier, cache taskCacheInvalidator, logger *zap.Logger) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{tasks: tasks, certificates: certificates, notifier: notifier, cache: cache, logger: logger}
}

// SubmitLink records a student's work link as a pending submission. Any
// student may submit regardless of the task's current status; the ledger's
// one-submission-per-student rule is the only lock.
func (s *WorkflowService) SubmitLink(ctx context.Context, taskID, studentID, link string) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.tasks.FindSubmission(ctx, taskID, studentID); err == nil {
		return nil, appErrors.ErrDuplicateSubmission
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing submission")
	}

	submission := &models.Submission{
		TaskID:    taskID,
		StudentID: studentID,
		Link:      link,
		Status:    models.SubmissionStatusPending,
	}
	if err := s.tasks.AddSubmission(ctx, submission); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost a race against the student's own double-click.
			return nil, appErrors.ErrDuplicateSubmission
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}

	task.Submissions = append(task.Submissions, *submission)
	if err := s.persistDerivedStatus(ctx, task, nil, nil); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, task.StartupID, &studentID, models.NotificationTypeTask,
		fmt.Sprintf("New submission received for task: %s", task.Title),
		"/startup/tasks/"+task.ID)
	s.invalidate(ctx)

	return task, nil
}

// StartReview moves a student's pending submission to under-review.
func (s *WorkflowService) StartReview(ctx context.Context, taskID, startupID, studentID string) (*models.Task, error) {
	task, err := s.loadOwnedTask(ctx, taskID, startupID)
	if err != nil {
		return nil, err
	}
	submission, err := s.loadSubmission(ctx, taskID, studentID)
	if err != nil {
		return nil, err
	}
	switch submission.Status {
	case models.SubmissionStatusPending:
	case models.SubmissionStatusUnderReview:
		return nil, appErrors.Clone(appErrors.ErrConflict, "submission is already under review")
	default:
		return nil, appErrors.ErrAlreadyReviewed
	}

	err = s.tasks.UpdateSubmissionStatus(ctx, repository.UpdateSubmissionParams{
		SubmissionID: submission.ID,
		FromStatuses: []models.SubmissionStatus{models.SubmissionStatusPending},
		ToStatus:     models.SubmissionStatusUnderReview,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyReviewed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission")
	}

	patchSubmission(task, submission.ID, models.SubmissionStatusUnderReview, nil, nil)
	if err := s.persistDerivedStatus(ctx, task, nil, nil); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, studentID, &task.StartupID, models.NotificationTypeTask,
		fmt.Sprintf("Your submission for %q is now under review.", task.Title),
		"/tasks")
	s.invalidate(ctx)

	return task, nil
}

// Review decides a submission. Approval assigns the student, completes the
// task and issues a certificate; rejection re-derives the aggregate status.
// Certificate and notification failures never roll the decision back.
func (s *WorkflowService) Review(ctx context.Context, taskID, startupID, studentID string, approve bool, reviewNotes string) (*models.Task, error) {
	task, err := s.loadOwnedTask(ctx, taskID, startupID)
	if err != nil {
		return nil, err
	}
	submission, err := s.loadSubmission(ctx, taskID, studentID)
	if err != nil {
		return nil, err
	}
	if submission.Status.Terminal() {
		return nil, appErrors.ErrAlreadyReviewed
	}

	if approve {
		return s.approve(ctx, task, submission, reviewNotes)
	}
	return s.reject(ctx, task, submission, reviewNotes)
}

func (s *WorkflowService) approve(ctx context.Context, task *models.Task, submission *models.Submission, reviewNotes string) (*models.Task, error) {
	if submission.Status != models.SubmissionStatusUnderReview {
		return nil, appErrors.Clone(appErrors.ErrConflict, "submission must be under review before approval")
	}

	now := time.Now().UTC()
	notes := optionalString(reviewNotes)
	err := s.tasks.UpdateSubmissionStatus(ctx, repository.UpdateSubmissionParams{
		SubmissionID: submission.ID,
		FromStatuses: []models.SubmissionStatus{models.SubmissionStatusUnderReview},
		ToStatus:     models.SubmissionStatusApproved,
		ReviewedAt:   &now,
		ReviewNotes:  notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyReviewed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve submission")
	}

	patchSubmission(task, submission.ID, models.SubmissionStatusApproved, &now, notes)
	submission.Status = models.SubmissionStatusApproved
	submission.ReviewedAt = &now
	task.AssignedStudent = &submission.StudentID
	task.CompletedAt = &now
	if err := s.persistDerivedStatus(ctx, task, &submission.StudentID, &now); err != nil {
		return nil, err
	}

	certificate, certErr := s.certificates.Issue(ctx, task, submission)
	if certErr != nil {
		// Issuance is best-effort: the approval above stays committed.
		s.logger.Error("certificate issuance failed",
			zap.String("task_id", task.ID),
			zap.String("student_id", submission.StudentID),
			zap.Error(certErr))
	}

	message := fmt.Sprintf("Congratulations! Your submission for %q was approved.", task.Title)
	if certificate != nil {
		message = fmt.Sprintf("Congratulations! Your certificate for %q has been generated.", task.Title)
	}
	s.notifier.Notify(ctx, submission.StudentID, &task.StartupID, models.NotificationTypeCertificate,
		message, "/certificates")
	s.invalidate(ctx)

	return task, nil
}

func (s *WorkflowService) reject(ctx context.Context, task *models.Task, submission *models.Submission, reviewNotes string) (*models.Task, error) {
	now := time.Now().UTC()
	notes := optionalString(reviewNotes)
	err := s.tasks.UpdateSubmissionStatus(ctx, repository.UpdateSubmissionParams{
		SubmissionID: submission.ID,
		FromStatuses: []models.SubmissionStatus{models.SubmissionStatusPending, models.SubmissionStatusUnderReview},
		ToStatus:     models.SubmissionStatusRejected,
		ReviewedAt:   &now,
		ReviewNotes:  notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyReviewed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject submission")
	}

	patchSubmission(task, submission.ID, models.SubmissionStatusRejected, &now, notes)
	if err := s.persistDerivedStatus(ctx, task, nil, nil); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, submission.StudentID, &task.StartupID, models.NotificationTypeTask,
		fmt.Sprintf("Your submission for %q was rejected by the startup.", task.Title),
		"/tasks")
	s.invalidate(ctx)

	return task, nil
}

func (s *WorkflowService) loadTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTaskNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

func (s *WorkflowService) loadOwnedTask(ctx context.Context, taskID, startupID string) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.StartupID != startupID {
		return nil, appErrors.ErrNotTaskOwner
	}
	return task, nil
}

func (s *WorkflowService) loadSubmission(ctx context.Context, taskID, studentID string) (*models.Submission, error) {
	submission, err := s.tasks.FindSubmission(ctx, taskID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrSubmissionNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// persistDerivedStatus recomputes the aggregate status from the in-memory
// ledger and writes it through. tasks.status is a cache of DeriveTaskStatus,
// never independent state.
func (s *WorkflowService) persistDerivedStatus(ctx context.Context, task *models.Task, assignedStudent *string, completedAt *time.Time) error {
	status := DeriveTaskStatus(task.Submissions)
	if err := s.tasks.SetStatus(ctx, task.ID, status, assignedStudent, completedAt); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist task status")
	}
	task.Status = status
	return nil
}

func (s *WorkflowService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateTasks(ctx)
	}
}

func patchSubmission(task *models.Task, submissionID string, status models.SubmissionStatus, reviewedAt *time.Time, notes *string) {
	for i := range task.Submissions {
		if task.Submissions[i].ID == submissionID {
			task.Submissions[i].Status = status
			task.Submissions[i].ReviewedAt = reviewedAt
			task.Submissions[i].ReviewNotes = notes
			return
		}
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
