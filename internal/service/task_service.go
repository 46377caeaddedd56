package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/dto"
	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
)

type taskStore interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Task, error)
}

type certificateLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
}

// TaskService covers the read side of the marketplace plus task creation.
// Listings are cached; workflow mutations invalidate the whole namespace.
type TaskService struct {
	repo         taskStore
	certificates certificateLister
	notifier     workflowNotifier
	cache        *CacheService
	logger       *zap.Logger
}

// NewTaskService constructs the service. cache may be nil.
func NewTaskService(repo taskStore, certificates certificateLister, notifier workflowNotifier, cache *CacheService, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{repo: repo, certificates: certificates, notifier: notifier, cache: cache, logger: logger}
}

// Create posts a new task for the startup. An optional direct assignment
// notifies the assigned student immediately.
func (s *TaskService) Create(ctx context.Context, startupID string, req dto.CreateTaskRequest) (*models.Task, error) {
	priority := models.TaskPriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		WorkType:    models.TaskWorkType(req.WorkType),
		Skills:      req.Skills,
		Deadline:    req.Deadline,
		Priority:    priority,
		Status:      models.TaskStatusOpen,
		StartupID:   startupID,
	}
	if req.AssignedStudent != "" {
		task.AssignedStudent = &req.AssignedStudent
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}

	if task.AssignedStudent != nil {
		s.notifier.Notify(ctx, *task.AssignedStudent, &startupID, models.NotificationTypeTaskAssigned,
			fmt.Sprintf("You have been assigned a new task: %s", task.Title),
			"/tasks")
	}
	if s.cache != nil {
		s.cache.InvalidateTasks(ctx)
	}

	return task, nil
}

// Get loads a single task with its submission ledger.
func (s *TaskService) Get(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTaskNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

// List returns tasks matching the browse filters.
func (s *TaskService) List(ctx context.Context, query dto.TaskQuery) ([]models.Task, error) {
	filter := models.TaskFilter{
		Status:    models.TaskStatus(query.Status),
		Category:  query.Category,
		StartupID: query.Startup,
	}
	key := fmt.Sprintf("tasks:browse:%s:%s:%s", filter.Status, filter.Category, filter.StartupID)
	return s.cachedList(ctx, key, func(ctx context.Context) ([]models.Task, error) {
		return s.repo.List(ctx, filter)
	})
}

// ListForStartup returns the startup's own tasks, newest first.
func (s *TaskService) ListForStartup(ctx context.Context, startupID string) ([]models.Task, error) {
	key := "tasks:startup:" + startupID
	return s.cachedList(ctx, key, func(ctx context.Context) ([]models.Task, error) {
		return s.repo.List(ctx, models.TaskFilter{StartupID: startupID})
	})
}

// ListForStudent returns tasks the student is assigned to or has submitted
// work for.
func (s *TaskService) ListForStudent(ctx context.Context, studentID string) ([]models.Task, error) {
	key := "tasks:student:" + studentID
	return s.cachedList(ctx, key, func(ctx context.Context) ([]models.Task, error) {
		return s.repo.ListForStudent(ctx, studentID)
	})
}

// StartupDashboard aggregates status counts over the startup's tasks.
func (s *TaskService) StartupDashboard(ctx context.Context, startupID string) (*dto.StartupDashboard, error) {
	tasks, err := s.ListForStartup(ctx, startupID)
	if err != nil {
		return nil, err
	}
	stats := &dto.StartupDashboard{TotalTasks: len(tasks)}
	for i := range tasks {
		switch tasks[i].Status {
		case models.TaskStatusOpen:
			stats.OpenTasks++
		case models.TaskStatusUnderReview:
			stats.TasksInReview++
		case models.TaskStatusCompleted:
			stats.CompletedTasks++
		}
		for j := range tasks[i].Submissions {
			if tasks[i].Submissions[j].Status == models.SubmissionStatusPending {
				stats.PendingSubmissions++
			}
		}
	}
	return stats, nil
}

// StudentDashboard aggregates the student's submission activity and earned
// certificates.
func (s *TaskService) StudentDashboard(ctx context.Context, studentID string) (*dto.StudentDashboard, error) {
	tasks, err := s.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	stats := &dto.StudentDashboard{}
	for i := range tasks {
		submission := submissionFor(&tasks[i], studentID)
		if submission == nil {
			// Assigned directly, no work submitted yet.
			if tasks[i].AssignedStudent != nil && *tasks[i].AssignedStudent == studentID && tasks[i].Status != models.TaskStatusCompleted {
				stats.ActiveTasks++
			}
			continue
		}
		switch submission.Status {
		case models.SubmissionStatusApproved:
			stats.CompletedTasks++
		case models.SubmissionStatusPending:
			stats.PendingSubmissions++
			stats.ActiveTasks++
		case models.SubmissionStatusUnderReview:
			stats.ActiveTasks++
		}
	}
	if s.certificates != nil {
		certificates, err := s.certificates.ListByStudent(ctx, studentID)
		if err != nil {
			s.logger.Warn("failed to count certificates for dashboard", zap.String("student_id", studentID), zap.Error(err))
		} else {
			stats.CertificatesEarned = len(certificates)
		}
	}
	return stats, nil
}

func (s *TaskService) cachedList(ctx context.Context, key string, load func(ctx context.Context) ([]models.Task, error)) ([]models.Task, error) {
	var cached []models.Task
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	tasks, err := load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, tasks, 0)
	}
	return tasks, nil
}

func submissionFor(task *models.Task, studentID string) *models.Submission {
	for i := range task.Submissions {
		if task.Submissions[i].StudentID == studentID {
			return &task.Submissions[i]
		}
	}
	return nil
}
