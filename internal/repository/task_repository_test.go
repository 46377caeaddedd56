package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/hubinity/hubinity-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var taskRowColumns = []string{
	"id", "title", "description", "category", "work_type", "skills", "deadline",
	"priority", "status", "startup_id", "assigned_student_id", "created_at", "updated_at", "completed_at",
	"startup_name",
}

var submissionRowColumns = []string{
	"id", "task_id", "student_id", "link", "status", "submitted_at", "reviewed_at", "review_notes", "student_name",
}

func TestTaskRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &models.Task{
		Title:       "Build landing page",
		Description: "Responsive marketing page",
		Category:    "engineering",
		WorkType:    models.WorkTypeTechnical,
		Skills:      []string{"react"},
		Deadline:    time.Now().Add(72 * time.Hour),
		StartupID:   "startup-1",
	}
	require.NoError(t, repo.Create(context.Background(), task))
	require.NotEmpty(t, task.ID)
	require.Equal(t, models.TaskStatusOpen, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.title")).
		WithArgs("task-1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow("task-1", "Build landing page", "desc", "engineering", "technical", "{react}",
				now, "medium", "submitted", "startup-1", nil, now, now, nil, "Acme Labs"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.task_id")).
		WithArgs(pq.StringArray{"task-1"}).
		WillReturnRows(sqlmock.NewRows(submissionRowColumns).
			AddRow("sub-1", "task-1", "student-1", "https://example.com/work", "pending", now, nil, nil, "Jordan Reyes"))

	task, err := repo.GetByID(context.Background(), "task-1")
	require.NoError(t, err)
	require.Equal(t, "Acme Labs", task.StartupName)
	require.Len(t, task.Submissions, 1)
	require.Equal(t, models.SubmissionStatusPending, task.Submissions[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.title")).
		WithArgs("open", "design", "startup-1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow("task-1", "Design logo", "desc", "design", "non-technical", "{figma}",
				now, "low", "open", "startup-1", nil, now, now, nil, "Acme Labs"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.task_id")).
		WithArgs(pq.StringArray{"task-1"}).
		WillReturnRows(sqlmock.NewRows(submissionRowColumns))

	tasks, err := repo.List(context.Background(), models.TaskFilter{
		Status:    models.TaskStatusOpen,
		Category:  "design",
		StartupID: "startup-1",
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Submissions)
	require.Empty(t, tasks[0].Submissions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryAddSubmissionDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.AddSubmission(context.Background(), &models.Submission{
		TaskID:    "task-1",
		StudentID: "student-1",
		Link:      "https://example.com/work",
	})
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryUpdateSubmissionStatus(t *testing.T) {
	t.Run("guarded transition succeeds", func(t *testing.T) {
		db, mock, cleanup := newRepoMock(t)
		defer cleanup()

		repo := NewTaskRepository(db)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions")).
			WithArgs("under-review", nil, nil, "sub-1", pq.StringArray{"pending"}).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateSubmissionStatus(context.Background(), UpdateSubmissionParams{
			SubmissionID: "sub-1",
			FromStatuses: []models.SubmissionStatus{models.SubmissionStatusPending},
			ToStatus:     models.SubmissionStatusUnderReview,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race surfaces as no rows", func(t *testing.T) {
		db, mock, cleanup := newRepoMock(t)
		defer cleanup()

		repo := NewTaskRepository(db)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateSubmissionStatus(context.Background(), UpdateSubmissionParams{
			SubmissionID: "sub-1",
			FromStatuses: []models.SubmissionStatus{models.SubmissionStatusUnderReview},
			ToStatus:     models.SubmissionStatusApproved,
		})
		require.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepositorySetStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := "student-1"
	now := time.Now().UTC()
	err := repo.SetStatus(context.Background(), "task-1", models.TaskStatusCompleted, &student, &now)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
