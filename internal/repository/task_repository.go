package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hubinity/hubinity-api/internal/models"
)

const taskColumns = `t.id, t.title, t.description, t.category, t.work_type, t.skills, t.deadline,
       t.priority, t.status, t.startup_id, t.assigned_student_id, t.created_at, t.updated_at, t.completed_at,
       COALESCE(su.company_name, su.email) AS startup_name`

const submissionColumns = `s.id, s.task_id, s.student_id, s.link, s.status, s.submitted_at, s.reviewed_at, s.review_notes,
       COALESCE(NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''), u.username, u.email) AS student_name`

// TaskRepository persists tasks and their submission ledger.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task row with status open.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusOpen
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	const query = `INSERT INTO tasks
	(id, title, description, category, work_type, skills, deadline, priority, status, startup_id, assigned_student_id, created_at, updated_at)
	VALUES (:id, :title, :description, :category, :work_type, :skills, :deadline, :priority, :status, :startup_id, :assigned_student_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetByID fetches a task with its full submission ledger.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks t JOIN users su ON su.id = t.startup_id WHERE t.id = $1`, taskColumns)
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, err
	}
	submissions, err := r.listSubmissions(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	task.Submissions = submissions[id]
	if task.Submissions == nil {
		task.Submissions = []models.Submission{}
	}
	return &task, nil
}

// List returns tasks matching the filter, newest first, each with its
// submission ledger attached.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(fmt.Sprintf("SELECT %s FROM tasks t JOIN users su ON su.id = t.startup_id", taskColumns))

	conditions := make([]string, 0, 3)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("t.category = $%d", len(args)))
	}
	if filter.StartupID != "" {
		args = append(args, filter.StartupID)
		conditions = append(conditions, fmt.Sprintf("t.startup_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY t.created_at DESC")

	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return r.attachSubmissions(ctx, tasks)
}

// ListForStudent returns tasks the student is assigned to or has submitted
// to, newest first.
func (r *TaskRepository) ListForStudent(ctx context.Context, studentID string) ([]models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks t JOIN users su ON su.id = t.startup_id
WHERE t.assigned_student_id = $1
   OR EXISTS (SELECT 1 FROM submissions s WHERE s.task_id = t.id AND s.student_id = $1)
ORDER BY t.created_at DESC`, taskColumns)
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, studentID); err != nil {
		return nil, fmt.Errorf("list student tasks: %w", err)
	}
	return r.attachSubmissions(ctx, tasks)
}

// AddSubmission appends a pending submission to the ledger. A concurrent
// duplicate loses to the UNIQUE(task_id, student_id) constraint.
func (r *TaskRepository) AddSubmission(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Status == "" {
		submission.Status = models.SubmissionStatusPending
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO submissions (id, task_id, student_id, link, status, submitted_at)
	VALUES (:id, :task_id, :student_id, :link, :status, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("add submission: %w", err)
	}
	return nil
}

// FindSubmission returns the single submission for a (task, student) pair.
func (r *TaskRepository) FindSubmission(ctx context.Context, taskID, studentID string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions s JOIN users u ON u.id = s.student_id
WHERE s.task_id = $1 AND s.student_id = $2`, submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, taskID, studentID); err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateSubmissionParams groups the mutable review columns.
type UpdateSubmissionParams struct {
	SubmissionID string
	FromStatuses []models.SubmissionStatus
	ToStatus     models.SubmissionStatus
	ReviewedAt   *time.Time
	ReviewNotes  *string
}

// UpdateSubmissionStatus advances a submission, guarded by the set of states
// it may legally leave. Zero rows affected means the submission raced into a
// different state; callers treat the sql.ErrNoRows as a conflict.
func (r *TaskRepository) UpdateSubmissionStatus(ctx context.Context, params UpdateSubmissionParams) error {
	from := make([]string, len(params.FromStatuses))
	for i, s := range params.FromStatuses {
		from[i] = string(s)
	}
	const query = `UPDATE submissions
	SET status = $1, reviewed_at = $2, review_notes = $3
	WHERE id = $4 AND status = ANY($5)`
	result, err := r.db.ExecContext(ctx, query, params.ToStatus, params.ReviewedAt, params.ReviewNotes, params.SubmissionID, pq.StringArray(from))
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check submission update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetStatus persists the derived aggregate status. The optional assignee and
// completion timestamp are written together with a completed transition so a
// crash cannot split them.
func (r *TaskRepository) SetStatus(ctx context.Context, taskID string, status models.TaskStatus, assignedStudent *string, completedAt *time.Time) error {
	const query = `UPDATE tasks
	SET status = $1,
	    assigned_student_id = COALESCE($2, assigned_student_id),
	    completed_at = COALESCE($3, completed_at),
	    updated_at = $4
	WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, status, assignedStudent, completedAt, time.Now().UTC(), taskID)
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check task status rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *TaskRepository) attachSubmissions(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	if len(tasks) == 0 {
		return tasks, nil
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	byTask, err := r.listSubmissions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Submissions = byTask[tasks[i].ID]
		if tasks[i].Submissions == nil {
			tasks[i].Submissions = []models.Submission{}
		}
	}
	return tasks, nil
}

func (r *TaskRepository) listSubmissions(ctx context.Context, taskIDs []string) (map[string][]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions s JOIN users u ON u.id = s.student_id
WHERE s.task_id = ANY($1) ORDER BY s.submitted_at ASC`, submissionColumns)
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, pq.StringArray(taskIDs)); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	byTask := make(map[string][]models.Submission, len(taskIDs))
	for _, s := range submissions {
		byTask[s.TaskID] = append(byTask[s.TaskID], s)
	}
	return byTask, nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505"
}
