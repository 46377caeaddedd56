package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/hubinity/hubinity-api/internal/dto"
	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
	"github.com/hubinity/hubinity-api/pkg/response"
)

type taskService interface {
	Create(ctx context.Context, startupID string, req dto.CreateTaskRequest) (*models.Task, error)
	Get(ctx context.Context, taskID string) (*models.Task, error)
	List(ctx context.Context, query dto.TaskQuery) ([]models.Task, error)
	ListForStartup(ctx context.Context, startupID string) ([]models.Task, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Task, error)
	StartupDashboard(ctx context.Context, startupID string) (*dto.StartupDashboard, error)
	StudentDashboard(ctx context.Context, studentID string) (*dto.StudentDashboard, error)
}

// TaskHandler exposes task creation and the read-side listings.
type TaskHandler struct {
	service  taskService
	validate *validator.Validate
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service taskService) *TaskHandler {
	return &TaskHandler{service: service, validate: validator.New()}
}

// Create godoc
// @Summary Post a new task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body dto.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Router /startup/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid task payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "task payload failed validation"))
		return
	}
	task, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Browse godoc
// @Summary Browse tasks
// @Tags Tasks
// @Produce json
// @Param status query string false "Task status"
// @Param category query string false "Category"
// @Param startup query string false "Startup ID"
// @Success 200 {object} response.Envelope
// @Router /student/tasks/all [get]
func (h *TaskHandler) Browse(c *gin.Context) {
	var query dto.TaskQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid task filters"))
		return
	}
	tasks, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, map[string]interface{}{"count": len(tasks)})
}

// ListStartupTasks godoc
// @Summary List the startup's own tasks with their submissions
// @Tags Tasks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /startup/tasks [get]
func (h *TaskHandler) ListStartupTasks(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	tasks, err := h.service.ListForStartup(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, map[string]interface{}{"count": len(tasks)})
}

// GetStartupTask godoc
// @Summary Get one of the startup's tasks
// @Tags Tasks
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /startup/tasks/{taskId} [get]
func (h *TaskHandler) GetStartupTask(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	task, err := h.service.Get(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if task.StartupID != claims.UserID && claims.Role != models.RoleAdmin {
		response.Error(c, appErrors.ErrNotTaskOwner)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// StartupDashboard godoc
// @Summary Startup dashboard stats
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /startup/dashboard [get]
func (h *TaskHandler) StartupDashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.service.StartupDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// StudentDashboard godoc
// @Summary Student dashboard: activity stats plus the student's tasks
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *TaskHandler) StudentDashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.service.StudentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	tasks, err := h.service.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"stats": stats, "tasks": tasks})
}
