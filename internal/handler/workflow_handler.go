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

type workflowService interface {
	SubmitLink(ctx context.Context, taskID, studentID, link string) (*models.Task, error)
	StartReview(ctx context.Context, taskID, startupID, studentID string) (*models.Task, error)
	Review(ctx context.Context, taskID, startupID, studentID string, approve bool, reviewNotes string) (*models.Task, error)
}

// WorkflowHandler exposes the submission and review endpoints. Unlike the
// envelope-wrapped read endpoints these reply with the flat bodies the web
// client binds to directly.
type WorkflowHandler struct {
	service  workflowService
	validate *validator.Validate
}

// NewWorkflowHandler constructs the handler.
func NewWorkflowHandler(service workflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service, validate: validator.New()}
}

// SubmitLink godoc
// @Summary Submit a work link for a task
// @Tags Workflow
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param payload body dto.SubmitLinkRequest true "Submission payload"
// @Success 200 {object} dto.SubmitLinkResponse
// @Router /student/tasks/{taskId}/submit-link [post]
func (h *WorkflowHandler) SubmitLink(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a valid work link is required"))
		return
	}

	task, err := h.service.SubmitLink(c.Request.Context(), c.Param("taskId"), claims.UserID, req.Link)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubmitLinkResponse{
		Message: "Work link submitted successfully",
		Success: true,
		TaskID:  task.ID,
	})
}

// StartReview godoc
// @Summary Move a pending submission to under-review
// @Tags Workflow
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param payload body dto.StartReviewRequest true "Review payload"
// @Success 200 {object} dto.StartReviewResponse
// @Router /startup/tasks/{taskId}/review [post]
func (h *WorkflowHandler) StartReview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.StartReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId is required"))
		return
	}

	if _, err := h.service.StartReview(c.Request.Context(), c.Param("taskId"), claims.UserID, req.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StartReviewResponse{Message: "Submission moved to review"})
}

// Review godoc
// @Summary Approve or reject a submission
// @Tags Workflow
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param payload body dto.ReviewRequest true "Decision payload"
// @Success 200 {object} dto.ReviewResponse
// @Router /startup/tasks/{taskId}/approve [post]
func (h *WorkflowHandler) Review(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId is required"))
		return
	}

	task, err := h.service.Review(c.Request.Context(), c.Param("taskId"), claims.UserID, req.StudentID, req.Approve, req.ReviewNotes)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Submission rejected"
	if req.Approve {
		message = "Submission approved and task completed"
	}
	c.JSON(http.StatusOK, dto.ReviewResponse{
		Message:   message,
		Success:   true,
		TaskID:    task.ID,
		StudentID: req.StudentID,
	})
}
