package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
	"github.com/hubinity/hubinity-api/pkg/response"
)

type certificateService interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
	Download(ctx context.Context, id, studentID string) (*models.Certificate, *os.File, error)
	DownloadByToken(ctx context.Context, token string) (*models.Certificate, *os.File, error)
}

// CertificateHandler serves certificate listings and document downloads.
type CertificateHandler struct {
	service certificateService
}

// NewCertificateHandler constructs the handler.
func NewCertificateHandler(service certificateService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

// List godoc
// @Summary List the student's certificates
// @Tags Certificates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	certificates, err := h.service.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certificates, map[string]interface{}{"count": len(certificates)})
}

// Download godoc
// @Summary Download an owned certificate document
// @Tags Certificates
// @Produce application/pdf
// @Param id path string true "Certificate ID"
// @Success 200 {file} binary
// @Router /student/certificates/{id}/download [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	certificate, file, err := h.service.Download(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	streamDocument(c, certificate, file)
}

// DownloadByToken godoc
// @Summary Download a certificate via a signed link
// @Tags Certificates
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /certificates/download/{token} [get]
func (h *CertificateHandler) DownloadByToken(c *gin.Context) {
	certificate, file, err := h.service.DownloadByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	streamDocument(c, certificate, file)
}

func streamDocument(c *gin.Context, certificate *models.Certificate, file *os.File) {
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat certificate document"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificate_%s.pdf", certificate.CertificateNumber))
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}
