package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubinity/hubinity-api/internal/middleware"
	"github.com/hubinity/hubinity-api/internal/models"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
)

type certificateServiceMock struct {
	certificates []models.Certificate
	certificate  *models.Certificate
	file         *os.File
	err          error

	lastID    string
	lastToken string
}

func (m *certificateServiceMock) ListByStudent(_ context.Context, _ string) ([]models.Certificate, error) {
	return m.certificates, m.err
}

func (m *certificateServiceMock) Download(_ context.Context, id, _ string) (*models.Certificate, *os.File, error) {
	m.lastID = id
	return m.certificate, m.file, m.err
}

func (m *certificateServiceMock) DownloadByToken(_ context.Context, token string) (*models.Certificate, *os.File, error) {
	m.lastToken = token
	return m.certificate, m.file, m.err
}

func tempDocument(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "certificate.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)
	return file
}

func certificateTestContext(t *testing.T, path string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestCertificateHandlerList(t *testing.T) {
	mockSvc := &certificateServiceMock{certificates: []models.Certificate{
		{ID: "cert-1", CertificateNumber: "HUB-1-1", DownloadURL: "/certificates/download/tok"},
	}}
	handler := NewCertificateHandler(mockSvc)

	c, w := certificateTestContext(t, "/student/certificates",
		&models.JWTClaims{UserID: "student-1", Role: models.RoleStudent})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "HUB-1-1")
	assert.Contains(t, w.Body.String(), "/certificates/download/tok")
}

func TestCertificateHandlerDownload(t *testing.T) {
	t.Run("streams the document", func(t *testing.T) {
		mockSvc := &certificateServiceMock{
			certificate: &models.Certificate{ID: "cert-1", CertificateNumber: "HUB-1-1"},
			file:        tempDocument(t),
		}
		handler := NewCertificateHandler(mockSvc)

		c, w := certificateTestContext(t, "/student/certificates/cert-1/download",
			&models.JWTClaims{UserID: "student-1", Role: models.RoleStudent})
		c.Params = gin.Params{{Key: "id", Value: "cert-1"}}

		handler.Download(c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "HUB-1-1")
		assert.Contains(t, w.Body.String(), "%PDF")
	})

	t.Run("foreign certificate is 403", func(t *testing.T) {
		mockSvc := &certificateServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "not authorized to download this certificate")}
		handler := NewCertificateHandler(mockSvc)

		c, w := certificateTestContext(t, "/student/certificates/cert-1/download",
			&models.JWTClaims{UserID: "student-2", Role: models.RoleStudent})
		c.Params = gin.Params{{Key: "id", Value: "cert-1"}}

		handler.Download(c)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCertificateHandlerDownloadByToken(t *testing.T) {
	t.Run("valid token streams without auth", func(t *testing.T) {
		mockSvc := &certificateServiceMock{
			certificate: &models.Certificate{ID: "cert-1", CertificateNumber: "HUB-1-2"},
			file:        tempDocument(t),
		}
		handler := NewCertificateHandler(mockSvc)

		c, w := certificateTestContext(t, "/certificates/download/tok", nil)
		c.Params = gin.Params{{Key: "token", Value: "tok"}}

		handler.DownloadByToken(c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", mockSvc.lastToken)
	})

	t.Run("expired token is 403", func(t *testing.T) {
		mockSvc := &certificateServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")}
		handler := NewCertificateHandler(mockSvc)

		c, w := certificateTestContext(t, "/certificates/download/tok", nil)
		c.Params = gin.Params{{Key: "token", Value: "tok"}}

		handler.DownloadByToken(c)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
