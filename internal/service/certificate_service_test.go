package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/pkg/certpdf"
)

type stubCertificateStore struct {
	byPair map[string]*models.Certificate
	byID   map[string]*models.Certificate
	count  int64

	insertDenied bool
	created      []*models.Certificate
}

func pairKey(taskID, studentID string) string { return taskID + "|" + studentID }

func newStubCertificateStore() *stubCertificateStore {
	return &stubCertificateStore{
		byPair: make(map[string]*models.Certificate),
		byID:   make(map[string]*models.Certificate),
	}
}

func (s *stubCertificateStore) Create(_ context.Context, certificate *models.Certificate) (bool, error) {
	if s.insertDenied {
		return false, nil
	}
	if _, exists := s.byPair[pairKey(certificate.TaskID, certificate.StudentID)]; exists {
		return false, nil
	}
	certificate.ID = "cert-" + certificate.CertificateNumber
	s.byPair[pairKey(certificate.TaskID, certificate.StudentID)] = certificate
	s.byID[certificate.ID] = certificate
	s.created = append(s.created, certificate)
	s.count++
	return true, nil
}

func (s *stubCertificateStore) FindByTaskAndStudent(_ context.Context, taskID, studentID string) (*models.Certificate, error) {
	if certificate, ok := s.byPair[pairKey(taskID, studentID)]; ok {
		return certificate, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubCertificateStore) GetByID(_ context.Context, id string) (*models.Certificate, error) {
	if certificate, ok := s.byID[id]; ok {
		return certificate, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubCertificateStore) ListByStudent(_ context.Context, studentID string) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, certificate := range s.byPair {
		if certificate.StudentID == studentID {
			out = append(out, *certificate)
		}
	}
	return out, nil
}

func (s *stubCertificateStore) Count(_ context.Context) (int64, error) {
	return s.count, nil
}

type stubRenderer struct {
	err      error
	lastData certpdf.CertificateData
}

func (r *stubRenderer) Render(data certpdf.CertificateData) ([]byte, error) {
	r.lastData = data
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type stubDocumentStorage struct {
	saved map[string][]byte
	err   error
}

func (s *stubDocumentStorage) Save(filename string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[filename] = data
	return filename, nil
}

func (s *stubDocumentStorage) Open(_ string) (*os.File, error) {
	return nil, os.ErrNotExist
}

type stubSigner struct{}

func (stubSigner) Generate(certificateID, relPath string) (string, time.Time, error) {
	return certificateID + ":" + relPath, time.Now().Add(time.Hour), nil
}

func (stubSigner) Parse(token string) (string, string, time.Time, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return "", "", time.Time{}, errors.New("malformed token")
	}
	return parts[0], parts[1], time.Now().Add(time.Hour), nil
}

func issuanceFixture() (*CertificateService, *stubCertificateStore, *stubRenderer, *stubDocumentStorage) {
	store := newStubCertificateStore()
	renderer := &stubRenderer{}
	storage := &stubDocumentStorage{}
	svc := NewCertificateService(store, renderer, storage, stubSigner{}, nil, zap.NewNop())
	return svc, store, renderer, storage
}

func issuanceTask() *models.Task {
	completed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &models.Task{
		ID:          "task-1",
		Title:       "Build landing page",
		StartupID:   "startup-1",
		StartupName: "Acme Labs",
		Skills:      []string{"react", "css"},
		CompletedAt: &completed,
	}
}

func TestCertificateIssue(t *testing.T) {
	submission := &models.Submission{ID: "sub-1", TaskID: "task-1", StudentID: "student-1", StudentName: "Jordan Reyes"}

	t.Run("renders, stores and persists", func(t *testing.T) {
		svc, store, renderer, storage := issuanceFixture()

		certificate, err := svc.Issue(context.Background(), issuanceTask(), submission)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(certificate.CertificateNumber, "HUB-"))
		require.Equal(t, "Jordan Reyes", renderer.lastData.StudentName)
		require.Equal(t, "Acme Labs", renderer.lastData.StartupName)
		require.Len(t, store.created, 1)
		require.Len(t, storage.saved, 1)
	})

	t.Run("idempotent per task and student", func(t *testing.T) {
		svc, store, _, _ := issuanceFixture()

		first, err := svc.Issue(context.Background(), issuanceTask(), submission)
		require.NoError(t, err)
		second, err := svc.Issue(context.Background(), issuanceTask(), submission)
		require.NoError(t, err)
		require.Equal(t, first.CertificateNumber, second.CertificateNumber)
		require.Len(t, store.created, 1)
	})

	t.Run("insert race falls back to winner's record", func(t *testing.T) {
		svc, store, _, _ := issuanceFixture()

		winner := &models.Certificate{ID: "cert-existing", TaskID: "task-1", StudentID: "student-1", CertificateNumber: "HUB-0-1"}
		store.byPair[pairKey("task-1", "student-1")] = winner
		store.byID[winner.ID] = winner
		store.insertDenied = true

		certificate, err := svc.Issue(context.Background(), issuanceTask(), submission)
		require.NoError(t, err)
		require.Equal(t, "HUB-0-1", certificate.CertificateNumber)
		require.Empty(t, store.created)
	})

	t.Run("render failure aborts without persisting", func(t *testing.T) {
		svc, store, renderer, _ := issuanceFixture()
		renderer.err = errors.New("font missing")

		_, err := svc.Issue(context.Background(), issuanceTask(), submission)
		require.Error(t, err)
		require.Empty(t, store.created)
	})

	t.Run("storage failure aborts without persisting", func(t *testing.T) {
		svc, store, _, storage := issuanceFixture()
		storage.err = errors.New("disk full")

		_, err := svc.Issue(context.Background(), issuanceTask(), submission)
		require.Error(t, err)
		require.Empty(t, store.created)
	})
}

func TestCertificateListByStudent(t *testing.T) {
	svc, _, _, _ := issuanceFixture()
	submission := &models.Submission{ID: "sub-1", TaskID: "task-1", StudentID: "student-1", StudentName: "Jordan Reyes"}
	_, err := svc.Issue(context.Background(), issuanceTask(), submission)
	require.NoError(t, err)

	certificates, err := svc.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, certificates, 1)
	require.True(t, strings.HasPrefix(certificates[0].DownloadURL, "/certificates/download/"))

	none, err := svc.ListByStudent(context.Background(), "student-2")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestCertificateDownloadOwnership(t *testing.T) {
	svc, _, _, _ := issuanceFixture()
	submission := &models.Submission{ID: "sub-1", TaskID: "task-1", StudentID: "student-1", StudentName: "Jordan Reyes"}
	certificate, err := svc.Issue(context.Background(), issuanceTask(), submission)
	require.NoError(t, err)

	_, _, err = svc.Download(context.Background(), certificate.ID, "student-2")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not authorized")
}
