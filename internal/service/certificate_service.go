package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/pkg/certpdf"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
)

type certificateStore interface {
	Create(ctx context.Context, certificate *models.Certificate) (bool, error)
	FindByTaskAndStudent(ctx context.Context, taskID, studentID string) (*models.Certificate, error)
	GetByID(ctx context.Context, id string) (*models.Certificate, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
	Count(ctx context.Context) (int64, error)
}

// CertificateRenderer turns a certificate data record into document bytes.
// The concrete renderer is pkg/certpdf; tests substitute their own.
type CertificateRenderer interface {
	Render(data certpdf.CertificateData) ([]byte, error)
}

// DocumentStorage persists and serves rendered documents.
type DocumentStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

// DownloadSigner mints and validates signed download tokens.
type DownloadSigner interface {
	Generate(certificateID, relPath string) (string, time.Time, error)
	Parse(token string) (certificateID, relPath string, expiresAt time.Time, err error)
}

// CertificateService issues completion certificates and serves them back.
// Issuance is idempotent per (task, student) and its failures never undo the
// approval that triggered it.
type CertificateService struct {
	repo     certificateStore
	renderer CertificateRenderer
	storage  DocumentStorage
	signer   DownloadSigner
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewCertificateService constructs the service. metrics may be nil.
func NewCertificateService(repo certificateStore, renderer CertificateRenderer, storage DocumentStorage, signer DownloadSigner, metrics *MetricsService, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, renderer: renderer, storage: storage, signer: signer, metrics: metrics, logger: logger}
}

// Issue creates the certificate for an approved submission. A certificate
// that already exists for the pair is returned as-is; rendering or storage
// failures abort issuance but are the caller's to log, not to fail on.
func (s *CertificateService) Issue(ctx context.Context, task *models.Task, submission *models.Submission) (*models.Certificate, error) {
	certificate, err := s.issue(ctx, task, submission)
	s.metrics.RecordCertificate(err == nil)
	return certificate, err
}

func (s *CertificateService) issue(ctx context.Context, task *models.Task, submission *models.Submission) (*models.Certificate, error) {
	existing, err := s.repo.FindByTaskAndStudent(ctx, task.ID, submission.StudentID)
	if err == nil {
		s.logger.Info("certificate already issued, skipping",
			zap.String("task_id", task.ID),
			zap.String("student_id", submission.StudentID),
			zap.String("certificate_number", existing.CertificateNumber))
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing certificate: %w", err)
	}

	number, err := s.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now().UTC()
	if task.CompletedAt != nil {
		completedAt = *task.CompletedAt
	}

	document, err := s.renderer.Render(certpdf.CertificateData{
		StudentName:       submission.StudentName,
		TaskTitle:         task.Title,
		StartupName:       task.StartupName,
		CompletionDate:    completedAt,
		CertificateNumber: number,
		Skills:            task.Skills,
	})
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	filename := fmt.Sprintf("certificate_%s.pdf", number)
	path, err := s.storage.Save(filename, document)
	if err != nil {
		return nil, fmt.Errorf("store certificate: %w", err)
	}

	certificate := &models.Certificate{
		StudentID:         submission.StudentID,
		StartupID:         task.StartupID,
		TaskID:            task.ID,
		Title:             task.Title,
		StartupName:       task.StartupName,
		StudentName:       submission.StudentName,
		Skills:            task.Skills,
		CertificateNumber: number,
		IssuedAt:          completedAt,
		DocumentPath:      path,
	}
	inserted, err := s.repo.Create(ctx, certificate)
	if err != nil {
		return nil, fmt.Errorf("persist certificate: %w", err)
	}
	if !inserted {
		// A concurrent approval won the insert race.
		s.logger.Info("certificate insert lost race, using existing",
			zap.String("task_id", task.ID),
			zap.String("student_id", submission.StudentID))
		return s.repo.FindByTaskAndStudent(ctx, task.ID, submission.StudentID)
	}
	return certificate, nil
}

// ListByStudent returns the student's certificates with signed download
// links attached.
func (s *CertificateService) ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	certificates, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	for i := range certificates {
		if s.signer == nil {
			continue
		}
		token, _, err := s.signer.Generate(certificates[i].ID, certificates[i].DocumentPath)
		if err != nil {
			s.logger.Warn("failed to sign certificate download link", zap.String("certificate_id", certificates[i].ID), zap.Error(err))
			continue
		}
		certificates[i].DownloadURL = "/certificates/download/" + token
	}
	return certificates, nil
}

// Download opens the rendered document for an owned certificate.
func (s *CertificateService) Download(ctx context.Context, id, studentID string) (*models.Certificate, *os.File, error) {
	certificate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if certificate.StudentID != studentID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to download this certificate")
	}
	file, err := s.storage.Open(certificate.DocumentPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "certificate document missing")
	}
	return certificate, file, nil
}

// DownloadByToken resolves a signed download token. Used by links embedded
// in listings so recipients can fetch documents without replaying auth.
func (s *CertificateService) DownloadByToken(ctx context.Context, token string) (*models.Certificate, *os.File, error) {
	if s.signer == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
	}
	certificateID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	certificate, err := s.repo.GetByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if certificate.DocumentPath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	file, err := s.storage.Open(certificate.DocumentPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "certificate document missing")
	}
	return certificate, file, nil
}

// nextNumber builds a human-readable certificate number from the issued
// count and a millisecond timestamp. The timestamp salt keeps concurrent
// issuance from colliding on the count alone; the unique column is the hard
// guarantee.
func (s *CertificateService) nextNumber(ctx context.Context) (string, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("sequence certificate number: %w", err)
	}
	return fmt.Sprintf("HUB-%d-%d", time.Now().UnixMilli(), count+1), nil
}
