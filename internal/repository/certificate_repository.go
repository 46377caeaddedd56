package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hubinity/hubinity-api/internal/models"
)

const certificateColumns = `id, student_id, startup_id, task_id, title, startup_name, student_name,
       skills, certificate_number, issued_at, document_path`

// CertificateRepository persists issued certificates. Rows are append-only.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs the repository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create inserts the certificate. The UNIQUE(task_id, student_id) constraint
// makes concurrent issuance idempotent; when a racing insert already won,
// zero rows are written and inserted is false.
func (r *CertificateRepository) Create(ctx context.Context, certificate *models.Certificate) (inserted bool, err error) {
	if certificate.ID == "" {
		certificate.ID = uuid.NewString()
	}
	if certificate.IssuedAt.IsZero() {
		certificate.IssuedAt = time.Now().UTC()
	}
	const query = `INSERT INTO certificates
	(id, student_id, startup_id, task_id, title, startup_name, student_name, skills, certificate_number, issued_at, document_path)
	VALUES (:id, :student_id, :startup_id, :task_id, :title, :startup_name, :student_name, :skills, :certificate_number, :issued_at, :document_path)
	ON CONFLICT (task_id, student_id) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, certificate)
	if err != nil {
		return false, fmt.Errorf("create certificate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check certificate insert rows: %w", err)
	}
	return rows > 0, nil
}

// FindByTaskAndStudent returns the certificate for a (task, student) pair.
func (r *CertificateRepository) FindByTaskAndStudent(ctx context.Context, taskID, studentID string) (*models.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE task_id = $1 AND student_id = $2`, certificateColumns)
	var certificate models.Certificate
	if err := r.db.GetContext(ctx, &certificate, query, taskID, studentID); err != nil {
		return nil, err
	}
	return &certificate, nil
}

// GetByID fetches a certificate by identifier.
func (r *CertificateRepository) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE id = $1`, certificateColumns)
	var certificate models.Certificate
	if err := r.db.GetContext(ctx, &certificate, query, id); err != nil {
		return nil, err
	}
	return &certificate, nil
}

// ListByStudent returns a student's certificates, newest first.
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE student_id = $1 ORDER BY issued_at DESC`, certificateColumns)
	var certificates []models.Certificate
	if err := r.db.SelectContext(ctx, &certificates, query, studentID); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certificates, nil
}

// Count returns the total number of issued certificates. Feeds the
// monotonically increasing part of certificate numbers.
func (r *CertificateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM certificates`); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return count, nil
}
