package models

import (
	"time"

	"github.com/lib/pq"
)

// Certificate is an immutable proof-of-completion record. Exactly one exists
// per (task, student) pair; it is created when a submission is approved and
// never mutated or deleted afterwards.
type Certificate struct {
	ID                string         `db:"id" json:"id"`
	StudentID         string         `db:"student_id" json:"student_id"`
	StartupID         string         `db:"startup_id" json:"startup_id"`
	TaskID            string         `db:"task_id" json:"task_id"`
	Title             string         `db:"title" json:"title"`
	StartupName       string         `db:"startup_name" json:"startup_name"`
	StudentName       string         `db:"student_name" json:"student_name"`
	Skills            pq.StringArray `db:"skills" json:"skills"`
	CertificateNumber string         `db:"certificate_number" json:"certificate_number"`
	IssuedAt          time.Time      `db:"issued_at" json:"issued_at"`
	DocumentPath      string         `db:"document_path" json:"-"`
	DownloadURL       string         `db:"-" json:"download_url,omitempty"`
}
