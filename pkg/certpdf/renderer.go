package certpdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData carries everything the renderer needs. It is a snapshot:
// later edits to the task or the student profile must not change an issued
// document.
type CertificateData struct {
	StudentName       string
	TaskTitle         string
	StartupName       string
	CompletionDate    time.Time
	CertificateNumber string
	Skills            []string
}

// Renderer produces completion certificate PDFs.
type Renderer struct{}

// NewRenderer constructs a certificate renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws a landscape A4 certificate and returns the document bytes.
func (r *Renderer) Render(data CertificateData) ([]byte, error) {
	if data.StudentName == "" || data.TaskTitle == "" {
		return nil, fmt.Errorf("certificate requires student name and task title")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Outer and inner frame.
	pdf.SetDrawColor(30, 64, 175)
	pdf.SetLineWidth(1.2)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")
	pdf.SetDrawColor(59, 130, 246)
	pdf.SetLineWidth(0.5)
	pdf.Rect(12, 12, pageW-24, pageH-24, "D")

	// Wordmark.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 64, 175)
	pdf.Text(22, 30, "HUBINITY")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 116, 139)
	pdf.Text(22, 37, "Innovation Hub")
	pdf.SetDrawColor(30, 64, 175)
	pdf.SetLineWidth(0.6)
	pdf.Line(22, 40, 70, 40)

	pdf.SetY(50)
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 14, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 11, data.StudentName, "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 8, "has successfully completed the project", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 10, fmt.Sprintf("%q", data.TaskTitle), "", 1, "C", false, 0, "")

	if data.StartupName != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 8, fmt.Sprintf("for %s", data.StartupName), "", 1, "C", false, 0, "")
	}

	if len(data.Skills) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(0, 7, fmt.Sprintf("Skills demonstrated: %s", strings.Join(data.Skills, ", ")), "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 7, fmt.Sprintf("Completed on: %s", data.CompletionDate.Format("January 2, 2006")), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(156, 163, 175)
	pdf.CellFormat(0, 6, fmt.Sprintf("Certificate #: %s", data.CertificateNumber), "", 1, "C", false, 0, "")

	// Signature block, bottom right.
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(55, 65, 81)
	pdf.Text(pageW-80, pageH-45, "Signature")
	pdf.SetDrawColor(55, 65, 81)
	pdf.SetLineWidth(0.5)
	pdf.Line(pageW-80, pageH-40, pageW-35, pageH-40)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.Text(pageW-80, pageH-33, fmt.Sprintf("Date: %s", time.Now().Format("January 2, 2006")))

	pdf.SetY(pageH - 28)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(156, 163, 175)
	pdf.CellFormat(0, 6, "This certificate is issued by Hubinity Innovation Hub", "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
