package certpdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRendererProducesPDF(t *testing.T) {
	r := NewRenderer()
	data := CertificateData{
		StudentName:       "Ada Lovelace",
		TaskTitle:         "Landing Page Redesign",
		StartupName:       "Acme Labs",
		CompletionDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		CertificateNumber: "HUB-1700000000000-42",
		Skills:            []string{"design", "figma"},
	}

	out, err := r.Render(data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Equal(t, "%PDF", string(out[:4]))
}

func TestRendererRequiresNameAndTitle(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(CertificateData{TaskTitle: "Landing Page Redesign"})
	require.Error(t, err)

	_, err = r.Render(CertificateData{StudentName: "Ada Lovelace"})
	require.Error(t, err)
}
