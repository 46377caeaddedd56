package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, expiresAt, err := signer.Generate("cert-1", "certificate_HUB-1.pdf")
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	certID, relPath, _, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "cert-1", certID)
	require.Equal(t, "certificate_HUB-1.pdf", relPath)
}

func TestSignedURLRejectsTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, _, err := signer.Generate("cert-1", "certificate_HUB-1.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "cert-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestSignedURLRejectsWrongSecret(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	other := NewSignedURLSigner("different", time.Minute)

	token, _, err := signer.Generate("cert-1", "certificate_HUB-1.pdf")
	require.NoError(t, err)

	_, _, _, err = other.Parse(token)
	require.Error(t, err)
}

func TestSignedURLRejectsExpiredToken(t *testing.T) {
	signer := &SignedURLSigner{secret: []byte("secret"), ttl: -time.Minute}

	token, _, err := signer.Generate("cert-1", "certificate_HUB-1.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expired")
}
