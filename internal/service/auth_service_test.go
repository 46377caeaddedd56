package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/pkg/config"
)

type stubUserStore struct {
	users map[string]*models.User
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func signToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "hubinity-auth"}
	svc := NewAuthService(&stubUserStore{}, cfg, zap.NewNop())

	baseClaims := func() *models.JWTClaims {
		return &models.JWTClaims{
			UserID: "user-1",
			Role:   models.RoleStudent,
			Email:  "student@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "hubinity-auth",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
	}

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateToken(signToken(t, "test-secret", baseClaims()))
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.UserID)
		require.Equal(t, models.RoleStudent, claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := svc.ValidateToken(signToken(t, "other-secret", baseClaims()))
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := svc.ValidateToken(signToken(t, "test-secret", claims))
		require.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := baseClaims()
		claims.Issuer = "someone-else"
		_, err := svc.ValidateToken(signToken(t, "test-secret", claims))
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := baseClaims()
		claims.UserID = ""
		_, err := svc.ValidateToken(signToken(t, "test-secret", claims))
		require.Error(t, err)
	})

	t.Run("audience enforced when configured", func(t *testing.T) {
		audienceCfg := cfg
		audienceCfg.Audience = []string{"hubinity-api"}
		audienceSvc := NewAuthService(&stubUserStore{}, audienceCfg, zap.NewNop())

		claims := baseClaims()
		claims.Audience = jwt.ClaimStrings{"hubinity-api"}
		_, err := audienceSvc.ValidateToken(signToken(t, "test-secret", claims))
		require.NoError(t, err)

		claims.Audience = jwt.ClaimStrings{"other-service"}
		_, err = audienceSvc.ValidateToken(signToken(t, "test-secret", claims))
		require.Error(t, err)
	})
}

func TestCurrentUser(t *testing.T) {
	store := &stubUserStore{users: map[string]*models.User{
		"user-1": {ID: "user-1", Email: "student@example.com", Role: models.RoleStudent},
	}}
	svc := NewAuthService(store, config.JWTConfig{Secret: "s"}, zap.NewNop())

	user, err := svc.CurrentUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "student@example.com", user.Email)

	_, err = svc.CurrentUser(context.Background(), "gone")
	require.Error(t, err)
}
