package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/pkg/config"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService validates access tokens minted by the identity service and
// resolves the authenticated user's profile. Token issuance lives outside
// this API.
type AuthService struct {
	users  userStore
	cfg    config.JWTConfig
	logger *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(users userStore, cfg config.JWTConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, cfg: cfg, logger: logger}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, options...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token missing subject")
	}
	if len(s.cfg.Audience) > 0 && !audienceAllowed(claims.Audience, s.cfg.Audience) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token audience mismatch")
	}

	return claims, nil
}

func audienceAllowed(tokenAudience []string, allowed []string) bool {
	for _, have := range tokenAudience {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// CurrentUser loads the authenticated user's profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}
