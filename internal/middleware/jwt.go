package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/internal/service"
	appErrors "github.com/hubinity/hubinity-api/pkg/errors"
	"github.com/hubinity/hubinity-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, authService)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, authService *service.AuthService) (*models.JWTClaims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}
	return claims, nil
}
