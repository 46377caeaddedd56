package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/internal/service"
	"github.com/hubinity/hubinity-api/pkg/config"
)

const testSecret = "middleware-test-secret"

func testRouter(t *testing.T, roles ...models.UserRole) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(nil, config.JWTConfig{Secret: testSecret}, nil)

	r := gin.New()
	group := r.Group("/", JWT(authService))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return r
}

func signTestToken(t *testing.T, role models.UserRole) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestJWTMiddleware(t *testing.T) {
	r := testRouter(t)

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleStudent))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "user-1")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	r := testRouter(t, models.RoleStartup)

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleStartup))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin passes everywhere", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleAdmin))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleStudent))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
