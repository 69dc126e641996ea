package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasedesk/backend/internal/infrastructure/auth"
	"github.com/leasedesk/backend/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "unit-test-secret-key-0123456789abcdef",
		TokenExpiration: expiration,
		Issuer:          "leasedesk-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, _, err := svc.GenerateToken(auth.GenerateTokenInput{
		UserID:   userID,
		Username: "clerk",
		Role:     role,
	})
	require.NoError(t, err)
	return token, userID
}

func authEngine(cfg JWTMiddlewareConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(cfg))
	engine.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    GetJWTRole(c),
		})
	})
	engine.GET("/public/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		token, userID := issueToken(t, svc, "MANAGER")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		authEngine(JWTMiddlewareConfig{JWTService: svc}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "MANAGER")
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		authEngine(JWTMiddlewareConfig{JWTService: svc}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, "Token abc")
		authEngine(JWTMiddlewareConfig{JWTService: svc}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected with its own code", func(t *testing.T) {
		expiredSvc := newTestJWTService(-time.Minute)
		token, _ := issueToken(t, expiredSvc, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		authEngine(JWTMiddlewareConfig{JWTService: expiredSvc}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		otherSvc := auth.NewJWTService(config.JWTConfig{
			Secret:          "a-completely-different-secret-value!",
			TokenExpiration: time.Hour,
			Issuer:          "leasedesk-test",
		})
		token, _ := issueToken(t, otherSvc, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		authEngine(JWTMiddlewareConfig{JWTService: svc}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		cfg := JWTMiddlewareConfig{
			JWTService: svc,
			SkipPaths:  []string{"/public/ping"},
		}
		w := httptest.NewRecorder()
		authEngine(cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("skip prefixes bypass authentication", func(t *testing.T) {
		cfg := JWTMiddlewareConfig{
			JWTService:       svc,
			SkipPathPrefixes: []string{"/public/"},
		}
		w := httptest.NewRecorder()
		authEngine(cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("OnError callback replaces the default response", func(t *testing.T) {
		cfg := JWTMiddlewareConfig{
			JWTService: svc,
			OnError: func(c *gin.Context, err error) {
				c.AbortWithStatusJSON(http.StatusTeapot, gin.H{"custom": true})
			},
		}
		w := httptest.NewRecorder()
		authEngine(cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestGetJWTClaims(t *testing.T) {
	t.Run("nil on unauthenticated context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Nil(t, GetJWTClaims(c))
		assert.Empty(t, GetJWTUserID(c))
		assert.Empty(t, GetJWTRole(c))
	})

	t.Run("returns stored claims", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		claims := &auth.Claims{UserID: "u-1", Role: "MANAGER"}
		c.Set(JWTClaimsKey, claims)
		assert.Same(t, claims, GetJWTClaims(c))
	})
}
