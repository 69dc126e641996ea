package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc, middlewares ...gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(middlewares...)
	engine.GET("/invoices", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices?status=POSTED", nil)
	req.Header.Set("User-Agent", "leasedesk-test")
	engine.ServeHTTP(w, req)
	return w
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful requests at info", func(t *testing.T) {
		l, logs := newObservedLogger()

		w := performRequest(func(c *gin.Context) {
			c.Status(http.StatusOK)
		}, GinMiddleware(l))

		assert.Equal(t, http.StatusOK, w.Code)
		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.InfoLevel, entries[0].Level)

		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/invoices", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "status=POSTED", fields["query"])
		assert.Equal(t, "leasedesk-test", fields["user_agent"])
	})

	t.Run("logs client errors at warn", func(t *testing.T) {
		l, logs := newObservedLogger()

		performRequest(func(c *gin.Context) {
			c.Status(http.StatusUnprocessableEntity)
		}, GinMiddleware(l))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	})

	t.Run("logs server errors at error with gin errors attached", func(t *testing.T) {
		l, logs := newObservedLogger()

		performRequest(func(c *gin.Context) {
			_ = c.Error(assert.AnError)
			c.Status(http.StatusInternalServerError)
		}, GinMiddleware(l))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Contains(t, entries[0].ContextMap(), "errors")
	})

	t.Run("exposes a request-scoped logger to handlers", func(t *testing.T) {
		l, _ := newObservedLogger()

		performRequest(func(c *gin.Context) {
			reqLog := GetGinLogger(c)
			assert.NotNil(t, reqLog)
			reqLog.Info("handler log")
			c.Status(http.StatusOK)
		}, GinMiddleware(l))
	})
}

func TestRecovery(t *testing.T) {
	t.Run("turns panics into 500 and logs them", func(t *testing.T) {
		l, logs := newObservedLogger()

		w := performRequest(func(c *gin.Context) {
			panic("allocation ledger corrupted")
		}, Recovery(l))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "Panic recovered", entries[0].Message)
		assert.Equal(t, "allocation ledger corrupted", entries[0].ContextMap()["error"])
	})

	t.Run("passes normal requests through", func(t *testing.T) {
		l, logs := newObservedLogger()

		w := performRequest(func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		}, Recovery(l))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, logs.All())
	})
}

func TestGetGinLogger_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	l := GetGinLogger(c)
	require.NotNil(t, l)
	l.Info("must not panic")
}
