package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("permits up to the limit inside a window", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)

		assert.True(t, rl.Allow("clerk"))
		assert.True(t, rl.Allow("clerk"))
		assert.True(t, rl.Allow("clerk"))
		assert.False(t, rl.Allow("clerk"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)

		assert.True(t, rl.Allow("clerk"))
		assert.False(t, rl.Allow("clerk"))
		assert.True(t, rl.Allow("manager"))
	})

	t.Run("window expiry refills the bucket", func(t *testing.T) {
		rl := NewRateLimiter(1, 10*time.Millisecond)

		assert.True(t, rl.Allow("clerk"))
		assert.False(t, rl.Allow("clerk"))

		time.Sleep(15 * time.Millisecond)
		assert.True(t, rl.Allow("clerk"))
	})

	t.Run("safe under concurrent access", func(t *testing.T) {
		rl := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		allowed := make(chan bool, 200)
		for i := 0; i < 200; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				allowed <- rl.Allow("shared")
			}()
		}
		wg.Wait()
		close(allowed)

		granted := 0
		for ok := range allowed {
			if ok {
				granted++
			}
		}
		assert.Equal(t, 100, granted)
	})
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, rl.Remaining("fresh"))

	rl.Allow("fresh")
	rl.Allow("fresh")
	assert.Equal(t, 3, rl.Remaining("fresh"))
}

func TestRateLimitMiddleware(t *testing.T) {
	newEngine := func(rl *RateLimiter) *gin.Engine {
		engine := gin.New()
		engine.Use(RateLimit(rl))
		engine.GET("/invoices", func(c *gin.Context) { c.Status(http.StatusOK) })
		return engine
	}

	t.Run("sets rate limit headers while allowed", func(t *testing.T) {
		engine := newEngine(NewRateLimiter(2, time.Minute))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects with 429 beyond the limit", func(t *testing.T) {
		engine := newEngine(NewRateLimiter(1, time.Minute))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("X-User-ID separates callers sharing an IP", func(t *testing.T) {
		engine := newEngine(NewRateLimiter(1, time.Minute))

		first := httptest.NewRequest(http.MethodGet, "/invoices", nil)
		first.Header.Set("X-User-ID", "user-a")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		second := httptest.NewRequest(http.MethodGet, "/invoices", nil)
		second.Header.Set("X-User-ID", "user-b")
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, second)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	engine := gin.New()
	engine.Use(RateLimitByKey(rl, func(c *gin.Context) string {
		return c.GetHeader("X-Tenant")
	}))
	engine.GET("/invoices", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	req.Header.Set("X-Tenant", "acme")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
