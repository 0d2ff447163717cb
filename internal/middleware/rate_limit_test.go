package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedEngine(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func ping(r *gin.Engine, ip string) int {
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterLimitsPerClient(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	defer rl.Stop()
	r := newLimitedEngine(rl)

	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.2"))
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(100), 10)
	r := newLimitedEngine(rl)

	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})

	select {
	case <-rl.stop:
	default:
		t.Fatal("cleanup channel still open after Stop")
	}

	// Requests are still served after the cleanup worker ends.
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.3"))
}
