package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func hit(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsNormalRequests(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	defer rl.Stop()

	if w := hit(limitedRouter(rl), "192.168.1.1:12345"); w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRateLimit_BlocksExcessiveRequests(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()
	router := limitedRouter(rl)

	var last *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		last = hit(router, "10.0.0.1:12345")
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d after burst exceeded, got %d", http.StatusTooManyRequests, last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After should be set on 429")
	}
}

func TestRateLimit_IndependentPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()
	router := limitedRouter(rl)

	if w := hit(router, "10.0.0.1:12345"); w.Code != http.StatusOK {
		t.Errorf("IP1 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
	if w := hit(router, "10.0.0.2:12345"); w.Code != http.StatusOK {
		t.Errorf("IP2 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRateLimit_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	rl.evictIdle(time.Now().Add(limiterIdleTTL + time.Second))

	rl.mu.Lock()
	n := len(rl.limiters)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("expected idle limiter to be evicted, %d left", n)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	rl.Stop()
}
