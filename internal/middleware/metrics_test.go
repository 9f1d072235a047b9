package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/api/reports/:id/download", func(c *gin.Context) { c.Status(http.StatusConflict) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/reports/:id/download", "409"))
	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/reports/"+id+"/download", nil)
		router.ServeHTTP(w, req)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/reports/:id/download", "409"))

	if after-before != 2 {
		t.Errorf("expected 2 requests counted under the route pattern, got %v", after-before)
	}
}

func TestMetrics_UnmatchedPaths(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/nope", nil)
	router.ServeHTTP(w, req)

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")) - before; got != 1 {
		t.Errorf("expected 1 unmatched request, got %v", got)
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(200, c.GetString(ContextRequestID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("caller request id not propagated: header %q body %q", w.Header().Get(RequestIDHeader), w.Body.String())
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("expected generated uuid, got %q", w.Header().Get(RequestIDHeader))
	}
}
