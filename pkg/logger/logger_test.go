package logger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinRecovery(t *testing.T) {
	router := gin.New()
	router.Use(GinLogger(), GinRecovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("expected error envelope, got %s", w.Body.String())
	}
}

func TestInit_Levels(t *testing.T) {
	defer Init("info", "")

	Init("warn", "json")
	if log.GetLevel().String() != "warn" {
		t.Errorf("expected warn, got %s", log.GetLevel())
	}

	Init("bogus", "")
	if log.GetLevel().String() != "info" {
		t.Errorf("expected fallback to info, got %s", log.GetLevel())
	}
}
