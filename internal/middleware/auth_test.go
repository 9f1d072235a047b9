package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/internal/utils"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-middleware-testing")
}

// whoami echoes the identity and forwarded token the middleware set.
func whoami(c *gin.Context) {
	c.JSON(200, gin.H{
		"user_id":  GetUserID(c),
		"username": GetUsername(c),
		"role":     GetRole(c),
		"token":    upstream.TokenFrom(c.Request.Context()),
	})
}

func serveWithAuth(enforce bool, authHeader string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(AuthRequired(enforce, "admin"))
	router.GET("/protected", whoami)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_NoHeader(t *testing.T) {
	w := serveWithAuth(true, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_InvalidFormat(t *testing.T) {
	testCases := []string{
		"InvalidToken",
		"Basic token123",
		"Bearer",
		"Bearer    ",
	}

	for _, authHeader := range testCases {
		w := serveWithAuth(true, authHeader)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected status %d, got %d", authHeader, http.StatusUnauthorized, w.Code)
		}
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	w := serveWithAuth(true, "Bearer invalid.jwt.token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_ValidTokenIsForwarded(t *testing.T) {
	token, err := utils.GenerateToken(7, "zhang.wei", "manager", 1)
	if err != nil {
		t.Fatal(err)
	}

	w := serveWithAuth(true, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["user_id"] != float64(7) || body["username"] != "zhang.wei" || body["role"] != "manager" {
		t.Errorf("unexpected identity: %v", body)
	}
	if body["token"] != token {
		t.Errorf("token not forwarded to upstream context: %v", body["token"])
	}
}

func TestAuthRequired_ExchangedTokenForwardsCoreToken(t *testing.T) {
	token, err := utils.GenerateExchangeToken(12, "li.na", "user", "core-api-issued-token", 1)
	if err != nil {
		t.Fatal(err)
	}

	w := serveWithAuth(true, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["username"] != "li.na" || body["role"] != "user" {
		t.Errorf("unexpected identity: %v", body)
	}
	if body["token"] != "core-api-issued-token" {
		t.Errorf("expected core API token forwarded, got %v", body["token"])
	}
}

func TestAuthRequired_DisabledRunsAsAdmin(t *testing.T) {
	w := serveWithAuth(false, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["username"] != "admin" || body["role"] != "admin" {
		t.Errorf("unexpected identity: %v", body)
	}
	if body["token"] != "" {
		t.Errorf("expected no forwarded token, got %v", body["token"])
	}
}

func TestAuthRequired_DisabledStillForwardsToken(t *testing.T) {
	w := serveWithAuth(false, "Bearer upstream-token")

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["token"] != "upstream-token" {
		t.Errorf("expected forwarded token, got %v", body["token"])
	}
}

func serveAdminOnly(role string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(ContextRole, role)
		}
		c.Next()
	})
	router.Use(AdminRequired())
	router.GET("/admin", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{"", http.StatusForbidden},
		{"user", http.StatusForbidden},
		{"manager", http.StatusForbidden},
		{"admin", http.StatusOK},
	}
	for _, tt := range tests {
		if w := serveAdminOnly(tt.role); w.Code != tt.want {
			t.Errorf("role %q: expected status %d, got %d", tt.role, tt.want, w.Code)
		}
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if id := GetUserID(c); id != 0 {
		t.Errorf("expected 0 for missing user_id, got %d", id)
	}

	c.Set(ContextUserID, int64(42))
	if id := GetUserID(c); id != 42 {
		t.Errorf("expected 42, got %d", id)
	}
}

func TestGetClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if claims := GetClaims(c); claims != nil {
		t.Errorf("expected nil claims, got %+v", claims)
	}

	setClaims(c, &utils.Claims{UserID: 3, Username: "li.na", Role: "user"})
	claims := GetClaims(c)
	if claims == nil || claims.Username != "li.na" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if GetRole(c) != "user" || GetUsername(c) != "li.na" || GetUserID(c) != 3 {
		t.Error("context keys not populated from claims")
	}
}
