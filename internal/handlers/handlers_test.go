package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/internal/middleware"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-handler-testing")
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

var refTime = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// newTestRouter serves the console API from the seeded mock store with
// auth switched off, so every caller is the bootstrap admin.
func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	st := store.NewAt(refTime, func() time.Time { return refTime })
	up := upstream.NewClient(config.UpstreamConfig{})
	syslog := services.NewSystemLogger(st)

	users := services.NewUserService(st, up, syslog)
	auth, err := services.NewAuthService(st, up, users, syslog,
		config.JWTConfig{ExpireHour: 1}, config.AuthConfig{Enabled: false, AdminUsername: "admin", AdminPassword: "secret"})
	require.NoError(t, err)
	reportConfigs := services.NewReportConfigService(st, up, syslog)
	events := services.NewReportEventHub()
	queue := services.NewSyncQueue()
	reports := services.NewReportService(st, up, queue, reportConfigs, services.NewSchedulerLocks(nil), events, syslog)
	quality := services.NewQualityService(st, up)

	authHandler := NewAuthHandler(auth)
	userHandler := NewUserHandler(users)
	configHandler := NewSystemConfigHandler(services.NewSystemConfigService(st, up, syslog),
		services.NewNotificationConfigService(st, up, syslog), reportConfigs)
	notificationHandler := NewNotificationHandler(services.NewNotificationService(st, up))
	reportHandler := NewReportHandler(reports)
	healthHandler := NewHealthHandler(nil, st, up, queue, events)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", healthHandler.CheckHealth)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/reports/events", NewSSEHandler(events, true).StreamReportEvents)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(false, "admin"))
	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/notifications/bulk", notificationHandler.Bulk)
	protected.POST("/reports/generate", reportHandler.Generate)
	protected.GET("/reports/:id/download", reportHandler.Download)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired(), middleware.AuditTrail(quality))
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/system-configs/:id", configHandler.Get)
	admin.POST("/report-configs", configHandler.CreateReportConfig)

	return r, st
}

func serve(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp services.LoginResponse
	decode(t, w, &resp)
	assert.Equal(t, int64(1), resp.User.ID)

	claims, err := utils.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	w = serve(r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodPost, "/api/auth/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginThroughCoreAPI(t *testing.T) {
	core := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"success":true,"data":{"token":"core-api-issued-token","user":{"id":2,"username":"zhang.wei","role":"manager"}}}`))
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer core-api-issued-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":2,"username":"zhang.wei","role":"manager","organization":"core"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer core.Close()

	st := store.NewAt(refTime, func() time.Time { return refTime })
	up := upstream.NewClient(config.UpstreamConfig{BaseURL: core.URL, Timeout: 5 * time.Second})
	syslog := services.NewSystemLogger(st)
	auth, err := services.NewAuthService(st, up, services.NewUserService(st, up, syslog), syslog,
		config.JWTConfig{ExpireHour: 1}, config.AuthConfig{Enabled: true, AdminUsername: "admin", AdminPassword: "secret"})
	require.NoError(t, err)
	authHandler := NewAuthHandler(auth)

	r := gin.New()
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/api/auth/me", middleware.AuthRequired(true, "admin"), authHandler.Me)

	w := serve(r, http.MethodPost, "/api/auth/login", gin.H{"username": "zhang.wei", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp services.LoginResponse
	decode(t, w, &resp)
	assert.NotEqual(t, "core-api-issued-token", resp.Token)

	claims, err := utils.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "core-api-issued-token", claims.Upstream)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var user struct {
		Username     string `json:"username"`
		Organization string `json:"organization"`
	}
	decode(t, w, &user)
	assert.Equal(t, "zhang.wei", user.Username)
	assert.Equal(t, "core", user.Organization)
}

func TestMe(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user struct {
		Username string `json:"username"`
	}
	decode(t, w, &user)
	assert.Equal(t, "admin", user.Username)
}

func TestUserRoutes(t *testing.T) {
	r, st := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/admin/users?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	w = serve(r, http.MethodPost, "/api/admin/users", gin.H{"username": "wang.fang", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/api/admin/users", gin.H{"username": "wang.fang", "email": "wang.fang@bizeyes.cn"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 4, st.Users.Len())

	w = serve(r, http.MethodPut, "/api/admin/users/abc", gin.H{"fullName": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/api/admin/users/2", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no fields to update")

	w = serve(r, http.MethodPut, "/api/admin/users/999", gin.H{"fullName": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodDelete, "/api/admin/users/999", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminWritesAreAudited(t *testing.T) {
	r, st := newTestRouter(t)
	before := st.AuditLogs.Len()

	serve(r, http.MethodDelete, "/api/admin/users/3", nil)
	serve(r, http.MethodGet, "/api/admin/users", nil)

	assert.Equal(t, before+1, st.AuditLogs.Len())
}

func TestSystemConfigNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	w := serve(r, http.MethodGet, "/api/admin/system-configs/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Success)
}

func TestCreateReportConfig_CronValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	body := gin.H{"name": "Hourly", "reportType": "custom", "schedule": "nightly"}
	w := serve(r, http.MethodPost, "/api/admin/report-configs", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["schedule"] = "0 * * * *"
	w = serve(r, http.MethodPost, "/api/admin/report-configs", body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestNotificationBulk_InvalidAction(t *testing.T) {
	r, _ := newTestRouter(t)
	w := serve(r, http.MethodPut, "/api/notifications/bulk", gin.H{"ids": []int64{1}, "action": "star"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/api/notifications/bulk", gin.H{"ids": []int64{1, 999}, "action": "read"})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Affected int     `json:"affected"`
		Missing  []int64 `json:"missing"`
	}
	decode(t, w, &result)
	assert.Equal(t, 1, result.Affected)
	assert.Equal(t, []int64{999}, result.Missing)
}

func TestGenerateReport(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/reports/generate", gin.H{"title": "Q1 review", "reportType": "performance"})
	require.Equal(t, http.StatusCreated, w.Code)
	var report struct {
		Status      string `json:"status"`
		Format      string `json:"format"`
		GeneratedBy string `json:"generatedBy"`
	}
	decode(t, w, &report)
	assert.Equal(t, "pending", report.Status)
	assert.Equal(t, "pdf", report.Format)
	assert.Equal(t, "admin", report.GeneratedBy)

	w = serve(r, http.MethodPost, "/api/reports/generate", gin.H{"title": "Custom", "reportType": "performance", "period": "custom"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadReport(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/reports/1/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report-1.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = serve(r, http.MethodGet, "/api/reports/1/download?format=word", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/api/reports/4/download", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodGet, "/api/reports/999/download", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := serve(r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status     string `json:"status"`
		Components struct {
			Database  string         `json:"database"`
			Upstream  string         `json:"upstream"`
			QueueMode string         `json:"queue_mode"`
			MockData  map[string]int `json:"mock_data"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Components.Database)
	assert.Equal(t, "not configured", body.Components.Upstream)
	assert.Equal(t, "in-process", body.Components.QueueMode)
	assert.Equal(t, 3, body.Components.MockData["users"])
}

func TestReportEvents_RequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/reports/events", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/api/reports/events?token=garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
