package handlers

import (
	"net/http"

	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// HealthHandler reports the state of every subsystem the gateway leans on.
type HealthHandler struct {
	db       *gorm.DB
	store    *store.Store
	upstream *upstream.Client
	queue    services.TaskQueue
	events   *services.ReportEventHub
}

func NewHealthHandler(db *gorm.DB, st *store.Store, up *upstream.Client, queue services.TaskQueue, events *services.ReportEventHub) *HealthHandler {
	return &HealthHandler{db: db, store: st, upstream: up, queue: queue, events: events}
}

// CheckHealth GET /api/health
//
// Only the database can make the gateway unhealthy; an unreachable upstream
// is served from mock data.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "ok"
		sqlDB, err := h.db.DB()
		if err != nil {
			dbStatus = "error: " + err.Error()
			overall = "unhealthy"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			dbStatus = "error: " + err.Error()
			overall = "unhealthy"
		}
	}

	upstreamStatus := "not configured"
	if h.upstream.Configured() {
		upstreamStatus = h.upstream.State()
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":  overall,
		"service": "bizeyes-admin-gateway",
		"components": gin.H{
			"database":    dbStatus,
			"upstream":    upstreamStatus,
			"queue_mode":  services.QueueMode(h.queue),
			"sse_clients": h.events.ClientCount(),
			"mock_data":   h.store.Sizes(),
		},
	})
}

// Metrics GET /metrics
func (h *HealthHandler) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
