package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	response.Success(c, h.dashboardService.Stats(c.Request.Context()))
}

// Charts GET /api/dashboard/charts
func (h *DashboardHandler) Charts(c *gin.Context) {
	response.Success(c, h.dashboardService.Charts(c.Request.Context()))
}

// RecentActivity GET /api/dashboard/recent-activity?limit=10
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	var req services.RecentActivityRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.dashboardService.RecentActivity(c.Request.Context(), &req))
}

// Timeline GET /api/dashboard/timeline
func (h *DashboardHandler) Timeline(c *gin.Context) {
	response.Success(c, h.dashboardService.Timeline(c.Request.Context()))
}

// Refresh POST /api/dashboard/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	response.Success(c, h.dashboardService.Refresh(c.Request.Context()))
}
