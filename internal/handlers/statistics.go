package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statsService *services.StatisticsService
}

func NewStatisticsHandler(statsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

// Get GET /api/admin/statistics?period=day|week|month|year
func (h *StatisticsHandler) Get(c *gin.Context) {
	var req services.StatisticsRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.statsService.Get(c.Request.Context(), &req))
}
