package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type SystemLogHandler struct {
	logService   *services.SystemLogService
	fetchService *services.FetchLogService
}

func NewSystemLogHandler(logService *services.SystemLogService, fetchService *services.FetchLogService) *SystemLogHandler {
	return &SystemLogHandler{logService: logService, fetchService: fetchService}
}

// List GET /api/admin/logs
func (h *SystemLogHandler) List(c *gin.Context) {
	var req services.SystemLogListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.logService.List(c.Request.Context(), &req))
}

// Modules GET /api/admin/logs/modules
func (h *SystemLogHandler) Modules(c *gin.Context) {
	response.Success(c, h.logService.Modules(c.Request.Context()))
}

// FetchLogs GET /api/admin/fetch-logs
func (h *SystemLogHandler) FetchLogs(c *gin.Context) {
	var req services.FetchLogListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.fetchService.List(c.Request.Context(), &req))
}

// RetryFetch POST /api/admin/fetch-logs/:id/retry
func (h *SystemLogHandler) RetryFetch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	log, err := h.fetchService.Retry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, log)
}
