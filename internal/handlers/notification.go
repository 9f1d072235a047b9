package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req services.NotificationListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.notificationService.List(c.Request.Context(), &req))
}

// Bulk PUT /api/notifications/bulk
func (h *NotificationHandler) Bulk(c *gin.Context) {
	var req models.BulkNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	response.Success(c, h.notificationService.Bulk(c.Request.Context(), &req))
}

// Settings GET /api/notifications/settings
func (h *NotificationHandler) Settings(c *gin.Context) {
	response.Success(c, h.notificationService.Settings(c.Request.Context()))
}

// UpdateSettings POST /api/notifications/settings
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	var patch models.NotificationSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	response.Success(c, h.notificationService.UpdateSettings(c.Request.Context(), &patch))
}

// Stats GET /api/notifications/stats
func (h *NotificationHandler) Stats(c *gin.Context) {
	response.Success(c, h.notificationService.Stats(c.Request.Context()))
}
