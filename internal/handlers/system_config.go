package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

// SystemConfigHandler serves the system, notification and report
// configuration screens.
type SystemConfigHandler struct {
	configService       *services.SystemConfigService
	notificationConfigs *services.NotificationConfigService
	reportConfigs       *services.ReportConfigService
}

func NewSystemConfigHandler(configService *services.SystemConfigService, notificationConfigs *services.NotificationConfigService, reportConfigs *services.ReportConfigService) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService:       configService,
		notificationConfigs: notificationConfigs,
		reportConfigs:       reportConfigs,
	}
}

func (h *SystemConfigHandler) List(c *gin.Context) {
	var req services.SystemConfigListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.configService.List(c.Request.Context(), &req))
}

func (h *SystemConfigHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cfg, err := h.configService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *SystemConfigHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch models.SystemConfigPatch
	if !bindJSON(c, &patch) {
		return
	}
	cfg, err := h.configService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *SystemConfigHandler) ListNotificationConfigs(c *gin.Context) {
	response.Success(c, h.notificationConfigs.List(c.Request.Context()))
}

func (h *SystemConfigHandler) GetNotificationConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cfg, err := h.notificationConfigs.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *SystemConfigHandler) CreateNotificationConfig(c *gin.Context) {
	var req models.CreateNotificationConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	response.Created(c, h.notificationConfigs.Create(c.Request.Context(), &req))
}

func (h *SystemConfigHandler) UpdateNotificationConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch models.NotificationConfigPatch
	if !bindJSON(c, &patch) {
		return
	}
	cfg, err := h.notificationConfigs.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *SystemConfigHandler) DeleteNotificationConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.notificationConfigs.Delete(c.Request.Context(), id)
	response.SuccessMessage(c, "deleted")
}

func (h *SystemConfigHandler) ListReportConfigs(c *gin.Context) {
	response.Success(c, h.reportConfigs.List(c.Request.Context()))
}

func (h *SystemConfigHandler) GetReportConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cfg, err := h.reportConfigs.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *SystemConfigHandler) CreateReportConfig(c *gin.Context) {
	var req models.CreateReportConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	response.Created(c, h.reportConfigs.Create(c.Request.Context(), &req))
}

func (h *SystemConfigHandler) UpdateReportConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch models.ReportConfigPatch
	if !bindJSON(c, &patch) {
		return
	}
	cfg, err := h.reportConfigs.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

func (h *SystemConfigHandler) DeleteReportConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.reportConfigs.Delete(c.Request.Context(), id)
	response.SuccessMessage(c, "deleted")
}
