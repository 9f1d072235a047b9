package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type QualityHandler struct {
	qualityService *services.QualityService
}

func NewQualityHandler(qualityService *services.QualityService) *QualityHandler {
	return &QualityHandler{qualityService: qualityService}
}

func (h *QualityHandler) Metrics(c *gin.Context) {
	response.Success(c, h.qualityService.Metrics(c.Request.Context()))
}

func (h *QualityHandler) AuditLogs(c *gin.Context) {
	var req services.AuditLogListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.qualityService.AuditLogs(c.Request.Context(), &req))
}

func (h *QualityHandler) ExportAuditLogs(c *gin.Context) {
	var req services.AuditLogListRequest
	if !bindQuery(c, &req) {
		return
	}
	sendBinary(c, h.qualityService.ExportAuditLogs(c.Request.Context(), &req))
}

func (h *QualityHandler) Report(c *gin.Context) {
	var req services.QualityReportRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.qualityService.Report(c.Request.Context(), &req))
}

func (h *QualityHandler) AuditSettings(c *gin.Context) {
	response.Success(c, h.qualityService.AuditSettings(c.Request.Context()))
}

func (h *QualityHandler) UpdateAuditSettings(c *gin.Context) {
	var patch models.AuditSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	response.Success(c, h.qualityService.UpdateAuditSettings(c.Request.Context(), &patch))
}
