package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// List GET /api/reports
func (h *ReportHandler) List(c *gin.Context) {
	var req services.ReportListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.reportService.List(c.Request.Context(), &req))
}

// Generate POST /api/reports/generate
func (h *ReportHandler) Generate(c *gin.Context) {
	var req models.GenerateReportRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.reportService.Generate(c.Request.Context(), &req, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Download GET /api/reports/:id/download?format=pdf|excel|csv
func (h *ReportHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req services.ReportDownloadRequest
	if !bindQuery(c, &req) {
		return
	}
	bin, err := h.reportService.Download(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendBinary(c, bin)
}
