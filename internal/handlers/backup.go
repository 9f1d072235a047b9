package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	backupService *services.BackupService
}

func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// List GET /api/admin/backups
func (h *BackupHandler) List(c *gin.Context) {
	var req services.BackupListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.backupService.List(c.Request.Context(), &req))
}

// Create POST /api/admin/backups
func (h *BackupHandler) Create(c *gin.Context) {
	var req models.CreateBackupRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	response.Created(c, h.backupService.Create(c.Request.Context(), &req, actor(c)))
}

// Download GET /api/admin/backups/:id/download
func (h *BackupHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bin, err := h.backupService.Download(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendBinary(c, bin)
}
