package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/internal/utils"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SSEHandler streams report status changes to the reports screen.
type SSEHandler struct {
	hub         *services.ReportEventHub
	enforceAuth bool
}

func NewSSEHandler(hub *services.ReportEventHub, enforceAuth bool) *SSEHandler {
	return &SSEHandler{hub: hub, enforceAuth: enforceAuth}
}

// StreamReportEvents GET /api/reports/events
//
// EventSource cannot set headers, so the token may also come in ?token=.
func (h *SSEHandler) StreamReportEvents(c *gin.Context) {
	if h.enforceAuth {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if token == "" {
			response.Unauthorized(c, "Unauthorized")
			return
		}
		if _, err := utils.ParseToken(token); err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientID := uuid.New().String()
	events := h.hub.Subscribe(clientID)
	defer h.hub.Unsubscribe(clientID)

	logger.Info().Str("client_id", clientID).Int("total", h.hub.ClientCount()).Msg("SSE client connected")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error().Err(err).Msg("SSE marshal error")
				return true
			}
			fmt.Fprintf(w, "event: report\ndata: %s\n\n", data)
			c.Writer.Flush()
			return true
		case <-c.Request.Context().Done():
			logger.Info().Str("client_id", clientID).Msg("SSE client disconnected")
			return false
		}
	})
}
