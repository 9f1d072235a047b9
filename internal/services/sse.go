package services

import (
	"sync"
)

// ReportEvent is a report status change pushed to the reports screen.
type ReportEvent struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"` // pending, generating, completed, failed
	FileSize int64  `json:"fileSize,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReportEventHub fans report events out to SSE clients.
type ReportEventHub struct {
	clients map[string]chan ReportEvent
	mu      sync.RWMutex
}

func NewReportEventHub() *ReportEventHub {
	return &ReportEventHub{
		clients: make(map[string]chan ReportEvent),
	}
}

// Subscribe registers a new client and returns a channel for receiving events
func (h *ReportEventHub) Subscribe(clientID string) <-chan ReportEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan ReportEvent, 32)
	h.clients[clientID] = ch
	return ch
}

func (h *ReportEventHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[clientID]; ok {
		close(ch)
		delete(h.clients, clientID)
	}
}

// Publish broadcasts an event to all connected clients. Slow clients miss
// events rather than block the publisher.
func (h *ReportEventHub) Publish(event ReportEvent) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *ReportEventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
