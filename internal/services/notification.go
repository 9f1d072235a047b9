package services

import (
	"context"
	"net/http"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
)

// NotificationService is the operator inbox.
type NotificationService struct {
	store    *store.Store
	upstream *upstream.Client
}

func NewNotificationService(st *store.Store, up *upstream.Client) *NotificationService {
	return &NotificationService{store: st, upstream: up}
}

type NotificationListRequest struct {
	paging.Request
	Status   string `form:"status" binding:"omitempty,oneof=unread read archived"`
	Type     string `form:"type"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Search   string `form:"search"`
}

var notificationSchema = filter.Schema[models.Notification]{
	"status":   filter.Exactly(func(n models.Notification) string { return n.Status }),
	"type":     filter.Exactly(func(n models.Notification) string { return n.Type }),
	"priority": filter.Exactly(func(n models.Notification) string { return n.Priority }),
	"search": filter.AnySubstring(func(n models.Notification) []string {
		return []string{n.Title, n.Content}
	}),
}

func (s *NotificationService) List(ctx context.Context, req *NotificationListRequest) paging.PagedResult[models.Notification] {
	set := filter.Set{"status": req.Status, "type": req.Type, "priority": req.Priority, "search": req.Search}
	return listOrMock(ctx, s.upstream, "notifications.list", "/notifications", set, req.Request, notificationSchema, s.store.Notifications.List)
}

// Bulk applies one action to many notifications. Unknown ids are reported
// back rather than failing the whole request.
func (s *NotificationService) Bulk(ctx context.Context, req *models.BulkNotificationRequest) models.BulkNotificationResult {
	res := upstream.Send[models.BulkNotificationResult](ctx, s.upstream, "notifications.bulk", upstream.Request{
		Method: http.MethodPut, Path: "/notifications/bulk", Body: req,
	})
	return res.OrElse(func() models.BulkNotificationResult {
		return s.applyBulk(req.IDs, req.Action)
	})
}

func (s *NotificationService) applyBulk(ids []int64, action string) models.BulkNotificationResult {
	result := models.BulkNotificationResult{Action: action, Missing: []int64{}}
	now := s.store.Now()

	for _, id := range ids {
		var err error
		switch action {
		case "read":
			_, err = s.store.Notifications.Update(id, func(n *models.Notification) {
				n.Status = models.NotificationRead
				n.ReadAt = &now
			})
		case "unread":
			_, err = s.store.Notifications.Update(id, func(n *models.Notification) {
				n.Status = models.NotificationUnread
				n.ReadAt = nil
			})
		case "archive":
			_, err = s.store.Notifications.Update(id, func(n *models.Notification) {
				n.Status = models.NotificationArchived
			})
		case "delete":
			if !s.store.Notifications.Delete(id) {
				err = store.ErrNotFound
			}
		}
		if err != nil {
			result.Missing = append(result.Missing, id)
			continue
		}
		result.Affected++
	}

	if len(result.Missing) > 0 {
		logger.Warn().Str("action", action).Ints64("missing", result.Missing).Msg("bulk notification update skipped unknown ids")
	}
	return result
}

func (s *NotificationService) Settings(ctx context.Context) models.NotificationSettings {
	return upstream.Fetch[models.NotificationSettings](ctx, s.upstream, "notifications.settings", "/notifications/settings", nil).
		OrElse(s.store.NotificationSettings)
}

func (s *NotificationService) UpdateSettings(ctx context.Context, patch *models.NotificationSettingsPatch) models.NotificationSettings {
	res := upstream.Send[models.NotificationSettings](ctx, s.upstream, "notifications.update_settings", upstream.Request{
		Method: http.MethodPost, Path: "/notifications/settings", Body: patch,
	})
	return res.OrElse(func() models.NotificationSettings {
		return s.store.UpdateNotificationSettings(patch)
	})
}

func (s *NotificationService) Stats(ctx context.Context) models.NotificationStats {
	return upstream.Fetch[models.NotificationStats](ctx, s.upstream, "notifications.stats", "/notifications/stats", nil).
		OrElse(s.computeStats)
}

func (s *NotificationService) computeStats() models.NotificationStats {
	stats := models.NotificationStats{ByType: map[string]int{}, ByPriority: map[string]int{}}
	for _, n := range s.store.Notifications.List() {
		stats.Total++
		switch n.Status {
		case models.NotificationUnread:
			stats.Unread++
		case models.NotificationRead:
			stats.Read++
		case models.NotificationArchived:
			stats.Archived++
		}
		stats.ByType[n.Type]++
		stats.ByPriority[n.Priority]++
	}
	return stats
}
