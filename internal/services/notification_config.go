package services

import (
	"context"
	"net/http"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
)

type NotificationConfigService struct {
	store    *store.Store
	upstream *upstream.Client
	syslog   *SystemLogger
}

func NewNotificationConfigService(st *store.Store, up *upstream.Client, syslog *SystemLogger) *NotificationConfigService {
	return &NotificationConfigService{store: st, upstream: up, syslog: syslog}
}

const notificationConfigPath = "/admin/notification-configs"

func (s *NotificationConfigService) List(ctx context.Context) []models.NotificationConfig {
	return upstream.Fetch[[]models.NotificationConfig](ctx, s.upstream, "notification_configs.list", notificationConfigPath, nil).
		OrElse(s.store.NotificationConfigs.List)
}

func (s *NotificationConfigService) Get(ctx context.Context, id int64) (models.NotificationConfig, error) {
	res := upstream.Fetch[models.NotificationConfig](ctx, s.upstream, "notification_configs.get", idPath(notificationConfigPath, id), nil)
	return res.OrElseTry(func() (models.NotificationConfig, error) {
		cfg, err := s.store.NotificationConfigs.Get(id)
		return cfg, notFound(err, "notification config")
	})
}

func (s *NotificationConfigService) Create(ctx context.Context, req *models.CreateNotificationConfigRequest) models.NotificationConfig {
	res := upstream.Send[models.NotificationConfig](ctx, s.upstream, "notification_configs.create", upstream.Request{
		Method: http.MethodPost, Path: notificationConfigPath, Body: req,
	})
	return res.OrElse(func() models.NotificationConfig {
		cfg := models.NotificationConfig{
			Name:       req.Name,
			Channel:    req.Channel,
			Events:     nonNilStrings(req.Events),
			Recipients: nonNilStrings(req.Recipients),
			Template:   req.Template,
			IsActive:   true,
		}
		if req.IsActive != nil {
			cfg.IsActive = *req.IsActive
		}
		created := s.store.NotificationConfigs.Create(cfg)
		s.syslog.LogInfo("notification", "config_create", "Notification config "+created.Name+" created", nil, "", "", nil)
		return created
	})
}

func (s *NotificationConfigService) Update(ctx context.Context, id int64, patch *models.NotificationConfigPatch) (models.NotificationConfig, error) {
	res := upstream.Send[models.NotificationConfig](ctx, s.upstream, "notification_configs.update", upstream.Request{
		Method: http.MethodPut, Path: idPath(notificationConfigPath, id), Body: patch,
	})
	return res.OrElseTry(func() (models.NotificationConfig, error) {
		updated, err := s.store.NotificationConfigs.Update(id, func(c *models.NotificationConfig) { patch.Apply(c) })
		return updated, notFound(err, "notification config")
	})
}

func (s *NotificationConfigService) Delete(ctx context.Context, id int64) {
	upstream.Send[struct{}](ctx, s.upstream, "notification_configs.delete", upstream.Request{
		Method: http.MethodDelete, Path: idPath(notificationConfigPath, id),
	}).OrElse(func() struct{} {
		s.store.NotificationConfigs.Delete(id)
		return struct{}{}
	})
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
