package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/response"
)

type SystemConfigService struct {
	store    *store.Store
	upstream *upstream.Client
	syslog   *SystemLogger
}

func NewSystemConfigService(st *store.Store, up *upstream.Client, syslog *SystemLogger) *SystemConfigService {
	return &SystemConfigService{store: st, upstream: up, syslog: syslog}
}

type SystemConfigListRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

var systemConfigSchema = filter.Schema[models.SystemConfig]{
	"category": filter.Exactly(func(c models.SystemConfig) string { return c.Category }),
	"search": filter.AnySubstring(func(c models.SystemConfig) []string {
		return []string{c.Key, c.Description}
	}),
}

func (s *SystemConfigService) List(ctx context.Context, req *SystemConfigListRequest) []models.SystemConfig {
	set := filter.Set{"category": req.Category, "search": req.Search}
	query := url.Values{}
	for k, v := range set.Active() {
		query.Set(k, v)
	}
	return upstream.Fetch[[]models.SystemConfig](ctx, s.upstream, "system_configs.list", "/admin/system-configs", query).
		OrElse(func() []models.SystemConfig {
			return systemConfigSchema.Apply(s.store.SystemConfigs.List(), set)
		})
}

func (s *SystemConfigService) Get(ctx context.Context, id int64) (models.SystemConfig, error) {
	res := upstream.Fetch[models.SystemConfig](ctx, s.upstream, "system_configs.get", idPath("/admin/system-configs", id), nil)
	return res.OrElseTry(func() (models.SystemConfig, error) {
		cfg, err := s.store.SystemConfigs.Get(id)
		return cfg, notFound(err, "system config")
	})
}

// GetWithDefault reads a config value by key from the mock collection.
func (s *SystemConfigService) GetWithDefault(key, defaultValue string) string {
	for _, c := range s.store.SystemConfigs.List() {
		if c.Key == key {
			return c.Value
		}
	}
	return defaultValue
}

// IntWithDefault is GetWithDefault for int configs. A value that does not
// parse yields defaultValue.
func (s *SystemConfigService) IntWithDefault(key string, defaultValue int) int {
	n, err := strconv.Atoi(s.GetWithDefault(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}

// Update changes the value or description of an editable config. The new
// value must parse as the config's value type.
func (s *SystemConfigService) Update(ctx context.Context, id int64, patch *models.SystemConfigPatch) (models.SystemConfig, error) {
	res := upstream.Send[models.SystemConfig](ctx, s.upstream, "system_configs.update", upstream.Request{
		Method: http.MethodPut, Path: idPath("/admin/system-configs", id), Body: patch,
	})
	return res.OrElseTry(func() (models.SystemConfig, error) {
		current, err := s.store.SystemConfigs.Get(id)
		if err != nil {
			return models.SystemConfig{}, notFound(err, "system config")
		}
		if !current.IsEditable {
			return models.SystemConfig{}, response.NewForbidden(fmt.Sprintf("config %s is read-only", current.Key))
		}
		if patch.Value != nil {
			if err := ValidateConfigValue(current.ValueType, *patch.Value); err != nil {
				return models.SystemConfig{}, response.NewBadRequest(fmt.Sprintf("invalid value for %s: %v", current.Key, err))
			}
		}

		updated, err := s.store.SystemConfigs.Update(id, func(c *models.SystemConfig) { patch.Apply(c) })
		if err != nil {
			return models.SystemConfig{}, notFound(err, "system config")
		}
		s.syslog.LogInfo("system", "config", fmt.Sprintf("%s changed", updated.Key), nil, "", "",
			map[string]string{"from": current.Value, "to": updated.Value})
		return updated, nil
	})
}

// ValidateConfigValue checks value against a config value type.
func ValidateConfigValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("expected an integer")
		}
	case "bool":
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("expected true or false")
		}
	case "json":
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("expected valid JSON")
		}
	}
	return nil
}
