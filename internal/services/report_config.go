package services

import (
	"context"
	"net/http"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
)

type ReportConfigService struct {
	store    *store.Store
	upstream *upstream.Client
	syslog   *SystemLogger
}

func NewReportConfigService(st *store.Store, up *upstream.Client, syslog *SystemLogger) *ReportConfigService {
	return &ReportConfigService{store: st, upstream: up, syslog: syslog}
}

const reportConfigPath = "/admin/report-configs"

func (s *ReportConfigService) List(ctx context.Context) []models.ReportConfig {
	return upstream.Fetch[[]models.ReportConfig](ctx, s.upstream, "report_configs.list", reportConfigPath, nil).
		OrElse(s.store.ReportConfigs.List)
}

func (s *ReportConfigService) Get(ctx context.Context, id int64) (models.ReportConfig, error) {
	res := upstream.Fetch[models.ReportConfig](ctx, s.upstream, "report_configs.get", idPath(reportConfigPath, id), nil)
	return res.OrElseTry(func() (models.ReportConfig, error) {
		cfg, err := s.store.ReportConfigs.Get(id)
		return cfg, notFound(err, "report config")
	})
}

func (s *ReportConfigService) Create(ctx context.Context, req *models.CreateReportConfigRequest) models.ReportConfig {
	res := upstream.Send[models.ReportConfig](ctx, s.upstream, "report_configs.create", upstream.Request{
		Method: http.MethodPost, Path: reportConfigPath, Body: req,
	})
	return res.OrElse(func() models.ReportConfig {
		cfg := models.ReportConfig{
			Name:       req.Name,
			ReportType: req.ReportType,
			Schedule:   req.Schedule,
			Format:     req.Format,
			Recipients: nonNilStrings(req.Recipients),
			IsActive:   true,
		}
		if cfg.Format == "" {
			cfg.Format = "pdf"
		}
		if req.IsActive != nil {
			cfg.IsActive = *req.IsActive
		}
		created := s.store.ReportConfigs.Create(cfg)
		s.syslog.LogInfo("report", "config_create", "Report config "+created.Name+" created", nil, "", "", nil)
		return created
	})
}

func (s *ReportConfigService) Update(ctx context.Context, id int64, patch *models.ReportConfigPatch) (models.ReportConfig, error) {
	res := upstream.Send[models.ReportConfig](ctx, s.upstream, "report_configs.update", upstream.Request{
		Method: http.MethodPut, Path: idPath(reportConfigPath, id), Body: patch,
	})
	return res.OrElseTry(func() (models.ReportConfig, error) {
		updated, err := s.store.ReportConfigs.Update(id, func(c *models.ReportConfig) { patch.Apply(c) })
		return updated, notFound(err, "report config")
	})
}

func (s *ReportConfigService) Delete(ctx context.Context, id int64) {
	upstream.Send[struct{}](ctx, s.upstream, "report_configs.delete", upstream.Request{
		Method: http.MethodDelete, Path: idPath(reportConfigPath, id),
	}).OrElse(func() struct{} {
		s.store.ReportConfigs.Delete(id)
		return struct{}{}
	})
}

// DueConfigs returns the active configs whose schedule fired since they
// last generated a report (or since creation) and at or before now.
func (s *ReportConfigService) DueConfigs(now time.Time) []models.ReportConfig {
	var due []models.ReportConfig
	for _, cfg := range s.store.ReportConfigs.List() {
		if !cfg.IsActive {
			continue
		}
		schedule, err := ParseCronSpec(cfg.Schedule)
		if err != nil {
			logger.Warn().Int64("reportConfigId", cfg.ID).Str("schedule", cfg.Schedule).Err(err).Msg("skipping report config with invalid schedule")
			continue
		}
		last := cfg.CreatedAt
		if cfg.LastGeneratedAt != nil {
			last = *cfg.LastGeneratedAt
		}
		if next := schedule.Next(last); !next.After(now) {
			due = append(due, cfg)
		}
	}
	return due
}

// LatestFiring is the most recent firing of cfg's schedule at or before
// now, or false when the schedule has not fired since cfg last generated.
// Every instance derives the same firing from the same schedule.
func (s *ReportConfigService) LatestFiring(cfg models.ReportConfig, now time.Time) (time.Time, bool) {
	schedule, err := ParseCronSpec(cfg.Schedule)
	if err != nil {
		return time.Time{}, false
	}
	last := cfg.CreatedAt
	if cfg.LastGeneratedAt != nil {
		last = *cfg.LastGeneratedAt
	}
	fired := schedule.Next(last)
	if fired.IsZero() || fired.After(now) {
		return time.Time{}, false
	}
	for {
		next := schedule.Next(fired)
		if next.IsZero() || next.After(now) {
			return fired, true
		}
		fired = next
	}
}

// MarkGenerated records that cfg produced a report at t.
func (s *ReportConfigService) MarkGenerated(id int64, t time.Time) {
	_, _ = s.store.ReportConfigs.Update(id, func(c *models.ReportConfig) { c.LastGeneratedAt = &t })
}
