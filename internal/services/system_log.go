package services

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
)

// SystemLogger appends operational events to the system log collection so
// they show up on the logs screen.
type SystemLogger struct {
	store *store.Store
}

func NewSystemLogger(st *store.Store) *SystemLogger {
	return &SystemLogger{store: st}
}

func (l *SystemLogger) LogInfo(module, action, message string, userID *int64, ip, userAgent string, extra interface{}) {
	l.write(models.LogLevelInfo, module, action, message, userID, ip, userAgent, extra)
}

func (l *SystemLogger) LogWarning(module, action, message string, userID *int64, ip, userAgent string, extra interface{}) {
	l.write(models.LogLevelWarning, module, action, message, userID, ip, userAgent, extra)
}

func (l *SystemLogger) LogError(module, action, message string, userID *int64, ip, userAgent string, extra interface{}) {
	l.write(models.LogLevelError, module, action, message, userID, ip, userAgent, extra)
}

func (l *SystemLogger) write(level, module, action, message string, userID *int64, ip, userAgent string, extra interface{}) {
	if l == nil || l.store == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	l.store.SystemLogs.Create(models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
	})
}

type SystemLogService struct {
	store    *store.Store
	upstream *upstream.Client
}

func NewSystemLogService(st *store.Store, up *upstream.Client) *SystemLogService {
	return &SystemLogService{store: st, upstream: up}
}

type SystemLogListRequest struct {
	paging.Request
	Level     string `form:"level"`
	Module    string `form:"module"`
	Action    string `form:"action"`
	Search    string `form:"search"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

var systemLogSchema = filter.Schema[models.SystemLog]{
	"level":  filter.Exactly(func(l models.SystemLog) string { return l.Level }),
	"module": filter.Exactly(func(l models.SystemLog) string { return l.Module }),
	"action": filter.Substring(func(l models.SystemLog) string { return l.Action }),
	"search": filter.AnySubstring(func(l models.SystemLog) []string {
		return []string{l.Message, l.Module, l.Action}
	}),
}

func (s *SystemLogService) List(ctx context.Context, req *SystemLogListRequest) paging.PagedResult[models.SystemLog] {
	set := filter.Set{
		"level":     req.Level,
		"module":    req.Module,
		"action":    req.Action,
		"search":    req.Search,
		"startDate": req.StartDate,
		"endDate":   req.EndDate,
	}
	from, to := dateRange(req.StartDate, req.EndDate, s.store.Now().Location())

	return listOrMock(ctx, s.upstream, "logs.list", "/admin/logs", set, req.Request, systemLogSchema,
		func() []models.SystemLog {
			return s.store.SystemLogs.Filter(func(l models.SystemLog) bool {
				return within(l.CreatedAt, from, to)
			})
		})
}

// Modules lists the distinct modules present in the log.
func (s *SystemLogService) Modules(ctx context.Context) []string {
	return upstream.Fetch[[]string](ctx, s.upstream, "logs.modules", "/admin/logs/modules", nil).
		OrElse(func() []string {
			var modules []string
			for _, l := range s.store.SystemLogs.List() {
				if !slices.Contains(modules, l.Module) {
					modules = append(modules, l.Module)
				}
			}
			slices.Sort(modules)
			return modules
		})
}

// CleanupOldLogs deletes logs older than the specified number of days
// Returns the number of deleted records
func (s *SystemLogService) CleanupOldLogs(retentionDays int) int {
	if retentionDays <= 0 {
		return 0
	}
	cutoff := s.store.Now().AddDate(0, 0, -retentionDays)
	return s.store.SystemLogs.DeleteWhere(func(l models.SystemLog) bool {
		return l.CreatedAt.Before(cutoff)
	})
}

// RetentionDays is the audit retention setting, which also bounds the
// system log.
func (s *SystemLogService) RetentionDays() int {
	return s.store.AuditSettings().RetentionDays
}

// RunCleanup applies the retention setting and reports what it removed.
func (s *SystemLogService) RunCleanup() {
	retentionDays := s.RetentionDays()
	if retentionDays <= 0 {
		logger.Infof("[SystemLog] Log cleanup disabled (retention_days <= 0)")
		return
	}

	deleted := s.CleanupOldLogs(retentionDays)
	cutoff := s.store.Now().AddDate(0, 0, -retentionDays)
	deleted += s.store.AuditLogs.DeleteWhere(func(a models.AuditLog) bool {
		return a.CreatedAt.Before(cutoff)
	})

	if deleted > 0 {
		logger.Infof("[SystemLog] Cleaned up %d records older than %d days", deleted, retentionDays)
	}
}

// StartLogCleanup registers the daily retention job on sched and runs it once
// immediately.
func StartLogCleanup(sched *Scheduler, svc *SystemLogService) error {
	svc.RunCleanup()
	return sched.Add("log-cleanup", "30 2 * * *", svc.RunCleanup)
}
