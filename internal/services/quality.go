package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
)

// QualityService backs the data-quality screen: metrics, the audit trail
// and its settings.
type QualityService struct {
	store    *store.Store
	upstream *upstream.Client
}

func NewQualityService(st *store.Store, up *upstream.Client) *QualityService {
	return &QualityService{store: st, upstream: up}
}

type AuditLogListRequest struct {
	paging.Request
	Action    string `form:"action"`
	Severity  string `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	Status    string `form:"status" binding:"omitempty,oneof=success failure"`
	Resource  string `form:"resource"`
	Search    string `form:"search"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r *AuditLogListRequest) filters() filter.Set {
	return filter.Set{
		"action":    r.Action,
		"severity":  r.Severity,
		"status":    r.Status,
		"resource":  r.Resource,
		"search":    r.Search,
		"startDate": r.StartDate,
		"endDate":   r.EndDate,
	}
}

var auditLogSchema = filter.Schema[models.AuditLog]{
	"action":   filter.Substring(func(a models.AuditLog) string { return a.Action }),
	"severity": filter.Exactly(func(a models.AuditLog) string { return a.Severity }),
	"status":   filter.Exactly(func(a models.AuditLog) string { return a.Status }),
	"resource": filter.Exactly(func(a models.AuditLog) string { return a.Resource }),
	"search": filter.AnySubstring(func(a models.AuditLog) []string {
		return []string{a.Username, a.Action, a.Resource, a.Details}
	}),
}

func (s *QualityService) auditSource(req *AuditLogListRequest) func() []models.AuditLog {
	from, to := dateRange(req.StartDate, req.EndDate, s.store.Now().Location())
	return func() []models.AuditLog {
		return s.store.AuditLogs.Filter(func(a models.AuditLog) bool { return within(a.CreatedAt, from, to) })
	}
}

func (s *QualityService) AuditLogs(ctx context.Context, req *AuditLogListRequest) paging.PagedResult[models.AuditLog] {
	return listOrMock(ctx, s.upstream, "quality.audit_logs", "/admin/quality/audit-logs",
		req.filters(), req.Request, auditLogSchema, s.auditSource(req))
}

// ExportAuditLogs renders every audit entry matching req as CSV.
func (s *QualityService) ExportAuditLogs(ctx context.Context, req *AuditLogListRequest) upstream.Binary {
	query := url.Values{}
	for k, v := range req.filters().Active() {
		query.Set(k, v)
	}
	return upstream.FetchBinary(ctx, s.upstream, "quality.export_audit_logs", "/admin/quality/export-audit-logs", query).
		OrElse(func() upstream.Binary {
			entries := auditLogSchema.Apply(s.auditSource(req)(), req.filters())
			return upstream.Binary{
				Data:        auditCSV(entries),
				ContentType: "text/csv; charset=utf-8",
				Filename:    fmt.Sprintf("audit-logs-%s.csv", s.store.Now().Format("20060102")),
			}
		})
}

func auditCSV(entries []models.AuditLog) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "createdAt", "username", "action", "resource", "resourceId", "severity", "status", "ip", "details"})
	for _, a := range entries {
		_ = w.Write(csvSafeRow([]string{
			strconv.FormatInt(a.ID, 10),
			a.CreatedAt.Format(time.RFC3339),
			a.Username,
			a.Action,
			a.Resource,
			a.ResourceID,
			a.Severity,
			a.Status,
			a.IP,
			a.Details,
		}))
	}
	w.Flush()
	return buf.Bytes()
}

func (s *QualityService) Metrics(ctx context.Context) models.QualityMetrics {
	return upstream.Fetch[models.QualityMetrics](ctx, s.upstream, "quality.metrics", "/admin/quality/metrics", nil).
		OrElse(s.computeMetrics)
}

// computeMetrics derives the four quality dimensions from the mock data:
// completeness of bid records, crawl success (accuracy), sources crawled
// successfully in the last day (timeliness) and successful audited actions
// (consistency).
func (s *QualityService) computeMetrics() models.QualityMetrics {
	now := s.store.Now()
	bids := s.store.Bids.List()
	fetches := s.store.FetchLogs.List()
	audits := s.store.AuditLogs.List()

	complete := 0
	for _, b := range bids {
		if b.Title != "" && b.Category != "" && b.Region != "" && b.Source != "" && b.Budget > 0 {
			complete++
		}
	}

	var okFetches, failedFetches int
	sources := map[string]bool{}
	fresh := map[string]bool{}
	for _, f := range fetches {
		sources[f.Source] = true
		switch f.Status {
		case models.FetchStatusSuccess:
			okFetches++
			if now.Sub(f.StartedAt) <= 24*time.Hour {
				fresh[f.Source] = true
			}
		case models.FetchStatusFailed:
			failedFetches++
		}
	}

	failedAudits := 0
	for _, a := range audits {
		if a.Status == models.AuditStatusFailure {
			failedAudits++
		}
	}

	m := models.QualityMetrics{
		Completeness:  ratio(complete, len(bids)),
		Accuracy:      ratio(okFetches, okFetches+failedFetches),
		Timeliness:    ratio(len(fresh), len(sources)),
		Consistency:   ratio(len(audits)-failedAudits, len(audits)),
		TotalRecords:  len(bids),
		IssuesFound:   failedFetches + failedAudits,
		LastCheckedAt: now.Format(time.RFC3339),
	}
	m.OverallScore = round1((m.Completeness + m.Accuracy + m.Timeliness + m.Consistency) / 4)
	return m
}

// ratio is a percentage rounded to one decimal; an empty population
// scores 100.
func ratio(ok, total int) float64 {
	if total == 0 {
		return 100
	}
	return round1(float64(ok) * 100 / float64(total))
}

type QualityReportRequest struct {
	Period string `form:"period" binding:"omitempty,oneof=day week month quarter year"`
}

func (s *QualityService) Report(ctx context.Context, req *QualityReportRequest) models.QualityReport {
	period := req.Period
	if period == "" {
		period = "week"
	}
	return upstream.Fetch[models.QualityReport](ctx, s.upstream, "quality.report", "/admin/quality/report", url.Values{"period": {period}}).
		OrElse(func() models.QualityReport { return s.computeReport(period) })
}

func (s *QualityService) computeReport(period string) models.QualityReport {
	now := s.store.Now()
	from := periodStart(now, period)
	metrics := s.computeMetrics()

	report := models.QualityReport{
		Period:           period,
		StartDate:        from.Format(time.DateOnly),
		EndDate:          now.Format(time.DateOnly),
		Metrics:          metrics,
		AuditsBySeverity: map[string]int{},
		Trend:            []models.QualityTrendPoint{},
		Recommendations:  []string{},
	}

	for _, a := range s.store.AuditLogs.List() {
		if !within(a.CreatedAt, from, time.Time{}) {
			continue
		}
		report.AuditsBySeverity[a.Severity]++
		if a.Status == models.AuditStatusFailure {
			report.FailedActions++
		}
	}

	report.Trend = s.trend(from, now, metrics.Accuracy)

	if metrics.Accuracy < 90 {
		report.Recommendations = append(report.Recommendations, "Investigate failing crawl sources; accuracy is below 90%.")
	}
	if metrics.Timeliness < 100 {
		report.Recommendations = append(report.Recommendations, "Some sources have not been crawled successfully in the last 24 hours.")
	}
	if metrics.Completeness < 95 {
		report.Recommendations = append(report.Recommendations, "Backfill missing bid fields to improve completeness.")
	}
	if report.AuditsBySeverity[models.SeverityCritical] > 0 {
		report.Recommendations = append(report.Recommendations, "Review critical audit events for this period.")
	}
	return report
}

// trend is the daily crawl success rate from from to now, at most 31 points.
// Days without terminal crawls carry the previous value forward.
func (s *QualityService) trend(from, now time.Time, baseline float64) []models.QualityTrendPoint {
	type tally struct{ ok, total int }
	days := map[string]*tally{}
	for _, f := range s.store.FetchLogs.List() {
		if f.Status != models.FetchStatusSuccess && f.Status != models.FetchStatusFailed {
			continue
		}
		key := f.StartedAt.Format(time.DateOnly)
		t, ok := days[key]
		if !ok {
			t = &tally{}
			days[key] = t
		}
		t.total++
		if f.Status == models.FetchStatusSuccess {
			t.ok++
		}
	}

	start := from
	if now.Sub(start) > 30*24*time.Hour {
		start = now.AddDate(0, 0, -30)
	}

	var points []models.QualityTrendPoint
	score := baseline
	for d := start; !d.After(now); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		if t, ok := days[key]; ok {
			score = ratio(t.ok, t.total)
		}
		points = append(points, models.QualityTrendPoint{Date: key, Score: score})
	}
	return points
}

func (s *QualityService) AuditSettings(ctx context.Context) models.AuditSettings {
	return upstream.Fetch[models.AuditSettings](ctx, s.upstream, "quality.audit_settings", "/admin/quality/audit-settings", nil).
		OrElse(s.store.AuditSettings)
}

func (s *QualityService) UpdateAuditSettings(ctx context.Context, patch *models.AuditSettingsPatch) models.AuditSettings {
	res := upstream.Send[models.AuditSettings](ctx, s.upstream, "quality.update_audit_settings", upstream.Request{
		Method: http.MethodPut, Path: "/admin/quality/audit-settings", Body: patch,
	})
	return res.OrElse(func() models.AuditSettings {
		return s.store.UpdateAuditSettings(patch)
	})
}

// Record appends entry to the audit trail unless auditing is disabled or
// the action is excluded. It reports whether the entry was kept.
func (s *QualityService) Record(entry models.AuditLog) bool {
	settings := s.store.AuditSettings()
	if !settings.Enabled || slices.Contains(settings.ExcludedActions, entry.Action) {
		return false
	}
	s.store.AuditLogs.Create(entry)
	return true
}
