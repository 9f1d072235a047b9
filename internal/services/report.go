package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var reportContentTypes = map[string]string{
	"pdf":   "application/pdf",
	"excel": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":   "text/csv; charset=utf-8",
}

var reportExtensions = map[string]string{
	"pdf":   "pdf",
	"excel": "xlsx",
	"csv":   "csv",
}

// ReportService owns generated reports: listing, generation through the
// task queue, and rendering on download.
type ReportService struct {
	store    *store.Store
	upstream *upstream.Client
	queue    TaskQueue
	configs  *ReportConfigService
	locks    *SchedulerLocks
	events   *ReportEventHub
	syslog   *SystemLogger
}

func NewReportService(st *store.Store, up *upstream.Client, queue TaskQueue, configs *ReportConfigService, locks *SchedulerLocks, events *ReportEventHub, syslog *SystemLogger) *ReportService {
	return &ReportService{store: st, upstream: up, queue: queue, configs: configs, locks: locks, events: events, syslog: syslog}
}

func (s *ReportService) publish(r models.Report) {
	s.events.Publish(ReportEvent{ID: r.ID, Title: r.Title, Status: r.Status, FileSize: r.FileSize, Error: r.ErrorMessage})
}

type ReportListRequest struct {
	paging.Request
	ReportType string `form:"reportType" binding:"omitempty,oneof=bid_analysis market_trend competitor performance"`
	Status     string `form:"status" binding:"omitempty,oneof=pending generating completed failed"`
	Search     string `form:"search"`
}

var reportSchema = filter.Schema[models.Report]{
	"reportType": filter.Exactly(func(r models.Report) string { return r.ReportType }),
	"status":     filter.Exactly(func(r models.Report) string { return r.Status }),
	"search": filter.AnySubstring(func(r models.Report) []string {
		return []string{r.Title, r.GeneratedBy}
	}),
}

func (s *ReportService) List(ctx context.Context, req *ReportListRequest) paging.PagedResult[models.Report] {
	set := filter.Set{"reportType": req.ReportType, "status": req.Status, "search": req.Search}
	return listOrMock(ctx, s.upstream, "reports.list", "/reports", set, req.Request, reportSchema, s.store.Reports.List)
}

// Generate records a pending report and queues its rendering.
func (s *ReportService) Generate(ctx context.Context, req *models.GenerateReportRequest, generatedBy string) (models.Report, error) {
	if req.Period == "custom" && (req.StartDate == "" || req.EndDate == "") {
		return models.Report{}, response.NewBadRequest("custom period requires startDate and endDate")
	}
	if req.StartDate != "" && req.EndDate != "" && req.EndDate < req.StartDate {
		return models.Report{}, response.NewBadRequest("endDate is before startDate")
	}

	res := upstream.Send[models.Report](ctx, s.upstream, "reports.generate", upstream.Request{
		Method: http.MethodPost, Path: "/reports/generate", Body: req,
	})
	return res.OrElse(func() models.Report {
		format := req.Format
		if format == "" {
			format = "pdf"
		}
		period := req.Period
		if period == "" {
			period = "week"
		}
		return s.enqueue(models.Report{
			Title:       req.Title,
			ReportType:  req.ReportType,
			Status:      models.ReportStatusPending,
			Format:      format,
			Period:      period,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			GeneratedBy: generatedBy,
		}, nil)
	}), nil
}

func (s *ReportService) enqueue(report models.Report, configID *int64) models.Report {
	created := s.store.Reports.Create(report)
	s.publish(created)
	task := &ReportTask{ReportID: created.ID, ReportConfigID: configID, RequestID: uuid.NewString()}

	if err := s.queue.Enqueue(task); err != nil {
		logger.Error().Err(err).Int64("reportId", created.ID).Msg("failed to enqueue report")
		failed, _ := s.finish(created.ID, 0, err)
		return failed
	}
	return created
}

// Process renders the report once to size it and moves it through
// generating to completed or failed.
func (s *ReportService) Process(ctx context.Context, task *ReportTask) error {
	report, err := s.store.Reports.Update(task.ReportID, func(r *models.Report) {
		r.Status = models.ReportStatusGenerating
	})
	if err != nil {
		logger.Warn().Int64("reportId", task.ReportID).Msg("report vanished before generation")
		return nil
	}
	s.publish(report)

	data, _, renderErr := s.render(report, report.Format)
	if renderErr == nil && ctx.Err() != nil {
		renderErr = ctx.Err()
	}
	if _, err := s.finish(report.ID, int64(len(data)), renderErr); err != nil {
		return nil
	}
	return renderErr
}

func (s *ReportService) finish(id int64, size int64, genErr error) (models.Report, error) {
	now := s.store.Now()
	updated, err := s.store.Reports.Update(id, func(r *models.Report) {
		r.CompletedAt = &now
		if genErr != nil {
			r.Status = models.ReportStatusFailed
			r.ErrorMessage = genErr.Error()
			return
		}
		r.Status = models.ReportStatusCompleted
		r.FileSize = size
		r.ErrorMessage = ""
	})
	if err != nil {
		return updated, err
	}
	s.publish(updated)

	if genErr != nil {
		s.syslog.LogError("report", "generate", "Report "+updated.Title+" failed: "+genErr.Error(), nil, "", "", nil)
	} else {
		logger.Infof("[Report] Report %d generated (%d bytes)", id, size)
		s.syslog.LogInfo("report", "generate", "Report "+updated.Title+" generated", nil, "", "",
			map[string]interface{}{"reportId": id, "format": updated.Format, "fileSize": size})
	}
	return updated, nil
}

type ReportDownloadRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=pdf excel csv"`
}

// Download renders a completed report in the requested format, defaulting
// to the format it was generated in.
func (s *ReportService) Download(ctx context.Context, id int64, req *ReportDownloadRequest) (upstream.Binary, error) {
	query := url.Values{}
	if req.Format != "" {
		query.Set("format", req.Format)
	}
	res := upstream.FetchBinary(ctx, s.upstream, "reports.download", idPath("/reports", id)+"/download", query)
	return res.OrElseTry(func() (upstream.Binary, error) {
		report, err := s.store.Reports.Get(id)
		if err != nil {
			return upstream.Binary{}, notFound(err, "report")
		}
		if report.Status != models.ReportStatusCompleted {
			return upstream.Binary{}, response.NewConflict("report is " + report.Status)
		}
		format := req.Format
		if format == "" {
			format = report.Format
		}
		data, contentType, err := s.render(report, format)
		if err != nil {
			return upstream.Binary{}, err
		}
		return upstream.Binary{
			Data:        data,
			ContentType: contentType,
			Filename:    fmt.Sprintf("report-%d.%s", report.ID, reportExtensions[format]),
		}, nil
	})
}

// table is the tabular body shared by every output format.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func (s *ReportService) render(report models.Report, format string) ([]byte, string, error) {
	t := s.buildTable(report)
	var (
		data []byte
		err  error
	)
	switch format {
	case "pdf":
		data, err = renderPDF(t)
	case "excel":
		data, err = renderExcel(t)
	case "csv":
		data, err = renderCSV(t)
	default:
		return nil, "", response.NewBadRequest("unsupported report format " + format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("render %s report: %w", format, err)
	}
	return data, reportContentTypes[format], nil
}

// reportWindow resolves the report's date range; without explicit dates it
// is the period ending when the report was requested.
func reportWindow(r models.Report) (time.Time, time.Time) {
	from, to := dateRange(r.StartDate, r.EndDate, r.CreatedAt.Location())
	if from.IsZero() {
		from = periodStart(r.CreatedAt, r.Period)
	}
	if to.IsZero() {
		to = r.CreatedAt.Add(time.Millisecond)
	}
	return from, to
}

func (s *ReportService) buildTable(r models.Report) table {
	from, to := reportWindow(r)
	t := table{title: fmt.Sprintf("%s (%s to %s)", r.Title, from.Format(time.DateOnly), to.Add(-time.Millisecond).Format(time.DateOnly))}

	switch r.ReportType {
	case "market_trend", "competitor":
		key := func(b models.Bid) string { return b.Category }
		label := "Category"
		if r.ReportType == "competitor" {
			key = func(b models.Bid) string { return b.Source }
			label = "Source"
		}
		type agg struct {
			count  int
			budget float64
		}
		groups := map[string]*agg{}
		for _, b := range s.store.Bids.List() {
			if !within(b.CreatedAt, from, to) {
				continue
			}
			g, ok := groups[key(b)]
			if !ok {
				g = &agg{}
				groups[key(b)] = g
			}
			g.count++
			g.budget += b.Budget
		}
		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)
		t.headers = []string{label, "Bids", "Total budget"}
		for _, name := range names {
			g := groups[name]
			t.rows = append(t.rows, []string{name, strconv.Itoa(g.count), strconv.FormatFloat(g.budget, 'f', 2, 64)})
		}

	case "performance":
		type agg struct{ ok, failed, items int }
		groups := map[string]*agg{}
		for _, f := range s.store.FetchLogs.List() {
			if !within(f.StartedAt, from, to) {
				continue
			}
			g, ok := groups[f.Source]
			if !ok {
				g = &agg{}
				groups[f.Source] = g
			}
			switch f.Status {
			case models.FetchStatusSuccess:
				g.ok++
				g.items += f.ItemsFetched
			case models.FetchStatusFailed:
				g.failed++
			}
		}
		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)
		t.headers = []string{"Source", "Successful", "Failed", "Items", "Success rate"}
		for _, name := range names {
			g := groups[name]
			t.rows = append(t.rows, []string{
				name, strconv.Itoa(g.ok), strconv.Itoa(g.failed), strconv.Itoa(g.items),
				strconv.FormatFloat(successRate(g.ok, g.ok+g.failed), 'f', 1, 64) + "%",
			})
		}

	default:
		t.headers = []string{"ID", "Title", "Category", "Region", "Status", "Budget", "Deadline"}
		for _, b := range s.store.Bids.List() {
			if !within(b.CreatedAt, from, to) {
				continue
			}
			t.rows = append(t.rows, []string{
				strconv.FormatInt(b.ID, 10), b.Title, b.Category, b.Region, b.Status,
				strconv.FormatFloat(b.Budget, 'f', 2, 64), b.Deadline.Format(time.DateOnly),
			})
		}
	}
	return t
}

func renderCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.headers); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if err := w.Write(csvSafeRow(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// csvSafe neutralises cells a spreadsheet would evaluate as a formula by
// prefixing them with a quote. Numbers are left alone.
func csvSafe(v string) string {
	if v == "" || !strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return v
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + v
}

func csvSafeRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = csvSafe(v)
	}
	return out
}

func renderExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, "A1", t.title); err != nil {
		return nil, err
	}
	write := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(sheet, cell, &cells)
	}
	if err := write(3, t.headers); err != nil {
		return nil, err
	}
	for i, row := range t.rows {
		if err := write(i+4, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(t table) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	width := 277.0 / float64(max(len(t.headers), 1))
	pdf.SetFont("Helvetica", "B", 9)
	for _, h := range t.headers {
		pdf.CellFormat(width, 7, tr(h), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range t.rows {
		for _, v := range row {
			pdf.CellFormat(width, 6, tr(truncate(v, 48)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(t.rows) == 0 {
		pdf.CellFormat(0, 7, "No data in this period.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "~"
}

var configPeriods = map[string]string{
	"daily":   "day",
	"weekly":  "week",
	"monthly": "month",
}

// RunDueConfigs queues a report for every report config whose schedule has
// fired. Each firing is claimed once across instances; instances that lose
// the claim still advance the config past it.
func (s *ReportService) RunDueConfigs() {
	now := s.store.Now()

	for _, cfg := range s.configs.DueConfigs(now) {
		fired, due := s.configs.LatestFiring(cfg, now)
		if !due {
			continue
		}
		slot := fired.UTC().Format(time.RFC3339)
		ok, err := s.locks.TryAcquire("report-config:"+strconv.FormatInt(cfg.ID, 10), slot, 24*time.Hour)
		if err != nil {
			logger.Error().Err(err).Int64("reportConfigId", cfg.ID).Msg("[Report] failed to acquire scheduler lock")
			continue
		}
		// Marked before the worker runs so a slow worker does not requeue
		// the same firing.
		s.configs.MarkGenerated(cfg.ID, fired)
		if !ok {
			logger.Debug().Int64("reportConfigId", cfg.ID).Str("slot", slot).Msg("[Report] firing claimed by another instance")
			continue
		}

		period, ok := configPeriods[cfg.ReportType]
		if !ok {
			period = "week"
		}
		id := cfg.ID
		report := s.enqueue(models.Report{
			Title:       fmt.Sprintf("%s %s", cfg.Name, now.Format(time.DateOnly)),
			ReportType:  "bid_analysis",
			Status:      models.ReportStatusPending,
			Format:      cfg.Format,
			Period:      period,
			GeneratedBy: "scheduler",
		}, &id)
		logger.Infof("[Report] Queued report %d for config %s", report.ID, cfg.Name)
	}
}

// StartReportSchedule checks report configs every minute.
func StartReportSchedule(sched *Scheduler, svc *ReportService) error {
	return sched.Add("report-configs", "* * * * *", svc.RunDueConfigs)
}
