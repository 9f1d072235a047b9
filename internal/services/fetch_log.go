package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
	"github.com/aibizeyes/admin-gateway/pkg/response"
)

// MaxFetchRetries caps manual retries of one crawl.
const MaxFetchRetries = 3

type FetchLogService struct {
	store    *store.Store
	upstream *upstream.Client
	syslog   *SystemLogger
}

func NewFetchLogService(st *store.Store, up *upstream.Client, syslog *SystemLogger) *FetchLogService {
	return &FetchLogService{store: st, upstream: up, syslog: syslog}
}

type FetchLogListRequest struct {
	paging.Request
	Status string `form:"status" binding:"omitempty,oneof=success failed running pending"`
	Source string `form:"source"`
	Search string `form:"search"`
}

var fetchLogSchema = filter.Schema[models.FetchLog]{
	"status": filter.Exactly(func(l models.FetchLog) string { return l.Status }),
	"source": filter.Substring(func(l models.FetchLog) string { return l.Source }),
	"search": filter.AnySubstring(func(l models.FetchLog) []string {
		return []string{l.Source, l.URL, l.ErrorMessage}
	}),
}

func (s *FetchLogService) List(ctx context.Context, req *FetchLogListRequest) paging.PagedResult[models.FetchLog] {
	set := filter.Set{"status": req.Status, "source": req.Source, "search": req.Search}
	return listOrMock(ctx, s.upstream, "fetch_logs.list", "/admin/fetch-logs", set, req.Request, fetchLogSchema, s.store.FetchLogs.List)
}

// Retry re-queues a failed crawl. Only failed crawls below the retry cap
// can be retried.
func (s *FetchLogService) Retry(ctx context.Context, id int64) (models.FetchLog, error) {
	res := upstream.Send[models.FetchLog](ctx, s.upstream, "fetch_logs.retry", upstream.Request{
		Method: http.MethodPost, Path: idPath("/admin/fetch-logs", id) + "/retry",
	})
	return res.OrElseTry(func() (models.FetchLog, error) {
		current, err := s.store.FetchLogs.Get(id)
		if err != nil {
			return models.FetchLog{}, notFound(err, "fetch log")
		}
		if current.Status != models.FetchStatusFailed {
			return models.FetchLog{}, response.NewConflict("only failed fetches can be retried")
		}
		if current.RetryCount >= MaxFetchRetries {
			return models.FetchLog{}, response.NewConflict(fmt.Sprintf("fetch already retried %d times", MaxFetchRetries))
		}

		now := s.store.Now()
		updated, err := s.store.FetchLogs.Update(id, func(l *models.FetchLog) {
			l.Status = models.FetchStatusPending
			l.RetryCount++
			l.ErrorMessage = ""
			l.ItemsFetched = 0
			l.DurationMs = 0
			l.StartedAt = now
			l.FinishedAt = nil
		})
		if err != nil {
			return models.FetchLog{}, notFound(err, "fetch log")
		}

		s.syslog.LogInfo("fetch", "retry",
			fmt.Sprintf("Retry %d/%d queued for %s", updated.RetryCount, MaxFetchRetries, updated.Source),
			nil, "", "", map[string]int64{"fetchLogId": id})
		return updated, nil
	})
}
