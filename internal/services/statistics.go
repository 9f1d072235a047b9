package services

import (
	"context"
	"math"
	"net/url"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
)

type StatisticsService struct {
	store    *store.Store
	upstream *upstream.Client
}

func NewStatisticsService(st *store.Store, up *upstream.Client) *StatisticsService {
	return &StatisticsService{store: st, upstream: up}
}

type StatisticsRequest struct {
	Period string `form:"period" binding:"omitempty,oneof=day week month year"`
}

// periodStart returns the beginning of the window ending at now.
func periodStart(now time.Time, period string) time.Time {
	switch period {
	case "day":
		return now.AddDate(0, 0, -1)
	case "month":
		return now.AddDate(0, -1, 0)
	case "quarter":
		return now.AddDate(0, -3, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

func (s *StatisticsService) Get(ctx context.Context, req *StatisticsRequest) models.Statistics {
	period := req.Period
	if period == "" {
		period = "week"
	}
	return upstream.Fetch[models.Statistics](ctx, s.upstream, "statistics.get", "/admin/statistics", url.Values{"period": {period}}).
		OrElse(func() models.Statistics { return s.compute(period) })
}

func (s *StatisticsService) compute(period string) models.Statistics {
	now := s.store.Now()
	from := periodStart(now, period)
	inPeriod := func(t time.Time) bool { return within(t, from, time.Time{}) }

	stats := models.Statistics{
		Period:      period,
		StartDate:   from.Format(time.DateOnly),
		EndDate:     now.Format(time.DateOnly),
		GeneratedAt: now.Format(time.RFC3339),
		Users:       models.UserStatistics{ByRole: map[string]int{}},
		Bids:        models.BidStatistics{ByStatus: map[string]int{}, ByCategory: map[string]int{}},
	}

	for _, u := range s.store.Users.List() {
		stats.Users.Total++
		stats.Users.ByRole[u.Role]++
		if u.IsActive {
			stats.Users.Active++
		}
		if inPeriod(u.CreatedAt) {
			stats.Users.New++
		}
	}

	for _, b := range s.store.Bids.List() {
		stats.Bids.Total++
		stats.Bids.ByStatus[b.Status]++
		stats.Bids.ByCategory[b.Category]++
		if inPeriod(b.CreatedAt) {
			stats.Bids.New++
		}
	}

	for _, l := range s.store.FetchLogs.List() {
		if !inPeriod(l.StartedAt) {
			continue
		}
		stats.Fetch.Total++
		stats.Fetch.Items += l.ItemsFetched
		switch l.Status {
		case models.FetchStatusSuccess:
			stats.Fetch.Success++
		case models.FetchStatusFailed:
			stats.Fetch.Failed++
		}
	}
	stats.Fetch.SuccessRate = successRate(stats.Fetch.Success, stats.Fetch.Success+stats.Fetch.Failed)

	for _, n := range s.store.Notifications.List() {
		if !inPeriod(n.CreatedAt) {
			continue
		}
		stats.Notifications.Sent++
		if n.Status == models.NotificationUnread {
			stats.Notifications.Unread++
		} else {
			stats.Notifications.Read++
		}
	}

	return stats
}

// successRate is a percentage rounded to one decimal, 0 with no attempts.
func successRate(ok, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(ok) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
