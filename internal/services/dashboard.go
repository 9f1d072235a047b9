package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var dashboardCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bizeyes_dashboard_cache_lookups_total",
	Help: "Dashboard cache lookups by result.",
}, []string{"result"})

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 50
	timelineSize         = 10
)

// DashboardService serves the landing screen. Each widget is cached for a
// short TTL and concurrent misses for the same widget share one load.
type DashboardService struct {
	store    *store.Store
	upstream *upstream.Client
	calendar *CalendarService
	country  string
	cache    *expirable.LRU[string, any]
	group    singleflight.Group
}

func NewDashboardService(st *store.Store, up *upstream.Client, cal *CalendarService, cfg config.DashboardConfig) *DashboardService {
	size := cfg.CacheSize
	if size <= 0 {
		size = 64
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardService{
		store:    st,
		upstream: up,
		calendar: cal,
		country:  cfg.Country,
		cache:    expirable.NewLRU[string, any](size, nil, ttl),
	}
}

// cached serves key from the cache or loads it once for all concurrent
// callers. The load outlives any single caller; a fallback caused by a
// cancelled request is served but not cached.
func cached[T any](ctx context.Context, s *DashboardService, key string, load func(context.Context) upstream.Result[T], mock func() T) T {
	if v, ok := s.cache.Get(key); ok {
		if t, ok := v.(T); ok {
			dashboardCacheLookups.WithLabelValues("hit").Inc()
			return t
		}
	}
	dashboardCacheLookups.WithLabelValues("miss").Inc()

	shared := context.WithoutCancel(ctx)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		res := load(shared)
		t := res.OrElse(mock)
		if res.OK() || !errors.Is(res.Err, context.Canceled) {
			s.cache.Add(key, t)
		}
		return t, nil
	})
	return v.(T)
}

func (s *DashboardService) Stats(ctx context.Context) models.DashboardStats {
	return cached(ctx, s, "stats", func(ctx context.Context) upstream.Result[models.DashboardStats] {
		return upstream.Fetch[models.DashboardStats](ctx, s.upstream, "dashboard.stats", "/dashboard/stats", nil)
	}, s.computeStats)
}

func (s *DashboardService) computeStats() models.DashboardStats {
	now := s.store.Now()
	stats := models.DashboardStats{GeneratedAt: now.Format(time.RFC3339)}

	for _, b := range s.store.Bids.List() {
		stats.TotalBids++
		stats.TotalBudget += b.Budget
		switch b.Status {
		case models.BidStatusOpen:
			stats.OpenBids++
		case models.BidStatusClosing:
			stats.ClosingSoon++
		case models.BidStatusAwarded:
			stats.AwardedBids++
		}
	}
	for _, u := range s.store.Users.List() {
		stats.TotalUsers++
		if u.IsActive {
			stats.ActiveUsers++
		}
	}
	stats.UnreadNotifications = len(s.store.Notifications.Filter(func(n models.Notification) bool {
		return n.Status == models.NotificationUnread
	}))

	var ok, total int
	for _, f := range s.store.FetchLogs.List() {
		switch f.Status {
		case models.FetchStatusSuccess:
			ok++
			total++
		case models.FetchStatusFailed:
			total++
		}
	}
	stats.FetchSuccessRate = successRate(ok, total)
	return stats
}

func (s *DashboardService) Charts(ctx context.Context) models.DashboardCharts {
	return cached(ctx, s, "charts", func(ctx context.Context) upstream.Result[models.DashboardCharts] {
		return upstream.Fetch[models.DashboardCharts](ctx, s.upstream, "dashboard.charts", "/dashboard/charts", nil)
	}, s.computeCharts)
}

// computeCharts buckets bids by publication day over the last two weeks and
// by category, status and region.
func (s *DashboardService) computeCharts() models.DashboardCharts {
	now := s.store.Now()
	bids := s.store.Bids.List()

	perDay := map[string]int{}
	categories := map[string]float64{}
	statuses := map[string]float64{}
	regions := map[string]float64{}
	for _, b := range bids {
		perDay[b.CreatedAt.Format(time.DateOnly)]++
		categories[b.Category]++
		statuses[b.Status]++
		regions[b.Region]++
	}

	charts := models.DashboardCharts{
		CategoryDistribution: slicesOf(categories),
		StatusDistribution:   slicesOf(statuses),
		RegionDistribution:   slicesOf(regions),
	}
	for i := 13; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(time.DateOnly)
		charts.BidTrend = append(charts.BidTrend, models.ChartPoint{Date: day, Count: perDay[day]})
	}
	return charts
}

// slicesOf orders a distribution by value, then name.
func slicesOf(counts map[string]float64) []models.ChartSlice {
	out := make([]models.ChartSlice, 0, len(counts))
	for name, v := range counts {
		out = append(out, models.ChartSlice{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type RecentActivityRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

func (s *DashboardService) RecentActivity(ctx context.Context, req *RecentActivityRequest) []models.Activity {
	limit := req.Limit
	if limit <= 0 || limit > maxActivityLimit {
		limit = defaultActivityLimit
	}
	key := "activity:" + strconv.Itoa(limit)
	return cached(ctx, s, key, func(ctx context.Context) upstream.Result[[]models.Activity] {
		return upstream.Fetch[[]models.Activity](ctx, s.upstream, "dashboard.recent_activity", "/dashboard/recent-activity",
			url.Values{"limit": {strconv.Itoa(limit)}})
	}, func() []models.Activity { return s.computeActivity(limit) })
}

// computeActivity merges the latest system, audit and crawl events, newest
// first.
func (s *DashboardService) computeActivity(limit int) []models.Activity {
	type event struct {
		at time.Time
		models.Activity
	}
	var events []event

	for _, l := range s.store.SystemLogs.List() {
		events = append(events, event{l.CreatedAt, models.Activity{
			ID: fmt.Sprintf("log-%d", l.ID), Type: "system", Title: l.Module + "." + l.Action, Description: l.Message,
		}})
	}
	for _, a := range s.store.AuditLogs.List() {
		events = append(events, event{a.CreatedAt, models.Activity{
			ID: fmt.Sprintf("audit-%d", a.ID), Type: "audit", Title: a.Action + " " + a.Resource, Description: a.Details, User: a.Username,
		}})
	}
	for _, f := range s.store.FetchLogs.List() {
		desc := fmt.Sprintf("%d items", f.ItemsFetched)
		if f.ErrorMessage != "" {
			desc = f.ErrorMessage
		}
		events = append(events, event{f.StartedAt, models.Activity{
			ID: fmt.Sprintf("fetch-%d", f.ID), Type: "fetch", Title: f.Source + " " + f.Status, Description: desc,
		}})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].at.After(events[j].at) })
	if len(events) > limit {
		events = events[:limit]
	}

	out := make([]models.Activity, 0, len(events))
	for _, e := range events {
		e.Activity.Timestamp = e.at.Format(time.RFC3339)
		out = append(out, e.Activity)
	}
	return out
}

func (s *DashboardService) Timeline(ctx context.Context) []models.TimelineItem {
	return cached(ctx, s, "timeline", func(ctx context.Context) upstream.Result[[]models.TimelineItem] {
		return upstream.Fetch[[]models.TimelineItem](ctx, s.upstream, "dashboard.timeline", "/dashboard/timeline", nil)
	}, s.computeTimeline)
}

// computeTimeline lists the next open deadlines with the workdays left in
// the configured country.
func (s *DashboardService) computeTimeline() []models.TimelineItem {
	now := s.store.Now()
	bids := s.store.Bids.Filter(func(b models.Bid) bool {
		return (b.Status == models.BidStatusOpen || b.Status == models.BidStatusClosing) && !b.Deadline.Before(now)
	})
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Deadline.Before(bids[j].Deadline) })
	if len(bids) > timelineSize {
		bids = bids[:timelineSize]
	}

	items := make([]models.TimelineItem, 0, len(bids))
	for _, b := range bids {
		items = append(items, models.TimelineItem{
			ID:               b.ID,
			Title:            b.Title,
			Date:             b.Deadline.Format(time.RFC3339),
			Type:             "deadline",
			Status:           b.Status,
			BusinessDaysLeft: s.calendar.BusinessDaysLeft(now, b.Deadline, s.country),
		})
	}
	return items
}

// Refresh drops every cached widget and reloads the stats.
func (s *DashboardService) Refresh(ctx context.Context) models.DashboardStats {
	s.cache.Purge()
	logger.Infof("[Dashboard] Cache purged")
	return s.Stats(ctx)
}
