package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsService_DefaultsToWeek(t *testing.T) {
	svc := NewStatisticsService(newTestStore(), offline())

	stats := svc.Get(bg, &StatisticsRequest{})

	assert.Equal(t, "week", stats.Period)
	assert.Equal(t, "2025-03-07", stats.StartDate)
	assert.Equal(t, "2025-03-14", stats.EndDate)
	assert.Equal(t, 30, stats.Bids.Total)
	assert.Equal(t, 6, stats.Bids.New)
}

func TestStatisticsService_Day(t *testing.T) {
	svc := NewStatisticsService(newTestStore(), offline())

	stats := svc.Get(bg, &StatisticsRequest{Period: "day"})

	assert.Equal(t, 3, stats.Users.Total)
	assert.Equal(t, 2, stats.Users.Active)
	assert.Equal(t, 0, stats.Users.New)
	assert.Equal(t, map[string]int{"admin": 1, "manager": 1, "user": 1}, stats.Users.ByRole)

	assert.Equal(t, 5, stats.Fetch.Total)
	assert.Equal(t, 2, stats.Fetch.Success)
	assert.Equal(t, 1, stats.Fetch.Failed)
	assert.Equal(t, 215, stats.Fetch.Items)
	assert.Equal(t, 66.7, stats.Fetch.SuccessRate)

	assert.Equal(t, 4, stats.Notifications.Sent)
	assert.Equal(t, 3, stats.Notifications.Unread)
	assert.Equal(t, 1, stats.Notifications.Read)
}

func TestPeriodStart(t *testing.T) {
	tests := map[string]time.Time{
		"day":     refTime.AddDate(0, 0, -1),
		"week":    refTime.AddDate(0, 0, -7),
		"month":   refTime.AddDate(0, -1, 0),
		"quarter": refTime.AddDate(0, -3, 0),
		"year":    refTime.AddDate(-1, 0, 0),
		"":        refTime.AddDate(0, 0, -7),
	}
	for period, want := range tests {
		assert.Equal(t, want, periodStart(refTime, period), period)
	}
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, successRate(0, 0))
	assert.Equal(t, 100.0, successRate(4, 4))
	assert.Equal(t, 33.3, successRate(1, 3))
}
