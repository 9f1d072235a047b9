package services

import (
	"testing"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/stretchr/testify/assert"
)

func newReportConfigService() *ReportConfigService {
	st := newTestStore()
	return NewReportConfigService(st, offline(), NewSystemLogger(st))
}

func TestReportConfigService_CreateDefaultsFormat(t *testing.T) {
	svc := newReportConfigService()

	created := svc.Create(bg, &models.CreateReportConfigRequest{Name: "Hourly", ReportType: "custom", Schedule: "@hourly"})

	assert.Equal(t, "pdf", created.Format)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{}, created.Recipients)
}

func dueIDs(configs []models.ReportConfig) []int64 {
	ids := []int64{}
	for _, c := range configs {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestReportConfigService_DueConfigs(t *testing.T) {
	svc := newReportConfigService()
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	// The weekly summary last ran Monday at midnight, before its 09:00 slot.
	assert.Equal(t, []int64{2}, dueIDs(svc.DueConfigs(day.Add(7*time.Hour))))

	// The daily digest last ran yesterday 08:00 and fires again at 08:00.
	assert.ElementsMatch(t, []int64{1, 2}, dueIDs(svc.DueConfigs(day.Add(8*time.Hour))))
}

func TestReportConfigService_MarkGeneratedClearsDue(t *testing.T) {
	svc := newReportConfigService()
	at := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

	svc.MarkGenerated(1, at)
	svc.MarkGenerated(2, at)

	assert.Empty(t, svc.DueConfigs(at.Add(time.Hour)))
}

func TestReportConfigService_InactiveNeverDue(t *testing.T) {
	svc := newReportConfigService()
	far := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range svc.DueConfigs(far) {
		assert.NotEqual(t, int64(3), c.ID)
	}
}

func TestReportConfigService_LatestFiring(t *testing.T) {
	svc := newReportConfigService()
	last := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	cfg := models.ReportConfig{Schedule: "0 8 * * *", LastGeneratedAt: &last}

	fired, ok := svc.LatestFiring(cfg, time.Date(2025, 3, 13, 9, 15, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC), fired)

	_, ok = svc.LatestFiring(cfg, last.Add(time.Hour))
	assert.False(t, ok)

	_, ok = svc.LatestFiring(models.ReportConfig{Schedule: "nightly"}, last)
	assert.False(t, ok)
}
