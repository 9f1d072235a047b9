package services

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBackupService(st *store.Store, db *gorm.DB) *BackupService {
	syslog := NewSystemLogger(st)
	return NewBackupService(st, offline(), db, NewSystemConfigService(st, offline(), syslog), syslog)
}

func TestBackupService_CreateAndDownload(t *testing.T) {
	st := newTestStore()
	svc := newBackupService(st, newTestDB(t))

	info := svc.Create(bg, &models.CreateBackupRequest{}, "admin")
	require.Equal(t, models.BackupStatusCompleted, info.Status)
	assert.Equal(t, "manual-20250314-153000", info.Name)
	assert.Equal(t, "full", info.BackupType)
	assert.Len(t, info.Checksum, 64)
	assert.Positive(t, info.SizeBytes)
	assert.NotNil(t, info.CompletedAt)

	bin, err := svc.Download(bg, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/gzip", bin.ContentType)
	assert.Contains(t, bin.Filename, ".json.gz")
	assert.EqualValues(t, info.SizeBytes, len(bin.Data))

	zr, err := gzip.NewReader(bytes.NewReader(bin.Data))
	require.NoError(t, err)
	var snap store.Snapshot
	require.NoError(t, json.NewDecoder(zr).Decode(&snap))
	assert.Len(t, snap.Users, 3)
	assert.Len(t, snap.Bids, 30)
}

func TestBackupService_CreateWithoutStorageFails(t *testing.T) {
	st := newTestStore()
	svc := newBackupService(st, nil)

	info := svc.Create(bg, &models.CreateBackupRequest{Name: "nightly", BackupType: "incremental"}, "admin")
	assert.Equal(t, models.BackupStatusFailed, info.Status)
	assert.Equal(t, "backup storage is not configured", info.ErrorMessage)
	assert.Equal(t, "incremental", info.BackupType)

	failures := st.SystemLogs.Filter(func(l models.SystemLog) bool {
		return l.Module == "backup" && l.Level == models.LogLevelError
	})
	assert.Len(t, failures, 1)
}

func TestBackupService_DownloadErrors(t *testing.T) {
	st := newTestStore()
	svc := newBackupService(st, newTestDB(t))

	_, err := svc.Download(bg, 3)
	assertStatus(t, err, http.StatusConflict)

	_, err = svc.Download(bg, 999)
	assertStatus(t, err, http.StatusNotFound)

	// Seeded backups have no archive behind them.
	_, err = svc.Download(bg, 1)
	assertStatus(t, err, http.StatusNotFound)
}

func TestBackupService_List(t *testing.T) {
	st := newTestStore()
	svc := newBackupService(st, nil)

	res := svc.List(bg, &BackupListRequest{Status: models.BackupStatusCompleted})
	assert.Equal(t, 2, res.Pagination.Total)

	res = svc.List(bg, &BackupListRequest{BackupType: "incremental"})
	require.Len(t, res.Data, 1)
	assert.Equal(t, "pre-upgrade", res.Data[0].Name)
}

func TestBackupService_RunScheduledOncePerSlot(t *testing.T) {
	st := newTestStore()
	svc := newBackupService(st, newTestDB(t))

	svc.RunScheduled()
	svc.RunScheduled()

	scheduled := st.Backups.Filter(func(b models.BackupInfo) bool {
		return b.CreatedBy == "scheduler" && b.CreatedAt.Equal(refTime)
	})
	require.Len(t, scheduled, 1)
	assert.Equal(t, models.BackupStatusCompleted, scheduled[0].Status)
}

func TestBackupService_RunScheduledPrunesToRetention(t *testing.T) {
	st := newTestStore()
	db := newTestDB(t)
	svc := newBackupService(st, db)
	_, err := st.SystemConfigs.Update(7, func(c *models.SystemConfig) { c.Value = "2" })
	require.NoError(t, err)

	oldest := svc.Create(bg, &models.CreateBackupRequest{Name: "first"}, "admin")
	svc.Create(bg, &models.CreateBackupRequest{Name: "second"}, "admin")
	svc.RunScheduled()

	var archives int64
	require.NoError(t, db.Model(&models.BackupArchive{}).Count(&archives).Error)
	assert.Equal(t, int64(2), archives)

	_, err = svc.Download(bg, oldest.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestStartBackupSchedule(t *testing.T) {
	st := newTestStore()
	svc := newBackupService(st, nil)

	assert.NoError(t, StartBackupSchedule(NewScheduler(), svc, ""))
	assert.NoError(t, StartBackupSchedule(NewScheduler(), svc, "0 3 * * *"))
	assert.Error(t, StartBackupSchedule(NewScheduler(), svc, "nightly"))
}
