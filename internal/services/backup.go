package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	backupContentType = "application/gzip"

	// retentionConfigKey holds how many backup archives scheduled runs keep.
	retentionConfigKey     = "backup.retention_count"
	defaultBackupRetention = 10
)

// BackupService snapshots the in-memory repository into gzip'd JSON archives
// kept in the database.
type BackupService struct {
	store    *store.Store
	upstream *upstream.Client
	db       *gorm.DB
	locks    *SchedulerLocks
	configs  *SystemConfigService
	syslog   *SystemLogger
}

func NewBackupService(st *store.Store, up *upstream.Client, db *gorm.DB, configs *SystemConfigService, syslog *SystemLogger) *BackupService {
	return &BackupService{store: st, upstream: up, db: db, locks: NewSchedulerLocks(db), configs: configs, syslog: syslog}
}

type BackupListRequest struct {
	paging.Request
	Status     string `form:"status" binding:"omitempty,oneof=pending running completed failed"`
	BackupType string `form:"backupType" binding:"omitempty,oneof=full incremental"`
}

var backupSchema = filter.Schema[models.BackupInfo]{
	"status":     filter.Exactly(func(b models.BackupInfo) string { return b.Status }),
	"backupType": filter.Exactly(func(b models.BackupInfo) string { return b.BackupType }),
}

func (s *BackupService) List(ctx context.Context, req *BackupListRequest) paging.PagedResult[models.BackupInfo] {
	set := filter.Set{"status": req.Status, "backupType": req.BackupType}
	return listOrMock(ctx, s.upstream, "backups.list", "/admin/backups", set, req.Request, backupSchema, s.store.Backups.List)
}

// Create takes a backup now. A failed snapshot is recorded as a failed
// backup rather than returned as an error.
func (s *BackupService) Create(ctx context.Context, req *models.CreateBackupRequest, createdBy string) models.BackupInfo {
	res := upstream.Send[models.BackupInfo](ctx, s.upstream, "backups.create", upstream.Request{
		Method: http.MethodPost, Path: "/admin/backups", Body: req,
	})
	return res.OrElse(func() models.BackupInfo {
		return s.snapshot(req, createdBy)
	})
}

func (s *BackupService) snapshot(req *models.CreateBackupRequest, createdBy string) models.BackupInfo {
	name := req.Name
	if name == "" {
		name = "manual-" + s.store.Now().Format("20060102-150405")
	}
	backupType := req.BackupType
	if backupType == "" {
		backupType = "full"
	}

	info := s.store.Backups.Create(models.BackupInfo{
		Name:       name,
		BackupType: backupType,
		Status:     models.BackupStatusRunning,
		CreatedBy:  createdBy,
	})

	archive, err := s.writeArchive(info.ID)
	completedAt := s.store.Now()
	updated, updateErr := s.store.Backups.Update(info.ID, func(b *models.BackupInfo) {
		b.CompletedAt = &completedAt
		if err != nil {
			b.Status = models.BackupStatusFailed
			b.ErrorMessage = err.Error()
			return
		}
		b.Status = models.BackupStatusCompleted
		b.SizeBytes = archive.SizeBytes
		b.Checksum = archive.Checksum
	})
	if updateErr != nil {
		// Deleted while running.
		return info
	}

	if err != nil {
		logger.Error().Err(err).Int64("backupId", info.ID).Msg("backup failed")
		s.syslog.LogError("backup", "create", "Backup "+name+" failed: "+err.Error(), nil, "", "", nil)
	} else {
		logger.Info().Int64("backupId", info.ID).Int64("bytes", archive.SizeBytes).Msg("backup completed")
		s.syslog.LogInfo("backup", "create", "Backup "+name+" completed", nil, "", "",
			map[string]interface{}{"backupId": info.ID, "sizeBytes": archive.SizeBytes})
	}
	return updated
}

func (s *BackupService) writeArchive(backupID int64) (*models.BackupArchive, error) {
	if s.db == nil {
		return nil, errors.New("backup storage is not configured")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(s.store.Snapshot()); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	archive := &models.BackupArchive{
		BackupID:    backupID,
		FileName:    fmt.Sprintf("bizeyes-backup-%s.json.gz", uuid.NewString()),
		ContentType: backupContentType,
		Checksum:    hex.EncodeToString(sum[:]),
		SizeBytes:   int64(buf.Len()),
		Data:        buf.Bytes(),
	}
	if err := s.db.Create(archive).Error; err != nil {
		return nil, fmt.Errorf("store archive: %w", err)
	}
	return archive, nil
}

// Download returns the archive behind a completed backup.
func (s *BackupService) Download(ctx context.Context, id int64) (upstream.Binary, error) {
	res := upstream.FetchBinary(ctx, s.upstream, "backups.download", idPath("/admin/backups", id)+"/download", nil)
	return res.OrElseTry(func() (upstream.Binary, error) {
		info, err := s.store.Backups.Get(id)
		if err != nil {
			return upstream.Binary{}, notFound(err, "backup")
		}
		if info.Status != models.BackupStatusCompleted {
			return upstream.Binary{}, response.NewConflict("backup is " + info.Status)
		}
		if s.db == nil {
			return upstream.Binary{}, response.NewNotFound("backup archive not available")
		}

		var archive models.BackupArchive
		if err := s.db.Where("backup_id = ?", id).First(&archive).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return upstream.Binary{}, response.NewNotFound("backup archive not available")
			}
			return upstream.Binary{}, err
		}
		return upstream.Binary{Data: archive.Data, ContentType: archive.ContentType, Filename: archive.FileName}, nil
	})
}

// RunScheduled takes the scheduled backup unless another instance already
// claimed this run.
func (s *BackupService) RunScheduled() {
	slot := s.store.Now().Truncate(time.Minute).UTC().Format(time.RFC3339)
	ok, err := s.locks.TryAcquire("scheduled-backup", slot, time.Hour)
	if err != nil {
		logger.Error().Err(err).Msg("[Backup] failed to acquire scheduler lock")
		return
	}
	if !ok {
		logger.Infof("[Backup] Scheduled backup %s already taken by another instance", slot)
		return
	}
	info := s.snapshot(&models.CreateBackupRequest{Name: "scheduled-full", BackupType: "full"}, "scheduler")
	if info.Status == models.BackupStatusCompleted {
		s.pruneArchives()
	}
}

// pruneArchives trims stored archives to the backup.retention_count system
// config. A count below one keeps everything.
func (s *BackupService) pruneArchives() {
	keep := s.configs.IntWithDefault(retentionConfigKey, defaultBackupRetention)
	if keep < 1 || s.db == nil {
		return
	}
	deleted, err := models.PruneBackupArchives(s.db, keep)
	if err != nil {
		logger.Error().Err(err).Msg("[Backup] failed to prune archives")
		return
	}
	if deleted > 0 {
		logger.Infof("[Backup] Pruned %d archives beyond retention of %d", deleted, keep)
	}
}

// StartBackupSchedule registers the scheduled backup when spec is set.
func StartBackupSchedule(sched *Scheduler, svc *BackupService, spec string) error {
	if spec == "" {
		logger.Infof("[Backup] Scheduled backups disabled")
		return nil
	}
	return sched.Add("scheduled-backup", spec, svc.RunScheduled)
}
