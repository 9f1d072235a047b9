package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCronSpec parses a standard five-field cron expression or a
// descriptor such as @daily.
func ParseCronSpec(spec string) (cron.Schedule, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, errors.New("empty cron expression")
	}
	return cronParser.Parse(spec)
}

// Scheduler runs the gateway's periodic jobs.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithParser(cronParser))}
}

// Add registers job under spec. A panicking job is logged and the
// scheduler keeps running.
func (s *Scheduler) Add(name, spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Str("job", name).Interface("panic", r).Msg("scheduled job panicked")
			}
		}()
		job()
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	logger.Infof("[Scheduler] %s scheduled (cron: %s)", name, spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Infof("[Scheduler] Started with %d jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

// SchedulerLocks lets one gateway instance claim a scheduled run when
// several share a database.
type SchedulerLocks struct {
	db     *gorm.DB
	holder string
}

func NewSchedulerLocks(db *gorm.DB) *SchedulerLocks {
	return &SchedulerLocks{db: db, holder: instanceID()}
}

// TryAcquire claims (name, key) until ttl elapses. It reports false when
// another holder has a live claim. Expired claims are taken over.
func (l *SchedulerLocks) TryAcquire(name, key string, ttl time.Duration) (bool, error) {
	if l == nil || l.db == nil {
		return true, nil
	}
	now := time.Now()

	if err := l.db.Where("lock_name = ? AND lock_key = ? AND expires_at < ?", name, key, now).
		Delete(&models.SchedulerLock{}).Error; err != nil {
		return false, err
	}

	lock := models.SchedulerLock{
		LockName:  name,
		LockKey:   key,
		LockedBy:  l.holder,
		LockedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	res := l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
