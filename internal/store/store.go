package store

import (
	"slices"
	"sync"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/models"
)

// Store is the in-memory repository the services fall back to when the
// upstream API is unavailable. One Store is built at startup and injected;
// tests build their own and call Reset between cases.
type Store struct {
	Users               *Collection[models.User, *models.User]
	SystemLogs          *Collection[models.SystemLog, *models.SystemLog]
	FetchLogs           *Collection[models.FetchLog, *models.FetchLog]
	NotificationConfigs *Collection[models.NotificationConfig, *models.NotificationConfig]
	ReportConfigs       *Collection[models.ReportConfig, *models.ReportConfig]
	SystemConfigs       *Collection[models.SystemConfig, *models.SystemConfig]
	Backups             *Collection[models.BackupInfo, *models.BackupInfo]
	AuditLogs           *Collection[models.AuditLog, *models.AuditLog]
	Notifications       *Collection[models.Notification, *models.Notification]
	Reports             *Collection[models.Report, *models.Report]
	Bids                *Collection[models.Bid, *models.Bid]

	mu                   sync.RWMutex
	auditSettings        models.AuditSettings
	notificationSettings models.NotificationSettings

	seededAt time.Time
	now      func() time.Time
}

// New returns a store seeded relative to the current day.
func New() *Store {
	return NewAt(time.Now(), time.Now)
}

// NewAt seeds the store relative to ref and stamps mutations with now.
// The seed is a pure function of ref.
func NewAt(ref time.Time, now func() time.Time) *Store {
	s := &Store{
		Users:               newCollection[models.User](now),
		SystemLogs:          newCollection[models.SystemLog](now),
		FetchLogs:           newCollection[models.FetchLog](now),
		NotificationConfigs: newCollection[models.NotificationConfig](now),
		ReportConfigs:       newCollection[models.ReportConfig](now),
		SystemConfigs:       newCollection[models.SystemConfig](now),
		Backups:             newCollection[models.BackupInfo](now),
		AuditLogs:           newCollection[models.AuditLog](now),
		Notifications:       newCollection[models.Notification](now),
		Reports:             newCollection[models.Report](now),
		Bids:                newCollection[models.Bid](now),
		seededAt:            ref,
		now:                 now,
	}
	s.Reset()
	return s
}

// Reset restores every collection and setting to the seed.
func (s *Store) Reset() {
	seed := buildSeed(s.seededAt)

	s.Users.replace(seed.users)
	s.SystemLogs.replace(seed.systemLogs)
	s.FetchLogs.replace(seed.fetchLogs)
	s.NotificationConfigs.replace(seed.notificationConfigs)
	s.ReportConfigs.replace(seed.reportConfigs)
	s.SystemConfigs.replace(seed.systemConfigs)
	s.Backups.replace(seed.backups)
	s.AuditLogs.replace(seed.auditLogs)
	s.Notifications.replace(seed.notifications)
	s.Reports.replace(seed.reports)
	s.Bids.replace(seed.bids)

	s.mu.Lock()
	s.auditSettings = seed.auditSettings
	s.notificationSettings = seed.notificationSettings
	s.mu.Unlock()
}

// Now is the clock mutations are stamped with.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) AuditSettings() models.AuditSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.auditSettings
	out.ExcludedActions = slices.Clone(out.ExcludedActions)
	return out
}

func (s *Store) UpdateAuditSettings(p *models.AuditSettingsPatch) models.AuditSettings {
	s.mu.Lock()
	p.Apply(&s.auditSettings)
	s.mu.Unlock()
	return s.AuditSettings()
}

func (s *Store) NotificationSettings() models.NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.notificationSettings
	out.Types = slices.Clone(out.Types)
	return out
}

func (s *Store) UpdateNotificationSettings(p *models.NotificationSettingsPatch) models.NotificationSettings {
	s.mu.Lock()
	p.Apply(&s.notificationSettings)
	s.mu.Unlock()
	return s.NotificationSettings()
}

// Snapshot is the serialisable content of the store, used for backups.
type Snapshot struct {
	TakenAt              time.Time                   `json:"takenAt"`
	Users                []models.User               `json:"users"`
	SystemLogs           []models.SystemLog          `json:"systemLogs"`
	FetchLogs            []models.FetchLog           `json:"fetchLogs"`
	NotificationConfigs  []models.NotificationConfig `json:"notificationConfigs"`
	ReportConfigs        []models.ReportConfig       `json:"reportConfigs"`
	SystemConfigs        []models.SystemConfig       `json:"systemConfigs"`
	AuditLogs            []models.AuditLog           `json:"auditLogs"`
	Notifications        []models.Notification       `json:"notifications"`
	Reports              []models.Report             `json:"reports"`
	Bids                 []models.Bid                `json:"bids"`
	AuditSettings        models.AuditSettings        `json:"auditSettings"`
	NotificationSettings models.NotificationSettings `json:"notificationSettings"`
}

// Snapshot copies the current content. Backups are not part of their own
// snapshot.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		TakenAt:              s.now(),
		Users:                s.Users.List(),
		SystemLogs:           s.SystemLogs.List(),
		FetchLogs:            s.FetchLogs.List(),
		NotificationConfigs:  s.NotificationConfigs.List(),
		ReportConfigs:        s.ReportConfigs.List(),
		SystemConfigs:        s.SystemConfigs.List(),
		AuditLogs:            s.AuditLogs.List(),
		Notifications:        s.Notifications.List(),
		Reports:              s.Reports.List(),
		Bids:                 s.Bids.List(),
		AuditSettings:        s.AuditSettings(),
		NotificationSettings: s.NotificationSettings(),
	}
}

// Sizes reports the record count per collection.
func (s *Store) Sizes() map[string]int {
	return map[string]int{
		"users":               s.Users.Len(),
		"systemLogs":          s.SystemLogs.Len(),
		"fetchLogs":           s.FetchLogs.Len(),
		"notificationConfigs": s.NotificationConfigs.Len(),
		"reportConfigs":       s.ReportConfigs.Len(),
		"systemConfigs":       s.SystemConfigs.Len(),
		"backups":             s.Backups.Len(),
		"auditLogs":           s.AuditLogs.Len(),
		"notifications":       s.Notifications.Len(),
		"reports":             s.Reports.Len(),
		"bids":                s.Bids.Len(),
	}
}
