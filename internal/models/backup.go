package models

import "time"

const (
	BackupStatusPending   = "pending"
	BackupStatusRunning   = "running"
	BackupStatusCompleted = "completed"
	BackupStatusFailed    = "failed"
)

// BackupInfo describes a snapshot listed on the backup screen.
type BackupInfo struct {
	Base
	Name         string     `json:"name"`
	BackupType   string     `json:"backupType"` // full, incremental
	Status       string     `json:"status"`     // pending, running, completed, failed
	SizeBytes    int64      `json:"sizeBytes"`
	Checksum     string     `json:"checksum,omitempty"`
	CreatedBy    string     `json:"createdBy"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type CreateBackupRequest struct {
	Name       string `json:"name" binding:"max=100"`
	BackupType string `json:"backupType" binding:"omitempty,oneof=full incremental"`
}

// BackupArchive stores the gzip'd snapshot behind a BackupInfo.
type BackupArchive struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BackupID    int64     `gorm:"uniqueIndex;not null" json:"backupId"`
	FileName    string    `gorm:"size:200;not null" json:"fileName"`
	ContentType string    `gorm:"size:100" json:"contentType"`
	Checksum    string    `gorm:"size:64" json:"checksum"`
	SizeBytes   int64     `json:"sizeBytes"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (BackupArchive) TableName() string { return "backup_archives" }
