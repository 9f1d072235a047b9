package models

import "time"

// SchedulerLock represents a distributed lock for scheduled tasks
type SchedulerLock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LockName  string    `gorm:"uniqueIndex:idx_lock_name_key;size:100;not null" json:"lockName"`
	LockKey   string    `gorm:"uniqueIndex:idx_lock_name_key;size:100;not null" json:"lockKey"`
	LockedBy  string    `gorm:"size:100" json:"lockedBy"`
	LockedAt  time.Time `json:"lockedAt"`
	ExpiresAt time.Time `gorm:"index" json:"expiresAt"`
}

func (SchedulerLock) TableName() string { return "scheduler_locks" }
