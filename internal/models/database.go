package models

import (
	"fmt"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database that holds backup archives and scheduler locks.
// The mock collections themselves never touch it.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BackupArchive{},
		&SchedulerLock{},
	)
}

// PruneBackupArchives deletes all but the keep newest archives and returns
// how many rows were removed.
func PruneBackupArchives(db *gorm.DB, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative: %d", keep)
	}
	var kept []uint
	if keep > 0 {
		if err := db.Model(&BackupArchive{}).Order("id DESC").Limit(keep).Pluck("id", &kept).Error; err != nil {
			return 0, err
		}
	}
	query := db.Model(&BackupArchive{})
	if len(kept) > 0 {
		query = query.Where("id NOT IN ?", kept)
	} else {
		query = query.Where("1 = 1")
	}
	result := query.Delete(&BackupArchive{})
	return result.RowsAffected, result.Error
}
