package models

import (
	"testing"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + name + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	if _, err := InitDB(&config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestPruneBackupArchives(t *testing.T) {
	db := openTestDB(t, "prune")
	for i := int64(1); i <= 5; i++ {
		if err := db.Create(&BackupArchive{BackupID: i, FileName: "b.json.gz", Data: []byte{1}}).Error; err != nil {
			t.Fatalf("create archive: %v", err)
		}
	}

	removed, err := PruneBackupArchives(db, 2)
	if err != nil {
		t.Fatalf("PruneBackupArchives() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	var left []BackupArchive
	db.Order("backup_id").Find(&left)
	if len(left) != 2 || left[0].BackupID != 4 || left[1].BackupID != 5 {
		t.Errorf("unexpected archives left: %+v", left)
	}

	removed, err = PruneBackupArchives(db, 0)
	if err != nil || removed != 2 {
		t.Errorf("PruneBackupArchives(0) = %d, %v; want 2, nil", removed, err)
	}

	if _, err := PruneBackupArchives(db, -1); err == nil {
		t.Error("expected error for negative keep")
	}
}
