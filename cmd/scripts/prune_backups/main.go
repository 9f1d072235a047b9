package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/internal/models"
)

// prune_backups trims stored backup archives to the newest -keep entries.
func main() {
	keep := flag.Int("keep", 10, "number of newest archives to keep")
	dryRun := flag.Bool("dry-run", false, "only list archives")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("Connected to database successfully!")
	fmt.Println("")

	var archives []models.BackupArchive
	if err := db.Select("id", "backup_id", "file_name", "size_bytes", "created_at").Order("id DESC").Find(&archives).Error; err != nil {
		log.Fatalf("Failed to query archives: %v", err)
	}

	fmt.Printf("%-5s %-10s %-60s %-12s %s\n", "ID", "BackupID", "FileName", "Bytes", "CreatedAt")
	fmt.Println("------------------------------------------------------------------------------------------------------------------")
	for i, a := range archives {
		mark := ""
		if i >= *keep {
			mark = "  (prune)"
		}
		fmt.Printf("%-5d %-10d %-60s %-12d %s%s\n", a.ID, a.BackupID, a.FileName, a.SizeBytes, a.CreatedAt.Format("2006-01-02 15:04:05"), mark)
	}
	fmt.Println("")

	if *dryRun {
		fmt.Printf("Dry run: %d archives, %d would be pruned\n", len(archives), max(len(archives)-*keep, 0))
		return
	}

	removed, err := models.PruneBackupArchives(db, *keep)
	if err != nil {
		log.Fatalf("Failed to prune archives: %v", err)
	}
	fmt.Printf("Pruned %d archives, kept %d\n", removed, min(len(archives), *keep))
}
