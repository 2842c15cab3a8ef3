package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes behind the board, calendar and comment queries.
// Existence is checked through the GORM migrator so the same list works on
// MySQL, PostgreSQL and SQLite.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Board and calendar ordering
		{"tasks", "idx_tasks_status_due_date", "status, due_date"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Ownership lookups for the involved-only listing and exports
		{"tasks", "idx_tasks_created_by", "created_by"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},

		// Comment thread and cascade delete
		{"comments", "idx_comments_task_id", "task_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", slog.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", slog.String("index", idx.name), slog.String("table", idx.table), slog.String("columns", idx.columns))
	}

	return nil
}
