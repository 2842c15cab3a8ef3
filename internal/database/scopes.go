package database

import (
	"gorm.io/gorm"

	"github.com/tactache/tactache-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// DueDateAscNullsLast orders tasks by due date with undated tasks last,
// then by id so equal dates keep a stable order.
func DueDateAscNullsLast(db *gorm.DB) *gorm.DB {
	return db.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.id ASC")
}
