package database

import (
	"gorm.io/gorm"

	"github.com/ksaito/todo-tracker/internal/models"
)

// OwnedBy restricts a task query to a single owner. Every task lookup goes
// through this scope so a task belonging to another user is indistinguishable
// from a missing one.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// StatusIn restricts a task query to the given statuses.
func StatusIn(statuses ...models.TaskStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(statuses) == 1 {
			return db.Where("status = ?", statuses[0])
		}
		return db.Where("status IN ?", statuses)
	}
}
