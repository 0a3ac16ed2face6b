package repository

import (
	"github.com/ksaito/todo-tracker/internal/models"
)

// TaskRepository defines the interface for task data access.
//
// Every method takes the owner's user ID and folds it into the query itself,
// so a task owned by someone else surfaces exactly like a missing task.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID scoped to the owner, optionally
	// restricted to the given statuses
	FindByID(id, userID uint64, statuses ...models.TaskStatus) (*models.Task, error)

	// List retrieves the owner's tasks matching the filter in dashboard
	// order: priority descending, then newest first, then ID
	List(filter TaskFilter) ([]models.Task, error)

	// UpdateFields applies a full field update in a single conditional
	// UPDATE and reports whether a row matched
	UpdateFields(id, userID uint64, fields map[string]interface{}) (bool, error)

	// UpdateStatus sets the status in a single conditional UPDATE keyed on
	// id and owner and reports whether a row matched
	UpdateStatus(id, userID uint64, status models.TaskStatus) (bool, error)

	// PurgeDeleted permanently removes a task in a single conditional
	// DELETE that also requires status = 'deleted', and reports whether a
	// row was removed
	PurgeDeleted(id, userID uint64) (bool, error)

	// CountByStatuses counts the owner's tasks in the given statuses
	CountByStatuses(userID uint64, statuses ...models.TaskStatus) (int64, error)

	// Stats computes the dashboard aggregates over non-deleted tasks
	Stats(userID uint64) (models.TaskStats, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID   uint64
	Statuses []models.TaskStatus
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by exact username match
	FindByUsername(username string) (*models.User, error)
}
