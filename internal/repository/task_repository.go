package repository

import (
	"github.com/ksaito/todo-tracker/internal/database"
	"github.com/ksaito/todo-tracker/internal/models"
	"gorm.io/gorm"
)

// priorityOrder ranks priorities high > medium > low for the dashboard sort.
// Priorities are stored as varchar, so the ranking happens in a CASE
// expression that works on MySQL, Postgres and SQLite alike.
const priorityOrder = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID scoped to the owner. When statuses are given
// the task must also be in one of them.
func (r *GormTaskRepository) FindByID(id, userID uint64, statuses ...models.TaskStatus) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.OwnedBy(userID))
	if len(statuses) > 0 {
		query = query.Scopes(database.StatusIn(statuses...))
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves the owner's tasks matching the filter in dashboard order
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Scopes(database.OwnedBy(filter.UserID))
	if len(filter.Statuses) > 0 {
		query = query.Scopes(database.StatusIn(filter.Statuses...))
	}

	// ID breaks created_at ties so equal priority+time rows keep a stable
	// total order.
	err := query.
		Order(priorityOrder).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// UpdateFields applies a full field update in a single conditional UPDATE.
// The owner predicate rides in the WHERE clause, so a foreign or missing
// task yields zero rows rather than a distinguishable error.
func (r *GormTaskRepository) UpdateFields(id, userID uint64, fields map[string]interface{}) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Scopes(database.OwnedBy(userID)).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// UpdateStatus sets the status in a single conditional UPDATE keyed on id
// and owner. Concurrent transitions on the same task are last-writer-wins;
// there is no read-modify-write window at the storage layer.
func (r *GormTaskRepository) UpdateStatus(id, userID uint64, status models.TaskStatus) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Scopes(database.OwnedBy(userID)).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// PurgeDeleted permanently removes a task. The status guard lives inside the
// DELETE itself, so only a soft-deleted task can ever be removed.
func (r *GormTaskRepository) PurgeDeleted(id, userID uint64) (bool, error) {
	result := r.db.
		Where("id = ?", id).
		Scopes(database.OwnedBy(userID), database.StatusIn(models.TaskStatusDeleted)).
		Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CountByStatuses counts the owner's tasks in the given statuses
func (r *GormTaskRepository) CountByStatuses(userID uint64, statuses ...models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Scopes(database.OwnedBy(userID), database.StatusIn(statuses...)).
		Count(&count).Error

	return count, err
}

// Stats computes the dashboard aggregates over the owner's non-deleted tasks
func (r *GormTaskRepository) Stats(userID uint64) (models.TaskStats, error) {
	var stats models.TaskStats

	total, err := r.CountByStatuses(userID, models.TaskStatusPending, models.TaskStatusCompleted)
	if err != nil {
		return stats, err
	}

	pending, err := r.CountByStatuses(userID, models.TaskStatusPending)
	if err != nil {
		return stats, err
	}

	completed, err := r.CountByStatuses(userID, models.TaskStatusCompleted)
	if err != nil {
		return stats, err
	}

	stats.Total = total
	stats.Pending = pending
	stats.Completed = completed
	return stats, nil
}
