package dto

import (
	"time"

	"github.com/ksaito/todo-tracker/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	UserID      uint64              `json:"user_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskStatsDTO holds the dashboard aggregate counts. The counts cover the
// owner's non-deleted tasks regardless of the active filter.
type TaskStatsDTO struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

// DashboardResponse is the payload for the dashboard view.
type DashboardResponse struct {
	Username string       `json:"username"`
	Tasks    []TaskDTO    `json:"tasks"`
	Filter   string       `json:"filter"`
	Stats    TaskStatsDTO `json:"stats"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToDashboardResponse converts tasks and stats to the dashboard payload
func ToDashboardResponse(username string, tasks []models.Task, filter string, stats models.TaskStats) DashboardResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return DashboardResponse{
		Username: username,
		Tasks:    items,
		Filter:   filter,
		Stats: TaskStatsDTO{
			Total:     stats.Total,
			Pending:   stats.Pending,
			Completed: stats.Completed,
		},
	}
}
