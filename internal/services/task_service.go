package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ksaito/todo-tracker/internal/constants"
	"github.com/ksaito/todo-tracker/internal/models"
	"github.com/ksaito/todo-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title is too long")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// allowedTransitions is the status state machine. Purge is not listed here;
// it is a separate operation that removes the row and requires the current
// status to be deleted.
var allowedTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending:   {models.TaskStatusCompleted, models.TaskStatusDeleted},
	models.TaskStatusCompleted: {models.TaskStatusPending, models.TaskStatusDeleted},
	models.TaskStatusDeleted:   {models.TaskStatusPending},
}

// TaskService enforces the task lifecycle rules on top of the repository.
// Ownership checks happen inside the repository queries themselves; the
// service never learns whether a failed lookup was a foreign task or a
// missing one.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// Dashboard filter values.
const (
	FilterAll       = "all"
	FilterPending   = "pending"
	FilterCompleted = "completed"
	FilterDeleted   = "deleted"
)

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	UserID      uint64
}

// UpdateTaskInput represents input for the full-edit path. Empty Priority or
// Status means "leave unchanged".
type UpdateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	Status      models.TaskStatus
}

// CreateTask creates a new pending task after validating the title and
// clamping the priority to the enum (medium when omitted or unrecognized).
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	description := strings.TrimSpace(input.Description)
	if len(description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	priority := input.Priority
	if !priority.Valid() {
		priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      models.TaskStatusPending,
		UserID:      input.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Printf("Task created: %q for user %d", task.Title, task.UserID)
	return task, nil
}

// GetTask returns a single non-deleted task for the edit view.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, userID,
		models.TaskStatusPending, models.TaskStatusCompleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the full-edit path. Unlike TransitionStatus this path
// may set any recognized status directly; a full edit is not a lifecycle
// event, so the transition table does not apply.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	description := strings.TrimSpace(input.Description)
	if len(description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	fields := map[string]interface{}{
		"title":       title,
		"description": description,
	}

	if input.Priority != "" {
		if !input.Priority.Valid() {
			fields["priority"] = models.TaskPriorityMedium
		} else {
			fields["priority"] = input.Priority
		}
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = input.Status
	}

	matched, err := s.taskRepo.UpdateFields(taskID, userID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if !matched {
		return nil, ErrTaskNotFound
	}

	task, err := s.taskRepo.FindByID(taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	log.Printf("Task updated: %q", task.Title)
	return task, nil
}

// TransitionStatus applies a single lifecycle event from the transition
// table. Unrecognized targets are rejected before any storage access.
func (s *TaskService) TransitionStatus(taskID, userID uint64, target models.TaskStatus) (*models.Task, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.FindByID(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !transitionAllowed(task.Status, target) {
		return nil, ErrInvalidTransition
	}

	// Single conditional update keyed on id+owner. Racing transitions on
	// the same task are last-writer-wins.
	matched, err := s.taskRepo.UpdateStatus(taskID, userID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !matched {
		return nil, ErrTaskNotFound
	}

	task.Status = target
	log.Printf("Task %d status updated to %s", taskID, target)
	return task, nil
}

// PurgeTask permanently removes a soft-deleted task. The conditional DELETE
// carries the status guard; when it matches nothing, an owner-scoped lookup
// decides between wrong-state and not-found without leaking foreign tasks.
func (s *TaskService) PurgeTask(taskID, userID uint64) error {
	removed, err := s.taskRepo.PurgeDeleted(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to purge task: %w", err)
	}
	if removed {
		log.Printf("Task %d permanently deleted", taskID)
		return nil
	}

	if _, err := s.taskRepo.FindByID(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	return ErrInvalidTransition
}

// ListTasks returns the filtered task list plus the dashboard stats. The
// stats always cover the owner's non-deleted tasks, independent of filter.
func (s *TaskService) ListTasks(userID uint64, filter string) ([]models.Task, models.TaskStats, error) {
	var statuses []models.TaskStatus
	switch filter {
	case FilterPending:
		statuses = []models.TaskStatus{models.TaskStatusPending}
	case FilterCompleted:
		statuses = []models.TaskStatus{models.TaskStatusCompleted}
	case FilterDeleted:
		statuses = []models.TaskStatus{models.TaskStatusDeleted}
	default:
		// "all" shows pending and completed, never deleted
		statuses = []models.TaskStatus{models.TaskStatusPending, models.TaskStatusCompleted}
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		UserID:   userID,
		Statuses: statuses,
	})
	if err != nil {
		return nil, models.TaskStats{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats, err := s.taskRepo.Stats(userID)
	if err != nil {
		return nil, models.TaskStats{}, fmt.Errorf("failed to compute stats: %w", err)
	}

	return tasks, stats, nil
}

// NormalizeFilter maps an unrecognized filter value to "all".
func NormalizeFilter(filter string) string {
	switch filter {
	case FilterPending, FilterCompleted, FilterDeleted:
		return filter
	}
	return FilterAll
}

func transitionAllowed(from, to models.TaskStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
