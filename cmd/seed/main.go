package main

import (
	"log"

	"github.com/ksaito/todo-tracker/internal/config"
	"github.com/ksaito/todo-tracker/internal/database"
	"github.com/ksaito/todo-tracker/internal/models"
	"github.com/ksaito/todo-tracker/internal/repository"
	"github.com/ksaito/todo-tracker/internal/services"
)

// Seeds the database with a demo user and a handful of sample tasks.
// Existing users and tasks are removed first.
func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Clear existing data
	if err := db.Exec("DELETE FROM tasks").Error; err != nil {
		log.Fatalf("Failed to clear tasks: %v", err)
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}
	log.Println("Cleared existing data")

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)

	user, err := authService.Register(services.RegisterInput{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		log.Fatalf("Failed to create test user: %v", err)
	}
	log.Println("Created test user: testuser / password123")

	sampleTasks := []services.CreateTaskInput{
		{
			Title:       "Finish onboarding checklist",
			Description: "Work through the remaining setup steps for the project",
			Priority:    models.TaskPriorityHigh,
			UserID:      user.ID,
		},
		{
			Title:       "Learn database indexing",
			Description: "Study composite indexes and query plans",
			Priority:    models.TaskPriorityMedium,
			UserID:      user.ID,
		},
		{
			Title:       "Deploy staging environment",
			Description: "Stand up the app on the staging host",
			Priority:    models.TaskPriorityHigh,
			UserID:      user.ID,
		},
		{
			Title:       "Write tests",
			Description: "Create unit tests for the application",
			Priority:    models.TaskPriorityMedium,
			UserID:      user.ID,
		},
		{
			Title:       "Set up repository",
			Description: "Push code and configure CI",
			Priority:    models.TaskPriorityLow,
			UserID:      user.ID,
		},
	}

	for i, input := range sampleTasks {
		task, err := taskService.CreateTask(input)
		if err != nil {
			log.Fatalf("Failed to create sample task: %v", err)
		}
		// The last two ship as already completed
		if i >= 3 {
			if _, err := taskService.TransitionStatus(task.ID, user.ID, models.TaskStatusCompleted); err != nil {
				log.Fatalf("Failed to complete sample task: %v", err)
			}
		}
	}

	log.Printf("Created %d sample tasks", len(sampleTasks))
	log.Println("Database seeding completed")
}
