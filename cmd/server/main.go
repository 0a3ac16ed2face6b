package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/ksaito/todo-tracker/internal/config"
	"github.com/ksaito/todo-tracker/internal/constants"
	"github.com/ksaito/todo-tracker/internal/database"
	"github.com/ksaito/todo-tracker/internal/handlers"
	"github.com/ksaito/todo-tracker/internal/middleware"
	"github.com/ksaito/todo-tracker/internal/repository"
	"github.com/ksaito/todo-tracker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Session middleware backed by process memory. Sessions do not survive
	// a restart; an external store keyed by token is the path to
	// horizontal scaling.
	store := memstore.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge, // 24 hours
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Health check endpoint: process liveness plus storage connectivity
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		status := "ok"
		code := 200
		if err := database.Ping(); err != nil {
			dbStatus = "disconnected"
			status = "degraded"
			code = 503
		}
		c.JSON(code, gin.H{
			"status":   status,
			"database": dbStatus,
		})
	})

	// Auth routes (public)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// Task routes (protected)
	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/dashboard", taskHandler.Dashboard)
		authed.POST("/tasks", taskHandler.CreateTask)
		authed.POST("/tasks/:id/status", taskHandler.UpdateTaskStatus)
		authed.POST("/tasks/:id/delete", taskHandler.PurgeTask)
		authed.GET("/tasks/:id/edit", taskHandler.GetTaskForEdit)
		authed.POST("/tasks/:id/edit", taskHandler.EditTask)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
