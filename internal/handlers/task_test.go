package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ksaito/todo-tracker/internal/constants"
	"github.com/ksaito/todo-tracker/internal/database"
	"github.com/ksaito/todo-tracker/internal/dto"
	"github.com/ksaito/todo-tracker/internal/models"
	"github.com/ksaito/todo-tracker/internal/repository"
	"github.com/ksaito/todo-tracker/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(taskRepo))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, userID uint64, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		Priority:    models.TaskPriorityMedium,
		Status:      status,
		UserID:      userID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	user := suite.createTestUser("creator")

	body, _ := json.Marshal(map[string]string{
		"title":       "New task",
		"description": "Something to do",
		"priority":    "high",
	})
	c, w := suite.createAuthContext(http.MethodPost, "/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("New task", response.Title)
	suite.Equal(models.TaskPriorityHigh, response.Priority)
	suite.Equal(models.TaskStatusPending, response.Status)
	suite.Equal(user.ID, response.UserID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskRequiresTitle() {
	user := suite.createTestUser("creator")

	body, _ := json.Marshal(map[string]string{"description": "no title"})
	c, w := suite.createAuthContext(http.MethodPost, "/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDashboard() {
	user := suite.createTestUser("viewer")
	suite.createTestTask("Pending task", user.ID, models.TaskStatusPending)
	suite.createTestTask("Done task", user.ID, models.TaskStatusCompleted)
	suite.createTestTask("Trashed task", user.ID, models.TaskStatusDeleted)

	c, w := suite.createAuthContext(http.MethodGet, "/dashboard", nil, user.ID)
	c.Set(constants.ContextKeyUsername, user.Username)

	suite.handler.Dashboard(c)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.DashboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("viewer", response.Username)
	suite.Equal("all", response.Filter)
	suite.Len(response.Tasks, 2)
	suite.Equal(int64(2), response.Stats.Total)
	suite.Equal(int64(1), response.Stats.Pending)
	suite.Equal(int64(1), response.Stats.Completed)
}

func (suite *TaskHandlerTestSuite) TestDashboardDeletedFilter() {
	user := suite.createTestUser("viewer")
	suite.createTestTask("Pending task", user.ID, models.TaskStatusPending)
	suite.createTestTask("Trashed task", user.ID, models.TaskStatusDeleted)

	c, w := suite.createAuthContext(http.MethodGet, "/dashboard?filter=deleted", nil, user.ID)

	suite.handler.Dashboard(c)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.DashboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("deleted", response.Filter)
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Trashed task", response.Tasks[0].Title)
	// Stats still reflect the unfiltered non-deleted counts
	suite.Equal(int64(1), response.Stats.Total)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Toggle me", user.ID, models.TaskStatusPending)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	c, w := suite.createAuthContext(http.MethodPost, "/tasks/1/status", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateTaskStatus(c)

	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Success bool        `json:"success"`
		Task    dto.TaskDTO `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.Success)
	suite.Equal(models.TaskStatusCompleted, response.Task.Status)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	suite.Equal(models.TaskStatusCompleted, stored.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatusRejectsUnknownStatus() {
	user := suite.createTestUser("owner")
	suite.createTestTask("Toggle me", user.ID, models.TaskStatusPending)

	body, _ := json.Marshal(map[string]string{"status": "archived"})
	c, w := suite.createAuthContext(http.MethodPost, "/tasks/1/status", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateTaskStatus(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatusForeignTaskIs404() {
	owner := suite.createTestUser("owner")
	intruder := suite.createTestUser("intruder")
	suite.createTestTask("Private", owner.ID, models.TaskStatusPending)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	c, w := suite.createAuthContext(http.MethodPost, "/tasks/1/status", body, intruder.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateTaskStatus(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestPurgeTask() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Trashed", user.ID, models.TaskStatusDeleted)

	c, w := suite.createAuthContext(http.MethodPost, "/tasks/1/delete", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.PurgeTask(c)

	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestPurgeTaskRequiresDeletedStatus() {
	user := suite.createTestUser("owner")
	suite.createTestTask("Still active", user.ID, models.TaskStatusPending)

	c, w := suite.createAuthContext(http.MethodPost, "/tasks/1/delete", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.PurgeTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTaskForEdit() {
	user := suite.createTestUser("owner")
	suite.createTestTask("Editable", user.ID, models.TaskStatusPending)

	c, w := suite.createAuthContext(http.MethodGet, "/tasks/1/edit", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetTaskForEdit(c)

	suite.Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Editable", response.Title)
}

func (suite *TaskHandlerTestSuite) TestGetTaskForEditExcludesDeleted() {
	user := suite.createTestUser("owner")
	suite.createTestTask("Trashed", user.ID, models.TaskStatusDeleted)

	c, w := suite.createAuthContext(http.MethodGet, "/tasks/1/edit", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetTaskForEdit(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestEditTask() {
	user := suite.createTestUser("owner")
	task := suite.createTestTask("Old title", user.ID, models.TaskStatusPending)

	body, _ := json.Marshal(map[string]string{
		"title":       "New title",
		"description": "Rewritten",
		"priority":    "high",
		"status":      "completed",
	})
	c, w := suite.createAuthContext(http.MethodPost, "/tasks/1/edit", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.EditTask(c)

	suite.Equal(http.StatusOK, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	suite.Equal("New title", stored.Title)
	suite.Equal(models.TaskStatusCompleted, stored.Status)
	suite.Equal(user.ID, stored.UserID)
}

// Run the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
