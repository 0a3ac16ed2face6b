package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ksaito/todo-tracker/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// These tests pin the storage contract: every mutation is a single
// conditional statement carrying the owner (and, for purge, the status
// guard) in its WHERE clause.

func setupMockRepo(t *testing.T) (TaskRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewTaskRepository(db), mock
}

func TestGormTaskRepository_UpdateStatusIsSingleConditionalUpdate(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("UPDATE `tasks` SET `status`=\\?,`updated_at`=\\? WHERE id = \\? AND user_id = \\?").
		WithArgs(string(models.TaskStatusCompleted), sqlmock.AnyArg(), uint64(7), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	matched, err := repo.UpdateStatus(7, 42, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.True(t, matched)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_UpdateStatusReportsNoMatch(t *testing.T) {
	repo, mock := setupMockRepo(t)

	// Foreign owner: the predicate matches nothing and no second query runs
	mock.ExpectExec("UPDATE `tasks` SET `status`=\\?,`updated_at`=\\? WHERE id = \\? AND user_id = \\?").
		WithArgs(string(models.TaskStatusCompleted), sqlmock.AnyArg(), uint64(7), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	matched, err := repo.UpdateStatus(7, 99, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.False(t, matched)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_PurgeDeletedCarriesStatusGuard(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("DELETE FROM `tasks` WHERE id = \\? AND user_id = \\? AND status = \\?").
		WithArgs(uint64(7), uint64(42), string(models.TaskStatusDeleted)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.PurgeDeleted(7, 42)
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_PurgeDeletedNoMatchForActiveTask(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectExec("DELETE FROM `tasks` WHERE id = \\? AND user_id = \\? AND status = \\?").
		WithArgs(uint64(7), uint64(42), string(models.TaskStatusDeleted)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.PurgeDeleted(7, 42)
	require.NoError(t, err)
	require.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_ListOrdersByPriorityThenRecency(t *testing.T) {
	repo, mock := setupMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "title", "priority", "status", "user_id"}).
		AddRow(3, "C", "high", "pending", 42).
		AddRow(1, "A", "high", "pending", 42).
		AddRow(2, "B", "medium", "pending", 42)

	mock.ExpectQuery("SELECT \\* FROM `tasks` WHERE user_id = \\? AND status IN \\(\\?,\\?\\) ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC,created_at DESC,id DESC").
		WithArgs(uint64(42), string(models.TaskStatusPending), string(models.TaskStatusCompleted)).
		WillReturnRows(rows)

	tasks, err := repo.List(TaskFilter{
		UserID:   42,
		Statuses: []models.TaskStatus{models.TaskStatusPending, models.TaskStatusCompleted},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, "C", tasks[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
