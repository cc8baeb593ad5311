package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// TaskReader defines read operations for task data
type TaskReader interface {
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// FindTaskByIDForUpdate locks the task row for the rest of the transaction.
	FindTaskByIDForUpdate(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasks retrieves a page of tasks and a token for the next page.
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, *string, error)

	// FindOpenTaskByRelated retrieves the open task of the given type referencing ref.
	FindOpenTaskByRelated(ctx context.Context, ref domain.EntityRef, taskType domain.TaskType) (*domain.Task, error)

	// ListUrgentTasks retrieves open high and critical tasks, most urgent first.
	ListUrgentTasks(ctx context.Context, limit int) ([]domain.Task, error)

	GetTaskStats(ctx context.Context, now time.Time) (*domain.TaskStats, error)
}

// TaskWriter defines write operations for task data
type TaskWriter interface {
	SaveTask(ctx context.Context, task domain.Task) error

	// UpdateTask updates a task if its version still matches and bumps the version.
	UpdateTask(ctx context.Context, task *domain.Task) error

	// UpsertSyncTask inserts the synchronization task for a (worker, order) pair
	// or refreshes the live one. It returns the stored task and whether it was inserted.
	UpsertSyncTask(ctx context.Context, task domain.Task) (*domain.Task, bool, error)

	// InsertAutoTask inserts an auto-generated task unless an open task already
	// references the same entity. It reports whether a row was inserted.
	InsertAutoTask(ctx context.Context, task domain.Task) (bool, error)

	// ArchiveFinishedTasks archives completed or cancelled tasks that no longer wait for approval.
	ArchiveFinishedTasks(ctx context.Context, actorID string, now time.Time) (int64, error)
	// CancelSyncTasks cancels the live synchronization task of a (worker, order) pair.
	CancelSyncTasks(ctx context.Context, workerID, orderID, actorID string, now time.Time) (int64, error)
}

// TaskRepositoryFacade combines all task-related repository interfaces
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
}
