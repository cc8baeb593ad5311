package services

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/dto"
)

// TaskReaderSvc defines read operations for tasks
type TaskReaderSvc interface {
	GetTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	// ListTasks runs the auto-task sweep and then lists tasks visible to actor.
	ListTasks(ctx context.Context, actor domain.Actor, params dto.ListTasksParams) (*dto.ListTasksResponse, error)
	ListUrgentTasks(ctx context.Context, actor domain.Actor, limit int) ([]domain.Task, error)
	GetTaskStats(ctx context.Context) (*domain.TaskStats, error)
	// GetRelatedEntity dereferences the task's related entity reference.
	GetRelatedEntity(ctx context.Context, actor domain.Actor, taskID string) (*domain.ResolvedEntity, error)
}

// TaskWriterSvc defines the regular task lifecycle
type TaskWriterSvc interface {
	CreateTask(ctx context.Context, actor domain.Actor, req dto.CreateTaskRequest) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error)
	StartTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	CompleteTask(ctx context.Context, actor domain.Actor, taskID string, notes string) (*domain.Task, error)
	ApproveTaskCompletion(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	CancelTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	ArchiveTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	// ArchiveFinishedTasks archives every finished task that is not waiting for approval.
	ArchiveFinishedTasks(ctx context.Context, actor domain.Actor) (int64, error)
}

// AdminTaskSvc drives tasks through the two-stage admin approval.
type AdminTaskSvc interface {
	CreateAdminTask(ctx context.Context, actor domain.Actor, req dto.CreateAdminTaskRequest) (*domain.Task, error)
	ApproveAdminTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	CompleteAdminTask(ctx context.Context, actor domain.Actor, taskID string, notes string) (*domain.Task, error)
	FinalApproveAdminTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
}

// TaskSuspensionSvc is the single suspension state machine.
type TaskSuspensionSvc interface {
	RequestSuspension(ctx context.Context, actor domain.Actor, taskID string, reason string) (*domain.SuspensionResult, error)
	ApproveSuspension(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
	ResumeTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error)
}

// TaskSweepSvc creates reminder tasks for neglected debts, orders and workers.
type TaskSweepSvc interface {
	GenerateAutoTasks(ctx context.Context) (*domain.SweepResult, error)
}

// TaskSvcFacade combines all task-related service interfaces
type TaskSvcFacade interface {
	TaskReaderSvc
	TaskWriterSvc
	AdminTaskSvc
	TaskSuspensionSvc
	TaskSweepSvc
}
