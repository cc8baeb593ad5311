package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	firstAdmin  = domain.Actor{UserID: "admin-1", Name: "Sara", Role: domain.RoleAdmin}
	secondAdmin = domain.Actor{UserID: "admin-2", Name: "Yacine", Role: domain.RoleManager}
	workerActor = domain.Actor{UserID: "worker-1", Name: "Nadir", Role: domain.RoleWorker}
)

func newAdminTask() domain.Task {
	return domain.Task{
		TaskID:                "task-1",
		Status:                domain.TaskPending,
		TaskType:              domain.TaskTypeAdmin,
		TaskScope:             domain.ScopeAdminManagement,
		AdminApprovalRequired: true,
	}
}

func TestTask_AdminApprovalFlow(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	task := newAdminTask()

	require.NoError(t, task.ApproveAdmin(firstAdmin, now))
	assert.True(t, task.AdminApproved)
	assert.Equal(t, domain.TaskInProgress, task.Status)
	assert.Equal(t, "admin-1", *task.AdminApprovedBy)

	require.NoError(t, task.CompleteAdmin(workerActor, "fitted and tested", now.Add(time.Hour)))
	assert.Equal(t, domain.TaskCompleted, task.Status)
	assert.True(t, task.WaitingApproval)
	assert.Equal(t, "fitted and tested", task.CompletionNotes)
	require.NotNil(t, task.CompletedAt)

	require.NoError(t, task.FinalApprove(secondAdmin, true, now.Add(2*time.Hour)))
	assert.False(t, task.WaitingApproval)
	assert.True(t, task.Archived)
	assert.Equal(t, "admin-2", *task.ApprovedBy)
	require.NotNil(t, task.ApprovalDate)
}

func TestTask_CompleteAdminRequiresApproval(t *testing.T) {
	task := newAdminTask()
	task.Status = domain.TaskInProgress
	before := task

	err := task.CompleteAdmin(workerActor, "done", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	assert.Equal(t, before, task, "rejected transition must not change state")
}

func TestTask_AdminGuards(t *testing.T) {
	now := time.Now()

	t.Run("approve twice", func(t *testing.T) {
		task := newAdminTask()
		require.NoError(t, task.ApproveAdmin(firstAdmin, now))
		assert.ErrorIs(t, task.ApproveAdmin(firstAdmin, now), apperrors.ErrInvalidTransition)
	})

	t.Run("approve task without approval requirement", func(t *testing.T) {
		task := domain.Task{Status: domain.TaskPending}
		assert.ErrorIs(t, task.ApproveAdmin(firstAdmin, now), apperrors.ErrInvalidTransition)
	})

	t.Run("final approve before completion", func(t *testing.T) {
		task := newAdminTask()
		require.NoError(t, task.ApproveAdmin(firstAdmin, now))
		assert.ErrorIs(t, task.FinalApprove(secondAdmin, false, now), apperrors.ErrInvalidTransition)
		assert.False(t, task.Archived)
	})

	t.Run("same admin allowed when policy is off", func(t *testing.T) {
		task := newAdminTask()
		require.NoError(t, task.ApproveAdmin(firstAdmin, now))
		require.NoError(t, task.CompleteAdmin(firstAdmin, "", now))
		assert.NoError(t, task.FinalApprove(firstAdmin, false, now))
	})

	t.Run("same admin rejected when distinct approvers required", func(t *testing.T) {
		task := newAdminTask()
		require.NoError(t, task.ApproveAdmin(firstAdmin, now))
		require.NoError(t, task.CompleteAdmin(firstAdmin, "", now))
		err := task.FinalApprove(firstAdmin, true, now)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.True(t, task.WaitingApproval)
	})

	t.Run("admin task cannot use the regular start", func(t *testing.T) {
		task := newAdminTask()
		assert.ErrorIs(t, task.Start(firstAdmin, now), apperrors.ErrInvalidTransition)
	})
}

func TestTask_SuspensionFlow(t *testing.T) {
	now := time.Now()
	workerID := "w-1"
	task := domain.Task{Status: domain.TaskInProgress, WorkerID: &workerID, TaskScope: domain.ScopeWorker}

	require.NoError(t, task.RequestSuspension(workerActor, "waiting for glass delivery", now))
	assert.Equal(t, domain.TaskSuspended, task.Status)
	assert.True(t, task.SuspensionRequested)
	assert.Equal(t, "waiting for glass delivery", *task.SuspensionReason)

	assert.ErrorIs(t, task.RequestSuspension(workerActor, "again", now), apperrors.ErrInvalidTransition)

	require.NoError(t, task.ApproveSuspension(firstAdmin, now))
	assert.True(t, task.SuspensionApproved)
	assert.ErrorIs(t, task.ApproveSuspension(firstAdmin, now), apperrors.ErrInvalidTransition)

	require.NoError(t, task.Resume(firstAdmin, now))
	assert.Equal(t, domain.TaskInProgress, task.Status)
	assert.False(t, task.SuspensionRequested)
	assert.False(t, task.SuspensionApproved)
	assert.Nil(t, task.SuspensionReason)
}

func TestTask_SuspensionGuards(t *testing.T) {
	now := time.Now()
	workerID := "w-1"

	noWorker := domain.Task{Status: domain.TaskInProgress}
	assert.ErrorIs(t, noWorker.RequestSuspension(workerActor, "x", now), apperrors.ErrInvalidTransition)

	pending := domain.Task{Status: domain.TaskPending, WorkerID: &workerID}
	assert.ErrorIs(t, pending.RequestSuspension(workerActor, "x", now), apperrors.ErrInvalidTransition)

	noReason := domain.Task{Status: domain.TaskInProgress, WorkerID: &workerID}
	assert.ErrorIs(t, noReason.RequestSuspension(workerActor, "", now), apperrors.ErrValidation)

	running := domain.Task{Status: domain.TaskInProgress, WorkerID: &workerID}
	assert.ErrorIs(t, running.Resume(firstAdmin, now), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, running.ApproveSuspension(firstAdmin, now), apperrors.ErrInvalidTransition)
}

func TestTask_CompleteAndArchive(t *testing.T) {
	now := time.Now()

	workerTask := domain.Task{Status: domain.TaskInProgress, TaskScope: domain.ScopeWorker}
	require.NoError(t, workerTask.Complete(workerActor, "done", now))
	assert.True(t, workerTask.WaitingApproval)
	assert.ErrorIs(t, workerTask.Archive(firstAdmin, now), apperrors.ErrInvalidTransition)
	require.NoError(t, workerTask.ApproveCompletion(firstAdmin, now))
	require.NoError(t, workerTask.Archive(firstAdmin, now))
	assert.True(t, workerTask.Archived)
	assert.ErrorIs(t, workerTask.Archive(firstAdmin, now), apperrors.ErrInvalidTransition)

	general := domain.Task{Status: domain.TaskPending, TaskScope: domain.ScopeGeneral}
	require.NoError(t, general.Complete(firstAdmin, "", now))
	assert.False(t, general.WaitingApproval)
	assert.ErrorIs(t, general.Complete(firstAdmin, "", now), apperrors.ErrInvalidTransition)
}

func TestTask_DueDates(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 5)

	overdue := domain.Task{Status: domain.TaskPending, DueDate: &past}
	assert.True(t, overdue.IsOverdue(now))
	assert.Equal(t, -2, *overdue.DaysUntilDue(now))

	upcoming := domain.Task{Status: domain.TaskInProgress, DueDate: &future}
	assert.False(t, upcoming.IsOverdue(now))
	assert.Equal(t, 5, *upcoming.DaysUntilDue(now))

	done := domain.Task{Status: domain.TaskCompleted, DueDate: &past}
	assert.False(t, done.IsOverdue(now))

	assert.Nil(t, domain.Task{}.DaysUntilDue(now))
}

func TestTaskPriority_Rank(t *testing.T) {
	assert.Less(t, domain.PriorityCritical.Rank(), domain.PriorityHigh.Rank())
	assert.Less(t, domain.PriorityHigh.Rank(), domain.PriorityMedium.Rank())
	assert.Less(t, domain.PriorityMedium.Rank(), domain.PriorityLow.Rank())
}
