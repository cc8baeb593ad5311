package domain

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskSuspended  TaskStatus = "suspended"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// OpenTaskStatuses are the statuses in which a task still needs work.
var OpenTaskStatuses = []TaskStatus{TaskPending, TaskInProgress}

// SyncTaskStatuses are the statuses in which an assignment synchronization
// task is considered the live task for its (worker, order) pair.
var SyncTaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskSuspended}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Rank orders priorities from most to least urgent.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

type TaskType string

const (
	TaskTypeGeneral           TaskType = "general"
	TaskTypeOrderCompletion   TaskType = "order_completion"
	TaskTypeAdmin             TaskType = "admin_task"
	TaskTypeSuspensionRequest TaskType = "suspension_request"
	TaskTypeDebt              TaskType = "debt"
	TaskTypeOrder             TaskType = "order"
	TaskTypeWorker            TaskType = "worker"
)

type TaskScope string

const (
	ScopeGeneral         TaskScope = "general"
	ScopeWorker          TaskScope = "worker"
	ScopeManagement      TaskScope = "management"
	ScopeAdminManagement TaskScope = "admin_management"
)

type VisibilityScope string

const (
	VisibilityAll        VisibilityScope = "all"
	VisibilityAdminsOnly VisibilityScope = "admins_only"
	VisibilityAssignee   VisibilityScope = "assignee"
)

// AssignedToManagement is the assignee label of tasks routed to management review.
const AssignedToManagement = "management"

// Task is a unit of tracked work. Regular tasks move pending → in_progress →
// completed → archived with a suspended side branch. Admin tasks additionally
// pass through an approval gate before work starts and after it completes.
type Task struct {
	TaskID          string          `json:"taskID"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Priority        TaskPriority    `json:"priority"`
	Status          TaskStatus      `json:"status"`
	TaskType        TaskType        `json:"taskType"`
	TaskScope       TaskScope       `json:"taskScope"`
	VisibilityScope VisibilityScope `json:"visibilityScope"`
	AssignedTo      string          `json:"assignedTo"`
	WorkerID        *string         `json:"workerID,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	Related         *EntityRef      `json:"related,omitempty"`
	AutoGenerated   bool            `json:"autoGenerated"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	Notes           string          `json:"notes"`
	CompletionNotes string          `json:"completionNotes"`
	AssignmentType  *AssignmentType `json:"assignmentType,omitempty"`

	WaitingApproval bool       `json:"waitingApproval"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovalDate    *time.Time `json:"approvalDate,omitempty"`

	AdminApprovalRequired bool       `json:"adminApprovalRequired"`
	AdminApproved         bool       `json:"adminApproved"`
	AdminApprovedBy       *string    `json:"adminApprovedBy,omitempty"`
	AdminApprovalDate     *time.Time `json:"adminApprovalDate,omitempty"`

	SuspensionRequested bool    `json:"suspensionRequested"`
	SuspensionReason    *string `json:"suspensionReason,omitempty"`
	SuspensionApproved  bool    `json:"suspensionApproved"`

	Archived bool `json:"archived"`
	AuditFields
}

// IsOpen reports whether the task still awaits work.
func (t Task) IsOpen() bool {
	return t.Status == TaskPending || t.Status == TaskInProgress
}

// IsOverdue reports whether an open task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != TaskCompleted && t.Status != TaskCancelled && now.After(*t.DueDate)
}

// DaysUntilDue is negative once the due date has passed. It returns nil when
// the task has no due date.
func (t Task) DaysUntilDue(now time.Time) *int {
	if t.DueDate == nil {
		return nil
	}
	d := DaysBetween(now, *t.DueDate)
	return &d
}

// IsUrgent reports open high or critical tasks.
func (t Task) IsUrgent() bool {
	return t.IsOpen() && (t.Priority == PriorityHigh || t.Priority == PriorityCritical)
}

func (t Task) isAdminTask() bool {
	return t.AdminApprovalRequired
}

func invalid(msg string) error {
	return apperrors.NewInvalidTransitionError(msg)
}

// Start moves a pending task into progress. Admin tasks start only through
// ApproveAdmin.
func (t *Task) Start(actor Actor, now time.Time) error {
	if t.isAdminTask() {
		return invalid("admin tasks start when approved by an admin")
	}
	if t.Status != TaskPending {
		return invalid("only pending tasks can be started")
	}
	t.Status = TaskInProgress
	t.Touch(actor, now)
	return nil
}

// Complete finishes a regular task. Worker scoped tasks then wait for an admin
// to approve the completion.
func (t *Task) Complete(actor Actor, notes string, now time.Time) error {
	if t.isAdminTask() {
		return invalid("admin tasks are completed through the admin approval flow")
	}
	if !t.IsOpen() {
		return invalid("only pending or in progress tasks can be completed")
	}
	t.Status = TaskCompleted
	t.CompletionNotes = notes
	t.CompletedAt = &now
	t.WaitingApproval = t.TaskScope == ScopeWorker
	t.Touch(actor, now)
	return nil
}

// ApproveCompletion accepts a completed regular task waiting for approval.
func (t *Task) ApproveCompletion(actor Actor, now time.Time) error {
	if t.isAdminTask() {
		return invalid("admin tasks use the final admin approval")
	}
	if !t.WaitingApproval || t.Status != TaskCompleted {
		return invalid("task is not waiting for approval")
	}
	t.WaitingApproval = false
	t.ApprovedBy = &actor.UserID
	t.ApprovalDate = &now
	t.Touch(actor, now)
	return nil
}

// Cancel abandons an open or suspended task.
func (t *Task) Cancel(actor Actor, now time.Time) error {
	if !t.IsOpen() && t.Status != TaskSuspended {
		return invalid("only open or suspended tasks can be cancelled")
	}
	t.Status = TaskCancelled
	t.Touch(actor, now)
	return nil
}

// Archive hides a finished task that no longer waits for approval.
func (t *Task) Archive(actor Actor, now time.Time) error {
	if t.Archived {
		return invalid("task is already archived")
	}
	if t.Status != TaskCompleted && t.Status != TaskCancelled {
		return invalid("only completed or cancelled tasks can be archived")
	}
	if t.WaitingApproval {
		return invalid("task is still waiting for approval")
	}
	t.Archived = true
	t.Touch(actor, now)
	return nil
}

// ApproveAdmin is the first admin gate: it releases the task for work.
func (t *Task) ApproveAdmin(actor Actor, now time.Time) error {
	if !t.AdminApprovalRequired {
		return invalid("task does not require admin approval")
	}
	if t.AdminApproved {
		return invalid("task is already admin approved")
	}
	t.AdminApproved = true
	t.AdminApprovedBy = &actor.UserID
	t.AdminApprovalDate = &now
	t.Status = TaskInProgress
	t.Touch(actor, now)
	return nil
}

// CompleteAdmin records completion of an approved admin task and parks it for
// final approval.
func (t *Task) CompleteAdmin(actor Actor, notes string, now time.Time) error {
	if !t.AdminApproved {
		return invalid("task must be admin approved before completion")
	}
	if t.Status != TaskInProgress {
		return invalid("only in progress admin tasks can be completed")
	}
	t.Status = TaskCompleted
	t.CompletionNotes = notes
	t.CompletedAt = &now
	t.WaitingApproval = true
	t.Touch(actor, now)
	return nil
}

// FinalApprove is the second admin gate. It archives the task. When
// requireDistinct is set the final approver must differ from the first one.
func (t *Task) FinalApprove(actor Actor, requireDistinct bool, now time.Time) error {
	if !t.WaitingApproval || t.Status != TaskCompleted {
		return invalid("task is not waiting for final approval")
	}
	if requireDistinct && t.AdminApprovedBy != nil && *t.AdminApprovedBy == actor.UserID {
		return apperrors.NewForbiddenError("final approval must come from a different admin than the first approval")
	}
	t.WaitingApproval = false
	t.ApprovedBy = &actor.UserID
	t.ApprovalDate = &now
	t.Archived = true
	t.Touch(actor, now)
	return nil
}

// RequestSuspension pauses a worker's in progress task pending management review.
func (t *Task) RequestSuspension(actor Actor, reason string, now time.Time) error {
	if t.WorkerID == nil {
		return invalid("only worker tasks can be suspended")
	}
	if t.Status != TaskInProgress {
		return invalid("only in progress tasks can be suspended")
	}
	if reason == "" {
		return apperrors.NewValidationFailedError("a suspension reason is required")
	}
	t.Status = TaskSuspended
	t.SuspensionRequested = true
	t.SuspensionReason = &reason
	t.SuspensionApproved = false
	t.Touch(actor, now)
	return nil
}

// ApproveSuspension confirms a pending suspension request.
func (t *Task) ApproveSuspension(actor Actor, now time.Time) error {
	if !t.SuspensionRequested || t.Status != TaskSuspended {
		return invalid("task has no pending suspension request")
	}
	if t.SuspensionApproved {
		return invalid("suspension is already approved")
	}
	t.SuspensionApproved = true
	t.Touch(actor, now)
	return nil
}

// Resume returns a suspended task to progress and clears the suspension state.
func (t *Task) Resume(actor Actor, now time.Time) error {
	if t.Status != TaskSuspended {
		return invalid("only suspended tasks can be resumed")
	}
	t.Status = TaskInProgress
	t.SuspensionRequested = false
	t.SuspensionReason = nil
	t.SuspensionApproved = false
	t.Touch(actor, now)
	return nil
}

// TaskStats counts tasks by state for dashboards.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Suspended  int `json:"suspended"`
	Completed  int `json:"completed"`
	Urgent     int `json:"urgent"`
	Overdue    int `json:"overdue"`
}

// SweepResult counts tasks created by one auto-task sweep.
type SweepResult struct {
	DebtTasks   int `json:"debtTasks"`
	OrderTasks  int `json:"orderTasks"`
	WorkerTasks int `json:"workerTasks"`
}

// Created is the total number of tasks the sweep inserted.
func (r SweepResult) Created() int {
	return r.DebtTasks + r.OrderTasks + r.WorkerTasks
}
