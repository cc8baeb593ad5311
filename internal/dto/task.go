package dto

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// CreateTaskRequest defines a manually created task.
type CreateTaskRequest struct {
	Title           string                 `json:"title" binding:"required"`
	Description     string                 `json:"description"`
	Priority        domain.TaskPriority    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	TaskType        domain.TaskType        `json:"taskType" binding:"omitempty,oneof=general order debt worker"`
	TaskScope       domain.TaskScope       `json:"taskScope" binding:"omitempty,oneof=general worker management"`
	VisibilityScope domain.VisibilityScope `json:"visibilityScope" binding:"omitempty,oneof=all admins_only assignee"`
	AssignedTo      string                 `json:"assignedTo"`
	WorkerID        *string                `json:"workerID"`
	DueDate         *time.Time             `json:"dueDate"`
	RelatedType     *domain.EntityType     `json:"relatedEntityType" binding:"omitempty,oneof=order worker debt expense transport task"`
	RelatedID       *string                `json:"relatedEntityID"`
	AssignmentType  *domain.AssignmentType `json:"assignmentType" binding:"omitempty,oneof=workshop field travel"`
	Notes           string                 `json:"notes"`
}

// CreateAdminTaskRequest defines a task that needs two admin approvals.
type CreateAdminTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssignedTo  string              `json:"assignedTo"`
	DueDate     *time.Time          `json:"dueDate"`
	Notes       string              `json:"notes"`
}

// UpdateTaskRequest carries the editable task fields. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Priority    *domain.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssignedTo  *string              `json:"assignedTo"`
	DueDate     *time.Time           `json:"dueDate"`
	Notes       *string              `json:"notes"`
	Version     int64                `json:"version" binding:"required"`
}

// CompleteTaskRequest carries optional completion notes.
type CompleteTaskRequest struct {
	Notes string `json:"notes"`
}

// SuspendTaskRequest asks management to pause a task.
type SuspendTaskRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListTasksParams defines query parameters for listing tasks.
type ListTasksParams struct {
	Limit           int                  `form:"limit,default=20"`
	NextToken       *string              `form:"nextToken"`
	Status          []domain.TaskStatus  `form:"status"`
	Priority        *domain.TaskPriority `form:"priority"`
	TaskType        *domain.TaskType     `form:"taskType"`
	TaskScope       *domain.TaskScope    `form:"taskScope"`
	WorkerID        *string              `form:"workerID"`
	AssignedTo      *string              `form:"assignedTo"`
	IncludeArchived bool                 `form:"includeArchived"`
	OnlyOverdue     bool                 `form:"overdue"`
}

// TaskResponse is a task with its due-date derived fields.
type TaskResponse struct {
	domain.Task
	IsOverdue    bool `json:"isOverdue"`
	DaysUntilDue *int `json:"daysUntilDue,omitempty"`
	IsUrgent     bool `json:"isUrgent"`
}

// ListTasksResponse wraps a page of tasks.
type ListTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToTaskResponse decorates a task with the fields derived at now.
func ToTaskResponse(t domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		Task:         t,
		IsOverdue:    t.IsOverdue(now),
		DaysUntilDue: t.DaysUntilDue(now),
		IsUrgent:     t.IsUrgent(),
	}
}

// ToTaskResponses decorates a slice of tasks.
func ToTaskResponses(tasks []domain.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskResponse(t, now)
	}
	return out
}
