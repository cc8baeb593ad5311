package models

import "time"

// Task is a row of the tasks table.
type Task struct {
	TaskID                string     `db:"task_id"`
	Title                 string     `db:"title"`
	Description           string     `db:"description"`
	Priority              string     `db:"priority"`
	Status                string     `db:"status"`
	TaskType              string     `db:"task_type"`
	TaskScope             string     `db:"task_scope"`
	VisibilityScope       string     `db:"visibility_scope"`
	AssignedTo            string     `db:"assigned_to"`
	WorkerID              *string    `db:"worker_id"`
	DueDate               *time.Time `db:"due_date"`
	RelatedEntityType     *string    `db:"related_entity_type"`
	RelatedEntityID       *string    `db:"related_entity_id"`
	AutoGenerated         bool       `db:"auto_generated"`
	CompletedAt           *time.Time `db:"completed_at"`
	Notes                 string     `db:"notes"`
	CompletionNotes       string     `db:"completion_notes"`
	AssignmentType        *string    `db:"assignment_type"`
	WaitingApproval       bool       `db:"waiting_approval"`
	ApprovedBy            *string    `db:"approved_by"`
	ApprovalDate          *time.Time `db:"approval_date"`
	AdminApprovalRequired bool       `db:"admin_approval_required"`
	AdminApproved         bool       `db:"admin_approved"`
	AdminApprovedBy       *string    `db:"admin_approved_by"`
	AdminApprovalDate     *time.Time `db:"admin_approval_date"`
	SuspensionRequested   bool       `db:"suspension_requested"`
	SuspensionReason      *string    `db:"suspension_reason"`
	SuspensionApproved    bool       `db:"suspension_approved"`
	Archived              bool       `db:"archived"`
	AuditFields
}

// TaskStats is the single-row aggregate behind the task dashboard.
type TaskStats struct {
	Total      int `db:"total"`
	Pending    int `db:"pending"`
	InProgress int `db:"in_progress"`
	Suspended  int `db:"suspended"`
	Completed  int `db:"completed"`
	Urgent     int `db:"urgent"`
	Overdue    int `db:"overdue"`
}
