package domain

import "time"

// OrderFilter narrows order listings. NextToken is an opaque keyset cursor.
type OrderFilter struct {
	StatusID  *int
	IsPaid    *bool
	Search    string
	Limit     int
	NextToken *string
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Statuses        []TaskStatus
	Priority        *TaskPriority
	TaskType        *TaskType
	TaskScope       *TaskScope
	WorkerID        *string
	AssignedTo      *string
	Related         *EntityRef
	IncludeArchived bool
	OnlyOverdue     bool
	AdminsView      bool
	Now             time.Time
	Limit           int
	NextToken       *string
}

// DebtFilter narrows debt listings.
type DebtFilter struct {
	Status     *DebtStatus
	SourceType *EntityType
	ManualOnly bool
	Search     string
	Limit      int
	Offset     int
}

// OrderDetails is an order together with its derived financial view.
type OrderDetails struct {
	Order
	Financials OrderFinancials `json:"financials"`
}

// WorkerDetails is a worker with derived salary and current assignments.
type WorkerDetails struct {
	Worker
	TotalSalary       string            `json:"totalSalary"`
	ActiveAssignments []OrderAssignment `json:"activeAssignments"`
}

// AssignmentResult reports everything a worker assignment changed.
type AssignmentResult struct {
	Assignment    OrderAssignment `json:"assignment"`
	Task          Task            `json:"task"`
	TaskCreated   bool            `json:"taskCreated"`
	StatusChanged bool            `json:"statusChanged"`
}

// SuspensionResult is the suspended task and the review task routed to management.
type SuspensionResult struct {
	Task       Task  `json:"task"`
	ReviewTask *Task `json:"reviewTask,omitempty"`
}
