package domain

import "time"

// AssignmentType describes where the assigned work happens.
type AssignmentType string

const (
	AssignmentWorkshop AssignmentType = "workshop"
	AssignmentField    AssignmentType = "field"
	AssignmentTravel   AssignmentType = "travel"
)

// OrderAssignment links a worker to an order. At most one assignment per
// (order, worker) pair is active at a time.
type OrderAssignment struct {
	AssignmentID   string         `json:"assignmentID"`
	OrderID        string         `json:"orderID"`
	WorkerID       string         `json:"workerID"`
	WorkerName     string         `json:"workerName,omitempty"`
	AssignmentType AssignmentType `json:"assignmentType"`
	AssignedDate   time.Time      `json:"assignedDate"`
	CompletedDate  *time.Time     `json:"completedDate,omitempty"`
	IsActive       bool           `json:"isActive"`
	Notes          string         `json:"notes"`
	AssignedBy     string         `json:"assignedBy"`
}

// SyncResult reports the outcome of re-synchronising tasks for all active assignments.
type SyncResult struct {
	Synced int      `json:"synced"`
	Errors int      `json:"errors"`
	Total  int      `json:"total"`
	Failed []string `json:"failed,omitempty"`
}
