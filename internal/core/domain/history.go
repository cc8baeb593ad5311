package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeType labels an audit row.
type ChangeType string

const (
	ChangeCreated               ChangeType = "created"
	ChangeUpdated               ChangeType = "updated"
	ChangeDeleted               ChangeType = "deleted"
	ChangePayment               ChangeType = "payment"
	ChangeStatus                ChangeType = "status_changed"
	ChangeWorkerAssigned        ChangeType = "worker_assigned"
	ChangeAssignmentDeactivated ChangeType = "assignment_deactivated"
	ChangeTaskSynced            ChangeType = "task_synced"
	ChangeExpenseAdded          ChangeType = "expense_added"
	ChangeTransportAdded        ChangeType = "transport_added"
	ChangeTaskSuspended         ChangeType = "task_suspended"
	ChangeTaskResumed           ChangeType = "task_resumed"
	ChangeAdjustment            ChangeType = "adjustment"
	ChangeEvaluationBonus       ChangeType = "evaluation_bonus"
	ChangeEvaluationPenalty     ChangeType = "evaluation_penalty"
	ChangeSalaryPaid            ChangeType = "salary_paid"
	ChangeDebtPaid              ChangeType = "debt_paid"
	ChangeDebtDeleted           ChangeType = "debt_deleted"
)

// OrderHistory is an immutable audit row about an order.
type OrderHistory struct {
	HistoryID  string     `json:"historyID"`
	OrderID    string     `json:"orderID"`
	ChangeType ChangeType `json:"changeType"`
	Details    string     `json:"details"`
	Actor      string     `json:"actor"`
	Timestamp  time.Time  `json:"timestamp"`
}

// WorkerHistory is an immutable audit row about a worker, with the money amount
// involved when there is one.
type WorkerHistory struct {
	HistoryID  string          `json:"historyID"`
	WorkerID   string          `json:"workerID"`
	ChangeType ChangeType      `json:"changeType"`
	Details    string          `json:"details"`
	Amount     decimal.Decimal `json:"amount"`
	Actor      string          `json:"actor"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewOrderHistory builds an audit row attributed to actor.
func NewOrderHistory(orderID string, change ChangeType, details string, actor Actor, now time.Time) OrderHistory {
	return OrderHistory{
		OrderID:    orderID,
		ChangeType: change,
		Details:    details,
		Actor:      actor.DisplayName(),
		Timestamp:  now,
	}
}

// NewWorkerHistory builds an audit row attributed to actor.
func NewWorkerHistory(workerID string, change ChangeType, details string, amount decimal.Decimal, actor Actor, now time.Time) WorkerHistory {
	return WorkerHistory{
		WorkerID:   workerID,
		ChangeType: change,
		Details:    details,
		Amount:     amount,
		Actor:      actor.DisplayName(),
		Timestamp:  now,
	}
}

// ActivityKind groups feed entries for display.
type ActivityKind string

const (
	ActivityOrder     ActivityKind = "order"
	ActivityPayment   ActivityKind = "payment"
	ActivityTransport ActivityKind = "transport"
	ActivityExpense   ActivityKind = "expense"
	ActivityWorker    ActivityKind = "worker"
	ActivityDebt      ActivityKind = "debt"
)

// Activity is one entry of the feed merging order and worker history.
type Activity struct {
	Kind       ActivityKind     `json:"kind"`
	Subject    EntityRef        `json:"subject"`
	ChangeType ChangeType       `json:"changeType"`
	Details    string           `json:"details"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Actor      string           `json:"actor"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ActivityFilter narrows the feed. Source is EntityOrder, EntityWorker or empty for both.
type ActivityFilter struct {
	Source EntityType
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ClassifyActivity derives the feed kind of a history row.
func ClassifyActivity(source EntityType, change ChangeType) ActivityKind {
	if source == EntityWorker {
		return ActivityWorker
	}
	switch change {
	case ChangePayment:
		return ActivityPayment
	case ChangeTransportAdded:
		return ActivityTransport
	case ChangeExpenseAdded:
		return ActivityExpense
	case ChangeDebtPaid, ChangeDebtDeleted:
		return ActivityDebt
	case ChangeWorkerAssigned, ChangeAssignmentDeactivated, ChangeTaskSynced:
		return ActivityWorker
	default:
		return ActivityOrder
	}
}
