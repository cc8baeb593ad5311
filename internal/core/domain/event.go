package domain

import "time"

// EventKind names a lifecycle event published to the message bus.
type EventKind string

const (
	EventTaskCreated       EventKind = "task.created"
	EventTaskStatusChanged EventKind = "task.status_changed"
	EventTaskApproved      EventKind = "task.approved"
	EventTaskSuspended     EventKind = "task.suspended"
	EventTaskResumed       EventKind = "task.resumed"
	EventTaskArchived      EventKind = "task.archived"
	EventDebtCreated       EventKind = "debt.created"
	EventDebtPaid          EventKind = "debt.paid"
	EventWorkerAssigned    EventKind = "order.worker_assigned"
)

// Event is a fact about an entity, emitted after the transaction that caused it commits.
type Event struct {
	Kind       EventKind `json:"kind"`
	Entity     EntityRef `json:"entity"`
	Status     string    `json:"status,omitempty"`
	ActorID    string    `json:"actorID"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// TaskEvent builds an event about a task in its current state.
func TaskEvent(kind EventKind, t Task, actor Actor, now time.Time) Event {
	return Event{
		Kind:       kind,
		Entity:     EntityRef{Type: EntityTask, ID: t.TaskID},
		Status:     string(t.Status),
		ActorID:    actor.UserID,
		OccurredAt: now,
	}
}
