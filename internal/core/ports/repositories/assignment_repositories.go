package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// AssignmentRepositoryFacade defines persistence for order assignments.
// Storage guarantees at most one active assignment per (order, worker).
type AssignmentRepositoryFacade interface {
	FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.OrderAssignment, error)
	ListAssignmentsByOrder(ctx context.Context, orderID string) ([]domain.OrderAssignment, error)
	ListActiveAssignments(ctx context.Context) ([]domain.OrderAssignment, error)
	ListActiveAssignmentsByWorker(ctx context.Context, workerID string) ([]domain.OrderAssignment, error)

	// DeactivateActiveAssignment closes the active assignment of the pair, if any.
	DeactivateActiveAssignment(ctx context.Context, orderID, workerID string, now time.Time) (int64, error)

	// SaveAssignment inserts a new assignment. A concurrent active assignment for
	// the same pair makes it fail with apperrors.ErrDuplicate.
	SaveAssignment(ctx context.Context, assignment domain.OrderAssignment) error

	// DeactivateAssignment closes one assignment by id.
	DeactivateAssignment(ctx context.Context, assignmentID string, now time.Time) error
}
