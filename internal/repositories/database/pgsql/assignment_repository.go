package pgsql

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAssignmentRepository struct {
	BaseRepository
}

func newPgxAssignmentRepository(pool *pgxpool.Pool) portsrepo.AssignmentRepositoryFacade {
	return &PgxAssignmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AssignmentRepositoryFacade = (*PgxAssignmentRepository)(nil)

func selectAssignments() sq.SelectBuilder {
	return psql.Select("a.assignment_id", "a.order_id", "a.worker_id", "w.name AS worker_name",
		"a.assignment_type", "a.assigned_date", "a.completed_date", "a.is_active", "a.notes", "a.assigned_by").
		From("order_assignments a").
		Join("workers w ON w.worker_id = a.worker_id")
}

func (r *PgxAssignmentRepository) list(ctx context.Context, b sq.SelectBuilder) ([]domain.OrderAssignment, error) {
	ms, err := collectAll[models.OrderAssignment](ctx, r.db(ctx), b, "assignments")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAssignmentSlice(ms), nil
}

func (r *PgxAssignmentRepository) FindAssignmentByID(ctx context.Context, assignmentID string) (*domain.OrderAssignment, error) {
	m, err := collectOne[models.OrderAssignment](ctx, r.db(ctx), selectAssignments().Where(sq.Eq{"a.assignment_id": assignmentID}), "assignment")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainAssignment(*m)
	return &d, nil
}

func (r *PgxAssignmentRepository) ListAssignmentsByOrder(ctx context.Context, orderID string) ([]domain.OrderAssignment, error) {
	return r.list(ctx, selectAssignments().Where(sq.Eq{"a.order_id": orderID}).OrderBy("a.assigned_date DESC"))
}

func (r *PgxAssignmentRepository) ListActiveAssignments(ctx context.Context) ([]domain.OrderAssignment, error) {
	return r.list(ctx, selectAssignments().Where(sq.Eq{"a.is_active": true}).OrderBy("a.assigned_date"))
}

func (r *PgxAssignmentRepository) ListActiveAssignmentsByWorker(ctx context.Context, workerID string) ([]domain.OrderAssignment, error) {
	return r.list(ctx, selectAssignments().Where(sq.Eq{"a.worker_id": workerID, "a.is_active": true}).OrderBy("a.assigned_date DESC"))
}

func (r *PgxAssignmentRepository) DeactivateActiveAssignment(ctx context.Context, orderID, workerID string, now time.Time) (int64, error) {
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("order_assignments").
		Set("is_active", false).
		Set("completed_date", now).
		Where(sq.Eq{"order_id": orderID, "worker_id": workerID, "is_active": true}), "assignment")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgxAssignmentRepository) SaveAssignment(ctx context.Context, assignment domain.OrderAssignment) error {
	m := mapping.ToModelAssignment(assignment)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("order_assignments").
		Columns("assignment_id", "order_id", "worker_id", "assignment_type", "assigned_date",
			"completed_date", "is_active", "notes", "assigned_by").
		Values(m.AssignmentID, m.OrderID, m.WorkerID, m.AssignmentType, m.AssignedDate,
			m.CompletedDate, m.IsActive, m.Notes, m.AssignedBy), "assignment")
	return err
}

func (r *PgxAssignmentRepository) DeactivateAssignment(ctx context.Context, assignmentID string, now time.Time) error {
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("order_assignments").
		Set("is_active", false).
		Set("completed_date", now).
		Where(sq.Eq{"assignment_id": assignmentID, "is_active": true}), "assignment")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("active assignment not found")
	}
	return nil
}
