package pgsql

import (
	"context"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/SscSPs/business_management_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxHistoryRepository appends to the order and worker audit tables. Rows are
// never updated.
type PgxHistoryRepository struct {
	BaseRepository
}

func newPgxHistoryRepository(pool *pgxpool.Pool) portsrepo.HistoryRepositoryFacade {
	return &PgxHistoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HistoryRepositoryFacade = (*PgxHistoryRepository)(nil)

func (r *PgxHistoryRepository) SaveOrderHistory(ctx context.Context, entry domain.OrderHistory) error {
	m := mapping.ToModelOrderHistory(entry)
	if m.HistoryID == "" {
		m.HistoryID = uuid.NewString()
	}
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("order_history").
		Columns("history_id", "order_id", "change_type", "details", "actor", "timestamp").
		Values(m.HistoryID, m.OrderID, m.ChangeType, m.Details, m.Actor, m.Timestamp), "order history")
	return err
}

func (r *PgxHistoryRepository) ListOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	b := psql.Select("history_id", "order_id", "change_type", "details", "actor", "timestamp").
		From("order_history").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("timestamp DESC")
	ms, err := collectAll[models.OrderHistory](ctx, r.db(ctx), b, "order history")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainOrderHistorySlice(ms), nil
}

func (r *PgxHistoryRepository) SaveWorkerHistory(ctx context.Context, entry domain.WorkerHistory) error {
	m := mapping.ToModelWorkerHistory(entry)
	if m.HistoryID == "" {
		m.HistoryID = uuid.NewString()
	}
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("worker_history").
		Columns("history_id", "worker_id", "change_type", "details", "amount", "actor", "timestamp").
		Values(m.HistoryID, m.WorkerID, m.ChangeType, m.Details, m.Amount, m.Actor, m.Timestamp), "worker history")
	return err
}

func (r *PgxHistoryRepository) ListWorkerHistory(ctx context.Context, workerID string) ([]domain.WorkerHistory, error) {
	b := psql.Select("history_id", "worker_id", "change_type", "details", "amount", "actor", "timestamp").
		From("worker_history").
		Where(sq.Eq{"worker_id": workerID}).
		OrderBy("timestamp DESC")
	ms, err := collectAll[models.WorkerHistory](ctx, r.db(ctx), b, "worker history")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainWorkerHistorySlice(ms), nil
}

// ListActivity unions both history tables. Each branch is limited on its own
// so the timestamp indexes serve the query.
func (r *PgxHistoryRepository) ListActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	limit := pagination.ClampLimit(filter.Limit, 50, 200)
	var (
		branches []string
		args     []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	branch := func(source domain.EntityType, table, idColumn, amount string) string {
		var where []string
		if filter.From != nil {
			where = append(where, "timestamp >= "+arg(*filter.From))
		}
		if filter.To != nil {
			where = append(where, "timestamp <= "+arg(*filter.To))
		}
		q := "SELECT '" + string(source) + "' AS source, " + idColumn + " AS subject_id, change_type, details, " +
			amount + " AS amount, actor, timestamp FROM " + table
		if len(where) > 0 {
			q += " WHERE " + strings.Join(where, " AND ")
		}
		return "(" + q + " ORDER BY timestamp DESC LIMIT " + arg(limit) + ")"
	}
	if filter.Source == "" || filter.Source == domain.EntityOrder {
		branches = append(branches, branch(domain.EntityOrder, "order_history", "order_id", "NULL::numeric"))
	}
	if filter.Source == "" || filter.Source == domain.EntityWorker {
		branches = append(branches, branch(domain.EntityWorker, "worker_history", "worker_id", "amount"))
	}
	if len(branches) == 0 {
		return []domain.Activity{}, nil
	}
	query := strings.Join(branches, " UNION ALL ") + " ORDER BY timestamp DESC LIMIT " + arg(limit)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, "activity")
	}
	ms, err := collectRows[models.Activity](rows, "activity")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainActivitySlice(ms), nil
}
