package pgsql

import (
	"context"
	"net/http"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/SscSPs/business_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

var orderColumns = []string{
	"o.order_id", "o.name", "o.wilaya", "o.product", "o.production_details", "o.paid", "o.total",
	"o.note", "o.status_id", "s.name AS status_name", "o.is_paid", "o.start_date",
	"o.expected_delivery_date", "o.actual_delivery_date", "o.completion_date",
	"o.created_at", "o.created_by", "o.last_updated_at", "o.last_updated_by", "o.version",
}

type PgxOrderRepository struct {
	BaseRepository
}

// newPgxOrderRepository creates a new repository for orders and their statuses.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

func selectOrders() sq.SelectBuilder {
	return psql.Select(orderColumns...).
		From("orders o").
		LeftJoin("order_statuses s ON s.status_id = o.status_id")
}

func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("orders").
		Columns("order_id", "name", "wilaya", "product", "production_details", "paid", "total", "note",
			"status_id", "is_paid", "start_date", "expected_delivery_date", "actual_delivery_date",
			"completion_date", "created_at", "created_by", "last_updated_at", "last_updated_by", "version").
		Values(m.OrderID, m.Name, m.Wilaya, m.Product, m.ProductionDetails, m.Paid, m.Total, m.Note,
			m.StatusID, m.IsPaid, m.StartDate, m.ExpectedDeliveryDate, m.ActualDeliveryDate,
			m.CompletionDate, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version), "order")
	return err
}

func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	m, err := collectOne[models.Order](ctx, r.db(ctx), selectOrders().Where(sq.Eq{"o.order_id": orderID}), "order")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainOrder(*m)
	return &d, nil
}

func (r *PgxOrderRepository) FindOrderByIDForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	m, err := collectOne[models.Order](ctx, r.db(ctx),
		selectOrders().Where(sq.Eq{"o.order_id": orderID}).Suffix("FOR UPDATE OF o"), "order")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainOrder(*m)
	return &d, nil
}

// ListOrders pages by (created_at, order_id) descending.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, *string, error) {
	limit := pagination.ClampLimit(filter.Limit, 20, 100)
	b := selectOrders()
	if filter.StatusID != nil {
		b = b.Where(sq.Eq{"o.status_id": *filter.StatusID})
	}
	if filter.IsPaid != nil {
		b = b.Where(sq.Eq{"o.is_paid": *filter.IsPaid})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		b = b.Where(sq.Or{sq.ILike{"o.name": like}, sq.ILike{"o.product": like}, sq.ILike{"o.wilaya": like}})
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewBadRequestError("invalid nextToken")
		}
		b = b.Where(sq.Expr("(o.created_at, o.order_id) < (?, ?)", createdAt, id))
	}
	b = b.OrderBy("o.created_at DESC", "o.order_id DESC").Limit(uint64(limit + 1))

	ms, err := collectAll[models.Order](ctx, r.db(ctx), b, "orders")
	if err != nil {
		return nil, nil, err
	}
	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.OrderID)
		next = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainOrderSlice(ms), next, nil
}

func (r *PgxOrderRepository) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	ms, err := collectAll[models.Order](ctx, r.db(ctx), selectOrders().OrderBy("o.created_at DESC"), "orders")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainOrderSlice(ms), nil
}

func (r *PgxOrderRepository) ListStalledOrders(ctx context.Context, createdBefore time.Time) ([]domain.Order, error) {
	b := selectOrders().
		Where(sq.NotEq{"o.status_id": nil}).
		Where(sq.Eq{"o.actual_delivery_date": nil}).
		Where(sq.Lt{"o.created_at": createdBefore}).
		OrderBy("o.created_at")
	ms, err := collectAll[models.Order](ctx, r.db(ctx), b, "stalled orders")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainOrderSlice(ms), nil
}

// ListOrderDebtSummaries sums the remaining amount of unpaid debts derived from
// each order's expenses and transports.
func (r *PgxOrderRepository) ListOrderDebtSummaries(ctx context.Context) ([]domain.OrderDebtSummary, error) {
	query := `
		SELECT o.order_id, COALESCE(SUM(d.debt_amount - d.paid_amount), 0) AS debts_amount
		FROM orders o
		LEFT JOIN (
			SELECT e.order_id, 'expense' AS source_type, e.expense_id AS source_id FROM expenses e WHERE e.order_id IS NOT NULL
			UNION ALL
			SELECT t.order_id, 'transport', t.transport_id FROM transports t WHERE t.order_id IS NOT NULL
		) c ON c.order_id = o.order_id
		LEFT JOIN debts d ON d.source_type = c.source_type AND d.source_id = c.source_id AND d.status <> 'paid'
		GROUP BY o.order_id;
	`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, mapReadError(err, "order debt summaries")
	}
	ms, err := collectRows[models.OrderDebtSummary](rows, "order debt summaries")
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderDebtSummary, len(ms))
	for i, m := range ms {
		out[i] = domain.OrderDebtSummary{OrderID: m.OrderID, DebtsAmount: m.DebtsAmount}
	}
	return out, nil
}

func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	m := mapping.ToModelOrder(*order)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("orders").
		Set("name", m.Name).
		Set("wilaya", m.Wilaya).
		Set("product", m.Product).
		Set("production_details", m.ProductionDetails).
		Set("paid", m.Paid).
		Set("total", m.Total).
		Set("note", m.Note).
		Set("status_id", m.StatusID).
		Set("is_paid", m.IsPaid).
		Set("start_date", m.StartDate).
		Set("expected_delivery_date", m.ExpectedDeliveryDate).
		Set("actual_delivery_date", m.ActualDeliveryDate).
		Set("completion_date", m.CompletionDate).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"order_id": m.OrderID, "version": m.Version}), "order")
	if err != nil {
		return err
	}
	if err := r.checkVersionedUpdate(ctx, tag, "orders", "order_id", m.OrderID, "order"); err != nil {
		return err
	}
	order.Version++
	return nil
}

func (r *PgxOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	tag, err := execBuilt(ctx, r.db(ctx), psql.Delete("orders").Where(sq.Eq{"order_id": orderID}), "order")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("order not found")
	}
	return nil
}

func (r *PgxOrderRepository) ListStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	b := psql.Select("status_id", "name", "color", "is_system", "created_at").From("order_statuses").OrderBy("status_id")
	ms, err := collectAll[models.OrderStatus](ctx, r.db(ctx), b, "order statuses")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainOrderStatusSlice(ms), nil
}

func (r *PgxOrderRepository) findStatus(ctx context.Context, where sq.Eq) (*domain.OrderStatus, error) {
	b := psql.Select("status_id", "name", "color", "is_system", "created_at").From("order_statuses").Where(where)
	m, err := collectOne[models.OrderStatus](ctx, r.db(ctx), b, "order status")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainOrderStatus(*m)
	return &d, nil
}

func (r *PgxOrderRepository) FindStatusByID(ctx context.Context, statusID int) (*domain.OrderStatus, error) {
	return r.findStatus(ctx, sq.Eq{"status_id": statusID})
}

func (r *PgxOrderRepository) FindStatusByName(ctx context.Context, name string) (*domain.OrderStatus, error) {
	return r.findStatus(ctx, sq.Eq{"name": name})
}

func (r *PgxOrderRepository) SaveStatus(ctx context.Context, status domain.OrderStatus) (*domain.OrderStatus, error) {
	query, args, err := psql.Insert("order_statuses").
		Columns("name", "color", "is_system", "created_at").
		Values(status.Name, status.Color, status.IsSystem, status.CreatedAt).
		Suffix("RETURNING status_id").
		ToSql()
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to build order status insert", err)
	}
	if err := r.db(ctx).QueryRow(ctx, query, args...).Scan(&status.StatusID); err != nil {
		return nil, mapWriteError(err, "order status")
	}
	return &status, nil
}
