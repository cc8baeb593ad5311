package pgsql

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportRepository runs read-only aggregates across the business tables.
type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepository {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportRepository = (*PgxReportRepository)(nil)

func (r *PgxReportRepository) FinancialTotals(ctx context.Context, period domain.ReportPeriod) (*domain.FinancialTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(o.total), 0)                            AS orders_revenue,
			COALESCE(SUM(o.paid), 0)                             AS orders_paid,
			COUNT(o.order_id)::int                               AS orders_count,
			COALESCE(SUM(o.total) FILTER (WHERE o.is_paid), 0)     AS paid_orders_total,
			COALESCE(SUM(o.total) FILTER (WHERE NOT o.is_paid), 0) AS unpaid_orders_total,
			(SELECT COALESCE(SUM(total_amount), 0) FROM expenses
				WHERE purchase_date BETWEEN $1 AND $2)           AS purchases,
			(SELECT COALESCE(SUM(transport_amount), 0) FROM transports
				WHERE transport_date BETWEEN $1 AND $2)          AS transport,
			(SELECT COALESCE(SUM(debt_amount), 0) FROM debts)    AS debt_total,
			(SELECT COALESCE(SUM(paid_amount), 0) FROM debts)    AS debt_paid
		FROM orders o
		WHERE o.created_at BETWEEN $1 AND $2;
	`
	rows, err := r.db(ctx).Query(ctx, query, period.From, period.To)
	if err != nil {
		return nil, mapReadError(err, "financial totals")
	}
	ms, err := collectRows[models.FinancialTotals](rows, "financial totals")
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return &domain.FinancialTotals{}, nil
	}
	totals := mapping.ToDomainFinancialTotals(ms[0])
	return &totals, nil
}

func (r *PgxReportRepository) ListExpensesInPeriod(ctx context.Context, period domain.ReportPeriod, category string) ([]domain.Expense, error) {
	b := psql.Select(expenseColumns...).From("expenses").
		Where(sq.GtOrEq{"purchase_date": period.From}).
		Where(sq.LtOrEq{"purchase_date": period.To}).
		OrderBy("purchase_date DESC", "expense_id")
	if category != "" {
		b = b.Where(sq.Eq{"category": category})
	}
	ms, err := collectAll[models.Expense](ctx, r.db(ctx), b, "expenses")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainExpenseSlice(ms), nil
}

func (r *PgxReportRepository) CountEndedAssignments(ctx context.Context) (map[string]int, error) {
	b := psql.Select("worker_id", "COUNT(*)::int AS ended").
		From("order_assignments").
		Where(sq.Eq{"is_active": false}).
		GroupBy("worker_id")
	ms, err := collectAll[models.AssignmentCount](ctx, r.db(ctx), b, "assignment counts")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(ms))
	for _, m := range ms {
		counts[m.WorkerID] = m.Count
	}
	return counts, nil
}
