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

var debtColumns = []string{
	"debt_id", "name", "phone", "address", "debt_amount", "paid_amount", "start_date", "payment_date",
	"status", "source_type", "source_id", "description", "recorded_by",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "version",
}

func debtValues(m models.Debt) []any {
	return []any{
		m.DebtID, m.Name, m.Phone, m.Address, m.DebtAmount, m.PaidAmount, m.StartDate, m.PaymentDate,
		m.Status, m.SourceType, m.SourceID, m.Description, m.RecordedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	}
}

type PgxDebtRepository struct {
	BaseRepository
}

func newPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

func selectDebts() sq.SelectBuilder {
	return psql.Select(debtColumns...).From("debts")
}

func (r *PgxDebtRepository) findOne(ctx context.Context, b sq.SelectBuilder) (*domain.Debt, error) {
	m, err := collectOne[models.Debt](ctx, r.db(ctx), b, "debt")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainDebt(*m)
	return &d, nil
}

func (r *PgxDebtRepository) list(ctx context.Context, b sq.SelectBuilder, entity string) ([]domain.Debt, error) {
	ms, err := collectAll[models.Debt](ctx, r.db(ctx), b, entity)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainDebtSlice(ms), nil
}

func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	return r.findOne(ctx, selectDebts().Where(sq.Eq{"debt_id": debtID}))
}

func (r *PgxDebtRepository) FindDebtByIDForUpdate(ctx context.Context, debtID string) (*domain.Debt, error) {
	return r.findOne(ctx, selectDebts().Where(sq.Eq{"debt_id": debtID}).Suffix("FOR UPDATE"))
}

func (r *PgxDebtRepository) FindDebtBySource(ctx context.Context, source domain.EntityRef) (*domain.Debt, error) {
	return r.findOne(ctx, selectDebts().Where(sq.Eq{"source_type": string(source.Type), "source_id": source.ID}))
}

func (r *PgxDebtRepository) ListDebts(ctx context.Context, filter domain.DebtFilter) ([]domain.Debt, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	b := selectDebts()
	if filter.Status != nil {
		b = b.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.ManualOnly {
		b = b.Where(sq.Eq{"source_type": nil})
	} else if filter.SourceType != nil {
		b = b.Where(sq.Eq{"source_type": string(*filter.SourceType)})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		b = b.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"phone": like}, sq.ILike{"description": like}})
	}
	b = b.OrderBy("start_date DESC", "debt_id").Limit(uint64(limit)).Offset(uint64(max(filter.Offset, 0)))
	return r.list(ctx, b, "debts")
}

func (r *PgxDebtRepository) ListUnpaidDebtsByOrder(ctx context.Context, orderID string) ([]domain.Debt, error) {
	b := selectDebts().
		Where(sq.NotEq{"status": string(domain.DebtPaid)}).
		Where(sq.Or{
			sq.And{
				sq.Eq{"source_type": string(domain.EntityExpense)},
				sq.Expr("source_id IN (SELECT expense_id FROM expenses WHERE order_id = ?)", orderID),
			},
			sq.And{
				sq.Eq{"source_type": string(domain.EntityTransport)},
				sq.Expr("source_id IN (SELECT transport_id FROM transports WHERE order_id = ?)", orderID),
			},
		}).
		OrderBy("start_date")
	return r.list(ctx, b, "order debts")
}

func (r *PgxDebtRepository) ListOverdueDebts(ctx context.Context, startedBefore time.Time) ([]domain.Debt, error) {
	b := selectDebts().
		Where(sq.NotEq{"status": string(domain.DebtPaid)}).
		Where(sq.Lt{"start_date": startedBefore}).
		OrderBy("start_date")
	return r.list(ctx, b, "overdue debts")
}

func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("debts").Columns(debtColumns...).Values(debtValues(m)...), "debt")
	return err
}

// SaveDerivedDebt leans on uq_debt_source: a second insert for the same
// source is a no-op.
func (r *PgxDebtRepository) SaveDerivedDebt(ctx context.Context, debt domain.Debt) (bool, error) {
	if debt.Source == nil {
		return false, apperrors.NewValidationFailedError("derived debt requires a source")
	}
	m := mapping.ToModelDebt(debt)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Insert("debts").
		Columns(debtColumns...).
		Values(debtValues(m)...).
		Suffix("ON CONFLICT (source_type, source_id) WHERE source_type IS NOT NULL DO NOTHING"), "debt")
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxDebtRepository) UpdateDebt(ctx context.Context, debt *domain.Debt) error {
	m := mapping.ToModelDebt(*debt)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("debts").
		Set("name", m.Name).
		Set("phone", m.Phone).
		Set("address", m.Address).
		Set("debt_amount", m.DebtAmount).
		Set("paid_amount", m.PaidAmount).
		Set("start_date", m.StartDate).
		Set("payment_date", m.PaymentDate).
		Set("status", m.Status).
		Set("description", m.Description).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"debt_id": m.DebtID, "version": m.Version}), "debt")
	if err != nil {
		return err
	}
	if err := r.checkVersionedUpdate(ctx, tag, "debts", "debt_id", m.DebtID, "debt"); err != nil {
		return err
	}
	debt.Version++
	return nil
}

func (r *PgxDebtRepository) DeleteDebt(ctx context.Context, debtID string) error {
	tag, err := execBuilt(ctx, r.db(ctx), psql.Delete("debts").Where(sq.Eq{"debt_id": debtID}), "debt")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("debt not found")
	}
	return nil
}
