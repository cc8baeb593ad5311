package pgsql

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/business_management_app/internal/models"
	"github.com/SscSPs/business_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

var expenseColumns = []string{
	"expense_id", "order_id", "category", "description", "quantity", "unit_price", "total_amount",
	"paid_amount", "payment_status", "payment_method", "supplier_name", "supplier_phone",
	"supplier_address", "purchased_by", "purchase_date", "notes", "recorded_by",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "version",
}

var transportColumns = []string{
	"transport_id", "order_id", "name", "phone", "address", "transport_amount", "paid_amount",
	"payment_status", "destination", "purpose", "transport_type", "transport_method", "distance",
	"transport_date", "notes", "recorded_by",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "version",
}

var receiptColumns = []string{
	"receipt_id", "owner_type", "owner_id", "object_key", "original_filename", "content_type",
	"size", "uploaded_by", "uploaded_at",
}

func pageOf(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit <= 0 {
		limit = 50
	}
	return b.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
}

func deleteByID(ctx context.Context, q Querier, table, idColumn, id, entity string) error {
	tag, err := execBuilt(ctx, q, psql.Delete(table).Where(sq.Eq{idColumn: id}), entity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(entity + " not found")
	}
	return nil
}

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	m, err := collectOne[models.Expense](ctx, r.db(ctx),
		psql.Select(expenseColumns...).From("expenses").Where(sq.Eq{"expense_id": expenseID}), "expense")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainExpense(*m)
	return &d, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error) {
	b := pageOf(psql.Select(expenseColumns...).From("expenses").OrderBy("purchase_date DESC", "expense_id"), limit, offset)
	ms, err := collectAll[models.Expense](ctx, r.db(ctx), b, "expenses")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainExpenseSlice(ms), nil
}

func (r *PgxExpenseRepository) ListExpensesByOrder(ctx context.Context, orderID string) ([]domain.Expense, error) {
	b := psql.Select(expenseColumns...).From("expenses").Where(sq.Eq{"order_id": orderID}).OrderBy("purchase_date")
	ms, err := collectAll[models.Expense](ctx, r.db(ctx), b, "expenses")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainExpenseSlice(ms), nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("expenses").
		Columns(expenseColumns...).
		Values(m.ExpenseID, m.OrderID, m.Category, m.Description, m.Quantity, m.UnitPrice, m.TotalAmount,
			m.PaidAmount, m.PaymentStatus, m.PaymentMethod, m.SupplierName, m.SupplierPhone,
			m.SupplierAddress, m.PurchasedBy, m.PurchaseDate, m.Notes, m.RecordedBy,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version), "expense")
	return err
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	m := mapping.ToModelExpense(*expense)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("expenses").
		Set("order_id", m.OrderID).
		Set("category", m.Category).
		Set("description", m.Description).
		Set("quantity", m.Quantity).
		Set("unit_price", m.UnitPrice).
		Set("total_amount", m.TotalAmount).
		Set("paid_amount", m.PaidAmount).
		Set("payment_status", m.PaymentStatus).
		Set("payment_method", m.PaymentMethod).
		Set("supplier_name", m.SupplierName).
		Set("supplier_phone", m.SupplierPhone).
		Set("supplier_address", m.SupplierAddress).
		Set("purchased_by", m.PurchasedBy).
		Set("purchase_date", m.PurchaseDate).
		Set("notes", m.Notes).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"expense_id": m.ExpenseID, "version": m.Version}), "expense")
	if err != nil {
		return err
	}
	if err := r.checkVersionedUpdate(ctx, tag, "expenses", "expense_id", m.ExpenseID, "expense"); err != nil {
		return err
	}
	expense.Version++
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	return deleteByID(ctx, r.db(ctx), "expenses", "expense_id", expenseID, "expense")
}

type PgxTransportRepository struct {
	BaseRepository
}

func newPgxTransportRepository(pool *pgxpool.Pool) portsrepo.TransportRepositoryFacade {
	return &PgxTransportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransportRepositoryFacade = (*PgxTransportRepository)(nil)

func (r *PgxTransportRepository) FindTransportByID(ctx context.Context, transportID string) (*domain.Transport, error) {
	m, err := collectOne[models.Transport](ctx, r.db(ctx),
		psql.Select(transportColumns...).From("transports").Where(sq.Eq{"transport_id": transportID}), "transport")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainTransport(*m)
	return &d, nil
}

func (r *PgxTransportRepository) ListTransports(ctx context.Context, limit, offset int) ([]domain.Transport, error) {
	b := pageOf(psql.Select(transportColumns...).From("transports").OrderBy("transport_date DESC", "transport_id"), limit, offset)
	ms, err := collectAll[models.Transport](ctx, r.db(ctx), b, "transports")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransportSlice(ms), nil
}

func (r *PgxTransportRepository) ListTransportsByOrder(ctx context.Context, orderID string) ([]domain.Transport, error) {
	b := psql.Select(transportColumns...).From("transports").Where(sq.Eq{"order_id": orderID}).OrderBy("transport_date")
	ms, err := collectAll[models.Transport](ctx, r.db(ctx), b, "transports")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransportSlice(ms), nil
}

func (r *PgxTransportRepository) SaveTransport(ctx context.Context, transport domain.Transport) error {
	m := mapping.ToModelTransport(transport)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("transports").
		Columns(transportColumns...).
		Values(m.TransportID, m.OrderID, m.Name, m.Phone, m.Address, m.TransportAmount, m.PaidAmount,
			m.PaymentStatus, m.Destination, m.Purpose, m.TransportType, m.TransportMethod, m.Distance,
			m.TransportDate, m.Notes, m.RecordedBy,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version), "transport")
	return err
}

func (r *PgxTransportRepository) UpdateTransport(ctx context.Context, transport *domain.Transport) error {
	m := mapping.ToModelTransport(*transport)
	tag, err := execBuilt(ctx, r.db(ctx), psql.Update("transports").
		Set("order_id", m.OrderID).
		Set("name", m.Name).
		Set("phone", m.Phone).
		Set("address", m.Address).
		Set("transport_amount", m.TransportAmount).
		Set("paid_amount", m.PaidAmount).
		Set("payment_status", m.PaymentStatus).
		Set("destination", m.Destination).
		Set("purpose", m.Purpose).
		Set("transport_type", m.TransportType).
		Set("transport_method", m.TransportMethod).
		Set("distance", m.Distance).
		Set("transport_date", m.TransportDate).
		Set("notes", m.Notes).
		Set("last_updated_at", m.LastUpdatedAt).
		Set("last_updated_by", m.LastUpdatedBy).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"transport_id": m.TransportID, "version": m.Version}), "transport")
	if err != nil {
		return err
	}
	if err := r.checkVersionedUpdate(ctx, tag, "transports", "transport_id", m.TransportID, "transport"); err != nil {
		return err
	}
	transport.Version++
	return nil
}

func (r *PgxTransportRepository) DeleteTransport(ctx context.Context, transportID string) error {
	return deleteByID(ctx, r.db(ctx), "transports", "transport_id", transportID, "transport")
}

type PgxReceiptRepository struct {
	BaseRepository
}

func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	m, err := collectOne[models.Receipt](ctx, r.db(ctx),
		psql.Select(receiptColumns...).From("receipts").Where(sq.Eq{"receipt_id": receiptID}), "receipt")
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainReceipt(*m)
	return &d, nil
}

func (r *PgxReceiptRepository) ListReceipts(ctx context.Context, owner domain.EntityRef) ([]domain.Receipt, error) {
	b := psql.Select(receiptColumns...).From("receipts").
		Where(sq.Eq{"owner_type": string(owner.Type), "owner_id": owner.ID}).
		OrderBy("uploaded_at DESC")
	ms, err := collectAll[models.Receipt](ctx, r.db(ctx), b, "receipts")
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainReceiptSlice(ms), nil
}

func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	m := mapping.ToModelReceipt(receipt)
	_, err := execBuilt(ctx, r.db(ctx), psql.Insert("receipts").
		Columns(receiptColumns...).
		Values(m.ReceiptID, m.OwnerType, m.OwnerID, m.ObjectKey, m.OriginalFilename, m.ContentType,
			m.Size, m.UploadedBy, m.UploadedAt), "receipt")
	return err
}

func (r *PgxReceiptRepository) DeleteReceipt(ctx context.Context, receiptID string) error {
	return deleteByID(ctx, r.db(ctx), "receipts", "receipt_id", receiptID, "receipt")
}
