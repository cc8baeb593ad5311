package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/google/uuid"
)

// debtDeriver keeps the debt derived from an expense or transport in step with
// its source. Edits only reach the debt when syncOnEdit is set; otherwise the
// debt is a snapshot taken when the cost was recorded.
type debtDeriver struct {
	debtRepo   portsrepo.DebtRepositoryFacade
	syncOnEdit bool
}

// derive inserts the debt for an unpaid cost. It returns nil when nothing is
// owed or the source already has a debt.
func (d debtDeriver) derive(ctx context.Context, debt domain.Debt, status domain.PaymentStatus) (*domain.Debt, error) {
	if !status.CreatesDebt() || !debt.Remaining().IsPositive() {
		return nil, nil
	}
	debt.DebtID = uuid.NewString()
	inserted, err := d.debtRepo.SaveDerivedDebt(ctx, debt)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}
	return &debt, nil
}

// resync copies edited amounts into the derived debt, creating it if the cost
// became unpaid. The bool reports a newly created debt.
func (d debtDeriver) resync(ctx context.Context, fresh domain.Debt, status domain.PaymentStatus, actor domain.Actor, now time.Time) (*domain.Debt, bool, error) {
	if !d.syncOnEdit {
		return nil, false, nil
	}
	existing, err := d.debtRepo.FindDebtBySource(ctx, *fresh.Source)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			created, err := d.derive(ctx, fresh, status)
			return created, created != nil, err
		}
		return nil, false, err
	}
	existing.Resync(fresh.DebtAmount, fresh.PaidAmount)
	existing.Touch(actor, now)
	if err := d.debtRepo.UpdateDebt(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// forget removes the derived debt of a deleted cost when debts follow their source.
func (d debtDeriver) forget(ctx context.Context, source domain.EntityRef) error {
	if !d.syncOnEdit {
		return nil
	}
	existing, err := d.debtRepo.FindDebtBySource(ctx, source)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return d.debtRepo.DeleteDebt(ctx, existing.DebtID)
}

// costOrderHistory writes a history row when the cost is charged to an order.
func costOrderHistory(ctx context.Context, repo portsrepo.HistoryRepositoryFacade, orderID *string, change domain.ChangeType, details string, actor domain.Actor, now time.Time) error {
	if orderID == nil {
		return nil
	}
	return repo.SaveOrderHistory(ctx, domain.NewOrderHistory(*orderID, change, details, actor, now))
}

// checkOrder verifies that an optional order reference exists.
func checkOrder(ctx context.Context, repo portsrepo.OrderReader, orderID *string) error {
	if orderID == nil {
		return nil
	}
	if _, err := repo.FindOrderByID(ctx, *orderID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationFailedError("order " + *orderID + " does not exist")
		}
		return err
	}
	return nil
}

// --- Expenses ---

type expenseService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	expenseRepo portsrepo.ExpenseRepositoryFacade
	orderRepo   portsrepo.OrderReader
	historyRepo portsrepo.HistoryRepositoryFacade
	debts       debtDeriver
}

// NewExpenseService creates the expense service.
func NewExpenseService(base BaseService, repos portsrepo.RepositoryProvider, syncDebtsOnEdit bool) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService: base,
		txManager:   repos.TxManager,
		expenseRepo: repos.ExpenseRepo,
		orderRepo:   repos.OrderRepo,
		historyRepo: repos.HistoryRepo,
		debts:       debtDeriver{debtRepo: repos.DebtRepo, syncOnEdit: syncDebtsOnEdit},
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func applyExpenseRequest(e *domain.Expense, req dto.ExpenseRequest, now time.Time) error {
	e.OrderID = req.OrderID
	e.Category = req.Category
	e.Description = req.Description
	e.Quantity = req.Quantity
	e.UnitPrice = req.UnitPrice
	e.PaidAmount = domain.RoundMoney(req.PaidAmount)
	e.PaymentStatus = req.PaymentStatus
	e.PaymentMethod = req.PaymentMethod
	e.SupplierName = req.SupplierName
	e.SupplierPhone = req.SupplierPhone
	e.SupplierAddress = req.SupplierAddress
	e.PurchasedBy = req.PurchasedBy
	e.Notes = req.Notes
	if req.PurchaseDate != nil {
		e.PurchaseDate = *req.PurchaseDate
	} else if e.PurchaseDate.IsZero() {
		e.PurchaseDate = now
	}
	return e.Recalculate()
}

func (s *expenseService) CreateExpense(ctx context.Context, actor domain.Actor, req dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	now := s.now()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		RecordedBy:  actor.DisplayName(),
		AuditFields: domain.NewAuditFields(actor, now),
	}
	if err := applyExpenseRequest(&expense, req, now); err != nil {
		return nil, err
	}

	resp := &dto.ExpenseResponse{}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := checkOrder(ctx, s.orderRepo, expense.OrderID); err != nil {
			return err
		}
		if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
			return err
		}
		debt, err := s.debts.derive(ctx, expense.DerivedDebt(actor, now), expense.PaymentStatus)
		if err != nil {
			return err
		}
		resp.Debt = debt
		return costOrderHistory(ctx, s.historyRepo, expense.OrderID, domain.ChangeExpenseAdded,
			fmt.Sprintf("expense %s of %s added", expense.Category, expense.TotalAmount.StringFixed(2)), actor, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create expense", slog.String("category", req.Category))
		return nil, err
	}
	resp.Expense = expense

	s.invalidate(ctx, cacheKeyOrderHealth)
	if resp.Debt != nil {
		s.publish(ctx, debtEvent(domain.EventDebtCreated, *resp.Debt, actor))
	}
	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.Bool("debt_created", resp.Debt != nil))
	return resp, nil
}

func (s *expenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListCostsParams) ([]domain.Expense, error) {
	if params.OrderID != nil {
		return s.expenseRepo.ListExpensesByOrder(ctx, *params.OrderID)
	}
	return s.expenseRepo.ListExpenses(ctx, clampLimit(params.Limit, 50, 500), max(params.Offset, 0))
}

func (s *expenseService) UpdateExpense(ctx context.Context, actor domain.Actor, expenseID string, req dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	resp := &dto.ExpenseResponse{}
	var created bool
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if req.Version != 0 && req.Version != expense.Version {
			return apperrors.NewStaleVersionError("expense was modified by someone else, reload and retry")
		}
		now := s.now()
		if err := applyExpenseRequest(expense, req, now); err != nil {
			return err
		}
		if err := checkOrder(ctx, s.orderRepo, expense.OrderID); err != nil {
			return err
		}
		expense.Touch(actor, now)
		if err := s.expenseRepo.UpdateExpense(ctx, expense); err != nil {
			return err
		}
		resp.Expense = *expense

		resp.Debt, created, err = s.debts.resync(ctx, expense.DerivedDebt(actor, now), expense.PaymentStatus, actor, now)
		if err != nil {
			return err
		}
		return costOrderHistory(ctx, s.historyRepo, expense.OrderID, domain.ChangeUpdated,
			"expense "+expense.Category+" updated", actor, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	if created {
		s.publish(ctx, debtEvent(domain.EventDebtCreated, *resp.Debt, actor))
	}
	return resp, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
			return err
		}
		if err := s.debts.forget(ctx, expense.Ref()); err != nil {
			return err
		}
		return costOrderHistory(ctx, s.historyRepo, expense.OrderID, domain.ChangeDeleted,
			"expense "+expense.Category+" deleted", actor, s.now())
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	return nil
}

// --- Transports ---

type transportService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	transportRepo portsrepo.TransportRepositoryFacade
	orderRepo     portsrepo.OrderReader
	historyRepo   portsrepo.HistoryRepositoryFacade
	debts         debtDeriver
}

// NewTransportService creates the transport service.
func NewTransportService(base BaseService, repos portsrepo.RepositoryProvider, syncDebtsOnEdit bool) portssvc.TransportSvcFacade {
	return &transportService{
		BaseService:   base,
		txManager:     repos.TxManager,
		transportRepo: repos.TransportRepo,
		orderRepo:     repos.OrderRepo,
		historyRepo:   repos.HistoryRepo,
		debts:         debtDeriver{debtRepo: repos.DebtRepo, syncOnEdit: syncDebtsOnEdit},
	}
}

var _ portssvc.TransportSvcFacade = (*transportService)(nil)

func applyTransportRequest(t *domain.Transport, req dto.TransportRequest, now time.Time) error {
	t.OrderID = req.OrderID
	t.Name = req.Name
	t.Phone = req.Phone
	t.Address = req.Address
	t.TransportAmount = req.TransportAmount
	t.PaidAmount = domain.RoundMoney(req.PaidAmount)
	t.PaymentStatus = req.PaymentStatus
	t.Destination = req.Destination
	t.Purpose = req.Purpose
	t.TransportType = req.TransportType
	t.TransportMethod = req.TransportMethod
	t.Distance = req.Distance
	t.Notes = req.Notes
	if req.TransportDate != nil {
		t.TransportDate = *req.TransportDate
	} else if t.TransportDate.IsZero() {
		t.TransportDate = now
	}
	return t.Validate()
}

func (s *transportService) CreateTransport(ctx context.Context, actor domain.Actor, req dto.TransportRequest) (*dto.TransportResponse, error) {
	now := s.now()
	transport := domain.Transport{
		TransportID: uuid.NewString(),
		RecordedBy:  actor.DisplayName(),
		AuditFields: domain.NewAuditFields(actor, now),
	}
	if err := applyTransportRequest(&transport, req, now); err != nil {
		return nil, err
	}

	resp := &dto.TransportResponse{}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := checkOrder(ctx, s.orderRepo, transport.OrderID); err != nil {
			return err
		}
		if err := s.transportRepo.SaveTransport(ctx, transport); err != nil {
			return err
		}
		debt, err := s.debts.derive(ctx, transport.DerivedDebt(actor, now), transport.PaymentStatus)
		if err != nil {
			return err
		}
		resp.Debt = debt
		return costOrderHistory(ctx, s.historyRepo, transport.OrderID, domain.ChangeTransportAdded,
			fmt.Sprintf("transport to %s of %s added", transport.Destination, transport.TransportAmount.StringFixed(2)), actor, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transport", slog.String("carrier", req.Name))
		return nil, err
	}
	resp.Transport = transport

	s.invalidate(ctx, cacheKeyOrderHealth)
	if resp.Debt != nil {
		s.publish(ctx, debtEvent(domain.EventDebtCreated, *resp.Debt, actor))
	}
	s.LogInfo(ctx, "Transport created",
		slog.String("transport_id", transport.TransportID),
		slog.Bool("debt_created", resp.Debt != nil))
	return resp, nil
}

func (s *transportService) GetTransport(ctx context.Context, transportID string) (*domain.Transport, error) {
	return s.transportRepo.FindTransportByID(ctx, transportID)
}

func (s *transportService) ListTransports(ctx context.Context, params dto.ListCostsParams) ([]domain.Transport, error) {
	if params.OrderID != nil {
		return s.transportRepo.ListTransportsByOrder(ctx, *params.OrderID)
	}
	return s.transportRepo.ListTransports(ctx, clampLimit(params.Limit, 50, 500), max(params.Offset, 0))
}

func (s *transportService) UpdateTransport(ctx context.Context, actor domain.Actor, transportID string, req dto.TransportRequest) (*dto.TransportResponse, error) {
	resp := &dto.TransportResponse{}
	var created bool
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		transport, err := s.transportRepo.FindTransportByID(ctx, transportID)
		if err != nil {
			return err
		}
		if req.Version != 0 && req.Version != transport.Version {
			return apperrors.NewStaleVersionError("transport was modified by someone else, reload and retry")
		}
		now := s.now()
		if err := applyTransportRequest(transport, req, now); err != nil {
			return err
		}
		if err := checkOrder(ctx, s.orderRepo, transport.OrderID); err != nil {
			return err
		}
		transport.Touch(actor, now)
		if err := s.transportRepo.UpdateTransport(ctx, transport); err != nil {
			return err
		}
		resp.Transport = *transport

		resp.Debt, created, err = s.debts.resync(ctx, transport.DerivedDebt(actor, now), transport.PaymentStatus, actor, now)
		if err != nil {
			return err
		}
		return costOrderHistory(ctx, s.historyRepo, transport.OrderID, domain.ChangeUpdated,
			"transport to "+transport.Destination+" updated", actor, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transport", slog.String("transport_id", transportID))
		return nil, err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	if created {
		s.publish(ctx, debtEvent(domain.EventDebtCreated, *resp.Debt, actor))
	}
	return resp, nil
}

func (s *transportService) DeleteTransport(ctx context.Context, actor domain.Actor, transportID string) error {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		transport, err := s.transportRepo.FindTransportByID(ctx, transportID)
		if err != nil {
			return err
		}
		if err := s.transportRepo.DeleteTransport(ctx, transportID); err != nil {
			return err
		}
		if err := s.debts.forget(ctx, transport.Ref()); err != nil {
			return err
		}
		return costOrderHistory(ctx, s.historyRepo, transport.OrderID, domain.ChangeDeleted,
			"transport to "+transport.Destination+" deleted", actor, s.now())
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transport", slog.String("transport_id", transportID))
		return err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	return nil
}
