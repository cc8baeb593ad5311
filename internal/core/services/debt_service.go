package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type debtService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	debtRepo      portsrepo.DebtRepositoryFacade
	expenseRepo   portsrepo.ExpenseRepositoryFacade
	transportRepo portsrepo.TransportRepositoryFacade
	historyRepo   portsrepo.HistoryRepositoryFacade
	resolver      portssvc.EntityResolver
}

// NewDebtService creates the debt service.
func NewDebtService(base BaseService, repos portsrepo.RepositoryProvider, resolver portssvc.EntityResolver) portssvc.DebtSvcFacade {
	return &debtService{
		BaseService:   base,
		txManager:     repos.TxManager,
		debtRepo:      repos.DebtRepo,
		expenseRepo:   repos.ExpenseRepo,
		transportRepo: repos.TransportRepo,
		historyRepo:   repos.HistoryRepo,
		resolver:      resolver,
	}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

func (s *debtService) CreateDebt(ctx context.Context, actor domain.Actor, req dto.CreateDebtRequest) (*domain.Debt, error) {
	if !req.DebtAmount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("debt amount must be greater than zero")
	}
	if req.PaidAmount.IsNegative() || req.PaidAmount.GreaterThan(req.DebtAmount) {
		return nil, apperrors.NewValidationFailedError("paid amount must be between zero and the debt amount")
	}

	now := s.now()
	debt := domain.Debt{
		DebtID:      uuid.NewString(),
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		DebtAmount:  domain.RoundMoney(req.DebtAmount),
		PaidAmount:  domain.RoundMoney(req.PaidAmount),
		StartDate:   now,
		Description: req.Description,
		RecordedBy:  actor.DisplayName(),
		AuditFields: domain.NewAuditFields(actor, now),
	}
	if req.StartDate != nil {
		debt.StartDate = *req.StartDate
	}
	debt.Status = domain.DebtStatusFor(debt.DebtAmount, debt.PaidAmount)

	if err := s.debtRepo.SaveDebt(ctx, debt); err != nil {
		s.LogError(ctx, err, "Failed to create debt", slog.String("name", req.Name))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyOrderHealth)
	s.publish(ctx, debtEvent(domain.EventDebtCreated, debt, actor))
	s.LogInfo(ctx, "Debt created", slog.String("debt_id", debt.DebtID))
	return &debt, nil
}

func (s *debtService) GetDebt(ctx context.Context, debtID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find debt", slog.String("debt_id", debtID))
		return nil, err
	}
	return debt, nil
}

func (s *debtService) ListDebts(ctx context.Context, params dto.ListDebtsParams) ([]domain.Debt, error) {
	return s.debtRepo.ListDebts(ctx, domain.DebtFilter{
		Status:     params.Status,
		SourceType: params.SourceType,
		ManualOnly: params.ManualOnly,
		Search:     params.Search,
		Limit:      clampLimit(params.Limit, 50, 500),
		Offset:     max(params.Offset, 0),
	})
}

func (s *debtService) PayDebt(ctx context.Context, actor domain.Actor, debtID string, amount decimal.Decimal) (*domain.Debt, error) {
	var debt *domain.Debt
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		debt, err = s.debtRepo.FindDebtByIDForUpdate(ctx, debtID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := debt.ApplyPayment(amount, now); err != nil {
			return err
		}
		debt.Touch(actor, now)
		if err := s.debtRepo.UpdateDebt(ctx, debt); err != nil {
			return err
		}
		return s.recordOrderHistory(ctx, actor, debt, domain.ChangeDebtPaid,
			"debt payment of "+domain.RoundMoney(amount).StringFixed(2)+" to "+debt.Name+", remaining "+debt.Remaining().StringFixed(2), now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to pay debt",
			slog.String("debt_id", debtID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyOrderHealth)
	s.publish(ctx, debtEvent(domain.EventDebtPaid, *debt, actor))
	s.LogInfo(ctx, "Debt payment recorded",
		slog.String("debt_id", debtID),
		slog.String("amount", amount.String()),
		slog.String("status", string(debt.Status)))
	return debt, nil
}

func (s *debtService) DeleteDebt(ctx context.Context, actor domain.Actor, debtID string) error {
	if err := s.RequireAdmin(ctx, actor, "delete debts"); err != nil {
		return err
	}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		debt, err := s.debtRepo.FindDebtByIDForUpdate(ctx, debtID)
		if err != nil {
			return err
		}
		if err := s.recordOrderHistory(ctx, actor, debt, domain.ChangeDebtDeleted,
			"debt of "+debt.Name+" deleted, remaining "+debt.Remaining().StringFixed(2)+" written off", s.now()); err != nil {
			return err
		}
		return s.debtRepo.DeleteDebt(ctx, debtID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete debt", slog.String("debt_id", debtID))
		return err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	s.LogInfo(ctx, "Debt deleted",
		slog.String("debt_id", debtID),
		slog.String("user_id", actor.UserID))
	return nil
}

func (s *debtService) GetDebtSource(ctx context.Context, debtID string) (*domain.ResolvedEntity, error) {
	debt, err := s.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt.Source == nil {
		return nil, apperrors.NewNotFoundError("debt was recorded manually and has no source")
	}
	return s.resolver.Resolve(ctx, *debt.Source)
}

// recordOrderHistory writes an order history row when the debt derives from
// an expense or transport charged to an order. Other debts have no history.
func (s *debtService) recordOrderHistory(ctx context.Context, actor domain.Actor, debt *domain.Debt, change domain.ChangeType, details string, now time.Time) error {
	orderID, err := s.sourceOrderID(ctx, debt.Source)
	if err != nil || orderID == "" {
		return err
	}
	return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(orderID, change, details, actor, now))
}

// sourceOrderID returns the order a derived debt's source is charged to, or
// "" when there is none. A source that no longer exists has no order.
func (s *debtService) sourceOrderID(ctx context.Context, source *domain.EntityRef) (string, error) {
	if source == nil {
		return "", nil
	}
	var orderID *string
	switch source.Type {
	case domain.EntityExpense:
		e, err := s.expenseRepo.FindExpenseByID(ctx, source.ID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		orderID = e.OrderID
	case domain.EntityTransport:
		t, err := s.transportRepo.FindTransportByID(ctx, source.ID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		orderID = t.OrderID
	}
	if orderID == nil {
		return "", nil
	}
	return *orderID, nil
}

func debtEvent(kind domain.EventKind, d domain.Debt, actor domain.Actor) domain.Event {
	return domain.Event{
		Kind:       kind,
		Entity:     domain.EntityRef{Type: domain.EntityDebt, ID: d.DebtID},
		Status:     string(d.Status),
		ActorID:    actor.UserID,
		OccurredAt: d.LastUpdatedAt,
	}
}
