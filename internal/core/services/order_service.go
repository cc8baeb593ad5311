package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	orderRepo     portsrepo.OrderRepositoryFacade
	expenseRepo   portsrepo.ExpenseRepositoryFacade
	transportRepo portsrepo.TransportRepositoryFacade
	debtRepo      portsrepo.DebtReader
	historyRepo   portsrepo.HistoryRepositoryFacade
}

// NewOrderService creates the order service.
func NewOrderService(base BaseService, repos portsrepo.RepositoryProvider) portssvc.OrderSvcFacade {
	return &orderService{
		BaseService:   base,
		txManager:     repos.TxManager,
		orderRepo:     repos.OrderRepo,
		expenseRepo:   repos.ExpenseRepo,
		transportRepo: repos.TransportRepo,
		debtRepo:      repos.DebtRepo,
		historyRepo:   repos.HistoryRepo,
	}
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*domain.OrderDetails, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find order", slog.String("order_id", orderID))
		return nil, err
	}
	expenses, err := s.expenseRepo.ListExpensesByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order expenses: %w", err)
	}
	transports, err := s.transportRepo.ListTransportsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order transports: %w", err)
	}
	debts, err := s.debtRepo.ListUnpaidDebtsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order debts: %w", err)
	}
	return &domain.OrderDetails{
		Order:      *order,
		Financials: domain.ComputeOrderFinancials(*order, expenses, transports, debts),
	}, nil
}

func (s *orderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	orders, next, err := s.orderRepo.ListOrders(ctx, domain.OrderFilter{
		StatusID:  params.StatusID,
		IsPaid:    params.IsPaid,
		Search:    params.Search,
		Limit:     clampLimit(params.Limit, 20, 100),
		NextToken: params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders")
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &dto.ListOrdersResponse{Orders: orders, NextToken: next}, nil
}

func (s *orderService) ListOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	return s.historyRepo.ListOrderHistory(ctx, orderID)
}

func (s *orderService) GetHealthStats(ctx context.Context) (*domain.OrderHealthStats, error) {
	return cachedValue(ctx, &s.BaseService, cacheKeyOrderHealth, func(ctx context.Context) (*domain.OrderHealthStats, error) {
		summaries, err := s.orderRepo.ListOrderDebtSummaries(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to load order debt summaries")
			return nil, err
		}
		stats := domain.ComputeOrderHealthStats(summaries)
		return &stats, nil
	})
}

func (s *orderService) ListStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	return s.orderRepo.ListStatuses(ctx)
}

func (s *orderService) CreateOrder(ctx context.Context, actor domain.Actor, req dto.CreateOrderRequest) (*domain.Order, error) {
	if req.Total.IsNegative() || req.Paid.IsNegative() {
		return nil, apperrors.NewValidationFailedError("amounts must not be negative")
	}
	if req.Paid.GreaterThan(req.Total) {
		return nil, apperrors.NewValidationFailedError("paid amount exceeds the order total")
	}

	now := s.now()
	order := domain.Order{
		OrderID:              uuid.NewString(),
		Name:                 req.Name,
		Wilaya:               req.Wilaya,
		Product:              req.Product,
		ProductionDetails:    req.ProductionDetails,
		Total:                domain.RoundMoney(req.Total),
		Paid:                 domain.RoundMoney(req.Paid),
		Note:                 req.Note,
		StartDate:            req.StartDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		AuditFields:          domain.NewAuditFields(actor, now),
	}
	order.IsPaid = order.Paid.GreaterThanOrEqual(order.Total)

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if req.StatusID != nil {
			status, err := s.orderRepo.FindStatusByID(ctx, *req.StatusID)
			if err != nil {
				return err
			}
			order.StatusID = &status.StatusID
			order.StatusName = &status.Name
		}
		if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
			return err
		}
		return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangeCreated,
			"order created for "+order.Name, actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create order", slog.String("order_name", req.Name))
		return nil, err
	}

	s.invalidate(ctx, cacheKeyOrderHealth)
	s.LogInfo(ctx, "Order created", slog.String("order_id", order.OrderID))
	return &order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, actor domain.Actor, orderID string, req dto.UpdateOrderRequest) (*domain.Order, error) {
	var order *domain.Order
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Version != req.Version {
			return apperrors.NewStaleVersionError("order was modified by someone else, reload and retry")
		}

		applyString(&order.Name, req.Name)
		applyString(&order.Wilaya, req.Wilaya)
		applyString(&order.Product, req.Product)
		applyString(&order.ProductionDetails, req.ProductionDetails)
		applyString(&order.Note, req.Note)
		if req.Total != nil {
			if req.Total.IsNegative() {
				return apperrors.NewValidationFailedError("total must not be negative")
			}
			order.Total = domain.RoundMoney(*req.Total)
			if order.Paid.GreaterThan(order.Total) {
				return apperrors.NewValidationFailedError("order total cannot be below the amount already paid")
			}
		}
		if req.StartDate != nil {
			order.StartDate = req.StartDate
		}
		if req.ExpectedDeliveryDate != nil {
			order.ExpectedDeliveryDate = req.ExpectedDeliveryDate
		}
		if req.ActualDeliveryDate != nil {
			order.ActualDeliveryDate = req.ActualDeliveryDate
		}
		if req.CompletionDate != nil {
			order.CompletionDate = req.CompletionDate
		}
		order.IsPaid = order.Paid.GreaterThanOrEqual(order.Total)

		now := s.now()
		order.Touch(actor, now)
		if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
			return err
		}
		return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangeUpdated,
			"order details updated", actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update order", slog.String("order_id", orderID))
		return nil, err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error {
	if err := s.RequireAdmin(ctx, actor, "delete orders"); err != nil {
		return err
	}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangeDeleted,
			"order "+order.Name+" deleted", actor, s.now())); err != nil {
			return err
		}
		return s.orderRepo.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete order", slog.String("order_id", orderID))
		return err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	s.LogInfo(ctx, "Order deleted", slog.String("order_id", orderID))
	return nil
}

func (s *orderService) RecordPayment(ctx context.Context, actor domain.Actor, orderID string, amount decimal.Decimal) (*domain.Order, error) {
	var order *domain.Order
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.ApplyPayment(amount); err != nil {
			return err
		}
		now := s.now()
		order.Touch(actor, now)
		if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
			return err
		}
		return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangePayment,
			"payment of "+domain.RoundMoney(amount).StringFixed(2)+" received, remaining "+order.Remaining().StringFixed(2), actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record order payment",
			slog.String("order_id", orderID),
			slog.String("amount", amount.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Order payment recorded",
		slog.String("order_id", orderID),
		slog.String("amount", amount.String()))
	return order, nil
}

func (s *orderService) ChangeStatus(ctx context.Context, actor domain.Actor, orderID string, statusID int) (*domain.Order, error) {
	var order *domain.Order
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		status, err := s.orderRepo.FindStatusByID(ctx, statusID)
		if err != nil {
			return err
		}
		order, err = s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		previous := "none"
		if order.StatusName != nil {
			previous = *order.StatusName
		}
		order.StatusID = &status.StatusID
		order.StatusName = &status.Name

		now := s.now()
		order.Touch(actor, now)
		if err := s.orderRepo.UpdateOrder(ctx, order); err != nil {
			return err
		}
		return s.historyRepo.SaveOrderHistory(ctx, domain.NewOrderHistory(order.OrderID, domain.ChangeStatus,
			"status changed from "+previous+" to "+status.Name, actor, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change order status",
			slog.String("order_id", orderID),
			slog.Int("status_id", statusID))
		return nil, err
	}
	s.invalidate(ctx, cacheKeyOrderHealth)
	return order, nil
}

func (s *orderService) CreateStatus(ctx context.Context, actor domain.Actor, req dto.CreateOrderStatusRequest) (*domain.OrderStatus, error) {
	if err := s.RequireAdmin(ctx, actor, "create order statuses"); err != nil {
		return nil, err
	}
	color := req.Color
	if color == "" {
		color = "#6b7280"
	}
	status, err := s.orderRepo.SaveStatus(ctx, domain.OrderStatus{
		Name:      req.Name,
		Color:     color,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create order status", slog.String("name", req.Name))
		return nil, err
	}
	return status, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
