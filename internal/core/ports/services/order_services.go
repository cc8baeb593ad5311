package services

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// OrderReaderSvc defines read operations for orders
type OrderReaderSvc interface {
	// GetOrder returns the order with its derived financials.
	GetOrder(ctx context.Context, orderID string) (*domain.OrderDetails, error)
	ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)
	ListOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error)
	// GetHealthStats summarises debt exposure across all orders.
	GetHealthStats(ctx context.Context) (*domain.OrderHealthStats, error)
	ListStatuses(ctx context.Context) ([]domain.OrderStatus, error)
}

// OrderWriterSvc defines write operations for orders
type OrderWriterSvc interface {
	CreateOrder(ctx context.Context, actor domain.Actor, req dto.CreateOrderRequest) (*domain.Order, error)
	UpdateOrder(ctx context.Context, actor domain.Actor, orderID string, req dto.UpdateOrderRequest) (*domain.Order, error)
	DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error
	// RecordPayment adds a customer payment. Overpayment is rejected.
	RecordPayment(ctx context.Context, actor domain.Actor, orderID string, amount decimal.Decimal) (*domain.Order, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, orderID string, statusID int) (*domain.Order, error)
	CreateStatus(ctx context.Context, actor domain.Actor, req dto.CreateOrderStatusRequest) (*domain.OrderStatus, error)
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
}

// AssignmentSvcFacade links workers to orders and keeps their tasks in step.
type AssignmentSvcFacade interface {
	// AssignWorker deactivates any previous assignment of the pair, records a new
	// one, upserts the worker's order task and advances a waiting order.
	AssignWorker(ctx context.Context, actor domain.Actor, orderID string, req dto.AssignWorkerRequest) (*domain.AssignmentResult, error)
	DeactivateAssignment(ctx context.Context, actor domain.Actor, assignmentID string) error
	ListOrderAssignments(ctx context.Context, orderID string) ([]domain.OrderAssignment, error)
	// SyncAllAssignedOrders upserts the task of every active assignment.
	SyncAllAssignedOrders(ctx context.Context, actor domain.Actor) (*domain.SyncResult, error)
}
