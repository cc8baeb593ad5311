package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// OrderReader defines read operations for order data
type OrderReader interface {
	// FindOrderByID retrieves an order with its status name.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// FindOrderByIDForUpdate retrieves an order and locks its row until the transaction ends.
	FindOrderByIDForUpdate(ctx context.Context, orderID string) (*domain.Order, error)

	// ListOrders retrieves a page of orders and a token for the next page.
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, *string, error)

	// ListAllOrders retrieves every order, newest first.
	ListAllOrders(ctx context.Context) ([]domain.Order, error)

	// ListStalledOrders retrieves orders with a status, no delivery date and created before cutoff.
	ListStalledOrders(ctx context.Context, createdBefore time.Time) ([]domain.Order, error)

	// ListOrderDebtSummaries returns the unpaid debt total of every order.
	ListOrderDebtSummaries(ctx context.Context) ([]domain.OrderDebtSummary, error)
}

// OrderWriter defines write operations for order data
type OrderWriter interface {
	// SaveOrder persists a new order.
	SaveOrder(ctx context.Context, order domain.Order) error

	// UpdateOrder updates an order if its version still matches and bumps the version.
	UpdateOrder(ctx context.Context, order *domain.Order) error

	// DeleteOrder removes an order. History rows are kept.
	DeleteOrder(ctx context.Context, orderID string) error
}

// OrderStatusRepository manages the order status lookup table.
type OrderStatusRepository interface {
	ListStatuses(ctx context.Context) ([]domain.OrderStatus, error)
	FindStatusByID(ctx context.Context, statusID int) (*domain.OrderStatus, error)
	FindStatusByName(ctx context.Context, name string) (*domain.OrderStatus, error)
	SaveStatus(ctx context.Context, status domain.OrderStatus) (*domain.OrderStatus, error)
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	OrderStatusRepository
}
