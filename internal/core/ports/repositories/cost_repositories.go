package repositories

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// ExpenseRepositoryFacade defines persistence for expenses.
type ExpenseRepositoryFacade interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, limit, offset int) ([]domain.Expense, error)
	ListExpensesByOrder(ctx context.Context, orderID string) ([]domain.Expense, error)
	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, expense *domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}

// TransportRepositoryFacade defines persistence for transports.
type TransportRepositoryFacade interface {
	FindTransportByID(ctx context.Context, transportID string) (*domain.Transport, error)
	ListTransports(ctx context.Context, limit, offset int) ([]domain.Transport, error)
	ListTransportsByOrder(ctx context.Context, orderID string) ([]domain.Transport, error)
	SaveTransport(ctx context.Context, transport domain.Transport) error
	UpdateTransport(ctx context.Context, transport *domain.Transport) error
	DeleteTransport(ctx context.Context, transportID string) error
}

// ReceiptRepositoryFacade stores receipt metadata. The bytes live in a BlobStore.
type ReceiptRepositoryFacade interface {
	FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, owner domain.EntityRef) ([]domain.Receipt, error)
	SaveReceipt(ctx context.Context, receipt domain.Receipt) error
	DeleteReceipt(ctx context.Context, receiptID string) error
}
