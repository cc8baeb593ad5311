package services

import (
	"context"
	"io"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

// DebtSvcFacade manages manual and derived debts.
type DebtSvcFacade interface {
	CreateDebt(ctx context.Context, actor domain.Actor, req dto.CreateDebtRequest) (*domain.Debt, error)
	GetDebt(ctx context.Context, debtID string) (*domain.Debt, error)
	ListDebts(ctx context.Context, params dto.ListDebtsParams) ([]domain.Debt, error)
	// PayDebt applies a payment. Paying more than the remaining amount is rejected.
	PayDebt(ctx context.Context, actor domain.Actor, debtID string, amount decimal.Decimal) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, actor domain.Actor, debtID string) error
	// GetDebtSource dereferences the expense or transport a debt was derived from.
	GetDebtSource(ctx context.Context, debtID string) (*domain.ResolvedEntity, error)
}

// ExpenseSvcFacade records purchases and derives debts for unpaid ones.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, actor domain.Actor, req dto.ExpenseRequest) (*dto.ExpenseResponse, error)
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListCostsParams) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, actor domain.Actor, expenseID string, req dto.ExpenseRequest) (*dto.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, actor domain.Actor, expenseID string) error
}

// TransportSvcFacade records delivery costs and derives debts for unpaid ones.
type TransportSvcFacade interface {
	CreateTransport(ctx context.Context, actor domain.Actor, req dto.TransportRequest) (*dto.TransportResponse, error)
	GetTransport(ctx context.Context, transportID string) (*domain.Transport, error)
	ListTransports(ctx context.Context, params dto.ListCostsParams) ([]domain.Transport, error)
	UpdateTransport(ctx context.Context, actor domain.Actor, transportID string, req dto.TransportRequest) (*dto.TransportResponse, error)
	DeleteTransport(ctx context.Context, actor domain.Actor, transportID string) error
}

// ReceiptUpload describes a file being attached to an expense or transport.
type ReceiptUpload struct {
	Owner       domain.EntityRef
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReceiptSvcFacade attaches proof-of-payment files to costs.
type ReceiptSvcFacade interface {
	UploadReceipt(ctx context.Context, actor domain.Actor, upload ReceiptUpload) (*dto.ReceiptResponse, error)
	ListReceipts(ctx context.Context, owner domain.EntityRef) ([]dto.ReceiptResponse, error)
	DeleteReceipt(ctx context.Context, actor domain.Actor, receiptID string) error
}

// EntityResolver dereferences weak (type, id) references.
type EntityResolver interface {
	Resolve(ctx context.Context, ref domain.EntityRef) (*domain.ResolvedEntity, error)
}

// ReportSvcFacade builds the financial, workers and expenses reports and
// renders spreadsheet exports.
type ReportSvcFacade interface {
	FinancialReport(ctx context.Context, params dto.ReportParams) (*domain.FinancialReport, error)
	WorkersReport(ctx context.Context) (*domain.WorkersReport, error)
	ExpensesReport(ctx context.Context, params dto.ReportParams) (*domain.ExpensesReport, error)
	ExportDebts(ctx context.Context, w io.Writer) error
	ExportOrders(ctx context.Context, w io.Writer) error
	ExportFinancial(ctx context.Context, params dto.ReportParams, w io.Writer) error
	ExportWorkers(ctx context.Context, w io.Writer) error
	ExportExpenses(ctx context.Context, params dto.ReportParams, w io.Writer) error
}

// ActivitySvcFacade serves the feed of recent changes.
type ActivitySvcFacade interface {
	ListActivities(ctx context.Context, params dto.ListActivitiesParams) ([]domain.Activity, error)
}
