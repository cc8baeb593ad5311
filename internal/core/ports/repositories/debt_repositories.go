package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// DebtReader defines read operations for debt data
type DebtReader interface {
	FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// FindDebtByIDForUpdate locks the debt row for the rest of the transaction.
	FindDebtByIDForUpdate(ctx context.Context, debtID string) (*domain.Debt, error)

	// FindDebtBySource retrieves the debt derived from an expense or transport.
	FindDebtBySource(ctx context.Context, source domain.EntityRef) (*domain.Debt, error)

	ListDebts(ctx context.Context, filter domain.DebtFilter) ([]domain.Debt, error)

	// ListUnpaidDebtsByOrder retrieves unpaid debts sourced from the order's expenses and transports.
	ListUnpaidDebtsByOrder(ctx context.Context, orderID string) ([]domain.Debt, error)

	// ListOverdueDebts retrieves unpaid debts started before cutoff.
	ListOverdueDebts(ctx context.Context, startedBefore time.Time) ([]domain.Debt, error)
}

// DebtWriter defines write operations for debt data
type DebtWriter interface {
	SaveDebt(ctx context.Context, debt domain.Debt) error

	// SaveDerivedDebt inserts a debt with a source unless one already exists for
	// that source. It reports whether a row was inserted.
	SaveDerivedDebt(ctx context.Context, debt domain.Debt) (bool, error)

	// UpdateDebt updates a debt if its version still matches and bumps the version.
	UpdateDebt(ctx context.Context, debt *domain.Debt) error

	DeleteDebt(ctx context.Context, debtID string) error
}

// DebtRepositoryFacade combines all debt-related repository interfaces
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}
