package repositories

import (
	"context"

	"github.com/SscSPs/business_management_app/internal/core/domain"
)

// ReportRepository runs the aggregate queries behind the reports.
type ReportRepository interface {
	// FinancialTotals sums orders created and costs incurred within the period.
	// Debt totals cover every debt regardless of the period.
	FinancialTotals(ctx context.Context, period domain.ReportPeriod) (*domain.FinancialTotals, error)
	// ListExpensesInPeriod retrieves expenses purchased within the period,
	// optionally limited to one category.
	ListExpensesInPeriod(ctx context.Context, period domain.ReportPeriod, category string) ([]domain.Expense, error)
	// CountEndedAssignments maps each worker id to its number of inactive assignments.
	CountEndedAssignments(ctx context.Context) (map[string]int, error)
}
