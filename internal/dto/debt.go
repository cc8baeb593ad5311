package dto

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDebtRequest records a manual debt.
type CreateDebtRequest struct {
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	DebtAmount  decimal.Decimal `json:"debtAmount" binding:"decimalgt0"`
	PaidAmount  decimal.Decimal `json:"paidAmount" binding:"decimalgte0"`
	StartDate   *time.Time      `json:"startDate"`
	Description string          `json:"description"`
}

// ListDebtsParams defines query parameters for listing debts.
type ListDebtsParams struct {
	Status     *domain.DebtStatus `form:"status" binding:"omitempty,oneof=unpaid partial paid"`
	SourceType *domain.EntityType `form:"sourceType" binding:"omitempty,oneof=expense transport"`
	ManualOnly bool               `form:"manualOnly"`
	Search     string             `form:"q"`
	Limit      int                `form:"limit,default=50"`
	Offset     int                `form:"offset,default=0"`
}

// DebtResponse is a debt with its remaining amount.
type DebtResponse struct {
	domain.Debt
	Remaining decimal.Decimal `json:"remaining"`
}

func ToDebtResponse(d domain.Debt) DebtResponse {
	return DebtResponse{Debt: d, Remaining: d.Remaining()}
}

func ToDebtResponses(debts []domain.Debt) []DebtResponse {
	out := make([]DebtResponse, len(debts))
	for i, d := range debts {
		out[i] = ToDebtResponse(d)
	}
	return out
}
