package dto

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWorkerRequest defines the data needed to hire a worker.
type CreateWorkerRequest struct {
	Name          string          `json:"name" binding:"required"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	IDCard        string          `json:"idCard"`
	StartDate     *time.Time      `json:"startDate"`
	MonthlySalary decimal.Decimal `json:"monthlySalary" binding:"decimalgte0"`
	Username      *string         `json:"username" binding:"omitempty,min=3"`
	Password      *string         `json:"password" binding:"omitempty,min=8"`
}

// UpdateWorkerRequest carries the editable worker fields. Nil fields are left unchanged.
type UpdateWorkerRequest struct {
	Name          *string          `json:"name"`
	Phone         *string          `json:"phone"`
	Address       *string          `json:"address"`
	IDCard        *string          `json:"idCard"`
	StartDate     *time.Time       `json:"startDate"`
	MonthlySalary *decimal.Decimal `json:"monthlySalary" binding:"omitempty,decimalgte0"`
	IsActive      *bool            `json:"isActive"`
	Password      *string          `json:"password" binding:"omitempty,min=8"`
	Version       int64            `json:"version" binding:"required"`
}

// WorkerAdjustmentRequest changes one salary counter.
type WorkerAdjustmentRequest struct {
	Kind   domain.AdjustmentKind `json:"kind" binding:"required,oneof=advance incentive absence late_hours outside_work"`
	Amount decimal.Decimal       `json:"amount" binding:"decimalgt0"`
	Notes  string                `json:"notes"`
}

// EvaluateWorkerRequest scores a worker on four criteria.
type EvaluateWorkerRequest struct {
	OrderID    *string `json:"orderID"`
	Quality    int     `json:"quality" binding:"min=0,max=10"`
	Timing     int     `json:"timing" binding:"min=0,max=10"`
	Accuracy   int     `json:"accuracy" binding:"min=0,max=10"`
	Efficiency int     `json:"efficiency" binding:"min=0,max=10"`
	Notes      string  `json:"notes"`
}

// ListWorkersParams defines query parameters for listing workers.
type ListWorkersParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// PaySalaryRequest settles part or all of the salary a worker is owed.
type PaySalaryRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"decimalgt0"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
}

// SalaryPaymentResponse reports a salary payment and the new pay period.
type SalaryPaymentResponse struct {
	Worker         domain.Worker              `json:"worker"`
	Record         domain.WorkerMonthlyRecord `json:"record"`
	PreviousSalary decimal.Decimal            `json:"previousSalary"`
	NewSalary      decimal.Decimal            `json:"newSalary"`
}
