package dto

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRequest creates or replaces an expense.
type ExpenseRequest struct {
	OrderID         *string              `json:"orderID"`
	Category        string               `json:"category" binding:"required"`
	Description     string               `json:"description"`
	Quantity        int                  `json:"quantity" binding:"required,min=1"`
	UnitPrice       decimal.Decimal      `json:"unitPrice" binding:"decimalgte0"`
	PaidAmount      decimal.Decimal      `json:"paidAmount" binding:"decimalgte0"`
	PaymentStatus   domain.PaymentStatus `json:"paymentStatus" binding:"required,oneof=paid unpaid partial"`
	PaymentMethod   string               `json:"paymentMethod"`
	SupplierName    string               `json:"supplierName"`
	SupplierPhone   string               `json:"supplierPhone"`
	SupplierAddress string               `json:"supplierAddress"`
	PurchasedBy     string               `json:"purchasedBy"`
	PurchaseDate    *time.Time           `json:"purchaseDate"`
	Notes           string               `json:"notes"`
	Version         int64                `json:"version"`
}

// TransportRequest creates or replaces a transport.
type TransportRequest struct {
	OrderID         *string              `json:"orderID"`
	Name            string               `json:"name" binding:"required"`
	Phone           string               `json:"phone"`
	Address         string               `json:"address"`
	TransportAmount decimal.Decimal      `json:"transportAmount" binding:"decimalgte0"`
	PaidAmount      decimal.Decimal      `json:"paidAmount" binding:"decimalgte0"`
	PaymentStatus   domain.PaymentStatus `json:"paymentStatus" binding:"required,oneof=paid unpaid partial"`
	Destination     string               `json:"destination"`
	Purpose         string               `json:"purpose"`
	TransportType   string               `json:"transportType"`
	TransportMethod string               `json:"transportMethod"`
	Distance        decimal.Decimal      `json:"distance" binding:"decimalgte0"`
	TransportDate   *time.Time           `json:"transportDate"`
	Notes           string               `json:"notes"`
	Version         int64                `json:"version"`
}

// ListCostsParams defines query parameters for listing expenses or transports.
type ListCostsParams struct {
	OrderID *string `form:"orderID"`
	Limit   int     `form:"limit,default=50"`
	Offset  int     `form:"offset,default=0"`
}

// ExpenseResponse is an expense plus the debt created for its unpaid part.
type ExpenseResponse struct {
	Expense domain.Expense `json:"expense"`
	Debt    *domain.Debt   `json:"debt,omitempty"`
}

// TransportResponse is a transport plus the debt created for its unpaid part.
type TransportResponse struct {
	Transport domain.Transport `json:"transport"`
	Debt      *domain.Debt     `json:"debt,omitempty"`
}

// ReceiptResponse is receipt metadata with a short-lived download link.
type ReceiptResponse struct {
	domain.Receipt
	URL string `json:"url"`
}
