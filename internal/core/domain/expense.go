package domain

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Expense is a purchase, optionally charged to an order.
type Expense struct {
	ExpenseID       string          `json:"expenseID"`
	OrderID         *string         `json:"orderID,omitempty"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	SupplierName    string          `json:"supplierName"`
	SupplierPhone   string          `json:"supplierPhone"`
	SupplierAddress string          `json:"supplierAddress"`
	PurchasedBy     string          `json:"purchasedBy"`
	PurchaseDate    time.Time       `json:"purchaseDate"`
	Notes           string          `json:"notes"`
	RecordedBy      string          `json:"recordedBy"`
	AuditFields
}

// Recalculate derives the total from quantity and unit price and checks the amounts.
func (e *Expense) Recalculate() error {
	if e.Quantity <= 0 {
		return apperrors.NewValidationFailedError("quantity must be at least 1")
	}
	if e.UnitPrice.IsNegative() || e.PaidAmount.IsNegative() {
		return apperrors.NewValidationFailedError("amounts must not be negative")
	}
	if !e.PaymentStatus.Valid() {
		return apperrors.NewValidationFailedError("invalid payment status " + string(e.PaymentStatus))
	}
	e.TotalAmount = RoundMoney(e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
	if e.PaidAmount.GreaterThan(e.TotalAmount) {
		return apperrors.NewValidationFailedError("paid amount exceeds the expense total")
	}
	if e.PaymentStatus == PaymentPaid {
		e.PaidAmount = e.TotalAmount
	}
	return nil
}

// Ref is the weak reference other entities use to point at this expense.
func (e Expense) Ref() EntityRef {
	return EntityRef{Type: EntityExpense, ID: e.ExpenseID}
}

// DerivedDebt snapshots the unpaid part of the expense as a debt.
func (e Expense) DerivedDebt(actor Actor, now time.Time) Debt {
	return derivedDebt(e.Ref(), e.SupplierName, e.SupplierPhone, e.SupplierAddress,
		e.TotalAmount, e.PaidAmount, e.PurchaseDate, e.Description, actor, now)
}
