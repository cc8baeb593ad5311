package domain

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

type DebtStatus string

const (
	DebtUnpaid  DebtStatus = "unpaid"
	DebtPartial DebtStatus = "partial"
	DebtPaid    DebtStatus = "paid"
)

// Debt is an outstanding payable. Source is set when the debt was derived
// from an expense or transport and nil for manual debts.
type Debt struct {
	DebtID      string          `json:"debtID"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	DebtAmount  decimal.Decimal `json:"debtAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	StartDate   time.Time       `json:"startDate"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
	Status      DebtStatus      `json:"status"`
	Source      *EntityRef      `json:"source,omitempty"`
	Description string          `json:"description"`
	RecordedBy  string          `json:"recordedBy"`
	AuditFields
}

// Remaining is debt minus paid, rounded to two decimals.
func (d Debt) Remaining() decimal.Decimal {
	return RoundMoney(d.DebtAmount.Sub(d.PaidAmount))
}

// DebtStatusFor derives the status implied by the amounts.
func DebtStatusFor(debtAmount, paidAmount decimal.Decimal) DebtStatus {
	switch {
	case paidAmount.GreaterThanOrEqual(debtAmount):
		return DebtPaid
	case paidAmount.IsPositive():
		return DebtPartial
	default:
		return DebtUnpaid
	}
}

// IsUnpaid reports whether any amount is still owed.
func (d Debt) IsUnpaid() bool {
	return d.Status != DebtPaid
}

// ApplyPayment records a payment. Paying more than the remaining amount is rejected.
func (d *Debt) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationFailedError("payment amount must be greater than zero")
	}
	if amount.GreaterThan(d.Remaining()) {
		return apperrors.NewValidationFailedError("payment amount exceeds the remaining debt of " + d.Remaining().StringFixed(2))
	}
	d.PaidAmount = RoundMoney(d.PaidAmount.Add(amount))
	d.Status = DebtStatusFor(d.DebtAmount, d.PaidAmount)
	d.PaymentDate = &now
	return nil
}

// Resync takes the debt amount from the source cost. Paid never decreases, so
// payments recorded against the debt itself survive an edit of the source.
func (d *Debt) Resync(debtAmount, paidAmount decimal.Decimal) {
	d.DebtAmount = RoundMoney(debtAmount)
	if paid := RoundMoney(paidAmount); paid.GreaterThan(d.PaidAmount) {
		d.PaidAmount = paid
	}
	d.Status = DebtStatusFor(d.DebtAmount, d.PaidAmount)
}

// IsOverdue reports unpaid debts older than the given number of days.
func (d Debt) IsOverdue(now time.Time, days int) bool {
	return d.IsUnpaid() && DaysBetween(d.StartDate, now) > days
}
