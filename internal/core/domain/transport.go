package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Transport is a delivery or travel cost, optionally charged to an order.
type Transport struct {
	TransportID     string          `json:"transportID"`
	OrderID         *string         `json:"orderID,omitempty"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	TransportAmount decimal.Decimal `json:"transportAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Destination     string          `json:"destination"`
	Purpose         string          `json:"purpose"`
	TransportType   string          `json:"transportType"`
	TransportMethod string          `json:"transportMethod"`
	Distance        decimal.Decimal `json:"distance"`
	TransportDate   time.Time       `json:"transportDate"`
	Notes           string          `json:"notes"`
	RecordedBy      string          `json:"recordedBy"`
	AuditFields
}

// Validate checks the amounts against the payment status.
func (t *Transport) Validate() error {
	if t.TransportAmount.IsNegative() || t.PaidAmount.IsNegative() {
		return apperrors.NewValidationFailedError("amounts must not be negative")
	}
	if !t.PaymentStatus.Valid() {
		return apperrors.NewValidationFailedError("invalid payment status " + string(t.PaymentStatus))
	}
	if t.PaidAmount.GreaterThan(t.TransportAmount) {
		return apperrors.NewValidationFailedError("paid amount exceeds the transport amount")
	}
	t.TransportAmount = RoundMoney(t.TransportAmount)
	if t.PaymentStatus == PaymentPaid {
		t.PaidAmount = t.TransportAmount
	}
	return nil
}

// Remaining is the unpaid part of the transport cost.
func (t Transport) Remaining() decimal.Decimal {
	return RoundMoney(t.TransportAmount.Sub(t.PaidAmount))
}

func (t Transport) Ref() EntityRef {
	return EntityRef{Type: EntityTransport, ID: t.TransportID}
}

// DerivedDebt snapshots the unpaid part of the transport as a debt owed to the carrier.
func (t Transport) DerivedDebt(actor Actor, now time.Time) Debt {
	desc := strings.Trim(t.Purpose+" - "+t.Destination, " -")
	return derivedDebt(t.Ref(), t.Name, t.Phone, t.Address,
		t.TransportAmount, t.PaidAmount, t.TransportDate, desc, actor, now)
}
