package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentUnpaid || p == PaymentPartial
}

// CreatesDebt reports whether a cost recorded with this status owes money.
func (p PaymentStatus) CreatesDebt() bool {
	return p == PaymentUnpaid || p == PaymentPartial
}

// defaultCounterparty names the creditor of a derived debt when none is given.
const defaultCounterparty = "supplier"

// Receipt is an uploaded proof of payment stored in the blob store.
type Receipt struct {
	ReceiptID        string    `json:"receiptID"`
	Owner            EntityRef `json:"owner"`
	ObjectKey        string    `json:"objectKey"`
	OriginalFilename string    `json:"originalFilename"`
	ContentType      string    `json:"contentType"`
	Size             int64     `json:"size"`
	UploadedBy       string    `json:"uploadedBy"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

func counterparty(name string) string {
	if name == "" {
		return defaultCounterparty
	}
	return name
}

func derivedDebt(source EntityRef, name, phone, address string, amount, paid decimal.Decimal, start time.Time, description string, actor Actor, now time.Time) Debt {
	d := Debt{
		Name:        counterparty(name),
		Phone:       phone,
		Address:     address,
		DebtAmount:  RoundMoney(amount),
		PaidAmount:  RoundMoney(paid),
		StartDate:   start,
		Source:      &source,
		Description: description,
		RecordedBy:  actor.DisplayName(),
		AuditFields: NewAuditFields(actor, now),
	}
	d.Status = DebtStatusFor(d.DebtAmount, d.PaidAmount)
	return d
}
