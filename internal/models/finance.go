package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is a row of the debts table.
type Debt struct {
	DebtID      string          `db:"debt_id"`
	Name        string          `db:"name"`
	Phone       string          `db:"phone"`
	Address     string          `db:"address"`
	DebtAmount  decimal.Decimal `db:"debt_amount"`
	PaidAmount  decimal.Decimal `db:"paid_amount"`
	StartDate   time.Time       `db:"start_date"`
	PaymentDate *time.Time      `db:"payment_date"`
	Status      string          `db:"status"`
	SourceType  *string         `db:"source_type"`
	SourceID    *string         `db:"source_id"`
	Description string          `db:"description"`
	RecordedBy  string          `db:"recorded_by"`
	AuditFields
}

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID       string          `db:"expense_id"`
	OrderID         *string         `db:"order_id"`
	Category        string          `db:"category"`
	Description     string          `db:"description"`
	Quantity        int             `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	PaymentStatus   string          `db:"payment_status"`
	PaymentMethod   string          `db:"payment_method"`
	SupplierName    string          `db:"supplier_name"`
	SupplierPhone   string          `db:"supplier_phone"`
	SupplierAddress string          `db:"supplier_address"`
	PurchasedBy     string          `db:"purchased_by"`
	PurchaseDate    time.Time       `db:"purchase_date"`
	Notes           string          `db:"notes"`
	RecordedBy      string          `db:"recorded_by"`
	AuditFields
}

// Transport is a row of the transports table.
type Transport struct {
	TransportID     string          `db:"transport_id"`
	OrderID         *string         `db:"order_id"`
	Name            string          `db:"name"`
	Phone           string          `db:"phone"`
	Address         string          `db:"address"`
	TransportAmount decimal.Decimal `db:"transport_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	PaymentStatus   string          `db:"payment_status"`
	Destination     string          `db:"destination"`
	Purpose         string          `db:"purpose"`
	TransportType   string          `db:"transport_type"`
	TransportMethod string          `db:"transport_method"`
	Distance        decimal.Decimal `db:"distance"`
	TransportDate   time.Time       `db:"transport_date"`
	Notes           string          `db:"notes"`
	RecordedBy      string          `db:"recorded_by"`
	AuditFields
}

// Receipt is a row of the receipts table.
type Receipt struct {
	ReceiptID        string    `db:"receipt_id"`
	OwnerType        string    `db:"owner_type"`
	OwnerID          string    `db:"owner_id"`
	ObjectKey        string    `db:"object_key"`
	OriginalFilename string    `db:"original_filename"`
	ContentType      string    `db:"content_type"`
	Size             int64     `db:"size"`
	UploadedBy       string    `db:"uploaded_by"`
	UploadedAt       time.Time `db:"uploaded_at"`
}
