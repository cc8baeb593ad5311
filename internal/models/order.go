package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a row of the order_statuses table.
type OrderStatus struct {
	StatusID  int       `db:"status_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	IsSystem  bool      `db:"is_system"`
	CreatedAt time.Time `db:"created_at"`
}

// Order is a row of the orders table joined with its status name.
type Order struct {
	OrderID              string          `db:"order_id"`
	Name                 string          `db:"name"`
	Wilaya               string          `db:"wilaya"`
	Product              string          `db:"product"`
	ProductionDetails    string          `db:"production_details"`
	Paid                 decimal.Decimal `db:"paid"`
	Total                decimal.Decimal `db:"total"`
	Note                 string          `db:"note"`
	StatusID             *int            `db:"status_id"`
	StatusName           *string         `db:"status_name"`
	IsPaid               bool            `db:"is_paid"`
	StartDate            *time.Time      `db:"start_date"`
	ExpectedDeliveryDate *time.Time      `db:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `db:"actual_delivery_date"`
	CompletionDate       *time.Time      `db:"completion_date"`
	AuditFields
}

// OrderDebtSummary is one row of the per-order unpaid debt aggregate.
type OrderDebtSummary struct {
	OrderID     string          `db:"order_id"`
	DebtsAmount decimal.Decimal `db:"debts_amount"`
}

// OrderHistory is a row of the order_history table.
type OrderHistory struct {
	HistoryID  string    `db:"history_id"`
	OrderID    string    `db:"order_id"`
	ChangeType string    `db:"change_type"`
	Details    string    `db:"details"`
	Actor      string    `db:"actor"`
	Timestamp  time.Time `db:"timestamp"`
}
