package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity is a row of the merged order_history and worker_history feed.
type Activity struct {
	Source     string           `db:"source"`
	SubjectID  string           `db:"subject_id"`
	ChangeType string           `db:"change_type"`
	Details    string           `db:"details"`
	Amount     *decimal.Decimal `db:"amount"`
	Actor      string           `db:"actor"`
	Timestamp  time.Time        `db:"timestamp"`
}

// FinancialTotals is the single row of the financial report aggregate.
type FinancialTotals struct {
	OrdersRevenue     decimal.Decimal `db:"orders_revenue"`
	OrdersPaid        decimal.Decimal `db:"orders_paid"`
	OrdersCount       int             `db:"orders_count"`
	PaidOrdersTotal   decimal.Decimal `db:"paid_orders_total"`
	UnpaidOrdersTotal decimal.Decimal `db:"unpaid_orders_total"`
	Purchases         decimal.Decimal `db:"purchases"`
	Transport         decimal.Decimal `db:"transport"`
	DebtTotal         decimal.Decimal `db:"debt_total"`
	DebtPaid          decimal.Decimal `db:"debt_paid"`
}

// AssignmentCount is the number of ended assignments of a worker.
type AssignmentCount struct {
	WorkerID string `db:"worker_id"`
	Count    int    `db:"ended"`
}
