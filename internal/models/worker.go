package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker is a row of the workers table.
type Worker struct {
	WorkerID         string          `db:"worker_id"`
	Name             string          `db:"name"`
	Phone            string          `db:"phone"`
	Address          string          `db:"address"`
	IDCard           string          `db:"id_card"`
	StartDate        time.Time       `db:"start_date"`
	MonthlySalary    decimal.Decimal `db:"monthly_salary"`
	Absences         decimal.Decimal `db:"absences"`
	OutsideWorkDays  int             `db:"outside_work_days"`
	OutsideWorkBonus decimal.Decimal `db:"outside_work_bonus"`
	Advances         decimal.Decimal `db:"advances"`
	Incentives       decimal.Decimal `db:"incentives"`
	LateHours        decimal.Decimal `db:"late_hours"`
	IsActive         bool            `db:"is_active"`
	Username         *string         `db:"username"`
	PasswordHash     *string         `db:"password_hash"`
	LastLogin        *time.Time      `db:"last_login"`
	AuditFields
}

// WorkerHistory is a row of the worker_history table.
type WorkerHistory struct {
	HistoryID  string          `db:"history_id"`
	WorkerID   string          `db:"worker_id"`
	ChangeType string          `db:"change_type"`
	Details    string          `db:"details"`
	Amount     decimal.Decimal `db:"amount"`
	Actor      string          `db:"actor"`
	Timestamp  time.Time       `db:"timestamp"`
}

// WorkerEvaluation is a row of the worker_evaluations table.
type WorkerEvaluation struct {
	EvaluationID  string          `db:"evaluation_id"`
	WorkerID      string          `db:"worker_id"`
	OrderID       *string         `db:"order_id"`
	Quality       int             `db:"quality"`
	Timing        int             `db:"timing"`
	Accuracy      int             `db:"accuracy"`
	Efficiency    int             `db:"efficiency"`
	TotalScore    int             `db:"total_score"`
	BonusAmount   decimal.Decimal `db:"bonus_amount"`
	PenaltyAmount decimal.Decimal `db:"penalty_amount"`
	Notes         string          `db:"notes"`
	EvaluatedBy   string          `db:"evaluated_by"`
	CreatedAt     time.Time       `db:"created_at"`
}

// OrderAssignment is a row of the order_assignments table joined with the worker name.
type OrderAssignment struct {
	AssignmentID   string     `db:"assignment_id"`
	OrderID        string     `db:"order_id"`
	WorkerID       string     `db:"worker_id"`
	WorkerName     string     `db:"worker_name"`
	AssignmentType string     `db:"assignment_type"`
	AssignedDate   time.Time  `db:"assigned_date"`
	CompletedDate  *time.Time `db:"completed_date"`
	IsActive       bool       `db:"is_active"`
	Notes          string     `db:"notes"`
	AssignedBy     string     `db:"assigned_by"`
}

// WorkerMonthlyRecord is a row of the worker_monthly_records table.
type WorkerMonthlyRecord struct {
	RecordID         string          `db:"record_id"`
	WorkerID         string          `db:"worker_id"`
	Year             int             `db:"year"`
	Month            int             `db:"month"`
	TotalSalary      decimal.Decimal `db:"total_salary"`
	Advances         decimal.Decimal `db:"advances"`
	Absences         decimal.Decimal `db:"absences"`
	LateHours        decimal.Decimal `db:"late_hours"`
	OutsideWorkDays  int             `db:"outside_work_days"`
	OutsideWorkBonus decimal.Decimal `db:"outside_work_bonus"`
	Incentives       decimal.Decimal `db:"incentives"`
	PaidAmount       decimal.Decimal `db:"paid_amount"`
	Notes            string          `db:"notes"`
	RecordedBy       string          `db:"recorded_by"`
	CreatedAt        time.Time       `db:"created_at"`
}
