package domain

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LateHourPenalty is deducted from the salary for every late hour.
var LateHourPenalty = decimal.NewFromInt(500)

var daysPerMonth = decimal.NewFromInt(30)

// Worker is an employee who can be assigned to orders and given tasks.
type Worker struct {
	WorkerID         string          `json:"workerID"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	IDCard           string          `json:"idCard"`
	StartDate        time.Time       `json:"startDate"`
	MonthlySalary    decimal.Decimal `json:"monthlySalary"`
	Absences         decimal.Decimal `json:"absences"`
	OutsideWorkDays  int             `json:"outsideWorkDays"`
	OutsideWorkBonus decimal.Decimal `json:"outsideWorkBonus"`
	Advances         decimal.Decimal `json:"advances"`
	Incentives       decimal.Decimal `json:"incentives"`
	LateHours        decimal.Decimal `json:"lateHours"`
	IsActive         bool            `json:"isActive"`
	Username         *string         `json:"username,omitempty"`
	PasswordHash     *string         `json:"-"`
	LastLogin        *time.Time      `json:"lastLogin,omitempty"`
	AuditFields
}

// DailyRate is the monthly salary spread over a 30 day month.
func (w Worker) DailyRate() decimal.Decimal {
	return w.MonthlySalary.Div(daysPerMonth)
}

// GrossEarnings is what the worker earned in the current pay period before deductions.
func (w Worker) GrossEarnings(now time.Time) decimal.Decimal {
	days := DaysBetween(w.StartDate, now)
	if days < 0 {
		days = 0
	}
	return w.DailyRate().Mul(decimal.NewFromInt(int64(days))).
		Add(w.OutsideWorkBonus).
		Add(w.Incentives)
}

// Deductions sums advances, absent days and late hour penalties.
func (w Worker) Deductions() decimal.Decimal {
	return w.Advances.
		Add(w.Absences.Mul(w.DailyRate())).
		Add(w.LateHours.Mul(LateHourPenalty))
}

// TotalSalary is the amount owed to the worker as of now, never negative.
func (w Worker) TotalSalary(now time.Time) decimal.Decimal {
	total := w.GrossEarnings(now).Sub(w.Deductions())
	if total.IsNegative() {
		return decimal.Zero
	}
	return RoundMoney(total)
}

func (w Worker) Ref() EntityRef {
	return EntityRef{Type: EntityWorker, ID: w.WorkerID}
}

// AdjustmentKind names a change to a worker's salary counters.
type AdjustmentKind string

const (
	AdjustAdvance     AdjustmentKind = "advance"
	AdjustIncentive   AdjustmentKind = "incentive"
	AdjustAbsence     AdjustmentKind = "absence"
	AdjustLateHours   AdjustmentKind = "late_hours"
	AdjustOutsideWork AdjustmentKind = "outside_work"
)

// Apply adds amount to the counter named by kind. Outside work adds one day and
// amount to the bonus.
func (w *Worker) Apply(kind AdjustmentKind, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationFailedError("adjustment amount must be greater than zero")
	}
	switch kind {
	case AdjustAdvance:
		w.Advances = w.Advances.Add(amount)
	case AdjustIncentive:
		w.Incentives = w.Incentives.Add(amount)
	case AdjustAbsence:
		w.Absences = w.Absences.Add(amount)
	case AdjustLateHours:
		w.LateHours = w.LateHours.Add(amount)
	case AdjustOutsideWork:
		w.OutsideWorkDays++
		w.OutsideWorkBonus = w.OutsideWorkBonus.Add(amount)
	default:
		return apperrors.NewValidationFailedError("unknown adjustment kind " + string(kind))
	}
	return nil
}

// EvaluationScores are the four 0..10 criteria of a performance evaluation.
type EvaluationScores struct {
	Quality    int `json:"quality"`
	Timing     int `json:"timing"`
	Accuracy   int `json:"accuracy"`
	Efficiency int `json:"efficiency"`
}

func (s EvaluationScores) Validate() error {
	for _, v := range []int{s.Quality, s.Timing, s.Accuracy, s.Efficiency} {
		if v < 0 || v > 10 {
			return apperrors.NewValidationFailedError("evaluation scores must be between 0 and 10")
		}
	}
	return nil
}

func (s EvaluationScores) Total() int {
	return s.Quality + s.Timing + s.Accuracy + s.Efficiency
}

// WorkerEvaluation records the performance of a worker on an order.
type WorkerEvaluation struct {
	EvaluationID  string           `json:"evaluationID"`
	WorkerID      string           `json:"workerID"`
	OrderID       *string          `json:"orderID,omitempty"`
	Scores        EvaluationScores `json:"scores"`
	TotalScore    int              `json:"totalScore"`
	BonusAmount   decimal.Decimal  `json:"bonusAmount"`
	PenaltyAmount decimal.Decimal  `json:"penaltyAmount"`
	Notes         string           `json:"notes"`
	EvaluatedBy   string           `json:"evaluatedBy"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// EvaluationOutcome maps a total score out of 40 to a bonus or a penalty.
func EvaluationOutcome(total int) (bonus, penalty decimal.Decimal) {
	bonus, penalty = decimal.Zero, decimal.Zero
	switch {
	case total >= 38:
		bonus = decimal.NewFromInt(500)
	case total >= 35:
		bonus = decimal.NewFromInt(300)
	case total >= 32:
		bonus = decimal.NewFromInt(150)
	case total <= 25:
		penalty = decimal.NewFromInt(200)
	case total <= 28:
		penalty = decimal.NewFromInt(100)
	}
	return bonus, penalty
}

// WorkerMonthlyRecord snapshots a worker's pay period when a salary is paid.
// There is one record per worker and calendar month.
type WorkerMonthlyRecord struct {
	RecordID         string          `json:"recordID"`
	WorkerID         string          `json:"workerID"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalSalary      decimal.Decimal `json:"totalSalary"`
	Advances         decimal.Decimal `json:"advances"`
	Absences         decimal.Decimal `json:"absences"`
	LateHours        decimal.Decimal `json:"lateHours"`
	OutsideWorkDays  int             `json:"outsideWorkDays"`
	OutsideWorkBonus decimal.Decimal `json:"outsideWorkBonus"`
	Incentives       decimal.Decimal `json:"incentives"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	Notes            string          `json:"notes"`
	RecordedBy       string          `json:"recordedBy"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// PaySalary settles a salary payment: it snapshots the counters of the
// current period, zeroes them and starts a new period today. Paying more
// than is owed is rejected.
func (w *Worker) PaySalary(amount decimal.Decimal, actor Actor, now time.Time) (WorkerMonthlyRecord, error) {
	if !amount.IsPositive() {
		return WorkerMonthlyRecord{}, apperrors.NewValidationFailedError("salary payment must be greater than zero")
	}
	owed := w.TotalSalary(now)
	amount = RoundMoney(amount)
	if amount.GreaterThan(owed) {
		return WorkerMonthlyRecord{}, apperrors.NewValidationFailedError("payment exceeds the salary owed (" + owed.StringFixed(2) + ")")
	}

	record := WorkerMonthlyRecord{
		WorkerID:         w.WorkerID,
		Year:             now.Year(),
		Month:            int(now.Month()),
		TotalSalary:      owed,
		Advances:         w.Advances,
		Absences:         w.Absences,
		LateHours:        w.LateHours,
		OutsideWorkDays:  w.OutsideWorkDays,
		OutsideWorkBonus: w.OutsideWorkBonus,
		Incentives:       w.Incentives,
		PaidAmount:       amount,
		RecordedBy:       actor.DisplayName(),
		CreatedAt:        now,
	}

	w.StartDate = startOfDay(now)
	w.Absences = decimal.Zero
	w.OutsideWorkDays = 0
	w.OutsideWorkBonus = decimal.Zero
	w.Advances = decimal.Zero
	w.Incentives = decimal.Zero
	w.LateHours = decimal.Zero
	return record, nil
}
