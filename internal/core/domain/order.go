package domain

import (
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// System order status names seeded by migrations.
const (
	StatusWaiting          = "waiting"
	StatusInProgress       = "in progress"
	StatusAssignedToWorker = "assigned to worker"
	StatusInstalling       = "installing"
	StatusInstalled        = "installed"
	StatusDelivered        = "delivered"
	StatusCancelled        = "cancelled"
)

// OrderStatus is a row of the order status lookup table.
type OrderStatus struct {
	StatusID  int       `json:"statusID"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsSystem  bool      `json:"isSystem"`
	CreatedAt time.Time `json:"createdAt"`
}

// Order is a customer job with its financial totals and production lifecycle.
type Order struct {
	OrderID              string          `json:"orderID"`
	Name                 string          `json:"name"`
	Wilaya               string          `json:"wilaya"`
	Product              string          `json:"product"`
	ProductionDetails    string          `json:"productionDetails"`
	Paid                 decimal.Decimal `json:"paid"`
	Total                decimal.Decimal `json:"total"`
	Note                 string          `json:"note"`
	StatusID             *int            `json:"statusID,omitempty"`
	StatusName           *string         `json:"statusName,omitempty"`
	IsPaid               bool            `json:"isPaid"`
	StartDate            *time.Time      `json:"startDate,omitempty"`
	ExpectedDeliveryDate *time.Time      `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time      `json:"actualDeliveryDate,omitempty"`
	CompletionDate       *time.Time      `json:"completionDate,omitempty"`
	AuditFields
}

// Remaining is total minus paid, rounded to two decimals. It can be negative
// only if paid was written past total outside the payment operation.
func (o Order) Remaining() decimal.Decimal {
	return RoundMoney(o.Total.Sub(o.Paid))
}

// ApplyPayment adds amount to Paid. Overpayment is rejected.
func (o *Order) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationFailedError("payment amount must be greater than zero")
	}
	if amount.GreaterThan(o.Remaining()) {
		return apperrors.NewValidationFailedError("payment amount exceeds the remaining balance of " + o.Remaining().StringFixed(2))
	}
	o.Paid = RoundMoney(o.Paid.Add(amount))
	o.IsPaid = o.Paid.GreaterThanOrEqual(o.Total)
	return nil
}

// HasWaitingStatus reports whether the order may be advanced by an assignment.
func (o Order) HasWaitingStatus() bool {
	return o.StatusID == nil || (o.StatusName != nil && *o.StatusName == StatusWaiting)
}

// Financial health labels.
const (
	HealthHealthy  = "healthy"
	HealthHasDebts = "has_debts"
)

// OrderFinancials is derived on every read from the order, its costs and the
// unpaid debts sourced from those costs.
type OrderFinancials struct {
	Remaining          decimal.Decimal `json:"remaining"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	TotalTransports    decimal.Decimal `json:"totalTransports"`
	TotalCosts         decimal.Decimal `json:"totalCosts"`
	Profit             decimal.Decimal `json:"profit"`
	ProfitPercentage   decimal.Decimal `json:"profitPercentage"`
	IsProfitable       bool            `json:"isProfitable"`
	RelatedDebtsAmount decimal.Decimal `json:"relatedDebtsAmount"`
	RelatedDebtsCount  int             `json:"relatedDebtsCount"`
	FinancialHealth    string          `json:"financialHealth"`
}

// ComputeOrderFinancials derives the financial view of an order.
// relatedDebts must already be limited to unpaid debts sourced from the
// order's expenses and transports.
func ComputeOrderFinancials(o Order, expenses []Expense, transports []Transport, relatedDebts []Debt) OrderFinancials {
	f := OrderFinancials{
		Remaining:          o.Remaining(),
		TotalExpenses:      decimal.Zero,
		TotalTransports:    decimal.Zero,
		RelatedDebtsAmount: decimal.Zero,
	}
	for _, e := range expenses {
		f.TotalExpenses = f.TotalExpenses.Add(e.TotalAmount)
	}
	for _, t := range transports {
		f.TotalTransports = f.TotalTransports.Add(t.TransportAmount)
	}
	for _, d := range relatedDebts {
		if d.Status == DebtPaid {
			continue
		}
		f.RelatedDebtsAmount = f.RelatedDebtsAmount.Add(d.Remaining())
		f.RelatedDebtsCount++
	}
	f.TotalCosts = RoundMoney(f.TotalExpenses.Add(f.TotalTransports))
	f.Profit = RoundMoney(o.Total.Sub(f.TotalCosts))
	f.ProfitPercentage = decimal.Zero
	if !o.Total.IsZero() {
		f.ProfitPercentage = f.Profit.Div(o.Total).Mul(decimal.NewFromInt(100)).Round(2)
	}
	f.IsProfitable = !f.Profit.IsNegative()
	f.RelatedDebtsAmount = RoundMoney(f.RelatedDebtsAmount)
	f.FinancialHealth = HealthHealthy
	if f.RelatedDebtsCount > 0 {
		f.FinancialHealth = HealthHasDebts
	}
	return f
}

// OrderHealthStats summarises financial health across all orders.
type OrderHealthStats struct {
	TotalOrders       int             `json:"totalOrders"`
	HealthyOrders     int             `json:"healthyOrders"`
	DebtOrders        int             `json:"debtOrders"`
	TotalDebtsAmount  decimal.Decimal `json:"totalDebtsAmount"`
	HealthyPercentage decimal.Decimal `json:"healthyPercentage"`
	DebtPercentage    decimal.Decimal `json:"debtPercentage"`
}

// OrderDebtSummary is the per-order aggregate the health stats are built from.
type OrderDebtSummary struct {
	OrderID     string
	DebtsAmount decimal.Decimal
}

// ComputeOrderHealthStats builds the health summary from per-order unpaid debt totals.
func ComputeOrderHealthStats(summaries []OrderDebtSummary) OrderHealthStats {
	stats := OrderHealthStats{
		TotalOrders:       len(summaries),
		TotalDebtsAmount:  decimal.Zero,
		HealthyPercentage: decimal.Zero,
		DebtPercentage:    decimal.Zero,
	}
	for _, s := range summaries {
		if s.DebtsAmount.IsPositive() {
			stats.DebtOrders++
			stats.TotalDebtsAmount = stats.TotalDebtsAmount.Add(s.DebtsAmount)
		} else {
			stats.HealthyOrders++
		}
	}
	if stats.TotalOrders > 0 {
		total := decimal.NewFromInt(int64(stats.TotalOrders))
		hundred := decimal.NewFromInt(100)
		stats.HealthyPercentage = decimal.NewFromInt(int64(stats.HealthyOrders)).Div(total).Mul(hundred).Round(2)
		stats.DebtPercentage = decimal.NewFromInt(int64(stats.DebtOrders)).Div(total).Mul(hundred).Round(2)
	}
	stats.TotalDebtsAmount = RoundMoney(stats.TotalDebtsAmount)
	return stats
}
