package domain

import (
	"sort"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ReportPeriod is the closed time range a report covers.
type ReportPeriod struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// reportWindows are the rolling windows selectable by name.
var reportWindows = map[string]int{
	"day":     1,
	"week":    7,
	"month":   30,
	"quarter": 90,
	"year":    365,
}

// ResolvePeriod picks the report range. An explicit from/to pair wins over the
// named rolling window ending at now.
func ResolvePeriod(name string, from, to *time.Time, now time.Time) (ReportPeriod, error) {
	if from != nil && to != nil {
		if to.Before(*from) {
			return ReportPeriod{}, apperrors.NewValidationFailedError("report end date is before its start date")
		}
		// Whole end day is included.
		return ReportPeriod{From: startOfDay(*from), To: startOfDay(*to).AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
	}
	if name == "" {
		name = "month"
	}
	days, ok := reportWindows[name]
	if !ok {
		return ReportPeriod{}, apperrors.NewValidationFailedError("unknown report period " + name)
	}
	return ReportPeriod{From: now.AddDate(0, 0, -days), To: now}, nil
}

// FinancialTotals are the raw sums a financial report is built from.
type FinancialTotals struct {
	OrdersRevenue     decimal.Decimal
	OrdersPaid        decimal.Decimal
	OrdersCount       int
	PaidOrdersTotal   decimal.Decimal
	UnpaidOrdersTotal decimal.Decimal
	Purchases         decimal.Decimal
	Transport         decimal.Decimal
	DebtTotal         decimal.Decimal
	DebtPaid          decimal.Decimal
}

type RevenueSection struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	OrdersCount  int             `json:"ordersCount"`
}

type CostSection struct {
	Purchases     decimal.Decimal `json:"purchases"`
	Transport     decimal.Decimal `json:"transport"`
	Salaries      decimal.Decimal `json:"salaries"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

type ProfitSection struct {
	NetProfit decimal.Decimal `json:"netProfit"`
	// Margin is a percentage of revenue, zero without revenue.
	Margin decimal.Decimal `json:"margin"`
}

type DebtSection struct {
	TotalDebt     decimal.Decimal `json:"totalDebt"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	RemainingDebt decimal.Decimal `json:"remainingDebt"`
}

// OverviewSection compares fully paid orders against running costs.
type OverviewSection struct {
	PaidOrders   decimal.Decimal `json:"paidOrders"`
	UnpaidOrders decimal.Decimal `json:"unpaidOrders"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// FinancialReport summarises revenue, costs, profit and debts over a period.
type FinancialReport struct {
	Period   ReportPeriod    `json:"period"`
	Revenue  RevenueSection  `json:"revenue"`
	Costs    CostSection     `json:"costs"`
	Profit   ProfitSection   `json:"profit"`
	Debts    DebtSection     `json:"debts"`
	Overview OverviewSection `json:"overview"`
}

// BuildFinancialReport derives profit and margins. Salaries are what the
// active workers are owed right now and are not limited to the period.
func BuildFinancialReport(period ReportPeriod, t FinancialTotals, salaries decimal.Decimal) FinancialReport {
	costs := t.Purchases.Add(t.Transport).Add(salaries)
	net := t.OrdersRevenue.Sub(costs)
	margin := decimal.Zero
	if t.OrdersRevenue.IsPositive() {
		margin = net.Div(t.OrdersRevenue).Mul(hundred)
	}
	return FinancialReport{
		Period: period,
		Revenue: RevenueSection{
			TotalRevenue: RoundMoney(t.OrdersRevenue),
			TotalPaid:    RoundMoney(t.OrdersPaid),
			OrdersCount:  t.OrdersCount,
		},
		Costs: CostSection{
			Purchases:     RoundMoney(t.Purchases),
			Transport:     RoundMoney(t.Transport),
			Salaries:      RoundMoney(salaries),
			TotalExpenses: RoundMoney(costs),
		},
		Profit: ProfitSection{
			NetProfit: RoundMoney(net),
			Margin:    RoundMoney(margin),
		},
		Debts: DebtSection{
			TotalDebt:     RoundMoney(t.DebtTotal),
			TotalPaid:     RoundMoney(t.DebtPaid),
			RemainingDebt: RoundMoney(t.DebtTotal.Sub(t.DebtPaid)),
		},
		Overview: OverviewSection{
			PaidOrders:   RoundMoney(t.PaidOrdersTotal),
			UnpaidOrders: RoundMoney(t.UnpaidOrdersTotal),
			NetIncome:    RoundMoney(t.PaidOrdersTotal.Sub(t.Purchases).Sub(t.Transport)),
		},
	}
}

// WorkerReportLine is one active worker in the workers report.
type WorkerReportLine struct {
	WorkerID        string          `json:"workerID"`
	Name            string          `json:"name"`
	CompletedOrders int             `json:"completedOrders"`
	GrossEarnings   decimal.Decimal `json:"grossEarnings"`
	Deductions      decimal.Decimal `json:"deductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
	Absences        decimal.Decimal `json:"absences"`
	Advances        decimal.Decimal `json:"advances"`
	StartDate       time.Time       `json:"startDate"`
}

// WorkersReport lists what every active worker is owed.
type WorkersReport struct {
	Workers       []WorkerReportLine `json:"workers"`
	TotalWorkers  int                `json:"totalWorkers"`
	TotalSalaries decimal.Decimal    `json:"totalSalaries"`
}

// BuildWorkersReport computes each worker's pay as of now. completed maps a
// worker id to the number of assignments that ended.
func BuildWorkersReport(workers []Worker, completed map[string]int, now time.Time) WorkersReport {
	report := WorkersReport{Workers: make([]WorkerReportLine, 0, len(workers)), TotalSalaries: decimal.Zero}
	for _, w := range workers {
		net := w.TotalSalary(now)
		report.Workers = append(report.Workers, WorkerReportLine{
			WorkerID:        w.WorkerID,
			Name:            w.Name,
			CompletedOrders: completed[w.WorkerID],
			GrossEarnings:   RoundMoney(w.GrossEarnings(now)),
			Deductions:      RoundMoney(w.Deductions()),
			NetSalary:       net,
			Absences:        w.Absences,
			Advances:        w.Advances,
			StartDate:       w.StartDate,
		})
		report.TotalSalaries = report.TotalSalaries.Add(net)
	}
	report.TotalWorkers = len(workers)
	return report
}

// CategoryTotal sums expenses of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// ExpensesReport lists the expenses of a period with per-category totals.
type ExpensesReport struct {
	Period     ReportPeriod    `json:"period"`
	Expenses   []Expense       `json:"expenses"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Categories []CategoryTotal `json:"categories"`
}

// BuildExpensesReport groups expenses by category, largest total first.
// Expenses without a category are reported as "general".
func BuildExpensesReport(period ReportPeriod, expenses []Expense) ExpensesReport {
	report := ExpensesReport{Period: period, Expenses: expenses, Total: decimal.Zero, Count: len(expenses)}
	if report.Expenses == nil {
		report.Expenses = []Expense{}
	}
	byCategory := map[string]*CategoryTotal{}
	for _, e := range expenses {
		name := e.Category
		if name == "" {
			name = "general"
		}
		ct, ok := byCategory[name]
		if !ok {
			ct = &CategoryTotal{Category: name, Total: decimal.Zero}
			byCategory[name] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(e.TotalAmount)
		report.Total = report.Total.Add(e.TotalAmount)
	}
	report.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		report.Categories = append(report.Categories, *ct)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})
	return report
}
