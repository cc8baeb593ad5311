package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)

	p, err := domain.ResolvePeriod("", nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), p.From)
	assert.Equal(t, now, p.To)

	p, err = domain.ResolvePeriod("quarter", nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -90), p.From)

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	p, err = domain.ResolvePeriod("year", &from, &to, now)
	require.NoError(t, err)
	assert.Equal(t, from, p.From)
	assert.True(t, p.To.After(time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC)))
	assert.True(t, p.To.Before(time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)))

	_, err = domain.ResolvePeriod("", &to, &from, now)
	assert.Error(t, err)
	_, err = domain.ResolvePeriod("decade", nil, nil, now)
	assert.Error(t, err)
}

func TestBuildFinancialReport(t *testing.T) {
	period := domain.ReportPeriod{}
	report := domain.BuildFinancialReport(period, domain.FinancialTotals{
		OrdersRevenue:     dec("100000"),
		OrdersPaid:        dec("60000"),
		OrdersCount:       4,
		PaidOrdersTotal:   dec("40000"),
		UnpaidOrdersTotal: dec("60000"),
		Purchases:         dec("20000"),
		Transport:         dec("5000"),
		DebtTotal:         dec("12000"),
		DebtPaid:          dec("2000"),
	}, dec("15000"))

	assert.Equal(t, "40000.00", report.Costs.TotalExpenses.StringFixed(2))
	assert.Equal(t, "60000.00", report.Profit.NetProfit.StringFixed(2))
	assert.Equal(t, "60.00", report.Profit.Margin.StringFixed(2))
	assert.Equal(t, "10000.00", report.Debts.RemainingDebt.StringFixed(2))
	assert.Equal(t, "15000.00", report.Overview.NetIncome.StringFixed(2))
	assert.Equal(t, 4, report.Revenue.OrdersCount)

	empty := domain.BuildFinancialReport(period, domain.FinancialTotals{}, decimal.Zero)
	assert.True(t, empty.Profit.Margin.IsZero())
}

func TestBuildWorkersReport(t *testing.T) {
	now := time.Date(2025, 4, 30, 15, 0, 0, 0, time.UTC)
	workers := []domain.Worker{
		{WorkerID: "w1", Name: "Karim", StartDate: now.AddDate(0, 0, -30), MonthlySalary: dec("30000"), Advances: dec("4000"), Absences: dec("1")},
		{WorkerID: "w2", Name: "Amine", StartDate: now.AddDate(0, 0, -10), MonthlySalary: dec("30000")},
	}

	report := domain.BuildWorkersReport(workers, map[string]int{"w1": 3}, now)

	require.Len(t, report.Workers, 2)
	assert.Equal(t, 2, report.TotalWorkers)
	assert.Equal(t, 3, report.Workers[0].CompletedOrders)
	assert.Equal(t, 0, report.Workers[1].CompletedOrders)
	assert.Equal(t, "30000.00", report.Workers[0].GrossEarnings.StringFixed(2))
	assert.Equal(t, "5000.00", report.Workers[0].Deductions.StringFixed(2))
	assert.Equal(t, "25000.00", report.Workers[0].NetSalary.StringFixed(2))
	assert.Equal(t, "35000.00", report.TotalSalaries.StringFixed(2))
}

func TestBuildExpensesReport(t *testing.T) {
	expenses := []domain.Expense{
		{Category: "materials", TotalAmount: dec("1000")},
		{Category: "materials", TotalAmount: dec("2500")},
		{Category: "", TotalAmount: dec("300")},
		{Category: "fuel", TotalAmount: dec("800")},
	}

	report := domain.BuildExpensesReport(domain.ReportPeriod{}, expenses)

	assert.Equal(t, 4, report.Count)
	assert.Equal(t, "4600.00", report.Total.StringFixed(2))
	require.Len(t, report.Categories, 3)
	assert.Equal(t, "materials", report.Categories[0].Category)
	assert.Equal(t, 2, report.Categories[0].Count)
	assert.Equal(t, "fuel", report.Categories[1].Category)
	assert.Equal(t, "general", report.Categories[2].Category)

	assert.NotNil(t, domain.BuildExpensesReport(domain.ReportPeriod{}, nil).Expenses)
}
