package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/core/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type ReportServiceTestSuite struct {
	suite.Suite
	store      *memStore
	reports    portssvc.ReportSvcFacade
	activities portssvc.ActivitySvcFacade
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	base := services.BaseService{Publisher: publisher, Clock: fixedClock}
	suite.reports = services.NewReportService(base, suite.store.provider())
	suite.activities = services.NewActivityService(base, suite.store.provider())
}

func (suite *ReportServiceTestSuite) seedExpense(id, category string, amount int64, daysAgo int) {
	suite.Require().NoError(suite.store.SaveExpense(context.Background(), domain.Expense{
		ExpenseID:     id,
		Category:      category,
		Quantity:      1,
		UnitPrice:     decimal.NewFromInt(amount),
		TotalAmount:   decimal.NewFromInt(amount),
		PaymentStatus: domain.PaymentPaid,
		PurchaseDate:  testNow.AddDate(0, 0, -daysAgo),
	}))
}

func (suite *ReportServiceTestSuite) TestFinancialReport() {
	ctx := context.Background()
	order := seedOrder(suite.store, "order-1")
	order.Paid = decimal.NewFromInt(50000)
	suite.Require().NoError(suite.store.SaveOrder(ctx, order))
	suite.seedExpense("exp-1", "materials", 20000, 3)
	suite.seedExpense("exp-old", "materials", 99000, 200)
	suite.Require().NoError(suite.store.SaveTransport(ctx, domain.Transport{
		TransportID:     "tr-1",
		TransportAmount: decimal.NewFromInt(5000),
		TransportDate:   testNow.AddDate(0, 0, -2),
	}))
	w := seedWorker(suite.store, "worker-1", true)
	w.StartDate = testNow.AddDate(0, 0, -10)
	suite.Require().NoError(suite.store.SaveWorker(ctx, w))
	suite.Require().NoError(suite.store.SaveDebt(ctx, domain.Debt{
		DebtID:     "debt-1",
		DebtAmount: decimal.NewFromInt(4000),
		PaidAmount: decimal.NewFromInt(1000),
		StartDate:  testNow.AddDate(-1, 0, 0),
	}))

	report, err := suite.reports.FinancialReport(ctx, dto.ReportParams{Period: "month"})

	suite.Require().NoError(err)
	suite.Equal(1, report.Revenue.OrdersCount)
	suite.Equal("150000.00", report.Revenue.TotalRevenue.StringFixed(2))
	suite.Equal("20000.00", report.Costs.Purchases.StringFixed(2))
	suite.Equal("5000.00", report.Costs.Transport.StringFixed(2))
	suite.Equal("15000.00", report.Costs.Salaries.StringFixed(2))
	suite.Equal("110000.00", report.Profit.NetProfit.StringFixed(2))
	suite.Equal("3000.00", report.Debts.RemainingDebt.StringFixed(2))
	suite.Equal("150000.00", report.Overview.UnpaidOrders.StringFixed(2))
}

func (suite *ReportServiceTestSuite) TestFinancialReport_InvertedRange() {
	from := testNow
	to := testNow.AddDate(0, 0, -7)

	_, err := suite.reports.FinancialReport(context.Background(), dto.ReportParams{From: &from, To: &to})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestExpensesReport_FiltersPeriodAndCategory() {
	suite.seedExpense("exp-1", "materials", 1000, 1)
	suite.seedExpense("exp-2", "fuel", 400, 2)
	suite.seedExpense("exp-3", "materials", 700, 20)

	week, err := suite.reports.ExpensesReport(context.Background(), dto.ReportParams{Period: "week"})
	suite.Require().NoError(err)
	suite.Equal(2, week.Count)
	suite.Equal("1400.00", week.Total.StringFixed(2))
	suite.Len(week.Categories, 2)

	materials, err := suite.reports.ExpensesReport(context.Background(), dto.ReportParams{Period: "month", Category: "materials"})
	suite.Require().NoError(err)
	suite.Equal(2, materials.Count)
	suite.Equal("1700.00", materials.Total.StringFixed(2))
}

func (suite *ReportServiceTestSuite) TestWorkersReport_CountsEndedAssignments() {
	ctx := context.Background()
	seedWorker(suite.store, "worker-1", true)
	seedWorker(suite.store, "worker-2", false)
	suite.Require().NoError(suite.store.SaveAssignment(ctx, domain.OrderAssignment{AssignmentID: "a-1", OrderID: "order-1", WorkerID: "worker-1"}))
	suite.Require().NoError(suite.store.SaveAssignment(ctx, domain.OrderAssignment{AssignmentID: "a-2", OrderID: "order-2", WorkerID: "worker-1", IsActive: true}))

	report, err := suite.reports.WorkersReport(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, report.TotalWorkers)
	suite.Require().Len(report.Workers, 1)
	suite.Equal(1, report.Workers[0].CompletedOrders)
}

func (suite *ReportServiceTestSuite) TestExportExpenses_WritesWorkbook() {
	suite.seedExpense("exp-1", "materials", 1000, 1)
	suite.seedExpense("exp-2", "fuel", 400, 2)

	var buf bytes.Buffer
	suite.Require().NoError(suite.reports.ExportExpenses(context.Background(), dto.ReportParams{Period: "week"}, &buf))

	f, err := excelize.OpenReader(&buf)
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows("Expenses")
	suite.Require().NoError(err)
	suite.Len(rows, 3)
	suite.Equal("Category", rows[0][1])
}

func (suite *ReportServiceTestSuite) TestExportFinancial_WritesWorkbook() {
	var buf bytes.Buffer
	suite.Require().NoError(suite.reports.ExportFinancial(context.Background(), dto.ReportParams{Period: "year"}, &buf))

	f, err := excelize.OpenReader(&buf)
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows("Financial")
	suite.Require().NoError(err)
	suite.Equal([]string{"Item", "Value"}, rows[0])
	suite.Equal("Net profit", rows[10][0])
}

func (suite *ReportServiceTestSuite) TestListActivities_MergesNewestFirst() {
	ctx := context.Background()
	suite.Require().NoError(suite.store.SaveOrderHistory(ctx, domain.NewOrderHistory("order-1", domain.ChangePayment,
		"payment of 100.00 received", staffActor, testNow.Add(-2*time.Hour))))
	suite.Require().NoError(suite.store.SaveWorkerHistory(ctx, domain.NewWorkerHistory("worker-1", domain.ChangeSalaryPaid,
		"salary paid", decimal.NewFromInt(-25000), adminActor, testNow.Add(-time.Hour))))
	suite.Require().NoError(suite.store.SaveOrderHistory(ctx, domain.NewOrderHistory("order-1", domain.ChangeDebtPaid,
		"debt payment", adminActor, testNow.AddDate(0, 0, -3))))

	all, err := suite.activities.ListActivities(ctx, dto.ListActivitiesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal(domain.ActivityWorker, all[0].Kind)
	suite.Require().NotNil(all[0].Amount)
	suite.Equal(domain.ActivityPayment, all[1].Kind)
	suite.Nil(all[1].Amount)
	suite.Equal(domain.ActivityDebt, all[2].Kind)

	from := testNow.AddDate(0, 0, -1)
	orders, err := suite.activities.ListActivities(ctx, dto.ListActivitiesParams{Source: "order", From: &from})
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(domain.ChangePayment, orders[0].ChangeType)
}

func (suite *ReportServiceTestSuite) TestListActivities_EmptyIsNotNil() {
	activities, err := suite.activities.ListActivities(context.Background(), dto.ListActivitiesParams{Source: "worker"})

	suite.Require().NoError(err)
	suite.NotNil(activities)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
