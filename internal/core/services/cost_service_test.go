package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/core/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CostServiceTestSuite struct {
	suite.Suite
	store      *memStore
	publisher  *MockPublisher
	base       services.BaseService
	expenses   portssvc.ExpenseSvcFacade
	transports portssvc.TransportSvcFacade
	debts      portssvc.DebtSvcFacade
}

func (suite *CostServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.publisher = new(MockPublisher)
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	suite.base = services.BaseService{Publisher: suite.publisher, Clock: fixedClock}
	repos := suite.store.provider()
	suite.expenses = services.NewExpenseService(suite.base, repos, false)
	suite.transports = services.NewTransportService(suite.base, repos, false)
	suite.debts = services.NewDebtService(suite.base, repos, services.NewEntityResolver(repos))
}

func unpaidExpense(unitPrice int64) dto.ExpenseRequest {
	return dto.ExpenseRequest{
		Category:      "materials",
		Quantity:      1,
		UnitPrice:     decimal.NewFromInt(unitPrice),
		PaymentStatus: domain.PaymentUnpaid,
		SupplierName:  "Sarl Bois",
	}
}

func (suite *CostServiceTestSuite) TestCreateExpense_UnpaidDerivesOneDebt() {
	ctx := context.Background()

	resp, err := suite.expenses.CreateExpense(ctx, adminActor, unpaidExpense(1000))

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.Debt)
	suite.True(resp.Debt.DebtAmount.Equal(decimal.NewFromInt(1000)))
	suite.Equal(domain.DebtUnpaid, resp.Debt.Status)
	suite.Equal("Sarl Bois", resp.Debt.Name)
	suite.Equal(resp.Expense.Ref(), *resp.Debt.Source)

	debts, _ := suite.store.ListDebts(ctx, domain.DebtFilter{})
	suite.Len(debts, 1)
	suite.Contains(suite.publisher.kinds(), domain.EventDebtCreated)
}

func (suite *CostServiceTestSuite) TestCreateExpense_PaidCreatesNoDebt() {
	req := unpaidExpense(1000)
	req.PaymentStatus = domain.PaymentPaid

	resp, err := suite.expenses.CreateExpense(context.Background(), adminActor, req)

	suite.Require().NoError(err)
	suite.Nil(resp.Debt)
	suite.True(resp.Expense.PaidAmount.Equal(resp.Expense.TotalAmount))
	suite.Empty(suite.store.debts)
}

func (suite *CostServiceTestSuite) TestCreateExpense_PartialDebtIsRemainder() {
	req := unpaidExpense(500)
	req.Quantity = 3
	req.PaymentStatus = domain.PaymentPartial
	req.PaidAmount = decimal.NewFromInt(600)

	resp, err := suite.expenses.CreateExpense(context.Background(), adminActor, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.Debt)
	suite.Equal(domain.DebtPartial, resp.Debt.Status)
	suite.Equal("900.00", resp.Debt.Remaining().StringFixed(2))
}

func (suite *CostServiceTestSuite) TestCreateExpense_UnknownOrder() {
	req := unpaidExpense(1000)
	missing := "missing"
	req.OrderID = &missing

	_, err := suite.expenses.CreateExpense(context.Background(), adminActor, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Empty(suite.store.expenses)
}

func (suite *CostServiceTestSuite) TestUpdateExpense_SnapshotKeepsDebt() {
	ctx := context.Background()
	created, err := suite.expenses.CreateExpense(ctx, adminActor, unpaidExpense(1000))
	suite.Require().NoError(err)

	req := unpaidExpense(2500)
	req.Version = created.Expense.Version
	updated, err := suite.expenses.UpdateExpense(ctx, adminActor, created.Expense.ExpenseID, req)
	suite.Require().NoError(err)
	suite.Nil(updated.Debt)

	debt, err := suite.store.FindDebtBySource(ctx, created.Expense.Ref())
	suite.Require().NoError(err)
	suite.True(debt.DebtAmount.Equal(decimal.NewFromInt(1000)))
}

func (suite *CostServiceTestSuite) TestUpdateExpense_SyncFollowsSource() {
	ctx := context.Background()
	expenses := services.NewExpenseService(suite.base, suite.store.provider(), true)
	created, err := expenses.CreateExpense(ctx, adminActor, unpaidExpense(1000))
	suite.Require().NoError(err)

	req := unpaidExpense(2500)
	updated, err := expenses.UpdateExpense(ctx, adminActor, created.Expense.ExpenseID, req)
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.Debt)
	suite.True(updated.Debt.DebtAmount.Equal(decimal.NewFromInt(2500)))

	suite.Require().NoError(expenses.DeleteExpense(ctx, adminActor, created.Expense.ExpenseID))
	_, err = suite.store.FindDebtBySource(ctx, created.Expense.Ref())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CostServiceTestSuite) TestUpdateExpense_StaleVersion() {
	ctx := context.Background()
	created, err := suite.expenses.CreateExpense(ctx, adminActor, unpaidExpense(1000))
	suite.Require().NoError(err)

	req := unpaidExpense(1200)
	req.Version = created.Expense.Version + 5
	_, err = suite.expenses.UpdateExpense(ctx, adminActor, created.Expense.ExpenseID, req)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- Transports ---

func unpaidTransport(amount int64) dto.TransportRequest {
	return dto.TransportRequest{
		Name:            "Transports Meziane",
		Phone:           "0550 12 34 56",
		TransportAmount: decimal.NewFromInt(amount),
		PaymentStatus:   domain.PaymentUnpaid,
		Destination:     "Tlemcen",
		Purpose:         "delivery",
	}
}

func (suite *CostServiceTestSuite) TestCreateTransport_UnpaidDerivesDebt() {
	ctx := context.Background()
	seedOrder(suite.store, "order-1")
	req := unpaidTransport(8000)
	orderID := "order-1"
	req.OrderID = &orderID

	resp, err := suite.transports.CreateTransport(ctx, adminActor, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.Debt)
	suite.Equal(resp.Transport.Ref(), *resp.Debt.Source)
	suite.Equal("Transports Meziane", resp.Debt.Name)
	suite.Equal("delivery - Tlemcen", resp.Debt.Description)
	suite.True(resp.Debt.DebtAmount.Equal(decimal.NewFromInt(8000)))
	suite.Contains(suite.publisher.kinds(), domain.EventDebtCreated)

	history, _ := suite.store.ListOrderHistory(ctx, "order-1")
	suite.Require().Len(history, 1)
	suite.Equal(domain.ChangeTransportAdded, history[0].ChangeType)
}

func (suite *CostServiceTestSuite) TestCreateTransport_PaidCreatesNoDebt() {
	req := unpaidTransport(8000)
	req.PaymentStatus = domain.PaymentPaid

	resp, err := suite.transports.CreateTransport(context.Background(), adminActor, req)

	suite.Require().NoError(err)
	suite.Nil(resp.Debt)
	suite.Empty(suite.store.debts)
}

func (suite *CostServiceTestSuite) TestUpdateTransport_SnapshotKeepsDebt() {
	ctx := context.Background()
	created, err := suite.transports.CreateTransport(ctx, adminActor, unpaidTransport(8000))
	suite.Require().NoError(err)

	updated, err := suite.transports.UpdateTransport(ctx, adminActor, created.Transport.TransportID, unpaidTransport(12000))
	suite.Require().NoError(err)
	suite.Nil(updated.Debt)
	suite.True(updated.Transport.TransportAmount.Equal(decimal.NewFromInt(12000)))

	debt, err := suite.store.FindDebtBySource(ctx, created.Transport.Ref())
	suite.Require().NoError(err)
	suite.True(debt.DebtAmount.Equal(decimal.NewFromInt(8000)))

	suite.Require().NoError(suite.transports.DeleteTransport(ctx, adminActor, created.Transport.TransportID))
	_, err = suite.store.FindDebtBySource(ctx, created.Transport.Ref())
	suite.NoError(err)
}

func (suite *CostServiceTestSuite) TestUpdateTransport_SyncFollowsSource() {
	ctx := context.Background()
	transports := services.NewTransportService(suite.base, suite.store.provider(), true)
	created, err := transports.CreateTransport(ctx, adminActor, unpaidTransport(8000))
	suite.Require().NoError(err)

	req := unpaidTransport(12000)
	req.PaymentStatus = domain.PaymentPartial
	req.PaidAmount = decimal.NewFromInt(2000)
	updated, err := transports.UpdateTransport(ctx, adminActor, created.Transport.TransportID, req)
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.Debt)
	suite.True(updated.Debt.DebtAmount.Equal(decimal.NewFromInt(12000)))
	suite.Equal(domain.DebtPartial, updated.Debt.Status)
	suite.Equal("10000.00", updated.Debt.Remaining().StringFixed(2))

	suite.Require().NoError(transports.DeleteTransport(ctx, adminActor, created.Transport.TransportID))
	_, err = suite.store.FindDebtBySource(ctx, created.Transport.Ref())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Debts ---

func (suite *CostServiceTestSuite) TestCreateDebt_RejectsOverpaid() {
	_, err := suite.debts.CreateDebt(context.Background(), adminActor, dto.CreateDebtRequest{
		Name:       "Hadj Ali",
		DebtAmount: decimal.NewFromInt(100),
		PaidAmount: decimal.NewFromInt(150),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CostServiceTestSuite) TestPayDebt() {
	ctx := context.Background()
	debt, err := suite.debts.CreateDebt(ctx, adminActor, dto.CreateDebtRequest{
		Name:       "Hadj Ali",
		DebtAmount: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	paid, err := suite.debts.PayDebt(ctx, adminActor, debt.DebtID, decimal.NewFromInt(400))
	suite.Require().NoError(err)
	suite.Equal(domain.DebtPartial, paid.Status)

	_, err = suite.debts.PayDebt(ctx, adminActor, debt.DebtID, decimal.NewFromInt(700))
	suite.ErrorIs(err, apperrors.ErrValidation)

	paid, err = suite.debts.PayDebt(ctx, adminActor, debt.DebtID, decimal.NewFromInt(600))
	suite.Require().NoError(err)
	suite.Equal(domain.DebtPaid, paid.Status)
	suite.NotNil(paid.PaymentDate)
}

func (suite *CostServiceTestSuite) TestGetDebtSource() {
	ctx := context.Background()
	manual, err := suite.debts.CreateDebt(ctx, adminActor, dto.CreateDebtRequest{
		Name:       "Hadj Ali",
		DebtAmount: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)
	_, err = suite.debts.GetDebtSource(ctx, manual.DebtID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	created, err := suite.expenses.CreateExpense(ctx, adminActor, unpaidExpense(1000))
	suite.Require().NoError(err)
	source, err := suite.debts.GetDebtSource(ctx, created.Debt.DebtID)
	suite.Require().NoError(err)
	suite.Equal("materials", source.Label)
}

func (suite *CostServiceTestSuite) TestPayDebt_ManualDebtWritesNoHistory() {
	ctx := context.Background()
	debt, err := suite.debts.CreateDebt(ctx, adminActor, dto.CreateDebtRequest{
		Name:       "Hadj Ali",
		DebtAmount: decimal.NewFromInt(1000),
	})
	suite.Require().NoError(err)

	_, err = suite.debts.PayDebt(ctx, adminActor, debt.DebtID, decimal.NewFromInt(400))

	suite.Require().NoError(err)
	suite.Empty(suite.store.orderHistory)
}

func (suite *CostServiceTestSuite) TestPayDebt_OrderLinkedSourceWritesHistory() {
	ctx := context.Background()
	seedOrder(suite.store, "order-1")
	req := unpaidTransport(8000)
	orderID := "order-1"
	req.OrderID = &orderID
	created, err := suite.transports.CreateTransport(ctx, adminActor, req)
	suite.Require().NoError(err)

	_, err = suite.debts.PayDebt(ctx, adminActor, created.Debt.DebtID, decimal.NewFromInt(3000))
	suite.Require().NoError(err)

	history, _ := suite.store.ListOrderHistory(ctx, "order-1")
	suite.Require().Len(history, 2)
	suite.Equal(domain.ChangeDebtPaid, history[1].ChangeType)
	suite.Contains(history[1].Details, "3000.00")
	suite.Contains(history[1].Details, "remaining 5000.00")
}

func (suite *CostServiceTestSuite) TestDeleteDebt_OrderLinkedSourceWritesHistory() {
	ctx := context.Background()
	seedOrder(suite.store, "order-1")
	req := unpaidExpense(1000)
	orderID := "order-1"
	req.OrderID = &orderID
	created, err := suite.expenses.CreateExpense(ctx, adminActor, req)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.debts.DeleteDebt(ctx, adminActor, created.Debt.DebtID))

	suite.Empty(suite.store.debts)
	history, _ := suite.store.ListOrderHistory(ctx, "order-1")
	suite.Require().Len(history, 2)
	suite.Equal(domain.ChangeDebtDeleted, history[1].ChangeType)
}

func (suite *CostServiceTestSuite) TestDeleteDebt_SourceGoneStillDeletes() {
	ctx := context.Background()
	seedOrder(suite.store, "order-1")
	req := unpaidTransport(8000)
	orderID := "order-1"
	req.OrderID = &orderID
	created, err := suite.transports.CreateTransport(ctx, adminActor, req)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.DeleteTransport(ctx, created.Transport.TransportID))

	suite.Require().NoError(suite.debts.DeleteDebt(ctx, adminActor, created.Debt.DebtID))

	suite.Empty(suite.store.debts)
	history, _ := suite.store.ListOrderHistory(ctx, "order-1")
	suite.Len(history, 1)
}

func (suite *CostServiceTestSuite) TestDeleteDebt_RequiresAdmin() {
	err := suite.debts.DeleteDebt(context.Background(), staffActor, "debt-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestCostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CostServiceTestSuite))
}
