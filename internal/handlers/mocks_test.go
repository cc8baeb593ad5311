package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// The mocks embed their facade so that only the methods a test exercises
// need an implementation. Calling any other method panics.

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
	portssvc.OrderSvcFacade
}

func (m *MockOrderService) CreateOrder(ctx context.Context, actor domain.Actor, req dto.CreateOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string) (*domain.OrderDetails, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderDetails), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, actor domain.Actor, orderID string, req dto.UpdateOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, actor, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error {
	args := m.Called(ctx, actor, orderID)
	return args.Error(0)
}

func (m *MockOrderService) RecordPayment(ctx context.Context, actor domain.Actor, orderID string, amount decimal.Decimal) (*domain.Order, error) {
	args := m.Called(ctx, actor, orderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// --- Mock AssignmentService ---
type MockAssignmentService struct {
	mock.Mock
	portssvc.AssignmentSvcFacade
}

func (m *MockAssignmentService) AssignWorker(ctx context.Context, actor domain.Actor, orderID string, req dto.AssignWorkerRequest) (*domain.AssignmentResult, error) {
	args := m.Called(ctx, actor, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssignmentResult), args.Error(1)
}

// --- Mock TaskService ---
type MockTaskService struct {
	mock.Mock
	portssvc.TaskSvcFacade
}

func (m *MockTaskService) ListTasks(ctx context.Context, actor domain.Actor, params dto.ListTasksParams) (*dto.ListTasksResponse, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTasksResponse), args.Error(1)
}

func (m *MockTaskService) CreateTask(ctx context.Context, actor domain.Actor, req dto.CreateTaskRequest) (*domain.Task, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) CompleteTask(ctx context.Context, actor domain.Actor, taskID string, notes string) (*domain.Task, error) {
	args := m.Called(ctx, actor, taskID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) FinalApproveAdminTask(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, actor, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

// --- Mock DebtService ---
type MockDebtService struct {
	mock.Mock
	portssvc.DebtSvcFacade
}

func (m *MockDebtService) PayDebt(ctx context.Context, actor domain.Actor, debtID string, amount decimal.Decimal) (*domain.Debt, error) {
	args := m.Called(ctx, actor, debtID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
	portssvc.UserSvcFacade
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

// --- Mock WorkerService ---
type MockWorkerService struct {
	mock.Mock
	portssvc.WorkerSvcFacade
}

func (m *MockWorkerService) AuthenticateWorker(ctx context.Context, username, password string) (*domain.Worker, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerService) PayWorkerSalary(ctx context.Context, actor domain.Actor, workerID string, req dto.PaySalaryRequest) (*dto.SalaryPaymentResponse, error) {
	args := m.Called(ctx, actor, workerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SalaryPaymentResponse), args.Error(1)
}

// --- Mock ReportService ---
type MockReportService struct {
	mock.Mock
	portssvc.ReportSvcFacade
}

func (m *MockReportService) FinancialReport(ctx context.Context, params dto.ReportParams) (*domain.FinancialReport, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialReport), args.Error(1)
}

// --- Mock ActivityService ---
type MockActivityService struct {
	mock.Mock
	portssvc.ActivitySvcFacade
}

func (m *MockActivityService) ListActivities(ctx context.Context, params dto.ListActivitiesParams) ([]domain.Activity, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Activity), args.Error(1)
}
