package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/core/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/handlers"
	"github.com/SscSPs/business_management_app/internal/platform/config"
	"github.com/SscSPs/business_management_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var registerValidationsOnce sync.Once

var (
	admin  = domain.Actor{UserID: "admin-1", Name: "Amina", Role: domain.RoleAdmin}
	staff  = domain.Actor{UserID: "user-1", Name: "Salim", Role: domain.RoleUser}
	worker = domain.Actor{UserID: "worker-1", Name: "Yacine", Role: domain.RoleWorker}
)

func actorID(id string) interface{} {
	return mock.MatchedBy(func(a domain.Actor) bool { return a.UserID == id })
}

func amount(v int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(v)) })
}

type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	cfg         *config.Config
	orders      *MockOrderService
	assignments *MockAssignmentService
	tasks       *MockTaskService
	debts       *MockDebtService
	users       *MockUserService
	workers     *MockWorkerService
	reports     *MockReportService
	activities  *MockActivityService
}

// generateTestToken creates a signed access token for the actor.
func (suite *HandlerTestSuite) generateTestToken(actor domain.Actor) string {
	token, err := utils.GenerateJWT(actor, suite.cfg.JWTSecret, time.Hour, "bma-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *HandlerTestSuite) SetupSuite() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		suite.Require().True(ok)
		suite.Require().NoError(dto.RegisterValidations(v))
	})
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret-key-that-is-long-enough",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "bma-test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		IsProduction:               true,
	}

	suite.orders = new(MockOrderService)
	suite.assignments = new(MockAssignmentService)
	suite.tasks = new(MockTaskService)
	suite.debts = new(MockDebtService)
	suite.users = new(MockUserService)
	suite.workers = new(MockWorkerService)
	suite.reports = new(MockReportService)
	suite.activities = new(MockActivityService)

	container := &portssvc.ServiceContainer{
		Order:      suite.orders,
		Assignment: suite.assignments,
		Task:       suite.tasks,
		Debt:       suite.debts,
		User:       suite.users,
		Worker:     suite.workers,
		Report:     suite.reports,
		Activity:   suite.activities,
		Token:      services.NewTokenService(suite.cfg, suite.users),
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, container)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.orders.AssertExpectations(suite.T())
	suite.assignments.AssertExpectations(suite.T())
	suite.tasks.AssertExpectations(suite.T())
	suite.debts.AssertExpectations(suite.T())
	suite.users.AssertExpectations(suite.T())
	suite.workers.AssertExpectations(suite.T())
	suite.reports.AssertExpectations(suite.T())
	suite.activities.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) do(method, url string, body any, actor *domain.Actor) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(*actor))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

// --- Auth ---

func (suite *HandlerTestSuite) TestMissingToken() {
	w := suite.do(http.MethodGet, "/api/v1/orders/order-1", nil, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_IssuesTokensAndStoresHash() {
	user := &domain.User{UserID: "user-1", Username: "salim", Name: "Salim", Role: domain.RoleUser, IsActive: true}
	suite.users.On("AuthenticateUser", mock.Anything, "salim", "s3cret-pass").Return(user, nil).Once()
	suite.users.On("UpdateRefreshToken", mock.Anything, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "salim", Password: "s3cret-pass"}, nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEmpty(resp.Token)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("user", resp.Role)

	claims, err := utils.ParseAndValidateJWT(resp.Token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal("user-1", claims.Subject)

	stored := suite.users.Calls[1].Arguments.String(2)
	suite.Equal(utils.HashRefreshToken(resp.RefreshToken), stored)
}

func (suite *HandlerTestSuite) TestLogin_BadCredentials() {
	suite.users.On("AuthenticateUser", mock.Anything, "salim", "wrong-pass").
		Return(nil, apperrors.NewUnauthorizedError("invalid username or password")).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "salim", Password: "wrong-pass"}, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("invalid username or password", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestWorkerLogin_TokenCarriesWorkerRole() {
	suite.workers.On("AuthenticateWorker", mock.Anything, "yacine", "atelier-pass").
		Return(&domain.Worker{WorkerID: "worker-1", Name: "Yacine", IsActive: true}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/worker-login", dto.LoginRequest{Username: "yacine", Password: "atelier-pass"}, nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Empty(resp.RefreshToken)
	claims, err := utils.ParseAndValidateJWT(resp.Token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal("worker-1", claims.Subject)
	suite.Equal(string(domain.RoleWorker), claims.Role)
}

func (suite *HandlerTestSuite) TestRefresh() {
	expiry := time.Now().Add(time.Hour)
	user := &domain.User{
		UserID:                 "user-1",
		Role:                   domain.RoleUser,
		IsActive:               true,
		RefreshTokenHash:       utils.HashRefreshToken("raw-refresh"),
		RefreshTokenExpiryTime: &expiry,
	}
	suite.users.On("GetUserByID", mock.Anything, "user-1").Return(user, nil).Twice()

	w := suite.do(http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{UserID: "user-1", RefreshToken: "raw-refresh"}, nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{UserID: "user-1", RefreshToken: "forged"}, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestRefresh_Expired() {
	expiry := time.Now().Add(-time.Minute)
	user := &domain.User{
		UserID:                 "user-1",
		IsActive:               true,
		RefreshTokenHash:       utils.HashRefreshToken("raw-refresh"),
		RefreshTokenExpiryTime: &expiry,
	}
	suite.users.On("GetUserByID", mock.Anything, "user-1").Return(user, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{UserID: "user-1", RefreshToken: "raw-refresh"}, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("refresh token expired", suite.errorMessage(w))
}

// --- Orders ---

func (suite *HandlerTestSuite) TestCreateOrder_Success() {
	suite.orders.On("CreateOrder", mock.Anything, actorID(staff.UserID), mock.MatchedBy(func(r dto.CreateOrderRequest) bool {
		return r.Name == "Bensalem kitchen" && r.Total.Equal(decimal.NewFromInt(150000))
	})).Return(&domain.Order{OrderID: "order-1", Name: "Bensalem kitchen", Total: decimal.NewFromInt(150000)}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/orders", map[string]any{
		"name":  "Bensalem kitchen",
		"total": 150000,
	}, &staff)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var order domain.Order
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &order))
	suite.Equal("order-1", order.OrderID)
}

func (suite *HandlerTestSuite) TestCreateOrder_BindFailureSkipsService() {
	w := suite.do(http.MethodPost, "/api/v1/orders", map[string]any{"total": -5}, &staff)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.orders.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateOrder_ForbiddenForWorkers() {
	w := suite.do(http.MethodPost, "/api/v1/orders", map[string]any{"name": "x"}, &worker)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGetOrder_NotFound() {
	suite.orders.On("GetOrder", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("order missing not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/orders/missing", nil, &staff)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("order missing not found", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestUpdateOrder_StaleVersion() {
	suite.orders.On("UpdateOrder", mock.Anything, actorID(staff.UserID), "order-1", mock.Anything).
		Return(nil, apperrors.NewStaleVersionError("order was modified concurrently")).Once()

	w := suite.do(http.MethodPut, "/api/v1/orders/order-1", map[string]any{"note": "rush", "version": 3}, &staff)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteOrder_RequiresAdmin() {
	w := suite.do(http.MethodDelete, "/api/v1/orders/order-1", nil, &staff)
	suite.Equal(http.StatusForbidden, w.Code)

	suite.orders.On("DeleteOrder", mock.Anything, actorID(admin.UserID), "order-1").Return(nil).Once()
	w = suite.do(http.MethodDelete, "/api/v1/orders/order-1", nil, &admin)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestRecordPayment_Overpayment() {
	suite.orders.On("RecordPayment", mock.Anything, actorID(staff.UserID), "order-1", amount(200000)).
		Return(nil, apperrors.NewValidationFailedError("payment exceeds the remaining balance")).Once()

	w := suite.do(http.MethodPost, "/api/v1/orders/order-1/payments", map[string]any{"amount": 200000}, &staff)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("payment exceeds the remaining balance", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestRecordPayment_ZeroRejectedByBinding() {
	w := suite.do(http.MethodPost, "/api/v1/orders/order-1/payments", map[string]any{"amount": 0}, &staff)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAssignWorker() {
	result := &domain.AssignmentResult{TaskCreated: true, StatusChanged: true}
	suite.assignments.On("AssignWorker", mock.Anything, actorID(admin.UserID), "order-1", dto.AssignWorkerRequest{
		WorkerID:       "worker-1",
		AssignmentType: domain.AssignmentWorkshop,
	}).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/orders/order-1/assignments", map[string]any{
		"workerID":       "worker-1",
		"assignmentType": "workshop",
	}, &admin)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestAssignWorker_UnknownTypeRejected() {
	w := suite.do(http.MethodPost, "/api/v1/orders/order-1/assignments", map[string]any{
		"workerID":       "worker-1",
		"assignmentType": "holiday",
	}, &admin)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Tasks ---

func (suite *HandlerTestSuite) TestListTasks_WorkerAllowed() {
	suite.tasks.On("ListTasks", mock.Anything, actorID(worker.UserID), mock.MatchedBy(func(p dto.ListTasksParams) bool {
		return p.Limit == 20 && len(p.Status) == 2
	})).Return(&dto.ListTasksResponse{Tasks: []dto.TaskResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/tasks?status=pending&status=in_progress", nil, &worker)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestCreateTask_ForbiddenForWorkers() {
	w := suite.do(http.MethodPost, "/api/v1/tasks", map[string]any{"title": "Sweep"}, &worker)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestCompleteTask_WithNotes() {
	due := time.Now().Add(-48 * time.Hour)
	task := &domain.Task{
		TaskID:          "task-1",
		Status:          domain.TaskCompleted,
		WaitingApproval: true,
		DueDate:         &due,
	}
	suite.tasks.On("CompleteTask", mock.Anything, actorID(worker.UserID), "task-1", "cabinets mounted").Return(task, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/tasks/task-1/complete", dto.CompleteTaskRequest{Notes: "cabinets mounted"}, &worker)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.TaskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.WaitingApproval)
	suite.False(resp.IsOverdue)
}

func (suite *HandlerTestSuite) TestFinalApprove_InvalidTransition() {
	suite.tasks.On("FinalApproveAdminTask", mock.Anything, actorID(admin.UserID), "task-1").
		Return(nil, apperrors.NewInvalidTransitionError("task is not waiting for final approval")).Once()

	w := suite.do(http.MethodPost, "/api/v1/tasks/task-1/final-approve", nil, &admin)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Debts ---

func (suite *HandlerTestSuite) TestPayDebt() {
	debt := &domain.Debt{
		DebtID:     "debt-1",
		DebtAmount: decimal.NewFromInt(1000),
		PaidAmount: decimal.NewFromInt(400),
		Status:     domain.DebtPartial,
	}
	suite.debts.On("PayDebt", mock.Anything, actorID(staff.UserID), "debt-1", amount(400)).Return(debt, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/debts/debt-1/payments", map[string]any{"amount": "400"}, &staff)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Remaining.Equal(decimal.NewFromInt(600)))
}

// --- Workers ---

func (suite *HandlerTestSuite) TestPaySalary() {
	resp := &dto.SalaryPaymentResponse{
		Record:         domain.WorkerMonthlyRecord{WorkerID: "worker-1", Year: 2025, Month: 3, PaidAmount: decimal.NewFromInt(25000)},
		PreviousSalary: decimal.NewFromInt(25000),
		NewSalary:      decimal.Zero,
	}
	suite.workers.On("PayWorkerSalary", mock.Anything, actorID(admin.UserID), "worker-1", mock.MatchedBy(func(r dto.PaySalaryRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(25000)) && r.PaymentMethod == "cash"
	})).Return(resp, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workers/worker-1/salary-payments", map[string]any{
		"amount":        25000,
		"paymentMethod": "cash",
	}, &admin)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var got dto.SalaryPaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(3, got.Record.Month)
	suite.True(got.Record.PaidAmount.Equal(decimal.NewFromInt(25000)))
}

func (suite *HandlerTestSuite) TestPaySalary_RequiresAdmin() {
	w := suite.do(http.MethodPost, "/api/v1/workers/worker-1/salary-payments", map[string]any{"amount": 100}, &staff)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestPaySalary_ExceedsOwed() {
	suite.workers.On("PayWorkerSalary", mock.Anything, actorID(admin.UserID), "worker-1", mock.Anything).
		Return(nil, apperrors.NewValidationFailedError("payment exceeds the salary owed (25000.00)")).Once()

	w := suite.do(http.MethodPost, "/api/v1/workers/worker-1/salary-payments", map[string]any{"amount": 90000}, &admin)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("payment exceeds the salary owed (25000.00)", suite.errorMessage(w))
}

// --- Reports ---

func (suite *HandlerTestSuite) TestFinancialReport_DefaultsToMonth() {
	report := &domain.FinancialReport{Profit: domain.ProfitSection{NetProfit: decimal.NewFromInt(60000)}}
	suite.reports.On("FinancialReport", mock.Anything, mock.MatchedBy(func(p dto.ReportParams) bool {
		return p.Period == "month" && p.From == nil && p.To == nil
	})).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/financial", nil, &admin)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got domain.FinancialReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.Profit.NetProfit.Equal(decimal.NewFromInt(60000)))
}

func (suite *HandlerTestSuite) TestFinancialReport_ParsesRange() {
	suite.reports.On("FinancialReport", mock.Anything, mock.MatchedBy(func(p dto.ReportParams) bool {
		return p.From != nil && p.To != nil && p.From.Day() == 1 && p.To.Day() == 31
	})).Return(&domain.FinancialReport{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/financial?from=2025-03-01&to=2025-03-31", nil, &admin)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestFinancialReport_UnknownPeriodRejected() {
	w := suite.do(http.MethodGet, "/api/v1/reports/financial?period=decade", nil, &admin)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestFinancialReport_ForbiddenForStaff() {
	w := suite.do(http.MethodGet, "/api/v1/reports/financial", nil, &staff)
	suite.Equal(http.StatusForbidden, w.Code)
}

// --- Activities ---

func (suite *HandlerTestSuite) TestListActivities() {
	activities := []domain.Activity{{
		Kind:       domain.ActivityPayment,
		Subject:    domain.EntityRef{Type: domain.EntityOrder, ID: "order-1"},
		ChangeType: domain.ChangePayment,
		Actor:      "Salim",
	}}
	suite.activities.On("ListActivities", mock.Anything, mock.MatchedBy(func(p dto.ListActivitiesParams) bool {
		return p.Source == "order" && p.Limit == 50
	})).Return(activities, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/activities?source=order", nil, &staff)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got []domain.Activity
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got, 1)
	suite.Equal(domain.ActivityPayment, got[0].Kind)
}

func (suite *HandlerTestSuite) TestListActivities_ForbiddenForWorkers() {
	w := suite.do(http.MethodGet, "/api/v1/activities", nil, &worker)
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
