package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/core/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) userResult(args mock.Arguments) (*domain.User, error) {
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) FindUserByProvider(ctx context.Context, provider, providerUserID string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, provider, providerUserID))
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(services.BaseService{Clock: fixedClock}, suite.mockUserRepo)
}

// --- CreateUser Tests ---
func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "salim",
		Password: "password123",
		Name:     "Salim",
		Role:     domain.RoleUser,
	}

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, apperrors.NewNotFoundError("user")).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == req.Username && user.PasswordHash != "" && user.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, adminActor, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.True(user.IsActive)
	suite.Equal(domain.ProviderLocal, user.AuthProvider)
	suite.Equal(adminActor.UserID, user.CreatedBy)
	suite.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "salim", Password: "password123", Name: "Salim", Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(&domain.User{UserID: "u-1"}, nil).Once()

	_, err := suite.service.CreateUser(ctx, adminActor, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_RequiresAdmin() {
	_, err := suite.service.CreateUser(context.Background(), staffActor, dto.CreateUserRequest{Username: "x", Role: domain.RoleUser})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_SaveError() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "salim", Password: "password123", Name: "Salim", Role: domain.RoleUser}

	suite.mockUserRepo.On("FindUserByUsername", ctx, req.Username).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(assert.AnError).Once()

	user, err := suite.service.CreateUser(ctx, adminActor, req)

	suite.Nil(user)
	suite.ErrorIs(err, assert.AnError)
}

// --- GetUserByID / ListUsers Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestListUsers_ClampsLimit() {
	ctx := context.Background()
	expected := []domain.User{{UserID: uuid.NewString()}}

	suite.mockUserRepo.On("FindUsers", ctx, 100, 0).Return(expected, nil).Once()

	users, err := suite.service.ListUsers(ctx, 1000, -5)

	suite.Require().NoError(err)
	suite.Equal(expected, users)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- UpdateUser Tests ---
func (suite *UserServiceTestSuite) TestUpdateUser_SelfCanEditProfile() {
	ctx := context.Background()
	newName := "Salim B."
	original := &domain.User{UserID: staffActor.UserID, Name: "Salim", Role: domain.RoleUser, IsActive: true}

	suite.mockUserRepo.On("FindUserByID", ctx, staffActor.UserID).Return(original, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == newName && u.LastUpdatedBy == staffActor.UserID
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, staffActor, staffActor.UserID, dto.UpdateUserRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal(newName, user.Name)
	suite.Equal(testNow, user.LastUpdatedAt)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_SelfCannotChangeRole() {
	role := domain.RoleAdmin

	_, err := suite.service.UpdateUser(context.Background(), staffActor, staffActor.UserID, dto.UpdateUserRequest{Role: &role})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_AdminCannotDeactivateSelf() {
	ctx := context.Background()
	inactive := false

	suite.mockUserRepo.On("FindUserByID", ctx, adminActor.UserID).Return(&domain.User{UserID: adminActor.UserID, IsActive: true}, nil).Once()

	_, err := suite.service.UpdateUser(ctx, adminActor, adminActor.UserID, dto.UpdateUserRequest{IsActive: &inactive})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

// --- Authentication Tests ---
func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u-1", Username: "salim", PasswordHash: hash, IsActive: true}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "salim").Return(stored, nil)
	suite.mockUserRepo.On("TouchLastLogin", ctx, "u-1", testNow).Return(nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "salim", "password123")
	suite.Require().NoError(err)
	suite.Equal(testNow, *user.LastLogin)

	_, err = suite.service.AuthenticateUser(ctx, "salim", "wrong-password")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUser() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "ghost", "password123")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrLinkGoogleUser_LinksByEmail() {
	ctx := context.Background()
	email := "amina@example.com"
	existing := &domain.User{UserID: "u-1", Email: &email, IsActive: true, AuthProvider: domain.ProviderLocal}

	suite.mockUserRepo.On("FindUserByProvider", ctx, domain.ProviderGoogle, "g-123").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.AuthProvider == domain.ProviderGoogle && u.ProviderUserID != nil && *u.ProviderUserID == "g-123"
	})).Return(nil).Once()
	suite.mockUserRepo.On("TouchLastLogin", ctx, "u-1", testNow).Return(nil).Once()

	user, err := suite.service.FindOrLinkGoogleUser(ctx, "g-123", email)

	suite.Require().NoError(err)
	suite.Equal("u-1", user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrLinkGoogleUser_UnknownEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByProvider", ctx, domain.ProviderGoogle, "g-123").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.FindOrLinkGoogleUser(ctx, "g-123", "new@example.com")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- Bootstrap Tests ---
func (suite *UserServiceTestSuite) TestEnsureBootstrapAdmin() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.EnsureBootstrapAdmin(ctx, "", ""))

	suite.mockUserRepo.On("FindUserByUsername", ctx, "admin").Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAdmin && u.CreatedBy == domain.SystemActorID
	})).Return(nil).Once()

	suite.Require().NoError(suite.service.EnsureBootstrapAdmin(ctx, "admin", "change-me-now"))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureBootstrapAdmin_AlreadyExists() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "admin").Return(&domain.User{UserID: "u-1"}, nil).Once()

	suite.Require().NoError(suite.service.EnsureBootstrapAdmin(ctx, "admin", "change-me-now"))
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
