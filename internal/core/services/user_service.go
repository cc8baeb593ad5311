package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service.
func NewUserService(base BaseService, userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{BaseService: base, userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

var errInvalidCredentials = apperrors.NewUnauthorizedError("invalid username or password")

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, clampLimit(limit, 20, 100), max(offset, 0))
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	if err := s.RequireAdmin(ctx, actor, "create users"); err != nil {
		return nil, err
	}
	if req.Role == domain.RoleWorker || !domain.ValidRole(req.Role) {
		return nil, apperrors.NewValidationFailedError("invalid role " + string(req.Role))
	}
	if req.Role == domain.RoleAdmin && actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only admins can create other admins")
	}
	return s.createLocalUser(ctx, actor, req)
}

func (s *userService) createLocalUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	_, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err == nil {
		return nil, apperrors.NewConflictError("username " + req.Username + " is already taken")
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: hash,
		IsActive:     true,
		AuthProvider: domain.ProviderLocal,
		AuditFields:  domain.NewAuditFields(actor, now),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to create user", slog.String("username", req.Username))
		return nil, err
	}
	s.LogInfo(ctx, "User created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	self := actor.UserID == userID
	if !self || req.Role != nil || req.IsActive != nil {
		if err := s.RequireAdmin(ctx, actor, "manage other users"); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyString(&user.Name, req.Name)
	applyString(&user.Phone, req.Phone)
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != nil {
		if *req.Role == domain.RoleAdmin && actor.Role != domain.RoleAdmin {
			return nil, apperrors.NewForbiddenError("only admins can grant the admin role")
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		if self && !*req.IsActive {
			return nil, apperrors.NewValidationFailedError("you cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
	}
	user.Touch(actor, s.now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

func (s *userService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.userRepo.FindUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	_, err = s.createLocalUser(ctx, domain.SystemActor(), dto.CreateUserRequest{
		Username: username,
		Password: password,
		Name:     "Administrator",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	s.LogInfo(ctx, "Bootstrap admin created", slog.String("username", username))
	return nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Rejected login", slog.String("username", username))
		return nil, errInvalidCredentials
	}
	s.touchLogin(ctx, user)
	return user, nil
}

func (s *userService) FindOrLinkGoogleUser(ctx context.Context, googleUserID, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProvider(ctx, domain.ProviderGoogle, googleUserID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		user, err = s.linkGoogleIdentity(ctx, googleUserID, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("account is disabled")
	}
	s.touchLogin(ctx, user)
	return user, nil
}

// linkGoogleIdentity attaches a Google identity to the existing account with the same email.
func (s *userService) linkGoogleIdentity(ctx context.Context, googleUserID, email string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.NewUnauthorizedError("google account has no verified email")
	}
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("no account is registered for " + email)
		}
		return nil, err
	}
	user.AuthProvider = domain.ProviderGoogle
	user.ProviderUserID = &googleUserID
	user.Touch(user.Actor(), s.now())
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Google identity linked", slog.String("user_id", user.UserID))
	return user, nil
}

func (s *userService) touchLogin(ctx context.Context, user *domain.User) {
	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to record last login", slog.String("user_id", user.UserID))
		return
	}
	user.LastLogin = &now
}
