package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/SscSPs/business_management_app/internal/platform/config"
	"github.com/SscSPs/business_management_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// authLoginRate throttles credential endpoints per client IP.
const authLoginRate = "5-M"

// authHandler handles authentication related requests.
type authHandler struct {
	userService   portssvc.UserSvcFacade
	workerService portssvc.WorkerAuthSvc
	tokenService  portssvc.TokenSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade, ws portssvc.WorkerAuthSvc, ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{
		userService:   us,
		workerService: ws,
		tokenService:  ts,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.User, services.Worker, services.Token)
	g := newGoogleOAuthHandler(services.Google, services.User, services.Token)

	ipLimiter, err := middleware.NewLimiter(authLoginRate)
	if err != nil {
		// authLoginRate is a constant; a parse failure is a programming error.
		panic(err)
	}
	limit := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limit, h.login)
		auth.POST("/worker-login", limit, h.workerLogin)
		auth.POST("/refresh", limit, h.refresh)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.logout)
		auth.GET("/google/login", limit, g.loginURL)
		auth.POST("/google/exchange-code", limit, g.exchangeCode)
	}
}

// login godoc
// @Summary Staff login
// @Description Authenticates a staff user and returns an access token and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		respondWithError(c, err, "Login failed")
		return
	}

	resp, err := issueUserTokens(c, h.userService, h.tokenService, user)
	if err != nil {
		respondWithError(c, err, "Failed to generate token")
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, resp)
}

// issueUserTokens creates the access and refresh token pair for a staff user
// and stores the refresh token hash.
func issueUserTokens(c *gin.Context, us portssvc.UserWriterSvc, ts portssvc.TokenSvcFacade, user *domain.User) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()

	accessToken, expiresAt, err := ts.GenerateAccessToken(ctx, user.Actor())
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiresAt, err := ts.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := us.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiresAt); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:                 accessToken,
		ExpiresAt:             expiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		UserID:                user.UserID,
		Role:                  string(user.Role),
	}, nil
}

// workerLogin godoc
// @Summary Worker login
// @Description Authenticates a worker with their own credentials. The token subject is the worker id.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/worker-login [post]
func (h *authHandler) workerLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	worker, err := h.workerService.AuthenticateWorker(ctx, req.Username, req.Password)
	if err != nil {
		respondWithError(c, err, "Login failed")
		return
	}

	actor := domain.Actor{UserID: worker.WorkerID, Name: worker.Name, Role: domain.RoleWorker}
	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, actor)
	if err != nil {
		respondWithError(c, err, "Failed to generate token")
		return
	}

	middleware.GetLoggerFromCtx(ctx).Info("Worker logged in", slog.String("worker_id", worker.WorkerID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: expiresAt,
		UserID:    worker.WorkerID,
		Role:      string(domain.RoleWorker),
	})
}

// refresh godoc
// @Summary Refresh access token
// @Description Exchanges a valid refresh token for a new access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(ctx, req.UserID, req.RefreshToken)
	if err != nil {
		respondWithError(c, err, "Invalid refresh token")
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user.Actor())
	if err != nil {
		respondWithError(c, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: accessToken, ExpiresAt: expiresAt})
}

// logout godoc
// @Summary Logout
// @Description Revokes the caller's refresh token.
// @Tags auth
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if !actor.IsWorker() {
		if err := h.userService.ClearRefreshToken(c.Request.Context(), actor.UserID); err != nil {
			respondWithError(c, err, "Failed to logout")
			return
		}
	}
	c.Status(http.StatusNoContent)
}
