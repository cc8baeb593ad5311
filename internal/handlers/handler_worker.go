package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workerHandler handles HTTP requests related to workers.
type workerHandler struct {
	workerService portssvc.WorkerSvcFacade
}

func newWorkerHandler(ws portssvc.WorkerSvcFacade) *workerHandler {
	return &workerHandler{
		workerService: ws,
	}
}

// registerWorkerRoutes registers all worker-related routes.
func registerWorkerRoutes(rg *gin.RouterGroup, workerService portssvc.WorkerSvcFacade) {
	h := newWorkerHandler(workerService)

	workers := rg.Group("/workers")
	workers.GET("/me", middleware.RequireRoles(domain.RoleWorker), h.getMe)

	staff := workers.Group("", middleware.RequireStaff())
	{
		staff.GET("", h.listWorkers)
		staff.GET("/:id", h.getWorker)
		staff.GET("/:id/history", h.listHistory)
		staff.GET("/:id/evaluations", h.listEvaluations)
		staff.GET("/:id/monthly-records", h.listMonthlyRecords)
	}

	admin := workers.Group("", middleware.RequireAdmin())
	{
		admin.POST("", h.createWorker)
		admin.PUT("/:id", h.updateWorker)
		admin.POST("/:id/adjustments", h.adjustWorker)
		admin.POST("/:id/evaluations", h.evaluateWorker)
		admin.POST("/:id/salary-payments", h.paySalary)
	}
}

// createWorker godoc
// @Summary Hire a worker
// @Description Username and password are optional; with both set the worker can sign in.
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   worker body dto.CreateWorkerRequest true "Worker details"
// @Success 201 {object} domain.Worker
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /workers [post]
func (h *workerHandler) createWorker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	worker, err := h.workerService.CreateWorker(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create worker")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Worker created", slog.String("worker_id", worker.WorkerID))
	c.JSON(http.StatusCreated, worker)
}

// getWorker godoc
// @Summary Get a worker with salary and assignments
// @Tags workers
// @Produce  json
// @Param   id path string true "Worker ID"
// @Success 200 {object} domain.WorkerDetails
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{id} [get]
func (h *workerHandler) getWorker(c *gin.Context) {
	details, err := h.workerService.GetWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve worker")
		return
	}
	c.JSON(http.StatusOK, details)
}

// getMe godoc
// @Summary Signed-in worker
// @Tags workers
// @Produce  json
// @Success 200 {object} domain.WorkerDetails
// @Failure 403 {object} ErrorResponse "Not a worker token"
// @Security BearerAuth
// @Router /workers/me [get]
func (h *workerHandler) getMe(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	details, err := h.workerService.GetWorker(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve worker")
		return
	}
	c.JSON(http.StatusOK, details)
}

// listWorkers godoc
// @Summary List workers
// @Tags workers
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated workers"
// @Success 200 {array} domain.Worker
// @Security BearerAuth
// @Router /workers [get]
func (h *workerHandler) listWorkers(c *gin.Context) {
	var params dto.ListWorkersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	workers, err := h.workerService.ListWorkers(c.Request.Context(), params.IncludeInactive)
	if err != nil {
		respondWithError(c, err, "Failed to list workers")
		return
	}
	c.JSON(http.StatusOK, workers)
}

// updateWorker godoc
// @Summary Update a worker
// @Description Setting isActive to false deactivates the worker.
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   id path string true "Worker ID"
// @Param   worker body dto.UpdateWorkerRequest true "Fields to change"
// @Success 200 {object} domain.Worker
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Stale version"
// @Security BearerAuth
// @Router /workers/{id} [put]
func (h *workerHandler) updateWorker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	worker, err := h.workerService.UpdateWorker(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update worker")
		return
	}
	c.JSON(http.StatusOK, worker)
}

// adjustWorker godoc
// @Summary Adjust a salary counter
// @Description Records an advance, incentive, absence, late hours or outside work.
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   id path string true "Worker ID"
// @Param   adjustment body dto.WorkerAdjustmentRequest true "Adjustment"
// @Success 200 {object} domain.Worker
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{id}/adjustments [post]
func (h *workerHandler) adjustWorker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.WorkerAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	worker, err := h.workerService.AdjustWorker(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to adjust worker")
		return
	}
	c.JSON(http.StatusOK, worker)
}

// evaluateWorker godoc
// @Summary Evaluate a worker
// @Description Four scores from 0 to 10; high totals grant a bonus, low totals a penalty.
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   id path string true "Worker ID"
// @Param   evaluation body dto.EvaluateWorkerRequest true "Scores"
// @Success 201 {object} domain.WorkerEvaluation
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{id}/evaluations [post]
func (h *workerHandler) evaluateWorker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.EvaluateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	evaluation, err := h.workerService.EvaluateWorker(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to evaluate worker")
		return
	}
	c.JSON(http.StatusCreated, evaluation)
}

// listEvaluations godoc
// @Summary List a worker's evaluations
// @Tags workers
// @Produce  json
// @Param   id path string true "Worker ID"
// @Success 200 {array} domain.WorkerEvaluation
// @Security BearerAuth
// @Router /workers/{id}/evaluations [get]
func (h *workerHandler) listEvaluations(c *gin.Context) {
	evaluations, err := h.workerService.ListEvaluations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to list evaluations")
		return
	}
	c.JSON(http.StatusOK, evaluations)
}

// listHistory godoc
// @Summary Worker history
// @Tags workers
// @Produce  json
// @Param   id path string true "Worker ID"
// @Success 200 {array} domain.WorkerHistory
// @Security BearerAuth
// @Router /workers/{id}/history [get]
func (h *workerHandler) listHistory(c *gin.Context) {
	history, err := h.workerService.ListWorkerHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to list worker history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// paySalary godoc
// @Summary Pay a worker's salary
// @Description Snapshots the pay period into the monthly record and starts a new period today.
// @Tags workers
// @Accept  json
// @Produce  json
// @Param   id path string true "Worker ID"
// @Param   payment body dto.PaySalaryRequest true "Payment"
// @Success 201 {object} dto.SalaryPaymentResponse
// @Failure 400 {object} ErrorResponse "Amount exceeds the salary owed"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /workers/{id}/salary-payments [post]
func (h *workerHandler) paySalary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.PaySalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.workerService.PayWorkerSalary(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to pay salary")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// listMonthlyRecords godoc
// @Summary Worker pay period records
// @Tags workers
// @Produce  json
// @Param   id path string true "Worker ID"
// @Success 200 {array} domain.WorkerMonthlyRecord
// @Security BearerAuth
// @Router /workers/{id}/monthly-records [get]
func (h *workerHandler) listMonthlyRecords(c *gin.Context) {
	records, err := h.workerService.ListMonthlyRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to list monthly records")
		return
	}
	c.JSON(http.StatusOK, records)
}
