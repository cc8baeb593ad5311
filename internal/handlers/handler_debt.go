package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// debtHandler handles HTTP requests related to debts.
type debtHandler struct {
	debtService portssvc.DebtSvcFacade
}

func newDebtHandler(ds portssvc.DebtSvcFacade) *debtHandler {
	return &debtHandler{debtService: ds}
}

// registerDebtRoutes registers all debt-related routes.
func registerDebtRoutes(rg *gin.RouterGroup, debtService portssvc.DebtSvcFacade) {
	h := newDebtHandler(debtService)

	debts := rg.Group("/debts", middleware.RequireStaff())
	{
		debts.POST("", h.createDebt)
		debts.GET("", h.listDebts)
		debts.GET("/:id", h.getDebt)
		debts.GET("/:id/source", h.getSource)
		debts.POST("/:id/payments", h.payDebt)
		debts.DELETE("/:id", middleware.RequireAdmin(), h.deleteDebt)
	}
}

// createDebt godoc
// @Summary Record a manual debt
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   debt body dto.CreateDebtRequest true "Debt"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse "Paid exceeds the debt amount"
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	debt, err := h.debtService.CreateDebt(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create debt")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Debt created", slog.String("debt_id", debt.DebtID))
	c.JSON(http.StatusCreated, dto.ToDebtResponse(*debt))
}

// getDebt godoc
// @Summary Get a debt
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [get]
func (h *debtHandler) getDebt(c *gin.Context) {
	debt, err := h.debtService.GetDebt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(*debt))
}

// listDebts godoc
// @Summary List debts
// @Tags debts
// @Produce  json
// @Param   status query string false "unpaid, partial or paid"
// @Param   sourceType query string false "expense or transport"
// @Param   manualOnly query bool false "Only debts entered by hand"
// @Param   q query string false "Search by name"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.DebtResponse
// @Security BearerAuth
// @Router /debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	var params dto.ListDebtsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	debts, err := h.debtService.ListDebts(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponses(debts))
}

// payDebt godoc
// @Summary Pay a debt
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   payment body dto.PaymentRequest true "Amount"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse "Amount exceeds the remaining debt"
// @Security BearerAuth
// @Router /debts/{id}/payments [post]
func (h *debtHandler) payDebt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	debt, err := h.debtService.PayDebt(c.Request.Context(), actor, c.Param("id"), req.Amount)
	if err != nil {
		respondWithError(c, err, "Failed to pay debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(*debt))
}

// deleteDebt godoc
// @Summary Delete a debt
// @Tags debts
// @Param   id path string true "Debt ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{id} [delete]
func (h *debtHandler) deleteDebt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.debtService.DeleteDebt(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete debt")
		return
	}
	c.Status(http.StatusNoContent)
}

// getSource godoc
// @Summary Resolve the expense or transport a debt came from
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Success 200 {object} domain.ResolvedEntity
// @Failure 404 {object} ErrorResponse "Manual debt or source deleted"
// @Security BearerAuth
// @Router /debts/{id}/source [get]
func (h *debtHandler) getSource(c *gin.Context) {
	source, err := h.debtService.GetDebtSource(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to resolve debt source")
		return
	}
	c.JSON(http.StatusOK, source)
}
