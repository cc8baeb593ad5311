package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/core/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for form boundaries around the receipt file.
const multipartOverhead = 1 << 20

// costHandler handles expenses, transports and their receipts.
type costHandler struct {
	expenseService   portssvc.ExpenseSvcFacade
	transportService portssvc.TransportSvcFacade
	receiptService   portssvc.ReceiptSvcFacade
}

func newCostHandler(es portssvc.ExpenseSvcFacade, ts portssvc.TransportSvcFacade, rs portssvc.ReceiptSvcFacade) *costHandler {
	return &costHandler{
		expenseService:   es,
		transportService: ts,
		receiptService:   rs,
	}
}

// registerCostRoutes registers expense, transport and receipt routes.
func registerCostRoutes(rg *gin.RouterGroup, es portssvc.ExpenseSvcFacade, ts portssvc.TransportSvcFacade, rs portssvc.ReceiptSvcFacade) {
	h := newCostHandler(es, ts, rs)

	expenses := rg.Group("/expenses", middleware.RequireStaff())
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.POST("/:id/receipts", h.uploadReceipt(domain.EntityExpense))
		expenses.GET("/:id/receipts", h.listReceipts(domain.EntityExpense))
	}

	transports := rg.Group("/transports", middleware.RequireStaff())
	{
		transports.POST("", h.createTransport)
		transports.GET("", h.listTransports)
		transports.GET("/:id", h.getTransport)
		transports.PUT("/:id", h.updateTransport)
		transports.DELETE("/:id", h.deleteTransport)
		transports.POST("/:id/receipts", h.uploadReceipt(domain.EntityTransport))
		transports.GET("/:id/receipts", h.listReceipts(domain.EntityTransport))
	}

	rg.DELETE("/receipts/:id", middleware.RequireStaff(), h.deleteReceipt)
}

// createExpense godoc
// @Summary Record an expense
// @Description Unpaid and partially paid expenses create a debt for the remainder.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.ExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *costHandler) createExpense(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.expenseService.CreateExpense(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create expense")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Expense created",
		slog.String("expense_id", resp.Expense.ExpenseID), slog.Bool("debt_created", resp.Debt != nil))
	c.JSON(http.StatusCreated, resp)
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *costHandler) getExpense(c *gin.Context) {
	expense, err := h.expenseService.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce  json
// @Param   orderID query string false "Order filter"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} domain.Expense
// @Security BearerAuth
// @Router /expenses [get]
func (h *costHandler) listExpenses(c *gin.Context) {
	var params dto.ListCostsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// updateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.ExpenseRequest true "Expense"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 409 {object} ErrorResponse "Stale version"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *costHandler) updateExpense(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.expenseService.UpdateExpense(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update expense")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Param   id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *costHandler) deleteExpense(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// createTransport godoc
// @Summary Record a transport
// @Description Unpaid and partially paid transports create a debt for the remainder.
// @Tags transports
// @Accept  json
// @Produce  json
// @Param   transport body dto.TransportRequest true "Transport"
// @Success 201 {object} dto.TransportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transports [post]
func (h *costHandler) createTransport(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.TransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.transportService.CreateTransport(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create transport")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getTransport godoc
// @Summary Get a transport
// @Tags transports
// @Produce  json
// @Param   id path string true "Transport ID"
// @Success 200 {object} domain.Transport
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transports/{id} [get]
func (h *costHandler) getTransport(c *gin.Context) {
	transport, err := h.transportService.GetTransport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transport")
		return
	}
	c.JSON(http.StatusOK, transport)
}

// listTransports godoc
// @Summary List transports
// @Tags transports
// @Produce  json
// @Param   orderID query string false "Order filter"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} domain.Transport
// @Security BearerAuth
// @Router /transports [get]
func (h *costHandler) listTransports(c *gin.Context) {
	var params dto.ListCostsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	transports, err := h.transportService.ListTransports(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list transports")
		return
	}
	c.JSON(http.StatusOK, transports)
}

// updateTransport godoc
// @Summary Update a transport
// @Tags transports
// @Accept  json
// @Produce  json
// @Param   id path string true "Transport ID"
// @Param   transport body dto.TransportRequest true "Transport"
// @Success 200 {object} dto.TransportResponse
// @Failure 409 {object} ErrorResponse "Stale version"
// @Security BearerAuth
// @Router /transports/{id} [put]
func (h *costHandler) updateTransport(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.TransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.transportService.UpdateTransport(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update transport")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deleteTransport godoc
// @Summary Delete a transport
// @Tags transports
// @Param   id path string true "Transport ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transports/{id} [delete]
func (h *costHandler) deleteTransport(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.transportService.DeleteTransport(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete transport")
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadReceipt godoc
// @Summary Attach a receipt
// @Description Stores an image or PDF of at most 10 MB and returns a short-lived download link.
// @Tags receipts
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "Expense or transport ID"
// @Param   file formData file true "Receipt file"
// @Success 201 {object} dto.ReceiptResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Receipt storage not configured"
// @Security BearerAuth
// @Router /expenses/{id}/receipts [post]
// @Router /transports/{id}/receipts [post]
func (h *costHandler) uploadReceipt(owner domain.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxReceiptSize+multipartOverhead)

		header, err := c.FormFile("file")
		if err != nil {
			bindError(c, err)
			return
		}
		file, err := header.Open()
		if err != nil {
			bindError(c, err)
			return
		}
		defer file.Close()

		resp, err := h.receiptService.UploadReceipt(c.Request.Context(), actor, portssvc.ReceiptUpload{
			Owner:       domain.EntityRef{Type: owner, ID: c.Param("id")},
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			respondWithError(c, err, "Failed to upload receipt")
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// listReceipts godoc
// @Summary List receipts
// @Tags receipts
// @Produce  json
// @Param   id path string true "Expense or transport ID"
// @Success 200 {array} dto.ReceiptResponse
// @Security BearerAuth
// @Router /expenses/{id}/receipts [get]
// @Router /transports/{id}/receipts [get]
func (h *costHandler) listReceipts(owner domain.EntityType) gin.HandlerFunc {
	return func(c *gin.Context) {
		receipts, err := h.receiptService.ListReceipts(c.Request.Context(), domain.EntityRef{Type: owner, ID: c.Param("id")})
		if err != nil {
			respondWithError(c, err, "Failed to list receipts")
			return
		}
		c.JSON(http.StatusOK, receipts)
	}
}

// deleteReceipt godoc
// @Summary Delete a receipt
// @Tags receipts
// @Param   id path string true "Receipt ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/{id} [delete]
func (h *costHandler) deleteReceipt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.receiptService.DeleteReceipt(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete receipt")
		return
	}
	c.Status(http.StatusNoContent)
}
