package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler handles HTTP requests related to orders, their statuses and
// worker assignments.
type orderHandler struct {
	orderService      portssvc.OrderSvcFacade
	assignmentService portssvc.AssignmentSvcFacade
}

func newOrderHandler(os portssvc.OrderSvcFacade, as portssvc.AssignmentSvcFacade) *orderHandler {
	return &orderHandler{
		orderService:      os,
		assignmentService: as,
	}
}

// registerOrderRoutes registers order, status and assignment routes.
func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade, assignmentService portssvc.AssignmentSvcFacade) {
	h := newOrderHandler(orderService, assignmentService)

	statuses := rg.Group("/statuses", middleware.RequireStaff())
	{
		statuses.GET("", h.listStatuses)
		statuses.POST("", middleware.RequireAdmin(), h.createStatus)
	}

	orders := rg.Group("/orders", middleware.RequireStaff())
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/health", h.getHealthStats)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.DELETE("/:id", middleware.RequireAdmin(), h.deleteOrder)
		orders.POST("/:id/payments", h.recordPayment)
		orders.PUT("/:id/status", h.changeStatus)
		orders.GET("/:id/history", h.listHistory)
		orders.GET("/:id/assignments", h.listAssignments)
		orders.POST("/:id/assignments", middleware.RequireAdmin(), h.assignWorker)
	}

	assignments := rg.Group("/assignments", middleware.RequireAdmin())
	{
		assignments.DELETE("/:id", h.deactivateAssignment)
		assignments.POST("/sync", h.syncAssignments)
	}
}

// createOrder godoc
// @Summary Create an order
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create order")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Order created", slog.String("order_id", order.OrderID))
	c.JSON(http.StatusCreated, order)
}

// getOrder godoc
// @Summary Get an order with its financials
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {object} domain.OrderDetails
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	details, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, details)
}

// listOrders godoc
// @Summary List orders
// @Tags orders
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Param   statusID query int false "Status filter"
// @Param   isPaid query bool false "Paid filter"
// @Param   q query string false "Search customer, product or wilaya"
// @Success 200 {object} dto.ListOrdersResponse
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateOrder godoc
// @Summary Update an order
// @Description Nil fields are left unchanged. The version must match the stored one.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   order body dto.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Stale version"
// @Security BearerAuth
// @Router /orders/{id} [put]
func (h *orderHandler) updateOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	order, err := h.orderService.UpdateOrder(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// deleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Param   id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *orderHandler) deleteOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete order")
		return
	}
	c.Status(http.StatusNoContent)
}

// recordPayment godoc
// @Summary Record a customer payment
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   payment body dto.PaymentRequest true "Amount"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse "Amount exceeds the remaining balance"
// @Security BearerAuth
// @Router /orders/{id}/payments [post]
func (h *orderHandler) recordPayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	order, err := h.orderService.RecordPayment(c.Request.Context(), actor, c.Param("id"), req.Amount)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, order)
}

// changeStatus godoc
// @Summary Change an order's status
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   status body dto.ChangeOrderStatusRequest true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Security BearerAuth
// @Router /orders/{id}/status [put]
func (h *orderHandler) changeStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	order, err := h.orderService.ChangeStatus(c.Request.Context(), actor, c.Param("id"), req.StatusID)
	if err != nil {
		respondWithError(c, err, "Failed to change order status")
		return
	}
	c.JSON(http.StatusOK, order)
}

// listHistory godoc
// @Summary Order history
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {array} domain.OrderHistory
// @Security BearerAuth
// @Router /orders/{id}/history [get]
func (h *orderHandler) listHistory(c *gin.Context) {
	history, err := h.orderService.ListOrderHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to list order history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// getHealthStats godoc
// @Summary Order financial health
// @Description Counts orders with and without open debts.
// @Tags orders
// @Produce  json
// @Success 200 {object} domain.OrderHealthStats
// @Security BearerAuth
// @Router /orders/health [get]
func (h *orderHandler) getHealthStats(c *gin.Context) {
	stats, err := h.orderService.GetHealthStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to compute order health")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// listStatuses godoc
// @Summary List order statuses
// @Tags statuses
// @Produce  json
// @Success 200 {array} domain.OrderStatus
// @Security BearerAuth
// @Router /statuses [get]
func (h *orderHandler) listStatuses(c *gin.Context) {
	statuses, err := h.orderService.ListStatuses(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list statuses")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// createStatus godoc
// @Summary Create a custom order status
// @Tags statuses
// @Accept  json
// @Produce  json
// @Param   status body dto.CreateOrderStatusRequest true "Status"
// @Success 201 {object} domain.OrderStatus
// @Failure 409 {object} ErrorResponse "Name already used"
// @Security BearerAuth
// @Router /statuses [post]
func (h *orderHandler) createStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	status, err := h.orderService.CreateStatus(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create status")
		return
	}
	c.JSON(http.StatusCreated, status)
}

// assignWorker godoc
// @Summary Assign a worker to an order
// @Description Replaces any active assignment of the pair, syncs the worker's order task and advances a waiting order.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   assignment body dto.AssignWorkerRequest true "Assignment"
// @Success 201 {object} domain.AssignmentResult
// @Failure 400 {object} ErrorResponse "Inactive worker"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Concurrent assignment"
// @Security BearerAuth
// @Router /orders/{id}/assignments [post]
func (h *orderHandler) assignWorker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.AssignWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.assignmentService.AssignWorker(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to assign worker")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// listAssignments godoc
// @Summary List an order's assignments
// @Tags assignments
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {array} domain.OrderAssignment
// @Security BearerAuth
// @Router /orders/{id}/assignments [get]
func (h *orderHandler) listAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.ListOrderAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to list assignments")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// deactivateAssignment godoc
// @Summary End an assignment
// @Tags assignments
// @Param   id path string true "Assignment ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already inactive"
// @Security BearerAuth
// @Router /assignments/{id} [delete]
func (h *orderHandler) deactivateAssignment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.assignmentService.DeactivateAssignment(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to deactivate assignment")
		return
	}
	c.Status(http.StatusNoContent)
}

// syncAssignments godoc
// @Summary Resynchronise assignment tasks
// @Description Upserts the order task of every active assignment.
// @Tags assignments
// @Produce  json
// @Success 200 {object} domain.SyncResult
// @Security BearerAuth
// @Router /assignments/sync [post]
func (h *orderHandler) syncAssignments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, err := h.assignmentService.SyncAllAssignedOrders(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to sync assignments")
		return
	}
	c.JSON(http.StatusOK, result)
}
