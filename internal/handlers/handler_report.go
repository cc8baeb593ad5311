package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/SscSPs/business_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportHandler serves reports and their spreadsheet exports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: rs}
}

// registerReportRoutes registers the report and export routes.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports", middleware.RequireAdmin())
	{
		reports.GET("/financial", h.financialReport)
		reports.GET("/workers", h.workersReport)
		reports.GET("/expenses", h.expensesReport)
		reports.GET("/debts.xlsx", h.exportDebts)
		reports.GET("/orders.xlsx", h.exportOrders)
		reports.GET("/financial.xlsx", h.exportFinancial)
		reports.GET("/workers.xlsx", h.exportWorkers)
		reports.GET("/expenses.xlsx", h.exportExpenses)
	}
}

// financialReport godoc
// @Summary Financial report
// @Description Revenue, costs, profit and debts. An explicit from/to range overrides the period.
// @Tags reports
// @Produce  json
// @Param   period query string false "day, week, month, quarter or year" default(month)
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.FinancialReport
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/financial [get]
func (h *reportHandler) financialReport(c *gin.Context) {
	params, ok := bindReportParams(c)
	if !ok {
		return
	}
	report, err := h.reportService.FinancialReport(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to build financial report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// workersReport godoc
// @Summary Workers report
// @Description Salary owed to every active worker and their completed assignments.
// @Tags reports
// @Produce  json
// @Success 200 {object} domain.WorkersReport
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/workers [get]
func (h *reportHandler) workersReport(c *gin.Context) {
	report, err := h.reportService.WorkersReport(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to build workers report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// expensesReport godoc
// @Summary Expenses report
// @Description Expenses of the period grouped by category.
// @Tags reports
// @Produce  json
// @Param   period query string false "day, week, month, quarter or year" default(month)
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   category query string false "Only this category"
// @Success 200 {object} domain.ExpensesReport
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/expenses [get]
func (h *reportHandler) expensesReport(c *gin.Context) {
	params, ok := bindReportParams(c)
	if !ok {
		return
	}
	report, err := h.reportService.ExpensesReport(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to build expenses report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// exportDebts godoc
// @Summary Export debts
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/debts.xlsx [get]
func (h *reportHandler) exportDebts(c *gin.Context) {
	h.export(c, "debts", h.reportService.ExportDebts)
}

// exportOrders godoc
// @Summary Export orders
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/orders.xlsx [get]
func (h *reportHandler) exportOrders(c *gin.Context) {
	h.export(c, "orders", h.reportService.ExportOrders)
}

// exportFinancial godoc
// @Summary Export the financial report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   period query string false "day, week, month, quarter or year" default(month)
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/financial.xlsx [get]
func (h *reportHandler) exportFinancial(c *gin.Context) {
	params, ok := bindReportParams(c)
	if !ok {
		return
	}
	h.export(c, "financial", func(ctx context.Context, w io.Writer) error {
		return h.reportService.ExportFinancial(ctx, params, w)
	})
}

// exportWorkers godoc
// @Summary Export the workers report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/workers.xlsx [get]
func (h *reportHandler) exportWorkers(c *gin.Context) {
	h.export(c, "workers", h.reportService.ExportWorkers)
}

// exportExpenses godoc
// @Summary Export the expenses report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   period query string false "day, week, month, quarter or year" default(month)
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   category query string false "Only this category"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/expenses.xlsx [get]
func (h *reportHandler) exportExpenses(c *gin.Context) {
	params, ok := bindReportParams(c)
	if !ok {
		return
	}
	h.export(c, "expenses", func(ctx context.Context, w io.Writer) error {
		return h.reportService.ExportExpenses(ctx, params, w)
	})
}

func bindReportParams(c *gin.Context) (dto.ReportParams, bool) {
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return params, false
	}
	return params, true
}

// export renders into a buffer first so a failure can still produce a JSON error.
func (h *reportHandler) export(c *gin.Context, name string, render func(ctx context.Context, w io.Writer) error) {
	var buf bytes.Buffer
	if err := render(c.Request.Context(), &buf); err != nil {
		respondWithError(c, err, "Failed to export "+name)
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
