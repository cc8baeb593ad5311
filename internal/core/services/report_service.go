package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/business_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/business_management_app/internal/core/ports/services"
	"github.com/SscSPs/business_management_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const reportPageSize = 500

type reportService struct {
	BaseService
	debtRepo   portsrepo.DebtReader
	orderRepo  portsrepo.OrderReader
	workerRepo portsrepo.WorkerReader
	reportRepo portsrepo.ReportRepository
}

// NewReportService creates the report and spreadsheet export service.
func NewReportService(base BaseService, repos portsrepo.RepositoryProvider) portssvc.ReportSvcFacade {
	return &reportService{
		BaseService: base,
		debtRepo:    repos.DebtRepo,
		orderRepo:   repos.OrderRepo,
		workerRepo:  repos.WorkerRepo,
		reportRepo:  repos.ReportRepo,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

func (s *reportService) FinancialReport(ctx context.Context, params dto.ReportParams) (*domain.FinancialReport, error) {
	now := s.now()
	period, err := domain.ResolvePeriod(params.Period, params.From, params.To, now)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.FinancialTotals(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to load financial totals")
		return nil, err
	}
	workers, err := s.workerRepo.ListWorkers(ctx, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to load workers for financial report")
		return nil, err
	}
	salaries := decimal.Zero
	for _, w := range workers {
		salaries = salaries.Add(w.TotalSalary(now))
	}
	report := domain.BuildFinancialReport(period, *totals, salaries)
	return &report, nil
}

func (s *reportService) WorkersReport(ctx context.Context) (*domain.WorkersReport, error) {
	workers, err := s.workerRepo.ListWorkers(ctx, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to load workers for report")
		return nil, err
	}
	completed, err := s.reportRepo.CountEndedAssignments(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count ended assignments")
		return nil, err
	}
	report := domain.BuildWorkersReport(workers, completed, s.now())
	return &report, nil
}

func (s *reportService) ExpensesReport(ctx context.Context, params dto.ReportParams) (*domain.ExpensesReport, error) {
	period, err := domain.ResolvePeriod(params.Period, params.From, params.To, s.now())
	if err != nil {
		return nil, err
	}
	expenses, err := s.reportRepo.ListExpensesInPeriod(ctx, period, params.Category)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for report")
		return nil, err
	}
	report := domain.BuildExpensesReport(period, expenses)
	return &report, nil
}

var debtHeaders = []any{"Name", "Phone", "Debt", "Paid", "Remaining", "Status", "Source", "Start date", "Payment date", "Description"}

func (s *reportService) ExportDebts(ctx context.Context, w io.Writer) error {
	var rows [][]any
	for offset := 0; ; offset += reportPageSize {
		debts, err := s.debtRepo.ListDebts(ctx, domain.DebtFilter{Limit: reportPageSize, Offset: offset})
		if err != nil {
			s.LogError(ctx, err, "Failed to load debts for export")
			return err
		}
		for _, d := range debts {
			source := "manual"
			if d.Source != nil {
				source = d.Source.String()
			}
			rows = append(rows, []any{
				d.Name, d.Phone,
				d.DebtAmount.InexactFloat64(), d.PaidAmount.InexactFloat64(), d.Remaining().InexactFloat64(),
				string(d.Status), source,
				formatDate(&d.StartDate), formatDate(d.PaymentDate),
				d.Description,
			})
		}
		if len(debts) < reportPageSize {
			break
		}
	}
	return s.writeSheet(ctx, w, "Debts", debtHeaders, rows)
}

var orderHeaders = []any{"Customer", "Wilaya", "Product", "Status", "Total", "Paid", "Remaining", "Paid in full", "Start date", "Expected delivery", "Delivered"}

func (s *reportService) ExportOrders(ctx context.Context, w io.Writer) error {
	orders, err := s.orderRepo.ListAllOrders(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load orders for export")
		return err
	}
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		status := ""
		if o.StatusName != nil {
			status = *o.StatusName
		}
		rows = append(rows, []any{
			o.Name, o.Wilaya, o.Product, status,
			o.Total.InexactFloat64(), o.Paid.InexactFloat64(), o.Remaining().InexactFloat64(),
			o.IsPaid,
			formatDate(o.StartDate), formatDate(o.ExpectedDeliveryDate), formatDate(o.ActualDeliveryDate),
		})
	}
	return s.writeSheet(ctx, w, "Orders", orderHeaders, rows)
}

func (s *reportService) ExportFinancial(ctx context.Context, params dto.ReportParams, w io.Writer) error {
	r, err := s.FinancialReport(ctx, params)
	if err != nil {
		return err
	}
	rows := [][]any{
		{"Period start", formatDate(&r.Period.From)},
		{"Period end", formatDate(&r.Period.To)},
		{"Orders", r.Revenue.OrdersCount},
		{"Revenue", r.Revenue.TotalRevenue.InexactFloat64()},
		{"Collected", r.Revenue.TotalPaid.InexactFloat64()},
		{"Purchases", r.Costs.Purchases.InexactFloat64()},
		{"Transport", r.Costs.Transport.InexactFloat64()},
		{"Salaries owed", r.Costs.Salaries.InexactFloat64()},
		{"Total costs", r.Costs.TotalExpenses.InexactFloat64()},
		{"Net profit", r.Profit.NetProfit.InexactFloat64()},
		{"Margin %", r.Profit.Margin.InexactFloat64()},
		{"Debt total", r.Debts.TotalDebt.InexactFloat64()},
		{"Debt paid", r.Debts.TotalPaid.InexactFloat64()},
		{"Debt remaining", r.Debts.RemainingDebt.InexactFloat64()},
		{"Paid orders", r.Overview.PaidOrders.InexactFloat64()},
		{"Unpaid orders", r.Overview.UnpaidOrders.InexactFloat64()},
		{"Net income", r.Overview.NetIncome.InexactFloat64()},
	}
	return s.writeSheet(ctx, w, "Financial", []any{"Item", "Value"}, rows)
}

var workerHeaders = []any{"Worker", "Completed orders", "Gross earnings", "Deductions", "Net salary", "Absences", "Advances", "Period start"}

func (s *reportService) ExportWorkers(ctx context.Context, w io.Writer) error {
	r, err := s.WorkersReport(ctx)
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(r.Workers))
	for _, l := range r.Workers {
		rows = append(rows, []any{
			l.Name, l.CompletedOrders,
			l.GrossEarnings.InexactFloat64(), l.Deductions.InexactFloat64(), l.NetSalary.InexactFloat64(),
			l.Absences.InexactFloat64(), l.Advances.InexactFloat64(),
			formatDate(&l.StartDate),
		})
	}
	return s.writeSheet(ctx, w, "Workers", workerHeaders, rows)
}

var expenseHeaders = []any{"Date", "Category", "Description", "Supplier", "Amount", "Paid", "Payment status"}

func (s *reportService) ExportExpenses(ctx context.Context, params dto.ReportParams, w io.Writer) error {
	r, err := s.ExpensesReport(ctx, params)
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(r.Expenses))
	for _, e := range r.Expenses {
		rows = append(rows, []any{
			formatDate(&e.PurchaseDate), e.Category, e.Description, e.SupplierName,
			e.TotalAmount.InexactFloat64(), e.PaidAmount.InexactFloat64(), string(e.PaymentStatus),
		})
	}
	return s.writeSheet(ctx, w, "Expenses", expenseHeaders, rows)
}

func (s *reportService) writeSheet(ctx context.Context, w io.Writer, sheet string, headers []any, rows [][]any) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.LogError(ctx, err, "Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	s.LogInfo(ctx, "Report exported", slog.String("sheet", sheet), slog.Int("rows", len(rows)))
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
