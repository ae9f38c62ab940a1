package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type ReportHandler struct {
	statements *service.StatementService
	ledger     *service.LedgerService
	excel      *service.ExcelService
}

func NewReportHandler(statements *service.StatementService, ledger *service.LedgerService, excel *service.ExcelService) *ReportHandler {
	return &ReportHandler{statements: statements, ledger: ledger, excel: excel}
}

func (h *ReportHandler) GetTrialBalance(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	tb, err := h.statements.TrialBalance(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build trial balance", err)
	}
	return utils.SuccessResponse(c, "Trial balance built successfully", tb)
}

func (h *ReportHandler) GetAdjustedTrialBalance(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	tb, err := h.statements.AdjustedTrialBalance(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build adjusted trial balance", err)
	}
	return utils.SuccessResponse(c, "Adjusted trial balance built successfully", tb)
}

func (h *ReportHandler) GetWorksheet(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	ws, err := h.statements.BuildWorksheet(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build worksheet", err)
	}
	return utils.SuccessResponse(c, "Worksheet built successfully", ws)
}

func (h *ReportHandler) GetIncomeStatement(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	report, err := h.statements.IncomeStatementReport(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build income statement", err)
	}
	return utils.SuccessResponse(c, "Income statement built successfully", report)
}

func (h *ReportHandler) GetBalanceSheet(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	report, err := h.statements.BalanceSheetReport(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build balance sheet", err)
	}
	return utils.SuccessResponse(c, "Balance sheet built successfully", report)
}

func (h *ReportHandler) GetCashFlow(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid start_date", err)
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid end_date", err)
	}

	report, err := h.statements.CashFlow(c.Context(), start, end)
	if err != nil {
		return serviceError(c, "Failed to build cash flow statement", err)
	}
	return utils.SuccessResponse(c, "Cash flow statement built successfully", report)
}

func (h *ReportHandler) CloseBooks(c *fiber.Ctx) error {
	var req struct {
		PeriodEnd string `json:"period_end"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid period_end", err)
	}

	net, err := h.statements.Close(c.Context(), periodEnd)
	if err != nil {
		return serviceError(c, "Failed to close the books", err)
	}
	return utils.SuccessResponse(c, "Closing entries posted successfully", fiber.Map{
		"ref_code":   fmt.Sprintf("CL-%s", periodEnd.Format("200601")),
		"net_income": net,
		"formatted":  utils.FormatRupiah(net),
	})
}

func exportFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
}

func (h *ReportHandler) ExportJournal(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid start_date", err)
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid end_date", err)
	}

	entries, err := h.ledger.Query(c.Context(), service.JournalFilter{
		JournalType: c.Query("journal_type"),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return serviceError(c, "Failed to retrieve journal", err)
	}

	path, err := h.excel.ExportJournal(entries, exportFilename("jurnal"))
	if err != nil {
		return serviceError(c, "Failed to export journal", err)
	}
	return c.Download(path)
}

func (h *ReportHandler) ExportTrialBalance(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	tb, err := h.statements.TrialBalance(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build trial balance", err)
	}

	path, err := h.excel.ExportTrialBalance(tb, "Neraca Saldo", exportFilename("neraca_saldo"))
	if err != nil {
		return serviceError(c, "Failed to export trial balance", err)
	}
	return c.Download(path)
}

func (h *ReportHandler) ExportIncomeStatement(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	report, err := h.statements.IncomeStatementReport(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build income statement", err)
	}

	path, err := h.excel.ExportIncomeStatement(report, exportFilename("laba_rugi"))
	if err != nil {
		return serviceError(c, "Failed to export income statement", err)
	}
	return c.Download(path)
}

func (h *ReportHandler) ExportBalanceSheet(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	report, err := h.statements.BalanceSheetReport(c.Context(), asOf)
	if err != nil {
		return serviceError(c, "Failed to build balance sheet", err)
	}

	path, err := h.excel.ExportBalanceSheet(report, exportFilename("neraca"))
	if err != nil {
		return serviceError(c, "Failed to export balance sheet", err)
	}
	return c.Download(path)
}
