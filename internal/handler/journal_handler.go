package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/middleware"
	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type JournalHandler struct {
	ledger   *service.LedgerService
	composer *service.ComposerService
}

func NewJournalHandler(ledger *service.LedgerService, composer *service.ComposerService) *JournalHandler {
	return &JournalHandler{ledger: ledger, composer: composer}
}

func (h *JournalHandler) GetJournal(c *fiber.Ctx) error {
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
		AccountCode: c.Query("account_code"),
		RefCode:     c.Query("ref_code"),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return serviceError(c, "Failed to retrieve journal", err)
	}
	return utils.SuccessResponse(c, "Journal retrieved successfully", entries)
}

func (h *JournalHandler) GetBalance(c *fiber.Ctx) error {
	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid as_of date", err)
	}

	code := c.Params("code")
	balance, err := h.ledger.Balance(c.Context(), code, asOf)
	if err != nil {
		return serviceError(c, "Failed to compute balance", err)
	}
	return utils.SuccessResponse(c, "Balance computed successfully", fiber.Map{
		"account_code": code,
		"balance":      balance,
		"formatted":    utils.FormatRupiah(balance),
	})
}

func (h *JournalHandler) CreateManualEntry(c *fiber.Ctx) error {
	var req models.ManualEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	entries, err := h.composer.RecordManualEntry(c.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		return serviceError(c, "Failed to post manual entry", err)
	}
	return utils.SuccessResponse(c, "Manual entry posted successfully", entries)
}

func (h *JournalHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", err)
	}

	var req models.JournalEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	entry, err := h.ledger.UpdateEntry(c.Context(), id, req)
	if err != nil {
		return serviceError(c, "Failed to update journal entry", err)
	}
	return utils.SuccessResponse(c, "Journal entry updated successfully", entry)
}

func (h *JournalHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", err)
	}

	if err := h.ledger.DeleteEntry(c.Context(), id); err != nil {
		return serviceError(c, "Failed to delete journal entry", err)
	}
	return utils.SuccessResponse(c, "Journal entry deleted successfully", nil)
}

func (h *JournalHandler) DeleteGroup(c *fiber.Ctx) error {
	deleted, err := h.ledger.DeleteGroup(c.Context(), c.Params("ref"))
	if err != nil {
		return serviceError(c, "Failed to delete journal group", err)
	}
	return utils.SuccessResponse(c, "Journal group deleted successfully", fiber.Map{
		"entries_removed": deleted,
	})
}
