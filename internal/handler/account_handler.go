package handler

import (
	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	accounts, err := h.accounts.List(c.Context())
	if err != nil {
		return serviceError(c, "Failed to retrieve accounts", err)
	}
	return utils.SuccessResponse(c, "Accounts retrieved successfully", accounts)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.accounts.Get(c.Context(), c.Params("code"))
	if err != nil {
		return serviceError(c, "Account not found", err)
	}
	return utils.SuccessResponse(c, "Account retrieved successfully", account)
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req models.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.accounts.Create(c.Context(), req)
	if err != nil {
		return serviceError(c, "Failed to create account", err)
	}
	return utils.SuccessResponse(c, "Account created successfully", account)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	var req models.AccountUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	account, err := h.accounts.Update(c.Context(), c.Params("code"), req)
	if err != nil {
		return serviceError(c, "Failed to update account", err)
	}
	return utils.SuccessResponse(c, "Account updated successfully", account)
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	deleted, err := h.accounts.Delete(c.Context(), c.Params("code"))
	if err != nil {
		return serviceError(c, "Failed to delete account", err)
	}
	return utils.SuccessResponse(c, "Account deleted successfully", fiber.Map{
		"entries_removed": deleted,
	})
}

func (h *AccountHandler) ResetAccounts(c *fiber.Ctx) error {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.accounts.Reset(c.Context(), req.Mode); err != nil {
		return serviceError(c, "Failed to reset chart of accounts", err)
	}
	return utils.SuccessResponse(c, "Chart of accounts reset successfully", fiber.Map{
		"mode": req.Mode,
	})
}
