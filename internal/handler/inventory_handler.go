package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
	"pembukuan-web/internal/worker"
)

type InventoryHandler struct {
	inventory   *service.InventoryService
	asynqClient *asynq.Client // may be nil
	productName string
}

func NewInventoryHandler(inventory *service.InventoryService, asynqClient *asynq.Client, productName string) *InventoryHandler {
	return &InventoryHandler{
		inventory:   inventory,
		asynqClient: asynqClient,
		productName: productName,
	}
}

func (h *InventoryHandler) product(c *fiber.Ctx) string {
	if p := c.Query("product"); p != "" {
		return p
	}
	return h.productName
}

func (h *InventoryHandler) GetCard(c *fiber.Ctx) error {
	entries, err := h.inventory.Card(c.Context(), h.product(c))
	if err != nil {
		return serviceError(c, "Failed to retrieve inventory card", err)
	}
	return utils.SuccessResponse(c, "Inventory card retrieved successfully", entries)
}

func (h *InventoryHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", err)
	}

	var req models.InventoryCardUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	entry, err := h.inventory.UpdateEntry(c.Context(), id, req)
	if err != nil {
		return serviceError(c, "Failed to update inventory entry", err)
	}
	if err := h.recalculate(c, entry.ProductName); err != nil {
		return serviceError(c, "Failed to recalculate inventory card", err)
	}
	return utils.SuccessResponse(c, "Inventory entry updated successfully", entry)
}

func (h *InventoryHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry ID", err)
	}

	productName, err := h.inventory.DeleteEntry(c.Context(), id)
	if err != nil {
		return serviceError(c, "Failed to delete inventory entry", err)
	}
	if err := h.recalculate(c, productName); err != nil {
		return serviceError(c, "Failed to recalculate inventory card", err)
	}
	return utils.SuccessResponse(c, "Inventory entry deleted successfully", nil)
}

func (h *InventoryHandler) Recalculate(c *fiber.Ctx) error {
	product := h.product(c)
	if err := h.inventory.Recalculate(c.Context(), product); err != nil {
		return serviceError(c, "Failed to recalculate inventory card", err)
	}
	return utils.SuccessResponse(c, "Inventory card recalculated successfully", fiber.Map{
		"product": product,
	})
}

// recalculate restores the card's running balances after an edit,
// through the background worker when one is wired up and inline
// otherwise.
func (h *InventoryHandler) recalculate(c *fiber.Ctx, productName string) error {
	if h.asynqClient != nil {
		task, err := worker.NewInventoryRecalculateTask(productName)
		if err == nil {
			if _, err := h.asynqClient.Enqueue(task, asynq.Queue("critical")); err == nil {
				return nil
			}
		}
	}
	return h.inventory.Recalculate(c.Context(), productName)
}
