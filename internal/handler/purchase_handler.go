package handler

import (
	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/middleware"
	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type PurchaseHandler struct {
	composer    *service.ComposerService
	productName string
}

func NewPurchaseHandler(composer *service.ComposerService, productName string) *PurchaseHandler {
	return &PurchaseHandler{composer: composer, productName: productName}
}

func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var req models.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	entries, err := h.composer.RecordPurchase(c.Context(), req, h.productName, middleware.ActorFrom(c))
	if err != nil {
		return serviceError(c, "Failed to record purchase", err)
	}
	return utils.SuccessResponse(c, "Purchase recorded successfully", entries)
}
