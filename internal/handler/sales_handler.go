package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/middleware"
	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type SalesHandler struct {
	composer *service.ComposerService
}

func NewSalesHandler(composer *service.ComposerService) *SalesHandler {
	return &SalesHandler{composer: composer}
}

func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var req models.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date", err)
	}

	sale, err := h.composer.RecordCashSale(c.Context(), date, req.Items, middleware.ActorFrom(c))
	if err != nil {
		return serviceError(c, "Failed to record sale", err)
	}
	return utils.SuccessResponse(c, "Sale recorded successfully", sale)
}

func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	sales, total, err := h.composer.Sales(c.Context(), params.Limit, utils.GetOffset(params.Page, params.Limit))
	if err != nil {
		return serviceError(c, "Failed to retrieve sales", err)
	}
	return utils.SuccessResponse(c, "Sales retrieved successfully", fiber.Map{
		"sales":      sales,
		"pagination": utils.CalculatePagination(params.Page, params.Limit, int64(total)),
	})
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	sale, err := h.composer.Sale(c.Context(), c.Params("code"))
	if err != nil {
		return serviceError(c, "Sale not found", err)
	}
	return utils.SuccessResponse(c, "Sale retrieved successfully", sale)
}

func (h *SalesHandler) DeleteSale(c *fiber.Ctx) error {
	if err := h.composer.DeleteSale(c.Context(), c.Params("code")); err != nil {
		return serviceError(c, "Failed to delete sale", err)
	}
	return utils.SuccessResponse(c, "Sale deleted successfully", nil)
}
