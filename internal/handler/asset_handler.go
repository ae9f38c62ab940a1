package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/models"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type AssetHandler struct {
	depreciation *service.DepreciationService
}

func NewAssetHandler(depreciation *service.DepreciationService) *AssetHandler {
	return &AssetHandler{depreciation: depreciation}
}

func (h *AssetHandler) CreateAsset(c *fiber.Ctx) error {
	var req models.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	asset, err := h.depreciation.CreateAsset(c.Context(), req)
	if err != nil {
		return serviceError(c, "Failed to create asset", err)
	}
	return utils.SuccessResponse(c, "Asset created successfully", asset)
}

func (h *AssetHandler) GetAssets(c *fiber.Ctx) error {
	assets, err := h.depreciation.List(c.Context())
	if err != nil {
		return serviceError(c, "Failed to retrieve assets", err)
	}
	return utils.SuccessResponse(c, "Assets retrieved successfully", assets)
}

func (h *AssetHandler) GetAsset(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid asset ID", err)
	}

	asset, err := h.depreciation.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, "Asset not found", err)
	}
	return utils.SuccessResponse(c, "Asset retrieved successfully", asset)
}

func (h *AssetHandler) DeleteAsset(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid asset ID", err)
	}

	deleted, err := h.depreciation.DeleteAsset(c.Context(), id)
	if err != nil {
		return serviceError(c, "Failed to delete asset", err)
	}
	return utils.SuccessResponse(c, "Asset deleted successfully", fiber.Map{
		"entries_removed": deleted,
	})
}

type depreciationRequest struct {
	Period     int    `json:"period"`
	PeriodType string `json:"period_type"`
	PeriodDate string `json:"period_date"`
}

func (h *AssetHandler) ComputeDepreciation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid asset ID", err)
	}

	period, _ := strconv.Atoi(c.Query("period", "1"))
	periodType := c.Query("period_type", models.PeriodAnnual)

	asset, err := h.depreciation.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, "Asset not found", err)
	}
	amount, err := h.depreciation.Compute(asset, period, periodType)
	if err != nil {
		return serviceError(c, "Failed to compute depreciation", err)
	}
	return utils.SuccessResponse(c, "Depreciation computed successfully", fiber.Map{
		"asset_id":    asset.ID,
		"period":      period,
		"period_type": periodType,
		"amount":      amount,
		"formatted":   utils.FormatRupiah(amount),
	})
}

func (h *AssetHandler) PostDepreciation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid asset ID", err)
	}

	var req depreciationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	periodDate, err := time.Parse("2006-01-02", req.PeriodDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid period_date", err)
	}

	asset, amount, err := h.depreciation.ComputeAndPost(c.Context(), id, req.Period, req.PeriodType, periodDate)
	if err != nil {
		return serviceError(c, "Failed to post depreciation", err)
	}
	return utils.SuccessResponse(c, "Depreciation posted successfully", fiber.Map{
		"asset":    asset,
		"amount":   amount,
		"ref_code": service.DepreciationRefCode(asset.ID, periodDate),
	})
}
