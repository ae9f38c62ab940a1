package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

// serviceError maps the service error taxonomy onto HTTP statuses:
// validation 400, not found 404, duplicate 409, anything else 500.
func serviceError(c *fiber.Ctx, message string, err error) error {
	switch {
	case service.IsValidation(err):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	case errors.Is(err, service.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, service.ErrDuplicate):
		return utils.ErrorResponse(c, fiber.StatusConflict, message, err)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
	}
}

// parseDateQuery reads an optional yyyy-mm-dd query parameter.
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
