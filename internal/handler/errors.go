package handler

import (
	"errors"

	"po-analytics/internal/analysis"
	"po-analytics/internal/repository"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service and analysis errors onto HTTP responses
func respondError(c *fiber.Ctx, err error) error {
	var validation *analysis.ValidationError
	var empty *analysis.EmptyResultError
	var parse *service.ParseError

	switch {
	case errors.As(err, &validation):
		return utils.ErrorResponseWithData(c, fiber.StatusUnprocessableEntity, "Required column is missing", err, fiber.Map{
			"column":            validation.Column,
			"available_columns": validation.Available,
		})
	case errors.As(err, &empty):
		return utils.ErrorResponseWithData(c, fiber.StatusNotFound, err.Error(), nil, fiber.Map{
			"vendor": empty.Vendor,
		})
	case errors.As(err, &parse):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	case errors.Is(err, repository.ErrSessionNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Upload session not found or expired", nil)
	case errors.Is(err, repository.ErrJobNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Report job not found", nil)
	case errors.Is(err, service.ErrAuditUnavailable), errors.Is(err, service.ErrAccountsUnavailable):
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, err.Error(), nil)
	}

	utils.ComponentLogger("api").WithError(err).WithField("path", c.Path()).Error("Request failed")
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Terjadi kesalahan saat memproses data", err)
}

func currentUserID(c *fiber.Ctx) int {
	if id, ok := c.Locals("user_id").(int); ok {
		return id
	}
	return 0
}

func currentRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("role").(string); ok {
		return role
	}
	return ""
}
