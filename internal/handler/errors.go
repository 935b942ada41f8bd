package handler

import (
	"errors"

	"go-stocktrack/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// statusFromError maps the domain error taxonomy onto HTTP statuses.
func statusFromError(err error) int {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrCategoryInUse):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFromError(err)).JSON(fiber.Map{"error": err.Error()})
}
