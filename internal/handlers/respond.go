package handlers

import (
	"errors"
	"log"

	"pizzeria/internal/repositories"
	"pizzeria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps service-layer errors onto HTTP responses the
// same way across handlers.
func respondServiceError(c *fiber.Ctx, err error, message string) error {
	log.Printf("%s: %v", message, err)
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin role required",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
