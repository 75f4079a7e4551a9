package handlers

import (
	"errors"
	"log"

	"pizzeria/internal/gateway"
	"pizzeria/internal/middleware"
	"pizzeria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout session creation.
type CheckoutHandler struct {
	service     *services.CheckoutService
	authService *services.AuthService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, authService *services.AuthService) *CheckoutHandler {
	return &CheckoutHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout", middleware.AuthRequired(h.authService))
	checkoutRoutes.Post("/session", h.HandleCreateSession)
}

// HandleCreateSession creates a payment-gateway session for the caller's
// cart snapshot and returns the redirect handle.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	// The authenticated identity owns the session, whatever the body says.
	req.UserID = identity.UserID

	session, err := h.service.CreateSession(req)
	if err != nil {
		log.Printf("Error creating checkout session for user %s: %v", identity.UserID, err)
		if errors.Is(err, services.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, services.ErrGatewayRejected) {
			status := fiber.StatusInternalServerError
			var rejected *gateway.RejectedError
			if errors.As(err, &rejected) && rejected.StatusCode != 0 {
				status = rejected.StatusCode
			}
			return c.Status(status).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(session)
}
