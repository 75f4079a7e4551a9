package handlers

import (
	"fmt"

	"pizzeria/internal/middleware"
	"pizzeria/internal/models"
	"pizzeria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service     *services.OrderService
	authService *services.AuthService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, authService *services.AuthService) *OrderHandler {
	return &OrderHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", middleware.AuthRequired(h.authService))
	orderRoutes.Get("/", h.HandleGetOwnOrders)
	orderRoutes.Get("/all", h.HandleGetAllOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/location", h.HandleUpdateDeliveryLocation)
}

// HandleGetOwnOrders retrieves the caller's orders, newest first.
func (h *OrderHandler) HandleGetOwnOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListForUser(middleware.Identity(c))
	if err != nil {
		return respondServiceError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetAllOrders retrieves every order. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(middleware.Identity(c))
	if err != nil {
		return respondServiceError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetByID(middleware.Identity(c), orderID)
	if err != nil {
		return respondServiceError(c, err, fmt.Sprintf("Could not retrieve order %s", orderID))
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.service.SetStatus(middleware.Identity(c), orderID, updateData.Status); err != nil {
		return respondServiceError(c, err, fmt.Sprintf("Could not update status of order %s", orderID))
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}

// HandleUpdateDeliveryLocation stores the live delivery position.
func (h *OrderHandler) HandleUpdateDeliveryLocation(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var loc struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.BodyParser(&loc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for location update",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateDeliveryLocation(middleware.Identity(c), orderID, loc.Lat, loc.Lng); err != nil {
		return respondServiceError(c, err, fmt.Sprintf("Could not update delivery location of order %s", orderID))
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s delivery location updated", orderID),
	})
}
