package handlers

import (
	"log"

	"pizzeria/internal/middleware"
	"pizzeria/internal/models"
	"pizzeria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the user's cart.
type CartHandler struct {
	service     *services.CartService
	authService *services.AuthService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, authService *services.AuthService) *CartHandler {
	return &CartHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", middleware.AuthRequired(h.authService))
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:key", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:key", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

func cartResponse(cart *models.Cart) fiber.Map {
	return fiber.Map{
		"cart":        cart,
		"total_cents": cart.TotalCents(),
		"item_count":  cart.ItemCount(),
	}
}

// HandleGetCart returns the caller's cart with its total and item count.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	cart, err := h.service.Get(identity.UserID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", identity.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(cartResponse(cart))
}

// AddItemRequest represents the request body for adding a cart line.
type AddItemRequest struct {
	ProductID string             `json:"product_id"`
	Extras    []models.ExtraItem `json:"extras"`
}

// HandleAddItem adds one unit of a product + extras selection.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	cart, err := h.service.AddItem(identity.UserID, req.ProductID, req.Extras)
	if err != nil {
		return respondServiceError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(cartResponse(cart))
}

// HandleSetQuantity replaces a line's quantity. Zero or below removes it.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	key := c.Params("key")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	cart, err := h.service.SetQuantity(identity.UserID, key, req.Quantity)
	if err != nil {
		return respondServiceError(c, err, "Could not update cart item")
	}
	return c.JSON(cartResponse(cart))
}

// HandleRemoveItem deletes a cart line unconditionally.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	cart, err := h.service.Remove(identity.UserID, c.Params("key"))
	if err != nil {
		return respondServiceError(c, err, "Could not remove cart item")
	}
	return c.JSON(cartResponse(cart))
}

// HandleClearCart empties the caller's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if err := h.service.Clear(identity.UserID); err != nil {
		return respondServiceError(c, err, "Could not clear cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
