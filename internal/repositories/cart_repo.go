package repositories

import (
	"pizzeria/internal/models"
)

// CartRepository defines the interface for the durable per-user cart.
// Cart state is advisory only; checkout re-derives prices from the catalog.
type CartRepository interface {
	// Get returns the user's cart, or an empty cart if none is stored.
	Get(userID string) (*models.Cart, error)
	Save(cart *models.Cart) error
	Delete(userID string) error
}
