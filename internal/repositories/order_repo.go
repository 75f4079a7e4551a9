package repositories

import (
	"pizzeria/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// GetByUser returns the user's orders newest-first.
	GetByUser(userID string) ([]models.Order, error)
	// GetByPaymentRef looks an order up by its deduplication key and
	// returns ErrNotFound when no order exists for it.
	GetByPaymentRef(ref string) (*models.Order, error)
	// Create persists a new order. It returns ErrDuplicatePaymentRef
	// when an order with the same payment reference already exists.
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	UpdateDeliveryLocation(id string, lat, lng float64) error
	// Orders are never deleted in normal operation.
}
