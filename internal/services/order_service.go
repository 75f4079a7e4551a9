package services

import (
	"encoding/json"
	"fmt"
	"log"

	"pizzeria/internal/models"
	"pizzeria/internal/repositories"
)

// OrderService exposes the read path over materialized orders and the
// administrative status-transition operation. The caller's identity is
// an explicit parameter on every operation.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// ListForUser retrieves the caller's own orders, newest first.
func (s *OrderService) ListForUser(identity models.Identity) ([]models.Order, error) {
	return s.orderRepo.GetByUser(identity.UserID)
}

// ListAll retrieves every order. Admin only.
func (s *OrderService) ListAll(identity models.Identity) ([]models.Order, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.orderRepo.GetAll()
}

// GetByID retrieves a single order; customers may only read their own.
func (s *OrderService) GetByID(identity models.Identity, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && order.UserID != identity.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

// SetStatus overwrites an order's status. Admin only. The status value
// is validated against the enumeration, but any status may follow any
// status: transitions are a deliberate staff override.
func (s *OrderService) SetStatus(identity models.Identity, orderID string, status models.OrderStatus) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: invalid order status: %s", ErrInvalidRequest, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
	}

	s.publishStatusChanged(orderID, status)
	return nil
}

// UpdateDeliveryLocation stores the live delivery position. Admin only.
func (s *OrderService) UpdateDeliveryLocation(identity models.Identity, orderID string, lat, lng float64) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if err := s.orderRepo.UpdateDeliveryLocation(orderID, lat, lng); err != nil {
		return fmt.Errorf("failed to update delivery location for order %s: %w", orderID, err)
	}
	return nil
}

func (s *OrderService) publishStatusChanged(orderID string, status models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	if err != nil {
		log.Printf("Failed to marshal status changed event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.status_changed", body); err != nil {
		log.Printf("Warning: failed to publish status changed event for order %s: %v", orderID, err)
	}
}
