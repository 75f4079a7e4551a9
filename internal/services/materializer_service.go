package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"pizzeria/internal/gateway"
	"pizzeria/internal/models"
	"pizzeria/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes order events to the message broker. Satisfied
// by *rabbitmq.Client; a nil-safe no-op is acceptable in tests.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// totalMismatchEpsilonCents is the tolerated drift between the
// recomputed order total and the amount the gateway charged. The
// recomputed total is authoritative for the persisted order; drift
// beyond the epsilon is a reconciliation signal, not a failure, because
// the charge is already final by the time the webhook arrives.
const totalMismatchEpsilonCents = 1

// MaterializerService turns verified payment-completion events into
// persisted orders, exactly once per payment reference. All monetary
// amounts are recomputed from the catalog; client-declared prices never
// reach storage.
type MaterializerService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewMaterializerService creates a new MaterializerService.
func NewMaterializerService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *MaterializerService {
	return &MaterializerService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// HandleCompletedPayment materializes one order from a completion event.
// The steps run strictly in order: metadata extraction, dedup check,
// product resolution, recomputation, persistence. The dedup check comes
// before any mutating step so at-least-once delivery stays at-most-once
// creation; the unique index on the payment reference closes the
// remaining check-then-act window.
func (s *MaterializerService) HandleCompletedPayment(event gateway.PaymentEvent) (*models.Order, error) {
	userID, items, address, err := extractMetadata(event.Metadata)
	if err != nil {
		return nil, err
	}

	// Idempotency check: a prior delivery already produced the order.
	if existing, err := s.orderRepo.GetByPaymentRef(event.PaymentRef); err == nil {
		log.Printf("Duplicate completion event for payment %s, order %s already exists", event.PaymentRef, existing.ID)
		return existing, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: dedup lookup failed: %v", ErrPersistenceFailure, err)
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	var totalCents int64
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// No partial order: the whole materialization aborts so
				// the gateway retries and the mismatch gets investigated.
				return nil, fmt.Errorf("%w: product %s referenced by payment %s", ErrProductNotFound, item.ProductID, event.PaymentRef)
			}
			return nil, fmt.Errorf("%w: product lookup failed: %v", ErrPersistenceFailure, err)
		}

		unitPrice := product.PriceCents
		for _, extra := range item.Extras {
			unitPrice += extra.PriceCents
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:      product.ID,
			Name:           product.Name,
			Description:    product.Description,
			PriceCents:     product.PriceCents,
			ImageURL:       product.ImageURL,
			Category:       product.Category,
			Allergens:      product.Allergens,
			SelectedExtras: item.Extras,
			Quantity:       item.Quantity,
			UnitPriceCents: unitPrice,
		})
		totalCents += unitPrice * int64(item.Quantity)
	}

	if diff := totalCents - event.AmountTotalCents; diff > totalMismatchEpsilonCents || diff < -totalMismatchEpsilonCents {
		log.Printf("Warning: recomputed total %d does not match charged amount %d for payment %s", totalCents, event.AmountTotalCents, event.PaymentRef)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           orderItems,
		TotalCents:      totalCents,
		ShippingAddress: *address,
		PaymentRef:      event.PaymentRef,
		Status:          models.StatusPending,
	}

	if err := s.orderRepo.Create(order); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePaymentRef) {
			// Lost the race against a concurrent delivery; the other
			// write won and this one is an idempotent success.
			existing, lookupErr := s.orderRepo.GetByPaymentRef(event.PaymentRef)
			if lookupErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, lookupErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.publishCreated(order)
	return order, nil
}

// HandleIgnoredEvent logs event types this handler carries no
// order-creation obligation for.
func (s *MaterializerService) HandleIgnoredEvent(eventType, paymentRef string) {
	log.Printf("Ignoring %s event for payment %s", eventType, paymentRef)
}

func extractMetadata(metadata map[string]string) (string, []models.SimplifiedCartItem, *models.ShippingAddress, error) {
	userID := metadata[gateway.MetadataUserID]
	itemsJSON := metadata[gateway.MetadataCartItems]
	addressJSON := metadata[gateway.MetadataShippingAddress]
	if userID == "" || itemsJSON == "" || addressJSON == "" {
		return "", nil, nil, fmt.Errorf("%w: want user id, cart items and shipping address", ErrMissingMetadata)
	}

	var items []models.SimplifiedCartItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return "", nil, nil, fmt.Errorf("%w: cart items undecodable: %v", ErrMissingMetadata, err)
	}
	if len(items) == 0 {
		return "", nil, nil, fmt.Errorf("%w: cart items empty", ErrMissingMetadata)
	}
	var address models.ShippingAddress
	if err := json.Unmarshal([]byte(addressJSON), &address); err != nil {
		return "", nil, nil, fmt.Errorf("%w: shipping address undecodable: %v", ErrMissingMetadata, err)
	}
	return userID, items, &address, nil
}

func (s *MaterializerService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"status":      order.Status,
		"total_cents": order.TotalCents,
		"payment_ref": order.PaymentRef,
	})
	if err != nil {
		log.Printf("Failed to marshal order created event: %v", err)
		return
	}
	if err := s.publisher.Publish("order.created", body); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
}
