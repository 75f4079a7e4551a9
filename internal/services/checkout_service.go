package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"pizzeria/internal/gateway"
	"pizzeria/internal/models"
	"pizzeria/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CheckoutRequest is the client's checkout submission. Prices carried on
// the items are ignored: the service recomputes every amount from the
// catalog before anything reaches the gateway.
type CheckoutRequest struct {
	UserID          string                 `json:"user_id"`
	Items           []models.CartItem      `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
}

// CheckoutSession is the redirect handle returned to the client.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutService turns a cart snapshot into a payment-gateway session
// whose metadata carries enough trusted state for the webhook to rebuild
// the order without the client.
type CheckoutService struct {
	productRepo repositories.ProductRepository
	gw          gateway.PaymentGateway
	baseURL     string
	validate    *validator.Validate
}

// NewCheckoutService creates a new CheckoutService. baseURL is used to
// construct the success and cancel redirect targets.
func NewCheckoutService(productRepo repositories.ProductRepository, gw gateway.PaymentGateway, baseURL string) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		gw:          gw,
		baseURL:     strings.TrimRight(baseURL, "/"),
		validate:    validator.New(),
	}
}

// CreateSession validates the request, prices each line from the catalog
// and opens a hosted checkout session.
func (s *CheckoutService) CreateSession(req CheckoutRequest) (*CheckoutSession, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: item list is empty", ErrInvalidRequest)
	}
	if err := s.validate.Struct(req.ShippingAddress); err != nil {
		return nil, fmt.Errorf("%w: shipping address incomplete: %v", ErrInvalidRequest, err)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %s has non-positive quantity", ErrInvalidRequest, item.ProductID)
		}
	}

	lineItems := make([]gateway.LineItem, 0, len(req.Items))
	simplified := make([]models.SimplifiedCartItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown product %s", ErrInvalidRequest, item.ProductID)
			}
			return nil, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
		}

		unitPrice := product.PriceCents
		for _, extra := range item.SelectedExtras {
			unitPrice += extra.PriceCents
		}

		lineItems = append(lineItems, gateway.LineItem{
			// Extras names on the display name are cosmetic only and
			// must never be parsed back out of the gateway.
			Name:            displayName(product.Name, item.SelectedExtras),
			Description:     product.Description,
			UnitAmountCents: unitPrice,
			Quantity:        int64(item.Quantity),
			ImageURL:        product.ImageURL,
		})
		simplified = append(simplified, models.SimplifiedCartItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Extras:    item.SelectedExtras,
		})
	}

	itemsJSON, err := json.Marshal(simplified)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart items: %w", err)
	}
	addressJSON, err := json.Marshal(req.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	session, err := s.gw.CreateCheckoutSession(gateway.SessionRequest{
		LineItems: lineItems,
		Metadata: map[string]string{
			gateway.MetadataUserID:          req.UserID,
			gateway.MetadataCartItems:       string(itemsJSON),
			gateway.MetadataShippingAddress: string(addressJSON),
		},
		SuccessURL: s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.baseURL + "/cart",
	})
	if err != nil {
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			log.Printf("Checkout session rejected by gateway for user %s: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: %w", ErrGatewayRejected, err)
		}
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

func displayName(name string, extras []models.ExtraItem) string {
	if len(extras) == 0 {
		return name
	}
	names := make([]string, len(extras))
	for i, e := range extras {
		names[i] = e.Name
	}
	return fmt.Sprintf("%s (+ %s)", name, strings.Join(names, ", "))
}
