package gateway

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeGateway implements PaymentGateway on Stripe hosted checkout.
type StripeGateway struct {
	currency string
}

// NewStripeGateway configures the Stripe client and returns a gateway.
func NewStripeGateway(apiKey, currency string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{currency: currency}
}

// CreateCheckoutSession creates a payment-mode checkout session with
// per-line dynamic price data. Stripe rejections are surfaced as
// RejectedError with the provider's status and message passed through.
func (g *StripeGateway) CreateCheckoutSession(req SessionRequest) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(item.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		}
		if item.Description != "" {
			lineItem.PriceData.ProductData.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			lineItem.PriceData.ProductData.Images = []*string{stripe.String(item.ImageURL)}
		}
		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Metadata = req.Metadata

	s, err := session.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, &RejectedError{
				StatusCode: stripeErr.HTTPStatusCode,
				Message:    stripeErr.Msg,
			}
		}
		return nil, fmt.Errorf("failed to create stripe checkout session: %w", err)
	}

	return &Session{ID: s.ID, URL: s.URL}, nil
}

// WebhookVerifier authenticates a raw webhook payload against its
// signature header and returns the parsed event.
type WebhookVerifier func(payload []byte, sigHeader string) (stripe.Event, error)

// NewStripeWebhookVerifier returns a verifier bound to the endpoint's
// signing secret.
func NewStripeWebhookVerifier(secret string) WebhookVerifier {
	return func(payload []byte, sigHeader string) (stripe.Event, error) {
		return webhook.ConstructEvent(payload, sigHeader, secret)
	}
}
