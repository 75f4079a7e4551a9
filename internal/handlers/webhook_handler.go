package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"pizzeria/internal/gateway"
	"pizzeria/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v80"
)

// WebhookHandler receives payment-completion callbacks from Stripe and
// feeds verified events into the order materializer.
type WebhookHandler struct {
	materializer *services.MaterializerService
	verify       gateway.WebhookVerifier
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(materializer *services.MaterializerService, verify gateway.WebhookVerifier) *WebhookHandler {
	return &WebhookHandler{
		materializer: materializer,
		verify:       verify,
	}
}

// RegisterRoutes registers the webhook routes with the Fiber app. The
// endpoint is unauthenticated at the HTTP layer; authenticity comes from
// the signature check against the shared signing secret.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	webhookRoutes := router.Group("/webhooks")
	webhookRoutes.Post("/stripe", h.HandleStripeEvent)
}

// HandleStripeEvent verifies and dispatches one webhook delivery.
// Signature verification runs before any parsing; a failure rejects the
// request with no side effects.
func (h *WebhookHandler) HandleStripeEvent(c *fiber.Ctx) error {
	event, err := h.verify(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": services.ErrSignatureInvalid.Error(),
		})
	}

	switch event.Type {
	case "checkout.session.completed":
		// A signed event can still arrive without a data envelope.
		if event.Data == nil {
			log.Printf("Event %s carries no data payload", event.ID)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "undecodable event payload",
			})
		}
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("Failed to decode checkout session from event %s: %v", event.ID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "undecodable event payload",
			})
		}
		return h.materialize(c, paymentEventFromSession(&session))

	case "payment_intent.succeeded", "payment_intent.payment_failed":
		// No order-creation obligation; logged for observability.
		h.materializer.HandleIgnoredEvent(string(event.Type), paymentRefFromIntent(event))
		return c.JSON(fiber.Map{"received": true})

	default:
		log.Printf("Ignoring unexpected webhook event type %s", event.Type)
		return c.JSON(fiber.Map{"received": true})
	}
}

func (h *WebhookHandler) materialize(c *fiber.Ctx, payment gateway.PaymentEvent) error {
	order, err := h.materializer.HandleCompletedPayment(payment)
	if err != nil {
		if errors.Is(err, services.ErrMissingMetadata) {
			// Acknowledged so the gateway stops retrying; the failure is
			// logged for manual reconciliation since no retry can supply
			// the missing data.
			log.Printf("Completion event for payment %s unprocessable: %v", payment.PaymentRef, err)
			return c.JSON(fiber.Map{"received": true})
		}
		// Product resolution and persistence failures report failure so
		// the gateway's retry mechanism is the recovery path.
		log.Printf("Failed to materialize order for payment %s: %v", payment.PaymentRef, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("Materialized order %s for payment %s", order.ID, payment.PaymentRef)
	return c.JSON(fiber.Map{"received": true})
}

func paymentEventFromSession(session *stripe.CheckoutSession) gateway.PaymentEvent {
	ref := session.ID
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		ref = session.PaymentIntent.ID
	}
	return gateway.PaymentEvent{
		PaymentRef:       ref,
		AmountTotalCents: session.AmountTotal,
		Metadata:         session.Metadata,
	}
}

func paymentRefFromIntent(event stripe.Event) string {
	if event.Data == nil {
		return ""
	}
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return ""
	}
	return intent.ID
}
