package gateway

import "fmt"

// LineItem is one display line of a checkout session. The unit amount is
// in minor units and already includes the price of any selected extras.
type LineItem struct {
	Name            string
	Description     string
	UnitAmountCents int64
	Quantity        int64
	ImageURL        string
}

// SessionRequest describes a hosted checkout session to be created at
// the payment provider. Metadata is the opaque channel that survives to
// the asynchronous completion callback; it must carry everything the
// webhook needs to rebuild the order without trusting the client.
type SessionRequest struct {
	LineItems  []LineItem
	Metadata   map[string]string
	SuccessURL string
	CancelURL  string
}

// Session is the handle the client is redirected to.
type Session struct {
	ID  string
	URL string
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(req SessionRequest) (*Session, error)
}

// PaymentEvent is a verified payment-completion notification, reduced to
// the fields the order materializer consumes. PaymentRef is the
// provider's payment-intent id and serves as the order dedup key.
type PaymentEvent struct {
	PaymentRef       string
	AmountTotalCents int64
	Metadata         map[string]string
}

// Metadata keys used on checkout sessions.
const (
	MetadataUserID          = "user_id"
	MetadataCartItems       = "cart_items"
	MetadataShippingAddress = "shipping_address"
)

// RejectedError carries a gateway-side rejection through to the caller
// with the provider's own status code and message.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment gateway rejected request (status %d): %s", e.StatusCode, e.Message)
}
