package models

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusProcessing     OrderStatus = "processing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusPaymentFailed  OrderStatus = "payment_failed"
)

// ValidOrderStatus reports whether s is one of the fixed order statuses.
// Any status may follow any status: transitions are a staff override, so
// only the value itself is checked.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusPaymentFailed:
		return true
	}
	return false
}

// ShippingAddress is the delivery address snapshot stored on an order.
type ShippingAddress struct {
	Name       string `json:"name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

// OrderItem is a line item snapshot. Product fields are copied at order
// time so later catalog edits never rewrite order history.
type OrderItem struct {
	ProductID      string      `json:"product_id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	PriceCents     int64       `json:"price_cents"`
	ImageURL       string      `json:"image_url,omitempty"`
	Category       Category    `json:"category"`
	Allergens      []string    `json:"allergens,omitempty"`
	SelectedExtras []ExtraItem `json:"selected_extras,omitempty"`
	Quantity       int         `json:"quantity"`
	UnitPriceCents int64       `json:"unit_price_cents"` // base price + extras, at order time
}

// Order is the authoritative record of a completed purchase. PaymentRef
// is the gateway payment-intent id and doubles as the deduplication key:
// the unique index makes materialization at-most-once even when the
// gateway redelivers a completion event.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem     `json:"items" gorm:"serializer:json"`
	TotalCents      int64           `json:"total_cents"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	PaymentRef      string          `json:"payment_ref" gorm:"uniqueIndex;type:varchar(255)"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	DeliveryLat     *float64        `json:"delivery_lat,omitempty"`
	DeliveryLng     *float64        `json:"delivery_lng,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
