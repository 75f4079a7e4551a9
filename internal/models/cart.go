package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ExtraItem is a named add-on with a fixed price. Extras are never
// persisted on their own; they always travel embedded in a cart line,
// a checkout session's metadata, or an order item snapshot.
type ExtraItem struct {
	Name       string `json:"name" validate:"required"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
}

// CartItem is one line of a user's working selection: a product plus
// the chosen extras and a quantity. Key is derived; two lines merge
// (quantity-additive) exactly when their keys are equal.
type CartItem struct {
	Key            string      `json:"key"`
	ProductID      string      `json:"product_id"`
	Name           string      `json:"name"`
	PriceCents     int64       `json:"price_cents"`
	ImageURL       string      `json:"image_url,omitempty"`
	SelectedExtras []ExtraItem `json:"selected_extras"`
	Quantity       int         `json:"quantity"`
}

// CartItemKey builds the composite key for a product + extras selection.
// Extras are canonicalized by sorting on name so selection order never
// produces distinct keys for the same combination.
func CartItemKey(productID string, extras []ExtraItem) string {
	if len(extras) == 0 {
		return productID
	}
	parts := make([]string, len(extras))
	for i, e := range extras {
		parts[i] = fmt.Sprintf("%s:%d", e.Name, e.PriceCents)
	}
	sort.Strings(parts)
	return productID + "|" + strings.Join(parts, ",")
}

// UnitPriceCents is the per-unit price of the line including extras.
func (ci CartItem) UnitPriceCents() int64 {
	price := ci.PriceCents
	for _, e := range ci.SelectedExtras {
		price += e.PriceCents
	}
	return price
}

// Cart is the durable per-user selection. It is advisory only: once a
// checkout session exists, the catalog is the sole price authority.
// UserID is the sole primary key; the save path upserts on it.
type Cart struct {
	UserID    string     `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"serializer:json"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalCents sums unit price (base + extras) times quantity over all lines.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPriceCents() * int64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// SimplifiedCartItem is the minimal trusted subset of a cart line that
// survives the round trip through the payment gateway's metadata channel.
// Display fields are deliberately absent; the webhook re-derives them
// from the catalog.
type SimplifiedCartItem struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Extras    []ExtraItem `json:"extras,omitempty"`
}
