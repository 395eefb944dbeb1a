// Package flowershop implements the mock UCP commerce service the bridge
// talks to: a small flower-shop REST API with a seeded catalog, checkout
// sessions, and orders, backed by SQLite.
package flowershop

import (
	"encoding/json"
	"errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOutOfStock       = errors.New("out of stock")
)

// Checkout lifecycle statuses.
const (
	StatusPending          = "pending"
	StatusReadyForComplete = "ready_for_complete"
	StatusCompleted        = "completed"
	StatusConfirmed        = "confirmed"
)

// FlatShippingCost is charged once a fulfillment destination is set.
const FlatShippingCost = 5.99

// Money is an amount in a currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Product is a catalog entry.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
	ImageURL    string `json:"image_url"`
	InStock     bool   `json:"in_stock"`
}

// Total is one component of a checkout/order totals breakdown.
type Total struct {
	Type   string  `json:"type"` // "subtotal" | "shipping" | "discount" | "total"
	Amount float64 `json:"amount"`
}

// LineItemRef identifies the purchased product inside a line item.
type LineItemRef struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// LineItem is one priced entry of a checkout.
type LineItem struct {
	ID       string      `json:"id"`
	Item     LineItemRef `json:"item"`
	Quantity int         `json:"quantity"`
	Totals   []Total     `json:"totals"`
}

// AppliedDiscount records one successfully applied discount code.
type AppliedDiscount struct {
	Code   string  `json:"code"`
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

// Discounts carries the requested codes and what was actually applied.
type Discounts struct {
	Codes   []string          `json:"codes"`
	Applied []AppliedDiscount `json:"applied"`
}

// Checkout is a purchase session. Buyer and Fulfillment are opaque to the
// shop's logic beyond presence checks and are echoed back verbatim.
type Checkout struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	LineItems   []LineItem      `json:"line_items"`
	Buyer       json.RawMessage `json:"buyer"`
	Totals      []Total         `json:"totals"`
	Discounts   Discounts       `json:"discounts"`
	Fulfillment json.RawMessage `json:"fulfillment"`
	OrderID     string          `json:"order_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// Payment is the captured payment summary attached to an order.
type Payment struct {
	Status string `json:"status"`
	Method string `json:"method"`
}

// Order is a finalized checkout.
type Order struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	CheckoutID  string          `json:"checkout_id"`
	LineItems   []LineItem      `json:"line_items"`
	Buyer       json.RawMessage `json:"buyer"`
	Totals      []Total         `json:"totals"`
	Fulfillment json.RawMessage `json:"fulfillment"`
	Payment     Payment         `json:"payment"`
	CreatedAt   string          `json:"created_at"`
}

// discountCode describes either a percentage or a fixed-amount discount.
type discountCode struct {
	Title   string
	Percent float64
	Amount  float64
}

// discountCodes are the demo codes accepted at checkout.
var discountCodes = map[string]discountCode{
	"10OFF":     {Title: "10% Off", Percent: 10},
	"FLOWERS20": {Title: "20% Off Flowers", Percent: 20},
	"FREESHIP":  {Title: "Free Shipping", Amount: 5.99},
}
