package flowershop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ucpkit/flowerbridge/internal/infra/eventbus"
	"github.com/ucpkit/flowerbridge/pkg/uuid"
)

// TopicOrderCreated is published on the event bus when a checkout is
// submitted and an order is created.
const TopicOrderCreated = "order.created"

// CheckoutService owns the checkout lifecycle:
// pending → ready_for_complete → completed.
type CheckoutService struct {
	db      *sql.DB
	catalog *CatalogService
	bus     eventbus.EventBus
}

func NewCheckoutService(db *sql.DB, catalog *CatalogService, bus eventbus.EventBus) *CheckoutService {
	return &CheckoutService{db: db, catalog: catalog, bus: bus}
}

// LineItemInput references a product and quantity in a create request.
type LineItemInput struct {
	Item struct {
		ID string `json:"id"`
	} `json:"item"`
	Quantity int `json:"quantity"`
}

// CreateCheckoutInput is the request to open a new checkout session.
type CreateCheckoutInput struct {
	LineItems []LineItemInput `json:"line_items"`
	Buyer     json.RawMessage `json:"buyer"`
	Currency  string          `json:"currency"`
}

// Create opens a checkout session, pricing each known line item.
// References to unknown products are skipped; an in-catalog product that
// is out of stock fails the whole request.
func (s *CheckoutService) Create(ctx context.Context, in CreateCheckoutInput) (*Checkout, error) {
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	items := make([]LineItem, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		product, err := s.catalog.Get(ctx, li.Item.ID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.InStock {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.ID)
		}

		quantity := li.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		itemTotal := product.Price.Amount * float64(quantity)
		items = append(items, LineItem{
			ID: uuid.NewV7().String(),
			Item: LineItemRef{
				ID:    product.ID,
				Title: product.Title,
				Price: product.Price.Amount,
			},
			Quantity: quantity,
			Totals: []Total{
				{Type: "subtotal", Amount: itemTotal},
				{Type: "total", Amount: itemTotal},
			},
		})
	}

	buyer := in.Buyer
	if len(buyer) == 0 || string(buyer) == "null" {
		buyer = json.RawMessage(`{}`)
	}

	checkout := &Checkout{
		ID:        uuid.NewV7().String(),
		Status:    StatusPending,
		Currency:  currency,
		LineItems: items,
		Buyer:     buyer,
		Discounts: Discounts{Codes: []string{}, Applied: []AppliedDiscount{}},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	checkout.Totals = computeTotals(checkout)

	if err := s.insert(ctx, checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

// Get returns the checkout with the given id, or ErrCheckoutNotFound.
func (s *CheckoutService) Get(ctx context.Context, id string) (*Checkout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, currency, buyer, line_items, totals, discounts,
		       fulfillment, order_id, created_at
		FROM checkout
		WHERE id = ?
	`, id)

	checkout, err := scanCheckout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCheckoutNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return checkout, nil
}

// UpdateCheckoutInput carries the updatable pieces of a checkout session.
type UpdateCheckoutInput struct {
	Fulfillment json.RawMessage `json:"fulfillment"`
	Discount    *struct {
		Codes []string `json:"codes"`
	} `json:"discount"`
}

// Update applies fulfillment and/or discount codes, recomputes totals,
// and moves the session to ready_for_complete.
func (s *CheckoutService) Update(ctx context.Context, id string, in UpdateCheckoutInput) (*Checkout, error) {
	checkout, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(in.Fulfillment) > 0 && string(in.Fulfillment) != "null" {
		checkout.Fulfillment = in.Fulfillment
	}
	if in.Discount != nil {
		checkout.Discounts = applyDiscountCodes(in.Discount.Codes, subtotalOf(checkout))
	}

	checkout.Status = StatusReadyForComplete
	checkout.Totals = computeTotals(checkout)

	if err := s.save(ctx, checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

// Submit finalizes the checkout into an order. The payment payload is
// accepted and echoed as captured; this is a demo shop, nothing is charged.
func (s *CheckoutService) Submit(ctx context.Context, id string, _ json.RawMessage) (*Order, error) {
	checkout, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:          "ORD-" + uuid.NewV7().Short(),
		Status:      StatusConfirmed,
		CheckoutID:  checkout.ID,
		LineItems:   checkout.LineItems,
		Buyer:       checkout.Buyer,
		Totals:      checkout.Totals,
		Fulfillment: checkout.Fulfillment,
		Payment:     Payment{Status: "captured", Method: "mock_payment"},
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("checkout submit: encode order: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO shop_order (id, checkout_id, status, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, order.ID, order.CheckoutID, order.Status, string(payload), order.CreatedAt); err != nil {
		return nil, fmt.Errorf("checkout submit: insert order: %w", err)
	}

	checkout.Status = StatusCompleted
	checkout.OrderID = order.ID
	if err := s.save(ctx, checkout); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(TopicOrderCreated, order.ID)
	}
	return order, nil
}

// ===== TOTALS =====

// subtotalOf sums the line item subtotals.
func subtotalOf(c *Checkout) float64 {
	var subtotal float64
	for _, item := range c.LineItems {
		for _, t := range item.Totals {
			if t.Type == "subtotal" {
				subtotal += t.Amount
			}
		}
	}
	return subtotal
}

// computeTotals derives the totals breakdown from the session state:
// subtotal, flat shipping once fulfillment is set, applied discounts,
// and the resulting total.
func computeTotals(c *Checkout) []Total {
	subtotal := subtotalOf(c)

	var shipping float64
	if len(c.Fulfillment) > 0 && string(c.Fulfillment) != "null" {
		shipping = FlatShippingCost
	}

	var discount float64
	for _, applied := range c.Discounts.Applied {
		discount += applied.Amount
	}

	totals := []Total{{Type: "subtotal", Amount: subtotal}}
	if shipping > 0 {
		totals = append(totals, Total{Type: "shipping", Amount: shipping})
	}
	if discount > 0 {
		totals = append(totals, Total{Type: "discount", Amount: discount})
	}
	totals = append(totals, Total{Type: "total", Amount: subtotal + shipping - discount})
	return totals
}

// applyDiscountCodes resolves the requested codes against the known
// discount table. Unknown codes are ignored.
func applyDiscountCodes(codes []string, subtotal float64) Discounts {
	applied := make([]AppliedDiscount, 0, len(codes))
	for _, code := range codes {
		normalized := strings.ToUpper(code)
		disc, ok := discountCodes[normalized]
		if !ok {
			continue
		}
		amount := disc.Amount
		if disc.Percent > 0 {
			amount = subtotal * disc.Percent / 100
		}
		applied = append(applied, AppliedDiscount{
			Code:   normalized,
			Title:  disc.Title,
			Amount: amount,
		})
	}
	return Discounts{Codes: codes, Applied: applied}
}

// ===== PERSISTENCE =====

func (s *CheckoutService) insert(ctx context.Context, c *Checkout) error {
	lineItems, totals, discounts, err := marshalCheckoutColumns(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout (
			id, status, currency, buyer, line_items, totals, discounts,
			fulfillment, order_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.Status, c.Currency, string(c.Buyer), lineItems, totals, discounts,
		nullableJSON(c.Fulfillment), nullableString(c.OrderID), c.CreatedAt, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("checkout insert: %w", err)
	}
	return nil
}

func (s *CheckoutService) save(ctx context.Context, c *Checkout) error {
	lineItems, totals, discounts, err := marshalCheckoutColumns(c)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		UPDATE checkout
		SET status = ?, buyer = ?, line_items = ?, totals = ?, discounts = ?,
		    fulfillment = ?, order_id = ?, updated_at = ?
		WHERE id = ?
	`,
		c.Status, string(c.Buyer), lineItems, totals, discounts,
		nullableJSON(c.Fulfillment), nullableString(c.OrderID), now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("checkout save: %w", err)
	}
	return nil
}

func marshalCheckoutColumns(c *Checkout) (lineItems, totals, discounts string, err error) {
	lineItemsRaw, err := json.Marshal(c.LineItems)
	if err != nil {
		return "", "", "", fmt.Errorf("checkout marshal line items: %w", err)
	}
	totalsRaw, err := json.Marshal(c.Totals)
	if err != nil {
		return "", "", "", fmt.Errorf("checkout marshal totals: %w", err)
	}
	discountsRaw, err := json.Marshal(c.Discounts)
	if err != nil {
		return "", "", "", fmt.Errorf("checkout marshal discounts: %w", err)
	}
	return string(lineItemsRaw), string(totalsRaw), string(discountsRaw), nil
}

type checkoutScanner interface {
	Scan(dest ...any) error
}

func scanCheckout(scan checkoutScanner) (*Checkout, error) {
	var (
		c              Checkout
		buyerRaw       string
		lineItemsRaw   string
		totalsRaw      string
		discountsRaw   string
		fulfillmentRaw sql.NullString
		orderIDRaw     sql.NullString
	)
	if err := scan.Scan(
		&c.ID,
		&c.Status,
		&c.Currency,
		&buyerRaw,
		&lineItemsRaw,
		&totalsRaw,
		&discountsRaw,
		&fulfillmentRaw,
		&orderIDRaw,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}

	c.Buyer = json.RawMessage(buyerRaw)
	if err := json.Unmarshal([]byte(lineItemsRaw), &c.LineItems); err != nil {
		return nil, fmt.Errorf("checkout scan line items: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsRaw), &c.Totals); err != nil {
		return nil, fmt.Errorf("checkout scan totals: %w", err)
	}
	if err := json.Unmarshal([]byte(discountsRaw), &c.Discounts); err != nil {
		return nil, fmt.Errorf("checkout scan discounts: %w", err)
	}
	if fulfillmentRaw.Valid {
		c.Fulfillment = json.RawMessage(fulfillmentRaw.String)
	}
	if orderIDRaw.Valid {
		c.OrderID = orderIDRaw.String
	}
	return &c, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
