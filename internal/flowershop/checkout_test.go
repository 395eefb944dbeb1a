package flowershop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ucpkit/flowerbridge/internal/infra/eventbus"
)

func newCheckoutService(t *testing.T, db *sql.DB, bus eventbus.EventBus) *CheckoutService {
	t.Helper()
	return NewCheckoutService(db, NewCatalogService(db), bus)
}

func createInput(ids ...string) CreateCheckoutInput {
	var in CreateCheckoutInput
	for _, id := range ids {
		var li LineItemInput
		li.Item.ID = id
		li.Quantity = 1
		in.LineItems = append(in.LineItems, li)
	}
	return in
}

func totalOfType(totals []Total, typ string) (float64, bool) {
	for _, t := range totals {
		if t.Type == typ {
			return t.Amount, true
		}
	}
	return 0, false
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCheckoutCreate_PricesLineItems(t *testing.T) {
	t.Parallel()

	svc := newCheckoutService(t, newTestDB(t), nil)

	in := createInput("bouquet_roses", "tulips_mixed")
	in.LineItems[1].Quantity = 2

	checkout, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if checkout.Status != StatusPending {
		t.Errorf("status = %q, want %q", checkout.Status, StatusPending)
	}
	if checkout.Currency != "USD" {
		t.Errorf("currency = %q, want USD", checkout.Currency)
	}
	if len(checkout.LineItems) != 2 {
		t.Fatalf("len(line_items) = %d, want 2", len(checkout.LineItems))
	}

	// 35.00 + 2*28.00
	subtotal, ok := totalOfType(checkout.Totals, "subtotal")
	if !ok || !almostEqual(subtotal, 91.00) {
		t.Errorf("subtotal = %.2f, want 91.00", subtotal)
	}
	total, ok := totalOfType(checkout.Totals, "total")
	if !ok || !almostEqual(total, 91.00) {
		t.Errorf("total = %.2f, want 91.00 (no shipping before fulfillment)", total)
	}
	if _, ok := totalOfType(checkout.Totals, "shipping"); ok {
		t.Error("shipping charged before a fulfillment destination was set")
	}
}

func TestCheckoutCreate_SkipsUnknownProducts(t *testing.T) {
	t.Parallel()

	svc := newCheckoutService(t, newTestDB(t), nil)

	checkout, err := svc.Create(context.Background(), createInput("no_such_flower", "peace_lily"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(checkout.LineItems) != 1 {
		t.Fatalf("len(line_items) = %d, want 1", len(checkout.LineItems))
	}
	if checkout.LineItems[0].Item.ID != "peace_lily" {
		t.Errorf("line item = %q, want peace_lily", checkout.LineItems[0].Item.ID)
	}
}

func TestCheckoutCreate_DefaultsQuantityToOne(t *testing.T) {
	t.Parallel()

	svc := newCheckoutService(t, newTestDB(t), nil)

	in := createInput("pothos_golden")
	in.LineItems[0].Quantity = 0

	checkout, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q := checkout.LineItems[0].Quantity; q != 1 {
		t.Errorf("quantity = %d, want 1", q)
	}
}

func TestCheckoutCreate_OutOfStockFails(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if _, err := db.Exec("UPDATE product SET in_stock = 0 WHERE id = ?", "orchid_white"); err != nil {
		t.Fatalf("mark out of stock: %v", err)
	}
	svc := newCheckoutService(t, db, nil)

	_, err := svc.Create(context.Background(), createInput("orchid_white"))
	if !errors.Is(err, ErrOutOfStock) {
		t.Errorf("err = %v, want ErrOutOfStock", err)
	}
}

func TestCheckoutUpdate_FulfillmentAddsShipping(t *testing.T) {
	t.Parallel()

	svc := newCheckoutService(t, newTestDB(t), nil)

	checkout, err := svc.Create(context.Background(), createInput("sunflower_bunch"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), checkout.ID, UpdateCheckoutInput{
		Fulfillment: json.RawMessage(`{"expectations":[{"method_type":"shipping","destination":{"city":"Portland"}}]}`),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Status != StatusReadyForComplete {
		t.Errorf("status = %q, want %q", updated.Status, StatusReadyForComplete)
	}
	shipping, ok := totalOfType(updated.Totals, "shipping")
	if !ok || !almostEqual(shipping, FlatShippingCost) {
		t.Errorf("shipping = %.2f, want %.2f", shipping, FlatShippingCost)
	}
	total, _ := totalOfType(updated.Totals, "total")
	if !almostEqual(total, 25.00+FlatShippingCost) {
		t.Errorf("total = %.2f, want %.2f", total, 25.00+FlatShippingCost)
	}
}

func TestCheckoutUpdate_DiscountCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		codes        []string
		wantDiscount float64
		wantApplied  int
	}{
		{"percent code", []string{"10OFF"}, 3.50, 1},
		{"bigger percent code", []string{"flowers20"}, 7.00, 1},
		{"fixed amount code", []string{"FREESHIP"}, 5.99, 1},
		{"unknown code ignored", []string{"BOGUS"}, 0, 0},
		{"stacked codes", []string{"10OFF", "FREESHIP"}, 3.50 + 5.99, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newCheckoutService(t, newTestDB(t), nil)

			// subtotal 35.00
			checkout, err := svc.Create(context.Background(), createInput("bouquet_roses"))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			in := UpdateCheckoutInput{}
			in.Discount = &struct {
				Codes []string `json:"codes"`
			}{Codes: tc.codes}

			updated, err := svc.Update(context.Background(), checkout.ID, in)
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			if len(updated.Discounts.Applied) != tc.wantApplied {
				t.Fatalf("applied = %d, want %d", len(updated.Discounts.Applied), tc.wantApplied)
			}
			discount, _ := totalOfType(updated.Totals, "discount")
			if !almostEqual(discount, tc.wantDiscount) {
				t.Errorf("discount = %.2f, want %.2f", discount, tc.wantDiscount)
			}
			total, _ := totalOfType(updated.Totals, "total")
			if !almostEqual(total, 35.00-tc.wantDiscount) {
				t.Errorf("total = %.2f, want %.2f", total, 35.00-tc.wantDiscount)
			}
		})
	}
}

func TestCheckoutSubmit_CreatesOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	bus := eventbus.New()
	events := bus.Subscribe(TopicOrderCreated)
	svc := newCheckoutService(t, db, bus)

	checkout, err := svc.Create(context.Background(), createInput("lily_bouquet"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), checkout.ID, UpdateCheckoutInput{
		Fulfillment: json.RawMessage(`{"expectations":[{"method_type":"shipping","destination":{"city":"Austin"}}]}`),
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	order, err := svc.Submit(context.Background(), checkout.ID, nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !strings.HasPrefix(order.ID, "ORD-") || len(order.ID) != len("ORD-")+8 {
		t.Errorf("order id = %q, want ORD- followed by 8 hex chars", order.ID)
	}
	if order.Status != StatusConfirmed {
		t.Errorf("order status = %q, want %q", order.Status, StatusConfirmed)
	}
	if order.Payment.Status != "captured" || order.Payment.Method != "mock_payment" {
		t.Errorf("payment = %+v", order.Payment)
	}
	if order.CheckoutID != checkout.ID {
		t.Errorf("order checkout_id = %q, want %q", order.CheckoutID, checkout.ID)
	}

	// The checkout transitions to completed and references the order.
	completed, err := svc.Get(context.Background(), checkout.ID)
	if err != nil {
		t.Fatalf("Get after submit failed: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Errorf("checkout status = %q, want %q", completed.Status, StatusCompleted)
	}
	if completed.OrderID != order.ID {
		t.Errorf("checkout order_id = %q, want %q", completed.OrderID, order.ID)
	}

	select {
	case evt := <-events:
		if evt.Payload != order.ID {
			t.Errorf("event payload = %v, want %q", evt.Payload, order.ID)
		}
	default:
		t.Error("no order.created event published")
	}

	// The order is readable through the order service.
	orders := NewOrderService(db)
	fetched, err := orders.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("order Get failed: %v", err)
	}
	if fetched.ID != order.ID {
		t.Errorf("fetched id = %q, want %q", fetched.ID, order.ID)
	}

	all, err := orders.List(context.Background())
	if err != nil {
		t.Fatalf("order List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(orders) = %d, want 1", len(all))
	}
}

func TestCheckoutSubmit_BackToBackOrdersGetDistinctIDs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newCheckoutService(t, db, nil)
	ctx := context.Background()

	var orderIDs []string
	for i := 0; i < 2; i++ {
		checkout, err := svc.Create(ctx, createInput("tulips_mixed"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		order, err := svc.Submit(ctx, checkout.ID, nil)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		orderIDs = append(orderIDs, order.ID)
	}

	if orderIDs[0] == orderIDs[1] {
		t.Fatalf("orders submitted back to back share id %q", orderIDs[0])
	}

	orders, err := NewOrderService(db).List(ctx)
	if err != nil {
		t.Fatalf("order List failed: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("len(orders) = %d, want 2", len(orders))
	}
}

func TestCheckoutGet_Unknown(t *testing.T) {
	t.Parallel()

	svc := newCheckoutService(t, newTestDB(t), nil)

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, ErrCheckoutNotFound) {
		t.Errorf("err = %v, want ErrCheckoutNotFound", err)
	}
}

func TestOrderGet_Unknown(t *testing.T) {
	t.Parallel()

	orders := NewOrderService(newTestDB(t))

	_, err := orders.Get(context.Background(), "ORD-DEADBEEF")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}
