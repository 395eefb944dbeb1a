package tool

import (
	"encoding/json"

	"github.com/ucpkit/flowerbridge/internal/infra/ucp"
)

// Tool names exposed to MCP clients. Each maps 1:1 onto an upstream UCP
// REST operation; the bridge performs no business logic of its own.
const (
	ToolDiscover       = "ucp_discover"
	ToolListProducts   = "ucp_list_products"
	ToolGetProduct     = "ucp_get_product"
	ToolCreateCheckout = "ucp_create_checkout"
	ToolGetCheckout    = "ucp_get_checkout"
	ToolUpdateCheckout = "ucp_update_checkout"
	ToolSubmitCheckout = "ucp_submit_checkout"
	ToolGetOrder       = "ucp_get_order"
	ToolListOrders     = "ucp_list_orders"
)

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        ToolDiscover,
			Description: "Discover merchant capabilities via UCP. Returns supported services, capabilities, and payment handlers.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[],"additionalProperties":false}`),
		},
		{
			Name:        ToolListProducts,
			Description: "List all available products from the flower shop catalog.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"max_price":{"type":"number","description":"Optional: Filter products by maximum price"}},"required":[],"additionalProperties":false}`),
		},
		{
			Name:        ToolGetProduct,
			Description: "Get detailed information about a specific product by ID.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"product_id":{"type":"string","description":"The product ID (e.g., 'bouquet_roses', 'orchid_white', 'pothos_golden')"}},"required":["product_id"],"additionalProperties":false}`),
		},
		{
			Name:        ToolCreateCheckout,
			Description: "Create a new checkout session with line items. Returns checkout_id for subsequent operations.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"product_id":{"type":"string","description":"Product ID to purchase"},"quantity":{"type":"integer","description":"Quantity to purchase (default: 1)","default":1},"buyer_name":{"type":"string","description":"Buyer's full name"},"buyer_email":{"type":"string","description":"Buyer's email address"}},"required":["product_id"],"additionalProperties":false}`),
		},
		{
			Name:        ToolGetCheckout,
			Description: "Get current state of a checkout session.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"checkout_id":{"type":"string","description":"The checkout session ID"}},"required":["checkout_id"],"additionalProperties":false}`),
		},
		{
			Name:        ToolUpdateCheckout,
			Description: "Update a checkout session with shipping address or discount code. Available codes: 10OFF, FLOWERS20, FREESHIP",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"checkout_id":{"type":"string","description":"The checkout session ID"},"shipping_address":{"type":"object","description":"Shipping address object","properties":{"first_name":{"type":"string"},"last_name":{"type":"string"},"address1":{"type":"string"},"city":{"type":"string"},"province":{"type":"string"},"postal_code":{"type":"string"},"country":{"type":"string","default":"US"}}},"discount_code":{"type":"string","description":"Discount code to apply (e.g., '10OFF', 'FLOWERS20', 'FREESHIP')"}},"required":["checkout_id"],"additionalProperties":false}`),
		},
		{
			Name:        ToolSubmitCheckout,
			Description: "Submit/complete the checkout to create an order. This finalizes the purchase.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"checkout_id":{"type":"string","description":"The checkout session ID to submit"},"payment_token":{"type":"string","description":"Payment token (use 'sandbox_test' for demo)","default":"sandbox_test"}},"required":["checkout_id"],"additionalProperties":false}`),
		},
		{
			Name:        ToolGetOrder,
			Description: "Get details of a completed order.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"order_id":{"type":"string","description":"The order ID"}},"required":["order_id"],"additionalProperties":false}`),
		},
		{
			Name:        ToolListOrders,
			Description: "List all orders.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{},"required":[],"additionalProperties":false}`),
		},
	}
}

// NewBuiltinRegistry builds the registry with all nine UCP tools wired to
// client.
func NewBuiltinRegistry(client *ucp.Client) (*Registry, error) {
	registry := NewRegistry()

	executors := map[string]ToolExecutor{
		ToolDiscover:       NewDiscoverExecutor(client),
		ToolListProducts:   NewListProductsExecutor(client),
		ToolGetProduct:     NewGetProductExecutor(client),
		ToolCreateCheckout: NewCreateCheckoutExecutor(client),
		ToolGetCheckout:    NewGetCheckoutExecutor(client),
		ToolUpdateCheckout: NewUpdateCheckoutExecutor(client),
		ToolSubmitCheckout: NewSubmitCheckoutExecutor(client),
		ToolGetOrder:       NewGetOrderExecutor(client),
		ToolListOrders:     NewListOrdersExecutor(client),
	}

	for _, desc := range builtinDescriptors() {
		if err := registry.Register(desc, executors[desc.Name]); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
