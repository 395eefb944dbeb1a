package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ucpkit/flowerbridge/internal/infra/ucp"
)

var ErrExecutionFailed = errors.New("tool execution failed")

// Each executor translates one tool's argument bag into exactly one HTTP
// request against the upstream UCP service and returns the response body
// structurally unmodified. Identifiers received from prior responses
// (checkout_id, order_id) are forwarded verbatim.

type DiscoverExecutor struct{ client *ucp.Client }

func NewDiscoverExecutor(client *ucp.Client) ToolExecutor {
	return &DiscoverExecutor{client: client}
}

func (e *DiscoverExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return e.client.Discover(ctx)
}

type ListProductsExecutor struct{ client *ucp.Client }

func NewListProductsExecutor(client *ucp.Client) ToolExecutor {
	return &ListProductsExecutor{client: client}
}

type listProductsParams struct {
	MaxPrice *float64 `json:"max_price"`
}

func (e *ListProductsExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in listProductsParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	return e.client.ListProducts(ctx, in.MaxPrice)
}

type GetProductExecutor struct{ client *ucp.Client }

func NewGetProductExecutor(client *ucp.Client) ToolExecutor {
	return &GetProductExecutor{client: client}
}

type getProductParams struct {
	ProductID string `json:"product_id"`
}

func (e *GetProductExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in getProductParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrToolValidationFailed)
	}
	return e.client.GetProduct(ctx, in.ProductID)
}

type CreateCheckoutExecutor struct{ client *ucp.Client }

func NewCreateCheckoutExecutor(client *ucp.Client) ToolExecutor {
	return &CreateCheckoutExecutor{client: client}
}

type createCheckoutParams struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
}

func (e *CreateCheckoutExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in createCheckoutParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id is required", ErrToolValidationFailed)
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	request := map[string]any{
		"line_items": []map[string]any{
			{
				"item":     map[string]any{"id": in.ProductID},
				"quantity": in.Quantity,
			},
		},
	}
	if in.BuyerName != "" || in.BuyerEmail != "" {
		request["buyer"] = map[string]any{
			"full_name": in.BuyerName,
			"email":     in.BuyerEmail,
		}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("%w: encode checkout request: %v", ErrExecutionFailed, err)
	}
	return e.client.CreateCheckout(ctx, body)
}

type GetCheckoutExecutor struct{ client *ucp.Client }

func NewGetCheckoutExecutor(client *ucp.Client) ToolExecutor {
	return &GetCheckoutExecutor{client: client}
}

type checkoutIDParams struct {
	CheckoutID string `json:"checkout_id"`
}

func (e *GetCheckoutExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in checkoutIDParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	if in.CheckoutID == "" {
		return nil, fmt.Errorf("%w: checkout_id is required", ErrToolValidationFailed)
	}
	return e.client.GetCheckout(ctx, in.CheckoutID)
}

type UpdateCheckoutExecutor struct{ client *ucp.Client }

func NewUpdateCheckoutExecutor(client *ucp.Client) ToolExecutor {
	return &UpdateCheckoutExecutor{client: client}
}

type updateCheckoutParams struct {
	CheckoutID      string          `json:"checkout_id"`
	ShippingAddress json.RawMessage `json:"shipping_address"`
	DiscountCode    string          `json:"discount_code"`
}

func (e *UpdateCheckoutExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in updateCheckoutParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	if in.CheckoutID == "" {
		return nil, fmt.Errorf("%w: checkout_id is required", ErrToolValidationFailed)
	}

	updates := map[string]any{}
	if len(in.ShippingAddress) > 0 && string(in.ShippingAddress) != "null" {
		updates["fulfillment"] = map[string]any{
			"expectations": []map[string]any{
				{
					"method_type": "shipping",
					"destination": json.RawMessage(in.ShippingAddress),
				},
			},
		}
	}
	if in.DiscountCode != "" {
		updates["discount"] = map[string]any{
			"codes": []string{in.DiscountCode},
		}
	}

	body, err := json.Marshal(updates)
	if err != nil {
		return nil, fmt.Errorf("%w: encode checkout update: %v", ErrExecutionFailed, err)
	}
	return e.client.UpdateCheckout(ctx, in.CheckoutID, body)
}

type SubmitCheckoutExecutor struct{ client *ucp.Client }

func NewSubmitCheckoutExecutor(client *ucp.Client) ToolExecutor {
	return &SubmitCheckoutExecutor{client: client}
}

type submitCheckoutParams struct {
	CheckoutID   string `json:"checkout_id"`
	PaymentToken string `json:"payment_token"`
}

func (e *SubmitCheckoutExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in submitCheckoutParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	if in.CheckoutID == "" {
		return nil, fmt.Errorf("%w: checkout_id is required", ErrToolValidationFailed)
	}
	if in.PaymentToken == "" {
		in.PaymentToken = "sandbox_test"
	}

	body, err := json.Marshal(map[string]any{
		"payment": map[string]any{
			"instruments": []map[string]any{
				{"type": "token", "token": in.PaymentToken},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode payment: %v", ErrExecutionFailed, err)
	}
	return e.client.SubmitCheckout(ctx, in.CheckoutID, body)
}

type GetOrderExecutor struct{ client *ucp.Client }

func NewGetOrderExecutor(client *ucp.Client) ToolExecutor {
	return &GetOrderExecutor{client: client}
}

type getOrderParams struct {
	OrderID string `json:"order_id"`
}

func (e *GetOrderExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	var in getOrderParams
	if err := unmarshalParams(params, &in); err != nil {
		return nil, err
	}
	if in.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", ErrToolValidationFailed)
	}
	return e.client.GetOrder(ctx, in.OrderID)
}

type ListOrdersExecutor struct{ client *ucp.Client }

func NewListOrdersExecutor(client *ucp.Client) ToolExecutor {
	return &ListOrdersExecutor{client: client}
}

func (e *ListOrdersExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return e.client.ListOrders(ctx)
}

// unmarshalParams decodes the argument bag, treating empty params as {}.
func unmarshalParams(params json.RawMessage, dst any) error {
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return fmt.Errorf("%w: invalid params", ErrToolValidationFailed)
	}
	return nil
}
