package flowershop

import "encoding/json"

// DiscoveryProfile is the UCP capability discovery document served at
// /.well-known/ucp. The payload is static; clients treat it as opaque.
func DiscoveryProfile() json.RawMessage {
	return json.RawMessage(`{
  "ucp": {
    "version": "2026-01-11",
    "services": {
      "dev.ucp.shopping": {
        "version": "2026-01-11",
        "spec": "https://ucp.dev/specs/shopping",
        "rest": {
          "schema": "https://ucp.dev/services/shopping/openapi.json",
          "endpoint": "https://flower-shop.example.com/"
        }
      }
    },
    "capabilities": [
      {
        "name": "dev.ucp.shopping.checkout",
        "version": "2026-01-11",
        "spec": "https://ucp.dev/specs/shopping/checkout"
      },
      {
        "name": "dev.ucp.shopping.discount",
        "version": "2026-01-11",
        "spec": "https://ucp.dev/specs/shopping/discount",
        "extends": "dev.ucp.shopping.checkout"
      },
      {
        "name": "dev.ucp.shopping.fulfillment",
        "version": "2026-01-11",
        "spec": "https://ucp.dev/specs/shopping/fulfillment",
        "extends": "dev.ucp.shopping.checkout"
      }
    ]
  },
  "payment": {
    "handlers": [
      {
        "id": "mock_payment",
        "name": "dev.ucp.mock_payment",
        "version": "2026-01-11",
        "config": {"supported_tokens": ["sandbox_test", "success_token"]}
      }
    ]
  }
}`)
}
