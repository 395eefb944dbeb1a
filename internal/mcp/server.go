// Package mcp wires the tool registry into the official MCP Go SDK.
// It is a thin layer: every registered tool becomes an MCP tool whose
// handler dispatches through the bridge and maps errors onto tool-call
// failures. The wire framing (JSON-RPC over SSE or streamable HTTP) is
// owned entirely by the SDK.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ucpkit/flowerbridge/internal/domain/tool"
	"github.com/ucpkit/flowerbridge/internal/version"
)

// ServerName identifies the bridge to MCP clients.
const ServerName = "ucp-flower-shop"

// BuildServer creates an MCP server exposing every tool in the
// dispatcher's registry.
func BuildServer(dispatcher *tool.Dispatcher) (*sdk.Server, error) {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, nil)

	for _, desc := range dispatcher.Registry().List() {
		schema := new(jsonschema.Schema)
		if err := json.Unmarshal(desc.InputSchema, schema); err != nil {
			return nil, fmt.Errorf("mcp: parse input schema for %s: %w", desc.Name, err)
		}
		server.AddTool(&sdk.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: schema,
		}, toolHandler(dispatcher, desc.Name))
	}

	return server, nil
}

// toolHandler adapts one tool to the SDK handler contract. Execution
// failures become CallToolResult{IsError:true}; they are never fatal to
// the serving process.
func toolHandler(dispatcher *tool.Dispatcher, name string) sdk.ToolHandler {
	return func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		result, err := dispatcher.Dispatch(ctx, name, req.Params.Arguments)
		return toCallToolResult(name, result, err), nil
	}
}

// toCallToolResult maps a dispatch outcome onto an MCP tool result. The
// upstream payload is carried through structurally unmodified, with a
// short human-readable framing matching the upstream operation.
func toCallToolResult(name string, payload json.RawMessage, err error) *sdk.CallToolResult {
	if err != nil {
		return &sdk.CallToolResult{
			IsError: true,
			Content: []sdk.Content{&sdk.TextContent{Text: "Error: " + err.Error()}},
		}
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: formatResult(name, payload)}},
	}
}

// formatResult frames the raw upstream payload for the calling client.
func formatResult(name string, payload json.RawMessage) string {
	body := prettyJSON(payload)

	switch name {
	case tool.ToolDiscover:
		return "UCP Discovery Profile:\n\n```json\n" + body + "\n```"
	case tool.ToolGetProduct:
		return "Product Details:\n\n```json\n" + body + "\n```"
	case tool.ToolCreateCheckout:
		idLine := ""
		if id := extractID(payload); id != "" {
			idLine = fmt.Sprintf("Checkout ID: `%s`\n\n", id)
		}
		return fmt.Sprintf("Checkout created.\n\n%sNext steps:\n1. Use `%s` to add a shipping address\n2. Use `%s` to complete the purchase\n\nFull response:\n```json\n%s\n```",
			idLine, tool.ToolUpdateCheckout, tool.ToolSubmitCheckout, body)
	case tool.ToolGetCheckout:
		return "Checkout Session:\n\n```json\n" + body + "\n```"
	case tool.ToolUpdateCheckout:
		return "Checkout updated.\n\n```json\n" + body + "\n```"
	case tool.ToolSubmitCheckout:
		if id := extractID(payload); id != "" {
			return fmt.Sprintf("Order complete.\n\nOrder ID: `%s`\n\n```json\n%s\n```", id, body)
		}
		return "Order complete.\n\n```json\n" + body + "\n```"
	case tool.ToolGetOrder:
		return "Order Details:\n\n```json\n" + body + "\n```"
	default:
		return "```json\n" + body + "\n```"
	}
}

// extractID pulls the top-level "id" field from an upstream payload.
func extractID(payload json.RawMessage) string {
	var envelope struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return ""
	}
	return envelope.ID
}

// prettyJSON indents payload for display, falling back to the raw text.
func prettyJSON(payload json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return string(payload)
	}
	return buf.String()
}

// SSEHandler returns the HTTP handler serving the MCP SSE transport
// (event stream plus its message endpoint).
func SSEHandler(server *sdk.Server) http.Handler {
	return sdk.NewSSEHandler(func(r *http.Request) *sdk.Server {
		return server
	}, nil)
}

// StreamableHandler returns the HTTP handler for the streamable HTTP
// transport.
func StreamableHandler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(r *http.Request) *sdk.Server {
		return server
	}, nil)
}

// RunStdio serves the MCP server over stdin/stdout until ctx is done.
func RunStdio(ctx context.Context, server *sdk.Server) error {
	return server.Run(ctx, &sdk.StdioTransport{})
}
