// Package api assembles the bridge's HTTP surface: the MCP transports
// (SSE and streamable HTTP), health and info endpoints, and metrics.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ucpkit/flowerbridge/internal/domain/tool"
	mcpserver "github.com/ucpkit/flowerbridge/internal/mcp"
	"github.com/ucpkit/flowerbridge/internal/version"
	"github.com/ucpkit/flowerbridge/pkg/metrics"
)

// NewRouter creates and configures the bridge router. The MCP server is
// mounted twice: /sse for the SSE transport and /mcp for streamable HTTP.
func NewRouter(dispatcher *tool.Dispatcher, registry prometheus.Gatherer) (*chi.Mux, error) {
	server, err := mcpserver.BuildServer(dispatcher)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","server":"` + mcpserver.ServerName + `"}`)) //nolint:errcheck
	})

	toolNames := dispatcher.Registry().Names()
	r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"name":    mcpserver.ServerName,
			"version": version.Version,
			"transports": map[string]string{
				"sse":        "/sse",
				"streamable": "/mcp",
			},
			"tools": toolNames,
		})
	})

	if registry != nil {
		r.Get("/metrics", metrics.Handler(registry).ServeHTTP)
	}

	// The SSE handler owns both the event stream and its message
	// endpoint, so it gets the whole subtree.
	r.Mount("/sse", mcpserver.SSEHandler(server))
	r.Mount("/mcp", mcpserver.StreamableHandler(server))

	return r, nil
}
