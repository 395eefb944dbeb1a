package tool

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ucpkit/flowerbridge/internal/infra/ucp"
	"github.com/ucpkit/flowerbridge/pkg/metrics"
)

// Dispatcher maps a validated tool invocation onto its executor. Each
// dispatch is independent and stateless: all workflow state (checkout
// progression, orders) lives in the upstream service.
type Dispatcher struct {
	registry *Registry
	metrics  *metrics.ToolMetrics
}

// NewDispatcher creates a Dispatcher over registry. m may be nil to
// disable instrumentation.
func NewDispatcher(registry *Registry, m *metrics.ToolMetrics) *Dispatcher {
	return &Dispatcher{registry: registry, metrics: m}
}

// Registry returns the underlying tool registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch validates the argument bag against the registered schema and
// runs the tool's executor. Unknown tools and validation failures return
// before any HTTP request is issued.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error) {
	start := time.Now()

	executor, err := d.registry.Executor(name)
	if err != nil {
		d.metrics.Observe(name, "unknown_tool", time.Since(start))
		return nil, err
	}
	if err := d.registry.ValidateParams(name, params); err != nil {
		d.metrics.Observe(name, "validation_error", time.Since(start))
		return nil, err
	}

	result, err := executor.Execute(ctx, params)
	d.metrics.Observe(name, outcomeLabel(err), time.Since(start))
	return result, err
}

// outcomeLabel classifies an execution error for the outcome metric label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrToolValidationFailed):
		return "validation_error"
	default:
		var upstream *ucp.UpstreamError
		if errors.As(err, &upstream) {
			return "upstream_error"
		}
		return "transport_error"
	}
}
