package tool

import (
	"context"
	"encoding/json"
)

// ToolExecutor defines the runtime contract for executable tools.
type ToolExecutor interface {
	Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error)
}
