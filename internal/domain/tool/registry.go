package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTool           = errors.New("unknown tool")
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrToolValidationFailed  = errors.New("tool params validation failed")
)

// Descriptor declares a tool: its name, a human-readable description used
// for tool discovery, and the JSON schema of its input parameters.
type Descriptor struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Registry is the static table of tool descriptors and their executors.
// It is populated once at startup and read-only afterwards, so lookups
// are safe for concurrent use.
type Registry struct {
	descriptors map[string]Descriptor
	executors   map[string]ToolExecutor
	order       []string
}

func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
		executors:   make(map[string]ToolExecutor),
	}
}

// Register adds a descriptor and its executor to the table.
func (r *Registry) Register(desc Descriptor, executor ToolExecutor) error {
	name := strings.TrimSpace(desc.Name)
	if name == "" || executor == nil {
		return fmt.Errorf("registry: name and executor are required")
	}
	if _, exists := r.descriptors[name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, name)
	}
	if len(desc.InputSchema) == 0 {
		desc.InputSchema = json.RawMessage(`{"type":"object","additionalProperties":false,"properties":{}}`)
	}
	if !json.Valid(desc.InputSchema) {
		return fmt.Errorf("registry: input schema for %s must be valid json", name)
	}

	desc.Name = name
	r.descriptors[name] = desc
	r.executors[name] = executor
	r.order = append(r.order, name)
	return nil
}

// Get returns the descriptor for name, or ErrUnknownTool.
func (r *Registry) Get(name string) (Descriptor, error) {
	desc, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return desc, nil
}

// Executor returns the executor for name, or ErrUnknownTool.
func (r *Registry) Executor(name string) (ToolExecutor, error) {
	executor, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return executor, nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// ValidateParams checks params against the declared input schema of name.
// Only required fields and additionalProperties are enforced; full JSON
// Schema validation is delegated to the calling client.
func (r *Registry) ValidateParams(name string, params json.RawMessage) error {
	desc, err := r.Get(name)
	if err != nil {
		return err
	}

	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}

	var input map[string]any
	if err := json.Unmarshal(params, &input); err != nil {
		return fmt.Errorf("%w: params must be a json object", ErrToolValidationFailed)
	}

	var schema map[string]any
	if err := json.Unmarshal(desc.InputSchema, &schema); err != nil {
		return fmt.Errorf("%w: invalid registered schema", ErrToolValidationFailed)
	}

	return validateAgainstMinimalSchema(input, schema)
}

func validateAgainstMinimalSchema(input, schema map[string]any) error {
	requiredKeys := extractStringSlice(schema["required"])
	for _, key := range requiredKeys {
		if _, ok := input[key]; !ok {
			return fmt.Errorf("%w: missing required field %q", ErrToolValidationFailed, key)
		}
	}

	allowAdditional := true
	if v, ok := schema["additionalProperties"].(bool); ok {
		allowAdditional = v
	}

	allowedProps := map[string]struct{}{}
	if props, ok := schema["properties"].(map[string]any); ok {
		for key := range props {
			allowedProps[key] = struct{}{}
		}
	}

	if !allowAdditional {
		for key := range input {
			if _, ok := allowedProps[key]; !ok {
				return fmt.Errorf("%w: unknown field %q", ErrToolValidationFailed, key)
			}
		}
	}

	return nil
}

func extractStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
