package server

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

// Descriptor describes one tool exposed through tools/list.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// InputSchema is the JSON Schema for a tool's input. The constraints it
// carries (enums, numeric bounds, maxItems) are advisory metadata for
// callers; handlers enforce only what deserialization enforces.
type InputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required,omitempty"`
}

// ToolHandler executes one tool call. The returned value is serialized as
// the JSON-RPC result; an error is logged internally and mapped to a generic
// internal error for the caller.
type ToolHandler func(ctx context.Context, args jsoniter.RawMessage) (any, error)

// Entry binds a tool descriptor to its handler in the compiled-in catalog.
type Entry struct {
	Tool    Descriptor
	Handler ToolHandler
}

// ToolsCallParams is the params shape for a tools/call request.
type ToolsCallParams struct {
	Name      string              `json:"name"`
	Arguments jsoniter.RawMessage `json:"arguments,omitempty"`
}
