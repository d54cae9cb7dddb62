package server

import "fmt"

// Registry is the static mapping from tool name to descriptor and handler.
// It is populated exactly once at startup from the compiled-in catalog and
// never mutated afterwards, so lookups need no synchronization.
type Registry struct {
	tools    []Descriptor
	handlers map[string]ToolHandler
}

// NewRegistry builds a registry from catalog entries. Order is preserved and
// used verbatim for tools/list. Duplicate or empty names are a startup error.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		tools:    make([]Descriptor, 0, len(entries)),
		handlers: make(map[string]ToolHandler, len(entries)),
	}
	for _, e := range entries {
		if e.Tool.Name == "" {
			return nil, fmt.Errorf("tool with empty name in catalog")
		}
		if _, exists := r.handlers[e.Tool.Name]; exists {
			return nil, fmt.Errorf("duplicate tool %q in catalog", e.Tool.Name)
		}
		if e.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", e.Tool.Name)
		}
		r.tools = append(r.tools, e.Tool)
		r.handlers[e.Tool.Name] = e.Handler
	}
	return r, nil
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// Resolve returns the handler for a tool name.
func (r *Registry) Resolve(name string) (ToolHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
