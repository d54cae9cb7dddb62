// Package observability provides the structured event sink injected into
// server components. Components emit events through an Observer instead of
// writing to a process-wide logger, so transports and tests can swap sinks.
package observability

import "context"

// Level represents event severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// EventType identifies the kind of event. Each package defines its own
// constants using this type (e.g., "rpc.call", "batch.complete").
type EventType string

// Event is a single observability event emitted by a component.
type Event struct {
	Type   EventType
	Level  Level
	Source string
	Data   map[string]any
}

// Observer receives events from components for logging or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Noop discards all events.
type Noop struct{}

func (Noop) OnEvent(ctx context.Context, event Event) {}
