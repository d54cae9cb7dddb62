package observability

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologObserver emits events through a zerolog.Logger. The event type
// becomes the log message and Data keys are flattened as fields.
type ZerologObserver struct {
	logger zerolog.Logger
}

// NewZerolog creates a ZerologObserver that emits to the given logger.
func NewZerolog(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{logger: logger}
}

func (o *ZerologObserver) OnEvent(ctx context.Context, event Event) {
	evt := o.logger.WithLevel(zerologLevel(event.Level))
	if event.Source != "" {
		evt = evt.Str("source", event.Source)
	}
	evt.Fields(event.Data).Msg(string(event.Type))
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
