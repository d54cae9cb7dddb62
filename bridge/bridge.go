// Package bridge abstracts the desktop automation capability behind a Runner
// interface. On macOS scripts run through osascript; everywhere else the
// Unsupported variant reports that automation is unavailable. The variant is
// chosen once at process start, never per call.
package bridge

import (
	"context"
	"errors"

	"github.com/hays/affinity-mcp/observability"
)

// ErrUnsupported is returned by the stub runner on platforms without
// desktop automation support.
var ErrUnsupported = errors.New("desktop automation is not supported on this platform")

// ModeUnsupported forces the stub runner regardless of build target.
const (
	ModeAuto        = "auto"
	ModeUnsupported = "unsupported"
)

// Runner invokes one external automation action per call. Implementations
// are stateless; failures are reported, never retried.
type Runner interface {
	// RunScript executes an automation script and returns its trimmed output.
	RunScript(ctx context.Context, script string) (string, error)
	// OpenWith opens a file with the named application.
	OpenWith(ctx context.Context, app, path string) error
}

// New returns the Runner for the given mode. ModeAuto selects the platform
// implementation; ModeUnsupported always returns the stub.
func New(mode string, obs observability.Observer) Runner {
	if mode == ModeUnsupported {
		return Unsupported{}
	}
	return newPlatformRunner(obs)
}

// Unsupported is the capability-unavailable variant. Every call fails with
// ErrUnsupported.
type Unsupported struct{}

func (Unsupported) RunScript(ctx context.Context, script string) (string, error) {
	return "", ErrUnsupported
}

func (Unsupported) OpenWith(ctx context.Context, app, path string) error {
	return ErrUnsupported
}
