//go:build darwin

package bridge

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hays/affinity-mcp/observability"
)

func newPlatformRunner(obs observability.Observer) Runner {
	return &osaRunner{obs: obs}
}

// osaRunner drives applications through AppleScript via the osascript binary.
type osaRunner struct {
	obs observability.Observer
}

func (r *osaRunner) RunScript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.obs.OnEvent(ctx, observability.Event{
			Type:   "bridge.script_failed",
			Level:  observability.LevelError,
			Source: "bridge",
			Data:   map[string]any{"stderr": strings.TrimSpace(stderr.String())},
		})
		return "", fmt.Errorf("osascript: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (r *osaRunner) OpenWith(ctx context.Context, app, path string) error {
	cmd := exec.CommandContext(ctx, "open", "-a", app, path)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open -a %q: %s: %w", app, strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
