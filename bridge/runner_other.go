//go:build !darwin

package bridge

import "github.com/hays/affinity-mcp/observability"

func newPlatformRunner(obs observability.Observer) Runner {
	return Unsupported{}
}
