// Package config loads the optional YAML configuration file and applies
// environment overrides. Missing file and missing fields fall back to
// defaults; precedence is flags > environment > file > defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hays/affinity-mcp/bridge"
)

// Config holds process-level settings.
type Config struct {
	// Name is the server identity reported during the handshake.
	Name string `yaml:"name"`
	// LogLevel is a zerolog level string: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Listen enables the WebSocket transport on the given address
	// (e.g. ":9453"). Empty means stdio.
	Listen string `yaml:"listen"`
	// Bridge selects the automation capability: "auto" or "unsupported".
	Bridge string `yaml:"bridge"`
	// CanvaAPIKey is reserved for the Canva integration.
	CanvaAPIKey string `yaml:"canva_api_key"`
}

// Load reads the config file at path, or returns defaults when path is
// empty. Environment overrides (MCP_NAME, AFFINITY_MCP_LOG,
// AFFINITY_MCP_API_KEY) are applied on top.
func Load(path string) (Config, error) {
	cfg := Config{
		Name:     "affinity-mcp",
		LogLevel: "warn",
		Bridge:   bridge.ModeAuto,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if cfg.Name == "" {
			cfg.Name = "affinity-mcp"
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = "warn"
		}
		if cfg.Bridge == "" {
			cfg.Bridge = bridge.ModeAuto
		}
	}

	if v := os.Getenv("MCP_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("AFFINITY_MCP_LOG"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AFFINITY_MCP_API_KEY"); v != "" {
		cfg.CanvaAPIKey = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Bridge {
	case bridge.ModeAuto, bridge.ModeUnsupported:
	default:
		return fmt.Errorf("invalid bridge mode %q (must be %q or %q)", c.Bridge, bridge.ModeAuto, bridge.ModeUnsupported)
	}
	return nil
}
