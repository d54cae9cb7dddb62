package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hays/affinity-mcp/bridge"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MCP_NAME", "")
	t.Setenv("AFFINITY_MCP_LOG", "")
	t.Setenv("AFFINITY_MCP_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "affinity-mcp" || cfg.LogLevel != "warn" || cfg.Bridge != bridge.ModeAuto {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Listen != "" {
		t.Errorf("listen default should be stdio, got %q", cfg.Listen)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("MCP_NAME", "")
	t.Setenv("AFFINITY_MCP_LOG", "")
	t.Setenv("AFFINITY_MCP_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("name: studio\nlog_level: debug\nlisten: \":9453\"\nbridge: unsupported\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "studio" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Listen != ":9453" || cfg.Bridge != bridge.ModeUnsupported {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("MCP_NAME", "")
	t.Setenv("AFFINITY_MCP_LOG", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "affinity-mcp" || cfg.LogLevel != "warn" || cfg.Bridge != bridge.ModeAuto {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\nlog_level: info\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MCP_NAME", "from-env")
	t.Setenv("AFFINITY_MCP_LOG", "error")
	t.Setenv("AFFINITY_MCP_API_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "from-env" || cfg.LogLevel != "error" || cfg.CanvaAPIKey != "secret" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsInvalidBridgeMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bridge: teleport\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid bridge mode")
	}
}
