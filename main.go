package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/hays/affinity-mcp/bridge"
	"github.com/hays/affinity-mcp/config"
	"github.com/hays/affinity-mcp/observability"
	"github.com/hays/affinity-mcp/server"
	"github.com/hays/affinity-mcp/tools/affinity"
	"github.com/hays/affinity-mcp/tools/canva"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", os.Getenv("AFFINITY_MCP_CONFIG"), "Path to YAML config file (optional)")
	listen := flag.String("listen", "", "Serve JSON-RPC over WebSocket on this address instead of stdio")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: affinity-mcp [options]\n\n")
		fmt.Fprintf(os.Stderr, "An MCP server that drives the Affinity apps over JSON-RPC (stdio by default).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_NAME               Server name (default: affinity-mcp)\n")
		fmt.Fprintf(os.Stderr, "  AFFINITY_MCP_CONFIG    Path to config file (overridden by --config)\n")
		fmt.Fprintf(os.Stderr, "  AFFINITY_MCP_LOG       Log level: debug, info, warn, error (default: warn)\n")
		fmt.Fprintf(os.Stderr, "  AFFINITY_MCP_API_KEY   Canva API key\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Fprintf(os.Stderr, "affinity-mcp v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "affinity-mcp: %v\n", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	// Logs go to stderr: stdout carries the protocol.
	logger := newLogger(cfg.LogLevel)
	obs := observability.NewZerolog(logger)

	runner := bridge.New(cfg.Bridge, obs)
	svc := affinity.NewService(runner, obs)
	designs := canva.NewClient(cfg.CanvaAPIKey, obs)

	registry, err := server.NewRegistry(server.DefaultCatalog(svc, designs))
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid tool catalog")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Listen != "" {
		err := server.ServeWebSocket(ctx, cfg.Listen, obs, func(t server.Transport) {
			defer t.Close()
			srv := server.New(cfg.Name, version, t, registry, obs)
			err := srv.Run(ctx)
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				logger.Warn().Err(err).Msg("websocket session ended")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("websocket listener failed")
		}
		return
	}

	srv := server.New(cfg.Name, version, server.NewStdioTransport(), registry, obs)
	err = srv.Run(ctx)
	if errors.Is(err, io.EOF) {
		logger.Debug().Msg("client disconnected")
		return
	}
	if errors.Is(err, context.Canceled) {
		logger.Debug().Msg("shutdown signal received")
		return
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("app", "affinity-mcp").Logger()
}
