package main

import (
	"os"

	mcpadapter "github.com/kirillkom/reality-check/internal/adapters/mcp"
	"github.com/kirillkom/reality-check/internal/bootstrap"
	"github.com/kirillkom/reality-check/internal/config"
	"github.com/kirillkom/reality-check/internal/observability/logging"
)

var version = "dev"

func main() {
	cfg := config.Load()
	// stdout carries the MCP protocol.
	logger := logging.NewJSONLoggerTo(os.Stderr, "reality-check-mcp", cfg.LogLevel)

	pipeline := bootstrap.NewPipeline(cfg, logger, nil)
	if err := mcpadapter.New(pipeline, logger).ServeStdio(version); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
