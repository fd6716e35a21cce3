// Command mcptoolkit runs the MCP tool-server kernel over stdio:
// database and web-fetch tools registered against a JSON-RPC loop
// reading requests from stdin and writing responses to stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/revittco/mcptoolkit/internal/startup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcptoolkit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := startup.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	orch := startup.New(cfg)
	return orch.Run(ctx)
}
