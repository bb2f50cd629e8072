// Package main implements the entry point for the recall-api server, a
// spaced-repetition review engine with user accounts, card management,
// review scheduling, and study analytics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pmallory/recall-api/internal/config"
	"github.com/pmallory/recall-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recall-api: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, wires the application, and serves until a
// shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	app, err := newApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.serve()
}
