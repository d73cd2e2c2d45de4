// Package main is the entry point for the bug bounty tracker server.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
// 1. Read configuration
// 2. Create process-wide dependencies (the logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/service, ...), which keeps it testable.
//
// WHY cmd/server/?
// cmd/ is the Go convention for executable entry points. Each executable
// gets its own directory with its own main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/bounty-tracker/internal/config"
	"github.com/sakif/bounty-tracker/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// config.Load reads the environment (and .env outside production) and
	// validates it once. Nothing else in the program reads env vars.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if !cfg.AuthEnabled() {
		logger.Warn("JWT_SECRET not set; running in local single-user mode",
			slog.String("localUserID", cfg.LocalUserID),
		)
	}

	// === 3. DATABASE DIRECTORY ===
	// os.MkdirAll creates the parent directories of DB_PATH if needed
	// (like `mkdir -p`).
	if cfg.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger writes human-readable text at Debug in development and JSON at
// Info in production, where logs go to a collector.
func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
