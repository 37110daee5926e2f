// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danielhkuo/hurdle-watch/cliparse"
	"github.com/danielhkuo/hurdle-watch/db"
)

func main() {
	// First non-flag argument selects the command
	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	if err := run(cmd, args); err != nil {
		slog.Error("hurdle-watch failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	setupLogger(cfg.Verbose)

	// Key derivation needs no database
	if cmd == "key" {
		return printKey(cfg, os.Stdout)
	}

	// Connect to the database
	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		return err
	}
	slog.Debug("Database schema ready", "type", cfg.DatabaseType)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		return serve(ctx, conn, cfg)
	case "ingest":
		return ingestFiles(ctx, conn, cfg)
	case "report":
		return runReport(ctx, conn, cfg, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (use serve, ingest, report or key)", cmd)
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
