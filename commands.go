// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/hurdle-watch/auth"
	"github.com/danielhkuo/hurdle-watch/cliparse"
	"github.com/danielhkuo/hurdle-watch/db"
	"github.com/danielhkuo/hurdle-watch/ingest"
	"github.com/danielhkuo/hurdle-watch/middleware"
	"github.com/danielhkuo/hurdle-watch/region"
	"github.com/danielhkuo/hurdle-watch/report"
	"github.com/danielhkuo/hurdle-watch/router"
	"github.com/danielhkuo/hurdle-watch/trend"
)

// serve runs the HTTP API until ctx is cancelled
func serve(ctx context.Context, conn *sql.DB, cfg cliparse.Config) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	// Create router
	mux := router.NewRouter(conn, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server closed: %w", err)
	}
	slog.Info("Server closed")
	return nil
}

// ingestFiles stores every snapshot file named on the command line.
// Files already stored are skipped.
func ingestFiles(ctx context.Context, conn *sql.DB, cfg cliparse.Config) error {
	if len(cfg.Args) == 0 {
		return errors.New("ingest needs at least one snapshot file")
	}

	store := db.NewStore(conn, cfg.DatabaseType)
	var stored, skipped int
	for _, path := range cfg.Args {
		snap, payload, err := ingest.ParseFile(path)
		if err != nil {
			return err
		}

		id, err := store.SaveSnapshot(ctx, snap, payload, "file:"+path)
		if errors.Is(err, db.ErrDuplicateSnapshot) {
			slog.Warn("snapshot already stored", "file", path, "captured_at", snap.Timestamp)
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		slog.Debug("snapshot stored", "file", path, "snapshot_id", id, "captured_at", snap.Timestamp)
		stored++
	}

	slog.Info("ingest finished",
		"stored", humanize.Comma(int64(stored)),
		"skipped", humanize.Comma(int64(skipped)),
	)
	return nil
}

// runReport replays stored snapshots for every tracked region and writes
// one table per region to out
func runReport(ctx context.Context, conn *sql.DB, cfg cliparse.Config, out io.Writer) error {
	store := db.NewStore(conn, cfg.DatabaseType)
	snapshots, err := store.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return db.ErrNoSnapshots
	}

	sel := region.NewSelector(cfg.Regions, snapshots[len(snapshots)-1])
	engine := trend.NewEngine(cfg.Threshold)

	trends, err := trend.ProcessRegions(ctx, engine, snapshots, sel, cfg.Workers)
	if err != nil {
		return err
	}
	if err := report.WriteAll(out, trends); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	var failed int
	for _, rt := range trends {
		if rt.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d regions failed", failed, len(trends))
	}
	return nil
}

// printKey writes the ingest key a scraper must send as X-Ingest-Key for the
// source named on the command line
func printKey(cfg cliparse.Config, out io.Writer) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	if len(cfg.Args) != 1 {
		return errors.New("key needs exactly one source name")
	}

	source := cfg.Args[0]
	if _, err := fmt.Fprintln(out, auth.GenerateIngestKey(source, cfg.IngestKeySalt)); err != nil {
		return err
	}
	slog.Debug("ingest key issued", "source", source)
	return nil
}
