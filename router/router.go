// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/hurdle-watch/cliparse"
	"github.com/danielhkuo/hurdle-watch/handlers"
	"github.com/danielhkuo/hurdle-watch/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	snapshotHandler := handlers.NewSnapshotHandler(db, cfg)
	trendsHandler := handlers.NewTrendsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Snapshot ingestion (requires ingest key)
	mux.HandleFunc("POST /snapshots", middleware.WithLogging(
		middleware.RequireIngestKey(cfg.IngestKeySalt, snapshotHandler.Create)))
	mux.HandleFunc("GET /snapshots/count", middleware.WithLogging(snapshotHandler.Count))

	// Trend retrieval (public)
	mux.HandleFunc("GET /regions", middleware.WithLogging(trendsHandler.ListRegions))
	mux.HandleFunc("GET /regions/{index}/trends", middleware.WithLogging(trendsHandler.GetTrends))
	mux.HandleFunc("GET /regions/{index}/trends.txt", middleware.WithLogging(trendsHandler.GetTrendsText))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hurdle-watch API v1"))
	})

	return mux
}
