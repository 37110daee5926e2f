// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the hurdle-watch API.

# Creating the Router

	mux := router.NewRouter(db, cfg)
	server := http.Server{Handler: middleware.CORS(mux)}

Uses Go 1.22+ enhanced routing with method and path patterns.

# Routes

Health and info:

	GET /                         → API version
	GET /health                   → Health check (returns "OK")

Snapshot ingestion (X-Ingest-Source and X-Ingest-Key required):

	POST /snapshots               → Store a raw snapshot document
	GET  /snapshots/count         → Number of stored snapshots

Trends (public):

	GET /regions                  → Tracked regions from the latest snapshot
	GET /regions/{index}/trends   → Trend summaries as JSON, newest first
	GET /regions/{index}/trends.txt → Same, as a text table

# Middleware

All API routes use WithLogging; POST /snapshots also uses RequireIngestKey.
*/
package router
