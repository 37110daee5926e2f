// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the hurdle-watch API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - SnapshotHandler: Snapshot ingestion and counting
  - TrendsHandler: Region listing and trend replay

Handlers are created via constructor functions that accept *sql.DB and Config:

	trendsHandler := handlers.NewTrendsHandler(db, cfg)

# Ingestion

Scrapers post raw snapshot documents:

	POST /snapshots       → Create (201, 400, 409 or 413)
	GET  /snapshots/count → Count

Ingestion requires the X-Ingest-Source and X-Ingest-Key headers; the key
check is applied by the router, not here.

# Trends

Trends are recomputed from every stored snapshot on each request:

	GET /regions                    → ListRegions
	GET /regions/{index}/trends     → GetTrends (JSON, newest first)
	GET /regions/{index}/trends.txt → GetTrendsText (plain-text table)

A region whose history cannot be processed, for example because its
expected votes have all been counted, answers 422. The body still carries the
summaries accepted before the failing snapshot, plus the engine error.
*/
package handlers
