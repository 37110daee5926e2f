// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for hurdle-watch.

hurdle-watch follows election results as they are counted. It stores
snapshots of a results feed and, for each tracked region, derives how the
race moves between updates: the lead, the votes still outstanding, how each
new block of votes split between the two leading candidates, and the hurdle
(the share of the remaining votes the trailing candidate needs to tie).

# Commands

	hurdle-watch ingest [flags] FILE...   Store snapshot documents
	hurdle-watch report [flags]           Print a trend table per region
	hurdle-watch serve  [flags]           Run the HTTP API (default)
	hurdle-watch key    [flags] SOURCE    Print the ingest key for a scraper

Examples:

	hurdle-watch ingest results/*.json
	hurdle-watch report -regions 0,3 -threshold 50000
	INGEST_KEY_SALT=... hurdle-watch serve -p 3318
	INGEST_KEY_SALT=... hurdle-watch key scraper-1

# Configuration

Settings come from flags, then environment variables, then a .env file:

  - DATABASE_URL (-d): connection string (default for sqlite: file:hurdle-watch.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - INGEST_KEY_SALT (-ingest-salt): secret for ingest keys (serve and key)
  - TRACKED_REGIONS (-regions): race indices (default: all)
  - HURDLE_THRESHOLD (-threshold): moving-average vote threshold (default: 30000)
  - PORT (-p): server port (default: 3318)

# Architecture

  - trend: the per-region trend engine and moving average
  - region: picks tracked races out of each snapshot
  - ingest: decodes and validates snapshot documents
  - db: schema and snapshot store
  - report: text tables
  - handlers, router, middleware: HTTP API
  - auth: ingest keys and payload hashes
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
