// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[2:])

Arguments left after the flags (snapshot files for the ingest command) are
in cfg.Args.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (default: file:hurdle-watch.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - IngestKeySalt: Secret for ingest key HMAC (required by serve)
  - Regions: race indices to track (default: every race)
  - Threshold: minimum votes in the hurdle moving average (default: 30000)
  - Workers: regions processed concurrently (default: 4)
  - Verbose: debug logging

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-ingest-salt  Ingest key salt
	-regions      Race indices, e.g. "0,3,5"
	-threshold    Moving-average vote threshold
	-workers      Concurrent regions
	-v            Debug logging
	-env          Env file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	INGEST_KEY_SALT  → -ingest-salt
	TRACKED_REGIONS  → -regions
	HURDLE_THRESHOLD → -threshold
	WORKERS          → -workers
	LOG_LEVEL=debug  → -v

CLI flags take precedence over environment variables. The env file is loaded
with godotenv before the fallback and never overrides variables already set.
A missing env file is not an error.

# Validation

ParseFlags returns an error for malformed numbers, unknown database types and
negative region indices. ValidateServe additionally requires INGEST_KEY_SALT.
*/
package cliparse
