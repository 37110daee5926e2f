// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and snapshot storage.

# Connecting

Open selects the driver by database type:

	conn, err := db.Open(db.TypeSQLite, "file:hurdle-watch.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

SQLite uses modernc.org/sqlite; PostgreSQL uses github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - snapshot: raw snapshot documents keyed by capture time and content hash

# Store

Store saves and lists snapshots. Payloads are kept verbatim and reparsed on
read, so stored data always goes through ingest validation:

	store := db.NewStore(conn, cfg.DatabaseType)
	id, err := store.SaveSnapshot(ctx, snap, payload, source)
	snapshots, err := store.ListSnapshots(ctx) // oldest first

A second snapshot with the same capture time, or a byte-identical payload,
is rejected with ErrDuplicateSnapshot.
*/
package db
