// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/hurdle-watch/auth"
	"github.com/danielhkuo/hurdle-watch/ingest"
	"github.com/danielhkuo/hurdle-watch/models"
)

// Database types accepted by Open
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

var (
	ErrDuplicateSnapshot = errors.New("snapshot already stored")
	ErrNoSnapshots       = errors.New("no snapshots stored")
	ErrUnknownType       = errors.New("unknown database type")
)

// Store persists raw snapshot documents
type Store struct {
	db     *sql.DB
	dbType string
}

// Open connects to the database and verifies the connection
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == TypeSQLite {
		// SQLite allows one writer; in-memory databases are per connection
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

func NewStore(db *sql.DB, dbType string) *Store {
	return &Store{db: db, dbType: dbType}
}

// rebind rewrites ? placeholders to $N for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.dbType != TypePostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveSnapshot stores a parsed snapshot with its raw payload and returns the
// assigned ID. A snapshot with the same timestamp or identical payload is
// rejected with ErrDuplicateSnapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snap models.Snapshot, payload []byte, source string) (string, error) {
	hash := auth.ContentHash(payload)
	capturedAt := snap.Timestamp.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx, s.rebind(`
		SELECT COUNT(*) FROM snapshot WHERE captured_at = ? OR content_hash = ?
	`), capturedAt, hash).Scan(&existing)
	if err != nil {
		return "", fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if existing > 0 {
		return "", ErrDuplicateSnapshot
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO snapshot (id, captured_at, content_hash, source, payload, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, capturedAt, hash, source, string(payload), time.Now().UTC())
	if isUniqueViolation(err) {
		// A concurrent upload of the same capture committed first
		return "", ErrDuplicateSnapshot
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

// ListSnapshots returns every stored snapshot, oldest first
func (s *Store) ListSnapshots(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload FROM snapshot ORDER BY captured_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	ingest.SortByTimestamp(snapshots)
	return snapshots, nil
}

// LatestSnapshot returns the most recent snapshot or ErrNoSnapshots
func (s *Store) LatestSnapshot(ctx context.Context) (models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, payload FROM snapshot ORDER BY captured_at DESC LIMIT 1
	`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, ErrNoSnapshots
	}
	return snap, err
}

// CountSnapshots returns the number of stored snapshots
func (s *Store) CountSnapshots(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure from
// either driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (models.Snapshot, error) {
	var id, payload string
	if err := row.Scan(&id, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snapshot{}, err
		}
		return models.Snapshot{}, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap, err := ingest.Parse([]byte(payload))
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("stored snapshot %s: %w", id, err)
	}
	snap.ID = id
	return snap, nil
}
