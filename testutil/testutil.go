// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/hurdle-watch/auth"
	"github.com/danielhkuo/hurdle-watch/cliparse"
	"github.com/danielhkuo/hurdle-watch/db"
	"github.com/danielhkuo/hurdle-watch/ingest"
	"github.com/danielhkuo/hurdle-watch/middleware"
)

// TestDBURL is an in-memory SQLite database; each SetupTestDB call gets its own
const TestDBURL = ":memory:"

// Base is the capture time of the first fixture snapshot
var Base = time.Date(2020, 11, 4, 6, 0, 0, 0, time.UTC)

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   TestDBURL,
		DatabaseType:  db.TypeSQLite,
		IngestKeySalt: "test-ingest-salt",
		Threshold:     30000,
		Workers:       2,
	}
}

// Race describes one race in a fixture snapshot
type Race struct {
	Region             string
	Leader             string
	LeaderVotes        int64
	Trailer            string
	TrailerVotes       int64
	Votes              int64 // defaults to LeaderVotes + TrailerVotes
	ExpectedVotes      int64
	PrecinctsReporting int
	PrecinctsTotal     int
}

// SnapshotJSON builds a snapshot document. Expected votes are split over two
// counties so the ingest aggregation is exercised.
func SnapshotJSON(t *testing.T, ts time.Time, races ...Race) []byte {
	t.Helper()

	type county struct {
		Name          string `json:"name"`
		ExpectedVotes int64  `json:"expected_votes"`
	}
	type candidate struct {
		Name  string `json:"name"`
		Votes int64  `json:"votes"`
	}
	type race struct {
		Region             string      `json:"region"`
		Candidates         []candidate `json:"candidates"`
		Votes              int64       `json:"votes"`
		PrecinctsReporting int         `json:"precincts_reporting"`
		PrecinctsTotal     int         `json:"precincts_total"`
		Counties           []county    `json:"counties"`
	}

	doc := struct {
		Timestamp time.Time `json:"timestamp"`
		Races     []race    `json:"races"`
	}{Timestamp: ts, Races: []race{}}

	for _, r := range races {
		votes := r.Votes
		if votes == 0 {
			votes = r.LeaderVotes + r.TrailerVotes
		}
		half := r.ExpectedVotes / 2
		doc.Races = append(doc.Races, race{
			Region: r.Region,
			Candidates: []candidate{
				{Name: r.Leader, Votes: r.LeaderVotes},
				{Name: r.Trailer, Votes: r.TrailerVotes},
			},
			Votes:              votes,
			PrecinctsReporting: r.PrecinctsReporting,
			PrecinctsTotal:     r.PrecinctsTotal,
			Counties: []county{
				{Name: "North", ExpectedVotes: half},
				{Name: "South", ExpectedVotes: r.ExpectedVotes - half},
			},
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}
	return data
}

// StoreTestSnapshot parses and stores a snapshot document, returning its ID
func StoreTestSnapshot(t *testing.T, conn *sql.DB, payload []byte) string {
	t.Helper()

	snap, err := ingest.Parse(payload)
	if err != nil {
		t.Fatalf("Failed to parse test snapshot: %v", err)
	}

	id, err := db.NewStore(conn, db.TypeSQLite).SaveSnapshot(context.Background(), snap, payload, "testutil")
	if err != nil {
		t.Fatalf("Failed to store test snapshot: %v", err)
	}
	return id
}

// IngestHeaders returns valid ingest headers for source
func IngestHeaders(cfg cliparse.Config, source string) map[string]string {
	return map[string]string{
		middleware.HeaderIngestSource: source,
		middleware.HeaderIngestKey:    auth.GenerateIngestKey(source, cfg.IngestKeySalt),
	}
}

// MakeRequest creates an HTTP test request with a raw body
func MakeRequest(method, path string, body []byte, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
