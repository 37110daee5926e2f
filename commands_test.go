// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/hurdle-watch/db"
	"github.com/danielhkuo/hurdle-watch/handlers"
	"github.com/danielhkuo/hurdle-watch/middleware"
	"github.com/danielhkuo/hurdle-watch/testutil"
)

var ohio = testutil.Race{
	Region:             "Ohio",
	Leader:             "Trump",
	LeaderVotes:        300000,
	Trailer:            "Biden",
	TrailerVotes:       250000,
	ExpectedVotes:      1000000,
	PrecinctsReporting: 400,
	PrecinctsTotal:     8941,
}

func writeSnapshot(t *testing.T, dir string, name string, payload []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestIngestThenReport(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctx := context.Background()
	dir := t.TempDir()

	later := ohio
	later.LeaderVotes, later.TrailerVotes = 320000, 280000

	first := writeSnapshot(t, dir, "0600.json", testutil.SnapshotJSON(t, testutil.Base, ohio))
	second := writeSnapshot(t, dir, "0630.json", testutil.SnapshotJSON(t, testutil.Base.Add(30*time.Minute), later))

	cfg := testutil.GetTestConfig()
	// Out of order and repeated; the store sorts and skips
	cfg.Args = []string{second, first, first}
	if err := ingestFiles(ctx, conn, cfg); err != nil {
		t.Fatalf("ingestFiles() error = %v", err)
	}

	count, err := db.NewStore(conn, cfg.DatabaseType).CountSnapshots(ctx)
	if err != nil {
		t.Fatalf("CountSnapshots() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 stored snapshots, got %d", count)
	}

	var out bytes.Buffer
	if err := runReport(ctx, conn, cfg, &out); err != nil {
		t.Fatalf("runReport() error = %v", err)
	}

	report := out.String()
	for _, want := range []string{"Ohio (2 updates)", "50,000", "40,000", "40.00% / 60.00%"} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected report to contain %q:\n%s", want, report)
		}
	}
}

func TestIngestFilesErrors(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctx := context.Background()
	dir := t.TempDir()
	cfg := testutil.GetTestConfig()

	t.Run("no files", func(t *testing.T) {
		if err := ingestFiles(ctx, conn, cfg); err == nil {
			t.Error("Expected error with no files")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := cfg
		cfg.Args = []string{filepath.Join(dir, "absent.json")}
		if err := ingestFiles(ctx, conn, cfg); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("invalid document", func(t *testing.T) {
		cfg := cfg
		cfg.Args = []string{writeSnapshot(t, dir, "bad.json", []byte(`{"races":[]}`))}
		if err := ingestFiles(ctx, conn, cfg); err == nil || !strings.Contains(err.Error(), "bad.json") {
			t.Errorf("Expected error naming the file, got %v", err)
		}
	})
}

func TestRunReportErrors(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.GetTestConfig()

	t.Run("empty store", func(t *testing.T) {
		conn := testutil.SetupTestDB(t)
		defer conn.Close()

		var out bytes.Buffer
		if err := runReport(ctx, conn, cfg, &out); !errors.Is(err, db.ErrNoSnapshots) {
			t.Errorf("Expected ErrNoSnapshots, got %v", err)
		}
	})

	t.Run("failed region", func(t *testing.T) {
		conn := testutil.SetupTestDB(t)
		defer conn.Close()

		done := ohio
		done.Region = "Vermont"
		done.LeaderVotes, done.TrailerVotes = 600000, 400000

		testutil.StoreTestSnapshot(t, conn, testutil.SnapshotJSON(t, testutil.Base, ohio, done))

		var out bytes.Buffer
		err := runReport(ctx, conn, cfg, &out)
		if err == nil || !strings.Contains(err.Error(), "1 of 2 regions failed") {
			t.Errorf("Expected one failed region, got %v", err)
		}
		if !strings.Contains(out.String(), "Ohio (1 updates)") {
			t.Errorf("Expected healthy region in report:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Vermont: error:") {
			t.Errorf("Expected failed region error line:\n%s", out.String())
		}
	})
}

func TestPrintKeyAuthorizesIngest(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	cfg.Args = []string{"scraper-7"}

	var out bytes.Buffer
	if err := printKey(cfg, &out); err != nil {
		t.Fatalf("printKey() error = %v", err)
	}
	key := strings.TrimSpace(out.String())
	if key == "" {
		t.Fatal("Expected a key on output")
	}

	create := middleware.RequireIngestKey(cfg.IngestKeySalt, handlers.NewSnapshotHandler(conn, cfg).Create)
	payload := testutil.SnapshotJSON(t, testutil.Base, ohio)

	req := testutil.MakeRequest("POST", "/snapshots", payload, map[string]string{
		middleware.HeaderIngestSource: "scraper-7",
		middleware.HeaderIngestKey:    key,
	})
	w := httptest.NewRecorder()
	create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// The key is bound to its source
	req = testutil.MakeRequest("POST", "/snapshots", payload, map[string]string{
		middleware.HeaderIngestSource: "scraper-8",
		middleware.HeaderIngestKey:    key,
	})
	w = httptest.NewRecorder()
	create(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestPrintKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		salt string
		args []string
	}{
		{"no salt", "", []string{"scraper-1"}},
		{"no source", "salt", nil},
		{"two sources", "salt", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.GetTestConfig()
			cfg.IngestKeySalt = tt.salt
			cfg.Args = tt.args

			var out bytes.Buffer
			if err := printKey(cfg, &out); err == nil {
				t.Error("Expected error")
			}
			if out.Len() != 0 {
				t.Errorf("Expected no output, got %q", out.String())
			}
		})
	}
}
