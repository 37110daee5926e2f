// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/hurdle-watch/cliparse"
	"github.com/danielhkuo/hurdle-watch/db"
	"github.com/danielhkuo/hurdle-watch/ingest"
	"github.com/danielhkuo/hurdle-watch/middleware"
	"github.com/danielhkuo/hurdle-watch/models"
)

type SnapshotHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewSnapshotHandler(conn *sql.DB, cfg cliparse.Config) *SnapshotHandler {
	return &SnapshotHandler{store: db.NewStore(conn, cfg.DatabaseType), cfg: cfg}
}

// Create handles POST /snapshots
// The body is a raw snapshot document; it is validated before being stored
func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := middleware.ReadBody(w, r)
	if errors.Is(err, middleware.ErrBodyTooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	snap, err := ingest.Parse(payload)
	if errors.Is(err, models.ErrMissingField) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	source := r.Header.Get(middleware.HeaderIngestSource)
	id, err := h.store.SaveSnapshot(r.Context(), snap, payload, source)
	if errors.Is(err, db.ErrDuplicateSnapshot) {
		middleware.ErrorResponse(w, http.StatusConflict, "Snapshot already stored")
		return
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store snapshot")
		return
	}

	slog.Info("snapshot stored", "snapshot_id", id, "captured_at", snap.Timestamp, "source", source, "races", len(snap.Races))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSnapshotResponse{
		SnapshotID: id,
		CapturedAt: snap.Timestamp,
	})
}

// Count handles GET /snapshots/count
func (h *SnapshotHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountSnapshots(r.Context())
	if err != nil {
		slog.Error("failed to count snapshots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SnapshotCountResponse{
		SnapshotCount: count,
	})
}
