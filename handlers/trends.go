// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/hurdle-watch/cliparse"
	"github.com/danielhkuo/hurdle-watch/db"
	"github.com/danielhkuo/hurdle-watch/middleware"
	"github.com/danielhkuo/hurdle-watch/models"
	"github.com/danielhkuo/hurdle-watch/region"
	"github.com/danielhkuo/hurdle-watch/report"
	"github.com/danielhkuo/hurdle-watch/trend"
)

type TrendsHandler struct {
	store  *db.Store
	cfg    cliparse.Config
	engine *trend.Engine
}

func NewTrendsHandler(conn *sql.DB, cfg cliparse.Config) *TrendsHandler {
	return &TrendsHandler{
		store:  db.NewStore(conn, cfg.DatabaseType),
		cfg:    cfg,
		engine: trend.NewEngine(cfg.Threshold),
	}
}

// ListRegions handles GET /regions
// Returns the tracked regions as named in the latest snapshot
func (h *TrendsHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	latest, err := h.store.LatestSnapshot(r.Context())
	if errors.Is(err, db.ErrNoSnapshots) {
		middleware.JSONResponse(w, http.StatusOK, []models.RegionInfo{})
		return
	}
	if err != nil {
		slog.Error("failed to load latest snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sel := region.NewSelector(h.cfg.Regions, latest)
	regions := []models.RegionInfo{}
	for _, info := range region.Names(latest) {
		if sel.Tracks(info.Index) {
			regions = append(regions, info)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, regions)
}

// GetTrends handles GET /regions/{index}/trends
// Replays every stored snapshot for the region; summaries are newest-first.
// A replay that fails partway answers 422 with the summaries accepted so far.
func (h *TrendsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.computeTrends(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, trendStatus(resp), resp.RegionTrendsResponse)
}

// GetTrendsText handles GET /regions/{index}/trends.txt
func (h *TrendsHandler) GetTrendsText(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.computeTrends(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(trendStatus(resp))
	if err := report.WriteAll(w, []trend.RegionTrend{resp.toRegionTrend()}); err != nil {
		slog.Error("failed to write trend table", "region", resp.Region, "error", err)
	}
}

func trendStatus(resp trendsResult) int {
	if resp.err != nil {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

// trendsResult is the JSON body plus the engine error it was built from
type trendsResult struct {
	models.RegionTrendsResponse
	err error
}

func (t trendsResult) toRegionTrend() trend.RegionTrend {
	return trend.RegionTrend{Index: t.Index, Region: t.Region, Summaries: t.Summaries, Err: t.err}
}

// computeTrends writes an error response and returns false when there is
// nothing to replay
func (h *TrendsHandler) computeTrends(w http.ResponseWriter, r *http.Request) (trendsResult, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index must be a non-negative integer")
		return trendsResult{}, false
	}

	snapshots, err := h.store.ListSnapshots(r.Context())
	if err != nil {
		slog.Error("failed to load snapshots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return trendsResult{}, false
	}
	if len(snapshots) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No snapshots stored")
		return trendsResult{}, false
	}

	sel := region.NewSelector(h.cfg.Regions, snapshots[len(snapshots)-1])
	if !sel.Tracks(index) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Region not tracked")
		return trendsResult{}, false
	}

	name, races, err := region.Select(snapshots, index)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return trendsResult{}, false
	}

	result := trendsResult{RegionTrendsResponse: models.RegionTrendsResponse{
		Index:  index,
		Region: name,
	}}
	result.Summaries, result.err = h.engine.Process(name, races)
	if result.err != nil {
		slog.Warn("trend computation failed", "region", name, "accepted", len(result.Summaries), "error", result.err)
		result.Error = result.err.Error()
	}
	return result, true
}
