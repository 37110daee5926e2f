// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trend

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/hurdle-watch/models"
	"github.com/danielhkuo/hurdle-watch/region"
)

// RegionTrend is the outcome of one region's run
type RegionTrend struct {
	Index     int
	Region    string
	Summaries []models.TrendSummary
	Err       error
}

// ProcessRegions runs the engine for each selected region, up to workers at a
// time. A failing region is reported in its RegionTrend and does not stop the
// others. The returned slice follows the order of sel.Indices.
func ProcessRegions(ctx context.Context, e *Engine, snapshots []models.Snapshot, sel region.Selector, workers int) ([]RegionTrend, error) {
	results := make([]RegionTrend, len(sel.Indices))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, idx := range sel.Indices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.processRegion(snapshots, idx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) processRegion(snapshots []models.Snapshot, idx int) RegionTrend {
	name, races, err := region.Select(snapshots, idx)
	if err != nil {
		slog.Error("region selection failed", "index", idx, "error", err)
		return RegionTrend{Index: idx, Err: fmt.Errorf("region #%d: %w", idx, err)}
	}

	summaries, err := e.Process(name, races)
	if err != nil {
		slog.Error("trend computation failed", "region", name, "error", err)
	} else {
		slog.Debug("trend computed", "region", name, "snapshots", len(races), "summaries", len(summaries))
	}
	return RegionTrend{Index: idx, Region: name, Summaries: summaries, Err: err}
}
