// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package region

import (
	"fmt"
	"slices"
	"time"

	"github.com/danielhkuo/hurdle-watch/models"
)

// Selector picks the tracked races out of every snapshot by index
type Selector struct {
	Indices []int
}

// NewSelector returns a selector for the given race indices. With no indices
// it tracks every race listed in latest.
func NewSelector(indices []int, latest models.Snapshot) Selector {
	if len(indices) == 0 {
		indices = make([]int, len(latest.Races))
		for i := range latest.Races {
			indices[i] = i
		}
	}
	return Selector{Indices: slices.Clone(indices)}
}

// Tracks reports whether index is one of the selected races
func (s Selector) Tracks(index int) bool {
	return slices.Contains(s.Indices, index)
}

// Select extracts one region's race from every snapshot, preserving order.
// The region name is taken from the last snapshot.
func Select(snapshots []models.Snapshot, index int) (string, []models.RaceSnapshot, error) {
	races := make([]models.RaceSnapshot, 0, len(snapshots))
	for i, snap := range snapshots {
		if index < 0 || index >= len(snap.Races) {
			return "", nil, fmt.Errorf("%w: snapshot %d (%s) has no race at index %d",
				models.ErrMissingField, i, snap.Timestamp.Format(time.RFC3339), index)
		}
		race := snap.Races[index]
		race.Timestamp = snap.Timestamp
		races = append(races, race)
	}

	var name string
	if len(races) > 0 {
		name = races[len(races)-1].Region
	}
	return name, races, nil
}

// Names lists the regions of a snapshot with their indices
func Names(snap models.Snapshot) []models.RegionInfo {
	infos := make([]models.RegionInfo, len(snap.Races))
	for i, race := range snap.Races {
		infos[i] = models.RegionInfo{Index: i, Name: race.Region}
	}
	return infos
}
