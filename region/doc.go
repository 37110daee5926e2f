// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package region selects the tracked races out of each snapshot.

A Selector holds the race indices to follow. The same indices are applied to
every snapshot in a sequence:

	sel := region.NewSelector(cfg.Regions, latest)
	for _, idx := range sel.Indices {
		name, races, err := region.Select(snapshots, idx)
		...
	}

An index missing from any snapshot fails with models.ErrMissingField.
*/
package region
