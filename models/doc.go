// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines snapshot, trend, and response types shared across packages.

# Snapshot Types

Typed captures produced by the ingest package:

  - Snapshot: one capture of the results feed (timestamp, races)
  - RaceSnapshot: one region's race (candidates, votes, expected votes, precincts)
  - Candidate: name and cumulative votes

Candidate order is significant: the feed lists the current leader first.

# Trend Types

  - TrendSummary: derived record per accepted snapshot (differential, votes
    remaining, new votes, partitions, hurdle, hurdle change, moving average)

HurdleMovingAverage is a pointer; nil means no votes were aggregated and is
serialized as JSON null.

# Response Types

  - CreateSnapshotResponse: snapshot_id, captured_at
  - SnapshotCountResponse: snapshot_count
  - RegionInfo: index, name
  - RegionTrendsResponse: index, region, summaries
  - ErrorResponse: error, message

# Errors

ErrMissingField is the shared sentinel for absent snapshot attributes. Use
errors.Is to detect it through the typed errors of ingest and trend.
*/
package models
