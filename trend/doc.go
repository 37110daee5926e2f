// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package trend derives per-region trend summaries from a snapshot sequence.

# Engine

An Engine replays one region's races, oldest first, and keeps only the
previous accepted snapshot's raw values between steps:

	e := trend.NewEngine(trend.DefaultThreshold)
	summaries, err := e.Process("Georgia", races)

For each snapshot it computes the lead differential, votes remaining, new
votes since the previous accepted snapshot, the split of those new votes
between the two candidates, and the hurdle:

	hurdle = ((remaining + differential) / 2) / remaining

which is the share of the remaining votes the trailing candidate needs to tie.

A snapshot whose (differential, votes, precincts reporting, hurdle) tuple
equals the previous accepted one is a duplicate and is skipped. The first
snapshot is never a duplicate. Summaries are returned newest-first.

# Moving Average

Each accepted summary carries the trailing candidate's share over the newest
vote blocks, extended backwards until at least the engine threshold
(30,000 by default) of votes are covered. Blocks with no new votes are
skipped. See MovingAverage.

# Errors

Processing stops at the first failing snapshot with a *RegionError that
wraps models.ErrMissingField or ErrNoVotesRemaining.

# Batches

ProcessRegions runs several regions concurrently; each region's failure is
reported separately in its RegionTrend.
*/
package trend
