// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trend

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/danielhkuo/hurdle-watch/models"
)

// DefaultThreshold is the minimum number of votes the moving average aggregates
const DefaultThreshold = 30000

// iterationState holds the previous accepted snapshot's raw values.
// The zero value means no snapshot has been accepted yet.
type iterationState struct {
	valid              bool
	voteDiff           int64
	votes              int64
	precinctsReporting int
	hurdle             float64
}

// Engine derives trend summaries from a region's snapshot sequence
type Engine struct {
	threshold int64
}

// NewEngine returns an engine whose moving average aggregates at least
// threshold votes. A non-positive threshold selects DefaultThreshold.
func NewEngine(threshold int64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{threshold: threshold}
}

// Threshold returns the moving-average vote threshold
func (e *Engine) Threshold() int64 {
	return e.threshold
}

// Process replays a region's snapshots, which must be in ascending timestamp
// order, and returns the accepted summaries newest-first.
//
// On failure the summaries accepted before the failing snapshot are returned
// together with a *RegionError.
func (e *Engine) Process(region string, snapshots []models.RaceSnapshot) ([]models.TrendSummary, error) {
	var prev iterationState
	accepted := make([]models.TrendSummary, 0, len(snapshots))

	for i, snap := range snapshots {
		summary, next, err := e.step(prev, accepted, snap)
		if err != nil {
			return newestFirst(accepted), &RegionError{
				Region:    region,
				Index:     i,
				Timestamp: snap.Timestamp,
				Err:       err,
			}
		}

		// Unchanged tuple: the feed re-published the same numbers
		if next == prev {
			slog.Debug("duplicate snapshot skipped", "region", region, "index", i, "timestamp", snap.Timestamp)
			continue
		}

		accepted = append(accepted, summary)
		prev = next
	}

	return newestFirst(accepted), nil
}

// step derives the summary and candidate state for one snapshot. The summary
// is only meaningful when the returned state differs from prev.
func (e *Engine) step(prev iterationState, accepted []models.TrendSummary, snap models.RaceSnapshot) (models.TrendSummary, iterationState, error) {
	if len(snap.Candidates) < 2 {
		return models.TrendSummary{}, prev, fmt.Errorf("%w: race lists %d candidates, need 2", models.ErrMissingField, len(snap.Candidates))
	}
	leading, trailing := snap.Candidates[0], snap.Candidates[1]

	voteDiff := leading.Votes - trailing.Votes
	votesRemaining := snap.ExpectedVotes - snap.Votes
	if votesRemaining == 0 {
		return models.TrendSummary{}, prev, ErrNoVotesRemaining
	}

	var newVotes int64
	if prev.valid {
		newVotes = snap.Votes - prev.votes
	}

	hurdle := float64(votesRemaining+voteDiff) / 2 / float64(votesRemaining)

	var leadingPartition, trailingPartition float64
	if newVotes != 0 {
		trailingPartition = float64(newVotes+(prev.voteDiff-voteDiff)) / float64(2*newVotes)
		leadingPartition = 1 - trailingPartition
	}

	next := iterationState{
		valid:              true,
		voteDiff:           voteDiff,
		votes:              snap.Votes,
		precinctsReporting: snap.PrecinctsReporting,
		hurdle:             hurdle,
	}
	if next == prev {
		return models.TrendSummary{}, next, nil
	}

	summary := models.TrendSummary{
		Timestamp:           snap.Timestamp,
		LeadingCandidate:    leading.Name,
		TrailingCandidate:   trailing.Name,
		VoteDiff:            voteDiff,
		VotesRemaining:      votesRemaining,
		NewVotes:            newVotes,
		LeadingPartition:    leadingPartition,
		TrailingPartition:   trailingPartition,
		PrecinctsReporting:  snap.PrecinctsReporting,
		PrecinctsTotal:      snap.PrecinctsTotal,
		Hurdle:              hurdle,
		HurdleChange:        hurdle - prev.hurdle,
		HurdleMovingAverage: e.trailingAverage(accepted, newVotes, trailingPartition),
	}

	return summary, next, nil
}

// newestFirst returns a reversed copy of summaries kept in append order
func newestFirst(accepted []models.TrendSummary) []models.TrendSummary {
	out := slices.Clone(accepted)
	slices.Reverse(out)
	return out
}
