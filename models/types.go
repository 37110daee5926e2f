// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"time"
)

// ErrMissingField is returned when a snapshot lacks a required attribute
var ErrMissingField = errors.New("missing field")

// Snapshot types

// Candidate is one candidate's cumulative count within a race
type Candidate struct {
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

// RaceSnapshot is one region's two-candidate race as seen in a single capture.
// Candidates are in the order the feed lists them: index 0 leads, index 1 trails.
type RaceSnapshot struct {
	Region             string      `json:"region"`
	Timestamp          time.Time   `json:"timestamp"`
	Candidates         []Candidate `json:"candidates"`
	Votes              int64       `json:"votes"`
	ExpectedVotes      int64       `json:"expected_votes"`
	PrecinctsReporting int         `json:"precincts_reporting"`
	PrecinctsTotal     int         `json:"precincts_total"`
}

// Snapshot is one capture of the whole results feed
type Snapshot struct {
	ID        string         `json:"id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Races     []RaceSnapshot `json:"races"`
}

// Trend types

// TrendSummary is the derived record for one accepted snapshot of a region
type TrendSummary struct {
	Timestamp          time.Time `json:"timestamp"`
	LeadingCandidate   string    `json:"leading_candidate"`
	TrailingCandidate  string    `json:"trailing_candidate"`
	VoteDiff           int64     `json:"vote_differential"`
	VotesRemaining     int64     `json:"votes_remaining"`
	NewVotes           int64     `json:"new_votes"`
	LeadingPartition   float64   `json:"leading_partition"`
	TrailingPartition  float64   `json:"trailing_partition"`
	PrecinctsReporting int       `json:"precincts_reporting"`
	PrecinctsTotal     int       `json:"precincts_total"`
	Hurdle             float64   `json:"hurdle"`
	HurdleChange       float64   `json:"hurdle_change"`
	// nil when no votes could be aggregated
	HurdleMovingAverage *float64 `json:"hurdle_moving_average"`
}

// Response types

type CreateSnapshotResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	CapturedAt time.Time `json:"captured_at"`
}

type SnapshotCountResponse struct {
	SnapshotCount int `json:"snapshot_count"`
}

type RegionInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// RegionTrendsResponse carries a region's summaries, newest first. When the
// replay stopped early, Error describes the failing snapshot and Summaries
// holds what was accepted before it.
type RegionTrendsResponse struct {
	Index     int            `json:"index"`
	Region    string         `json:"region"`
	Summaries []TrendSummary `json:"summaries"`
	Error     string         `json:"error,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
