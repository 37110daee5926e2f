// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/danielhkuo/hurdle-watch/models"
)

// MissingFieldError names the absent attribute by its JSON path
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return "missing field: " + e.Path
}

func (e *MissingFieldError) Unwrap() error {
	return models.ErrMissingField
}

// Wire format of one capture. Pointers distinguish absent from zero.
type rawSnapshot struct {
	Timestamp *time.Time `json:"timestamp"`
	Races     []rawRace  `json:"races"`
}

type rawRace struct {
	Region             *string        `json:"region"`
	Candidates         []rawCandidate `json:"candidates"`
	Votes              *int64         `json:"votes"`
	PrecinctsReporting *int           `json:"precincts_reporting"`
	PrecinctsTotal     *int           `json:"precincts_total"`
	Counties           []rawCounty    `json:"counties"`
}

type rawCandidate struct {
	Name  *string `json:"name"`
	Votes *int64  `json:"votes"`
}

type rawCounty struct {
	Name          string `json:"name"`
	ExpectedVotes *int64 `json:"expected_votes"`
}

// Parse decodes one snapshot document
func Parse(data []byte) (models.Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if raw.Timestamp == nil {
		return models.Snapshot{}, &MissingFieldError{Path: "timestamp"}
	}
	if raw.Races == nil {
		return models.Snapshot{}, &MissingFieldError{Path: "races"}
	}

	snap := models.Snapshot{
		Timestamp: raw.Timestamp.UTC(),
		Races:     make([]models.RaceSnapshot, len(raw.Races)),
	}
	for i, r := range raw.Races {
		race, err := r.toRace(fmt.Sprintf("races[%d]", i))
		if err != nil {
			return models.Snapshot{}, err
		}
		race.Timestamp = snap.Timestamp
		snap.Races[i] = race
	}

	return snap, nil
}

func (r rawRace) toRace(path string) (models.RaceSnapshot, error) {
	switch {
	case r.Region == nil:
		return models.RaceSnapshot{}, &MissingFieldError{Path: path + ".region"}
	case r.Votes == nil:
		return models.RaceSnapshot{}, &MissingFieldError{Path: path + ".votes"}
	case r.PrecinctsReporting == nil:
		return models.RaceSnapshot{}, &MissingFieldError{Path: path + ".precincts_reporting"}
	case r.PrecinctsTotal == nil:
		return models.RaceSnapshot{}, &MissingFieldError{Path: path + ".precincts_total"}
	case len(r.Counties) == 0:
		return models.RaceSnapshot{}, &MissingFieldError{Path: path + ".counties"}
	}

	// Only the leading pair matters, but both must be present
	if len(r.Candidates) < 2 {
		return models.RaceSnapshot{}, &MissingFieldError{Path: fmt.Sprintf("%s.candidates[%d]", path, len(r.Candidates))}
	}
	candidates := make([]models.Candidate, len(r.Candidates))
	for i, c := range r.Candidates {
		if c.Name == nil {
			return models.RaceSnapshot{}, &MissingFieldError{Path: fmt.Sprintf("%s.candidates[%d].name", path, i)}
		}
		if c.Votes == nil {
			return models.RaceSnapshot{}, &MissingFieldError{Path: fmt.Sprintf("%s.candidates[%d].votes", path, i)}
		}
		candidates[i] = models.Candidate{Name: *c.Name, Votes: *c.Votes}
	}

	var expected int64
	for i, county := range r.Counties {
		if county.ExpectedVotes == nil {
			return models.RaceSnapshot{}, &MissingFieldError{Path: fmt.Sprintf("%s.counties[%d].expected_votes", path, i)}
		}
		expected += *county.ExpectedVotes
	}

	return models.RaceSnapshot{
		Region:             *r.Region,
		Candidates:         candidates,
		Votes:              *r.Votes,
		ExpectedVotes:      expected,
		PrecinctsReporting: *r.PrecinctsReporting,
		PrecinctsTotal:     *r.PrecinctsTotal,
	}, nil
}

// ParseFile reads and decodes a snapshot file. The raw bytes are returned
// alongside so they can be stored verbatim.
func ParseFile(path string) (models.Snapshot, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := Parse(data)
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, data, nil
}

// SortByTimestamp orders snapshots oldest first, keeping input order for ties
func SortByTimestamp(snapshots []models.Snapshot) {
	slices.SortStableFunc(snapshots, func(a, b models.Snapshot) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}
