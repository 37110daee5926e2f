// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trend

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/danielhkuo/hurdle-watch/models"
)

const epsilon = 1e-9

var base = time.Date(2020, 11, 4, 6, 0, 0, 0, time.UTC)

// race builds a race snapshot minutes after base; votes counted is the sum of
// both candidates
func race(minutes int, leader string, leaderVotes int64, trailer string, trailerVotes int64, expected int64, precincts int) models.RaceSnapshot {
	return models.RaceSnapshot{
		Region:    "Georgia",
		Timestamp: base.Add(time.Duration(minutes) * time.Minute),
		Candidates: []models.Candidate{
			{Name: leader, Votes: leaderVotes},
			{Name: trailer, Votes: trailerVotes},
		},
		Votes:              leaderVotes + trailerVotes,
		ExpectedVotes:      expected,
		PrecinctsReporting: precincts,
		PrecinctsTotal:     2655,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestProcessExampleScenario(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	summaries, err := e.Process("Georgia", []models.RaceSnapshot{
		race(0, "Trump", 1000, "Biden", 800, 5000, 10),
		race(10, "Trump", 1100, "Biden", 900, 5000, 11),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	// Newest first
	second, first := summaries[0], summaries[1]

	if first.VoteDiff != 200 || first.VotesRemaining != 3200 {
		t.Errorf("first: diff=%d remaining=%d, want 200 and 3200", first.VoteDiff, first.VotesRemaining)
	}
	if !almostEqual(first.Hurdle, 0.53125) {
		t.Errorf("first: hurdle = %f, want 0.53125", first.Hurdle)
	}
	if first.NewVotes != 0 || first.LeadingPartition != 0 || first.TrailingPartition != 0 {
		t.Errorf("first: new=%d partitions=(%f, %f), want 0 and (0, 0)",
			first.NewVotes, first.LeadingPartition, first.TrailingPartition)
	}
	if first.HurdleMovingAverage != nil {
		t.Errorf("first: moving average = %f, want nil", *first.HurdleMovingAverage)
	}
	if !almostEqual(first.HurdleChange, first.Hurdle) {
		t.Errorf("first: hurdle change = %f, want %f", first.HurdleChange, first.Hurdle)
	}

	if second.VoteDiff != 200 || second.NewVotes != 200 {
		t.Errorf("second: diff=%d new=%d, want 200 and 200", second.VoteDiff, second.NewVotes)
	}
	if !almostEqual(second.TrailingPartition, 0.5) || !almostEqual(second.LeadingPartition, 0.5) {
		t.Errorf("second: partitions = (%f, %f), want (0.5, 0.5)", second.LeadingPartition, second.TrailingPartition)
	}
	if !almostEqual(second.Hurdle, 3200.0/2/3000) {
		t.Errorf("second: hurdle = %f, want %f", second.Hurdle, 3200.0/2/3000)
	}
	if second.HurdleMovingAverage == nil || !almostEqual(*second.HurdleMovingAverage, 0.5) {
		t.Errorf("second: moving average = %v, want 0.5", second.HurdleMovingAverage)
	}
	if second.LeadingCandidate != "Trump" || second.TrailingCandidate != "Biden" {
		t.Errorf("second: candidates = %s/%s", second.LeadingCandidate, second.TrailingCandidate)
	}
	if second.PrecinctsReporting != 11 || second.PrecinctsTotal != 2655 {
		t.Errorf("second: precincts = %d/%d", second.PrecinctsReporting, second.PrecinctsTotal)
	}
}

func TestProcessSkipsDuplicates(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	summaries, err := e.Process("Georgia", []models.RaceSnapshot{
		race(0, "Trump", 1000, "Biden", 800, 5000, 10),
		race(5, "Trump", 1000, "Biden", 800, 5000, 10), // republished
		race(10, "Trump", 1100, "Biden", 900, 5000, 11),
		race(15, "Trump", 1100, "Biden", 900, 5000, 11), // republished
		race(20, "Trump", 1100, "Biden", 900, 5000, 11), // republished
		race(25, "Trump", 1150, "Biden", 1000, 5000, 12),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(summaries))
	}

	// Accepted snapshots keep their own timestamps
	wantTimes := []time.Time{base.Add(25 * time.Minute), base.Add(10 * time.Minute), base}
	for i, s := range summaries {
		if !s.Timestamp.Equal(wantTimes[i]) {
			t.Errorf("summary %d timestamp = %s, want %s", i, s.Timestamp, wantTimes[i])
		}
	}

	// New votes are measured against the last accepted snapshot
	latest := summaries[0]
	if latest.NewVotes != 150 {
		t.Errorf("Expected 150 new votes, got %d", latest.NewVotes)
	}
	// diff 200 -> 150 over 150 new votes: trailing took (150+50)/300
	if !almostEqual(latest.TrailingPartition, 200.0/300) {
		t.Errorf("Expected trailing partition %f, got %f", 200.0/300, latest.TrailingPartition)
	}
}

func TestProcessDuplicateInsertionIsIdempotent(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	seq := []models.RaceSnapshot{
		race(0, "Trump", 1000, "Biden", 800, 5000, 10),
		race(10, "Trump", 1100, "Biden", 900, 5000, 11),
		race(20, "Trump", 1400, "Biden", 1100, 5000, 12),
	}
	want, err := e.Process("Georgia", seq)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i := range seq {
		dup := seq[i]
		dup.Timestamp = dup.Timestamp.Add(time.Minute)

		withDup := append([]models.RaceSnapshot{}, seq[:i+1]...)
		withDup = append(withDup, dup)
		withDup = append(withDup, seq[i+1:]...)

		got, err := e.Process("Georgia", withDup)
		if err != nil {
			t.Fatalf("Process() with duplicate after %d: error = %v", i, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("duplicate after snapshot %d changed the summaries", i)
		}
	}
}

func TestProcessPrecinctOnlyChange(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	summaries, err := e.Process("Georgia", []models.RaceSnapshot{
		race(0, "Trump", 1000, "Biden", 800, 5000, 10),
		race(10, "Trump", 1100, "Biden", 900, 5000, 11),
		race(20, "Trump", 1100, "Biden", 900, 5000, 12),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(summaries))
	}

	latest := summaries[0]
	if latest.NewVotes != 0 || latest.LeadingPartition != 0 || latest.TrailingPartition != 0 {
		t.Errorf("Expected no new votes and zero partitions, got %+v", latest)
	}
	if latest.HurdleChange != 0 {
		t.Errorf("Expected no hurdle change, got %f", latest.HurdleChange)
	}
	// Earlier blocks still feed the average
	if latest.HurdleMovingAverage == nil || !almostEqual(*latest.HurdleMovingAverage, 0.5) {
		t.Errorf("Expected moving average 0.5, got %v", latest.HurdleMovingAverage)
	}
}

func TestProcessLeadershipChange(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	summaries, err := e.Process("Georgia", []models.RaceSnapshot{
		race(0, "Trump", 1000, "Biden", 800, 5000, 10),
		race(10, "Biden", 1300, "Trump", 1100, 5000, 11),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	latest := summaries[0]
	if latest.LeadingCandidate != "Biden" || latest.TrailingCandidate != "Trump" {
		t.Errorf("Expected Biden leading Trump, got %s leading %s", latest.LeadingCandidate, latest.TrailingCandidate)
	}
	if latest.VoteDiff != 200 {
		t.Errorf("Expected differential 200, got %d", latest.VoteDiff)
	}
	if latest.NewVotes != 600 {
		t.Errorf("Expected 600 new votes, got %d", latest.NewVotes)
	}
	// Differentials are taken in list order, so an equal lead splits the block evenly
	if !almostEqual(latest.TrailingPartition, 0.5) {
		t.Errorf("Expected trailing partition 0.5, got %f", latest.TrailingPartition)
	}
}

// longSequence is a count with uneven block sizes and a lead that narrows
func longSequence() []models.RaceSnapshot {
	blocks := []struct {
		leader, trailer int64
	}{
		{0, 0}, {30000, 12000}, {800, 900}, {60000, 58000}, {0, 0}, {150, 420},
		{12000, 30000}, {5000, 5000}, {90000, 110000}, {10, 11}, {25000, 40000},
	}

	var seq []models.RaceSnapshot
	leader, trailer := int64(2400000), int64(2300000)
	for i, b := range blocks {
		leader += b.leader
		trailer += b.trailer
		seq = append(seq, race(i*15, "Trump", leader, "Biden", trailer, 6000000, 2000+i))
	}
	return seq
}

func TestProcessProperties(t *testing.T) {
	e := NewEngine(DefaultThreshold)
	seq := longSequence()

	summaries, err := e.Process("Georgia", seq)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(summaries) == 0 {
		t.Fatal("Expected summaries")
	}

	t.Run("deterministic", func(t *testing.T) {
		again, err := e.Process("Georgia", seq)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if !reflect.DeepEqual(again, summaries) {
			t.Error("Two runs over the same sequence differ")
		}
	})

	t.Run("first snapshot has no new votes", func(t *testing.T) {
		first := summaries[len(summaries)-1]
		if first.NewVotes != 0 || first.LeadingPartition != 0 || first.TrailingPartition != 0 {
			t.Errorf("First summary = %+v", first)
		}
	})

	t.Run("partitions sum to one", func(t *testing.T) {
		for i, s := range summaries {
			if s.NewVotes == 0 {
				continue
			}
			if !almostEqual(s.LeadingPartition+s.TrailingPartition, 1) {
				t.Errorf("summary %d: partitions sum to %f", i, s.LeadingPartition+s.TrailingPartition)
			}
		}
	})

	t.Run("hurdle change is the difference of consecutive hurdles", func(t *testing.T) {
		for i := 0; i+1 < len(summaries); i++ {
			want := summaries[i].Hurdle - summaries[i+1].Hurdle
			if !almostEqual(summaries[i].HurdleChange, want) {
				t.Errorf("summary %d: hurdle change %f, want %f", i, summaries[i].HurdleChange, want)
			}
		}
	})

	t.Run("strictly ordered with no repeated tuples", func(t *testing.T) {
		for i := 0; i+1 < len(summaries); i++ {
			newer, older := summaries[i], summaries[i+1]
			if !newer.Timestamp.After(older.Timestamp) {
				t.Errorf("summary %d is not newer than %d", i, i+1)
			}
			if newer.VoteDiff == older.VoteDiff && newer.VotesRemaining == older.VotesRemaining &&
				newer.PrecinctsReporting == older.PrecinctsReporting && newer.Hurdle == older.Hurdle {
				t.Errorf("summaries %d and %d share the dedup tuple", i, i+1)
			}
		}
	})
}

func TestProcessNoVotesRemaining(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	summaries, err := e.Process("Georgia", []models.RaceSnapshot{
		race(0, "Trump", 1000, "Biden", 800, 5000, 10),
		race(10, "Trump", 1100, "Biden", 900, 5000, 11),
		race(20, "Trump", 2700, "Biden", 2300, 5000, 12), // fully counted
		race(30, "Trump", 2700, "Biden", 2300, 6000, 12),
	})
	if !errors.Is(err, ErrNoVotesRemaining) {
		t.Fatalf("Expected ErrNoVotesRemaining, got %v", err)
	}

	var regionErr *RegionError
	if !errors.As(err, &regionErr) {
		t.Fatalf("Expected *RegionError, got %T", err)
	}
	if regionErr.Region != "Georgia" || regionErr.Index != 2 {
		t.Errorf("RegionError = %+v, want Georgia at index 2", regionErr)
	}
	if !regionErr.Timestamp.Equal(base.Add(20 * time.Minute)) {
		t.Errorf("RegionError timestamp = %s", regionErr.Timestamp)
	}

	// Summaries before the failure are kept, nothing after it
	if len(summaries) != 2 {
		t.Errorf("Expected 2 summaries before the failure, got %d", len(summaries))
	}
}

func TestProcessMissingCandidate(t *testing.T) {
	e := NewEngine(DefaultThreshold)

	snap := race(0, "Trump", 1000, "Biden", 800, 5000, 10)
	snap.Candidates = snap.Candidates[:1]

	_, err := e.Process("Georgia", []models.RaceSnapshot{snap})
	if !errors.Is(err, models.ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
}

func TestProcessEmpty(t *testing.T) {
	summaries, err := NewEngine(0).Process("Georgia", nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected no summaries, got %d", len(summaries))
	}
}

func TestNewEngineThreshold(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{0, DefaultThreshold},
		{-1, DefaultThreshold},
		{50000, 50000},
	}
	for _, tt := range tests {
		if got := NewEngine(tt.in).Threshold(); got != tt.want {
			t.Errorf("NewEngine(%d).Threshold() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
