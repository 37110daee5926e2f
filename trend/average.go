// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trend

import (
	"iter"
	"math"
	"slices"

	"github.com/danielhkuo/hurdle-watch/models"
)

// window accumulates vote blocks until threshold votes have been seen
type window struct {
	threshold     int64
	votes         int64
	trailingVotes int64
}

func (w *window) add(newVotes int64, trailingPartition float64) {
	w.votes += newVotes
	w.trailingVotes += int64(math.RoundToEven(trailingPartition * float64(newVotes)))
}

func (w *window) full() bool {
	return w.votes >= w.threshold
}

func (w *window) share() *float64 {
	if w.votes == 0 {
		return nil
	}
	v := float64(w.trailingVotes) / float64(w.votes)
	return &v
}

// MovingAverage returns the trailing candidate's share over the current block
// plus as many earlier blocks as needed to reach threshold votes. history is
// newest-first; blocks with no new votes are skipped. Returns nil when no
// votes were aggregated.
func MovingAverage(history []models.TrendSummary, newVotes int64, trailingPartition float64, threshold int64) *float64 {
	return fillWindow(threshold, newVotes, trailingPartition, slices.Values(history))
}

// trailingAverage is MovingAverage over a history kept in append order
func (e *Engine) trailingAverage(accepted []models.TrendSummary, newVotes int64, trailingPartition float64) *float64 {
	return fillWindow(e.threshold, newVotes, trailingPartition, backward(accepted))
}

// fillWindow seeds a window with the current block and then takes earlier
// blocks from history, newest first, until the window is full
func fillWindow(threshold, newVotes int64, trailingPartition float64, history iter.Seq[models.TrendSummary]) *float64 {
	w := window{threshold: threshold}
	w.add(newVotes, trailingPartition)

	for s := range history {
		if w.full() {
			break
		}
		if s.NewVotes == 0 {
			continue
		}
		w.add(s.NewVotes, s.TrailingPartition)
	}

	return w.share()
}

func backward(accepted []models.TrendSummary) iter.Seq[models.TrendSummary] {
	return func(yield func(models.TrendSummary) bool) {
		for _, s := range slices.Backward(accepted) {
			if !yield(s) {
				return
			}
		}
	}
}
