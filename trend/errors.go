// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package trend

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoVotesRemaining is returned when a race has no uncounted votes left,
// which leaves the hurdle undefined.
var ErrNoVotesRemaining = errors.New("no votes remaining")

// RegionError reports which snapshot stopped a region's run
type RegionError struct {
	Region    string
	Index     int
	Timestamp time.Time
	Err       error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region %q: snapshot %d (%s): %v",
		e.Region, e.Index, e.Timestamp.Format(time.RFC3339), e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}
