// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ingest decodes snapshot documents into typed models.Snapshot values.

# Document Format

	{
	  "timestamp": "2020-11-05T14:00:00Z",
	  "races": [
	    {
	      "region": "Georgia",
	      "candidates": [{"name": "Trump", "votes": 2431000}, {"name": "Biden", "votes": 2412000}],
	      "votes": 4880000,
	      "precincts_reporting": 2600,
	      "precincts_total": 2655,
	      "counties": [{"name": "Fulton", "expected_votes": 520000}, ...]
	    }
	  ]
	}

Expected votes for a race are the sum of its counties' expected_votes.

# Validation

Every field above is required. A missing field is reported as a
*MissingFieldError carrying its JSON path, which unwraps to
models.ErrMissingField:

	snap, err := ingest.Parse(data)
	if errors.Is(err, models.ErrMissingField) { ... }
*/
package ingest
