// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/danielhkuo/hurdle-watch/models"
	"github.com/danielhkuo/hurdle-watch/trend"
)

// Columns of a region table
var Header = []string{
	"Timestamp", "Leading", "Trailing", "Differential", "Remaining",
	"New Votes", "Block Split", "Precincts", "Hurdle", "Change", "Hurdle Avg",
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignRight,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
		}),
	)
}

// WriteTable renders one region's summaries, newest first
func WriteTable(w io.Writer, region string, summaries []models.TrendSummary) error {
	if _, err := fmt.Fprintf(w, "%s (%d updates)\n", region, len(summaries)); err != nil {
		return err
	}

	table := newTable(w)
	table.Header(Header)
	if err := table.Bulk(Rows(summaries)); err != nil {
		return fmt.Errorf("failed to build table for %s: %w", region, err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table for %s: %w", region, err)
	}

	_, err := fmt.Fprintln(w)
	return err
}

// WriteAll renders every region in order; a failed region prints its error
// after whatever summaries it produced
func WriteAll(w io.Writer, trends []trend.RegionTrend) error {
	for _, rt := range trends {
		name := rt.Region
		if name == "" {
			name = fmt.Sprintf("region #%d", rt.Index)
		}
		if len(rt.Summaries) > 0 || rt.Err == nil {
			if err := WriteTable(w, name, rt.Summaries); err != nil {
				return err
			}
		}
		if rt.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: error: %v\n\n", name, rt.Err); err != nil {
				return err
			}
		}
	}
	return nil
}

// Rows formats summaries as table cells. A leader change against the
// previous (older) row is marked with an asterisk.
func Rows(summaries []models.TrendSummary) [][]string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		leading := s.LeadingCandidate
		if i+1 < len(summaries) && summaries[i+1].LeadingCandidate != s.LeadingCandidate {
			leading += " *"
		}

		rows[i] = []string{
			s.Timestamp.UTC().Format(time.DateTime),
			leading,
			s.TrailingCandidate,
			humanize.Comma(s.VoteDiff),
			humanize.Comma(s.VotesRemaining),
			humanize.Comma(s.NewVotes),
			split(s),
			fmt.Sprintf("%s/%s", humanize.Comma(int64(s.PrecinctsReporting)), humanize.Comma(int64(s.PrecinctsTotal))),
			percent(s.Hurdle),
			signedPercent(s.HurdleChange),
			average(s.HurdleMovingAverage),
		}
	}
	return rows
}

func split(s models.TrendSummary) string {
	if s.NewVotes == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%s / %s", percent(s.LeadingPartition), percent(s.TrailingPartition))
}

func percent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

func signedPercent(f float64) string {
	return fmt.Sprintf("%+.2f%%", f*100)
}

func average(f *float64) string {
	if f == nil {
		return "-"
	}
	return percent(*f)
}
