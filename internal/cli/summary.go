package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
)

// summaryParams holds the flags of the summary command.
type summaryParams struct {
	reduction       float64
	exitOnThreshold bool
	exitCode        int
}

// NewSummaryCmd creates the "summary" command showing the dashboard.
func NewSummaryCmd() *cobra.Command {
	var params summaryParams

	cmd := &cobra.Command{
		Use:     "summary",
		Aliases: []string{"dashboard"},
		Short:   "Show the footprint dashboard",
		Long: `Show totals, the last seven days with their trend and a what-if
projection, category and monthly totals, badges, tips and the weekly goal.

With --exit-on-threshold the command exits with --exit-code when the weekly
goal is exceeded, which makes it usable in scripts and CI.`,
		Example: `  ecopulse summary
  ecopulse summary --reduction 30
  ecopulse summary --exit-on-threshold --exit-code 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSummary(cmd, params)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&params.reduction, "reduction", 0, "what-if reduction percentage (default tracker.what_if_reduction)")
	f.BoolVar(&params.exitOnThreshold, "exit-on-threshold", false, "exit non-zero when the weekly goal is exceeded")
	f.IntVar(&params.exitCode, "exit-code", 0, "exit code used with --exit-on-threshold (default goal.exit_code)")

	return cmd
}

func executeSummary(cmd *cobra.Command, params summaryParams) error {
	return withSession(cmd, func(s *session) error {
		reduction := s.cfg.Tracker.WhatIfReduction
		if cmd.Flags().Changed("reduction") {
			reduction = params.reduction
		}
		gc := s.cfg.Goal
		if cmd.Flags().Changed("exit-on-threshold") {
			gc.ExitOnThreshold = params.exitOnThreshold
		}
		if cmd.Flags().Changed("exit-code") {
			gc.ExitCode = params.exitCode
		}

		d := s.tracker.Dashboard(s.tracker.Now(), reduction)
		if handled, err := writeStructured(cmd.OutOrStdout(), d, []engine.Dashboard{d}); handled {
			if err != nil {
				return err
			}
			return checkGoalExit(cmd, d.Goal, gc)
		}
		if err := renderDashboard(cmd.OutOrStdout(), d); err != nil {
			return err
		}
		return checkGoalExit(cmd, d.Goal, gc)
	})
}

func renderDashboard(w io.Writer, d engine.Dashboard) error {
	writeHeading(w, "CARBON FOOTPRINT")
	_, _ = fmt.Fprintf(w, "Total:   %s CO2e\n", formatKg(d.TotalFootprint))
	if eq := greenops.ForFootprint(d.TotalFootprint); !eq.IsEmpty {
		_, _ = fmt.Fprintf(w, "         %s\n", muted(w, eq.DisplayText))
	}
	_, _ = fmt.Fprintf(w, "Today:   %s (global average %s)\n", formatKg(d.TodayFootprint), formatKg(d.GlobalAverage))
	_, _ = fmt.Fprintf(w, "Logged:  %d activities, longest streak %d days\n\n", d.ActivityCount, d.LongestStreak)

	if err := renderDailySeries(w, d); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)

	if len(d.CategoryTotals) > 0 {
		writeHeading(w, "BY CATEGORY")
		if err := renderCategoryTotals(w, d.CategoryTotals); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(d.Monthly) > 0 {
		writeHeading(w, "BY MONTH")
		tw := newTable(w)
		for _, m := range d.Monthly {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", m.Month, formatKg(m.Total))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
		_, _ = fmt.Fprintln(w)
	}

	renderBadgeList(w, d.Badges)
	renderTipList(w, d.Tips)

	return RenderGoalStatus(w, d.Goal)
}

// renderDailySeries writes the last days with their fitted trend and
// what-if projection.
func renderDailySeries(w io.Writer, d engine.Dashboard) error {
	writeHeading(w, fmt.Sprintf("LAST %d DAYS", len(d.LastDays)))
	tw := newTable(w)
	_, _ = fmt.Fprintf(tw, "DAY\tACTUAL\tTREND\tWHAT-IF (-%s%%)\n", formatDecimal(d.WhatIf.Reduction))
	for i, day := range d.LastDays {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			day.Day,
			formatKg(day.Total),
			formatKg(valueAt(d.Trend.Fitted, i)),
			formatKg(valueAt(d.WhatIf.Projected, i)))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Trend: %s kg/day. A %s%% cut would save %s over these days.\n",
		greenops.FormatFloat(d.Trend.Slope, precision()),
		formatDecimal(d.WhatIf.Reduction),
		formatKg(d.WhatIf.Saved))
	return nil
}

func renderCategoryTotals(w io.Writer, totals map[string]float64) error {
	names := make([]string, 0, len(totals))
	for k := range totals {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	tw := newTable(w)
	for _, n := range names {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", n, formatKg(totals[n]))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
