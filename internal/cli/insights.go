package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
)

// Trend window bounds.
const (
	defaultTrendDays = engine.DashboardDays
	maxTrendDays     = 366
)

// ErrInvalidDays rejects a --days value outside 1..366.
var ErrInvalidDays = errors.New("days must be between 1 and 366")

// trendReport is the JSON form of the trend command.
type trendReport struct {
	Days  []engine.DayTotal `json:"days"`
	Trend engine.TrendFit   `json:"trend"`
}

// NewTrendCmd creates the "trend" command.
func NewTrendCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show daily totals with a least-squares trend line",
		Example: `  ecopulse trend
  ecopulse trend --days 30 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 || days > maxTrendDays {
				return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
			}
			return withSession(cmd, func(s *session) error {
				series := engine.LastNDays(s.tracker.State().DailyFootprints, s.tracker.Now(), days)
				report := trendReport{Days: series, Trend: engine.TrendLine(engine.Values(series))}
				if handled, err := writeStructured(cmd.OutOrStdout(), report, series); handled {
					return err
				}
				return renderTrend(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", defaultTrendDays, "number of days ending today")

	return cmd
}

func renderTrend(w io.Writer, r trendReport) error {
	writeHeading(w, "TREND")
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "DAY\tACTUAL\tTREND")
	for i, d := range r.Days {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Day, formatKg(d.Total), formatKg(valueAt(r.Trend.Fitted, i)))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	direction := "flat"
	switch {
	case r.Trend.Slope > 0:
		direction = "rising"
	case r.Trend.Slope < 0:
		direction = "falling"
	}
	_, _ = fmt.Fprintf(w, "Slope: %s kg/day (%s)\n", greenops.FormatFloat(r.Trend.Slope, precision()), direction)
	return nil
}

// NewWhatIfCmd creates the "whatif" command.
func NewWhatIfCmd() *cobra.Command {
	var (
		reduction float64
		days      int
	)

	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Project recent days with a percentage reduction",
		Long: `Apply a reduction of 0-100% to each of the last days and show the result.
Values outside 0-100 are clamped.`,
		Example: `  ecopulse whatif --reduction 25`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 1 || days > maxTrendDays {
				return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
			}
			return withSession(cmd, func(s *session) error {
				if !cmd.Flags().Changed("reduction") {
					reduction = s.cfg.Tracker.WhatIfReduction
				}
				series := engine.LastNDays(s.tracker.State().DailyFootprints, s.tracker.Now(), days)
				res := engine.WhatIf(engine.Values(series), reduction)
				if handled, err := writeStructured(cmd.OutOrStdout(), res, []engine.WhatIfResult{res}); handled {
					return err
				}
				return renderWhatIf(cmd.OutOrStdout(), series, res)
			})
		},
	}

	cmd.Flags().Float64Var(&reduction, "reduction", 0, "reduction percentage (default tracker.what_if_reduction)")
	cmd.Flags().IntVar(&days, "days", defaultTrendDays, "number of days ending today")

	return cmd
}

func renderWhatIf(w io.Writer, series []engine.DayTotal, res engine.WhatIfResult) error {
	writeHeading(w, fmt.Sprintf("WHAT IF: %s%% LESS", formatDecimal(res.Reduction)))
	tw := newTable(w)
	_, _ = fmt.Fprintln(tw, "DAY\tACTUAL\tPROJECTED")
	for i, d := range series {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Day, formatKg(d.Total), formatKg(valueAt(res.Projected, i)))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Total: %s -> %s, saving %s\n",
		formatKg(res.BaselineTotal), formatKg(res.ProjectedTotal), formatKg(res.Saved))
	return nil
}

// badgeView is one achievement with its earned state.
type badgeView struct {
	engine.Badge
	Earned bool `json:"earned"`
}

// NewBadgesCmd creates the "badges" command listing every achievement.
func NewBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "List achievements and which ones you have earned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				views := badgeViews(s.tracker.State())
				if handled, err := writeStructured(cmd.OutOrStdout(), views, views); handled {
					return err
				}
				out := cmd.OutOrStdout()
				writeHeading(out, "BADGES")
				tw := newTable(out)
				for _, v := range views {
					mark, when := "[ ]", ""
					if v.Earned {
						mark, when = "[x]", v.EarnedAt.Format(engine.DayKeyLayout)
					}
					_, _ = fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", mark, v.Icon, v.Name, v.Description, when)
				}
				if err := tw.Flush(); err != nil {
					return fmt.Errorf("writing table: %w", err)
				}
				return nil
			})
		},
	}
}

// badgeViews merges the rule catalogue with the earned badges.
func badgeViews(s engine.State) []badgeView {
	earned := make(map[string]engine.Badge, len(s.Badges))
	for _, b := range s.Badges {
		earned[b.ID] = b
	}
	rules := engine.BadgeRules()
	views := make([]badgeView, 0, len(rules))
	for _, r := range rules {
		if b, ok := earned[r.Badge.ID]; ok {
			views = append(views, badgeView{Badge: b, Earned: true})
			continue
		}
		views = append(views, badgeView{Badge: r.Badge})
	}
	return views
}

func renderBadgeList(w io.Writer, badges []engine.Badge) {
	if len(badges) == 0 {
		return
	}
	writeHeading(w, "BADGES")
	for _, b := range badges {
		_, _ = fmt.Fprintf(w, "%s %s - %s\n", b.Icon, b.Name, b.Description)
	}
	_, _ = fmt.Fprintln(w)
}

// NewTipsCmd creates the "tips" command.
func NewTipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Show tips for your highest-emitting category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				tips := s.tracker.State().Tips
				if handled, err := writeStructured(cmd.OutOrStdout(), tips, tips); handled {
					return err
				}
				renderTipList(cmd.OutOrStdout(), tips)
				return nil
			})
		},
	}
}

func renderTipList(w io.Writer, tips []string) {
	if len(tips) == 0 {
		return
	}
	writeHeading(w, "TIPS")
	for _, t := range tips {
		_, _ = fmt.Fprintf(w, "- %s\n", t)
	}
	_, _ = fmt.Fprintln(w)
}

// NewStatsCmd creates the "stats" command showing profile statistics.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"profile"},
		Short:   "Show lifetime statistics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				p := s.tracker.Profile()
				if handled, err := writeStructured(cmd.OutOrStdout(), p, []engine.Profile{p}); handled {
					return err
				}
				return renderProfile(cmd.OutOrStdout(), p)
			})
		},
	}
}

func renderProfile(w io.Writer, p engine.Profile) error {
	writeHeading(w, "PROFILE")
	tw := newTable(w)
	_, _ = fmt.Fprintf(tw, "Days tracked\t%d\n", p.TotalDays)
	_, _ = fmt.Fprintf(tw, "Total footprint\t%s\n", formatKg(p.TotalFootprint))
	_, _ = fmt.Fprintf(tw, "Daily average\t%s\n", formatKg(p.AverageDaily))
	_, _ = fmt.Fprintf(tw, "Impact level\t%s\n", p.ImpactLevel)
	if p.BestDay.Day != "" {
		_, _ = fmt.Fprintf(tw, "Best day\t%s (%s)\n", p.BestDay.Day, formatKg(p.BestDay.Total))
	}
	if p.WorstDay.Day != "" {
		_, _ = fmt.Fprintf(tw, "Worst day\t%s (%s)\n", p.WorstDay.Day, formatKg(p.WorstDay.Total))
	}
	_, _ = fmt.Fprintf(tw, "Most used category\t%s (%d)\n", p.MostUsedCategory, p.MostUsedCount)
	_, _ = fmt.Fprintf(tw, "Days under average\t%d\n", p.DaysUnderAverage)
	_, _ = fmt.Fprintf(tw, "Longest streak\t%d days\n", p.LongestStreak)
	_, _ = fmt.Fprintf(tw, "Badges\t%d\n", p.BadgeCount)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	if len(p.RecentActivities) > 0 {
		_, _ = fmt.Fprintln(w)
		writeHeading(w, "RECENT")
		for _, a := range p.RecentActivities {
			_, _ = fmt.Fprintf(w, "%s  %s %s %s  %s\n",
				a.Timestamp.Format(engine.DayKeyLayout), a.Category, a.Subcategory, formatQuantity(a), formatKg(a.Emissions))
		}
	}
	return nil
}

// NewFactorsCmd creates the "factors" command listing the emission factors.
func NewFactorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "List emission factors (kg CO2e per unit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := greenops.FactorTable()
			if handled, err := writeStructured(cmd.OutOrStdout(), rows, rows); handled {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(tw, "CATEGORY\tTYPE\tKG CO2E\tPER")
			for _, r := range rows {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					r.Category, r.Subcategory, formatDecimal(r.Factor), r.Unit)
			}
			if err := tw.Flush(); err != nil {
				return fmt.Errorf("writing table: %w", err)
			}
			return nil
		},
	}
}
