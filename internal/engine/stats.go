package engine

import (
	"math"
	"slices"
	"sort"

	"github.com/rshade/ecopulse/internal/greenops"
)

// Impact levels relative to the global daily average.
const (
	ImpactExcellent        = "Excellent"
	ImpactGood             = "Good"
	ImpactAverage          = "Average"
	ImpactNeedsImprovement = "Needs Improvement"
)

// Impact level bounds as multiples of the global average.
const (
	impactExcellentRatio = 0.7
	impactAverageRatio   = 1.3
)

// RecentActivityCount is how many activities Profile lists as recent.
const RecentActivityCount = 5

// noCategory is reported when nothing has been logged.
const noCategory = "None"

// Profile summarises the whole history.
type Profile struct {
	TotalDays        int        `json:"totalDays"`
	TotalFootprint   float64    `json:"totalFootprint"`
	AverageDaily     float64    `json:"averageDaily"`
	BestDay          DayTotal   `json:"bestDay"`
	WorstDay         DayTotal   `json:"worstDay"`
	MostUsedCategory string     `json:"mostUsedCategory"`
	MostUsedCount    int        `json:"mostUsedCount"`
	DaysUnderAverage int        `json:"daysUnderAverage"`
	ImpactLevel      string     `json:"impactLevel"`
	BadgeCount       int        `json:"badgeCount"`
	LongestStreak    int        `json:"longestStreak"`
	RecentActivities []Activity `json:"recentActivities"`
}

// ComputeProfile derives profile statistics from s against globalAverage.
//
// BestDay is the lowest day and WorstDay the highest strictly positive day;
// both are empty when no day qualifies. Ties go to the earliest day.
// MostUsedCategory counts activities, visiting known categories in table
// order, and stays "None" for an empty log.
func ComputeProfile(s State, globalAverage float64) Profile {
	if globalAverage <= 0 {
		globalAverage = greenops.GlobalAverageDailyKg
	}

	days := make([]string, 0, len(s.DailyFootprints))
	for d := range s.DailyFootprints {
		days = append(days, d)
	}
	sort.Strings(days)

	p := Profile{
		TotalDays:        len(days),
		TotalFootprint:   s.TotalFootprint,
		MostUsedCategory: noCategory,
		BadgeCount:       len(s.Badges),
		LongestStreak:    LongestStreak(s.DailyFootprints),
		RecentActivities: recentActivities(s.Activities, RecentActivityCount),
	}
	if p.TotalDays > 0 {
		p.AverageDaily = s.TotalFootprint / float64(p.TotalDays)
	}

	best := math.Inf(1)
	for _, d := range days {
		v := s.DailyFootprints[d]
		if v < best {
			best = v
			p.BestDay = DayTotal{Day: d, Total: v}
		}
		if v > p.WorstDay.Total {
			p.WorstDay = DayTotal{Day: d, Total: v}
		}
		if v < globalAverage {
			p.DaysUnderAverage++
		}
	}

	counts := CategoryCounts(s.Activities)
	order := greenops.Categories()
	var extra []string
	for c := range counts {
		if !greenops.IsKnownCategory(c) {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range append(order, extra...) {
		if counts[c] > p.MostUsedCount {
			p.MostUsedCategory = c
			p.MostUsedCount = counts[c]
		}
	}

	p.ImpactLevel = ImpactLevel(p.AverageDaily, globalAverage)
	return p
}

// ImpactLevel grades an average daily footprint against globalAverage.
func ImpactLevel(avg, globalAverage float64) string {
	switch {
	case avg < globalAverage*impactExcellentRatio:
		return ImpactExcellent
	case avg < globalAverage:
		return ImpactGood
	case avg < globalAverage*impactAverageRatio:
		return ImpactAverage
	default:
		return ImpactNeedsImprovement
	}
}

// recentActivities returns the last n activities, newest first.
func recentActivities(activities []Activity, n int) []Activity {
	start := max(0, len(activities)-n)
	recent := slices.Clone(activities[start:])
	slices.Reverse(recent)
	if recent == nil {
		recent = []Activity{}
	}
	return recent
}
