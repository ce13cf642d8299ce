package engine

import (
	"sort"
	"time"
)

// LongestStreak returns the longest run of consecutive calendar days with a
// strictly positive footprint.
//
// A non-positive day ends the run and forgets the previous day, so the next
// positive day always starts a new run. Keys that are not YYYY-MM-DD never
// continue a run.
func LongestStreak(daily map[string]float64) int {
	days := make([]string, 0, len(daily))
	for k := range daily {
		days = append(days, k)
	}
	sort.Strings(days)

	var (
		longest, current int
		prev             time.Time
		hasPrev          bool
	)
	for _, day := range days {
		if daily[day] <= 0 {
			current = 0
			hasPrev = false
			continue
		}

		d, err := time.Parse(DayKeyLayout, day)
		if err == nil && hasPrev && d.Equal(prev.AddDate(0, 0, 1)) {
			current++
		} else {
			current = 1
		}
		prev, hasPrev = d, err == nil
		longest = max(longest, current)
	}
	return longest
}
