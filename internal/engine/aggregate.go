package engine

import (
	"sort"
	"time"
)

// DayTotal is the footprint of one calendar day.
type DayTotal struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// MonthTotal is the footprint of one calendar month (YYYY-MM).
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// DayKey returns the YYYY-MM-DD key of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// TotalFootprint sums emissions over activities.
func TotalFootprint(activities []Activity) float64 {
	total := 0.0
	for _, a := range activities {
		total += a.Emissions
	}
	return total
}

// DailyFootprints groups emissions by local calendar day.
func DailyFootprints(activities []Activity, loc *time.Location) map[string]float64 {
	daily := make(map[string]float64)
	for _, a := range activities {
		daily[DayKey(a.Timestamp, loc)] += a.Emissions
	}
	return daily
}

// CategoryTotals sums emissions per category.
func CategoryTotals(activities []Activity) map[string]float64 {
	totals := make(map[string]float64)
	for _, a := range activities {
		totals[a.Category] += a.Emissions
	}
	return totals
}

// CategoryCounts counts activities per category.
func CategoryCounts(activities []Activity) map[string]int {
	counts := make(map[string]int)
	for _, a := range activities {
		counts[a.Category]++
	}
	return counts
}

// CountSubcategory counts activities with the given subcategory in any category.
func CountSubcategory(activities []Activity, subcategory string) int {
	n := 0
	for _, a := range activities {
		if a.Subcategory == subcategory {
			n++
		}
	}
	return n
}

// WeekBounds returns Monday 00:00 and Sunday 23:59:59.999 of the week
// containing now, in now's location.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	y, m, d := now.Date()
	start := time.Date(y, m, d-weekday+1, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d-weekday+7, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}

// WeekFootprint sums emissions of activities inside the week containing now.
func WeekFootprint(activities []Activity, now time.Time) float64 {
	start, end := WeekBounds(now)
	total := 0.0
	for _, a := range activities {
		if !a.Timestamp.Before(start) && !a.Timestamp.After(end) {
			total += a.Emissions
		}
	}
	return total
}

// WeeklyTotals maps the Monday key of each week to its footprint.
func WeeklyTotals(activities []Activity, loc *time.Location) map[string]float64 {
	if loc == nil {
		loc = time.Local
	}
	totals := make(map[string]float64)
	for _, a := range activities {
		start, _ := WeekBounds(a.Timestamp.In(loc))
		totals[start.Format(DayKeyLayout)] += a.Emissions
	}
	return totals
}

// MonthlyTotals returns per-month footprints sorted by month.
func MonthlyTotals(activities []Activity, loc *time.Location) []MonthTotal {
	if loc == nil {
		loc = time.Local
	}
	sums := make(map[string]float64)
	for _, a := range activities {
		sums[a.Timestamp.In(loc).Format("2006-01")] += a.Emissions
	}
	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthTotal, 0, len(months))
	for _, m := range months {
		out = append(out, MonthTotal{Month: m, Total: sums[m]})
	}
	return out
}

// LastNDays returns the n days ending on now's day, oldest first. Days
// without an entry in daily are 0.
func LastNDays(daily map[string]float64, now time.Time, n int) []DayTotal {
	if n <= 0 {
		return []DayTotal{}
	}
	out := make([]DayTotal, n)
	y, m, d := now.Date()
	for i := range n {
		day := time.Date(y, m, d-(n-1-i), 12, 0, 0, 0, now.Location()).Format(DayKeyLayout)
		out[i] = DayTotal{Day: day, Total: daily[day]}
	}
	return out
}

// Values extracts the totals of a day series.
func Values(days []DayTotal) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.Total
	}
	return out
}
