// Package engine derives footprints from the activity log.
//
// Every mutation goes through Reduce, which rebuilds the lifetime total and
// the per-day map from the activities. Badges, tips, streaks, trends, the
// weekly goal and profile statistics are pure functions over that state.
// Tracker ties the reducer to a clock, an ID generator and a persistence port.
package engine

import (
	"maps"
	"slices"
	"time"
)

// DayKeyLayout formats calendar-day keys (YYYY-MM-DD).
const DayKeyLayout = "2006-01-02"

// Activity is one logged event. Emissions is derived from the factor table
// at creation and never changes afterwards.
type Activity struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Quantity    float64   `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
	Emissions   float64   `json:"emissions"`
}

// ActivityDraft is user input before it becomes an Activity.
type ActivityDraft struct {
	Category    string
	Subcategory string
	// Quantity is parsed leniently; anything unusable becomes 0.
	Quantity string
	// Date is an optional YYYY-MM-DD day. The activity is placed at noon.
	Date string
}

// Badge is an earned achievement. Badges are never revoked.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// State is the whole tracker state. TotalFootprint and DailyFootprints are
// always recomputed from Activities.
type State struct {
	Activities      []Activity         `json:"activities"`
	TotalFootprint  float64            `json:"totalFootprint"`
	DailyFootprints map[string]float64 `json:"dailyFootprints"`
	Badges          []Badge            `json:"badges"`
	Tips            []string           `json:"tips"`
}

// NewState returns an empty state with non-nil collections.
func NewState() State {
	return State{
		Activities:      []Activity{},
		DailyFootprints: map[string]float64{},
		Badges:          []Badge{},
		Tips:            []string{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := State{
		Activities:      slices.Clone(s.Activities),
		TotalFootprint:  s.TotalFootprint,
		DailyFootprints: maps.Clone(s.DailyFootprints),
		Badges:          slices.Clone(s.Badges),
		Tips:            slices.Clone(s.Tips),
	}
	if c.Activities == nil {
		c.Activities = []Activity{}
	}
	if c.DailyFootprints == nil {
		c.DailyFootprints = map[string]float64{}
	}
	if c.Badges == nil {
		c.Badges = []Badge{}
	}
	if c.Tips == nil {
		c.Tips = []string{}
	}
	return c
}

// HasBadge reports whether a badge with id is held.
func (s State) HasBadge(id string) bool {
	return slices.ContainsFunc(s.Badges, func(b Badge) bool { return b.ID == id })
}

// FindActivity returns the activity with id.
func (s State) FindActivity(id string) (Activity, bool) {
	i := slices.IndexFunc(s.Activities, func(a Activity) bool { return a.ID == id })
	if i < 0 {
		return Activity{}, false
	}
	return s.Activities[i], true
}
