package engine

import (
	"fmt"
	"time"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// ActivityFilter selects activities by category and an inclusive day range.
type ActivityFilter struct {
	// Category is a category name, or "" / "all" for every category.
	Category string
	// From and To are optional YYYY-MM-DD days; To covers the whole day.
	From string
	To   string
}

// compiledFilter holds parsed bounds.
type compiledFilter struct {
	category string
	from, to time.Time
	hasFrom  bool
	hasTo    bool
}

func (f ActivityFilter) compile(loc *time.Location) (compiledFilter, error) {
	if loc == nil {
		loc = time.Local
	}
	c := compiledFilter{category: f.Category}
	if c.category == CategoryAll {
		c.category = ""
	}
	if f.From != "" {
		d, err := time.ParseInLocation(DayKeyLayout, f.From, loc)
		if err != nil {
			return c, fmt.Errorf("invalid from date %q: %w", f.From, err)
		}
		c.from, c.hasFrom = d, true
	}
	if f.To != "" {
		d, err := time.ParseInLocation(DayKeyLayout, f.To, loc)
		if err != nil {
			return c, fmt.Errorf("invalid to date %q: %w", f.To, err)
		}
		c.to, c.hasTo = d.AddDate(0, 0, 1), true
	}
	return c, nil
}

func (c compiledFilter) match(a Activity) bool {
	if c.category != "" && a.Category != c.category {
		return false
	}
	if c.hasFrom && a.Timestamp.Before(c.from) {
		return false
	}
	if c.hasTo && !a.Timestamp.Before(c.to) {
		return false
	}
	return true
}

// FilterActivities returns the activities matching f, in log order. Day
// bounds are interpreted in loc.
func FilterActivities(activities []Activity, f ActivityFilter, loc *time.Location) ([]Activity, error) {
	c, err := f.compile(loc)
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if c.match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}
