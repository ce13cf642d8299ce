package engine

import (
	"slices"
	"sort"

	"github.com/rshade/ecopulse/internal/greenops"
)

//nolint:gochecknoglobals // Static tip catalogue.
var tipsByCategory = map[string][]string{
	greenops.CategoryTransport: {
		"Try biking or walking for short trips to reduce your carbon footprint",
		"Consider carpooling or using public transportation",
		"Plan your trips efficiently to reduce unnecessary driving",
	},
	greenops.CategoryDiet: {
		"Try having one meat-free day per week",
		"Choose locally sourced and seasonal foods",
		"Reduce food waste by planning your meals",
	},
	greenops.CategoryEnergy: {
		"Switch to LED bulbs to reduce electricity consumption",
		"Unplug electronics when not in use",
		"Consider adjusting your thermostat by 1-2 degrees",
	},
}

// TipsFor returns the tips of category, or transport's tips when it has none.
func TipsFor(category string) []string {
	tips, ok := tipsByCategory[category]
	if !ok {
		tips = tipsByCategory[greenops.CategoryTransport]
	}
	return slices.Clone(tips)
}

// TopCategory returns the category with the highest summed emissions.
// Ranking starts at transport and only a strictly greater total replaces
// the leader, so ties and an empty log resolve to transport. Known
// categories are visited in table order, then unknown ones alphabetically.
func TopCategory(activities []Activity) string {
	totals := CategoryTotals(activities)

	order := greenops.Categories()
	var extra []string
	for c := range totals {
		if !greenops.IsKnownCategory(c) {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	top := greenops.CategoryTransport
	for _, c := range order {
		if totals[c] > totals[top] {
			top = c
		}
	}
	return top
}

// GenerateTips returns the tip list for the top category of activities.
func GenerateTips(activities []Activity) []string {
	return TipsFor(TopCategory(activities))
}
