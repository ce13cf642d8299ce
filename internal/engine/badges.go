package engine

import "github.com/rshade/ecopulse/internal/greenops"

// Badge identifiers.
const (
	BadgeBikeCommuter = "bike-commuter"
	BadgeGreenEater   = "green-eater"
	BadgeEnergySaver  = "energy-saver"
)

// Badge thresholds.
const (
	BikeTripsRequired  = 5
	VeganMealsRequired = 10
	// EnergySaverRatio is the fraction of the global average today's
	// footprint must stay below.
	EnergySaverRatio = 0.7
)

// BadgeInput is what badge rules are evaluated against.
type BadgeInput struct {
	Activities     []Activity
	TodayFootprint float64
	GlobalAverage  float64
}

// BadgeRule awards Badge when Earned returns true.
type BadgeRule struct {
	Badge  Badge
	Earned func(in BadgeInput) bool
}

// BadgeRules returns the achievement rules in award order.
func BadgeRules() []BadgeRule {
	return []BadgeRule{
		{
			Badge: Badge{
				ID:          BadgeBikeCommuter,
				Name:        "Bike Commuter",
				Description: "Completed 5 bike trips",
				Icon:        "🚴",
			},
			Earned: func(in BadgeInput) bool {
				return CountSubcategory(in.Activities, "bike") >= BikeTripsRequired
			},
		},
		{
			Badge: Badge{
				ID:          BadgeGreenEater,
				Name:        "Green Eater",
				Description: "Had 10 vegan meals",
				Icon:        "🌱",
			},
			Earned: func(in BadgeInput) bool {
				return CountSubcategory(in.Activities, "vegan") >= VeganMealsRequired
			},
		},
		{
			Badge: Badge{
				ID:          BadgeEnergySaver,
				Name:        "Energy Saver",
				Description: "Daily footprint 30% below global average",
				Icon:        "⚡",
			},
			// A day with nothing logged also qualifies.
			Earned: func(in BadgeInput) bool {
				avg := in.GlobalAverage
				if avg <= 0 {
					avg = greenops.GlobalAverageDailyKg
				}
				return in.TodayFootprint < avg*EnergySaverRatio
			},
		},
	}
}

// EvaluateBadges returns every badge whose rule currently holds, without
// EarnedAt.
func EvaluateBadges(in BadgeInput) []Badge {
	var earned []Badge
	for _, r := range BadgeRules() {
		if r.Earned(in) {
			earned = append(earned, r.Badge)
		}
	}
	return earned
}

// NewlyEarned filters earned down to badges not already in s.
func NewlyEarned(s State, earned []Badge) []Badge {
	var out []Badge
	for _, b := range earned {
		if !s.HasBadge(b.ID) {
			out = append(out, b)
		}
	}
	return out
}
