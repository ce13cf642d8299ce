package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(n int, subcategory, category string) []Activity {
	out := make([]Activity, 0, n)
	for i := range n {
		out = append(out, act("x"+itoa(i), category, subcategory, 1, refNow, 0))
	}
	return out
}

func badgeIDs(badges []Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestEvaluateBadges(t *testing.T) {
	tests := []struct {
		name string
		in   BadgeInput
		want []string
	}{
		{
			name: "four bike trips on a heavy day",
			in:   BadgeInput{Activities: repeat(4, "bike", "transport"), TodayFootprint: 20, GlobalAverage: 11},
			want: []string{},
		},
		{
			name: "five bike trips",
			in:   BadgeInput{Activities: repeat(5, "bike", "transport"), TodayFootprint: 20, GlobalAverage: 11},
			want: []string{BadgeBikeCommuter},
		},
		{
			name: "ten vegan meals",
			in:   BadgeInput{Activities: repeat(10, "vegan", "diet"), TodayFootprint: 20, GlobalAverage: 11},
			want: []string{BadgeGreenEater},
		},
		{
			name: "nine vegan meals",
			in:   BadgeInput{Activities: repeat(9, "vegan", "diet"), TodayFootprint: 20, GlobalAverage: 11},
			want: []string{},
		},
		{
			name: "energy saver on an empty day",
			in:   BadgeInput{GlobalAverage: 11},
			want: []string{BadgeEnergySaver},
		},
		{
			name: "energy saver boundary is exclusive",
			in:   BadgeInput{TodayFootprint: 7.7, GlobalAverage: 11},
			want: []string{},
		},
		{
			name: "energy saver just below boundary",
			in:   BadgeInput{TodayFootprint: 7.69, GlobalAverage: 11},
			want: []string{BadgeEnergySaver},
		},
		{
			name: "zero average falls back to default",
			in:   BadgeInput{TodayFootprint: 7.0},
			want: []string{BadgeEnergySaver},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, badgeIDs(EvaluateBadges(tt.in)))
		})
	}
}

func TestBadgeRulesMetadata(t *testing.T) {
	rules := BadgeRules()
	require.Len(t, rules, 3)
	assert.Equal(t, "Bike Commuter", rules[0].Badge.Name)
	assert.Equal(t, "Completed 5 bike trips", rules[0].Badge.Description)
	assert.Equal(t, "🌱", rules[1].Badge.Icon)
	assert.Equal(t, "Daily footprint 30% below global average", rules[2].Badge.Description)
}

func TestNewlyEarned(t *testing.T) {
	s := NewState()
	s.Badges = []Badge{{ID: BadgeBikeCommuter}}
	earned := []Badge{{ID: BadgeBikeCommuter}, {ID: BadgeEnergySaver}}

	assert.Equal(t, []string{BadgeEnergySaver}, badgeIDs(NewlyEarned(s, earned)))
	assert.Empty(t, NewlyEarned(s, nil))
}
