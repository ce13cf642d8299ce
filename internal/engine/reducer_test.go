package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcReducer() Reducer { return Reducer{Location: time.UTC} }

func TestReduceAddActivity(t *testing.T) {
	r := utcReducer()
	s := NewState()

	s = r.Reduce(s, AddActivity{Activity: act("a", "transport", "car", 10, day("2024-05-14"), 2.1)})
	s = r.Reduce(s, AddActivity{Activity: act("b", "diet", "meat", 1, day("2024-05-14"), 6.61)})
	s = r.Reduce(s, AddActivity{Activity: act("c", "energy", "gas", 1, day("2024-05-15"), 2.0)})

	require.Len(t, s.Activities, 3)
	assert.InDelta(t, 10.71, s.TotalFootprint, 1e-9)
	assert.InDelta(t, 8.71, s.DailyFootprints["2024-05-14"], 1e-9)
	assert.InDelta(t, 2.0, s.DailyFootprints["2024-05-15"], 1e-9)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	r := utcReducer()
	s := r.Reduce(NewState(), AddActivity{Activity: act("a", "transport", "car", 10, day("2024-05-14"), 2.1)})

	next := r.Reduce(s, AddActivity{Activity: act("b", "transport", "bus", 10, day("2024-05-14"), 0.89)})

	assert.Len(t, s.Activities, 1)
	assert.InDelta(t, 2.1, s.TotalFootprint, 1e-9)
	assert.Len(t, next.Activities, 2)
}

func TestReduceRemoveActivity(t *testing.T) {
	r := utcReducer()
	s := NewState()
	s = r.Reduce(s, AddActivity{Activity: act("a", "transport", "car", 10, day("2024-05-14"), 2.1)})
	s = r.Reduce(s, AddActivity{Activity: act("b", "transport", "car", 5, day("2024-05-13"), 1.05)})

	s = r.Reduce(s, RemoveActivity{ID: "b"})
	require.Len(t, s.Activities, 1)
	assert.InDelta(t, 2.1, s.TotalFootprint, 1e-9)
	assert.NotContains(t, s.DailyFootprints, "2024-05-13")

	unchanged := r.Reduce(s, RemoveActivity{ID: "missing"})
	assert.Equal(t, s, unchanged)
}

func TestReduceTotalMatchesSumAfterMixedSequence(t *testing.T) {
	r := utcReducer()
	s := NewState()
	ids := []string{"a", "b", "c", "d", "e"}
	for i, id := range ids {
		s = r.Reduce(s, AddActivity{Activity: act(id, "diet", "vegan", 1, day("2024-05-1"+itoa(i)), 0.63*float64(i+1))})
	}
	s = r.Reduce(s, RemoveActivity{ID: "b"})
	s = r.Reduce(s, RemoveActivity{ID: "e"})
	s = r.Reduce(s, AddActivity{Activity: act("f", "energy", "heating", 10, day("2024-05-12"), 1.85)})

	sum := 0.0
	for _, a := range s.Activities {
		sum += a.Emissions
	}
	assert.InDelta(t, sum, s.TotalFootprint, 1e-9)

	daySum := 0.0
	for _, v := range s.DailyFootprints {
		daySum += v
	}
	assert.InDelta(t, sum, daySum, 1e-9)
}

func TestReduceLoadDataRecomputes(t *testing.T) {
	r := utcReducer()
	payload := State{
		Activities: []Activity{
			act("a", "transport", "car", 10, day("2024-05-14"), 2.1),
		},
		TotalFootprint:  999,
		DailyFootprints: map[string]float64{"1999-01-01": 42},
		Badges:          []Badge{{ID: BadgeGreenEater}},
		Tips:            []string{"keep"},
	}

	s := r.Reduce(NewState(), LoadData{State: payload})

	assert.InDelta(t, 2.1, s.TotalFootprint, 1e-9)
	assert.Equal(t, map[string]float64{"2024-05-14": 2.1}, s.DailyFootprints)
	assert.True(t, s.HasBadge(BadgeGreenEater))
	assert.Equal(t, []string{"keep"}, s.Tips)
}

func TestReduceLoadDataNilCollections(t *testing.T) {
	s := utcReducer().Reduce(NewState(), LoadData{State: State{}})
	assert.NotNil(t, s.Activities)
	assert.NotNil(t, s.Badges)
	assert.NotNil(t, s.Tips)
	assert.NotNil(t, s.DailyFootprints)
	assert.Zero(t, s.TotalFootprint)
}

func TestReduceAwardBadgeIdempotent(t *testing.T) {
	r := utcReducer()
	first := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)
	b := Badge{ID: BadgeBikeCommuter, Name: "Bike Commuter"}

	s := r.Reduce(NewState(), AwardBadge{Badge: b, At: first})
	s = r.Reduce(s, AwardBadge{Badge: b, At: later})

	require.Len(t, s.Badges, 1)
	assert.Equal(t, first, s.Badges[0].EarnedAt)
}

func TestReduceUpdateTips(t *testing.T) {
	s := utcReducer().Reduce(NewState(), UpdateTips{Tips: []string{"x", "y"}})
	assert.Equal(t, []string{"x", "y"}, s.Tips)

	s = utcReducer().Reduce(s, UpdateTips{})
	assert.Equal(t, []string{}, s.Tips)
}

func TestReducePackageLevelUsesLocal(t *testing.T) {
	ts := time.Date(2024, 5, 14, 12, 0, 0, 0, time.Local)
	s := Reduce(NewState(), AddActivity{Activity: act("a", "transport", "car", 1, ts, 0.21)})
	assert.InDelta(t, 0.21, s.DailyFootprints["2024-05-14"], 1e-9)
}
