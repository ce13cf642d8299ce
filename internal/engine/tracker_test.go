package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecopulse/internal/config"
)

func newTestTracker(t *testing.T, store *fakeStore) *Tracker {
	t.Helper()
	return NewTracker(store, Options{
		Clock:    func() time.Time { return refNow },
		Location: time.UTC,
		IDs:      &counterIDs{},
	})
}

func TestTrackerOpenFirstRun(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store)

	require.NoError(t, tr.Open(context.Background()))

	s := tr.State()
	assert.Empty(t, s.Activities)
	require.Len(t, s.Badges, 1)
	assert.Equal(t, BadgeEnergySaver, s.Badges[0].ID)
	assert.Equal(t, refNow, s.Badges[0].EarnedAt)
	assert.Equal(t, TipsFor("transport"), s.Tips)
	assert.Equal(t, 1, store.saves)

	// A second open finds nothing new to persist.
	tr2 := newTestTracker(t, store)
	require.NoError(t, tr2.Open(context.Background()))
	assert.Equal(t, 1, store.saves)
}

func TestTrackerOpenRecomputesTotals(t *testing.T) {
	doc := State{
		Activities:      []Activity{act("a", "transport", "car", 10, day("2024-05-14"), 2.1)},
		TotalFootprint:  999,
		DailyFootprints: map[string]float64{"1999-01-01": 5},
		Badges:          []Badge{{ID: BadgeEnergySaver, EarnedAt: day("2024-05-01")}},
		Tips:            TipsFor("transport"),
	}
	store := &fakeStore{doc: &doc}
	tr := newTestTracker(t, store)

	require.NoError(t, tr.Open(context.Background()))

	s := tr.State()
	assert.InDelta(t, 2.1, s.TotalFootprint, 1e-9)
	assert.Equal(t, map[string]float64{"2024-05-14": 2.1}, s.DailyFootprints)
	assert.Equal(t, day("2024-05-01"), s.Badges[0].EarnedAt)
	assert.Zero(t, store.saves)
}

func TestTrackerOpenLoadError(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{loadErr: errBoom})
	err := tr.Open(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "loading state")
}

func TestTrackerAddActivity(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store)
	require.NoError(t, tr.Open(context.Background()))

	a, err := tr.AddActivity(context.Background(), ActivityDraft{
		Category: "transport", Subcategory: "car", Quantity: "10",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", a.ID)
	assert.InDelta(t, 2.1, a.Emissions, 1e-9)
	assert.Equal(t, refNow, a.Timestamp)

	s := tr.State()
	require.Len(t, s.Activities, 1)
	assert.InDelta(t, 2.1, s.TotalFootprint, 1e-9)
	assert.InDelta(t, 2.1, s.DailyFootprints["2024-05-15"], 1e-9)
	assert.Equal(t, 2, store.saves)
	assert.Len(t, store.doc.Activities, 1)
}

func TestTrackerAddActivityWithDate(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{})

	a, err := tr.AddActivity(context.Background(), ActivityDraft{
		Category: "diet", Subcategory: "meat", Quantity: "2", Date: "2024-05-10",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), a.Timestamp)
	assert.InDelta(t, 13.22, a.Emissions, 1e-9)
}

func TestTrackerAddActivityInvalidDate(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store)

	_, err := tr.AddActivity(context.Background(), ActivityDraft{
		Category: "diet", Subcategory: "meat", Quantity: "1", Date: "10/05/2024",
	})
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, tr.State().Activities)
	assert.Zero(t, store.saves)
}

func TestTrackerAddActivityLenientQuantity(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{})

	a, err := tr.AddActivity(context.Background(), ActivityDraft{
		Category: "transport", Subcategory: "car", Quantity: "abc",
	})
	require.NoError(t, err)
	assert.Zero(t, a.Quantity)
	assert.Zero(t, a.Emissions)
}

func TestTrackerAddActivitySaveError(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{saveErr: errBoom})

	a, err := tr.AddActivity(context.Background(), ActivityDraft{
		Category: "transport", Subcategory: "car", Quantity: "10",
	})
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "saving state")
	assert.Equal(t, "id-1", a.ID)
	assert.Len(t, tr.State().Activities, 1)
}

func TestTrackerBikeCommuterAwardedOnce(t *testing.T) {
	ctx := context.Background()
	clock := refNow
	tr := NewTracker(&fakeStore{}, Options{
		Clock:    func() time.Time { return clock },
		Location: time.UTC,
		IDs:      &counterIDs{},
	})

	for range 5 {
		_, err := tr.AddActivity(ctx, ActivityDraft{Category: "transport", Subcategory: "bike", Quantity: "3"})
		require.NoError(t, err)
	}
	s := tr.State()
	require.True(t, s.HasBadge(BadgeBikeCommuter))
	var earnedAt time.Time
	for _, b := range s.Badges {
		if b.ID == BadgeBikeCommuter {
			earnedAt = b.EarnedAt
		}
	}

	clock = refNow.Add(time.Hour)
	_, err := tr.AddActivity(ctx, ActivityDraft{Category: "transport", Subcategory: "bike", Quantity: "3"})
	require.NoError(t, err)

	count := 0
	for _, b := range tr.State().Badges {
		if b.ID == BadgeBikeCommuter {
			count++
			assert.Equal(t, earnedAt, b.EarnedAt)
		}
	}
	assert.Equal(t, 1, count)
}

func TestTrackerTipsFollowTopCategory(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{})
	_, err := tr.AddActivity(context.Background(), ActivityDraft{Category: "diet", Subcategory: "meat", Quantity: "1"})
	require.NoError(t, err)
	assert.Equal(t, TipsFor("diet"), tr.State().Tips)
}

func TestTrackerRemoveActivity(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store)
	ctx := context.Background()

	a, err := tr.AddActivity(ctx, ActivityDraft{Category: "transport", Subcategory: "car", Quantity: "10"})
	require.NoError(t, err)
	saves := store.saves

	removed, err := tr.RemoveActivity(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, saves, store.saves)

	removed, err = tr.RemoveActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, saves+1, store.saves)

	s := tr.State()
	assert.Empty(t, s.Activities)
	assert.Zero(t, s.TotalFootprint)
	assert.Empty(t, s.DailyFootprints)
}

func TestTrackerReset(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store)
	ctx := context.Background()

	for range 5 {
		_, err := tr.AddActivity(ctx, ActivityDraft{Category: "transport", Subcategory: "bike", Quantity: "1"})
		require.NoError(t, err)
	}
	require.NoError(t, tr.Reset(ctx))

	s := tr.State()
	assert.Empty(t, s.Activities)
	assert.False(t, s.HasBadge(BadgeBikeCommuter))
	// The empty day still qualifies for the energy saver badge.
	assert.True(t, s.HasBadge(BadgeEnergySaver))
	assert.Empty(t, store.doc.Activities)
}

func TestTrackerDashboard(t *testing.T) {
	tr := NewTracker(&fakeStore{}, Options{
		Clock:    func() time.Time { return refNow },
		Location: time.UTC,
		IDs:      &counterIDs{},
		Goal:     config.GoalConfig{WeeklyKg: 20},
	})
	ctx := context.Background()
	for _, d := range []ActivityDraft{
		{Category: "transport", Subcategory: "car", Quantity: "10", Date: "2024-05-14"},
		{Category: "diet", Subcategory: "meat", Quantity: "1", Date: "2024-05-15"},
		{Category: "energy", Subcategory: "electricity", Quantity: "10", Date: "2024-04-30"},
	} {
		_, err := tr.AddActivity(ctx, d)
		require.NoError(t, err)
	}

	dash := tr.Dashboard(refNow, 10)

	require.Len(t, dash.LastDays, DashboardDays)
	assert.Equal(t, "2024-05-09", dash.LastDays[0].Day)
	assert.Equal(t, "2024-05-15", dash.LastDays[6].Day)
	assert.InDelta(t, 6.61, dash.TodayFootprint, 1e-9)
	assert.InDelta(t, 13.71, dash.TotalFootprint, 1e-9)
	assert.Equal(t, 3, dash.ActivityCount)
	assert.Equal(t, 2, dash.LongestStreak)
	assert.InDelta(t, 8.71*0.9, dash.WhatIf.ProjectedTotal, 1e-9)
	assert.InDelta(t, 8.71, dash.Goal.WeekFootprint, 1e-9)
	assert.Equal(t, GoalHealthOK, dash.Goal.Health)
	require.Len(t, dash.Monthly, 2)
	assert.Equal(t, "2024-04", dash.Monthly[0].Month)
	assert.InDelta(t, 11.0, dash.GlobalAverage, 1e-9)
}

func TestTrackerActivitiesFilter(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{})
	ctx := context.Background()
	_, err := tr.AddActivity(ctx, ActivityDraft{Category: "transport", Subcategory: "car", Quantity: "1"})
	require.NoError(t, err)
	_, err = tr.AddActivity(ctx, ActivityDraft{Category: "diet", Subcategory: "vegan", Quantity: "1"})
	require.NoError(t, err)

	got, err := tr.Activities(ActivityFilter{Category: "diet"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "id-2", got[0].ID)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Tracker.Timezone = "Europe/Berlin"
	cfg.Tracker.GlobalAverageDaily = 9
	cfg.Goal.WeeklyKg = 30

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", opts.Location.String())
	assert.InDelta(t, 9.0, opts.GlobalAverage, 1e-9)
	assert.InDelta(t, 30.0, opts.Goal.WeeklyKg, 1e-9)

	cfg.Tracker.Timezone = "Mars/Olympus"
	_, err = OptionsFromConfig(cfg)
	require.Error(t, err)
}
