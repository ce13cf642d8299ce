package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/metrics"
)

var now = time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)

func observed(t *testing.T) *metrics.Exporter {
	t.Helper()
	s := engine.Reduce(engine.NewState(), engine.LoadData{State: engine.State{
		Activities: []engine.Activity{
			{ID: "a", Category: "transport", Subcategory: "car", Quantity: 10,
				Timestamp: time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC), Emissions: 2.5},
			{ID: "b", Category: "diet", Subcategory: "meat", Quantity: 1,
				Timestamp: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), Emissions: 6.5},
			{ID: "c", Category: "diet", Subcategory: "vegan", Quantity: 1,
				Timestamp: time.Date(2024, 5, 15, 13, 0, 0, 0, time.UTC), Emissions: 0.75},
		},
		Badges: []engine.Badge{{ID: engine.BadgeEnergySaver}},
	}})

	store := &memStore{state: &s}
	tr := engine.NewTracker(store, engine.Options{
		Clock:    func() time.Time { return now },
		Location: time.UTC,
		Goal:     config.GoalConfig{WeeklyKg: 20},
	})
	require.NoError(t, tr.Open(t.Context()))

	e := metrics.NewExporter()
	e.Observe(tr.State(), tr.Dashboard(now, 0))
	return e
}

func TestObserve(t *testing.T) {
	e := observed(t)

	count, err := testutil.GatherAndCount(e.Registry())
	require.NoError(t, err)
	// Seven scalar gauges, two activity and two footprint series.
	assert.Equal(t, 11, count)
}

func TestWriteTextfile(t *testing.T) {
	e := observed(t)
	path := filepath.Join(t.TempDir(), "ecopulse.prom")

	require.NoError(t, e.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "ecopulse_footprint_total_kg 9.75")
	assert.Contains(t, body, "ecopulse_footprint_today_kg 7.25")
	assert.Contains(t, body, `ecopulse_activities{category="diet"} 2`)
	assert.Contains(t, body, "ecopulse_longest_streak_days 2")
	assert.Contains(t, body, "ecopulse_badges_earned 1")
}

func TestWriteTextfileBadDirectory(t *testing.T) {
	e := metrics.NewExporter()
	err := e.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	require.Error(t, err)
}
