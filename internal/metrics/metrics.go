// Package metrics exposes the tracker's figures as Prometheus gauges so they
// can be scraped through the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rshade/ecopulse/internal/engine"
)

const namespace = "ecopulse"

// Exporter holds the gauges on a private registry.
type Exporter struct {
	registry *prometheus.Registry

	total        prometheus.Gauge
	today        prometheus.Gauge
	week         prometheus.Gauge
	goalPercent  prometheus.Gauge
	streak       prometheus.Gauge
	badges       prometheus.Gauge
	activities   *prometheus.GaugeVec
	categoryKg   *prometheus.GaugeVec
	lastActivity prometheus.Gauge
}

// NewExporter registers every gauge on a fresh registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "footprint_total_kg",
			Help:      "Total logged emissions in kg CO2e",
		}),
		today: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "footprint_today_kg",
			Help:      "Emissions logged today in kg CO2e",
		}),
		week: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "footprint_week_kg",
			Help:      "Emissions logged this Monday-Sunday week in kg CO2e",
		}),
		goalPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goal_used_percent",
			Help:      "Share of the weekly goal used, 0 when no goal is set",
		}),
		streak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "longest_streak_days",
			Help:      "Longest run of consecutive days with activity",
		}),
		badges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "badges_earned",
			Help:      "Number of badges earned",
		}),
		activities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "activities",
			Help:      "Number of logged activities",
		}, []string{"category"}),
		categoryKg: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_footprint_kg",
			Help:      "Emissions per category in kg CO2e",
		}, []string{"category"}),
		lastActivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_activity_timestamp_seconds",
			Help:      "Unix time of the most recent activity, 0 when none",
		}),
	}
	e.registry.MustRegister(
		e.total, e.today, e.week, e.goalPercent, e.streak, e.badges,
		e.activities, e.categoryKg, e.lastActivity,
	)
	return e
}

// Registry returns the registry holding the gauges.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Observe sets every gauge from the state and its dashboard.
func (e *Exporter) Observe(s engine.State, d engine.Dashboard) {
	e.total.Set(s.TotalFootprint)
	e.today.Set(d.TodayFootprint)
	e.week.Set(d.Goal.WeekFootprint)
	e.goalPercent.Set(d.Goal.PercentUsed)
	e.streak.Set(float64(engine.LongestStreak(s.DailyFootprints)))
	e.badges.Set(float64(len(s.Badges)))

	e.activities.Reset()
	for c, n := range engine.CategoryCounts(s.Activities) {
		e.activities.WithLabelValues(c).Set(float64(n))
	}
	e.categoryKg.Reset()
	for c, kg := range engine.CategoryTotals(s.Activities) {
		e.categoryKg.WithLabelValues(c).Set(kg)
	}

	var last float64
	for _, a := range s.Activities {
		if ts := float64(a.Timestamp.Unix()); ts > last {
			last = ts
		}
	}
	e.lastActivity.Set(last)
}

// WriteTextfile writes the gauges in the text exposition format. The file is
// replaced atomically.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
