package engine

import (
	"time"

	"github.com/rshade/ecopulse/internal/config"
)

// GoalHealth classifies how much of the weekly goal has been used.
type GoalHealth string

// Goal health values, from best to worst.
const (
	GoalHealthUnspecified GoalHealth = "UNSPECIFIED"
	GoalHealthOK          GoalHealth = "OK"
	GoalHealthWarning     GoalHealth = "WARNING"
	GoalHealthCritical    GoalHealth = "CRITICAL"
	GoalHealthExceeded    GoalHealth = "EXCEEDED"
)

// Health thresholds as percentages of the goal.
const (
	HealthThresholdWarning  = 80.0
	HealthThresholdCritical = 90.0
	HealthThresholdExceeded = 100.0
)

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100.0

// ThresholdStatusValue is the evaluation state of one goal alert.
type ThresholdStatusValue string

// Alert statuses.
const (
	ThresholdStatusOK          ThresholdStatusValue = "OK"
	ThresholdStatusApproaching ThresholdStatusValue = "APPROACHING"
	ThresholdStatusExceeded    ThresholdStatusValue = "EXCEEDED"
)

// ApproachingThresholdBuffer is how many percentage points below a
// threshold counts as approaching it.
const ApproachingThresholdBuffer = 5.0

// ThresholdStatus is the result of one configured goal alert.
type ThresholdStatus struct {
	Threshold float64              `json:"threshold"`
	Type      config.AlertType     `json:"type"`
	Status    ThresholdStatusValue `json:"status"`
}

// GoalStatus is the weekly goal evaluated at a point in time.
type GoalStatus struct {
	WeekStart     time.Time `json:"weekStart"`
	WeekEnd       time.Time `json:"weekEnd"`
	WeekFootprint float64   `json:"weekFootprint"`
	Goal          float64   `json:"goal"`
	// Progress is min(1, week/goal).
	Progress    float64 `json:"progress"`
	PercentUsed float64 `json:"percentUsed"`
	Achieved    bool    `json:"achieved"`
	// Celebrate is set when the goal is met with something logged.
	Celebrate       bool              `json:"celebrate"`
	Forecast        float64           `json:"forecast"`
	ForecastPercent float64           `json:"forecastPercent"`
	Health          GoalHealth        `json:"health"`
	Alerts          []ThresholdStatus `json:"alerts,omitempty"`
}

// EvaluateGoal compares week's footprint against goal for the week
// containing now. A goal <= 0 is treated as unset: health is UNSPECIFIED
// and percentages are 0.
func EvaluateGoal(week, goal float64, now time.Time) GoalStatus {
	start, end := WeekBounds(now)
	st := GoalStatus{
		WeekStart:     start,
		WeekEnd:       end,
		WeekFootprint: week,
		Goal:          goal,
		Forecast:      CalculateForecastAt(week, start, end, now),
		Health:        GoalHealthUnspecified,
	}
	if goal <= 0 {
		return st
	}

	st.Progress = min(1, week/goal)
	st.Achieved = week <= goal
	st.Celebrate = st.Achieved && week > 0
	st.PercentUsed = week / goal * PercentageMultiplier
	st.ForecastPercent = st.Forecast / goal * PercentageMultiplier
	st.Health = HealthFromPercentage(st.PercentUsed)
	return st
}

// EvaluateGoalWithAlerts evaluates the goal and every configured alert.
func EvaluateGoalWithAlerts(week float64, gc config.GoalConfig, now time.Time) GoalStatus {
	st := EvaluateGoal(week, gc.WeeklyKg, now)
	if !gc.IsEnabled() {
		return st
	}
	for _, a := range gc.Alerts {
		pct := st.PercentUsed
		if a.Type == config.AlertTypeForecasted {
			pct = st.ForecastPercent
		}
		st.Alerts = append(st.Alerts, ThresholdStatus{
			Threshold: a.Threshold,
			Type:      a.Type,
			Status:    evaluateThreshold(a.Threshold, pct),
		})
	}
	return st
}

// HealthFromPercentage maps a goal utilization percentage to a health value.
//
//   - OK: below 80%
//   - WARNING: 80-89%
//   - CRITICAL: 90-99%
//   - EXCEEDED: 100% and above
func HealthFromPercentage(pct float64) GoalHealth {
	switch {
	case pct >= HealthThresholdExceeded:
		return GoalHealthExceeded
	case pct >= HealthThresholdCritical:
		return GoalHealthCritical
	case pct >= HealthThresholdWarning:
		return GoalHealthWarning
	default:
		return GoalHealthOK
	}
}

// CalculateForecastAt predicts the end-of-week footprint by linear
// extrapolation: current / elapsed * total.
//
// The current value is returned unchanged when it is 0, before the week
// starts and once the week has ended.
func CalculateForecastAt(current float64, start, end, now time.Time) float64 {
	if current == 0 || now.Before(start) {
		return current
	}
	total := end.Sub(start)
	elapsed := now.Sub(start)
	if elapsed <= 0 || elapsed >= total {
		return current
	}
	return current / float64(elapsed) * float64(total)
}

func evaluateThreshold(threshold, pct float64) ThresholdStatusValue {
	if pct >= threshold {
		return ThresholdStatusExceeded
	}
	if pct >= threshold-ApproachingThresholdBuffer {
		return ThresholdStatusApproaching
	}
	return ThresholdStatusOK
}

// HasExceededAlerts reports whether any alert is EXCEEDED.
func (s GoalStatus) HasExceededAlerts() bool {
	for _, a := range s.Alerts {
		if a.Status == ThresholdStatusExceeded {
			return true
		}
	}
	return false
}

// CappedPercentage returns PercentUsed capped at 100 for progress bars.
func (s GoalStatus) CappedPercentage() float64 {
	return min(s.PercentUsed, PercentageMultiplier)
}
