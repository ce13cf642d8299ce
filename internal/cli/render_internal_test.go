package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
)

func useDefaultConfig(t *testing.T) {
	t.Helper()
	t.Setenv("ECOPULSE_HOME", t.TempDir())
	config.SetGlobalConfig(config.NewDefault())
	t.Cleanup(config.ResetGlobalConfigForTest)
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{config.FormatTable, config.FormatJSON, config.FormatNDJSON} {
		require.NoError(t, validateOutputFormat(f))
	}
	for _, f := range []string{"", "yaml", "JSON"} {
		require.ErrorIs(t, validateOutputFormat(f), config.ErrInvalidOutputFormat)
	}
}

func TestFormatHelpers(t *testing.T) {
	useDefaultConfig(t)

	assert.Equal(t, "1,234.57 kg", formatKg(1234.567))
	assert.Equal(t, "0.00 kg", formatKg(0))
	assert.Equal(t, "20", formatDecimal(20))
	assert.Equal(t, "0.089", formatDecimal(0.089))
	assert.Equal(t, "12.50 km", formatQuantity(engine.Activity{Category: "transport", Subcategory: "car", Quantity: 12.5}))
	assert.Equal(t, "3.00", formatQuantity(engine.Activity{Category: "x", Subcategory: "y", Quantity: 3}))
}

func TestBoxWidths(t *testing.T) {
	tests := []struct {
		term    int
		wantBox int
		wantBar int
	}{
		{term: 20, wantBox: minBoxWidth, wantBar: 16},
		{term: 40, wantBox: 32, wantBar: 18},
		{term: 80, wantBox: defaultBoxWidth, wantBar: progressBarWidth},
		{term: 200, wantBox: defaultBoxWidth, wantBar: progressBarWidth},
	}
	for _, tt := range tests {
		box := calculateBoxWidth(tt.term)
		assert.Equal(t, tt.wantBox, box, "term=%d", tt.term)
		assert.Equal(t, tt.wantBar, calculateProgressBarWidth(box), "term=%d", tt.term)
	}
	assert.Equal(t, minProgressBarWidth, calculateProgressBarWidth(0))
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		percent    float64
		wantFilled int
	}{
		{name: "empty", percent: 0, wantFilled: 0},
		{name: "half", percent: 50, wantFilled: 10},
		{name: "capped", percent: 250, wantFilled: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := engine.GoalStatus{PercentUsed: tt.percent, Health: engine.HealthFromPercentage(tt.percent)}
			bar := renderProgressBar(st, 20)
			assert.Equal(t, tt.wantFilled, strings.Count(bar, progressFilledChar))
			assert.Equal(t, 20-tt.wantFilled, strings.Count(bar, progressEmptyChar))
		})
	}
}

func TestGoalStatusMessage(t *testing.T) {
	tests := []struct {
		name string
		st   engine.GoalStatus
		want string
	}{
		{
			name: "exceeded alerts report the highest threshold",
			st: engine.GoalStatus{Alerts: []engine.ThresholdStatus{
				{Threshold: 50, Status: engine.ThresholdStatusExceeded},
				{Threshold: 80, Status: engine.ThresholdStatusExceeded},
				{Threshold: 100, Status: engine.ThresholdStatusApproaching},
			}},
			want: "WARNING - Exceeds 80% threshold",
		},
		{
			name: "approaching",
			st:   engine.GoalStatus{Alerts: []engine.ThresholdStatus{{Threshold: 80, Status: engine.ThresholdStatusApproaching}}},
			want: "APPROACHING - Near goal threshold",
		},
		{name: "celebrate", st: engine.GoalStatus{Celebrate: true}, want: "OK - On track, nice work"},
		{name: "nothing logged", st: engine.GoalStatus{}, want: "OK - Within goal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, goalStatusMessage(tt.st))
		})
	}
}

func TestRenderGoalStatus_Plain(t *testing.T) {
	useDefaultConfig(t)
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	st := engine.EvaluateGoal(10, 20, now)

	var buf bytes.Buffer
	require.NoError(t, RenderGoalStatus(&buf, st))

	out := buf.String()
	assert.Contains(t, out, "WEEKLY GOAL")
	assert.Contains(t, out, "Goal: 20.00 kg")
	assert.Contains(t, out, "This week: 10.00 kg (50.0%)")
	assert.Contains(t, out, "Forecast: ")
}

func newExitTestCmd() (*cobra.Command, *bytes.Buffer) {
	var stderr bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("debug", false, "")
	cmd.SetErr(&stderr)
	return cmd, &stderr
}

func TestCheckGoalExit(t *testing.T) {
	useDefaultConfig(t)
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	over := engine.EvaluateGoal(25, 20, now)
	under := engine.EvaluateGoal(5, 20, now)
	alerted := under
	alerted.Alerts = []engine.ThresholdStatus{{Threshold: 20, Status: engine.ThresholdStatusExceeded}}

	tests := []struct {
		name     string
		st       engine.GoalStatus
		gc       config.GoalConfig
		wantCode int
		wantWarn bool
	}{
		{name: "disabled", st: over, gc: config.GoalConfig{WeeklyKg: 20, ExitCode: 2}},
		{name: "exceeded", st: over, gc: config.GoalConfig{WeeklyKg: 20, ExitOnThreshold: true, ExitCode: 2}, wantCode: 2},
		{name: "alert exceeded", st: alerted, gc: config.GoalConfig{WeeklyKg: 20, ExitOnThreshold: true, ExitCode: 4}, wantCode: 4},
		{name: "within goal", st: under, gc: config.GoalConfig{WeeklyKg: 20, ExitOnThreshold: true, ExitCode: 2}},
		{name: "warn only", st: over, gc: config.GoalConfig{WeeklyKg: 20, ExitOnThreshold: true}, wantWarn: true},
		{name: "no goal", st: over, gc: config.GoalConfig{ExitOnThreshold: true, ExitCode: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, stderr := newExitTestCmd()

			err := checkGoalExit(cmd, tt.st, tt.gc)

			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				var exitErr *GoalExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tt.wantCode, exitErr.ExitCode)
			}
			assert.Equal(t, tt.wantWarn, strings.Contains(stderr.String(), "WARNING:"))
		})
	}
}

func TestBadgeViews(t *testing.T) {
	at := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	s := engine.NewState()
	s.Badges = []engine.Badge{{ID: engine.BadgeGreenEater, Name: "Green Eater", EarnedAt: at}}

	views := badgeViews(s)

	require.Len(t, views, len(engine.BadgeRules()))
	for _, v := range views {
		assert.Equal(t, v.ID == engine.BadgeGreenEater, v.Earned, v.ID)
		if v.Earned {
			assert.Equal(t, at, v.EarnedAt)
		}
	}
}
