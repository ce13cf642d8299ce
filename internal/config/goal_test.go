package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    GoalConfig
		wantErr error
	}{
		{"disabled", GoalConfig{}, nil},
		{"negative", GoalConfig{WeeklyKg: -5}, ErrGoalNegative},
		{"valid alerts", GoalConfig{WeeklyKg: 20, Alerts: []AlertConfig{
			{Threshold: 80, Type: AlertTypeActual},
			{Threshold: 100, Type: AlertTypeForecasted},
		}}, nil},
		{"threshold too high", GoalConfig{WeeklyKg: 20, Alerts: []AlertConfig{
			{Threshold: 1001, Type: AlertTypeActual},
		}}, ErrAlertThresholdOutOfRange},
		{"bad alert type", GoalConfig{WeeklyKg: 20, Alerts: []AlertConfig{
			{Threshold: 50, Type: "guess"},
		}}, ErrAlertTypeInvalid},
		{"bad exit code", GoalConfig{WeeklyKg: 20, ExitOnThreshold: true, ExitCode: 300}, ErrExitCodeOutOfRange},
		{"exit code ignored without flag", GoalConfig{WeeklyKg: 20, ExitCode: 300}, nil},
		{"invalid alerts ignored when disabled", GoalConfig{Alerts: []AlertConfig{{Threshold: -1}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGoalConfigExitCode(t *testing.T) {
	assert.Equal(t, 1, NewDefault().Goal.GetExitCode())
	assert.Equal(t, 0, GoalConfig{ExitOnThreshold: true}.GetExitCode())
	assert.Equal(t, 3, GoalConfig{ExitOnThreshold: true, ExitCode: 3}.GetExitCode())
	assert.True(t, GoalConfig{ExitOnThreshold: true}.ShouldExitOnThreshold())
}

func TestGoalConfigAlertsByType(t *testing.T) {
	g := GoalConfig{Alerts: []AlertConfig{
		{Threshold: 80, Type: AlertTypeActual},
		{Threshold: 100, Type: AlertTypeForecasted},
		{Threshold: 90, Type: AlertTypeActual},
	}}

	assert.Len(t, g.ActualAlerts(), 2)
	require.Len(t, g.ForecastedAlerts(), 1)
	assert.InDelta(t, 100.0, g.ForecastedAlerts()[0].Threshold, 1e-9)
	assert.True(t, GoalConfig{WeeklyKg: 1}.IsEnabled())
	assert.False(t, GoalConfig{}.IsEnabled())
}
