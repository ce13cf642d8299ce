package config

import (
	"errors"
	"fmt"
)

// AlertType represents how a goal alert is evaluated.
type AlertType string

// Valid alert types for goal threshold evaluation.
const (
	// AlertTypeActual triggers when the week's footprint so far crosses the threshold.
	AlertTypeActual AlertType = "actual"
	// AlertTypeForecasted triggers when the end-of-week forecast crosses the threshold.
	AlertTypeForecasted AlertType = "forecasted"
)

// Goal validation limits.
const (
	MaxThresholdPercent = 1000.0
	MinThresholdPercent = 0.0
)

// Exit code limits (Unix standard).
const (
	MinExitCode = 0
	MaxExitCode = 255
)

// Goal validation errors.
var (
	ErrGoalNegative             = errors.New("weekly goal cannot be negative")
	ErrAlertThresholdOutOfRange = errors.New("alert threshold must be between 0 and 1000")
	ErrAlertTypeInvalid         = errors.New("alert type must be 'actual' or 'forecasted'")
	ErrExitCodeOutOfRange       = errors.New("exit code must be between 0 and 255")
)

// AlertConfig is a percentage of the weekly goal that should be reported.
type AlertConfig struct {
	// Threshold is the percentage of the goal (e.g. 80.0 for 80%).
	Threshold float64   `yaml:"threshold" json:"threshold"`
	Type      AlertType `yaml:"type"      json:"type"`
}

// Validate checks if the alert configuration is valid.
func (a AlertConfig) Validate() error {
	if a.Threshold < MinThresholdPercent || a.Threshold > MaxThresholdPercent {
		return fmt.Errorf("%w: got %.2f", ErrAlertThresholdOutOfRange, a.Threshold)
	}
	if a.Type != AlertTypeActual && a.Type != AlertTypeForecasted {
		return fmt.Errorf("%w: got %q", ErrAlertTypeInvalid, a.Type)
	}
	return nil
}

// GoalConfig is the weekly footprint goal in kg CO2e per Monday-Sunday week.
type GoalConfig struct {
	// WeeklyKg is the upper bound for a week. Use 0 to disable the goal.
	WeeklyKg float64       `yaml:"weekly_kg"        json:"weekly_kg"`
	Alerts   []AlertConfig `yaml:"alerts,omitempty" json:"alerts,omitempty"`

	// ExitOnThreshold makes `summary` exit non-zero when the goal is exceeded.
	ExitOnThreshold bool `yaml:"exit_on_threshold,omitempty" json:"exit_on_threshold,omitempty"`
	// ExitCode is used when ExitOnThreshold is set. 0 means warn only.
	ExitCode int `yaml:"exit_code" json:"exit_code"`
}

// IsEnabled returns true if a positive weekly goal is configured.
func (g GoalConfig) IsEnabled() bool {
	return g.WeeklyKg > 0
}

// ShouldExitOnThreshold reports whether an exceeded goal should end the
// process with GetExitCode.
func (g GoalConfig) ShouldExitOnThreshold() bool {
	return g.ExitOnThreshold
}

// GetExitCode returns the exit code for an exceeded goal. 0 means warn only.
func (g GoalConfig) GetExitCode() int {
	return g.ExitCode
}

// Validate checks the goal. A disabled goal (WeeklyKg == 0) skips alert checks.
func (g GoalConfig) Validate() error {
	if g.WeeklyKg < 0 {
		return ErrGoalNegative
	}
	if !g.IsEnabled() {
		return nil
	}

	for i, alert := range g.Alerts {
		if err := alert.Validate(); err != nil {
			return fmt.Errorf("alert[%d]: %w", i, err)
		}
	}

	if g.ExitOnThreshold {
		if g.ExitCode < MinExitCode || g.ExitCode > MaxExitCode {
			return fmt.Errorf("%w: got %d", ErrExitCodeOutOfRange, g.ExitCode)
		}
	}
	return nil
}

// ActualAlerts returns only alerts of type "actual".
func (g GoalConfig) ActualAlerts() []AlertConfig {
	return g.alertsOfType(AlertTypeActual)
}

// ForecastedAlerts returns only alerts of type "forecasted".
func (g GoalConfig) ForecastedAlerts() []AlertConfig {
	return g.alertsOfType(AlertTypeForecasted)
}

func (g GoalConfig) alertsOfType(t AlertType) []AlertConfig {
	var alerts []AlertConfig
	for _, a := range g.Alerts {
		if a.Type == t {
			alerts = append(alerts, a)
		}
	}
	return alerts
}
