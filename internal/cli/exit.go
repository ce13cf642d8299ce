package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
)

// GoalExitError carries the process exit code for a breached weekly goal.
type GoalExitError struct {
	ExitCode int
	Reason   string
}

func (e *GoalExitError) Error() string {
	return e.Reason
}

// goalBreached reports whether the goal is exceeded or any alert fired.
func goalBreached(st engine.GoalStatus) bool {
	return st.Health == engine.GoalHealthExceeded || st.HasExceededAlerts()
}

// goalExitReason describes the breach for the exit message.
func goalExitReason(st engine.GoalStatus) string {
	return fmt.Sprintf("weekly footprint %s is %.1f%% of the %s goal",
		formatKg(st.WeekFootprint), st.PercentUsed, formatKg(st.Goal))
}

// checkGoalExit returns a GoalExitError when the goal is breached and
// exit_on_threshold is enabled. Exit code 0 only prints a warning.
func checkGoalExit(cmd *cobra.Command, st engine.GoalStatus, gc config.GoalConfig) error {
	if !gc.ShouldExitOnThreshold() || !gc.IsEnabled() || !goalBreached(st) {
		return nil
	}

	reason := goalExitReason(st)
	exitCode := gc.GetExitCode()

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cmd.PrintErrf("DEBUG: %s\n", reason)
	}

	if exitCode == 0 {
		cmd.PrintErrf("WARNING: %s\n", reason)
		return nil
	}
	return &GoalExitError{ExitCode: exitCode, Reason: reason}
}
