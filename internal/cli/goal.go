package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
)

// newGoalCmd creates the goal command group.
func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "goal", Short: "Weekly footprint goal"}
	cmd.AddCommand(newGoalShowCmd(), newGoalSetCmd())
	return cmd
}

func newGoalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show progress toward this week's goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				st := s.tracker.Goal(s.tracker.Now())
				if handled, err := writeStructured(cmd.OutOrStdout(), st, []engine.GoalStatus{st}); handled {
					return err
				}
				return RenderGoalStatus(cmd.OutOrStdout(), st)
			})
		},
	}
}

func newGoalSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <kg>",
		Short: "Set the weekly goal in kg CO2e (0 disables it)",
		Example: `  ecopulse goal set 25
  ecopulse goal set 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fileConfig()
			if err != nil {
				return err
			}
			if err = cfg.Set("goal.weekly_kg", args[0]); err != nil {
				return err
			}
			if err = cfg.Goal.Validate(); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			if cfg.Goal.WeeklyKg == 0 {
				cmd.Println("Weekly goal disabled")
				return nil
			}
			cmd.Printf("Weekly goal set to %s CO2e (%s kg/day)\n",
				formatKg(cfg.Goal.WeeklyKg),
				greenops.FormatFloat(cfg.Goal.WeeklyKg/daysPerWeek, precision()))
			return nil
		},
	}
}

const daysPerWeek = 7

