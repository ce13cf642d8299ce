package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/greenops"
	"github.com/rshade/ecopulse/internal/logging"
)

// ErrNonPositiveQuantity rejects CLI quantities the form would not accept.
var ErrNonPositiveQuantity = errors.New("quantity must be greater than 0")

// NewLogCmd creates the "log" command that records one activity.
func NewLogCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "log <category> <subcategory> <quantity>",
		Short: "Log an activity",
		Long: `Log a transport, diet or energy activity. Emissions are computed from the
built-in factor table (see 'ecopulse factors').

Quantities are km for transport, meals for diet and kWh for energy. Pairs
not in the factor table are recorded with zero emissions.`,
		Example: `  # A 12 km car trip today
  ecopulse log transport car 12

  # Two vegan meals on a past day
  ecopulse log diet vegan 2 --date 2025-01-14`,
		Args: cobra.ExactArgs(3), //nolint:mnd // category, subcategory, quantity
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeLog(cmd, engine.ActivityDraft{
				Category:    args[0],
				Subcategory: args[1],
				Quantity:    args[2],
				Date:        date,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day of the activity (YYYY-MM-DD, default today)")

	return cmd
}

func executeLog(cmd *cobra.Command, draft engine.ActivityDraft) error {
	log := logging.FromContext(cmd.Context())

	if greenops.ParseQuantity(draft.Quantity) <= 0 {
		return fmt.Errorf("%w: got %q", ErrNonPositiveQuantity, draft.Quantity)
	}
	if !greenops.IsKnownPair(draft.Category, draft.Subcategory) {
		log.Warn().Ctx(cmd.Context()).
			Str("category", draft.Category).
			Str("subcategory", draft.Subcategory).
			Msg("unknown activity type, emissions will be 0")
		cmd.PrintErrf("Warning: %s/%s is not in the factor table; recorded with 0 kg CO2e\n",
			draft.Category, draft.Subcategory)
	}

	return withSession(cmd, func(s *session) error {
		act, err := s.tracker.AddActivity(cmd.Context(), draft)
		if err != nil {
			return err
		}

		if handled, werr := writeStructured(cmd.OutOrStdout(), act, []engine.Activity{act}); handled {
			return werr
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Logged %s %s %s: %s CO2e\n",
			act.Category, act.Subcategory, formatQuantity(act), formatKg(act.Emissions))
		if eq := greenops.ForFootprint(act.Emissions); !eq.IsEmpty {
			_, _ = fmt.Fprintln(out, muted(out, eq.DisplayText))
		}
		_, _ = fmt.Fprintf(out, "ID: %s\n", act.ID)
		return nil
	})
}

// NewRemoveCmd creates the "remove" command that deletes an activity by id.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a logged activity",
		Example: `  ecopulse remove 01J9Z6W1C4T5Q8X2Y3B7N0M5KD`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				removed, err := s.tracker.RemoveActivity(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					cmd.PrintErrf("No activity with id %s\n", args[0])
					return nil
				}
				cmd.Printf("Removed %s\n", args[0])
				return nil
			})
		},
	}
}
