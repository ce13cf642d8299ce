package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/config"
)

// fileConfig returns defaults plus the config file only, so that saving
// does not persist environment overrides.
func fileConfig() (*config.Config, error) {
	cfg := config.NewDefault()
	cfg.SetConfigPath(config.GetGlobalConfig().ConfigPath())
	if err := cfg.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return cfg, nil
}

// NewConfigSetCmd creates the config set command.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  ecopulse config set goal.weekly_kg 25
  ecopulse config set storage.backend sqlite
  ecopulse config set tracker.timezone Europe/Berlin`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fileConfig()
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", args[0], err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one effective configuration value",
		Example: `  ecopulse config get goal.weekly_kg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every effective configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := config.GetGlobalConfig().List()
			if handled, err := writeStructured(cmd.OutOrStdout(), values, []map[string]string{values}); handled {
				return err
			}

			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := newTable(cmd.OutOrStdout())
			for _, k := range keys {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", k, values[k])
			}
			return tw.Flush()
		},
	}
}
