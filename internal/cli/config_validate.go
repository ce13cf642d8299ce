package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/config"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the configuration after the config file, any project overlay
and ECOPULSE_* environment variables have been applied.`,
		Example: `  ecopulse config validate
  ecopulse config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Printf("Configuration is valid\n")
			if verbose {
				printVerboseDetails(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Storage backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendJSON || cfg.Storage.Backend == config.BackendSQLite {
		cmd.Printf("  State file: %s\n", cfg.StatePath())
	}
	if cfg.Goal.IsEnabled() {
		cmd.Printf("  Weekly goal: %s (%d alerts)\n", formatKg(cfg.Goal.WeeklyKg), len(cfg.Goal.Alerts))
	} else {
		cmd.Println("  No weekly goal configured")
	}
}
