package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	debug     bool
	config    string
	backend   string
	stateFile string
	output    string
}

// NewRootCmd creates the root Cobra command for the ecopulse CLI.
func NewRootCmd(ver string) *cobra.Command {
	var (
		flags     rootFlags
		logResult *logging.LogPathResult
	)

	cmd := &cobra.Command{
		Use:           "ecopulse",
		Short:         "Track your personal carbon footprint",
		Long:          "EcoPulse: log transport, diet and energy activities and follow your carbon footprint",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&flags.config, "config", "", "config file (default ~/.ecopulse/config.yaml)")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: json, sqlite, postgres or memory")
	pf.StringVar(&flags.stateFile, "state-file", "", "state file for the json or sqlite backend")
	pf.StringVarP(&flags.output, "output", "o", "", "output format: table, json or ndjson")

	cmd.AddCommand(
		NewLogCmd(), NewRemoveCmd(), NewListCmd(),
		NewSummaryCmd(), NewTrendCmd(), NewWhatIfCmd(),
		NewBadgesCmd(), NewTipsCmd(), NewStatsCmd(), NewFactorsCmd(),
		newGoalCmd(), newConfigCmd(), newStorageCmd(), newMetricsCmd(),
	)

	return cmd
}

// loadConfig builds the effective configuration: the global file or --config,
// a project overlay, the environment, then flag overrides.
func loadConfig(cmd *cobra.Command, flags rootFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.config != "" {
		cfg = config.NewDefault()
		cfg.SetConfigPath(flags.config)
		if err := cfg.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		config.LoadDotEnv(filepath.Dir(flags.config))
		cfg.ApplyEnvOverrides()
	} else {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		cfg = config.NewWithProjectDir(cmd.Context(), config.FindProjectDir(wd))
	}

	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
	}
	if flags.stateFile != "" {
		cfg.Storage.Path = flags.stateFile
	}
	if flags.output != "" {
		cfg.Output.DefaultFormat = flags.output
	}
	if err := validateOutputFormat(cfg.Output.DefaultFormat); err != nil {
		return nil, err
	}
	if err := validateBackend(cfg.Storage.Backend); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateBackend(backend string) error {
	switch backend {
	case config.BackendJSON, config.BackendSQLite, config.BackendPostgres, config.BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: got %q", config.ErrInvalidBackend, backend)
	}
}

const rootCmdExample = `  # Log a 12 km car trip
  ecopulse log transport car 12

  # Log a vegan meal yesterday
  ecopulse log diet vegan 1 --date 2025-01-14

  # Show the dashboard with a 30% what-if reduction
  ecopulse summary --reduction 30

  # List diet activities as JSON
  ecopulse list --category diet --output json

  # Set a weekly goal of 25 kg CO2e
  ecopulse goal set 25

  # Move your history into SQLite
  ecopulse storage migrate --from json --to sqlite`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
