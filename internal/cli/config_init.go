package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/config"
)

// projectGitignore keeps local state out of version control.
const projectGitignore = `# EcoPulse local data
state.json
state.json.lock
*.db
*.bak-*
`

// NewConfigInitCmd creates the config init command. With --project it
// creates ./.ecopulse/config.yaml and a .gitignore instead of the global file.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

With --project, creates ./.ecopulse/config.yaml with a .gitignore so the
directory can carry its own settings (for example a different goal or state
file). Project settings are merged over the global file section by section.`,
		Example: `  # Create the global configuration
  ecopulse config init

  # Create a project overlay in the current directory
  ecopulse config init --project

  # Overwrite an existing file
  ecopulse config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
				return initProjectConfig(cmd, filepath.Join(wd, ".ecopulse"), force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create ./.ecopulse/config.yaml instead of the global file")

	return cmd
}

func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkNotExists(configPath, force); err != nil {
		return err
	}

	cfg := config.NewDefault()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := ensureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep local data out of version control\n")
	}
	return nil
}

func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.NewDefault()
	if path := config.GetGlobalConfig().ConfigPath(); path != "" {
		cfg.SetConfigPath(path)
	}
	if err := checkNotExists(cfg.ConfigPath(), force); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())
	return nil
}

func checkNotExists(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// ensureGitignore writes dir/.gitignore unless one exists.
func ensureGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(projectGitignore), 0o600); err != nil {
		return false, err
	}
	return true, nil
}
