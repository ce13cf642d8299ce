package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
	"github.com/rshade/ecopulse/internal/migration"
	"github.com/rshade/ecopulse/internal/storage"
)

// newStorageCmd creates the storage command group.
func newStorageCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "storage", Short: "Manage where your data is kept"}
	cmd.AddCommand(newStorageInfoCmd(), newStorageMigrateCmd(), newStorageResetCmd(), newStorageDSNCmd())
	return cmd
}

// storageInfo is the JSON form of `storage info`.
type storageInfo struct {
	Backend    string  `json:"backend"`
	Path       string  `json:"path,omitempty"`
	Activities int     `json:"activities"`
	Badges     int     `json:"badges"`
	Total      float64 `json:"totalFootprint"`
}

func newStorageInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the active backend and what it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				st := s.tracker.State()
				info := storageInfo{
					Backend:    s.cfg.Storage.Backend,
					Path:       backendPath(s.cfg),
					Activities: len(st.Activities),
					Badges:     len(st.Badges),
					Total:      st.TotalFootprint,
				}
				if handled, err := writeStructured(cmd.OutOrStdout(), info, []storageInfo{info}); handled {
					return err
				}
				cmd.Printf("Backend:    %s\n", info.Backend)
				if info.Path != "" {
					cmd.Printf("Path:       %s\n", info.Path)
				}
				cmd.Printf("Activities: %d\n", info.Activities)
				cmd.Printf("Badges:     %d\n", info.Badges)
				cmd.Printf("Total:      %s\n", formatKg(info.Total))
				return nil
			})
		},
	}
}

// backendPath returns the file behind a file-based backend, or "".
func backendPath(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case config.BackendJSON, config.BackendSQLite:
		return cfg.StatePath()
	default:
		return ""
	}
}

// backendConfig returns a copy of the effective config pointed at backend.
// The configured path only carries over when the backend is unchanged.
func backendConfig(backend, path string) *config.Config {
	cfg := config.GetGlobalConfig().Copy()
	if backend != cfg.Storage.Backend {
		cfg.Storage.Path = ""
	}
	cfg.Storage.Backend = backend
	if path != "" {
		cfg.Storage.Path = path
	}
	return cfg
}

// migrateParams holds the flags of storage migrate.
type migrateParams struct {
	from, to         string
	fromPath, toPath string
	force            bool
}

func newStorageMigrateCmd() *cobra.Command {
	var params migrateParams

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy your data from one backend to another",
		Long: `Copies the state document from --from to --to and reads it back to verify.
The source is left untouched. When the target already holds activities you
are asked before it is overwritten; --force skips the question.`,
		Example: `  ecopulse storage migrate --from json --to sqlite
  ecopulse storage migrate --from sqlite --to postgres --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeMigrate(cmd, params)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.from, "from", "", "source backend (required)")
	f.StringVar(&params.to, "to", "", "target backend (required)")
	f.StringVar(&params.fromPath, "from-path", "", "source file for json or sqlite")
	f.StringVar(&params.toPath, "to-path", "", "target file for json or sqlite")
	f.BoolVarP(&params.force, "force", "f", false, "overwrite a non-empty target without asking")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func executeMigrate(cmd *cobra.Command, params migrateParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	for _, b := range []string{params.from, params.to} {
		if err := validateBackend(b); err != nil {
			return err
		}
	}
	srcCfg := backendConfig(params.from, params.fromPath)
	dstCfg := backendConfig(params.to, params.toPath)
	if params.from == params.to && backendPath(srcCfg) == backendPath(dstCfg) && params.from != config.BackendMemory {
		return errors.New("source and target are the same store")
	}

	src, err := storage.Open(ctx, srcCfg)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := storage.Open(ctx, dstCfg)
	if err != nil {
		return fmt.Errorf("opening target: %w", err)
	}
	defer func() { _ = dst.Close() }()

	res, err := migration.Migrate(ctx, src, dst, migration.Options{
		Force: params.force,
		Out:   cmd.OutOrStdout(),
		In:    promptReader(cmd),
	})
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("from", params.from).Str("to", params.to).Msg("migration failed")
		return err
	}

	if handled, werr := writeStructured(cmd.OutOrStdout(), res, []migration.Result{res}); handled {
		return werr
	}
	cmd.Printf("Migrated %d activities and %d badges (%s) from %s to %s\n",
		res.Activities, res.Badges, formatKg(res.Total), params.from, params.to)
	return nil
}

func newStorageResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every activity, badge and tip",
		Long: `Clears all tracked data. File backends are copied to a timestamped
.bak file first. Earned badges whose rules still hold on the empty log
(such as a low footprint today) are awarded again.`,
		Example: `  ecopulse storage reset --yes`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !migration.Confirm(cmd.OutOrStdout(), promptReader(cmd), "Delete all EcoPulse data?") {
				return migration.ErrAborted
			}
			return executeReset(cmd)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// executeReset clears the store without loading it first, so a corrupted
// document can be replaced.
func executeReset(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	if path := backendPath(cfg); path != "" {
		backup, berr := migration.BackupFile(path, time.Now())
		if berr != nil {
			return berr
		}
		if backup != "" {
			cmd.Printf("Backup written to %s\n", backup)
		}
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	defer func() { _ = store.Close() }()

	if err = engine.NewTracker(store, opts).Reset(ctx); err != nil {
		return err
	}
	cmd.Println("All data cleared")
	return nil
}

func newStorageDSNCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dsn",
		Short: "Manage the PostgreSQL connection string in the OS keyring",
	}

	setCmd := &cobra.Command{
		Use:   "set [dsn]",
		Short: "Store the connection string (prompted when omitted)",
		Example: `  ecopulse storage dsn set
  echo "$DSN" | ecopulse storage dsn set`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				dsn string
				err error
			)
			if len(args) == 1 {
				dsn = args[0]
			} else if dsn, err = readSecret(cmd, "PostgreSQL connection string: "); err != nil {
				return err
			}
			if err = config.SetKeyringDSN(dsn); err != nil {
				return err
			}
			cmd.Println("Connection string stored in the OS keyring")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored connection string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteKeyringDSN(); err != nil {
				if errors.Is(err, config.ErrNoDSN) {
					cmd.Println("No connection string stored")
					return nil
				}
				return err
			}
			cmd.Println("Connection string removed")
			return nil
		},
	}

	cmd.AddCommand(setCmd, clearCmd)
	return cmd
}
