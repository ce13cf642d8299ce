package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/metrics"
)

// ErrNoMetricsFile is returned when neither --file nor metrics.textfile_path is set.
var ErrNoMetricsFile = errors.New("no metrics file: pass --file or set metrics.textfile_path")

// newMetricsCmd creates the metrics command group.
func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "metrics", Short: "Prometheus metrics"}
	cmd.AddCommand(newMetricsExportCmd())
	return cmd
}

func newMetricsExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write footprint gauges for the node_exporter textfile collector",
		Example: `  ecopulse metrics export --file /var/lib/node_exporter/textfile/ecopulse.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				path := file
				if path == "" {
					path = s.cfg.Metrics.TextfilePath
				}
				if path == "" {
					return ErrNoMetricsFile
				}

				exp := metrics.NewExporter()
				exp.Observe(s.tracker.State(), s.tracker.Dashboard(s.tracker.Now(), s.cfg.Tracker.WhatIfReduction))
				if err := exp.WriteTextfile(path); err != nil {
					return err
				}
				logger.Debug().Str("path", path).Msg("metrics exported")
				cmd.Printf("Metrics written to %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "output file (default metrics.textfile_path)")

	return cmd
}
