// Command ecopulse tracks a personal carbon footprint from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/ecopulse/internal/cli"
	"github.com/rshade/ecopulse/pkg/version"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}

// extractGoalExitCode maps err to a process exit code: 0 for nil, the
// carried code for a GoalExitError and 1 otherwise.
func extractGoalExitCode(err error) int {
	if err == nil {
		return 0
	}
	var goalErr *cli.GoalExitError
	if errors.As(err, &goalErr) {
		return goalErr.ExitCode
	}
	return 1
}

func main() {
	if err := run(); err != nil {
		var goalErr *cli.GoalExitError
		if !errors.As(err, &goalErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(extractGoalExitCode(err))
	}
}
