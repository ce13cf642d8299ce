package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/ecopulse/internal/cli"
	"github.com/rshade/ecopulse/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.Equal(t, "ecopulse", root.Use)
		assert.True(t, root.HasSubCommands())
	})
}

func TestExtractGoalExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns 0", err: nil, want: 0},
		{name: "goal exit code 2", err: &cli.GoalExitError{ExitCode: 2, Reason: "goal exceeded"}, want: 2},
		{name: "goal exit code 42", err: &cli.GoalExitError{ExitCode: 42, Reason: "over"}, want: 42},
		{
			name: "wrapped goal error",
			err:  fmt.Errorf("summary: %w", &cli.GoalExitError{ExitCode: 3, Reason: "wrapped"}),
			want: 3,
		},
		{
			name: "joined goal error",
			err:  errors.Join(errors.New("outer"), &cli.GoalExitError{ExitCode: 5, Reason: "joined"}),
			want: 5,
		},
		{name: "other errors return 1", err: errors.New("generic error"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractGoalExitCode(tt.err))
		})
	}
}
