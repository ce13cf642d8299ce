package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecopulse/internal/logging"
)

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc = LoggingConfig{Level: "info", Format: "text", File: "/tmp/x.log"}
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, logging.FormatConsole, got.Format)
	assert.Equal(t, "/tmp/x.log", got.File)
}

func TestInitLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecopulse.log")
	InitLogger(LoggingConfig{Level: "debug", Format: "json", File: path})
	t.Cleanup(CloseLogFile)

	logger := GetLogger()
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	logger.Info().Msg("written to file")

	CloseLogFile()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestSetLogLevel(t *testing.T) {
	SetLogLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	SetLogLevel("bogus")
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}
