package config

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/ecopulse/internal/logging"
)

// Logger is the package-level logger used before a CLI logger exists.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger zerolog.Logger

// logResult tracks the rotating file writer behind Logger, if any.
//
//nolint:gochecknoglobals // Tracks the global logger's file handle for proper cleanup
var logResult *logging.LogPathResult

// logMu protects Logger and logResult.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.RWMutex

// InitLogger rebuilds the package-level Logger from lc, closing any file
// opened by a previous call.
func InitLogger(lc LoggingConfig) {
	logMu.Lock()
	defer logMu.Unlock()

	closeLogFileLocked()
	result := logging.NewLoggerWithPath(lc.ToLoggingConfig())
	Logger = result.Logger
	logResult = &result
}

// SetLogLevel changes the level of the package-level Logger. Unparseable
// levels fall back to info.
func SetLogLevel(level string) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	Logger = Logger.Level(lvl)
}

// CloseLogFile closes the current log file, if any, and resets Logger to
// console output.
func CloseLogFile() {
	logMu.Lock()
	defer logMu.Unlock()
	closeLogFileLocked()
}

// closeLogFileLocked must be called with logMu held.
func closeLogFileLocked() {
	if logResult == nil || !logResult.UsingFile {
		return
	}
	_ = logResult.Close()
	logResult = nil
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(Logger.GetLevel()).
		With().
		Timestamp().
		Logger()
}

// GetLogger returns the package-level logger.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

//nolint:gochecknoinits // package-level logger must exist before configuration is loaded
func init() {
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// ToLoggingConfig converts the YAML logging section into logging.Config.
// A non-empty File selects file output; "text" is treated as console.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}
	format := lc.Format
	if format == "text" {
		format = logging.FormatConsole
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global configuration's logging
// section.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}
