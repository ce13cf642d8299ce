// Package config loads, validates and persists EcoPulse settings.
//
// Settings live in ~/.ecopulse/config.yaml (ECOPULSE_HOME overrides the
// directory). New layers defaults, the YAML file, a .env file and ECOPULSE_*
// environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output and output.default_format.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Storage backends accepted by storage.backend.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Identifier schemes accepted by tracker.id_scheme.
const (
	IDSchemeULID = "ulid"
	IDSchemeUUID = "uuid"
)

// Defaults.
const (
	DefaultGlobalAverageDaily = 11.0
	DefaultWhatIfReduction    = 10.0
	DefaultWeeklyGoalKg       = 20.0
	DefaultGoalExitCode       = 1
	DefaultPrecision          = 2
	MaxPrecision              = 10
	configFileName            = "config.yaml"
	stateFileName             = "state.json"
	sqliteFileName            = "ecopulse.db"
	outputTypeFile            = "file"
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be table, json or ndjson")
	ErrInvalidPrecision    = errors.New("precision must be between 0 and 10")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("log format must be json, console or text")
	ErrInvalidBackend      = errors.New("storage backend must be json, sqlite, postgres or memory")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidAverage      = errors.New("global average daily footprint must be greater than 0")
	ErrInvalidReduction    = errors.New("what-if reduction must be between 0 and 100")
	ErrInvalidIDScheme     = errors.New("id scheme must be ulid or uuid")
	ErrUnknownKey          = errors.New("unknown configuration key")
)

// Config is the complete EcoPulse configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"  json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Tracker TrackerConfig `yaml:"tracker" json:"tracker"`
	Goal    GoalConfig    `yaml:"goal"    json:"goal"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	configPath string
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// LoggingConfig controls the zerolog logger. An empty File logs to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// StorageConfig selects and addresses the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"        json:"backend"`
	// Path is the JSON state file or SQLite database file.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// DSN is the PostgreSQL connection string. Prefer the keyring or
	// ECOPULSE_DB_DSN over storing it here.
	DSN string `yaml:"dsn,omitempty" json:"-"`
}

// TrackerConfig tunes the footprint engine.
type TrackerConfig struct {
	// Timezone is an IANA name used to bucket activities into days.
	// Empty means the local zone.
	Timezone           string  `yaml:"timezone,omitempty"   json:"timezone,omitempty"`
	GlobalAverageDaily float64 `yaml:"global_average_daily" json:"global_average_daily"`
	WhatIfReduction    float64 `yaml:"what_if_reduction"    json:"what_if_reduction"`
	IDScheme           string  `yaml:"id_scheme"            json:"id_scheme"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path,omitempty" json:"textfile_path,omitempty"`
}

// Location resolves Timezone, falling back to time.Local when empty.
func (t TrackerConfig) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTimezone, t.Timezone, err)
	}
	return loc, nil
}

// NewDefault returns a Config holding only built-in defaults. Nothing is
// read from disk or the environment.
func NewDefault() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), ".ecopulse")
	}
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Backend: BackendJSON,
		},
		Tracker: TrackerConfig{
			GlobalAverageDaily: DefaultGlobalAverageDaily,
			WhatIfReduction:    DefaultWhatIfReduction,
			IDScheme:           IDSchemeULID,
		},
		Goal: GoalConfig{
			WeeklyKg: DefaultWeeklyGoalKg,
			ExitCode: DefaultGoalExitCode,
		},
		configPath: filepath.Join(dir, configFileName),
	}
}

// New returns the effective configuration: defaults, then config.yaml, then
// .env and ECOPULSE_* environment overrides. A missing or unreadable file
// leaves defaults in place.
func New() *Config {
	cfg := NewDefault()

	if err := cfg.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger := GetLogger()
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("path", cfg.configPath).
			Msg("failed to load configuration, using defaults")
	}

	LoadDotEnv(filepath.Dir(cfg.configPath))
	cfg.ApplyEnvOverrides()
	return cfg
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Load and Save use.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Load reads configPath over the current values. Sections absent from the
// file keep their current values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes the configuration as YAML to configPath.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatNDJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, c.Output.Precision)
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil || c.Logging.Level == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console", "text":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, c.Storage.Backend)
	}

	if _, err := c.Tracker.Location(); err != nil {
		return err
	}
	if c.Tracker.GlobalAverageDaily <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidAverage, c.Tracker.GlobalAverageDaily)
	}
	if c.Tracker.WhatIfReduction < 0 || c.Tracker.WhatIfReduction > 100 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidReduction, c.Tracker.WhatIfReduction)
	}
	switch c.Tracker.IDScheme {
	case IDSchemeULID, IDSchemeUUID:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidIDScheme, c.Tracker.IDScheme)
	}

	if err := c.Goal.Validate(); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	return nil
}

// StatePath returns the file backing the json or sqlite backend, defaulting
// to state.json or ecopulse.db next to the config file.
func (c *Config) StatePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	name := stateFileName
	if c.Storage.Backend == BackendSQLite {
		name = sqliteFileName
	}
	return filepath.Join(filepath.Dir(c.configPath), name)
}

// Copy returns a deep copy.
func (c *Config) Copy() *Config {
	cp := *c
	cp.Goal.Alerts = append([]AlertConfig(nil), c.Goal.Alerts...)
	return &cp
}

// envName maps a dotted key to its ECOPULSE_* variable.
func envName(key string) string {
	return "ECOPULSE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
