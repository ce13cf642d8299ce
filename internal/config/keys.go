package config

import (
	"fmt"
	"sort"
	"strconv"
)

// field binds a dotted configuration key to its value in a Config.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(ptr func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func floatField(ptr func(c *Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", v)
			}
			*ptr(c) = f
			return nil
		},
	}
}

func intField(ptr func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func boolField(ptr func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*ptr(c) = b
			return nil
		},
	}
}

//nolint:gochecknoglobals // Static key table.
var fields = map[string]field{
	"output.default_format":        stringField(func(c *Config) *string { return &c.Output.DefaultFormat }),
	"output.precision":             intField(func(c *Config) *int { return &c.Output.Precision }),
	"logging.level":                stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":               stringField(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":                 stringField(func(c *Config) *string { return &c.Logging.File }),
	"storage.backend":              stringField(func(c *Config) *string { return &c.Storage.Backend }),
	"storage.path":                 stringField(func(c *Config) *string { return &c.Storage.Path }),
	"storage.dsn":                  stringField(func(c *Config) *string { return &c.Storage.DSN }),
	"tracker.timezone":             stringField(func(c *Config) *string { return &c.Tracker.Timezone }),
	"tracker.global_average_daily": floatField(func(c *Config) *float64 { return &c.Tracker.GlobalAverageDaily }),
	"tracker.what_if_reduction":    floatField(func(c *Config) *float64 { return &c.Tracker.WhatIfReduction }),
	"tracker.id_scheme":            stringField(func(c *Config) *string { return &c.Tracker.IDScheme }),
	"goal.weekly_kg":               floatField(func(c *Config) *float64 { return &c.Goal.WeeklyKg }),
	"goal.exit_on_threshold":       boolField(func(c *Config) *bool { return &c.Goal.ExitOnThreshold }),
	"goal.exit_code":               intField(func(c *Config) *int { return &c.Goal.ExitCode }),
	"metrics.textfile_path":        stringField(func(c *Config) *string { return &c.Metrics.TextfilePath }),
}

// secretKeys are masked by List.
//
//nolint:gochecknoglobals // Static key set.
var secretKeys = map[string]bool{"storage.dsn": true}

// Keys returns every settable key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a dotted key such as "goal.weekly_kg".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into the dotted key. The result is not validated; call
// Validate before saving.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// List returns every key with its current value. Secrets are masked.
func (c *Config) List() map[string]string {
	out := make(map[string]string, len(fields))
	for k, f := range fields {
		v := f.get(c)
		if secretKeys[k] && v != "" {
			v = "********"
		}
		out[k] = v
	}
	return out
}

// ApplyEnvOverrides sets every key whose ECOPULSE_* variable is present,
// e.g. ECOPULSE_GOAL_WEEKLY_KG for goal.weekly_kg. ECOPULSE_STATE_FILE is
// accepted for storage.path. Unparseable values are logged and skipped.
func (c *Config) ApplyEnvOverrides() {
	aliases := map[string]string{
		"ECOPULSE_STATE_FILE": "storage.path",
		"ECOPULSE_LOG_LEVEL":  "logging.level",
	}
	for env, key := range aliases {
		c.applyEnv(env, key)
	}
	for _, key := range Keys() {
		c.applyEnv(envName(key), key)
	}
}

func (c *Config) applyEnv(env, key string) {
	v, ok := lookupEnv(env)
	if !ok {
		return
	}
	if err := c.Set(key, v); err != nil {
		logger := GetLogger()
		logger.Warn().
			Str("component", "config").
			Str("env", env).
			Err(err).
			Msg("ignoring invalid environment override")
	}
}
