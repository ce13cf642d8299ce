package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

// Keyring coordinates for the PostgreSQL connection string.
const (
	KeyringService = "ecopulse"
	KeyringUser    = "postgres-dsn"
	// DSNEnvVar names the environment variable holding the PostgreSQL DSN.
	DSNEnvVar = "ECOPULSE_DB_DSN"
)

var (
	// ErrNoDSN is returned when no PostgreSQL connection string is configured.
	ErrNoDSN = errors.New("no database connection string configured")
	// ErrKeyringUnavailable wraps OS keyring failures other than a missing entry.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// LoadDotEnv loads .env from the working directory and then from each of
// dirs. Variables already set in the environment win; missing files are
// ignored.
func LoadDotEnv(dirs ...string) {
	candidates := []string{".env"}
	for _, d := range dirs {
		if d != "" {
			candidates = append(candidates, filepath.Join(d, ".env"))
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger := GetLogger()
			logger.Warn().
				Str("component", "config").
				Str("path", path).
				Err(err).
				Msg("failed to load .env file")
		}
	}
}

// ResolveDSN finds the PostgreSQL DSN: storage.dsn, then ECOPULSE_DB_DSN,
// then the OS keyring. ErrNoDSN is returned when none is set.
func ResolveDSN(s StorageConfig) (string, error) {
	if s.DSN != "" {
		return s.DSN, nil
	}
	if v, ok := lookupEnv(DSNEnvVar); ok {
		return v, nil
	}
	dsn, err := GetKeyringDSN()
	if err == nil {
		return dsn, nil
	}
	if errors.Is(err, ErrNoDSN) {
		return "", ErrNoDSN
	}
	return "", fmt.Errorf("%w: %w", ErrNoDSN, err)
}

// GetKeyringDSN reads the DSN from the OS keyring.
func GetKeyringDSN() (string, error) {
	dsn, err := keyring.Get(KeyringService, KeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoDSN
		}
		return "", fmt.Errorf("%w: %w", ErrKeyringUnavailable, err)
	}
	return dsn, nil
}

// SetKeyringDSN stores the DSN in the OS keyring.
func SetKeyringDSN(dsn string) error {
	if dsn == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, dsn); err != nil {
		return fmt.Errorf("storing connection string in keyring: %w", err)
	}
	return nil
}

// DeleteKeyringDSN removes the DSN from the OS keyring. A missing entry
// returns ErrNoDSN.
func DeleteKeyringDSN() error {
	if err := keyring.Delete(KeyringService, KeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNoDSN
		}
		return fmt.Errorf("deleting connection string from keyring: %w", err)
	}
	return nil
}

// lookupEnv treats an empty variable as unset.
func lookupEnv(name string) (string, bool) {
	v := os.Getenv(name)
	return v, v != ""
}
