// Package storage persists the tracker's state document.
//
// Every backend stores the same JSON document (see Document). The JSON file
// backend is the default; SQLite and PostgreSQL keep the document in a
// single-row key/value table.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
)

// DocumentKey is the key of the state document in table backends.
const DocumentKey = "carbonFootprintData"

var (
	// ErrStoreCorrupted indicates the stored document exists but cannot be
	// decoded. Callers should abort unless the user explicitly resets.
	ErrStoreCorrupted = errors.New("state document corrupted")
	// ErrIncompatibleSchema is returned for a document written by an
	// incompatible major schema version.
	ErrIncompatibleSchema = errors.New("incompatible state schema version")
	// ErrNoDSN is returned when the postgres backend has no connection string.
	ErrNoDSN = config.ErrNoDSN
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a persistence backend for the tracker.
type Store interface {
	engine.Store
	Close() error
}

// Open returns the backend selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "storage").
		Str("operation", "Open").
		Str("backend", cfg.Storage.Backend).
		Logger()

	var (
		store Store
		err   error
	)
	switch cfg.Storage.Backend {
	case config.BackendJSON, "":
		store = NewJSONStore(cfg.StatePath())
	case config.BackendSQLite:
		store, err = NewSQLiteStore(ctx, cfg.StatePath())
	case config.BackendPostgres:
		var dsn string
		dsn, err = config.ResolveDSN(cfg.Storage)
		if err != nil {
			return nil, err
		}
		store, err = NewPostgresStore(ctx, dsn)
	case config.BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().Msg("storage opened")
	return store, nil
}
