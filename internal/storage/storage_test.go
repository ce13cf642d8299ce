package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/storage"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
		want    any
	}{
		{config.BackendJSON, filepath.Join(dir, "state.json"), &storage.JSONStore{}},
		{config.BackendSQLite, filepath.Join(dir, "ecopulse.db"), &storage.SQLiteStore{}},
		{config.BackendMemory, "", &storage.MemoryStore{}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.NewDefault()
			cfg.Storage.Backend = tt.backend
			cfg.Storage.Path = tt.path

			store, err := storage.Open(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Storage.Backend = "redis"

	_, err := storage.Open(context.Background(), cfg)
	require.ErrorIs(t, err, storage.ErrUnknownBackend)
}

func TestOpenPostgresWithoutDSN(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.DSNEnvVar, "")

	cfg := config.NewDefault()
	cfg.Storage.Backend = config.BackendPostgres

	_, err := storage.Open(context.Background(), cfg)
	require.ErrorIs(t, err, storage.ErrNoDSN)
}
