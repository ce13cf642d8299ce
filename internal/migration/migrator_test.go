package migration_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/migration"
	"github.com/rshade/ecopulse/internal/storage"
)

func seeded(t *testing.T, n int) *storage.MemoryStore {
	t.Helper()
	acts := make([]engine.Activity, 0, n)
	for i := range n {
		acts = append(acts, engine.Activity{
			ID:          "a" + string(rune('0'+i)),
			Category:    "transport",
			Subcategory: "bus",
			Quantity:    10,
			Timestamp:   time.Date(2024, 5, 10+i, 12, 0, 0, 0, time.UTC),
			Emissions:   1,
		})
	}
	s := engine.Reduce(engine.NewState(), engine.LoadData{State: engine.State{Activities: acts}})
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), s))
	return store
}

func TestMigrateToEmptyTarget(t *testing.T) {
	ctx := context.Background()
	src := seeded(t, 3)
	dst, err := storage.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "ecopulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Close() })

	res, err := migration.Migrate(ctx, src, dst, migration.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Activities)
	assert.InDelta(t, 3.0, res.Total, 1e-9)
	assert.False(t, res.Overwrote)

	got, err := dst.Load(ctx)
	require.NoError(t, err)
	want, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, *want, *got)
}

func TestMigrateEmptySource(t *testing.T) {
	_, err := migration.Migrate(context.Background(), storage.NewMemoryStore(), storage.NewMemoryStore(), migration.Options{})
	require.ErrorIs(t, err, migration.ErrSourceEmpty)
}

func TestMigrateOverwritePrompt(t *testing.T) {
	tests := []struct {
		name    string
		opts    migration.Options
		wantErr error
		wantLen int
	}{
		{"declined", migration.Options{In: strings.NewReader("n\n")}, migration.ErrAborted, 1},
		{"no input declines", migration.Options{}, migration.ErrAborted, 1},
		{"accepted", migration.Options{In: strings.NewReader("yes\n")}, nil, 2},
		{"forced", migration.Options{Force: true}, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			src := seeded(t, 2)
			dst := seeded(t, 1)
			var out bytes.Buffer
			tt.opts.Out = &out

			res, err := migration.Migrate(ctx, src, dst, tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, res.Overwrote)
			}

			got, err := dst.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, got.Activities, tt.wantLen)
		})
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, migration.Confirm(&out, strings.NewReader("Y\n"), "Proceed?"))
	assert.Equal(t, "Proceed? [y/N] ", out.String())
	assert.False(t, migration.Confirm(nil, strings.NewReader("\n"), "Proceed?"))
	assert.False(t, migration.Confirm(nil, nil, "Proceed?"))
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	now := time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

	name, err := migration.BackupFile(path, now)
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, os.WriteFile(path, []byte(`{"activities":[]}`), 0o600))
	name, err = migration.BackupFile(path, now)
	require.NoError(t, err)
	assert.Equal(t, path+".bak-20240515-103000", name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.JSONEq(t, `{"activities":[]}`, string(data))
}
