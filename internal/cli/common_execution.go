package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecopulse/internal/config"
	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
	"github.com/rshade/ecopulse/internal/storage"
)

// session is an opened tracker and its backing store.
type session struct {
	cfg     *config.Config
	store   storage.Store
	tracker *engine.Tracker
}

// Close releases the store.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		logger.Warn().Err(err).Msg("closing storage")
	}
}

// openSession opens the configured store, locks it when the backend supports
// that, and loads the tracker state.
func openSession(ctx context.Context) (*session, error) {
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open storage")
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	// Held until Close: another process must not load between our load and save.
	if locker, ok := store.(storage.Locker); ok {
		if err = locker.Lock(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("locking %s storage: %w", cfg.Storage.Backend, err)
		}
	}

	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	tracker := engine.NewTracker(store, opts)
	if err = tracker.Open(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Debug().Ctx(ctx).
		Str("backend", cfg.Storage.Backend).
		Int("activities", len(tracker.State().Activities)).
		Msg("tracker opened")

	return &session{cfg: cfg, store: store, tracker: tracker}, nil
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
