package storage

import (
	"context"
	"sync"

	"github.com/rshade/ecopulse/internal/engine"
)

// MemoryStore keeps the state in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	state *engine.State
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the saved state, or nil before the first Save.
func (m *MemoryStore) Load(context.Context) (*engine.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil //nolint:nilnil // nothing stored yet
	}
	c := m.state.Clone()
	return &c, nil
}

// Save stores a copy of s.
func (m *MemoryStore) Save(_ context.Context, s engine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	m.state = &c
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
