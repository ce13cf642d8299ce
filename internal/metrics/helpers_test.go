package metrics_test

import (
	"context"

	"github.com/rshade/ecopulse/internal/engine"
)

type memStore struct {
	state *engine.State
}

func (m *memStore) Load(context.Context) (*engine.State, error) {
	return m.state, nil
}

func (m *memStore) Save(_ context.Context, s engine.State) error {
	m.state = &s
	return nil
}
