package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
)

// JSONStore keeps the state document in a single JSON file. Reads and writes
// hold a lockfile so concurrent CLI invocations do not interleave; Lock
// extends that over a whole session.
type JSONStore struct {
	mu   sync.Mutex
	path string
	lock sessionLock
}

// NewJSONStore returns a store backed by path. The file is created on the
// first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path, lock: sessionLock{path: path}}
}

// Lock holds the lockfile until Close, so no other process can load or save
// in between.
func (s *JSONStore) Lock() error {
	return s.lock.Lock()
}

// Path returns the backing file.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields (nil, nil).
func (s *JSONStore) Load(ctx context.Context) (*engine.State, error) {
	unlock, err := s.lock.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil //nolint:nilnil // nothing stored yet
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	st, err := Decode(data)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "storage").
			Str("operation", "Load").
			Str("path", s.path).
			Err(err).
			Msg("state file unreadable")
		return nil, err
	}
	return st, nil
}

// Save writes the document atomically.
func (s *JSONStore) Save(_ context.Context, st engine.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}

	unlock, err := s.lock.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFileAtomic(s.path, data)
}

// Close releases a lock taken with Lock.
func (s *JSONStore) Close() error {
	s.lock.Unlock()
	return nil
}
