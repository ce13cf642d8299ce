package engine

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/rshade/ecopulse/internal/config"
)

// IDGenerator produces unique activity identifiers.
type IDGenerator interface {
	NewID() string
}

// ULIDGenerator produces lexically sortable, monotonic ULIDs.
type ULIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewULIDGenerator returns a generator using now for the timestamp part.
// A nil now uses time.Now.
func NewULIDGenerator(now func() time.Time) *ULIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &ULIDGenerator{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewID returns the next ULID. IDs generated within one millisecond keep
// increasing.
func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond.
		return ulid.Make().String()
	}
	return id.String()
}

// UUIDGenerator produces random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// NewIDGenerator returns the generator for a tracker.id_scheme value.
// Unknown schemes fall back to ULIDs.
func NewIDGenerator(scheme string, now func() time.Time) IDGenerator {
	if scheme == config.IDSchemeUUID {
		return UUIDGenerator{}
	}
	return NewULIDGenerator(now)
}
