package utils

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/ch0002ic/creatorcoin-ai/types"
)

// IDGenerator issues ULIDs for transaction and stake identifiers. ULIDs are
// lexicographically sortable by creation time, so ordering ids orders the
// records they name. Monotonic entropy keeps ids strictly increasing within
// the same millisecond.
type IDGenerator struct {
	mu      sync.Mutex
	clock   types.Clock
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator reading time from clock
func NewIDGenerator(clock types.Clock) *IDGenerator {
	return &IDGenerator{
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next returns a fresh ULID string
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy)
	return id.String()
}
