package oracle

import (
	"context"
	"sync"

	"github.com/brickforge/brickforge/voxel"
)

type key struct {
	part   voxel.PartID
	colour voxel.ColourID
}

// Memo wraps an Oracle with a write-once memoisation layer: once a pairing
// is resolved to True or False it is never requeried; Unknown answers are
// cached too, but may be promoted to a firm verdict by a later call,
// mirroring the BrickAtlasMap free-slot bookkeeping the teacher uses to
// avoid re-deriving settled occupancy state.
type Memo struct {
	mu       sync.Mutex
	upstream Oracle
	cache    map[key]Verdict
}

// NewMemo wraps upstream with memoisation. upstream must be non-nil.
func NewMemo(upstream Oracle) *Memo {
	return &Memo{upstream: upstream, cache: make(map[key]Verdict)}
}

func (m *Memo) IsAvailable(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
	k := key{part, colour}

	m.mu.Lock()
	if v, ok := m.cache[k]; ok && v != Unknown {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err := m.upstream.IsAvailable(ctx, part, colour)
	if err != nil {
		return Unknown, err
	}

	m.mu.Lock()
	// A firm verdict is written once and never overwritten; a repeat
	// Unknown answer simply leaves the entry as Unknown.
	if cur, ok := m.cache[k]; !ok || cur == Unknown {
		m.cache[k] = v
	}
	m.mu.Unlock()

	return v, nil
}

// Len reports how many distinct (part, colour) pairings have been queried.
// Exposed for tests and diagnostics, not part of the Oracle contract.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cache)
}
