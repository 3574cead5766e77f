// Package palette implements the nearest-colour mapper (C1): mapping an
// arbitrary RGB hex string to the nearest catalogue colour id, memoised by
// the exact input string (spec.md §4.1).
package palette

import (
	"fmt"
	"sync"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/voxel"
)

// Diagnostic describes a non-fatal anomaly recorded during mapping, e.g. a
// malformed hex input (spec.md §4.1: "never fails the pack").
type Diagnostic struct {
	Input  string
	Reason string
}

// Mapper maps RGB colours to catalogue colour ids, caching results by the
// exact input string. It is safe for concurrent use by a single packing
// run's goroutines (spec.md §5): a mutex guards the cache, the same
// single-writer discipline the teacher's DefaultLogger uses around its
// debug flag (logging.go).
type Mapper struct {
	cat *catalogue.Catalogue

	mu          sync.Mutex
	cache       map[string]voxel.ColourID
	diagnostics []Diagnostic
}

// New constructs a Mapper over cat. It returns an error if cat has no
// colours, mirroring the fatal PaletteFailure of spec.md §4.1/§7.
func New(cat *catalogue.Catalogue) (*Mapper, error) {
	if cat == nil || len(cat.Colours) == 0 {
		return nil, fmt.Errorf("palette: %w", catalogue.ErrEmptyColours)
	}
	return &Mapper{cat: cat, cache: make(map[string]voxel.ColourID)}, nil
}

// Map returns the catalogue colour id nearest to the hex string, by squared
// Euclidean distance in sRGB space, ties broken by the lower colour id.
// Malformed hex is treated as opaque grey and recorded as a diagnostic; it
// never returns an error.
func (m *Mapper) Map(hex string) voxel.ColourID {
	m.mu.Lock()
	if id, ok := m.cache[hex]; ok {
		m.mu.Unlock()
		return id
	}
	m.mu.Unlock()

	rgb, ok := voxel.ParseHex(hex)
	id := m.nearest(rgb)

	m.mu.Lock()
	m.cache[hex] = id
	if !ok {
		m.diagnostics = append(m.diagnostics, Diagnostic{Input: hex, Reason: "malformed hex, treated as grey"})
	}
	m.mu.Unlock()

	return id
}

// MapRGB returns the nearest catalogue colour id for an already-parsed
// colour, bypassing the string cache (used when the caller already holds
// the voxel's RGB value, e.g. colour-purity checks in the packer).
func (m *Mapper) MapRGB(rgb voxel.RGB) voxel.ColourID {
	return m.nearest(rgb)
}

func (m *Mapper) nearest(rgb voxel.RGB) voxel.ColourID {
	best := m.cat.Colours[0]
	bestDist := rgb.SquaredDistance(best.RGB)
	for _, c := range m.cat.Colours[1:] {
		d := rgb.SquaredDistance(c.RGB)
		if d < bestDist || (d == bestDist && c.ID < best.ID) {
			best = c
			bestDist = d
		}
	}
	return best.ID
}

// Diagnostics returns a copy of the diagnostics recorded so far.
func (m *Mapper) Diagnostics() []Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Diagnostic, len(m.diagnostics))
	copy(out, m.diagnostics)
	return out
}
