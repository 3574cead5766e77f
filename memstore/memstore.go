// Package memstore implements the optional memory-store collaborator
// contract of spec.md §6: the core calls it opaquely after emitting a
// manifest, so past builds can be recalled and cheap similarity
// recommendations can be offered. No vector similarity scoring is
// implemented here (spec.md §9 leaves that algorithm free); this is a
// reference, in-process implementation good enough for CLI/test use
// (SPEC_FULL.md §2.3, grounded on backboard_lego_memory.py and the
// teacher's mod_assets.go build-id pattern).
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/brickforge/brickforge/manifest"
	"github.com/brickforge/brickforge/voxel"
)

// Summary is one past build returned by FindSimilar.
type Summary struct {
	BuildID     string
	Project     string
	RoomType    string
	TotalBricks int
	VoxelCount  int
}

// Store is the memory-store contract consumed opaquely by the core.
type Store interface {
	Save(project, roomType string, voxels []voxel.Voxel, m manifest.Manifest) (buildID string, err error)
	FindSimilar(project, roomType string, k int) ([]Summary, error)
}

type entry struct {
	summary Summary
}

// InProcess is a reference Store implementation: builds are kept in
// memory for the lifetime of the process, grouped by (project,
// roomType). FindSimilar returns the k most recent builds under the same
// key, newest first — a placeholder ordering, not a similarity score.
type InProcess struct {
	mu      sync.Mutex
	byKey   map[string][]entry
}

// NewInProcess returns an empty in-process store.
func NewInProcess() *InProcess {
	return &InProcess{byKey: make(map[string][]entry)}
}

func key(project, roomType string) string { return project + "\x00" + roomType }

// Save records a build and returns a newly minted build id, the same way
// the teacher's AssetServer mints an AssetId for each loaded mesh.
func (s *InProcess) Save(project, roomType string, voxels []voxel.Voxel, m manifest.Manifest) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(project, roomType)
	s.byKey[k] = append(s.byKey[k], entry{summary: Summary{
		BuildID:     id,
		Project:     project,
		RoomType:    roomType,
		TotalBricks: m.TotalBricks,
		VoxelCount:  len(voxels),
	}})
	return id, nil
}

// FindSimilar returns up to k of the most recently saved builds sharing
// (project, roomType).
func (s *InProcess) FindSimilar(project, roomType string, k int) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.byKey[key(project, roomType)]
	if k > len(entries) || k < 0 {
		k = len(entries)
	}
	out := make([]Summary, 0, k)
	for i := len(entries) - 1; i >= 0 && len(out) < k; i-- {
		out = append(out, entries[i].summary)
	}
	return out, nil
}
