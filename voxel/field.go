package voxel

import "sort"

// chunkSize mirrors the teacher's BrickSize (voxelrt/rt/volume/xbrickmap.go):
// an 8x8 tile of cells packed behind a single 64-bit occupancy mask so
// membership tests and layer/colour grouping don't have to walk every
// voxel in the field.
const chunkSize = 8

type chunkKey struct {
	cx, cy int32
}

// chunk is the 2D analogue of the teacher's Brick: a fixed tile of cells
// with a bitmask of which cells are occupied, plus the colour carried by
// each occupied cell.
type chunk struct {
	mask    uint64
	colours [chunkSize * chunkSize]RGB
}

func localIndex(lx, ly int32) int {
	return int(ly)*chunkSize + int(lx)
}

func (c *chunk) set(lx, ly int32, rgb RGB) {
	idx := localIndex(lx, ly)
	c.mask |= 1 << uint(idx)
	c.colours[idx] = rgb
}

func (c *chunk) get(lx, ly int32) (RGB, bool) {
	idx := localIndex(lx, ly)
	if c.mask&(1<<uint(idx)) == 0 {
		return RGB{}, false
	}
	return c.colours[idx], true
}

// layerIndex is the set of chunks holding voxels at one z.
type layerIndex struct {
	chunks map[chunkKey]*chunk
	count  int
}

func newLayerIndex() *layerIndex {
	return &layerIndex{chunks: make(map[chunkKey]*chunk)}
}

func chunkCoord(v int32) (coord int32, local int32) {
	coord = v / chunkSize
	local = v % chunkSize
	if local < 0 {
		local += chunkSize
		coord--
	}
	return
}

// Field is a sparse voxel map: (x,y,z) -> colour. It is the disjoint union
// of input voxels per spec.md §3; duplicate (x,y,z) insertions are invalid
// and rejected by Set.
type Field struct {
	byLayer map[int32]*layerIndex
	total   int
}

// NewField returns an empty voxel field.
func NewField() *Field {
	return &Field{byLayer: make(map[int32]*layerIndex)}
}

// Set inserts a voxel. It reports false if (x,y,z) was already occupied,
// since the input voxel set must be disjoint (spec.md §3).
func (f *Field) Set(x, y, z int32, rgb RGB) bool {
	li, ok := f.byLayer[z]
	if !ok {
		li = newLayerIndex()
		f.byLayer[z] = li
	}
	cx, lx := chunkCoord(x)
	cy, ly := chunkCoord(y)
	key := chunkKey{cx, cy}
	c, ok := li.chunks[key]
	if !ok {
		c = &chunk{}
		li.chunks[key] = c
	}
	idx := localIndex(lx, ly)
	if c.mask&(1<<uint(idx)) != 0 {
		return false
	}
	c.set(lx, ly, rgb)
	li.count++
	f.total++
	return true
}

// Get returns the colour at (x,y,z), if occupied.
func (f *Field) Get(x, y, z int32) (RGB, bool) {
	li, ok := f.byLayer[z]
	if !ok {
		return RGB{}, false
	}
	cx, lx := chunkCoord(x)
	cy, ly := chunkCoord(y)
	c, ok := li.chunks[chunkKey{cx, cy}]
	if !ok {
		return RGB{}, false
	}
	return c.get(lx, ly)
}

// Len returns the total number of voxels in the field.
func (f *Field) Len() int { return f.total }

// Layers returns the populated z-indices in ascending order.
func (f *Field) Layers() []int32 {
	zs := make([]int32, 0, len(f.byLayer))
	for z, li := range f.byLayer {
		if li.count > 0 {
			zs = append(zs, z)
		}
	}
	sort.Slice(zs, func(i, j int) bool { return zs[i] < zs[j] })
	return zs
}

// Cell is a 2D lattice point within a layer.
type Cell struct {
	X, Y int32
}

// LayerCells returns every occupied (x,y) in layer z with its colour, in no
// particular order; callers that need determinism should sort the result.
func (f *Field) LayerCells(z int32) map[Cell]RGB {
	out := make(map[Cell]RGB)
	li, ok := f.byLayer[z]
	if !ok {
		return out
	}
	for key, c := range li.chunks {
		base := localIndex(0, 0)
		_ = base
		for ly := int32(0); ly < chunkSize; ly++ {
			for lx := int32(0); lx < chunkSize; lx++ {
				if rgb, ok := c.get(lx, ly); ok {
					out[Cell{X: key.cx*chunkSize + lx, Y: key.cy*chunkSize + ly}] = rgb
				}
			}
		}
	}
	return out
}

// All returns every voxel in the field, sorted by (z, y, x) for determinism.
func (f *Field) All() []Voxel {
	out := make([]Voxel, 0, f.total)
	for _, z := range f.Layers() {
		cells := f.LayerCells(z)
		keys := make([]Cell, 0, len(cells))
		for c := range cells {
			keys = append(keys, c)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Y != keys[j].Y {
				return keys[i].Y < keys[j].Y
			}
			return keys[i].X < keys[j].X
		})
		for _, c := range keys {
			out = append(out, Voxel{X: c.X, Y: c.Y, Z: z, Colour: cells[c]})
		}
	}
	return out
}
