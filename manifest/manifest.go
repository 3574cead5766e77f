// Package manifest implements the Manifest Emitter (C7): a pure function
// over a run's placed bricks that produces the external layered output
// of spec.md §3/§4.7/§6 — per-brick geometry, inventory, layer index,
// piece count and cost, assembly guide, and the supplemented shopping
// list / CSV / instruction-text renderings of SPEC_FULL.md §2.3.
package manifest

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/packer"
	"github.com/brickforge/brickforge/voxel"
)

// ManifestVersion is the external JSON shape's version tag (spec.md §6).
const ManifestVersion = "2.0"

// Vec3 is a plain (x, y, z) triple, used for both stud and millimetre
// coordinates in the external representation.
type Vec3 struct {
	X, Y, Z float64
}

// Position is a brick's origin in both coordinate domains.
type Position struct {
	Studs Vec3
	MM    Vec3
}

// Dimensions is a brick's footprint+height in both coordinate domains.
type Dimensions struct {
	Studs Vec3
	MM    Vec3
}

// ColourInfo names a brick's colour for display.
type ColourInfo struct {
	Name string
	Hex  string
}

// VoxelCoverage is one input lattice point covered by a brick.
type VoxelCoverage struct {
	X, Y, Z int32
}

// Brick is the per-brick block of spec.md §4.7.
type Brick struct {
	BrickID       string
	PartID        voxel.PartID
	DisplayName   string
	Position      Position
	Dimensions    Dimensions
	Rotation      voxel.Rotation
	ColourID      voxel.ColourID
	ColourInfo    ColourInfo
	Vertices      [8]Vec3
	VoxelCoverage []VoxelCoverage
	IsVerified    bool
}

// InventoryRow is one (part, colour) roll-up entry.
type InventoryRow struct {
	PartID      voxel.PartID
	DisplayName string
	ColourID    voxel.ColourID
	ColourName  string
	Quantity    int
}

// PieceCount is the cost/quantity rollup of spec.md §4.7.
type PieceCount struct {
	TotalPieces int
	TotalUnique int
	Breakdown   []InventoryRow
	EstimatedCost float64
}

// AssemblyStep is one ascending-z step of the guide.
type AssemblyStep struct {
	Layer       int32
	PartsNeeded map[voxel.PartID]int
	Bricks      []Brick
}

// Assembly is the full guide of spec.md §4.7.
type Assembly struct {
	TotalSteps            int
	Difficulty            string
	EstimatedTimeMinutes  int
	Steps                 []AssemblyStep
}

// CoverageEntry is one row of the flattened voxel_coverage list (§6).
type CoverageEntry struct {
	Voxel   VoxelCoverage
	BrickID string
	PartID  voxel.PartID
}

// Manifest is the top-level output record of spec.md §3/§6.
type Manifest struct {
	ManifestVersion string
	TotalBricks     int
	Bricks          []Brick
	VoxelCoverage   []CoverageEntry
	Layers          map[int32]int
	Inventory       []InventoryRow
	PieceCount      PieceCount
	Assembly        Assembly
	SeamMap         []packer.SeamMapEntry
	Cancelled       bool
	LDrawText       string
}

// IDFunc produces a brick identifier; injected so callers can use
// google/uuid in production and a deterministic sequence in tests.
type IDFunc func() string

// Build converts a packer.Result into the external Manifest. idFn is
// called once per brick, in the canonical (z, y, x, part) sort order, so
// brick ids are assigned deterministically for a given idFn sequence.
func Build(result packer.Result, cat *catalogue.Catalogue, idFn IDFunc) Manifest {
	placed := make([]packer.PlacedBrick, len(result.Placements))
	copy(placed, result.Placements)
	sort.SliceStable(placed, func(i, j int) bool {
		a, b := placed[i], placed[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Part < b.Part
	})

	bricks := make([]Brick, 0, len(placed))
	for _, pb := range placed {
		part, _ := cat.Part(pb.Part)
		colour, _ := cat.Colour(pb.Colour)
		id := idFn()
		bricks = append(bricks, toBrick(id, pb, part, colour))
	}

	m := Manifest{
		ManifestVersion: ManifestVersion,
		TotalBricks:     len(bricks),
		Bricks:          bricks,
		Layers:          layerIndex(bricks),
		Inventory:       inventory(bricks),
		SeamMap:         result.SeamMap,
		Cancelled:       result.Cancelled,
	}
	m.VoxelCoverage = voxelCoverage(bricks)
	m.PieceCount = pieceCount(m.Inventory, cat)
	m.Assembly = assembly(bricks)
	return m
}

func toBrick(id string, pb packer.PlacedBrick, part catalogue.Part, colour catalogue.ColourEntry) Brick {
	studPos := Vec3{X: float64(pb.X), Y: float64(pb.Y), Z: float64(pb.Z)}
	mmPos := Vec3{
		X: float64(pb.X) * catalogue.StudMM,
		Y: float64(pb.Y) * catalogue.StudMM,
		Z: float64(pb.Z) * catalogue.LayerMM,
	}
	studDim := Vec3{X: float64(pb.Width), Y: float64(pb.Depth), Z: float64(pb.Height)}
	mmDim := Vec3{
		X: float64(pb.Width) * catalogue.StudMM,
		Y: float64(pb.Depth) * catalogue.StudMM,
		Z: float64(pb.Height) * catalogue.LayerMM,
	}

	cov := make([]VoxelCoverage, 0, pb.Width*pb.Depth)
	for dy := 0; dy < pb.Depth; dy++ {
		for dx := 0; dx < pb.Width; dx++ {
			cov = append(cov, VoxelCoverage{X: pb.X + int32(dx), Y: pb.Y + int32(dy), Z: pb.Z})
		}
	}

	return Brick{
		BrickID:       id,
		PartID:        pb.Part,
		DisplayName:   part.DisplayName,
		Position:      Position{Studs: studPos, MM: mmPos},
		Dimensions:    Dimensions{Studs: studDim, MM: mmDim},
		Rotation:      pb.Rotation,
		ColourID:      pb.Colour,
		ColourInfo:    ColourInfo{Name: colour.Name, Hex: colour.RGB.Hex()},
		Vertices:      cuboidVertices(mmPos, mmDim),
		VoxelCoverage: cov,
		IsVerified:    pb.Verified,
	}
}

// cuboidVertices returns the eight corners of the axis-aligned cuboid at
// origin (mm) with the given dimensions (mm), in a fixed order: the
// bottom face counter-clockwise, then the top face counter-clockwise
// (spec.md §4.7). mgl32.Vec3 carries the corner arithmetic, the same
// vector type the teacher's AssetServer uses for mesh vertices.
func cuboidVertices(origin, dim Vec3) [8]Vec3 {
	o := mgl32.Vec3{float32(origin.X), float32(origin.Y), float32(origin.Z)}
	d := mgl32.Vec3{float32(dim.X), float32(dim.Y), float32(dim.Z)}

	corners := [8]mgl32.Vec3{
		o,
		o.Add(mgl32.Vec3{d[0], 0, 0}),
		o.Add(mgl32.Vec3{d[0], d[1], 0}),
		o.Add(mgl32.Vec3{0, d[1], 0}),
		o.Add(mgl32.Vec3{0, 0, d[2]}),
		o.Add(mgl32.Vec3{d[0], 0, d[2]}),
		o.Add(mgl32.Vec3{d[0], d[1], d[2]}),
		o.Add(mgl32.Vec3{0, d[1], d[2]}),
	}
	var out [8]Vec3
	for i, c := range corners {
		out[i] = Vec3{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}
	}
	return out
}

func layerIndex(bricks []Brick) map[int32]int {
	idx := make(map[int32]int)
	for _, b := range bricks {
		idx[int32(b.Position.Studs.Z)]++
	}
	return idx
}

func inventory(bricks []Brick) []InventoryRow {
	type key struct {
		part   voxel.PartID
		colour voxel.ColourID
	}
	counts := make(map[key]*InventoryRow)
	var order []key
	for _, b := range bricks {
		k := key{b.PartID, b.ColourID}
		row, ok := counts[k]
		if !ok {
			row = &InventoryRow{
				PartID: b.PartID, DisplayName: b.DisplayName,
				ColourID: b.ColourID, ColourName: b.ColourInfo.Name,
			}
			counts[k] = row
			order = append(order, k)
		}
		row.Quantity++
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].part != order[j].part {
			return order[i].part < order[j].part
		}
		return order[i].colour < order[j].colour
	})
	out := make([]InventoryRow, 0, len(order))
	for _, k := range order {
		out = append(out, *counts[k])
	}
	return out
}

func voxelCoverage(bricks []Brick) []CoverageEntry {
	var out []CoverageEntry
	for _, b := range bricks {
		for _, v := range b.VoxelCoverage {
			out = append(out, CoverageEntry{Voxel: v, BrickID: b.BrickID, PartID: b.PartID})
		}
	}
	return out
}

func pieceCount(inv []InventoryRow, cat *catalogue.Catalogue) PieceCount {
	pc := PieceCount{Breakdown: inv, TotalUnique: len(inv)}
	var cost float64
	for _, row := range inv {
		pc.TotalPieces += row.Quantity
		if part, ok := cat.Part(row.PartID); ok {
			cost += part.UnitCost * float64(row.Quantity)
		}
	}
	pc.EstimatedCost = round2(cost)
	return pc
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func assembly(bricks []Brick) Assembly {
	byLayer := make(map[int32][]Brick)
	var zs []int32
	for _, b := range bricks {
		z := int32(b.Position.Studs.Z)
		if _, ok := byLayer[z]; !ok {
			zs = append(zs, z)
		}
		byLayer[z] = append(byLayer[z], b)
	}
	sort.Slice(zs, func(i, j int) bool { return zs[i] < zs[j] })

	var steps []AssemblyStep
	for _, z := range zs {
		layerBricks := make([]Brick, len(byLayer[z]))
		copy(layerBricks, byLayer[z])
		sort.Slice(layerBricks, func(i, j int) bool {
			if layerBricks[i].Position.Studs.X != layerBricks[j].Position.Studs.X {
				return layerBricks[i].Position.Studs.X < layerBricks[j].Position.Studs.X
			}
			return layerBricks[i].Position.Studs.Y < layerBricks[j].Position.Studs.Y
		})
		needed := make(map[voxel.PartID]int)
		for _, b := range layerBricks {
			needed[b.PartID]++
		}
		steps = append(steps, AssemblyStep{Layer: z, PartsNeeded: needed, Bricks: layerBricks})
	}

	total := len(bricks)
	difficulty := "easy"
	if total >= 150 {
		difficulty = "hard"
	} else if total >= 50 {
		difficulty = "medium"
	}
	minutes := int(math.Ceil(3 * float64(total) / 60))
	if minutes < 5 {
		minutes = 5
	}

	return Assembly{
		TotalSteps:           len(steps),
		Difficulty:           difficulty,
		EstimatedTimeMinutes: minutes,
		Steps:                steps,
	}
}

// ShoppingList renders a plain-text shopping list from the inventory,
// one line per (part, colour) row — the supplemented export of
// SPEC_FULL.md §2.3, grounded on piece_counter.py's text summary.
func ShoppingList(m Manifest) string {
	out := fmt.Sprintf("Shopping list (%d pieces, %d unique):\n", m.PieceCount.TotalPieces, m.PieceCount.TotalUnique)
	for _, row := range m.Inventory {
		out += fmt.Sprintf("  %3d x %s (%s) [%s]\n", row.Quantity, row.DisplayName, row.PartID, row.ColourName)
	}
	out += fmt.Sprintf("Estimated cost: $%.2f\n", m.PieceCount.EstimatedCost)
	return out
}

// CSV renders the inventory as a CSV document (header + one row per
// entry), the supplemented export of SPEC_FULL.md §2.3.
func CSV(m Manifest) string {
	out := "part_id,display_name,colour_id,colour_name,quantity\n"
	for _, row := range m.Inventory {
		out += fmt.Sprintf("%s,%s,%d,%s,%d\n", row.PartID, row.DisplayName, row.ColourID, row.ColourName, row.Quantity)
	}
	return out
}

// Instructions renders the assembly guide as formatted text — the
// supplemented export grounded on instruction_manual_generator.py.
func Instructions(m Manifest) string {
	out := fmt.Sprintf("Assembly guide: %d steps, difficulty %s, est. %d min\n",
		m.Assembly.TotalSteps, m.Assembly.Difficulty, m.Assembly.EstimatedTimeMinutes)
	for i, step := range m.Assembly.Steps {
		out += fmt.Sprintf("\nStep %d — layer z=%d (%d bricks)\n", i+1, step.Layer, len(step.Bricks))
		parts := make([]string, 0, len(step.PartsNeeded))
		for p := range step.PartsNeeded {
			parts = append(parts, string(p))
		}
		sort.Strings(parts)
		for _, p := range parts {
			out += fmt.Sprintf("  %s x%d\n", p, step.PartsNeeded[voxel.PartID(p)])
		}
	}
	return out
}
