package packer

import (
	"context"
	"testing"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/oracle"
	"github.com/brickforge/brickforge/palette"
	"github.com/brickforge/brickforge/voxel"
)

func redCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	return onlyCatalogue(t, `
parts:
  - id: "2x2"
    width: 2
    depth: 2
    height: 1
    category: brick
    display_name: "2x2"
    unit_cost: 0.02
  - id: "1x1"
    width: 1
    depth: 1
    height: 1
    category: brick
    display_name: "1x1"
    unit_cost: 0.01
colours:
  - id: 0
    name: "Red"
    hex: "#ff0000"
    ldraw_id: 4
`)
}

func TestPackEmptyFieldYieldsNoPlacements(t *testing.T) {
	cat := redCatalogue(t)
	mapper, err := palette.New(cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := voxel.NewField()

	result, err := Pack(context.Background(), field, mapper, cat, nil, "", alwaysTrue(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 0 {
		t.Fatalf("expected no placements, got %d", len(result.Placements))
	}
}

func TestPackSingleVoxelBoundary(t *testing.T) {
	cat := redCatalogue(t)
	mapper, err := palette.New(cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := voxel.NewField()
	field.Set(0, 0, 0, voxel.RGB{R: 255, G: 0, B: 0})

	result, err := Pack(context.Background(), field, mapper, cat, nil, "", alwaysTrue(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("expected exactly one placement, got %d", len(result.Placements))
	}
	b := result.Placements[0]
	if b.Part != "1x1" || b.X != 0 || b.Y != 0 || b.Z != 0 {
		t.Fatalf("unexpected placement: %+v", b)
	}
}

func TestPackCubeAcrossTwoLayers(t *testing.T) {
	cat := redCatalogue(t)
	mapper, err := palette.New(cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := voxel.NewField()
	for x := int32(0); x < 2; x++ {
		for y := int32(0); y < 2; y++ {
			for z := int32(0); z < 2; z++ {
				field.Set(x, y, z, voxel.RGB{R: 255, G: 0, B: 0})
			}
		}
	}

	result, err := Pack(context.Background(), field, mapper, cat, nil, "", alwaysTrue(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Placements) != 2 {
		t.Fatalf("expected 2 bricks (one 2x2 per layer), got %d", len(result.Placements))
	}
	covered := make(map[voxel.Cell]bool)
	for _, b := range result.Placements {
		for dx := 0; dx < b.Width; dx++ {
			for dy := 0; dy < b.Depth; dy++ {
				covered[voxel.Cell{X: b.X + int32(dx), Y: b.Y + int32(dy)}] = true
			}
		}
	}
	if len(covered) != 4 {
		t.Fatalf("expected the 2x2 footprint fully covered, got %d cells", len(covered))
	}
}

func TestPackDeterministicAcrossRuns(t *testing.T) {
	cat := redCatalogue(t)
	mapper, err := palette.New(cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	build := func() []PlacedBrick {
		field := voxel.NewField()
		field.Set(0, 0, 0, voxel.RGB{R: 255, G: 0, B: 0})
		field.Set(1, 0, 0, voxel.RGB{R: 255, G: 0, B: 0})
		field.Set(0, 1, 0, voxel.RGB{R: 255, G: 0, B: 0})
		field.Set(1, 1, 0, voxel.RGB{R: 255, G: 0, B: 0})
		result, err := Pack(context.Background(), field, mapper, cat, nil, "", alwaysTrue(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return result.Placements
	}
	a, b := build(), build()
	if len(a) != len(b) {
		t.Fatalf("expected identical placement counts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical placements at index %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPackCatalogueFailureReportsPriorPlacements(t *testing.T) {
	cat := onlyCatalogue(t, `
parts:
  - id: "1x1"
    width: 1
    depth: 1
    height: 1
    category: brick
    display_name: "1x1"
    unit_cost: 0.01
colours:
  - id: 0
    name: "Red"
    hex: "#ff0000"
    ldraw_id: 4
`)
	mapper, err := palette.New(cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := voxel.NewField()
	field.Set(0, 0, 0, voxel.RGB{R: 255, G: 0, B: 0}) // layer 0: fine
	field.Set(0, 0, 1, voxel.RGB{R: 255, G: 0, B: 0}) // layer 1: oracle will decline

	calls := 0
	oc := oracle.Func(func(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (oracle.Verdict, error) {
		calls++
		if calls <= 1 {
			return oracle.True, nil
		}
		return oracle.False, nil
	})

	result, err := Pack(context.Background(), field, mapper, cat, nil, "", oc, nil)
	if err == nil {
		t.Fatal("expected a catalogue failure on layer 1")
	}
	if len(result.Placements) != 1 {
		t.Fatalf("expected layer 0's placement to be reported, got %d", len(result.Placements))
	}
}

func TestPackCancellationYieldsPartialResult(t *testing.T) {
	cat := redCatalogue(t)
	mapper, err := palette.New(cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := voxel.NewField()
	field.Set(0, 0, 0, voxel.RGB{R: 255, G: 0, B: 0})
	field.Set(0, 0, 1, voxel.RGB{R: 255, G: 0, B: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Pack(ctx, field, mapper, cat, nil, "", alwaysTrue(), nil)
	if err != nil {
		t.Fatalf("cancellation must not be reported as an error: %v", err)
	}
	if !result.Cancelled {
		t.Fatal("expected Cancelled to be true")
	}
	if len(result.Placements) != 0 {
		t.Fatalf("expected no placements once cancelled before the first layer, got %d", len(result.Placements))
	}
}
