package manifest

import (
	"testing"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/packer"
)

func testCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.Parse([]byte(`
parts:
  - id: "3003"
    width: 2
    depth: 2
    height: 1
    category: brick
    display_name: "Brick 2x2"
    unit_cost: 0.08
  - id: "3005"
    width: 1
    depth: 1
    height: 1
    category: brick
    display_name: "Brick 1x1"
    unit_cost: 0.03
colours:
  - id: 0
    name: "Red"
    hex: "#ff0000"
    ldraw_id: 4
  - id: 1
    name: "White"
    hex: "#ffffff"
    ldraw_id: 15
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cat
}

func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return string(rune('a' + n - 1))
	}
}

func TestBuildOrdersBricksByZYXPart(t *testing.T) {
	cat := testCatalogue(t)
	result := packer.Result{Placements: []packer.PlacedBrick{
		{Part: "3005", Width: 1, Depth: 1, Height: 1, X: 1, Y: 0, Z: 1, Colour: 0},
		{Part: "3005", Width: 1, Depth: 1, Height: 1, X: 0, Y: 1, Z: 0, Colour: 0},
		{Part: "3005", Width: 1, Depth: 1, Height: 1, X: 0, Y: 0, Z: 0, Colour: 0},
	}}
	m := Build(result, cat, sequentialIDs())
	if len(m.Bricks) != 3 {
		t.Fatalf("expected 3 bricks, got %d", len(m.Bricks))
	}
	if m.Bricks[0].Position.Studs != (Vec3{0, 0, 0}) {
		t.Fatalf("expected (0,0,0) first, got %+v", m.Bricks[0].Position.Studs)
	}
	if m.Bricks[1].Position.Studs != (Vec3{0, 1, 0}) {
		t.Fatalf("expected (0,1,0) second, got %+v", m.Bricks[1].Position.Studs)
	}
	if m.Bricks[2].Position.Studs != (Vec3{1, 0, 1}) {
		t.Fatalf("expected (1,0,1) third, got %+v", m.Bricks[2].Position.Studs)
	}
}

func TestBuildInventoryAndPieceCount(t *testing.T) {
	cat := testCatalogue(t)
	result := packer.Result{Placements: []packer.PlacedBrick{
		{Part: "3003", Width: 2, Depth: 2, Height: 1, X: 0, Y: 0, Z: 0, Colour: 0, Verified: true},
		{Part: "3003", Width: 2, Depth: 2, Height: 1, X: 2, Y: 0, Z: 0, Colour: 1, Verified: true},
		{Part: "3005", Width: 1, Depth: 1, Height: 1, X: 0, Y: 2, Z: 0, Colour: 0},
	}}
	m := Build(result, cat, sequentialIDs())

	if m.TotalBricks != 3 {
		t.Fatalf("expected 3 total bricks, got %d", m.TotalBricks)
	}
	if len(m.Inventory) != 3 {
		t.Fatalf("expected 3 distinct (part,colour) rows, got %d", len(m.Inventory))
	}
	wantCost := round2(0.08 + 0.08 + 0.03)
	if m.PieceCount.EstimatedCost != wantCost {
		t.Fatalf("expected cost %v, got %v", wantCost, m.PieceCount.EstimatedCost)
	}
	if m.PieceCount.TotalPieces != 3 {
		t.Fatalf("expected total pieces 3, got %d", m.PieceCount.TotalPieces)
	}
}

func TestBuildLayerIndexAndAssemblyDifficulty(t *testing.T) {
	cat := testCatalogue(t)
	var placements []packer.PlacedBrick
	for i := 0; i < 60; i++ {
		placements = append(placements, packer.PlacedBrick{
			Part: "3005", Width: 1, Depth: 1, Height: 1,
			X: int32(i), Y: 0, Z: 0, Colour: 0,
		})
	}
	result := packer.Result{Placements: placements}
	m := Build(result, cat, sequentialIDs())

	if m.Layers[0] != 60 {
		t.Fatalf("expected 60 bricks on layer 0, got %d", m.Layers[0])
	}
	if m.Assembly.Difficulty != "medium" {
		t.Fatalf("expected medium difficulty at 60 bricks, got %s", m.Assembly.Difficulty)
	}
	if m.Assembly.TotalSteps != 1 {
		t.Fatalf("expected 1 assembly step (one non-empty layer), got %d", m.Assembly.TotalSteps)
	}
}

func TestVoxelCoverageEnumeratesEveryStud(t *testing.T) {
	cat := testCatalogue(t)
	result := packer.Result{Placements: []packer.PlacedBrick{
		{Part: "3003", Width: 2, Depth: 2, Height: 1, X: 0, Y: 0, Z: 0, Colour: 0},
	}}
	m := Build(result, cat, sequentialIDs())
	if len(m.VoxelCoverage) != 4 {
		t.Fatalf("expected 4 covered voxels for a 2x2 brick, got %d", len(m.VoxelCoverage))
	}
}

func TestEmptyManifest(t *testing.T) {
	cat := testCatalogue(t)
	m := Build(packer.Result{}, cat, sequentialIDs())
	if m.TotalBricks != 0 || len(m.Bricks) != 0 || len(m.Layers) != 0 {
		t.Fatalf("expected an empty manifest, got %+v", m)
	}
}

func TestShoppingListAndCSVRenderInventory(t *testing.T) {
	cat := testCatalogue(t)
	result := packer.Result{Placements: []packer.PlacedBrick{
		{Part: "3003", Width: 2, Depth: 2, Height: 1, X: 0, Y: 0, Z: 0, Colour: 0},
	}}
	m := Build(result, cat, sequentialIDs())

	list := ShoppingList(m)
	if list == "" {
		t.Fatal("expected non-empty shopping list")
	}
	csv := CSV(m)
	if csv == "" {
		t.Fatal("expected non-empty csv")
	}
	instr := Instructions(m)
	if instr == "" {
		t.Fatal("expected non-empty instructions")
	}
}
