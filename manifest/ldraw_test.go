package manifest

import (
	"testing"

	"github.com/brickforge/brickforge/packer"
	"github.com/brickforge/brickforge/voxel"
)

func TestLDrawRoundTrip(t *testing.T) {
	cat := testCatalogue(t)
	result := packer.Result{Placements: []packer.PlacedBrick{
		{Part: "3003", Width: 2, Depth: 2, Height: 1, X: 2, Y: 3, Z: 1, Rotation: voxel.Rotation90, Colour: 0},
		{Part: "3005", Width: 1, Depth: 1, Height: 1, X: 0, Y: 0, Z: 0, Rotation: voxel.Rotation0, Colour: 1},
	}}
	m := Build(result, cat, sequentialIDs())
	text := LDrawText(m, cat)

	parsed, err := ParseLDraw(text)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(parsed) != len(m.Bricks) {
		t.Fatalf("expected %d parsed lines, got %d", len(m.Bricks), len(parsed))
	}

	for i, b := range m.Bricks {
		p := parsed[i]
		if p.PartID != b.PartID {
			t.Fatalf("brick %d: expected part %s, got %s", i, b.PartID, p.PartID)
		}
		if p.Rotation != b.Rotation {
			t.Fatalf("brick %d: expected rotation %v, got %v", i, b.Rotation, p.Rotation)
		}
		if int32(b.Position.Studs.X) != p.X || int32(b.Position.Studs.Y) != p.Y || int32(b.Position.Studs.Z) != p.Z {
			t.Fatalf("brick %d: expected position %+v, got (%d,%d,%d)", i, b.Position.Studs, p.X, p.Y, p.Z)
		}
		if colourEntry, ok := cat.Colour(b.ColourID); ok && colourEntry.LDrawID != p.ColourLDrawID {
			t.Fatalf("brick %d: expected ldraw colour %d, got %d", i, colourEntry.LDrawID, p.ColourLDrawID)
		}
	}
}

func TestParseLDrawRejectsMalformedLine(t *testing.T) {
	_, err := ParseLDraw("1 4 0 0 0 not-a-number\n")
	if err == nil {
		t.Fatal("expected an error for a malformed line")
	}
}

func TestParseLDrawSkipsHeaderLines(t *testing.T) {
	parsed, err := ParseLDraw("0 FILE foo.ldr\n0 comment\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 0 {
		t.Fatalf("expected no parsed brick lines, got %d", len(parsed))
	}
}
