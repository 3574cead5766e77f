package catalogue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brickforge/brickforge/voxel"
)

func TestDefaultCatalogueLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Parts)
	require.NotEmpty(t, c.Colours)

	sq, ok := c.SmallestSquare()
	require.True(t, ok, "default catalogue must carry a 1x1 part")
	require.Equal(t, 1, sq.Width)
	require.Equal(t, 1, sq.Depth)
}

func TestParseRejectsEmptyColours(t *testing.T) {
	_, err := Parse([]byte("parts:\n  - id: \"1\"\n    width: 1\n    depth: 1\n    height: 1\n"))
	require.ErrorIs(t, err, ErrEmptyColours)
}

func TestParseRejectsMissing1x1(t *testing.T) {
	doc := `
parts:
  - id: "3001"
    width: 4
    depth: 2
    height: 1
    category: brick
    display_name: "Brick 2x4"
    unit_cost: 0.1
colours:
  - id: 0
    name: "Red"
    hex: "#ff0000"
    ldraw_id: 4
`
	_, err := Parse([]byte(doc))
	require.ErrorIs(t, err, ErrNo1x1)
}

func TestFittingPartsOrdering(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	candidates := c.FittingParts(4, 2)
	require.NotEmpty(t, candidates)
	for i := 1; i < len(candidates); i++ {
		a, b := candidates[i-1], candidates[i]
		ra, rb := categoryRank(a.Part.Category), categoryRank(b.Part.Category)
		if ra != rb {
			require.LessOrEqual(t, ra, rb)
			continue
		}
		areaA, areaB := a.Fit.W*a.Fit.D, b.Fit.W*b.Fit.D
		require.GreaterOrEqual(t, areaA, areaB)
	}
}

func TestFootprintRotated(t *testing.T) {
	f := voxel.Footprint{W: 4, D: 2}
	require.Equal(t, voxel.Footprint{W: 4, D: 2}, f.Rotated(voxel.Rotation0))
	require.Equal(t, voxel.Footprint{W: 2, D: 4}, f.Rotated(voxel.Rotation90))
	require.Equal(t, voxel.Footprint{W: 4, D: 2}, f.Rotated(voxel.Rotation180))
	require.Equal(t, voxel.Footprint{W: 2, D: 4}, f.Rotated(voxel.Rotation270))
}
