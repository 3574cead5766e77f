// Package voxel defines the input data model for the brick packer: voxels,
// colours, parts, and the sparse field that groups voxels by layer.
package voxel

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a 24-bit colour triple.
type RGB struct {
	R, G, B uint8
}

// ColourID is a dense index into the catalogue's colour table.
type ColourID int

// PartID is an opaque key into the part catalogue.
type PartID string

// Category is the catalogue category a part belongs to.
type Category string

const (
	CategoryBrick     Category = "brick"
	CategoryPlate     Category = "plate"
	CategoryTile      Category = "tile"
	CategorySlope     Category = "slope"
	CategoryHinge     Category = "hinge"
	CategoryBaseplate Category = "baseplate"
)

// Footprint is a part's width x depth in studs, ignoring height.
type Footprint struct {
	W, D int
}

// Rotation is one of the four quarter-turn orientations. 180 and 270 are
// geometrically equivalent to 0 and 90 for a rectangular footprint but are
// recorded verbatim for downstream consumers (spec.md §3).
type Rotation int

const (
	Rotation0 Rotation = 0
	Rotation90 Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Rotated returns the footprint as it appears after applying r: 90 and 270
// swap width and depth, 0 and 180 do not.
func (f Footprint) Rotated(r Rotation) Footprint {
	if r == Rotation90 || r == Rotation270 {
		return Footprint{W: f.D, D: f.W}
	}
	return f
}

// Voxel is a single lattice point with its colour.
type Voxel struct {
	X, Y, Z int32
	Colour  RGB
}

// ParseHex parses a "#RRGGBB" or "RRGGBB" string, case-insensitively.
// Malformed input never fails: it is treated as opaque grey (per
// spec.md §4.1) and ok is false so the caller can record a diagnostic.
func ParseHex(s string) (rgb RGB, ok bool) {
	t := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(t) == 3 {
		t = string([]byte{t[0], t[0], t[1], t[1], t[2], t[2]})
	}
	if len(t) != 6 {
		return RGB{255, 255, 255}, false
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return RGB{255, 255, 255}, false
	}
	return RGB{
		R: uint8((v >> 16) & 0xFF),
		G: uint8((v >> 8) & 0xFF),
		B: uint8(v & 0xFF),
	}, true
}

// Hex renders the canonical lowercase "#rrggbb" form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SquaredDistance is the squared Euclidean distance in sRGB space, used by
// the palette mapper's nearest-neighbour search (spec.md §4.1).
func (c RGB) SquaredDistance(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}
