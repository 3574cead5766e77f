// Package packer implements the layer-by-layer brick packer: the Layer
// Packer (C5), the Packer Driver (C6), and the Seam Map Builder (C8) of
// spec.md §4.5–§4.8.
package packer

import "github.com/brickforge/brickforge/voxel"

// PlacedBrick is one brick committed to the output, matching the
// PlacedBrick record of spec.md §3.
type PlacedBrick struct {
	Part     voxel.PartID
	Width    int
	Depth    int
	Height   int
	X, Y, Z  int32
	Rotation voxel.Rotation
	Colour   voxel.ColourID
	Verified bool
}

// SeamMapEntry is one diagnostic row from the Seam Map Builder (C8).
type SeamMapEntry struct {
	LayerZ     int32
	X          int32
	Width      int
	CoveredBy  voxel.PartID
	HasCovered bool
}

// Diagnostic is a non-fatal observation recorded during packing: a
// parity relaxation, or an oracle failure degraded to unknown.
type Diagnostic struct {
	Layer   int32
	Colour  voxel.ColourID
	Message string
}
