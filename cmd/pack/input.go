package main

import (
	"encoding/json"
	"fmt"

	"github.com/brickforge/brickforge/internal/bberr"
	"github.com/brickforge/brickforge/voxel"
)

// inputVoxel mirrors one element of the core input's voxels[] (spec.md §6).
type inputVoxel struct {
	X        int32  `json:"x"`
	Y        int32  `json:"y"`
	Z        int32  `json:"z"`
	HexColor string `json:"hex_color"`
}

type inputHints struct {
	ObjectType string `json:"object_type"`
	RoomType   string `json:"room_type"`
}

type inputMode struct {
	SkipAvailability bool `json:"skip_availability"`
}

type coreInput struct {
	Voxels []inputVoxel `json:"voxels"`
	Hints  *inputHints  `json:"hints"`
	Mode   *inputMode   `json:"mode"`
}

// parseInput decodes the core input document and builds a voxel.Field from
// it, rejecting malformed records per spec.md §7: a voxel set that isn't
// valid JSON, an empty voxel list, or a duplicate (x,y,z) coordinate.
// hex_color is never fatal — an unparseable colour degrades to the
// fallback colour of voxel.ParseHex, so this function never rejects on
// colour. No diagnostic is recorded for such a voxel: the fallback RGB is
// stored in the field and the packer maps it like any other colour.
func parseInput(raw []byte) (*voxel.Field, inputHints, bool, error) {
	var doc coreInput
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, inputHints{}, false, &bberr.InvalidInputError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if len(doc.Voxels) == 0 {
		return nil, inputHints{}, false, &bberr.InvalidInputError{Reason: "voxel set is empty"}
	}

	field := voxel.NewField()
	for i, v := range doc.Voxels {
		rgb, _ := voxel.ParseHex(v.HexColor)
		if !field.Set(v.X, v.Y, v.Z, rgb) {
			return nil, inputHints{}, false, &bberr.InvalidInputError{
				Reason: fmt.Sprintf("duplicate voxel at index %d: (%d,%d,%d)", i, v.X, v.Y, v.Z),
			}
		}
	}

	var hints inputHints
	if doc.Hints != nil {
		hints = *doc.Hints
	}
	skipAvailability := doc.Mode != nil && doc.Mode.SkipAvailability
	return field, hints, skipAvailability, nil
}
