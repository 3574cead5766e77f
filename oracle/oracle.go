// Package oracle implements the Availability Oracle (C3): a yes/no/unknown
// query on whether a (part, colour) pairing is producible, memoised, and
// degrading to "assume yes" on failure (spec.md §4.3).
package oracle

import (
	"context"

	"github.com/brickforge/brickforge/voxel"
)

// Verdict is the oracle's answer for one (part, colour) pairing.
type Verdict int

const (
	// Unknown means the oracle could not answer (timeout, external
	// failure, or no-credentials mode). The packer treats this as True
	// but records verified = false.
	Unknown Verdict = iota
	True
	False
)

func (v Verdict) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Oracle is the availability collaborator contract of spec.md §6:
// (part_id, colour_id) -> {true, false, unknown}. Implementations may
// block (e.g. on a network round trip) and must respect ctx cancellation.
type Oracle interface {
	IsAvailable(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error)

func (f Func) IsAvailable(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
	return f(ctx, part, colour)
}
