package packer

import (
	"context"
	"math"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/hardcoded"
	"github.com/brickforge/brickforge/internal/bberr"
	"github.com/brickforge/brickforge/internal/bblog"
	"github.com/brickforge/brickforge/oracle"
	"github.com/brickforge/brickforge/palette"
	"github.com/brickforge/brickforge/voxel"
)

// Result is everything the Packer Driver (C6) produces for one run.
type Result struct {
	Placements []PlacedBrick
	SeamMap    []SeamMapEntry
	Diagnostics []Diagnostic
	Cancelled  bool
}

type layerResult struct {
	Z          int32
	Placements []PlacedBrick
	Seams      SeamSet
}

// Pack iterates every layer of field from z_min to z_max, carrying the
// seam set forward between layers and collecting placements into a
// single deterministic vector (spec.md §4.6). A *bberr.CatalogueFailureError
// is the only error this returns; cancellation is reported via
// Result.Cancelled, not an error, per spec.md §5/§7.
func Pack(
	ctx context.Context,
	field *voxel.Field,
	mapper *palette.Mapper,
	cat *catalogue.Catalogue,
	hc *hardcoded.Table,
	objectType string,
	oc oracle.Oracle,
	logger bblog.Logger,
) (Result, error) {
	logger = bblog.OrNop(logger)

	layers := field.Layers()
	prevSeams := NewSeamSet()
	var results []layerResult
	var allPlacements []PlacedBrick
	var allDiagnostics []Diagnostic
	cancelled := false

	for _, z := range layers {
		if err := ctx.Err(); err != nil {
			cancelled = true
			break
		}

		cells := field.LayerCells(z)
		colourGroups := make(map[voxel.ColourID][]voxel.Cell)
		for cell, rgb := range cells {
			id := mapper.MapRGB(rgb)
			colourGroups[id] = append(colourGroups[id], cell)
		}

		placements, seams, diags, err := Layer(ctx, z, colourGroups, prevSeams, cat, hc, objectType, oc, logger)
		if err != nil {
			if bberr.IsCancelled(err) {
				cancelled = true
				break
			}
			return Result{Placements: allPlacements, Diagnostics: allDiagnostics}, err
		}

		allDiagnostics = append(allDiagnostics, diags...)
		allPlacements = append(allPlacements, placements...)
		results = append(results, layerResult{Z: z, Placements: placements, Seams: seams})
		prevSeams = seams
	}

	seamMap := buildSeamMap(results)

	return Result{
		Placements:  allPlacements,
		SeamMap:     seamMap,
		Diagnostics: allDiagnostics,
		Cancelled:   cancelled,
	}, nil
}

// buildSeamMap implements the Seam Map Builder (C8): for each packed layer
// that has a following packed layer, pair each of its seam columns with
// the following layer's first brick (if any) whose x-span centre lies
// within w/2 of it. The topmost packed layer gets no entries.
func buildSeamMap(results []layerResult) []SeamMapEntry {
	var out []SeamMapEntry
	for i := 0; i < len(results)-1; i++ {
		cur := results[i]
		next := results[i+1]
		cols := cur.Seams.Columns()
		for _, c := range cols {
			entry := SeamMapEntry{LayerZ: cur.Z, X: c, Width: 1}
			for _, b := range next.Placements {
				centre := float64(b.X) + float64(b.Width)/2
				if math.Abs(centre-float64(c)) <= float64(b.Width)/2 {
					entry.CoveredBy = b.Part
					entry.HasCovered = true
					break
				}
			}
			out = append(out, entry)
		}
	}
	return out
}
