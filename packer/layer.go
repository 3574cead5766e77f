package packer

import (
	"context"
	"fmt"
	"sort"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/classify"
	"github.com/brickforge/brickforge/hardcoded"
	"github.com/brickforge/brickforge/internal/bberr"
	"github.com/brickforge/brickforge/internal/bblog"
	"github.com/brickforge/brickforge/oracle"
	"github.com/brickforge/brickforge/voxel"
)

func mod2(v int32) int32 {
	m := v % 2
	if m < 0 {
		m += 2
	}
	return m
}

func sortedCellsOf(cells []voxel.Cell) []voxel.Cell {
	out := make([]voxel.Cell, len(cells))
	copy(out, cells)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// rectAllUncovered reports whether every cell of the w x d rectangle with
// minimum corner (x, y) both belongs to this colour's cluster and is not
// yet covered in the layer's OccupancyGrid.
func rectAllUncovered(cluster map[voxel.Cell]bool, grid *OccupancyGrid, x, y int32, w, d int) bool {
	for dy := 0; dy < d; dy++ {
		for dx := 0; dx < w; dx++ {
			cell := voxel.Cell{X: x + int32(dx), Y: y + int32(dy)}
			if !cluster[cell] || grid.Covered(cell.X, cell.Y) {
				return false
			}
		}
	}
	return true
}

func anyRemaining(cluster map[voxel.Cell]bool, grid *OccupancyGrid) bool {
	for cell := range cluster {
		if !grid.Covered(cell.X, cell.Y) {
			return true
		}
	}
	return false
}

// Layer packs a single z-layer: the colour-grouped cells, the previous
// layer's seam set, and the collaborators needed for candidate ordering
// and availability verification. Returns the placements (in the decided
// order of spec.md §5: z ascending handled by the caller, cell-visit
// order within the layer here), this layer's seam set, and any
// diagnostics recorded along the way. A non-nil error is always a
// *bberr.CatalogueFailureError (fatal) or bberr.Cancelled (mid-layer
// cancellation; the caller must discard this layer entirely).
func Layer(
	ctx context.Context,
	z int32,
	colourGroups map[voxel.ColourID][]voxel.Cell,
	prevSeams SeamSet,
	cat *catalogue.Catalogue,
	hc *hardcoded.Table,
	objectType string,
	oc oracle.Oracle,
	logger bblog.Logger,
) ([]PlacedBrick, SeamSet, []Diagnostic, error) {
	logger = bblog.OrNop(logger)

	colours := make([]voxel.ColourID, 0, len(colourGroups))
	for c := range colourGroups {
		colours = append(colours, c)
	}
	sort.Slice(colours, func(i, j int) bool { return colours[i] < colours[j] })

	var placements []PlacedBrick
	var diagnostics []Diagnostic
	layerSeams := NewSeamSet()

	for _, colour := range colours {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, bberr.Cancelled
		}

		cells := colourGroups[colour]
		if len(cells) == 0 {
			continue
		}
		sorted := sortedCellsOf(cells)
		cluster := make(map[voxel.Cell]bool, len(cells))
		for _, c := range cells {
			cluster[c] = true
		}
		grid := NewOccupancyGrid()
		// Availability is keyed by (part, colour) (spec.md §4.5; see the
		// oracle cache key in oracle/memo.go), so a false verdict for this
		// colour must not poison other colour groups in the same layer.
		skippedParts := make(map[voxel.PartID]bool)

		shape := classify.Classify(cells)
		candidates := classify.Candidates(shape, objectType, cat, hc)

		attempt := func(enforceParity bool) {
			for _, cand := range candidates {
				if skippedParts[cand.Part.ID] {
					continue
				}
				w, d := cand.Fit.W, cand.Fit.D
				for _, cell := range sorted {
					if grid.Covered(cell.X, cell.Y) {
						continue
					}
					x, y := cell.X, cell.Y

					if enforceParity {
						want := mod2(int32(z))
						if mod2(x) != want || mod2(y) != want {
							continue
						}
					}

					if seamConflict(prevSeams, x, w) {
						continue
					}

					if !rectAllUncovered(cluster, grid, x, y, w, d) {
						continue
					}

					verdict, err := oc.IsAvailable(ctx, cand.Part.ID, colour)
					if err != nil {
						logger.Warnf("oracle failure for %s/%d: %v", cand.Part.ID, colour, err)
						diagnostics = append(diagnostics, Diagnostic{
							Layer: z, Colour: colour,
							Message: fmt.Sprintf("oracle failure for %s, degraded to unknown: %v", cand.Part.ID, err),
						})
						verdict = oracle.Unknown
					}
					if verdict == oracle.False {
						skippedParts[cand.Part.ID] = true
						break
					}

					grid.MarkRect(x, y, w, d)
					placements = append(placements, PlacedBrick{
						Part: cand.Part.ID, Width: w, Depth: d, Height: cand.Part.Height,
						X: x, Y: y, Z: z, Rotation: cand.Rotation, Colour: colour,
						Verified: verdict == oracle.True,
					})
					layerSeams.Add(x)
					layerSeams.Add(x + int32(w))
				}
			}
		}

		attempt(true)
		if anyRemaining(cluster, grid) {
			diagnostics = append(diagnostics, Diagnostic{
				Layer: z, Colour: colour,
				Message: "parity offset relaxed: no parity-conforming placement covered the remaining cells",
			})
			attempt(false)
		}

		if anyRemaining(cluster, grid) {
			smallest, ok := cat.SmallestSquare()
			if !ok {
				return nil, nil, nil, &bberr.CatalogueFailureError{
					Layer: z, Reason: "catalogue has no 1x1 part to fall back to",
				}
			}
			for _, cell := range sorted {
				if grid.Covered(cell.X, cell.Y) {
					continue
				}
				x, y := cell.X, cell.Y
				verdict, err := oc.IsAvailable(ctx, smallest.ID, colour)
				if err != nil {
					diagnostics = append(diagnostics, Diagnostic{
						Layer: z, Colour: colour,
						Message: fmt.Sprintf("oracle failure for fallback %s, degraded to unknown: %v", smallest.ID, err),
					})
					verdict = oracle.Unknown
				}
				if verdict == oracle.False {
					return nil, nil, nil, &bberr.CatalogueFailureError{
						Layer: z, X: x, Y: y,
						Reason: "oracle declined the universal 1x1 filler; no further fallback available",
					}
				}
				grid.Mark(x, y)
				placements = append(placements, PlacedBrick{
					Part: smallest.ID, Width: 1, Depth: 1, Height: smallest.Height,
					X: x, Y: y, Z: z, Rotation: voxel.Rotation0, Colour: colour,
					Verified: verdict == oracle.True,
				})
				layerSeams.Add(x)
				layerSeams.Add(x + 1)
			}
		}
	}

	return placements, layerSeams, diagnostics, nil
}
