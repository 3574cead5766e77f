// Package classify implements the Shape Classifier (C4): given a
// connected set of same-colour (x, y) cells, it derives a bounding box,
// area, and aspect ratio, and orders catalogue candidates for the layer
// packer, preferring a matching hardcoded recipe ahead of the ordinary
// catalogue ordering (spec.md §4.4).
package classify

import (
	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/hardcoded"
	"github.com/brickforge/brickforge/voxel"
)

// Shape is the geometric summary of one colour cluster within a layer.
type Shape struct {
	BBoxW       int
	BBoxD       int
	Area        int
	AspectRatio float64
}

// Classify computes the bounding box, area and aspect ratio of a set of
// cells. cells must be non-empty.
func Classify(cells []voxel.Cell) Shape {
	minX, minY := cells[0].X, cells[0].Y
	maxX, maxY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	w := int(maxX-minX) + 1
	d := int(maxY-minY) + 1

	longer, shorter := w, d
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	aspect := 1.0
	if shorter > 0 {
		aspect = float64(longer) / float64(shorter)
	}

	return Shape{BBoxW: w, BBoxD: d, Area: w * d, AspectRatio: aspect}
}

// Candidates returns the ordered candidate part list of spec.md §4.4: a
// matching hardcoded recipe's parts first (as rotation-0 candidates, one
// per recipe part actually present in the catalogue and fitting the
// bounding box), then every catalogue part/orientation that fits,
// ordered by category priority, area descending, width descending.
// Recipe candidates are not repeated if the catalogue pass would also
// surface them.
func Candidates(shape Shape, objectType string, cat *catalogue.Catalogue, hc *hardcoded.Table) []catalogue.Candidate {
	var out []catalogue.Candidate
	seen := make(map[candidateKey]bool)

	if hc != nil {
		if recipe, ok := hc.Match(objectType, shape.BBoxW, shape.BBoxD); ok {
			for _, rp := range recipe.Parts {
				part, ok := cat.Part(rp.PartID)
				if !ok {
					continue
				}
				fit := part.Footprint()
				if fit.W > shape.BBoxW || fit.D > shape.BBoxD {
					continue
				}
				k := candidateKey{part.ID, voxel.Rotation0}
				if seen[k] {
					continue
				}
				seen[k] = true
				out = append(out, catalogue.Candidate{Part: part, Rotation: voxel.Rotation0, Fit: fit})
			}
		}
	}

	for _, c := range cat.FittingParts(shape.BBoxW, shape.BBoxD) {
		k := candidateKey{c.Part.ID, c.Rotation}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}

	return out
}

type candidateKey struct {
	part voxel.PartID
	rot  voxel.Rotation
}
