// Package catalogue holds the immutable part and colour tables (C2):
// loaded once at process start from an embedded YAML document, published
// read-only thereafter, per the single-writer discipline of spec.md §5.
package catalogue

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/brickforge/brickforge/voxel"
)

//go:embed default.yaml
var defaultYAML []byte

// Scale constants shared by the manifest emitter (spec.md §4.2).
const (
	StudMM  = 8.0
	LayerMM = 9.6
)

// Part is one catalogue row.
type Part struct {
	ID          voxel.PartID
	Width       int
	Depth       int
	Height      int
	Category    voxel.Category
	DisplayName string
	UnitCost    float64
	Area        int // materialised secondary sort key, width*depth
}

// Footprint returns the part's unrotated footprint.
func (p Part) Footprint() voxel.Footprint { return voxel.Footprint{W: p.Width, D: p.Depth} }

// ColourEntry is one row of the colour table.
type ColourEntry struct {
	ID      voxel.ColourID
	Name    string
	RGB     voxel.RGB
	LDrawID int
}

// Catalogue is the immutable part + colour table.
type Catalogue struct {
	Parts   []Part
	Colours []ColourEntry

	byID    map[voxel.PartID]Part
	byColID map[voxel.ColourID]ColourEntry
}

type yamlDoc struct {
	Parts []struct {
		ID          string  `yaml:"id"`
		Width       int     `yaml:"width"`
		Depth       int     `yaml:"depth"`
		Height      int     `yaml:"height"`
		Category    string  `yaml:"category"`
		DisplayName string  `yaml:"display_name"`
		UnitCost    float64 `yaml:"unit_cost"`
	} `yaml:"parts"`
	Colours []struct {
		ID      int    `yaml:"id"`
		Name    string `yaml:"name"`
		Hex     string `yaml:"hex"`
		LDrawID int    `yaml:"ldraw_id"`
	} `yaml:"colours"`
}

// Parse builds a Catalogue from a YAML document in the shape of
// default.yaml. It never returns an error for malformed part rows (they
// are skipped), but returns a PaletteFailure-shaped error via ErrEmptyColours
// when the colour table is empty (spec.md §4.1, §7: fatal at initialisation).
func Parse(doc []byte) (*Catalogue, error) {
	var parsed yamlDoc
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("catalogue: parse yaml: %w", err)
	}

	c := &Catalogue{
		byID:    make(map[voxel.PartID]Part),
		byColID: make(map[voxel.ColourID]ColourEntry),
	}

	for _, p := range parsed.Parts {
		if p.Width < 1 || p.Depth < 1 {
			continue
		}
		part := Part{
			ID:          voxel.PartID(p.ID),
			Width:       p.Width,
			Depth:       p.Depth,
			Height:      p.Height,
			Category:    voxel.Category(p.Category),
			DisplayName: p.DisplayName,
			UnitCost:    p.UnitCost,
			Area:        p.Width * p.Depth,
		}
		c.Parts = append(c.Parts, part)
		c.byID[part.ID] = part
	}
	sort.Slice(c.Parts, func(i, j int) bool { return c.Parts[i].ID < c.Parts[j].ID })

	for _, col := range parsed.Colours {
		rgb, _ := voxel.ParseHex(col.Hex)
		entry := ColourEntry{
			ID:      voxel.ColourID(col.ID),
			Name:    col.Name,
			RGB:     rgb,
			LDrawID: col.LDrawID,
		}
		c.Colours = append(c.Colours, entry)
		c.byColID[entry.ID] = entry
	}
	sort.Slice(c.Colours, func(i, j int) bool { return c.Colours[i].ID < c.Colours[j].ID })

	if len(c.Colours) == 0 {
		return nil, ErrEmptyColours
	}
	if _, ok := c.SmallestSquare(); !ok {
		return nil, ErrNo1x1
	}
	return c, nil
}

// ErrEmptyColours is returned by Parse when the colour table has no rows;
// spec.md §4.1 requires this to be a fatal configuration error.
var ErrEmptyColours = fmt.Errorf("catalogue: colour table is empty")

// ErrNo1x1 is returned by Parse when the catalogue lacks a 1x1 part,
// matching the fatal CatalogueFailure condition of spec.md §4.5/§7
// (a catalogue without a universal filler cannot tile arbitrary gaps).
var ErrNo1x1 = fmt.Errorf("catalogue: no 1x1 part available")

// Part looks up a part by id.
func (c *Catalogue) Part(id voxel.PartID) (Part, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Colour looks up a colour entry by id.
func (c *Catalogue) Colour(id voxel.ColourID) (ColourEntry, bool) {
	e, ok := c.byColID[id]
	return e, ok
}

// SmallestSquare returns the 1x1 part with the lowest unit cost (the first
// in id order on a tie), the universal filler
// used by the layer packer's final fallback pass (spec.md §4.5 step 4).
func (c *Catalogue) SmallestSquare() (Part, bool) {
	var best Part
	found := false
	for _, p := range c.Parts {
		if p.Width == 1 && p.Depth == 1 {
			if !found || p.UnitCost < best.UnitCost {
				best = p
				found = true
			}
		}
	}
	return best, found
}

// categoryPriority implements the category ordering of spec.md §4.4:
// tile > brick > plate > slope > hinge. Categories outside this list sort
// last, in stable relative order.
var categoryPriority = map[voxel.Category]int{
	voxel.CategoryTile:  0,
	voxel.CategoryBrick: 1,
	voxel.CategoryPlate: 2,
	voxel.CategorySlope: 3,
	voxel.CategoryHinge: 4,
}

func categoryRank(cat voxel.Category) int {
	if r, ok := categoryPriority[cat]; ok {
		return r
	}
	return len(categoryPriority)
}

// Candidate is one part in one orientation, with its rotated footprint.
type Candidate struct {
	Part     Part
	Rotation voxel.Rotation
	Fit      voxel.Footprint
}

// FittingParts returns every catalogue part whose footprint (either
// orientation) fits within a w_bb x d_bb bounding box, sorted by
// spec.md §4.4: category priority, then area descending, then width
// descending. A part appears once for each of rotation 0 and 90 whose
// footprint fits, so a square part appears twice.
func (c *Catalogue) FittingParts(wBB, dBB int) []Candidate {
	var out []Candidate
	for _, p := range c.Parts {
		for _, rot := range []voxel.Rotation{voxel.Rotation0, voxel.Rotation90} {
			fit := p.Footprint().Rotated(rot)
			if fit.W <= wBB && fit.D <= dBB {
				out = append(out, Candidate{Part: p, Rotation: rot, Fit: fit})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra, rb := categoryRank(a.Part.Category), categoryRank(b.Part.Category)
		if ra != rb {
			return ra < rb
		}
		areaA, areaB := a.Fit.W*a.Fit.D, b.Fit.W*b.Fit.D
		if areaA != areaB {
			return areaA > areaB
		}
		return a.Fit.W > b.Fit.W
	})
	return out
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalogue
	defaultErr  error
)

// Default returns the package-embedded catalogue, parsed exactly once and
// shared read-only across callers (spec.md §5: "read-only after
// initialisation").
func Default() (*Catalogue, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultYAML)
	})
	return defaultCat, defaultErr
}
