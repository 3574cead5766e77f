// Package hardcoded implements the Hardcoded Object Index (C9): an
// optional table of pre-composed brick recipes for common furniture
// archetypes, matched by object type tag and bounding-box dimensions
// within +/-1 stud (spec.md §4.9). Loaded the same way as the catalogue:
// an embedded YAML document parsed once via go:embed + yaml.v3.
package hardcoded

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/brickforge/brickforge/voxel"
)

//go:embed default.yaml
var defaultYAML []byte

// RecipePart is one catalogue part named by a recipe, with an optional
// suggested colour hex (advisory only; the palette mapper still decides
// the final colour id from the actual voxels).
type RecipePart struct {
	PartID           voxel.PartID
	SuggestedColour  string
	HasSuggestedHint bool
}

// Recipe is a pre-composed ordering of parts for one archetype/footprint
// bucket. The packer uses it only to order candidates (§4.9); it never
// pre-places bricks.
type Recipe struct {
	ObjectType   string
	WidthBucket  int
	DepthBucket  int
	Parts        []RecipePart
}

// Table is the immutable recipe table.
type Table struct {
	Recipes []Recipe
}

type yamlDoc struct {
	Recipes []struct {
		ObjectType  string `yaml:"object_type"`
		WidthBucket int    `yaml:"width_bucket"`
		DepthBucket int    `yaml:"depth_bucket"`
		Parts       []struct {
			PartID           string `yaml:"part_id"`
			SuggestedColour  string `yaml:"suggested_colour"`
		} `yaml:"parts"`
	} `yaml:"recipes"`
}

// Parse builds a Table from a YAML document shaped like default.yaml.
// Malformed rows (missing object type, empty part list) are skipped; an
// empty result is valid (the index is optional per spec.md §4.9).
func Parse(doc []byte) (*Table, error) {
	var parsed yamlDoc
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("hardcoded: parse yaml: %w", err)
	}

	t := &Table{}
	for _, r := range parsed.Recipes {
		if r.ObjectType == "" || len(r.Parts) == 0 {
			continue
		}
		recipe := Recipe{
			ObjectType:  r.ObjectType,
			WidthBucket: r.WidthBucket,
			DepthBucket: r.DepthBucket,
		}
		for _, p := range r.Parts {
			if p.PartID == "" {
				continue
			}
			recipe.Parts = append(recipe.Parts, RecipePart{
				PartID:           voxel.PartID(p.PartID),
				SuggestedColour:  p.SuggestedColour,
				HasSuggestedHint: p.SuggestedColour != "",
			})
		}
		if len(recipe.Parts) == 0 {
			continue
		}
		t.Recipes = append(t.Recipes, recipe)
	}
	return t, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Match finds the closest recipe for objectType whose bucket dimensions
// are within +/-1 stud of (wBB, dBB), preferring the smallest total stud
// delta and, on a tie, the first match in table order.
func (t *Table) Match(objectType string, wBB, dBB int) (Recipe, bool) {
	if objectType == "" {
		return Recipe{}, false
	}
	best := -1
	bestDelta := 0
	for i, r := range t.Recipes {
		if r.ObjectType != objectType {
			continue
		}
		dw := abs(wBB - r.WidthBucket)
		dd := abs(dBB - r.DepthBucket)
		if dw > 1 || dd > 1 {
			continue
		}
		delta := dw + dd
		if best == -1 || delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}
	if best == -1 {
		return Recipe{}, false
	}
	return t.Recipes[best], true
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the package-embedded recipe table, parsed exactly once.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultYAML)
	})
	return defaultTable, defaultErr
}
