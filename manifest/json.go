package manifest

import (
	"encoding/json"
	"strconv"
)

type jsonVec3 [3]float64

func vec(v Vec3) jsonVec3 { return jsonVec3{v.X, v.Y, v.Z} }

type jsonPosition struct {
	Studs jsonVec3 `json:"studs"`
	MM    jsonVec3 `json:"mm"`
}

type jsonDimensions struct {
	Studs jsonVec3 `json:"studs"`
	MM    jsonVec3 `json:"mm"`
}

type jsonColourInfo struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type jsonBrick struct {
	BrickID       string         `json:"brick_id"`
	PartID        string         `json:"part_id"`
	LegoType      string         `json:"lego_type"`
	Position      jsonPosition   `json:"position"`
	Dimensions    jsonDimensions `json:"dimensions"`
	Rotation      int            `json:"rotation"`
	ColorID       int            `json:"color_id"`
	ColorInfo     jsonColourInfo `json:"color_info"`
	Vertices      [8]jsonVec3    `json:"vertices"`
	VoxelCoverage [][3]int32     `json:"voxel_coverage"`
	IsVerified    bool           `json:"is_verified"`
}

type jsonCoverageEntry struct {
	Voxel   [3]int32 `json:"voxel"`
	BrickID string   `json:"brick_id"`
	PartID  string   `json:"part_id"`
	LegoType string  `json:"lego_type"`
}

type jsonInventoryRow struct {
	PartID    string `json:"part_id"`
	LegoType  string `json:"lego_type"`
	ColorID   int    `json:"color_id"`
	ColorName string `json:"color_name"`
	Quantity  int    `json:"quantity"`
}

type jsonPieceCount struct {
	TotalPieces   int                `json:"total_pieces"`
	TotalUnique   int                `json:"total_unique"`
	Breakdown     []jsonInventoryRow `json:"breakdown"`
	EstimatedCost float64            `json:"estimated_cost"`
}

type jsonAssemblyStep struct {
	Layer       int32          `json:"layer"`
	PartsNeeded map[string]int `json:"parts_needed"`
	BrickIDs    []string       `json:"brick_ids"`
}

type jsonAssembly struct {
	TotalSteps           int                `json:"total_steps"`
	Difficulty           string             `json:"difficulty"`
	EstimatedTimeMinutes int                `json:"estimated_time_minutes"`
	Steps                []jsonAssemblyStep `json:"steps"`
}

type jsonSeamMapEntry struct {
	LayerZ     int32  `json:"layer_z"`
	XPosition  int32  `json:"x_position"`
	Width      int    `json:"width"`
	CoveredBy  string `json:"covered_by,omitempty"`
}

type jsonManifest struct {
	ManifestVersion string             `json:"manifest_version"`
	TotalBricks     int                `json:"total_bricks"`
	Bricks          []jsonBrick        `json:"bricks"`
	VoxelCoverage   []jsonCoverageEntry `json:"voxel_coverage"`
	Layers          map[string]int     `json:"layers"`
	Inventory       []jsonInventoryRow `json:"inventory"`
	PieceCount      jsonPieceCount     `json:"piece_count"`
	Assembly        jsonAssembly       `json:"assembly"`
	SeamMap         []jsonSeamMapEntry `json:"seam_map,omitempty"`
	Cancelled       bool               `json:"cancelled,omitempty"`
}

// ToJSON renders m in the external shape of spec.md §6.
func ToJSON(m Manifest) ([]byte, error) {
	bricks := make([]jsonBrick, 0, len(m.Bricks))
	for _, b := range m.Bricks {
		var verts [8]jsonVec3
		for i, v := range b.Vertices {
			verts[i] = vec(v)
		}
		cov := make([][3]int32, 0, len(b.VoxelCoverage))
		for _, v := range b.VoxelCoverage {
			cov = append(cov, [3]int32{v.X, v.Y, v.Z})
		}
		bricks = append(bricks, jsonBrick{
			BrickID: b.BrickID, PartID: string(b.PartID), LegoType: string(b.PartID),
			Position:   jsonPosition{Studs: vec(b.Position.Studs), MM: vec(b.Position.MM)},
			Dimensions: jsonDimensions{Studs: vec(b.Dimensions.Studs), MM: vec(b.Dimensions.MM)},
			Rotation:   int(b.Rotation), ColorID: int(b.ColourID),
			ColorInfo:     jsonColourInfo{Name: b.ColourInfo.Name, Hex: b.ColourInfo.Hex},
			Vertices:      verts,
			VoxelCoverage: cov,
			IsVerified:    b.IsVerified,
		})
	}

	coverage := make([]jsonCoverageEntry, 0, len(m.VoxelCoverage))
	for _, c := range m.VoxelCoverage {
		coverage = append(coverage, jsonCoverageEntry{
			Voxel: [3]int32{c.Voxel.X, c.Voxel.Y, c.Voxel.Z},
			BrickID: c.BrickID, PartID: string(c.PartID), LegoType: string(c.PartID),
		})
	}

	layers := make(map[string]int, len(m.Layers))
	for z, n := range m.Layers {
		layers[strconv.Itoa(int(z))] = n
	}

	inv := make([]jsonInventoryRow, 0, len(m.Inventory))
	for _, row := range m.Inventory {
		inv = append(inv, jsonInventoryRow{
			PartID: string(row.PartID), LegoType: string(row.PartID),
			ColorID: int(row.ColourID), ColorName: row.ColourName, Quantity: row.Quantity,
		})
	}

	breakdown := make([]jsonInventoryRow, len(inv))
	copy(breakdown, inv)

	steps := make([]jsonAssemblyStep, 0, len(m.Assembly.Steps))
	for _, step := range m.Assembly.Steps {
		needed := make(map[string]int, len(step.PartsNeeded))
		for p, n := range step.PartsNeeded {
			needed[string(p)] = n
		}
		ids := make([]string, 0, len(step.Bricks))
		for _, b := range step.Bricks {
			ids = append(ids, b.BrickID)
		}
		steps = append(steps, jsonAssemblyStep{Layer: step.Layer, PartsNeeded: needed, BrickIDs: ids})
	}

	var seamMap []jsonSeamMapEntry
	for _, s := range m.SeamMap {
		entry := jsonSeamMapEntry{LayerZ: s.LayerZ, XPosition: s.X, Width: s.Width}
		if s.HasCovered {
			entry.CoveredBy = string(s.CoveredBy)
		}
		seamMap = append(seamMap, entry)
	}

	out := jsonManifest{
		ManifestVersion: m.ManifestVersion,
		TotalBricks:     m.TotalBricks,
		Bricks:          bricks,
		VoxelCoverage:   coverage,
		Layers:          layers,
		Inventory:       inv,
		PieceCount: jsonPieceCount{
			TotalPieces: m.PieceCount.TotalPieces, TotalUnique: m.PieceCount.TotalUnique,
			Breakdown: breakdown, EstimatedCost: m.PieceCount.EstimatedCost,
		},
		Assembly: jsonAssembly{
			TotalSteps: m.Assembly.TotalSteps, Difficulty: m.Assembly.Difficulty,
			EstimatedTimeMinutes: m.Assembly.EstimatedTimeMinutes, Steps: steps,
		},
		SeamMap:   seamMap,
		Cancelled: m.Cancelled,
	}
	return json.MarshalIndent(out, "", "  ")
}
