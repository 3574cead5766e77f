package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brickforge/brickforge/catalogue"
	"github.com/brickforge/brickforge/voxel"
)

// rotationMatrix returns the fixed 3x3 row-major rotation matrix LDraw
// expects for a quarter-turn about the vertical (LDraw Y) axis, per
// spec.md §4.7 and the coordinate-convention fix of §9: 0 is identity,
// the others are the standard Y-axis rotations.
func rotationMatrix(r voxel.Rotation) [9]int {
	switch r {
	case voxel.Rotation90:
		return [9]int{0, 0, 1, 0, 1, 0, -1, 0, 0}
	case voxel.Rotation180:
		return [9]int{-1, 0, 0, 0, 1, 0, 0, 0, -1}
	case voxel.Rotation270:
		return [9]int{0, 0, -1, 0, 1, 0, 1, 0, 0}
	default:
		return [9]int{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
}

func rotationFromMatrix(m [9]int) (voxel.Rotation, bool) {
	for _, r := range []voxel.Rotation{voxel.Rotation0, voxel.Rotation90, voxel.Rotation180, voxel.Rotation270} {
		if rotationMatrix(r) == m {
			return r, true
		}
	}
	return 0, false
}

// LDrawText renders the manifest's bricks as an LDraw-style text document
// (spec.md §4.7): header lines followed by one "1 ..." line per brick.
// Coordinates follow the fixed convention of spec.md §9: studX*20,
// studY*24, -studZ*20; z is negated exactly once, here.
func LDrawText(m Manifest, cat *catalogue.Catalogue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "0 FILE brickforge-manifest.ldr\n")
	fmt.Fprintf(&b, "0 Manifest version %s, %d bricks\n", m.ManifestVersion, m.TotalBricks)
	fmt.Fprintf(&b, "0 BFC CERTIFY CCW\n")

	for _, brick := range m.Bricks {
		colour, _ := cat.Colour(brick.ColourID)
		x := int(brick.Position.Studs.X) * 20
		y := int(brick.Position.Studs.Y) * 24
		z := -int(brick.Position.Studs.Z) * 20
		rot := rotationMatrix(brick.Rotation)
		fmt.Fprintf(&b, "1 %d %d %d %d %d %d %d %d %d %d %d %d %s.dat\n",
			colour.LDrawID, x, y, z,
			rot[0], rot[1], rot[2], rot[3], rot[4], rot[5], rot[6], rot[7], rot[8],
			brick.PartID)
	}
	return b.String()
}

// ParsedLine is one "1 ..." brick line recovered by ParseLDraw.
type ParsedLine struct {
	ColourLDrawID int
	PartID        voxel.PartID
	X, Y, Z       int32 // studs, recovered from the scaled LDraw coordinates
	Rotation      voxel.Rotation
}

// ParseLDraw recovers the per-brick colour id, part id, stud position and
// rotation from LDrawText's output, implementing the round-trip of
// spec.md §8 testable property 9. Non-"1" lines (comments, headers) are
// skipped.
func ParseLDraw(text string) ([]ParsedLine, error) {
	var out []ParsedLine
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "1 ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 15 {
			return nil, fmt.Errorf("ldraw: line %d: expected 15 fields, got %d", lineNo+1, len(fields))
		}
		nums := make([]int, 13)
		for i := 0; i < 13; i++ {
			v, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, fmt.Errorf("ldraw: line %d: field %d: %w", lineNo+1, i+1, err)
			}
			nums[i] = v
		}
		partFile := fields[14]
		partID := voxel.PartID(strings.TrimSuffix(partFile, ".dat"))

		var mat [9]int
		copy(mat[:], nums[4:13])
		rot, ok := rotationFromMatrix(mat)
		if !ok {
			return nil, fmt.Errorf("ldraw: line %d: unrecognised rotation matrix", lineNo+1)
		}

		out = append(out, ParsedLine{
			ColourLDrawID: nums[0],
			PartID:        partID,
			X:             int32(nums[1] / 20),
			Y:             int32(nums[2] / 24),
			Z:             int32(-nums[3] / 20),
			Rotation:      rot,
		})
	}
	return out, nil
}
