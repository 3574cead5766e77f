package packer

import "sort"

// SeamSet is the per-layer set of integer x-columns where a brick's left
// or right edge lies in that layer (spec.md §3).
type SeamSet map[int32]bool

// NewSeamSet returns an empty seam set.
func NewSeamSet() SeamSet { return make(SeamSet) }

// Add records a seam column.
func (s SeamSet) Add(x int32) { s[x] = true }

// Contains reports whether x is a recorded seam column.
func (s SeamSet) Contains(x int32) bool { return s[x] }

// Columns returns the seam columns in ascending order.
func (s SeamSet) Columns() []int32 {
	out := make([]int32, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// seamConflict reports whether placing a footprint of width w at x would
// put its left edge exactly on a previous-layer seam column, which
// re-creates the seam at the same place instead of bridging it
// (spec.md §4.5's seam-bridging rule, and the width-1 case of
// invariant 5: a 1-wide footprint's only "edge" is x itself, so any
// previous seam at x rejects it outright). The footprint's span is the
// half-open interval [x, x+w); a seam at x+w lies one past its
// rightmost occupied column and imposes no bridging constraint.
func seamConflict(prev SeamSet, x int32, w int) bool {
	if len(prev) == 0 {
		return false
	}
	return prev.Contains(x)
}
