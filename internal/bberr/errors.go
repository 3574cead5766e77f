// Package bberr implements the error taxonomy of spec.md §7: a small set
// of typed errors the CLI maps to stable exit codes, plus a Cancelled
// marker for cooperative between-layer cancellation.
package bberr

import (
	"errors"
	"fmt"
)

// InvalidInputError covers malformed voxel records: non-integer fields,
// duplicate coordinates, negative coordinates where unsupported, or an
// empty voxel set where one is required.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// CatalogueFailureError means no catalogue part fits some 1x1 gap,
// implying the catalogue lacks a 1x1 unit. Fatal to the packing run.
type CatalogueFailureError struct {
	Layer  int32
	X, Y   int32
	Reason string
}

func (e *CatalogueFailureError) Error() string {
	return fmt.Sprintf("catalogue failure at layer %d, cell (%d,%d): %s", e.Layer, e.X, e.Y, e.Reason)
}

// OracleFailureError means the availability oracle emitted errors instead
// of verdicts. The packer recovers locally (treats every answer as
// unknown); this type exists so callers can still observe and log it.
type OracleFailureError struct {
	Part string
	Err  error
}

func (e *OracleFailureError) Error() string {
	return fmt.Sprintf("oracle failure for part %s: %v", e.Part, e.Err)
}

func (e *OracleFailureError) Unwrap() error { return e.Err }

// PaletteFailureError means the colour table is empty. Fatal at
// initialisation.
type PaletteFailureError struct {
	Reason string
}

func (e *PaletteFailureError) Error() string {
	return fmt.Sprintf("palette failure: %s", e.Reason)
}

// Cancelled is returned (wrapped) when a caller cancels a run between
// layers. It is not an error in the usual sense: it yields a partial
// manifest rather than aborting.
var Cancelled = errors.New("packing run cancelled")

// IsCancelled reports whether err is, or wraps, Cancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, Cancelled)
}

// ExitCode maps a taxonomy error to the CLI exit codes of spec.md §6.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var inv *InvalidInputError
	if errors.As(err, &inv) {
		return 2
	}
	var cat *CatalogueFailureError
	if errors.As(err, &cat) {
		return 3
	}
	var pal *PaletteFailureError
	if errors.As(err, &pal) {
		return 4
	}
	var ora *OracleFailureError
	if errors.As(err, &ora) {
		return 4
	}
	return 1
}
