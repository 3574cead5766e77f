// Package memo implements the on-chain memo collaborator contract of
// spec.md §6: a compact record summarising a completed build, serialised
// to JSON and truncated to fit a 600-byte on-chain memo field. Not part
// of the core; included for completeness of the boundary
// (SPEC_FULL.md §2.3, grounded on solana_bb_coin.py).
package memo

import "encoding/json"

// MaxBytes is the hard ceiling spec.md §6 imposes on the serialised memo.
const MaxBytes = 600

// PartQuantity is one inventory row in the compact memo shape.
type PartQuantity struct {
	ID string `json:"id"`
	Q  int    `json:"q"`
}

// Record is the compact {t,n,i,p,s,c,b,ts} shape of spec.md §6.
type Record struct {
	Type       string         `json:"t"`
	Name       string         `json:"n"`
	BuildID    string         `json:"i"`
	Pieces     int            `json:"p"`
	Steps      int            `json:"s"`
	Cost       float64        `json:"c"`
	Breakdown  []PartQuantity `json:"b,omitempty"`
	UnixTime   int64          `json:"ts"`
}

// New builds a Record with the fixed type tag "BB".
func New(name, buildID string, pieces, steps int, cost float64, breakdown []PartQuantity, unixTime int64) Record {
	return Record{
		Type: "BB", Name: name, BuildID: buildID,
		Pieces: pieces, Steps: steps, Cost: cost,
		Breakdown: breakdown, UnixTime: unixTime,
	}
}

// Encode serialises r to JSON, truncating to fit MaxBytes by first
// dropping the breakdown (b) and, if still too large, shortening the
// name (n) one rune at a time — the rule of spec.md §6.
func Encode(r Record) ([]byte, error) {
	out, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if len(out) <= MaxBytes {
		return out, nil
	}

	trimmed := r
	trimmed.Breakdown = nil
	out, err = json.Marshal(trimmed)
	if err != nil {
		return nil, err
	}
	if len(out) <= MaxBytes {
		return out, nil
	}

	name := []rune(trimmed.Name)
	for len(name) > 0 {
		name = name[:len(name)-1]
		trimmed.Name = string(name)
		out, err = json.Marshal(trimmed)
		if err != nil {
			return nil, err
		}
		if len(out) <= MaxBytes {
			return out, nil
		}
	}
	trimmed.Name = ""
	return json.Marshal(trimmed)
}
