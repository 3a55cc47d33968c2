// Package tablebase defines the endgame-tablebase collaborator
// interface. Tablebase probing is out of scope (spec.md §1
// Non-goals); this package exists only as the seam so engine/search.go
// and uci have somewhere to call through without hardwiring its
// absence, grounded on herohde-morlock's narrow-interface convention.
package tablebase

import "github.com/kvchess/timecat/engine"

// Probe resolves exact results for positions with few enough pieces to
// be tabulated.
type Probe interface {
	// Result reports the WDL result and best move for pos, if pos is
	// within the tablebase's piece-count reach.
	Result(pos *engine.Position) (wdl int, best engine.Move, ok bool)
}

// None is a Probe that never has a result.
type None struct{}

func (None) Result(*engine.Position) (int, engine.Move, bool) { return 0, engine.NullMove, false }
