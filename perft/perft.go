// Package perft counts move-generator leaf nodes to a fixed depth, the
// standard correctness/benchmark tool for a chess move generator.
// Grounded directly on the teacher's perft/perft.go, retargeted from a
// standalone flag-driven command to a library (called from this
// package's tests; cmd/timecat does not use it), and from the teacher's Position-level
// DoMove/UndoMove to engine.Board's Push/Pop.
package perft

import "github.com/kvchess/timecat/engine"

// Counters tallies perft leaf classifications at depth 1 (spec.md §8's
// perft vectors only quantify total nodes, but the breakdown is the
// standard cross-check the teacher's own tool reports).
type Counters struct {
	Nodes      uint64
	Captures   uint64
	Enpassant  uint64
	Castles    uint64
	Promotions uint64
}

func (c *Counters) add(o Counters) {
	c.Nodes += o.Nodes
	c.Captures += o.Captures
	c.Enpassant += o.Enpassant
	c.Castles += o.Castles
	c.Promotions += o.Promotions
}

// Count walks b to depth, returning leaf-node counters. depth == 0
// counts the current position itself as one node.
func Count(b *engine.Board, depth int) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	var r Counters
	var buf [256]engine.Move
	moves := b.Pos.GenerateMoves(buf[:0], engine.AllSquares)

	for _, m := range moves {
		if depth == 1 {
			if m.IsCapture() {
				r.Captures++
			}
			switch m.MoveType {
			case engine.Enpassant:
				r.Enpassant++
			case engine.Castling:
				r.Castles++
			case engine.Promotion:
				r.Promotions++
			}
		}

		b.Push(m)
		r.add(Count(b, depth-1))
		b.Pop()
	}
	return r
}

// Divide runs Count(depth-1) for each legal root move, the standard
// debugging aid for isolating which branch diverges from a known-good
// count.
func Divide(b *engine.Board, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth == 0 {
		return out
	}

	var buf [256]engine.Move
	moves := b.Pos.GenerateMoves(buf[:0], engine.AllSquares)
	for _, m := range moves {
		b.Push(m)
		out[b.Pos.MoveToUCI(m)] = Count(b, depth-1).Nodes
		b.Pop()
	}
	return out
}
