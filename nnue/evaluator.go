package nnue

import "github.com/kvchess/timecat/engine"

const pawnValue = 100

// Evaluator implements engine.Evaluator over a Network and the
// AccumulatorStack incrementally maintained by the Board it is wired
// to, with the score post-processing spec.md §4.8 describes: a
// knights-only draw rule, an easily-winning mop-up override, and
// amplification of large scores.
type Evaluator struct {
	net   *Network
	acc   *AccumulatorStack
	cache *evalCache
}

// NewEvaluator builds an Evaluator over net, with acc as the
// incremental accumulator stack the owning Board drives via Push,
// Pop, Activate, Deactivate and RefreshSide.
func NewEvaluator(net *Network, acc *AccumulatorStack) *Evaluator {
	return &Evaluator{net: net, acc: acc, cache: newEvalCache()}
}

// Accumulator exposes the underlying stack so a Board can be
// constructed with Acc: eval.Accumulator().
func (e *Evaluator) Accumulator() *AccumulatorStack { return e.acc }

// Evaluate returns a centipawn score from the side-to-move's
// perspective (engine.Evaluator).
func (e *Evaluator) Evaluate(pos *engine.Position) int32 {
	if onlyMinorKnights(pos) {
		return 0
	}

	key := pos.Hash()
	if score, ok := e.cache.probe(key); ok {
		return score
	}

	score := e.acc.Evaluate(pos.SideToMove)
	if ov, ok := easilyWinningOverride(pos); ok {
		score = ov
	} else {
		score = amplify(pos, score)
	}

	e.cache.store(key, score)
	return score
}

// onlyMinorKnights implements spec.md §4.8's "return 0 when both sides
// have only knights and the knight count < 3": no pawns/rooks/queens/
// bishops anywhere, and fewer than 3 knights total.
func onlyMinorKnights(pos *engine.Position) bool {
	if pos.PieceMasks[engine.Pawn] != 0 || pos.PieceMasks[engine.Rook] != 0 ||
		pos.PieceMasks[engine.Queen] != 0 || pos.PieceMasks[engine.Bishop] != 0 {
		return false
	}
	return pos.PieceMasks[engine.Knight].Count() < 3
}

// materialImbalance returns (strongerSide, imbalance) where imbalance
// is strongerSide's material minus the other side's, in centipawns.
func materialImbalance(pos *engine.Position) (engine.Color, int32) {
	w, b := pos.MaterialScores[engine.White], pos.MaterialScores[engine.Black]
	if w >= b {
		return engine.White, w - b
	}
	return engine.Black, b - w
}

// smallPieceCount caps the easily-winning override to positions simple
// enough that "drive the king to a corner" is actually the winning
// plan, rather than a complex middlegame with a transient material
// lead.
func smallPieceCount(pos *engine.Position) bool {
	return pos.Occupied.Count() <= 8
}

const (
	bishopValue            = 330
	easilyWinningThreshold = pawnValue + bishopValue
	mopUpScore             = 9000
)

// easilyWinningOverride implements spec.md §4.8: once the material
// imbalance clears pawn+bishop and the board is sparse enough, the
// eval stops trusting NNUE's positional judgment and instead directly
// rewards squeezing the losing king into the nearest relevant corner
// while drawing the winning pieces closer to it.
func easilyWinningOverride(pos *engine.Position) (int32, bool) {
	strong, imbalance := materialImbalance(pos)
	if imbalance <= easilyWinningThreshold || !smallPieceCount(pos) {
		return 0, false
	}

	weak := strong.Other()
	weakKing := pos.KingSquare(weak)
	strongKing := pos.KingSquare(strong)

	corner := nearestRelevantCorner(pos, strong, weakKing)
	cornerDist := int32(weakKing.Distance(corner))
	kingDist := int32(strongKing.Distance(weakKing))

	// Reward a weak king pinned in a corner and a strong king that has
	// closed the distance; dominates the NNUE score per spec.md §4.8.
	score := mopUpScore + (7-cornerDist)*20 + (14-kingDist)*10
	if pos.SideToMove == weak {
		return -score, true
	}
	return score, true
}

// nearestRelevantCorner picks the mating corner: for a KNB ending it's
// the corner matching the bishop's square color (the only corner a
// knight+bishop mate can actually be forced into); otherwise it's
// whichever corner is nearest the losing king.
func nearestRelevantCorner(pos *engine.Position, strong engine.Color, weakKing engine.Square) engine.Square {
	bishops := pos.PieceMasks[engine.Bishop] & pos.OccupiedColor[strong]
	knights := pos.PieceMasks[engine.Knight] & pos.OccupiedColor[strong]
	if bishops.Count() == 1 && knights.Count() == 1 &&
		pos.PieceMasks[engine.Queen] == 0 && pos.PieceMasks[engine.Rook] == 0 {
		bishopSq := bishops.LSB()
		const darkSquares = engine.BitBoard(0xAA55AA55AA55AA55)
		if darkSquares.Has(bishopSq) {
			return nearestOf(weakKing, engine.SquareA8, engine.SquareH1)
		}
		return nearestOf(weakKing, engine.SquareA1, engine.SquareH8)
	}
	return nearestOf(weakKing, engine.SquareA1, engine.SquareH1, engine.SquareA8, engine.SquareH8)
}

func nearestOf(from engine.Square, corners ...engine.Square) engine.Square {
	best := corners[0]
	bestDist := from.Distance(best)
	for _, c := range corners[1:] {
		if d := from.Distance(c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// amplify implements spec.md §4.8's amplification of scores beyond
// 15 pawns: the factor grows as the opposing side's material thins
// out, so a large score against a near-empty defense is pushed closer
// to a forced win rather than left looking like a mere advantage.
func amplify(pos *engine.Position, score int32) int32 {
	const threshold = 15 * pawnValue
	abs := score
	if abs < 0 {
		abs = -abs
	}
	if abs <= threshold {
		return score
	}

	var defenderMaterial int32
	if pos.MaterialScores[engine.White] < pos.MaterialScores[engine.Black] {
		defenderMaterial = pos.MaterialScores[engine.White]
	} else {
		defenderMaterial = pos.MaterialScores[engine.Black]
	}

	// Scale factor shrinks toward 1 as the defender still has material,
	// and grows toward 2 as the defender's material approaches zero.
	const maxDefenderMaterial = 3900 // roughly a full army minus the king
	clamped := defenderMaterial
	if clamped > maxDefenderMaterial {
		clamped = maxDefenderMaterial
	}
	if clamped < 0 {
		clamped = 0
	}
	factorNum := int32(2*maxDefenderMaterial) - clamped
	amplified := threshold + (abs-threshold)*factorNum/maxDefenderMaterial

	if score < 0 {
		return -amplified
	}
	return amplified
}
