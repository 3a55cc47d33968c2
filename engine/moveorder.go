// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// Move ordering scores per spec.md §4.6. Higher sorts first.
const (
	scorePV      = 129_000_000
	scoreTT      = 128_000_000
	scoreCapture = 126_000_000
	scoreKiller  = 125_000_000
	scoreHistory = 124_000_000
	scoreQuietCheckBase = -1_000_000
)

const killerSlots = 3

// OrderingState is per-thread move-ordering memory: killer slots,
// history counters, and the follow-PV flag. Grounded on the teacher's
// move_ordering.go struct shape.
type OrderingState struct {
	killers [MaxPly + 1][killerSlots]Move
	history [PieceArraySize][SquareArraySize]int32

	followPV bool
	pvMove   [MaxPly + 1]Move
}

// WeightedMove pairs a move with its ordering weight (spec.md §3).
type WeightedMove struct {
	Move   Move
	Weight int64
}

// mvvLva[victim][attacker] is an MVV-LVA ordering table. It is built
// at init but not read: ScoreMoves orders captures by SEE everywhere,
// quiescence included.
var mvvLva [PieceTypeArraySize][PieceTypeArraySize]int32

func init() {
	for v := Pawn; v <= King; v++ {
		for a := Pawn; a <= King; a++ {
			mvvLva[v][a] = pieceValue[v]*16 - pieceValue[a]
		}
	}
}

// ScoreMoves assigns an ordering weight to every move in moves at ply,
// given the TT move (if any) and whether the node is on the PV.
func (os *OrderingState) ScoreMoves(pos *Position, moves []Move, ply int, ttMove Move, isPV bool) []WeightedMove {
	out := make([]WeightedMove, len(moves))
	for i, m := range moves {
		out[i] = WeightedMove{Move: m, Weight: os.scoreMove(pos, m, ply, ttMove, isPV)}
	}
	return out
}

func (os *OrderingState) scoreMove(pos *Position, m Move, ply int, ttMove Move, isPV bool) int64 {
	if isPV && os.followPV && m == os.pvMove[ply] {
		return scorePV
	}
	if m == ttMove {
		return scoreTT
	}
	if m.IsCapture() {
		return scoreCapture + int64(pos.SEE(m))
	}
	if m.MoveType == Promotion {
		return scoreCapture + int64(pieceValue[m.Promotion])
	}
	for i, k := range os.killers[ply] {
		if k == m {
			return scoreKiller - int64(i)
		}
	}
	hist := int64(os.history[m.Piece][m.To])
	if os.givesCheck(pos, m) {
		return scoreQuietCheckBase + hist
	}
	return scoreHistory + hist
}

func (os *OrderingState) givesCheck(pos *Position, m Move) bool {
	pos.MakeMove(m)
	inCheck := pos.InCheck()
	pos.UndoMove()
	return inCheck
}

// UpdateKillers records a quiet beta-cutoff move at ply, shifting older
// killers down.
func (os *OrderingState) UpdateKillers(ply int, m Move) {
	if os.killers[ply][0] == m {
		return
	}
	for i := killerSlots - 1; i > 0; i-- {
		os.killers[ply][i] = os.killers[ply][i-1]
	}
	os.killers[ply][0] = m
}

// UpdateHistory bumps the history counter for a quiet beta-cutoff move,
// scaled by depth squared and decayed to avoid overflow.
func (os *OrderingState) UpdateHistory(m Move, depth int) {
	bonus := int32(depth * depth)
	v := &os.history[m.Piece][m.To]
	*v += bonus
	if *v > 1<<20 {
		for p := range os.history {
			for s := range os.history[p] {
				os.history[p][s] /= 2
			}
		}
	}
}

// sortMoves orders ws descending by weight (simple insertion sort: move
// lists are short, at most a few dozen entries per node).
func sortMoves(ws []WeightedMove) {
	for i := 1; i < len(ws); i++ {
		w := ws[i]
		j := i - 1
		for j >= 0 && ws[j].Weight < w.Weight {
			ws[j+1] = ws[j]
			j--
		}
		ws[j+1] = w
	}
}
