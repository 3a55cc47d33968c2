// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// AccumulatorUpdater is implemented by the NNUE accumulator stack so
// Board can drive incremental feature updates without engine importing
// the nnue package (spec.md §4.8). A nil Accumulator on Board is valid
// and simply skips incremental maintenance (e.g. for perft).
type AccumulatorUpdater interface {
	Push()
	Pop()
	Activate(c Color, pt PieceType, sq Square)
	Deactivate(c Color, pt PieceType, sq Square)
	RefreshSide(side Color, pos *Position)
}

// GameState classifies how a game has ended, if at all.
type GameState int

const (
	Ongoing GameState = iota
	Checkmate
	Stalemate
	DrawRepetition
	DrawFiftyMove
	DrawInsufficientMaterial
)

// Board owns a Position plus the history needed to detect repetition
// and to drive incremental NNUE updates (spec.md §4.4).
type Board struct {
	Pos *Position
	Acc AccumulatorUpdater

	moves []Move
	reps  map[uint64]int
}

// NewBoard wraps pos (which becomes owned by the Board) in a fresh
// history.
func NewBoard(pos *Position) *Board {
	b := &Board{Pos: pos, reps: make(map[uint64]int)}
	b.reps[pos.Hash()]++
	return b
}

// Push applies m, recording repetition and driving the accumulator.
func (b *Board) Push(m Move) {
	us := b.Pos.SideToMove
	moving := m.Piece
	capture := m.Capture
	var epCapSq Square
	if m.MoveType == Enpassant {
		epCapSq, _ = m.To.Relative(-pawnDir(us), 0)
	}

	if b.Acc != nil {
		b.Acc.Push()
		b.Acc.Deactivate(us, moving.PieceType(), m.From)
		if capture != NoPiece {
			capSq := m.To
			if m.MoveType == Enpassant {
				capSq = epCapSq
			}
			b.Acc.Deactivate(capture.Color(), capture.PieceType(), capSq)
		}
		if m.MoveType == Promotion {
			b.Acc.Activate(us, m.Promotion, m.To)
		} else {
			b.Acc.Activate(us, moving.PieceType(), m.To)
		}
		if m.MoveType == Castling {
			rookFrom, rookTo := castleRookSquares(us, m.To)
			b.Acc.Deactivate(us, Rook, rookFrom)
			b.Acc.Activate(us, Rook, rookTo)
		}
	}

	b.Pos.MakeMove(m)
	if b.Acc != nil && moving.PieceType() == King {
		b.Acc.RefreshSide(us, b.Pos)
	}
	b.moves = append(b.moves, m)
	b.reps[b.Pos.Hash()]++
}

// Pop reverses the most recent Push.
func (b *Board) Pop() {
	n := len(b.moves) - 1
	b.reps[b.Pos.Hash()]--
	if b.reps[b.Pos.Hash()] == 0 {
		delete(b.reps, b.Pos.Hash())
	}
	b.Pos.UndoMove()
	b.moves = b.moves[:n]
	if b.Acc != nil {
		b.Acc.Pop()
	}
}

// Repetitions returns how many times the current position has occurred
// (counting the current occurrence).
func (b *Board) Repetitions() int { return b.reps[b.Pos.Hash()] }

// IsThreefoldRepetition reports whether the current position has
// occurred three or more times.
func (b *Board) IsThreefoldRepetition() bool { return b.Repetitions() >= 3 }

// IsFiftyMoveRule reports whether the halfmove clock has reached 100.
func (b *Board) IsFiftyMoveRule() bool { return b.Pos.HalfmoveClock >= 100 }

// IsInsufficientMaterial covers: lone kings; K vs K+minor; K+Bs vs
// K+Bs where every bishop shares one color complex (spec.md §4.4).
func (b *Board) IsInsufficientMaterial() bool {
	pos := b.Pos
	if pos.PieceMasks[Pawn] != 0 || pos.PieceMasks[Rook] != 0 || pos.PieceMasks[Queen] != 0 {
		return false
	}
	knights := pos.PieceMasks[Knight].Count()
	bishops := pos.PieceMasks[Bishop]
	nBishops := bishops.Count()

	if knights+nBishops == 0 {
		return true // K vs K
	}
	if knights+nBishops == 1 {
		return true // K+minor vs K
	}
	if knights == 0 && nBishops >= 2 {
		// All remaining bishops must share one square color.
		const darkSquares = BitBoard(0xAA55AA55AA55AA55)
		onDark := bishops & darkSquares
		return onDark == bishops || onDark == 0
	}
	return false
}

// GameState classifies the current position's termination status.
// Draws by repetition/fifty-move/material are reported here but left
// to the searcher to act on (spec.md §4.4: it may prefer to avoid a
// draw while winning).
func (b *Board) GameState() GameState {
	var buf [256]Move
	legal := b.Pos.GenerateMoves(buf[:0], AllSquares)
	if len(legal) == 0 {
		if b.Pos.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if b.IsThreefoldRepetition() {
		return DrawRepetition
	}
	if b.IsFiftyMoveRule() {
		return DrawFiftyMove
	}
	if b.IsInsufficientMaterial() {
		return DrawInsufficientMaterial
	}
	return Ongoing
}
