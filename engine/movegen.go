// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// GenerateMoves enumerates all legal moves for the side to move,
// restricted to destinations in toMask, by combining the position's
// pin/checker masks rather than generating pseudo-legal moves and
// filtering with a trial make/unmake (spec.md §4.3). Moves are
// appended to out and the extended slice is returned.
//
// Passing AllSquares as toMask yields every legal move; passing
// CapturesMask(pos) restricts to captures, including en passant and
// capturing promotions to every piece; non-capturing promotions are
// not included.
func (pos *Position) GenerateMoves(out []Move, toMask BitBoard) []Move {
	us := pos.SideToMove
	them := us.Other()
	king := pos.KingSquare(us)
	own := pos.OccupiedColor[us]

	if pos.Checkers.Count() >= 2 {
		return pos.generateKingMoves(out, toMask)
	}

	captureOrBlock := BitBoardFull
	if pos.Checkers != 0 {
		checkerSq := pos.Checkers.LSB()
		captureOrBlock = Between(king, checkerSq) | pos.Checkers
	}
	targetMask := toMask & captureOrBlock

	start := len(out)
	out = pos.generatePawnMoves(out, targetMask, king)
	out = pos.generatePieceMoves(out, Knight, targetMask, king, own, them)
	out = pos.generatePieceMoves(out, Bishop, targetMask, king, own, them)
	out = pos.generatePieceMoves(out, Rook, targetMask, king, own, them)
	out = pos.generatePieceMoves(out, Queen, targetMask, king, own, them)
	out = pos.generateKingMoves(out, toMask)
	if toMask != AllSquares {
		// Castling and en passant are generated without consulting
		// toMask; drop any that land outside it.
		kept := out[:start]
		for _, m := range out[start:] {
			if toMask.Has(m.To) {
				kept = append(kept, m)
			}
		}
		out = kept
	}
	return out
}

// AllSquares is the identity destination mask (every move allowed).
const AllSquares = BitBoardFull

// CapturesMask returns the destination mask that restricts generation
// to captures (plus the en-passant square, since it is a capture).
func CapturesMask(pos *Position) BitBoard {
	m := pos.OccupiedColor[pos.SideToMove.Other()]
	if pos.EpSquare != SquareNone {
		m |= pos.EpSquare.Bitboard()
	}
	return m
}

func (pos *Position) pinRestriction(sq, king Square) BitBoard {
	if pos.Pinned.Has(sq) {
		return Line(king, sq)
	}
	return BitBoardFull
}

func (pos *Position) generatePieceMoves(out []Move, pt PieceType, targetMask BitBoard, king Square, own BitBoard, them Color) []Move {
	us := pos.SideToMove
	pieces := pos.PieceMasks[pt] & own
	for pieces != 0 {
		from := pieces.Pop()
		var attacks BitBoard
		switch pt {
		case Knight:
			attacks = KnightAttacks(from)
		case Bishop:
			attacks = BishopAttacks(from, pos.Occupied)
		case Rook:
			attacks = RookAttacks(from, pos.Occupied)
		case Queen:
			attacks = QueenAttacks(from, pos.Occupied)
		}
		attacks &^= own
		attacks &= targetMask
		attacks &= pos.pinRestriction(from, king)

		piece := ColorPiece(pt, us)
		for attacks != 0 {
			to := attacks.Pop()
			out = append(out, Move{From: from, To: to, Piece: piece, Capture: pos.Get(to)})
		}
	}
	return out
}

func (pos *Position) generateKingMoves(out []Move, toMask BitBoard) []Move {
	us := pos.SideToMove
	them := us.Other()
	king := pos.KingSquare(us)
	own := pos.OccupiedColor[us]
	piece := ColorPiece(King, us)

	attacks := KingAttacks(king) &^ own & toMask
	occWithoutKing := pos.Occupied &^ king.Bitboard()
	for attacks != 0 {
		to := attacks.Pop()
		if pos.attackedByWithOcc(to, them, occWithoutKing) {
			continue
		}
		out = append(out, Move{From: king, To: to, Piece: piece, Capture: pos.Get(to)})
	}

	if pos.Checkers != 0 {
		return out
	}
	out = pos.generateCastling(out, us, king, them)
	return out
}

// attackedByWithOcc checks attacks using an explicit occupancy so the
// moving king itself doesn't block its own ray-check test.
func (pos *Position) attackedByWithOcc(sq Square, by Color, occ BitBoard) bool {
	knights := pos.PieceMasks[Knight] & pos.OccupiedColor[by]
	kings := pos.PieceMasks[King] & pos.OccupiedColor[by]
	pawns := pos.PieceMasks[Pawn] & pos.OccupiedColor[by]
	rooksQueens := (pos.PieceMasks[Rook] | pos.PieceMasks[Queen]) & pos.OccupiedColor[by]
	bishopsQueens := (pos.PieceMasks[Bishop] | pos.PieceMasks[Queen]) & pos.OccupiedColor[by]
	var pw, pb BitBoard
	if by == White {
		pw = pawns
	} else {
		pb = pawns
	}
	return attacksTo(occ, sq, knights, kings, pw, pb, rooksQueens, bishopsQueens) != 0
}

func (pos *Position) generateCastling(out []Move, us Color, king Square, them Color) []Move {
	var oo, ooo CastleRights
	var kingTo, path1, path2 Square
	if us == White {
		oo, ooo = WhiteOO, WhiteOOO
	} else {
		oo, ooo = BlackOO, BlackOOO
	}

	piece := ColorPiece(King, us)

	if pos.Castle.Has(oo) {
		if us == White {
			kingTo, path1, path2 = SquareG1, SquareF1, SquareG1
		} else {
			kingTo, path1, path2 = SquareG8, SquareF8, SquareG8
		}
		if pos.Occupied&(path1.Bitboard()|path2.Bitboard()) == 0 &&
			!pos.attackedByWithOcc(king, them, pos.Occupied) &&
			!pos.attackedByWithOcc(path1, them, pos.Occupied) &&
			!pos.attackedByWithOcc(path2, them, pos.Occupied) {
			out = append(out, Move{From: king, To: kingTo, Piece: piece, MoveType: Castling})
		}
	}
	if pos.Castle.Has(ooo) {
		var clearB Square
		if us == White {
			kingTo, path1, path2, clearB = SquareC1, SquareD1, SquareC1, SquareB1
		} else {
			kingTo, path1, path2, clearB = SquareC8, SquareD8, SquareC8, SquareB8
		}
		if pos.Occupied&(path1.Bitboard()|path2.Bitboard()|clearB.Bitboard()) == 0 &&
			!pos.attackedByWithOcc(king, them, pos.Occupied) &&
			!pos.attackedByWithOcc(path1, them, pos.Occupied) &&
			!pos.attackedByWithOcc(path2, them, pos.Occupied) {
			out = append(out, Move{From: king, To: kingTo, Piece: piece, MoveType: Castling})
		}
	}
	return out
}

const SquareB8 = SquareB1 + 56

func (pos *Position) generatePawnMoves(out []Move, targetMask BitBoard, king Square) []Move {
	us := pos.SideToMove
	them := us.Other()
	pawns := pos.PieceMasks[Pawn] & pos.OccupiedColor[us]
	piece := ColorPiece(Pawn, us)
	empty := ^pos.Occupied
	enemy := pos.OccupiedColor[them]

	for p := pawns; p != 0; {
		from := p.Pop()
		pin := pos.pinRestriction(from, king)
		promoRank := 7
		if us == Black {
			promoRank = 0
		}

		// Single and double push.
		if to, ok := from.Relative(pawnDir(us), 0); ok && empty.Has(to) {
			out = pos.addPawnMove(out, from, to, piece, NoPiece, targetMask, pin, to.Rank() == promoRank)
			if (us == White && from.Rank() == 1) || (us == Black && from.Rank() == 6) {
				if to2, ok2 := to.Relative(pawnDir(us), 0); ok2 && empty.Has(to2) {
					out = pos.addPawnMove(out, from, to2, piece, NoPiece, targetMask, pin, false)
				}
			}
		}
		// Captures.
		for _, df := range [2]int{1, -1} {
			to, ok := from.Relative(pawnDir(us), df)
			if !ok {
				continue
			}
			if enemy.Has(to) {
				out = pos.addPawnMove(out, from, to, piece, pos.Get(to), targetMask, pin, to.Rank() == promoRank)
			} else if to == pos.EpSquare {
				out = pos.addEnPassant(out, from, to, piece, king)
			}
		}
	}
	return out
}

func (pos *Position) addPawnMove(out []Move, from, to Square, piece, capture Piece, targetMask, pin BitBoard, promote bool) []Move {
	if !targetMask.Has(to) || !pin.Has(to) {
		return out
	}
	if promote {
		for _, pt := range promoOrder {
			out = append(out, Move{From: from, To: to, Piece: piece, Capture: capture, MoveType: Promotion, Promotion: pt})
		}
		return out
	}
	return append(out, Move{From: from, To: to, Piece: piece, Capture: capture})
}

// addEnPassant handles the classic en-passant discovered-check bug
// (spec.md §4.3): removing both the moving pawn and the captured pawn
// from the occupancy can expose the king to a horizontal slider that
// neither pin detection (which only tracks single blockers) nor the
// checker mask would otherwise catch.
func (pos *Position) addEnPassant(out []Move, from, to Square, piece Piece, king Square) []Move {
	us := pos.SideToMove
	them := us.Other()
	capSq, _ := to.Relative(-pawnDir(us), 0)
	capture := pos.Get(capSq)

	if pos.Checkers != 0 {
		checkerSq := pos.Checkers.LSB()
		if checkerSq != capSq && !Between(king, checkerSq).Has(to) {
			return out
		}
	}
	if pos.Pinned.Has(from) && !Line(king, from).Has(to) {
		return out
	}

	occ := pos.Occupied &^ from.Bitboard() &^ capSq.Bitboard() | to.Bitboard()
	rooksQueens := (pos.PieceMasks[Rook] | pos.PieceMasks[Queen]) & pos.OccupiedColor[them]
	if RookAttacks(king, occ)&rooksQueens&rankMask[king.Rank()] != 0 {
		return out
	}
	return append(out, Move{From: from, To: to, Piece: piece, Capture: capture, MoveType: Enpassant})
}
