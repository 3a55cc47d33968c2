// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// seeValue is the material value used by SEE, indexed like pieceValue
// but with King given an effectively infinite value so a king capture
// always terminates the swap in the king's favor.
var seeValue = [PieceTypeArraySize]int32{
	NoPieceType: 0, Pawn: 100, Knight: 320, Bishop: 330, Rook: 500, Queen: 900, King: 20000,
}

// SEE evaluates the static exchange on m.To: the net material gained by
// repeatedly recapturing with the least-valuable attacker on each side,
// per spec.md §4.6/§8 property 4.
func (pos *Position) SEE(m Move) int32 {
	if m.MoveType == Castling {
		return 0
	}

	to := m.To
	occ := pos.Occupied
	fromBB := m.From.Bitboard()
	occ &^= fromBB

	var gain [32]int32
	depth := 0

	captured := m.Capture
	gain[0] = seeValue[captured.PieceType()]
	attacker := m.Piece

	side := pos.SideToMove.Other()
	for {
		depth++
		gain[depth] = seeValue[attacker.PieceType()] - gain[depth-1]

		attackers := pos.attackersToWithOcc(to, occ)
		ours := attackers & pos.OccupiedColor[side]
		if ours == 0 {
			break
		}
		from, pt := leastValuableAttacker(pos, ours)
		occ &^= from.Bitboard()
		attacker = ColorPiece(pt, side)
		side = side.Other()

		if pt == King {
			// Capturing with the king when the opponent still has an
			// attacker would be illegal; stop the swap here.
			remaining := pos.attackersToWithOcc(to, occ) & pos.OccupiedColor[side]
			if remaining != 0 {
				break
			}
		}
	}

	// gain[depth] is the speculative gain of a capture nobody can make;
	// fold the rest back so each side may decline to recapture.
	for depth--; depth > 0; depth-- {
		gain[depth-1] = -max32(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// attackersToWithOcc returns all pieces (either color) attacking sq
// given an explicit occupancy, used by SEE as pieces are peeled off.
func (pos *Position) attackersToWithOcc(sq Square, occ BitBoard) BitBoard {
	var a BitBoard
	a |= knightAttack[sq] & pos.PieceMasks[Knight]
	a |= kingAttack[sq] & pos.PieceMasks[King]
	a |= pawnAttack[Black][sq] & pos.PieceMasks[Pawn] & pos.OccupiedColor[White]
	a |= pawnAttack[White][sq] & pos.PieceMasks[Pawn] & pos.OccupiedColor[Black]
	a |= RookAttacks(sq, occ) & (pos.PieceMasks[Rook] | pos.PieceMasks[Queen])
	a |= BishopAttacks(sq, occ) & (pos.PieceMasks[Bishop] | pos.PieceMasks[Queen])
	return a & occ
}

func leastValuableAttacker(pos *Position, attackers BitBoard) (Square, PieceType) {
	for _, pt := range [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King} {
		candidates := attackers & pos.PieceMasks[pt]
		if candidates != 0 {
			return candidates.LSB(), pt
		}
	}
	return attackers.LSB(), pos.Get(attackers.LSB()).PieceType()
}
