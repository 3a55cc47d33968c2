// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "math/rand"

// Precomputed per-square attack/move tables (spec.md §4.1).
var (
	knightAttack [SquareArraySize]BitBoard
	kingAttack   [SquareArraySize]BitBoard
	pawnAttack   [ColorArraySize][SquareArraySize]BitBoard
	pawnPush     [ColorArraySize][SquareArraySize]BitBoard

	rookMaskTable   [SquareArraySize]BitBoard
	bishopMaskTable [SquareArraySize]BitBoard

	rookMagic   [SquareArraySize]magicEntry
	bishopMagic [SquareArraySize]magicEntry

	between [SquareArraySize][SquareArraySize]BitBoard
	line    [SquareArraySize][SquareArraySize]BitBoard
)

type magicEntry struct {
	mask  BitBoard
	magic uint64
	shift uint
	table []BitBoard
}

var knightDeltas = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var kingDeltas = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
var rookDeltas = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func init() {
	for sq := Square(0); sq < SquareArraySize; sq++ {
		for _, d := range knightDeltas {
			if to, ok := sq.Relative(d[0], d[1]); ok {
				knightAttack[sq] |= to.Bitboard()
			}
		}
		for _, d := range kingDeltas {
			if to, ok := sq.Relative(d[0], d[1]); ok {
				kingAttack[sq] |= to.Bitboard()
			}
		}
		if to, ok := sq.Relative(1, 1); ok {
			pawnAttack[White][sq] |= to.Bitboard()
		}
		if to, ok := sq.Relative(1, -1); ok {
			pawnAttack[White][sq] |= to.Bitboard()
		}
		if to, ok := sq.Relative(-1, 1); ok {
			pawnAttack[Black][sq] |= to.Bitboard()
		}
		if to, ok := sq.Relative(-1, -1); ok {
			pawnAttack[Black][sq] |= to.Bitboard()
		}
		if to, ok := sq.Relative(1, 0); ok {
			pawnPush[White][sq] |= to.Bitboard()
		}
		if to, ok := sq.Relative(-1, 0); ok {
			pawnPush[Black][sq] |= to.Bitboard()
		}
	}

	for sq := Square(0); sq < SquareArraySize; sq++ {
		rookMaskTable[sq] = slidingMask(sq, rookDeltas[:])
		bishopMaskTable[sq] = slidingMask(sq, bishopDeltas[:])
	}

	initBetweenAndLine()
	initMagic(rookDeltas[:], rookMaskTable[:], rookMagic[:])
	initMagic(bishopDeltas[:], bishopMaskTable[:], bishopMagic[:])
}

// slidingMask returns the squares a slider attacks on an empty board,
// excluding the edge square in each ray direction (the classic magic
// bitboard relevant-occupancy mask).
func slidingMask(sq Square, deltas [][2]int) BitBoard {
	var b BitBoard
	for _, d := range deltas {
		r, f := sq.Rank(), sq.File()
		for {
			r, f = r+d[0], f+d[1]
			nr, nf := r+d[0], f+d[1]
			if nr < 0 || nr > 7 || nf < 0 || nf > 7 {
				break
			}
			if r < 0 || r > 7 || f < 0 || f > 7 {
				break
			}
			b |= RankFile(r, f).Bitboard()
		}
	}
	return b
}

// slidingAttack computes the attack set for a slider on sq given full
// board occupancy, by walking each ray until it hits an occupied square
// (inclusive of that square, exclusive beyond it).
func slidingAttack(sq Square, occ BitBoard, deltas [][2]int) BitBoard {
	var b BitBoard
	for _, d := range deltas {
		r, f := sq.Rank(), sq.File()
		for {
			r, f = r+d[0], f+d[1]
			if r < 0 || r > 7 || f < 0 || f > 7 {
				break
			}
			to := RankFile(r, f)
			b |= to.Bitboard()
			if occ.Has(to) {
				break
			}
		}
	}
	return b
}

func initBetweenAndLine() {
	allDeltas := append(append([][2]int{}, rookDeltas[:]...), bishopDeltas[:]...)
	for from := Square(0); from < SquareArraySize; from++ {
		for _, d := range allDeltas {
			r, f := from.Rank(), from.File()
			var path BitBoard
			for {
				r, f = r+d[0], f+d[1]
				if r < 0 || r > 7 || f < 0 || f > 7 {
					break
				}
				to := RankFile(r, f)
				between[from][to] = path
				line[from][to] = lineThrough(from, d)
				path |= to.Bitboard()
			}
		}
	}
}

func lineThrough(from Square, d [2]int) BitBoard {
	var b BitBoard
	r, f := from.Rank(), from.File()
	for r >= 0 && r <= 7 && f >= 0 && f <= 7 {
		b |= RankFile(r, f).Bitboard()
		r, f = r+d[0], f+d[1]
	}
	r, f = from.Rank()-d[0], from.File()-d[1]
	for r >= 0 && r <= 7 && f >= 0 && f <= 7 {
		b |= RankFile(r, f).Bitboard()
		r, f = r-d[0], f-d[1]
	}
	return b
}

// Between returns the squares strictly between a and b on a shared
// rank/file/diagonal; empty if a and b don't share one.
func Between(a, b Square) BitBoard { return between[a][b] }

// Line returns the full infinite line through a and b; empty if they
// don't share a rank/file/diagonal.
func Line(a, b Square) BitBoard { return line[a][b] }

// initMagic finds (via random trial search) a magic multiplier for each
// square that perfectly hashes every occupancy subset of its relevant
// mask into a dense attack table. Both rook and bishop tables are
// searched the same way rather than hardcoding a literal magic-number
// table.
func initMagic(deltas [][2]int, mask []BitBoard, out []magicEntry) {
	rng := rand.New(rand.NewSource(1))
	for sq := Square(0); sq < SquareArraySize; sq++ {
		m := mask[sq]
		bitsN := m.Count()
		shift := uint(64 - bitsN)

		subsets := enumerateSubsets(m)
		attacks := make([]BitBoard, len(subsets))
		for i, occ := range subsets {
			attacks[i] = slidingAttack(sq, occ, deltas)
		}

		table := make([]BitBoard, 1<<uint(bitsN))
		seen := make([]bool, len(table))

		for attempt := 0; attempt < 1_000_000; attempt++ {
			magic := sparseRand(rng)
			if BitBoard((uint64(magic)*uint64(m))>>56).Count() < 6 {
				continue
			}
			for i := range seen {
				seen[i] = false
			}
			ok := true
			for i, occ := range subsets {
				idx := (uint64(occ) * magic) >> shift
				if seen[idx] {
					if table[idx] != attacks[i] {
						ok = false
						break
					}
				} else {
					seen[idx] = true
					table[idx] = attacks[i]
				}
			}
			if ok {
				out[sq] = magicEntry{mask: m, magic: magic, shift: shift, table: append([]BitBoard(nil), table...)}
				break
			}
		}
	}
}

func sparseRand(rng *rand.Rand) uint64 {
	return rng.Uint64() & rng.Uint64() & rng.Uint64()
}

// enumerateSubsets returns every subset of mask's set bits (the
// Carry-Rippler trick).
func enumerateSubsets(mask BitBoard) []BitBoard {
	subsets := make([]BitBoard, 0, 1<<uint(mask.Count()))
	var sub BitBoard
	for {
		subsets = append(subsets, sub)
		sub = (sub - mask) & mask
		if sub == 0 {
			break
		}
	}
	return subsets
}

func (e *magicEntry) attacks(occ BitBoard) BitBoard {
	idx := (uint64(occ&e.mask) * e.magic) >> e.shift
	return e.table[idx]
}

// RookAttacks returns the squares a rook on sq attacks given occ.
func RookAttacks(sq Square, occ BitBoard) BitBoard { return rookMagic[sq].attacks(occ) }

// BishopAttacks returns the squares a bishop on sq attacks given occ.
func BishopAttacks(sq Square, occ BitBoard) BitBoard { return bishopMagic[sq].attacks(occ) }

// QueenAttacks is the union of rook and bishop attacks.
func QueenAttacks(sq Square, occ BitBoard) BitBoard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) BitBoard { return knightAttack[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) BitBoard { return kingAttack[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) BitBoard { return pawnAttack[c][sq] }

// attacksTo returns every piece of any type attacking sq given occ,
// excluding pawn pushes (pawn *attacks* only).
func attacksTo(occ BitBoard, sq Square, knights, kings, pawnsWhite, pawnsBlack, rooksQueens, bishopsQueens BitBoard) BitBoard {
	var a BitBoard
	a |= knightAttack[sq] & knights
	a |= kingAttack[sq] & kings
	a |= pawnAttack[Black][sq] & pawnsWhite
	a |= pawnAttack[White][sq] & pawnsBlack
	a |= RookAttacks(sq, occ) & rooksQueens
	a |= BishopAttacks(sq, occ) & bishopsQueens
	return a
}
