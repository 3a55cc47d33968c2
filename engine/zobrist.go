// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "math/rand"

// Zobrist key tables. The pawn hash and non-pawn hash are maintained
// separately (spec.md §4.1) so a pawn-structure cache can key off
// pawnHash alone: pawn keys are toggled only in the pawn hash and all
// other piece keys only in the non-pawn hash, so a quiet pawn move
// leaves the non-pawn hash unchanged.
var (
	zobristPiece    [PieceArraySize][SquareArraySize]uint64
	zobristCastle   [16]uint64
	zobristEpFile   [8]uint64
	zobristSide     uint64
)

func init() {
	rng := rand.New(rand.NewSource(0xC0FFEE))
	for p := Piece(1); p < Piece(PieceArraySize); p++ {
		for sq := Square(0); sq < SquareArraySize; sq++ {
			zobristPiece[p][sq] = rng.Uint64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rng.Uint64()
	}
	for i := range zobristEpFile {
		zobristEpFile[i] = rng.Uint64()
	}
	zobristSide = rng.Uint64()
}

// isPawnHashPiece reports whether p belongs on the pawn hash instead of
// the non-pawn hash.
func isPawnHashPiece(p Piece) bool { return p.PieceType() == Pawn }

// zobristKeyFor returns the XOR key toggled when p moves to/from sq,
// split by which hash it belongs to.
func zobristKeyFor(p Piece, sq Square) uint64 { return zobristPiece[p][sq] }
