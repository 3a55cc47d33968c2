package engine

import "testing"

func sq(t *testing.T, s string) Square {
	t.Helper()
	q, err := SquareFromString(s)
	if err != nil {
		t.Fatalf("SquareFromString(%q): %v", s, err)
	}
	return q
}

func TestRookAttacksOpenFile(t *testing.T) {
	attacks := RookAttacks(sq(t, "a1"), BitBoard(0))
	if attacks&sq(t, "a8").Bitboard() == 0 {
		t.Errorf("expected a rook on an empty board to attack a8 along the a-file")
	}
	if attacks&sq(t, "h1").Bitboard() == 0 {
		t.Errorf("expected a rook on an empty board to attack h1 along the first rank")
	}
}

func TestRookAttacksBlockedBySingleOccupant(t *testing.T) {
	occ := sq(t, "a4").Bitboard()
	attacks := RookAttacks(sq(t, "a1"), occ)
	if attacks&sq(t, "a4").Bitboard() == 0 {
		t.Errorf("expected the rook to attack (capture) the blocker itself")
	}
	if attacks&sq(t, "a5").Bitboard() != 0 {
		t.Errorf("expected the rook's attack to stop at the blocker")
	}
}

func TestBishopAttacksDiagonal(t *testing.T) {
	attacks := BishopAttacks(sq(t, "c1"), BitBoard(0))
	if attacks&sq(t, "h6").Bitboard() == 0 {
		t.Errorf("expected a bishop on c1 to see h6 on an empty board")
	}
	if attacks&sq(t, "a1").Bitboard() != 0 {
		t.Errorf("expected a bishop on c1 to not attack a1 (not on a diagonal)")
	}
}

func TestKnightAttacksLShape(t *testing.T) {
	attacks := KnightAttacks(sq(t, "b1"))
	want := []string{"a3", "c3", "d2"}
	for _, w := range want {
		if attacks&sq(t, w).Bitboard() == 0 {
			t.Errorf("expected a knight on b1 to attack %s", w)
		}
	}
}

func TestBetweenExcludesEndpoints(t *testing.T) {
	b := Between(sq(t, "a1"), sq(t, "a4"))
	if b&sq(t, "a1").Bitboard() != 0 || b&sq(t, "a4").Bitboard() != 0 {
		t.Errorf("expected Between to exclude both endpoints")
	}
	if b&sq(t, "a2").Bitboard() == 0 || b&sq(t, "a3").Bitboard() == 0 {
		t.Errorf("expected Between(a1, a4) to include a2 and a3")
	}
}

func TestIsAttackedDetectsStartingPositionPawnCover(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	if !pos.IsAttacked(sq(t, "d3"), White) {
		t.Errorf("expected d3 to be covered by White's c2/e2 pawns at the starting position")
	}
	if pos.IsAttacked(sq(t, "d5"), White) {
		t.Errorf("expected d5 to be uncovered by White at the starting position")
	}
}
