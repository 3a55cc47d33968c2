package engine

import "testing"

const testStartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func mustPosition(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN(%q): %v", fen, err)
	}
	return pos
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range []string{
		testStartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	} {
		pos := mustPosition(t, fen)
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestGenerateMovesStartingPositionCount(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	var buf [256]Move
	moves := pos.GenerateMoves(buf[:0], AllSquares)
	if len(moves) != 20 {
		t.Errorf("expected 20 legal moves at the starting position, got %d", len(moves))
	}
}

func TestMakeMoveUndoMoveRestoresPosition(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	before := pos.FEN()

	var buf [256]Move
	moves := pos.GenerateMoves(buf[:0], AllSquares)
	if len(moves) == 0 {
		t.Fatal("expected at least one legal move")
	}

	pos.MakeMove(moves[0])
	if pos.FEN() == before {
		t.Errorf("expected FEN to change after MakeMove")
	}

	pos.UndoMove()
	if got := pos.FEN(); got != before {
		t.Errorf("UndoMove did not restore position: got %q, want %q", got, before)
	}
}

func TestKingSquareTracksBothSides(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	if sq := pos.KingSquare(White); pos.Get(sq) != WhiteKing {
		t.Errorf("White king square %v does not hold a white king", sq)
	}
	if sq := pos.KingSquare(Black); pos.Get(sq) != BlackKing {
		t.Errorf("Black king square %v does not hold a black king", sq)
	}
}

func TestUCIMoveRoundTrip(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	m, err := pos.UCIMoveToMove("e2e4")
	if err != nil {
		t.Fatalf("UCIMoveToMove(e2e4): %v", err)
	}
	if got := pos.MoveToUCI(m); got != "e2e4" {
		t.Errorf("MoveToUCI round trip: got %q, want %q", got, "e2e4")
	}
}

func TestUCIMoveToMoveRejectsIllegalMove(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	if _, err := pos.UCIMoveToMove("e2e5"); err == nil {
		t.Errorf("expected an error for an illegal pawn double-push target")
	}
}

func TestInCheckFalseAtStart(t *testing.T) {
	pos := mustPosition(t, testStartFEN)
	if pos.InCheck() {
		t.Errorf("starting position should not be in check")
	}
}
