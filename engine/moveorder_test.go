package engine

import "testing"

func TestScoreMoveCaptureOutranksQuiet(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/3r4/4P3/8/8/4K3 w - - 0 1")
	var os OrderingState

	capture, err := pos.UCIMoveToMove("e4d5")
	if err != nil {
		t.Fatalf("UCIMoveToMove(e4d5): %v", err)
	}
	quiet, err := pos.UCIMoveToMove("e1d1")
	if err != nil {
		t.Fatalf("UCIMoveToMove(e1d1): %v", err)
	}

	capScore := os.scoreMove(pos, capture, 0, NullMove, false)
	quietScore := os.scoreMove(pos, quiet, 0, NullMove, false)
	if capScore <= quietScore {
		t.Errorf("expected a capture to outrank a quiet move: capture=%d quiet=%d", capScore, quietScore)
	}
}

func TestScoreMoveTTMoveOutranksCapture(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/3r4/4P3/8/8/4K3 w - - 0 1")
	var os OrderingState

	capture, err := pos.UCIMoveToMove("e4d5")
	if err != nil {
		t.Fatalf("UCIMoveToMove(e4d5): %v", err)
	}
	if got := os.scoreMove(pos, capture, 0, capture, false); got != scoreTT {
		t.Errorf("expected the TT move to score scoreTT (%d), got %d", scoreTT, got)
	}
}

func TestUpdateKillersShiftsOlderEntries(t *testing.T) {
	var os OrderingState
	a, b := Move{From: SquareA1, To: RankFile(1, 0)}, Move{From: SquareB1, To: RankFile(1, 1)}

	os.UpdateKillers(0, a)
	os.UpdateKillers(0, b)
	if os.killers[0][0] != b {
		t.Errorf("expected the most recent killer in slot 0, got %v", os.killers[0][0])
	}
	if os.killers[0][1] != a {
		t.Errorf("expected the prior killer shifted to slot 1, got %v", os.killers[0][1])
	}
}

func TestUpdateKillersIgnoresDuplicateOfTopSlot(t *testing.T) {
	var os OrderingState
	a := Move{From: SquareA1, To: RankFile(1, 0)}
	os.UpdateKillers(0, a)
	os.UpdateKillers(0, a)
	if os.killers[0][1] == a {
		t.Errorf("expected a duplicate of the top killer to not shift into slot 1")
	}
}

func TestUpdateHistoryAccumulatesByDepthSquared(t *testing.T) {
	var os OrderingState
	m := Move{From: SquareA1, To: RankFile(1, 0), Piece: WhiteKnight}
	os.UpdateHistory(m, 3)
	if got := os.history[m.Piece][m.To]; got != 9 {
		t.Errorf("expected history bonus depth^2 == 9, got %d", got)
	}
}

func TestSortMovesOrdersDescending(t *testing.T) {
	ws := []WeightedMove{{Weight: 1}, {Weight: 5}, {Weight: 3}}
	sortMoves(ws)
	for i := 1; i < len(ws); i++ {
		if ws[i].Weight > ws[i-1].Weight {
			t.Fatalf("expected descending order, got %v", ws)
		}
	}
}
