package nnue

import (
	"testing"

	"github.com/kvchess/timecat/engine"
)

func mustPos(t *testing.T, fen string) *engine.Position {
	t.Helper()
	pos, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		t.Fatalf("NewPositionFromFEN(%q): %v", fen, err)
	}
	return pos
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestAccumulatorPushPopRestoresEvaluation(t *testing.T) {
	net := NewRandomNetwork(7)
	pos := mustPos(t, startFEN)
	acc := NewAccumulatorStack(net, pos)

	before := acc.Evaluate(engine.White)

	e2, err := engine.SquareFromString("e2")
	if err != nil {
		t.Fatalf("SquareFromString(e2): %v", err)
	}
	e4, err := engine.SquareFromString("e4")
	if err != nil {
		t.Fatalf("SquareFromString(e4): %v", err)
	}

	acc.Push()
	acc.Deactivate(engine.White, engine.Pawn, e2)
	acc.Activate(engine.White, engine.Pawn, e4)
	afterMove := acc.Evaluate(engine.White)

	acc.Pop()
	after := acc.Evaluate(engine.White)

	if after != before {
		t.Errorf("expected Pop to restore the pre-move evaluation: got %d, want %d", after, before)
	}
	if afterMove == before {
		t.Errorf("expected moving a pawn to change the evaluation")
	}
}

func TestRefreshSideMatchesIncrementalUpdate(t *testing.T) {
	net := NewRandomNetwork(11)

	posAfter := mustPos(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	refreshed := NewAccumulatorStack(net, posAfter)

	posBefore := mustPos(t, startFEN)
	e2, err := engine.SquareFromString("e2")
	if err != nil {
		t.Fatalf("SquareFromString(e2): %v", err)
	}
	e4, err := engine.SquareFromString("e4")
	if err != nil {
		t.Fatalf("SquareFromString(e4): %v", err)
	}

	incremental := NewAccumulatorStack(net, posBefore)
	incremental.Push()
	incremental.Deactivate(engine.White, engine.Pawn, e2)
	incremental.Activate(engine.White, engine.Pawn, e4)

	if got, want := incremental.Evaluate(engine.White), refreshed.Evaluate(engine.White); got != want {
		t.Errorf("incremental update diverged from a full refresh: got %d, want %d", got, want)
	}
}

func TestEvaluateIsSideRelative(t *testing.T) {
	net := NewRandomNetwork(99)
	pos := mustPos(t, "4k3/8/8/8/8/8/4R3/4K3 w - - 0 1")
	acc := NewAccumulatorStack(net, pos)

	white := acc.Evaluate(engine.White)
	black := acc.Evaluate(engine.Black)
	if white == black {
		t.Errorf("expected the two side-relative evaluations to differ for an asymmetric position")
	}
}
