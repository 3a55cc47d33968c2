package engine

import (
	"context"
	"testing"
	"time"
)

// materialEvaluator is a minimal Evaluator stub for search tests: just
// enough for the searcher to tell a winning line from a losing one,
// without depending on the nnue package (which imports engine, so an
// in-package test can't import it back without a cycle).
type materialEvaluator struct{}

func (materialEvaluator) Evaluate(pos *Position) int32 {
	us, them := pos.SideToMove, pos.SideToMove.Other()
	return pos.MaterialScores[us] - pos.MaterialScores[them]
}

func newTestSearcher(t *testing.T, fen string) *Searcher {
	t.Helper()
	pos := mustPosition(t, fen)
	board := NewBoard(pos)
	tt := NewHashTable(1)
	return NewSearcher(board, tt, materialEvaluator{})
}

func TestSearcherFindsMateInOne(t *testing.T) {
	// White to move, Qh5-f7# not required; use a simple back-rank mate:
	// Black king boxed in on h8, White rook ready to deliver mate on h-file.
	s := newTestSearcher(t, "7k/5K2/8/8/8/8/8/6R1 w - - 0 1")
	tc := NewTimeControl(TimedGoCommand{Depth: 3}, White, 0)

	best, _ := s.Go(context.Background(), tc)
	if best.IsNull() {
		t.Fatalf("expected a best move, got the null move")
	}

	s.Board.Push(best)
	if s.Board.GameState() != Checkmate {
		t.Errorf("expected the searcher's best move to deliver mate, got state %v after %v", s.Board.GameState(), best)
	}
}

func TestSearcherRespectsFixedDepth(t *testing.T) {
	s := newTestSearcher(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	tc := NewTimeControl(TimedGoCommand{Depth: 2}, White, 0)

	maxDepth := 0
	s.OnInfo = func(info SearchInfo) {
		if info.Depth > maxDepth {
			maxDepth = info.Depth
		}
	}

	best, _ := s.Go(context.Background(), tc)
	if best.IsNull() {
		t.Fatalf("expected a best move from the starting position")
	}
	if maxDepth != 2 {
		t.Errorf("expected the search to stop at depth 2, got %d", maxDepth)
	}
}

func TestSearcherStopSignalHaltsSearch(t *testing.T) {
	s := newTestSearcher(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	tc := NewTimeControl(TimedGoCommand{Infinite: true}, White, 0)

	done := make(chan struct{})
	go func() {
		s.Go(context.Background(), tc)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected Stop to halt an infinite search")
	}
}

func TestSearcherPVNonEmptyAfterSearch(t *testing.T) {
	s := newTestSearcher(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	tc := NewTimeControl(TimedGoCommand{Depth: 2}, White, 0)
	s.Go(context.Background(), tc)

	if len(s.PV()) == 0 {
		t.Errorf("expected a non-empty principal variation after a completed search")
	}
}

func TestSearcherNodesIncreasesWithDepth(t *testing.T) {
	shallow := newTestSearcher(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	shallow.Go(context.Background(), NewTimeControl(TimedGoCommand{Depth: 1}, White, 0))

	deep := newTestSearcher(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	deep.Go(context.Background(), NewTimeControl(TimedGoCommand{Depth: 4}, White, 0))

	if deep.Nodes() <= shallow.Nodes() {
		t.Errorf("expected a deeper fixed-depth search to visit more nodes: depth1=%d depth4=%d", shallow.Nodes(), deep.Nodes())
	}
}
