package nnue

import (
	"testing"

	"github.com/kvchess/timecat/engine"
)

func newEvaluatorForFEN(t *testing.T, fen string) (*Evaluator, *engine.Position) {
	t.Helper()
	net := NewRandomNetwork(5)
	pos := mustPos(t, fen)
	acc := NewAccumulatorStack(net, pos)
	return NewEvaluator(net, acc), pos
}

func TestEvaluateKnightsOnlyDrawIsZero(t *testing.T) {
	eval, pos := newEvaluatorForFEN(t, "4k3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if got := eval.Evaluate(pos); got != 0 {
		t.Errorf("expected a lone-knight ending to evaluate to 0, got %d", got)
	}
}

func TestEvaluateThreeKnightsIsNotForcedDraw(t *testing.T) {
	eval, pos := newEvaluatorForFEN(t, "4k3/8/8/8/3N4/8/4N3/3NK3 w - - 0 1")
	if eval.Evaluate(pos) == 0 {
		t.Errorf("expected three knights to bypass the knights-only draw rule")
	}
}

func TestEvaluateCachesRepeatedPosition(t *testing.T) {
	eval, pos := newEvaluatorForFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	first := eval.Evaluate(pos)
	second := eval.Evaluate(pos)
	if first != second {
		t.Errorf("expected a cached re-evaluation to be stable: got %d then %d", first, second)
	}
}

func TestEasilyWinningOverrideFavorsStrongerSide(t *testing.T) {
	pos := mustPos(t, "7k/8/8/8/8/8/8/K6Q w - - 0 1")
	score, ok := easilyWinningOverride(pos)
	if !ok {
		t.Fatalf("expected the override to trigger with a queen up against a bare king")
	}
	if score <= 0 {
		t.Errorf("expected a positive score for White to move with a winning material edge, got %d", score)
	}
}

func TestEasilyWinningOverrideDoesNotTriggerOnSmallEdge(t *testing.T) {
	pos := mustPos(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if _, ok := easilyWinningOverride(pos); ok {
		t.Errorf("expected no override for a materially balanced position")
	}
}

func TestNearestRelevantCornerKNBEndingMatchesBishopColor(t *testing.T) {
	pos := mustPos(t, "7k/8/8/8/8/8/3B4/2N1K3 w - - 0 1")
	weakKing, err := engine.SquareFromString("h8")
	if err != nil {
		t.Fatalf("SquareFromString(h8): %v", err)
	}
	corner := nearestRelevantCorner(pos, engine.White, weakKing)
	if corner != engine.SquareA8 && corner != engine.SquareH1 {
		t.Errorf("expected the KNB mating corner to be a1/h1-complex corner a8 or h1, got %v", corner)
	}
}

func TestAmplifyLeavesSmallScoresUnchanged(t *testing.T) {
	pos := mustPos(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if got := amplify(pos, 500); got != 500 {
		t.Errorf("expected scores under the amplification threshold to pass through unchanged, got %d", got)
	}
}

func TestAmplifyGrowsLargeScoreAgainstBareKing(t *testing.T) {
	pos := mustPos(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	const big = 20 * pawnValue
	if got := amplify(pos, big); got <= big {
		t.Errorf("expected amplification to increase a score of %d against a bare king, got %d", big, got)
	}
}
