// Package bench runs the searcher over a fixed set of positions to a
// fixed depth and reports nodes/sec, used to catch non-functional
// regressions in search speed. Grounded on the teacher's
// internal/bench/bench.go, retargeted from playing out full games
// against engine.Engine globals to running engine.Searcher directly
// over a handful of fixed positions (one per game phase) with an
// nnue.Evaluator.
package bench

import (
	"context"
	"time"

	"github.com/kvchess/timecat/engine"
	"github.com/kvchess/timecat/nnue"
)

// Position is one fixed benchmark position.
type Position struct {
	Description string
	FEN         string
}

// Positions covers opening, middlegame and endgame phases, per the
// teacher's practice of benchmarking across whole games rather than a
// single position.
var Positions = []Position{
	{"startpos", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
	{"kiwipete (complex middlegame)", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
	{"open Sicilian middlegame", "r1bq1rk1/pp2bppp/2n1pn2/2pp4/3P4/2N1PN2/PPQ1BPPP/R1B2RK1 w - - 0 9"},
	{"rook endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
}

// Result is one position's outcome.
type Result struct {
	Position Position
	Nodes    int64
	Elapsed  time.Duration
}

// NPS returns nodes per second for r.
func (r Result) NPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}

// Run searches every position in Positions to depth, each with its own
// fresh Board/Searcher/transposition table so one run's hash traffic
// doesn't bias the next position's counts.
func Run(ctx context.Context, depth int, hashMB int) ([]Result, error) {
	net := nnue.NewRandomNetwork(0xC0FFEE)

	var results []Result
	for _, p := range Positions {
		pos, err := engine.NewPositionFromFEN(p.FEN)
		if err != nil {
			return nil, err
		}
		acc := nnue.NewAccumulatorStack(net, pos)
		eval := nnue.NewEvaluator(net, acc)
		board := engine.NewBoard(pos)
		board.Acc = acc

		tt := engine.NewHashTable(hashMB)
		searcher := engine.NewSearcher(board, tt, eval)

		tc := engine.NewTimeControl(engine.TimedGoCommand{Depth: depth}, pos.SideToMove, 0)
		start := time.Now()
		_, _ = searcher.Go(ctx, tc)
		elapsed := time.Since(start)

		results = append(results, Result{Position: p, Nodes: searcher.Nodes(), Elapsed: elapsed})
	}
	return results, nil
}

// TotalNPS aggregates across results, matching the teacher's evalAll
// reporting a single combined nodes/sec figure.
func TotalNPS(results []Result) (nodes int64, nps float64) {
	var elapsed time.Duration
	for _, r := range results {
		nodes += r.Nodes
		elapsed += r.Elapsed
	}
	if elapsed > 0 {
		nps = float64(nodes) / elapsed.Seconds()
	}
	return nodes, nps
}
