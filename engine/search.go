// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Search-wide score constants (spec.md §4.7/§8).
const (
	MaxPly        = 128
	InfinityScore = 32000
	MateScore     = 31000
	DrawScore     = 0
)

// Evaluator scores a position from the side-to-move's perspective in
// centipawns. Implemented by the nnue package; engine stays free of
// any evaluator dependency so the hot path never pays for an import it
// doesn't need (spec.md §4.8 kept as an external collaborator seam).
type Evaluator interface {
	Evaluate(pos *Position) int32
}

// Logger is the engine's only diagnostic seam, mirrored from the
// teacher's own Logger interface so the search hot path never formats
// a string it doesn't have to.
type Logger interface {
	Infof(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}

// SearchInfo is emitted periodically during iterative deepening for
// UCI "info" rendering.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int
	Mate     bool
	Nodes    int64
	PV       []Move
}

// InfoHandler receives periodic SearchInfo reports; may be nil.
type InfoHandler func(SearchInfo)

// Searcher drives iterative-deepening PVS over a Board, sharing a
// transposition table and evaluator cache across threads (spec.md §5).
// Grounded on the teacher's engine.go, generalized for Lazy-SMP helper
// fan-out via errgroup and NNUE evaluation.
type Searcher struct {
	Board     *Board
	TT        *HashTable
	Eval      Evaluator
	Threads   int
	Logger    Logger
	OnInfo    InfoHandler

	stopping int32 // atomic bool
	nodes    int64
	selDepth int

	order OrderingState
	pv    pvTable

	tc *TimeControl

	// NewHelperBoard builds an independent Board (with its own
	// evaluator accumulator state) for a Lazy-SMP helper thread, given
	// the root FEN. The zero value falls back to a plain Board with no
	// accumulator, suitable when Eval doesn't need incremental state
	// (e.g. tests). Wired by cmd/timecat/uci once an nnue.Network is
	// loaded, since engine cannot import nnue without a cycle.
	NewHelperBoard func(fen string) *Board
}

// NewSearcher builds a Searcher over board, sharing tt and eval.
func NewSearcher(board *Board, tt *HashTable, eval Evaluator) *Searcher {
	return &Searcher{Board: board, TT: tt, Eval: eval, Threads: 1, Logger: nopLogger{}}
}

// Stop requests the in-progress search abort at the next safe point.
func (s *Searcher) Stop() { atomic.StoreInt32(&s.stopping, 1) }

// PV returns the principal variation from the most recently completed
// iteration, for UCI ponder-move extraction.
func (s *Searcher) PV() []Move { return s.pv.PV() }

// Nodes returns the node count from the most recent Go call, for UCI
// info lines and benchmarking.
func (s *Searcher) Nodes() int64 { return s.nodes }

func (s *Searcher) stopped() bool { return atomic.LoadInt32(&s.stopping) != 0 }

// Go runs iterative deepening under tc and returns the best move found.
// threads-1 helper threads search identical iterations sharing the TT
// (spec.md §5); only the main thread's PV/info are reported.
func (s *Searcher) Go(ctx context.Context, tc *TimeControl) (Move, int) {
	atomic.StoreInt32(&s.stopping, 0)
	s.tc = tc
	s.nodes = 0

	var bestMove Move
	var bestScore int

	if s.Threads > 1 {
		hctx, cancelHelpers := context.WithCancel(ctx)
		grp, gctx := errgroup.WithContext(hctx)
		for i := 1; i < s.Threads; i++ {
			helperBoard := s.cloneBoardForHelper()
			grp.Go(func() error {
				helper := NewSearcher(helperBoard, s.TT, s.Eval)
				helper.Logger = nopLogger{}
				helper.iterativeDeepen(gctx, tc, nil)
				return nil
			})
		}
		bestMove, bestScore = s.iterativeDeepen(ctx, tc, s.OnInfo)
		s.Stop()
		cancelHelpers()
		_ = grp.Wait()
	} else {
		bestMove, bestScore = s.iterativeDeepen(ctx, tc, s.OnInfo)
	}
	return bestMove, bestScore
}

func (s *Searcher) cloneBoardForHelper() *Board {
	fen := s.Board.Pos.FEN()
	if s.NewHelperBoard != nil {
		return s.NewHelperBoard(fen)
	}
	pos, _ := NewPositionFromFEN(fen)
	return NewBoard(pos)
}

func (s *Searcher) iterativeDeepen(ctx context.Context, tc *TimeControl, onInfo InfoHandler) (Move, int) {
	var bestMove Move
	bestScore := 0
	window := 50

	maxDepth := tc.FixedDepth()
	if maxDepth == 0 {
		maxDepth = MaxPly
	}

	for depth := 1; depth <= maxDepth; depth++ {
		s.selDepth = 0
		s.pv = pvTable{}
		s.order.followPV = true

		alpha, beta := -InfinityScore, InfinityScore
		if depth > 1 {
			w := window
			if abs(bestScore) >= MateScore-MaxPly {
				w = 5
			}
			alpha, beta = bestScore-w, bestScore+w
		}

		var score int
		for {
			score = s.searchRoot(ctx, depth, alpha, beta)
			if s.stopped() {
				break
			}
			if score <= alpha {
				alpha = -InfinityScore
			} else if score >= beta {
				beta = InfinityScore
			} else {
				break
			}
		}

		if s.stopped() && depth > 1 {
			break
		}

		bestScore = score
		pv := s.pv.PV()
		if len(pv) > 0 {
			bestMove = pv[0]
		}
		s.order.pvMove = [MaxPly + 1]Move{}
		copy(s.order.pvMove[:], pv)

		if onInfo != nil {
			onInfo(SearchInfo{Depth: depth, SelDepth: s.selDepth, Score: bestScore, Nodes: s.nodes, PV: pv})
		}

		if tc.FixedNodes() > 0 && s.nodes >= tc.FixedNodes() {
			break
		}
		if abs(bestScore) >= MateScore-MaxPly && tc.FixedDepth() == 0 {
			mateDist := MateScore - abs(bestScore)
			if mateDist <= depth {
				break
			}
		}
		if tc.ShouldStopSoft() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return bestMove, bestScore
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (s *Searcher) searchRoot(ctx context.Context, depth, alpha, beta int) int {
	pos := s.Board.Pos
	var buf [256]Move
	moves := pos.GenerateMoves(buf[:0], AllSquares)
	if len(moves) == 0 {
		if pos.InCheck() {
			return -MateScore
		}
		return DrawScore
	}

	ttMove := Move{}
	if e, ok := s.TT.Probe(pos.Hash(), 0); ok && e.HasMove {
		ttMove = e.BestMove.Decompress(pos)
	}
	ws := s.order.ScoreMoves(pos, moves, 0, ttMove, true)
	sortMoves(ws)

	best := -InfinityScore - 1
	first := true
	for _, wm := range ws {
		if s.stopped() || ctx.Err() != nil {
			break
		}
		m := wm.Move
		s.Board.Push(m)
		var score int
		if first {
			score = -s.pvs(ctx, depth-1, -beta, -alpha, 1, true)
		} else {
			score = -s.pvs(ctx, depth-1, -alpha-1, -alpha, 1, false)
			if score > alpha && score < beta {
				score = -s.pvs(ctx, depth-1, -beta, -alpha, 1, true)
			}
		}
		s.Board.Pop()
		first = false

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				s.pv.set(0, m)
			}
			if alpha >= beta {
				break
			}
		}
	}

	s.TT.Store(pos.Hash(), 0, TranspositionEntry{
		Depth: int8(depth), Score: int16(best), Bound: BoundExact,
		BestMove: func() CompressedMove {
			if s.pv.length[0] > 0 {
				return s.pv.line[0][0].Compress()
			}
			return 0
		}(),
		HasMove: s.pv.length[0] > 0,
	})
	return best
}

// pvs is the principal-variation-search alpha-beta core (spec.md
// §4.7). ply is the distance from the root; isPV marks full-window
// nodes eligible for PV tracking.
func (s *Searcher) pvs(ctx context.Context, depth, alpha, beta, ply int, isPV bool) int {
	s.nodes++
	if ply > s.selDepth {
		s.selDepth = ply
	}
	pos := s.Board.Pos
	if ply >= MaxPly {
		return int(s.Eval.Evaluate(pos))
	}
	s.pv.reset(ply)

	if ply > 0 {
		if s.Board.IsFiftyMoveRule() || s.Board.IsInsufficientMaterial() || s.Board.IsThreefoldRepetition() {
			return DrawScore
		}
		// Mate-distance pruning.
		mAlpha, mBeta := alpha, beta
		if mAlpha < -MateScore+ply {
			mAlpha = -MateScore + ply
		}
		if mBeta > MateScore-ply {
			mBeta = MateScore - ply
		}
		if mAlpha >= mBeta {
			return mAlpha
		}
		alpha, beta = mAlpha, mBeta
	}

	if depth <= 0 {
		return s.quiescence(ctx, alpha, beta, ply)
	}

	if s.nodes&1023 == 0 {
		if s.tc != nil && s.tc.ShouldStopHard() {
			s.Stop()
		}
		if ctx.Err() != nil {
			s.Stop()
		}
	}
	if s.stopped() {
		return alpha
	}

	inCheck := pos.InCheck()
	hash := pos.Hash()

	var ttMove Move
	if e, ok := s.TT.Probe(hash, ply); ok {
		ttMove = func() Move {
			if e.HasMove {
				return e.BestMove.Decompress(pos)
			}
			return Move{}
		}()
		if int(e.Depth) >= depth && !isPV {
			score := int(e.Score)
			switch e.Bound {
			case BoundExact:
				return score
			case BoundAlpha:
				if score <= alpha {
					return score
				}
			case BoundBeta:
				if score >= beta {
					return score
				}
			}
		}
	}

	if inCheck {
		depth++
	}

	staticEval := 0
	if !inCheck {
		staticEval = int(s.Eval.Evaluate(pos))
	}

	if !inCheck && !isPV && abs(beta) < MateScore-MaxPly {
		// Reverse futility / static null-move pruning.
		if depth <= 6 && staticEval-depth*80 >= beta {
			return staticEval
		}

		// Null-move pruning.
		if depth >= 2 && pos.MaterialScores[pos.SideToMove] > 0 && staticEval >= beta {
			r := 2 + depth/4
			pos.MakeNullMove()
			s.Board.reps[pos.Hash()]++
			score := -s.pvs(ctx, depth-1-r, -beta, -beta+1, ply+1, false)
			s.Board.reps[pos.Hash()]--
			pos.UndoNullMove()
			if s.stopped() {
				return alpha
			}
			if score >= beta {
				return beta
			}
		}

		// Razoring at shallow depth.
		if depth <= 3 {
			razorMargin := 125 * depth
			if staticEval+razorMargin < beta {
				score := s.quiescence(ctx, alpha, beta, ply)
				if score < beta {
					return score
				}
			}
		}
	}

	futilityPrune := false
	if !inCheck && !isPV && depth < 4 && abs(alpha) < MateScore-MaxPly {
		margin := 150 * depth
		if staticEval+margin <= alpha {
			futilityPrune = true
		}
	}

	var buf [256]Move
	moves := pos.GenerateMoves(buf[:0], AllSquares)
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return DrawScore
	}

	ws := s.order.ScoreMoves(pos, moves, ply, ttMove, isPV)
	sortMoves(ws)

	best := -InfinityScore - 1
	bound := BoundAlpha
	var bestMove Move

	for i, wm := range ws {
		m := wm.Move
		if futilityPrune && i > 0 && m.IsQuiet() && m != ttMove && !s.isKiller(ply, m) {
			continue
		}

		reduction := 0
		if depth >= 3 && i >= 4 && m.IsQuiet() && !inCheck {
			reduction = lmrReduction(depth, i)
			if isPV {
				reduction = reduction * 2 / 3
			}
		}

		s.Board.Push(m)
		var score int
		if i == 0 {
			score = -s.pvs(ctx, depth-1, -beta, -alpha, ply+1, isPV)
		} else {
			d := depth - 1 - reduction
			if d < 0 {
				d = 0
			}
			score = -s.pvs(ctx, d, -alpha-1, -alpha, ply+1, false)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -s.pvs(ctx, depth-1, -beta, -alpha, ply+1, isPV)
			}
		}
		s.Board.Pop()

		if s.stopped() {
			return alpha
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				s.pv.set(ply, m)
			}
			if alpha >= beta {
				bound = BoundBeta
				if m.IsQuiet() {
					s.order.UpdateKillers(ply, m)
					s.order.UpdateHistory(m, depth)
				}
				break
			}
		}
	}

	s.TT.Store(hash, ply, TranspositionEntry{
		Depth: int8(depth), Score: int16(best), Bound: bound,
		BestMove: bestMove.Compress(), HasMove: !bestMove.IsNull(),
	})
	return best
}

func (s *Searcher) isKiller(ply int, m Move) bool {
	for _, k := range s.order.killers[ply] {
		if k == m {
			return true
		}
	}
	return false
}

// lmrReduction grows with depth and move index (spec.md §4.7).
func lmrReduction(depth, index int) int {
	r := int(lnTable[min(depth, 63)] * lnTable[min(index, 63)] / 2.25)
	if r < 0 {
		return 0
	}
	return r
}

var lnTable [64]float64

func init() {
	for i := 1; i < 64; i++ {
		lnTable[i] = ln(float64(i))
	}
}

func ln(x float64) float64 { return math.Log(x) }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// quiescence searches captures and queen promotions only (every legal
// move when in check), with delta pruning
// (spec.md §4.7).
func (s *Searcher) quiescence(ctx context.Context, alpha, beta, ply int) int {
	s.nodes++
	if ply > s.selDepth {
		s.selDepth = ply
	}
	pos := s.Board.Pos
	if ply >= MaxPly {
		return int(s.Eval.Evaluate(pos))
	}
	inCheck := pos.InCheck()

	var standPat int
	if !inCheck {
		standPat = int(s.Eval.Evaluate(pos))
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var buf [128]Move
	var moves []Move
	if inCheck {
		moves = pos.GenerateMoves(buf[:0], AllSquares)
		if len(moves) == 0 {
			return -MateScore + ply
		}
	} else {
		promoRank := rankMask[7]
		if pos.SideToMove == Black {
			promoRank = rankMask[0]
		}
		moves = pos.GenerateMoves(buf[:0], CapturesMask(pos)|promoRank)
		n := 0
		for _, m := range moves {
			if m.IsCapture() || (m.MoveType == Promotion && m.Promotion == Queen) {
				moves[n] = m
				n++
			}
		}
		moves = moves[:n]
	}

	ws := s.order.ScoreMoves(pos, moves, min(ply, MaxPly), Move{}, false)
	sortMoves(ws)

	best := standPat
	for _, wm := range ws {
		m := wm.Move
		if !inCheck && m.IsCapture() {
			delta := pieceValue[m.Capture.PieceType()] + 200
			if m.MoveType == Promotion {
				delta += int32(pieceValue[m.Promotion])
			}
			if int32(standPat)+delta < int32(alpha) {
				continue
			}
			if pos.SEE(m) < 0 {
				continue
			}
		}
		s.Board.Push(m)
		score := -s.quiescence(ctx, -beta, -alpha, ply+1)
		s.Board.Pop()

		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
	}
	return best
}
