package nnue

import "github.com/kvchess/timecat/engine"

// Accumulator holds the 256-wide transformer output for both
// perspectives (White and Black) plus the
// king square each perspective was built against (needed to recompute
// feature indices on the next Activate/Deactivate).
type Accumulator struct {
	v      [engine.ColorArraySize][TransformedDim]int16
	kingSq [engine.ColorArraySize]engine.Square
}

// AccumulatorStack is a fixed-capacity array of snapshots indexed by
// ply, avoiding per-push allocation (spec.md §4.8/§9). It implements
// engine.AccumulatorUpdater so engine.Board can drive it without engine
// importing this package.
type AccumulatorStack struct {
	net   *Network
	stack [engine.MaxPly + 1]Accumulator
	top   int
}

// NewAccumulatorStack builds a stack bound to net, with slot 0
// refreshed from pos.
func NewAccumulatorStack(net *Network, pos *engine.Position) *AccumulatorStack {
	s := &AccumulatorStack{net: net}
	s.RefreshSide(engine.White, pos)
	s.RefreshSide(engine.Black, pos)
	return s
}

func (s *AccumulatorStack) cur() *Accumulator { return &s.stack[s.top] }

// Push snapshots the current accumulator onto the next ply slot.
func (s *AccumulatorStack) Push() {
	s.stack[s.top+1] = s.stack[s.top]
	s.top++
}

// Pop discards the current ply's accumulator, restoring the prior one.
func (s *AccumulatorStack) Pop() {
	s.top--
}

// Activate adds piece (pt, c) on sq to both perspectives' accumulators.
func (s *AccumulatorStack) Activate(c engine.Color, pt engine.PieceType, sq engine.Square) {
	s.update(c, pt, sq, 1)
}

// Deactivate subtracts piece (pt, c) on sq from both perspectives.
func (s *AccumulatorStack) Deactivate(c engine.Color, pt engine.PieceType, sq engine.Square) {
	s.update(c, pt, sq, -1)
}

func (s *AccumulatorStack) update(c engine.Color, pt engine.PieceType, sq engine.Square, sign int16) {
	if pt == engine.King {
		return // kings index the feature block, not themselves
	}
	acc := s.cur()
	for _, perspective := range [2]engine.Color{engine.White, engine.Black} {
		kingSq := acc.kingSq[perspective]
		idx := featureIndex(perspective, kingSq, sq, pt, c)
		col := &s.net.ftWeights[idx]
		row := &acc.v[perspective]
		for j := 0; j < TransformedDim; j++ {
			row[j] += sign * col[j]
		}
	}
}

// RefreshSide rebuilds one perspective's accumulator from scratch over
// pos's current piece placement; called on king moves (spec.md §4.8)
// and to seed the stack initially.
func (s *AccumulatorStack) RefreshSide(side engine.Color, pos *engine.Position) {
	kingSq := pos.KingSquare(side)
	acc := s.cur()
	acc.kingSq[side] = kingSq
	row := &acc.v[side]
	for j := 0; j < TransformedDim; j++ {
		row[j] = s.net.ftBias[j]
	}
	for pt := engine.Pawn; pt < engine.King; pt++ {
		for _, color := range [2]engine.Color{engine.White, engine.Black} {
			pieces := pos.PieceMasks[pt] & pos.OccupiedColor[color]
			for pieces != 0 {
				sq := pieces.Pop()
				idx := featureIndex(side, kingSq, sq, pt, color)
				col := &s.net.ftWeights[idx]
				for j := 0; j < TransformedDim; j++ {
					row[j] += col[j]
				}
			}
		}
	}
}

// Evaluate runs the forward pass for turn's perspective, concatenating
// (turn, !turn) halves after clipped ReLU (spec.md §4.8 step 1-4).
func (s *AccumulatorStack) Evaluate(turn engine.Color) int32 {
	acc := s.cur()
	var input [ConcatDim]int32
	for j := 0; j < TransformedDim; j++ {
		input[j] = clippedReLU(int32(acc.v[turn][j]), 0)
	}
	for j := 0; j < TransformedDim; j++ {
		input[TransformedDim+j] = clippedReLU(int32(acc.v[turn.Other()][j]), 0)
	}
	return s.net.forward(input)
}
