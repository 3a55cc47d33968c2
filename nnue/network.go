// Package nnue implements the HalfKP evaluator (spec.md §4.8): a
// feature-transformer accumulator maintained incrementally by the
// board, three dense layers with clipped ReLU, and a score cache.
//
// Grounded on hailam-chessplay/sfnnue's Accumulator/AccumulatorStack
// naming and push/pop-snapshot convention, adapted from Stockfish's
// selectable big/small nets down to this spec's single fixed HalfKP
// topology, and on original_source/src/nnue.rs for the
// easily-winning-override and score-amplification post-processing the
// teacher's classical evaluator never had to do.
package nnue

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kvchess/timecat/engine"
)

const (
	// FeatureCount is the HalfKP input dimension: 64 king squares * 10
	// (piece type, piece color) combinations * 64 piece squares.
	FeatureCount = 64 * 10 * 64
	// TransformedDim is the per-side feature-transformer output width.
	TransformedDim = 256
	// ConcatDim is both sides concatenated.
	ConcatDim = 2 * TransformedDim
	hidden1Dim = 32
	hidden2Dim = 32
)

// Network holds the fixed HalfKP topology's weights:
// FeatureCount -> TransformedDim (per side), then
// ConcatDim -> 32 -> 32 -> 1.
type Network struct {
	ftWeights [FeatureCount][TransformedDim]int16
	ftBias    [TransformedDim]int16

	w1 [hidden1Dim][ConcatDim]int8
	b1 [hidden1Dim]int32
	w2 [hidden2Dim][hidden1Dim]int8
	b2 [hidden2Dim]int32
	w3 [hidden2Dim]int8
	b3 int32
}

// featureIndex computes the HalfKP feature for a non-king piece as
// seen from perspective's side, per spec.md §4.8: for the black
// perspective the board is rotated 180 degrees and piece colors are
// flipped, so the same weight table serves both sides.
func featureIndex(perspective engine.Color, kingSq, pieceSq engine.Square, pt engine.PieceType, color engine.Color) int {
	if perspective == engine.Black {
		kingSq = kingSq.Rotate180()
		pieceSq = pieceSq.Rotate180()
		color ^= 1
	}
	pieceCode := int(pt-1)*2 + int(color)
	return 64*(10*int(kingSq)+pieceCode) + int(pieceSq)
}

// LoadNetwork reads a network file in the layout this package writes
// (see SaveNetwork); an unrecognized magic or short read is reported as
// engine.ErrInvalidNNUEFile (spec.md §7).
func LoadNetwork(r io.Reader) (*Network, error) {
	br := bufio.NewReader(r)
	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, &engine.Error{Kind: engine.ErrInvalidNNUEFile, Detail: err.Error()}
	}
	if magic != networkMagic {
		return nil, &engine.Error{Kind: engine.ErrInvalidNNUEFile, Detail: fmt.Sprintf("bad magic %x", magic)}
	}

	n := &Network{}
	fields := []interface{}{
		&n.ftWeights, &n.ftBias, &n.w1, &n.b1, &n.w2, &n.b2, &n.w3, &n.b3,
	}
	for _, f := range fields {
		if err := binary.Read(br, binary.LittleEndian, f); err != nil {
			return nil, &engine.Error{Kind: engine.ErrInvalidNNUEFile, Detail: err.Error()}
		}
	}
	return n, nil
}

const networkMagic = 0x4b50414e // "NAPK" (HalfKP), little-endian on disk

// SaveNetwork writes n in LoadNetwork's format.
func (n *Network) SaveNetwork(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(networkMagic)); err != nil {
		return err
	}
	fields := []interface{}{
		n.ftWeights, n.ftBias, n.w1, n.b1, n.w2, n.b2, n.w3, n.b3,
	}
	for _, f := range fields {
		if err := binary.Write(bw, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// NewRandomNetwork builds a deterministically-seeded network for tests
// and for engines run without a trained file; weights are small and
// centered on zero so outputs stay in a plausible centipawn range.
func NewRandomNetwork(seed uint64) *Network {
	n := &Network{}
	rng := lcg{state: seed}
	for i := range n.ftWeights {
		for j := range n.ftWeights[i] {
			n.ftWeights[i][j] = int16(rng.next()%401 - 200)
		}
	}
	for j := range n.ftBias {
		n.ftBias[j] = int16(rng.next()%201 - 100)
	}
	for i := range n.w1 {
		for j := range n.w1[i] {
			n.w1[i][j] = int8(rng.next()%127 - 63)
		}
		n.b1[i] = int32(rng.next()%2001 - 1000)
	}
	for i := range n.w2 {
		for j := range n.w2[i] {
			n.w2[i][j] = int8(rng.next()%127 - 63)
		}
		n.b2[i] = int32(rng.next()%2001 - 1000)
	}
	for j := range n.w3 {
		n.w3[j] = int8(rng.next()%127 - 63)
	}
	n.b3 = int32(rng.next()%2001 - 1000)
	return n
}

// lcg is a tiny deterministic generator, so network weight generation
// depends only on its seed and not on the math/rand sources used
// elsewhere (zobrist keys, magic search).
type lcg struct{ state uint64 }

func (g *lcg) next() uint64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return g.state >> 33
}

func clippedReLU(x int32, shift uint) int32 {
	v := x >> shift
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}

// forward runs the three dense layers over a 512-wide clipped input
// built from (own, opponent) accumulators, per spec.md §4.8.
func (n *Network) forward(input [ConcatDim]int32) int32 {
	var h1 [hidden1Dim]int32
	for i := 0; i < hidden1Dim; i++ {
		acc := n.b1[i]
		for j := 0; j < ConcatDim; j++ {
			acc += int32(n.w1[i][j]) * input[j]
		}
		h1[i] = clippedReLU(acc, 6)
	}
	var h2 [hidden2Dim]int32
	for i := 0; i < hidden2Dim; i++ {
		acc := n.b2[i]
		for j := 0; j < hidden1Dim; j++ {
			acc += int32(n.w2[i][j]) * h1[j]
		}
		h2[i] = clippedReLU(acc, 0)
	}
	out := n.b3
	for j := 0; j < hidden2Dim; j++ {
		out += int32(n.w3[j]) * h2[j]
	}
	return out / 16
}
