package uci

import (
	"context"
	"fmt"
	"time"

	"github.com/kvchess/timecat/book"
	"github.com/kvchess/timecat/engine"
	"github.com/kvchess/timecat/nnue"
	"github.com/kvchess/timecat/tablebase"
)

// Engine owns the searchable state a UCI session mutates: the current
// position/board, the shared transposition table, the NNUE evaluator,
// and the recognized options. Grounded on the teacher's uci.UCI
// wrapping an *Engine, generalized so the protocol layer (uci.go)
// stays a thin command dispatcher.
type Engine struct {
	Options Options

	board *engine.Board
	tt    *engine.HashTable
	net   *nnue.Network
	book  book.Book
	tb    tablebase.Probe

	searcher *engine.Searcher
	cancel   context.CancelFunc
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewEngine builds an Engine with net (possibly a NewRandomNetwork
// fallback when no trained file was supplied), the engine's starting
// options, and a no-op book/tablebase until real ones are wired.
func NewEngine(net *nnue.Network, opt Options) *Engine {
	e := &Engine{Options: opt, net: net, book: book.None{}, tb: tablebase.None{}}
	e.tt = engine.NewHashTable(opt.HashMB)
	e.setPositionFEN(startFEN)
	return e
}

// newBoardWithEvaluator builds a Board/Searcher pair whose Acc is a
// fresh nnue.AccumulatorStack over pos, used both for the main board
// and for each Lazy-SMP helper thread (engine.Searcher.NewHelperBoard).
func (e *Engine) newBoardWithEvaluator(pos *engine.Position) (*engine.Board, *nnue.Evaluator) {
	acc := nnue.NewAccumulatorStack(e.net, pos)
	eval := nnue.NewEvaluator(e.net, acc)
	b := engine.NewBoard(pos)
	b.Acc = acc
	return b, eval
}

func (e *Engine) setPositionFEN(fen string) error {
	pos, err := engine.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	board, eval := e.newBoardWithEvaluator(pos)
	e.board = board
	e.searcher = engine.NewSearcher(board, e.tt, eval)
	e.searcher.Threads = e.Options.Threads
	rootFEN := fen
	e.searcher.NewHelperBoard = func(fen string) *engine.Board {
		pos, err := engine.NewPositionFromFEN(fen)
		if err != nil {
			pos, _ = engine.NewPositionFromFEN(rootFEN)
		}
		b, _ := e.newBoardWithEvaluator(pos)
		return b
	}
	return nil
}

// SetPosition resets the board to fen (or the standard start position
// when fen == "") and then plays moves (UCI long algebraic) in order.
func (e *Engine) SetPosition(fen string, moves []string) error {
	if fen == "" {
		fen = startFEN
	}
	if err := e.setPositionFEN(fen); err != nil {
		return err
	}
	for _, u := range moves {
		m, err := e.board.Pos.UCIMoveToMove(u)
		if err != nil {
			return fmt.Errorf("applying move %q: %w", u, err)
		}
		e.board.Push(m)
	}
	return nil
}

// NewGame clears all state that must not leak across games (spec.md
// §6's ucinewgame), per the teacher's GlobalHashTable.Clear() call.
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// ApplySetOption updates e.Options (or clears the hash) from a parsed
// setoption name/value pair.
func (e *Engine) ApplySetOption(name, value string) error {
	clearHash, err := applySetOption(&e.Options, name, value)
	if err != nil {
		return err
	}
	if clearHash {
		e.tt.Clear()
		return nil
	}
	if name == "Hash" {
		e.tt.Resize(e.Options.HashMB)
	}
	if e.searcher != nil {
		e.searcher.Threads = e.Options.Threads
	}
	return nil
}

// GoParams carries the parsed "go" command fields (spec.md §6). Zero
// values mean "not specified", following the teacher's own convention
// of zero-Duration meaning no time budget.
type GoParams struct {
	WTime, BTime time.Duration
	WInc, BInc   time.Duration
	MovesToGo    int
	Depth        int
	Nodes        int64
	MoveTime     time.Duration
	Infinite     bool
}

// Go starts a search and reports info lines via onInfo, returning the
// best move (and ponder move, if any) once the search stops.
func (e *Engine) Go(ctx context.Context, params GoParams, onInfo func(Info)) (best, ponder engine.Move) {
	if moves := e.book.Find(e.board.Pos); len(moves) > 0 {
		return moves[0], engine.Move{}
	}

	tc := engine.NewTimeControl(engine.TimedGoCommand{
		WTime: params.WTime, BTime: params.BTime,
		WInc: params.WInc, BInc: params.BInc,
		MovesToGo: params.MovesToGo, Depth: params.Depth,
		Nodes: params.Nodes, MoveTime: params.MoveTime,
		Infinite: params.Infinite,
	}, e.board.Pos.SideToMove, e.Options.MoveOverhead)

	sctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	defer func() { e.cancel = nil }()

	start := time.Now()
	e.searcher.OnInfo = func(si engine.SearchInfo) {
		if onInfo == nil {
			return
		}
		onInfo(toInfo(si, time.Since(start), e.tt, e.board.Pos))
	}

	best, _ = e.searcher.Go(sctx, tc)

	if len(e.searcher.PV()) > 1 {
		ponder = e.searcher.PV()[1]
	}
	return best, ponder
}

// Stop requests the in-progress search abort at the next safe point.
func (e *Engine) Stop() {
	if e.searcher != nil {
		e.searcher.Stop()
	}
}

// Board exposes the current board and position to callers outside
// the package, such as tests.
func (e *Engine) Board() *engine.Board { return e.board }
