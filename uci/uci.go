// Package uci implements the UCI protocol
// (http://wbec-ridderkerk.nl/html/UCIProtocol.html) over an *Engine.
// Grounded on the teacher's zurichess/uci.go for the command dispatch
// shape and option table, and on herohde-morlock's cmd/morlock for
// logw wiring and the stdin-line-channel idiom.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/kvchess/timecat/engine"
)

const Name = "timecat"
const Author = "timecat contributors"

var errQuit = errors.New("quit")

// Driver dispatches UCI command lines to an *Engine and writes replies
// to out. One Driver serves exactly one engine instance.
type Driver struct {
	ctx context.Context
	e   *Engine
	out func(string)
}

// NewDriver builds a Driver over e, writing replies via out.
func NewDriver(ctx context.Context, e *Engine, out func(string)) *Driver {
	return &Driver{ctx: ctx, e: e, out: out}
}

// Run reads lines from in until EOF or a "quit" command.
func (d *Driver) Run(in <-chan string) {
	for line := range in {
		if err := d.Execute(line); err != nil {
			if err == errQuit {
				return
			}
			logw.Errorf(d.ctx, "command %q failed: %v", line, err)
		}
	}
}

// Execute handles a single command line; errQuit signals the "quit"
// command rather than a failure.
func (d *Driver) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		return d.uci()
	case "isready":
		d.out("readyok")
		return nil
	case "ucinewgame":
		d.e.NewGame()
		return nil
	case "setoption":
		return d.setoption(args)
	case "position":
		return d.position(args)
	case "go":
		return d.goCmd(args)
	case "stop":
		d.e.Stop()
		return nil
	case "ponderhit":
		return nil
	case "quit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (d *Driver) uci() error {
	d.out(fmt.Sprintf("id name %s", Name))
	d.out(fmt.Sprintf("id author %s", Author))
	printOptionTable(d.out, d.e.Options)
	d.out("uciok")
	return nil
}

func (d *Driver) setoption(args []string) error {
	// "name <id...> [value <x...>]"
	if len(args) < 2 || args[0] != "name" {
		return fmt.Errorf("malformed setoption: %v", args)
	}
	args = args[1:]

	valueAt := -1
	for i, a := range args {
		if a == "value" {
			valueAt = i
			break
		}
	}

	var name, value string
	if valueAt < 0 {
		name = strings.Join(args, " ")
	} else {
		name = strings.Join(args[:valueAt], " ")
		value = strings.Join(args[valueAt+1:], " ")
	}

	return d.e.ApplySetOption(name, value)
}

func (d *Driver) position(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var fen string
	i := 0
	switch args[0] {
	case "startpos":
		fen = ""
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		fen = strings.Join(args[1:i], " ")
	default:
		return fmt.Errorf("unknown position subcommand %q", args[0])
	}

	var moves []string
	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		moves = args[i+1:]
	}

	return d.e.SetPosition(fen, moves)
}

func (d *Driver) goCmd(args []string) error {
	var params GoParams
	var depth, nodes lang.Optional[int]

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			params.Infinite = true
		case "ponder":
			// Accepted but not distinguished from a normal search:
			// this engine doesn't change its time management under
			// ponder, matching spec.md's non-goal on pondering UX.
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "movetime":
			i++
			if i == len(args) {
				return fmt.Errorf("missing argument for %q", args[i-1])
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid argument for %q: %w", args[i-1], err)
			}
			switch args[i-1] {
			case "wtime":
				params.WTime = time.Duration(n) * time.Millisecond
			case "btime":
				params.BTime = time.Duration(n) * time.Millisecond
			case "winc":
				params.WInc = time.Duration(n) * time.Millisecond
			case "binc":
				params.BInc = time.Duration(n) * time.Millisecond
			case "movestogo":
				params.MovesToGo = n
			case "depth":
				depth = lang.Some(n)
			case "nodes":
				nodes = lang.Some(n)
			case "movetime":
				params.MoveTime = time.Duration(n) * time.Millisecond
			}
		case "searchmoves":
			for i+1 < len(args) && !isGoKeyword(args[i+1]) {
				i++
			}
		default:
			// Silently ignore unrecognized go sub-commands.
		}
	}
	if v, ok := depth.V(); ok {
		params.Depth = v
	}
	if v, ok := nodes.V(); ok {
		params.Nodes = int64(v)
	}

	go func() {
		best, ponder := d.e.Go(d.ctx, params, func(info Info) { d.out(info.String()) })
		if best.IsNull() {
			d.out("bestmove 0000")
			return
		}
		if ponder.IsNull() {
			d.out(fmt.Sprintf("bestmove %s", d.e.board.Pos.MoveToUCI(best)))
		} else {
			d.out(fmt.Sprintf("bestmove %s ponder %s", d.e.board.Pos.MoveToUCI(best), d.e.board.Pos.MoveToUCI(ponder)))
		}
	}()
	return nil
}

func isGoKeyword(s string) bool {
	switch s {
	case "searchmoves", "ponder", "wtime", "btime", "winc", "binc",
		"movestogo", "depth", "nodes", "mate", "movetime", "infinite":
		return true
	default:
		return false
	}
}

// ReadStdinLines reads stdin lines into a chan, closing it at EOF.
// Grounded on herohde-morlock's pkg/engine/util.go.
func ReadStdinLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %s", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// WriteStdout writes a single reply line to stdout.
func WriteStdout(ctx context.Context, line string) {
	logw.Debugf(ctx, ">> %s", line)
	fmt.Fprintln(os.Stdout, line)
}
