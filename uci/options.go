package uci

import (
	"fmt"
	"strconv"
	"time"
)

// Option bounds, per spec.md §6.
const (
	minThreads = 1
	maxThreads = 1024

	minHashMB = 1
	maxHashMB = 65536

	defaultThreads      = 1
	defaultHashMB       = 16
	defaultMoveOverhead = 30 * time.Millisecond
)

// Options holds the UCI options this engine recognizes: Threads, Hash,
// Clear Hash and Move Overhead (spec.md §6). Clear Hash is a button
// with no stored value, handled directly in setoption.
type Options struct {
	Threads      int
	HashMB       int
	MoveOverhead time.Duration
}

// DefaultOptions returns the engine's built-in defaults, overridable by
// an optional startup config file and then by UCI setoption commands.
func DefaultOptions() Options {
	return Options{
		Threads:      defaultThreads,
		HashMB:       defaultHashMB,
		MoveOverhead: defaultMoveOverhead,
	}
}

// printOptionTable writes the "option name ..." lines the GUI parses
// to build its settings dialog, per the UCI protocol and grounded on
// the teacher's zurichess/uci.go uci() handler.
func printOptionTable(out func(string), opt Options) {
	out(fmt.Sprintf("option name Threads type spin default %d min %d max %d", opt.Threads, minThreads, maxThreads))
	out(fmt.Sprintf("option name Hash type spin default %d min %d max %d", opt.HashMB, minHashMB, maxHashMB))
	out("option name Clear Hash type button")
	out(fmt.Sprintf("option name Move Overhead type spin default %d min 0 max 5000", opt.MoveOverhead.Milliseconds()))
}

// applySetOption updates opt (or signals a hash clear / engine-wide
// effect via the return values) from a parsed "setoption" name/value
// pair. clearHash reports whether the Clear Hash button was pressed.
func applySetOption(opt *Options, name, value string) (clearHash bool, err error) {
	switch name {
	case "Clear Hash":
		return true, nil
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, fmt.Errorf("invalid Threads value %q: %w", value, err)
		}
		if n < minThreads || n > maxThreads {
			return false, fmt.Errorf("Threads must be between %d and %d", minThreads, maxThreads)
		}
		opt.Threads = n
		return false, nil
	case "Hash":
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, fmt.Errorf("invalid Hash value %q: %w", value, err)
		}
		if n < minHashMB || n > maxHashMB {
			return false, fmt.Errorf("Hash must be between %d and %d", minHashMB, maxHashMB)
		}
		opt.HashMB = n
		return false, nil
	case "Move Overhead":
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, fmt.Errorf("invalid Move Overhead value %q: %w", value, err)
		}
		if n < 0 {
			return false, fmt.Errorf("Move Overhead must be non-negative")
		}
		opt.MoveOverhead = time.Duration(n) * time.Millisecond
		return false, nil
	default:
		return false, fmt.Errorf("unhandled option %q", name)
	}
}
