// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "time"

// TimedGoCommand carries the UCI "go" clock fields (spec.md §4.7/§6).
type TimedGoCommand struct {
	WTime, BTime     time.Duration
	WInc, BInc       time.Duration
	MovesToGo        int
	Depth            int
	Nodes            int64
	MoveTime         time.Duration
	Infinite         bool
}

// TimeControl computes the soft and hard budgets for the side to move
// and tracks wall-clock deadlines during search. Grounded on the
// teacher's time_control.go.
type TimeControl struct {
	start        time.Time
	soft, hard   time.Duration
	moveOverhead time.Duration
	fixedDepth   int
	fixedNodes   int64
	infinite     bool
}

// NewTimeControl derives soft/hard budgets from a TimedGoCommand for
// side c, per spec.md §4.7: soft ≈ time/movestogo + inc - overhead,
// hard bounded by the remaining clock less overhead.
func NewTimeControl(cmd TimedGoCommand, c Color, moveOverhead time.Duration) *TimeControl {
	tc := &TimeControl{start: time.Now(), moveOverhead: moveOverhead}
	tc.fixedDepth = cmd.Depth
	tc.fixedNodes = cmd.Nodes
	tc.infinite = cmd.Infinite

	if cmd.MoveTime > 0 {
		tc.soft = cmd.MoveTime - moveOverhead
		tc.hard = tc.soft
		return tc
	}

	remaining, inc := cmd.WTime, cmd.WInc
	if c == Black {
		remaining, inc = cmd.BTime, cmd.BInc
	}
	if remaining <= 0 && inc <= 0 && !tc.infinite && tc.fixedDepth == 0 && tc.fixedNodes == 0 {
		return tc
	}

	movesToGo := cmd.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}

	soft := remaining/time.Duration(movesToGo) + inc - moveOverhead
	hard := remaining - moveOverhead
	if soft < 0 {
		soft = 0
	}
	if hard < soft {
		hard = soft
	}
	tc.soft, tc.hard = soft, hard
	return tc
}

// Elapsed returns time since the search started.
func (tc *TimeControl) Elapsed() time.Duration { return time.Since(tc.start) }

// ShouldStopSoft reports whether the current iteration should not
// begin another depth increment (checked between iterations).
func (tc *TimeControl) ShouldStopSoft() bool {
	if tc.soft <= 0 && tc.hard <= 0 && !tc.infinite {
		return false
	}
	return tc.soft > 0 && tc.Elapsed() >= tc.soft
}

// ShouldStopHard reports whether the in-progress iteration must abort
// immediately (polled inside the search at depth > 1, per spec.md
// §4.7).
func (tc *TimeControl) ShouldStopHard() bool {
	return tc.hard > 0 && tc.Elapsed() >= tc.hard
}

// FixedDepth/FixedNodes/Infinite expose the non-clock stop conditions.
func (tc *TimeControl) FixedDepth() int   { return tc.fixedDepth }
func (tc *TimeControl) FixedNodes() int64 { return tc.fixedNodes }
func (tc *TimeControl) Infinite() bool    { return tc.infinite }
