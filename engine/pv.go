// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

// pvTable is a triangular principal-variation table: pv[ply] holds the
// best line found from ply downward. Grounded on the teacher's pv.go.
type pvTable struct {
	line   [MaxPly + 1][MaxPly + 1]Move
	length [MaxPly + 1]int
}

func (t *pvTable) set(ply int, m Move) {
	t.line[ply][0] = m
	n := t.length[ply+1]
	copy(t.line[ply][1:1+n], t.line[ply+1][:n])
	t.length[ply] = n + 1
}

func (t *pvTable) reset(ply int) {
	t.length[ply] = 0
}

// PV returns the principal variation found at the root.
func (t *pvTable) PV() []Move {
	return append([]Move(nil), t.line[0][:t.length[0]]...)
}
