package uci

import (
	"fmt"
	"strings"
	"time"

	"github.com/kvchess/timecat/engine"
)

// Info is a UCI "info" line's fields, formatted by String per
// spec.md §6: "info depth D seldepth S score (cp X | mate N) nodes N
// nps R hashfull H time T pv m1 m2 ...".
type Info struct {
	Depth    int
	SelDepth int
	ScoreCP  int
	Mate     bool
	MateIn   int
	Nodes    int64
	NPS      int64
	HashFull int
	Time     time.Duration
	PV       []string
}

func toInfo(si engine.SearchInfo, elapsed time.Duration, tt *engine.HashTable, pos *engine.Position) Info {
	info := Info{
		Depth:    si.Depth,
		SelDepth: si.SelDepth,
		Nodes:    si.Nodes,
		HashFull: tt.HashFull(),
		Time:     elapsed,
	}
	for _, m := range si.PV {
		info.PV = append(info.PV, pos.MoveToUCI(m))
	}
	if elapsed > 0 {
		info.NPS = int64(float64(si.Nodes) / elapsed.Seconds())
	}

	abs := si.Score
	if abs < 0 {
		abs = -abs
	}
	if abs >= engine.MateScore-engine.MaxPly {
		info.Mate = true
		mateDist := (engine.MateScore - abs + 1) / 2
		if si.Score < 0 {
			mateDist = -mateDist
		}
		info.MateIn = mateDist
	} else {
		info.ScoreCP = si.Score
	}
	return info
}

// String renders the UCI info line.
func (info Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "info depth %d seldepth %d ", info.Depth, info.SelDepth)
	if info.Mate {
		fmt.Fprintf(&b, "score mate %d ", info.MateIn)
	} else {
		fmt.Fprintf(&b, "score cp %d ", info.ScoreCP)
	}
	fmt.Fprintf(&b, "nodes %d nps %d hashfull %d time %d",
		info.Nodes, info.NPS, info.HashFull, info.Time.Milliseconds())
	if len(info.PV) > 0 {
		b.WriteString(" pv ")
		b.WriteString(strings.Join(info.PV, " "))
	}
	return b.String()
}
