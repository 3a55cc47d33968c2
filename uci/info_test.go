package uci

import (
	"strings"
	"testing"
	"time"

	"github.com/kvchess/timecat/engine"
)

func TestInfoStringFormatsCentipawnScore(t *testing.T) {
	info := Info{Depth: 5, SelDepth: 7, ScoreCP: 34, Nodes: 1000, NPS: 2000, HashFull: 10, Time: 500 * time.Millisecond}
	s := info.String()
	if !strings.HasPrefix(s, "info depth 5 seldepth 7 score cp 34 ") {
		t.Errorf("unexpected info line prefix: %q", s)
	}
	if !strings.Contains(s, "nodes 1000 nps 2000 hashfull 10 time 500") {
		t.Errorf("expected nodes/nps/hashfull/time fields, got %q", s)
	}
}

func TestInfoStringFormatsMateScore(t *testing.T) {
	info := Info{Depth: 3, Mate: true, MateIn: 2}
	s := info.String()
	if !strings.Contains(s, "score mate 2 ") {
		t.Errorf("expected a mate score field, got %q", s)
	}
}

func TestInfoStringIncludesPV(t *testing.T) {
	info := Info{PV: []string{"e2e4", "e7e5"}}
	s := info.String()
	if !strings.HasSuffix(s, "pv e2e4 e7e5") {
		t.Errorf("expected the pv to be appended at the end, got %q", s)
	}
}

func TestInfoStringOmitsPVWhenEmpty(t *testing.T) {
	info := Info{}
	if strings.Contains(info.String(), "pv") {
		t.Errorf("expected no pv field for an empty PV, got %q", info.String())
	}
}

func TestToInfoClassifiesMateScore(t *testing.T) {
	pos, err := engine.NewPositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	tt := engine.NewHashTable(1)

	si := engine.SearchInfo{Depth: 4, Score: engine.MateScore - 1, Nodes: 50}
	info := toInfo(si, 100*time.Millisecond, tt, pos)
	if !info.Mate {
		t.Errorf("expected a near-MateScore score to be classified as mate")
	}
	if info.MateIn <= 0 {
		t.Errorf("expected a positive mate distance for the side delivering mate, got %d", info.MateIn)
	}
}

func TestToInfoComputesNPS(t *testing.T) {
	pos, err := engine.NewPositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("NewPositionFromFEN: %v", err)
	}
	tt := engine.NewHashTable(1)

	si := engine.SearchInfo{Depth: 1, Score: 10, Nodes: 2000}
	info := toInfo(si, time.Second, tt, pos)
	if info.NPS != 2000 {
		t.Errorf("expected NPS == 2000 for 2000 nodes in 1s, got %d", info.NPS)
	}
}
