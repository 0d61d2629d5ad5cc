package terrain

import (
	"testing"

	"terrafill/internal/core"
)

func TestLookaheadSweepResultsMatch(t *testing.T) {
	var raws []*core.Grid
	for seed := int64(1); seed <= 3; seed++ {
		g, err := Generate(33, seed, DefaultConfig().Params)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		raws = append(raws, g)
	}
	lookaheads := []int{0, 2, 8}
	cacheLines := []int{16, 64, 128}
	trials, err := LookaheadSweep(raws, lookaheads, cacheLines, 2, 3)
	if err != nil {
		t.Fatalf("LookaheadSweep: %v", err)
	}
	if len(trials) != len(lookaheads)*len(cacheLines) {
		t.Fatalf("got %d trials", len(trials))
	}
	for i, tr := range trials {
		if !tr.Matches {
			t.Fatalf("trial %d (%+v) filled differently", i, tr.Options)
		}
		if tr.Stats.Cells != 3*33*33 {
			t.Fatalf("trial %d processed %d cells", i, tr.Stats.Cells)
		}
		wantLA := lookaheads[i/len(cacheLines)]
		wantCL := cacheLines[i%len(cacheLines)]
		if tr.Options.SpillLookahead != wantLA || tr.Options.CacheLineSize != wantCL {
			t.Fatalf("trial %d out of order: %+v", i, tr.Options)
		}
	}
	if trials[0].Stats.Raised != trials[len(trials)-1].Stats.Raised {
		t.Fatal("raised cell count depends on options")
	}
}

func TestLookaheadSweepRejectsBadOptions(t *testing.T) {
	raws := []*core.Grid{core.NewGrid(4)}
	if _, err := LookaheadSweep(raws, []int{-1}, []int{64}, 1, 1); err == nil {
		t.Fatal("negative lookahead accepted")
	}
	if trials, err := LookaheadSweep(nil, []int{1}, []int{64}, 1, 1); err != nil || trials != nil {
		t.Fatalf("empty sweep = %v, %v", trials, err)
	}
}
