package app

import (
	"flag"
	"testing"

	"terrafill/internal/terrain"
)

func TestBindAndOverrides(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	cfg.BindView(fs)
	err := fs.Parse([]string{
		"-side", "129", "-seed", "5", "-scale", "3",
		"-set", "beta=2.5", "-set", " lookahead = 4 ", "-set", "seed=9",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tc := cfg.Terrain()
	if tc.Side != 129 || tc.Params.Beta != 2.5 || tc.Params.SpillLookahead != 4 {
		t.Fatalf("unexpected terrain config %+v", tc)
	}
	if tc.Seed != 9 {
		t.Fatalf("-set seed should win over -seed, got %d", tc.Seed)
	}
	if cfg.Scale != 3 {
		t.Fatalf("scale = %d", cfg.Scale)
	}
	if tc.Producer != terrain.ProducerFractal {
		t.Fatalf("producer = %q", tc.Producer)
	}
}

func TestKVListRejectsMalformed(t *testing.T) {
	var l KVList
	if err := l.Set("nokey"); err == nil {
		t.Fatal("accepted an entry without '='")
	}
	if err := l.Set("a=1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := l.Set("a=2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := l.Map()["a"]; got != "2" {
		t.Fatalf("later duplicate should win, got %q", got)
	}
	if l.String() != "a=1,a=2" {
		t.Fatalf("String = %q", l.String())
	}
}
