package terrain

import (
	"errors"
	"slices"
	"testing"

	"terrafill/pkg/priorityflood"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Side = 65
	cfg.Seed = 21
	cfg.Params.ErosionIterations = 4
	return cfg
}

func TestBakeFilledDrainsToOutlet(t *testing.T) {
	for _, producer := range []string{ProducerFractal, ProducerPerlin} {
		cfg := smallConfig()
		cfg.Producer = producer
		tile, err := Bake(cfg)
		if err != nil {
			t.Fatalf("%s: Bake: %v", producer, err)
		}
		if tile.Outlet != tile.Raw.ArgMin() {
			t.Fatalf("%s: outlet %d is not the raw minimum", producer, tile.Outlet)
		}
		undrained, err := priorityflood.Undrained(tile.Filled.Side, tile.Filled.Cells(), tile.Outlet)
		if err != nil {
			t.Fatalf("%s: Undrained: %v", producer, err)
		}
		if len(undrained) != 0 {
			t.Fatalf("%s: %d undrained cells", producer, len(undrained))
		}
		for i, h := range tile.Filled.Cells() {
			if h < tile.Raw.Cells()[i] {
				t.Fatalf("%s: cell %d lowered by the fill", producer, i)
			}
		}
		if lo, hi := tile.Final.Range(); lo < 0 || hi > 1 {
			t.Fatalf("%s: final heights span [%v, %v]", producer, lo, hi)
		}
		if tile.Fill.Cells != cfg.Side*cfg.Side {
			t.Fatalf("%s: fill processed %d cells", producer, tile.Fill.Cells)
		}
	}
}

func TestBakeTimingsOrder(t *testing.T) {
	tile, err := Bake(smallConfig())
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	want := []string{PhaseProduce, PhaseFill, PhaseVerify, PhaseErode, PhaseDetail}
	var got []string
	for _, p := range tile.Timings {
		got = append(got, p.Name)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("phases = %v, want %v", got, want)
	}
}

func TestBakeLookaheadDoesNotChangeResult(t *testing.T) {
	cfg := smallConfig()
	cfg.Params.SpillLookahead = 0
	a, err := Bake(cfg)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	cfg.Params.SpillLookahead = 6
	b, err := Bake(cfg)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if !slices.Equal(a.Filled.Cells(), b.Filled.Cells()) {
		t.Fatal("filled heights depend on the lookahead")
	}
	if !slices.Equal(a.Final.Cells(), b.Final.Cells()) {
		t.Fatal("final heights depend on the lookahead")
	}
}

func TestBakeErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.Side = 64
	if _, err := Bake(cfg); !errors.Is(err, ErrInvalidSide) {
		t.Fatalf("err = %v, want ErrInvalidSide", err)
	}
	cfg = smallConfig()
	cfg.Producer = "missing"
	if _, err := Bake(cfg); !errors.Is(err, ErrUnknownProducer) {
		t.Fatalf("err = %v, want ErrUnknownProducer", err)
	}
	cfg = smallConfig()
	cfg.Params.SpillLookahead = -1
	if _, err := Bake(cfg); !errors.Is(err, priorityflood.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSessionEdits(t *testing.T) {
	cfg := smallConfig()
	cfg.Side = 33
	s := NewSession(cfg)
	if !s.Dirty() {
		t.Fatal("new session should be dirty")
	}
	tile, err := s.Tile()
	if err != nil || tile == nil {
		t.Fatalf("Tile: %v", err)
	}
	if s.Dirty() {
		t.Fatal("session still dirty after bake")
	}
	if again, _ := s.Tile(); again != tile {
		t.Fatal("clean session rebaked")
	}

	if !s.SetFloatParameter("beta", 2.5) {
		t.Fatal("beta edit rejected")
	}
	if s.SetFloatParameter("beta", 2.5) {
		t.Fatal("no-op edit reported as a change")
	}
	if s.SetFloatParameter("detail_persistence", 1.5) {
		t.Fatal("invalid persistence accepted")
	}
	if s.SetIntParameter("no_such_key", 1) {
		t.Fatal("unknown key accepted")
	}
	if !s.SetIntParameter("erosion_iterations", 8) || s.Config().Params.ErosionIterations != 8 {
		t.Fatal("iteration edit not applied")
	}
	if !s.Dirty() {
		t.Fatal("edits did not mark the session dirty")
	}
	next, err := s.Tile()
	if err != nil || next == tile {
		t.Fatalf("edited session did not rebake: %v", err)
	}
	s.Reseed(s.Config().Seed)
	if s.Dirty() {
		t.Fatal("reseeding with the same seed marked the session dirty")
	}
}
