package terrain

import (
	"testing"

	"terrafill/internal/core"
)

func TestFromMapParsesAndClamps(t *testing.T) {
	cfg := FromMap(map[string]string{
		"side":               "129",
		"seed":               "-4",
		"producer":           "perlin",
		"beta":               "2.5",
		"lookahead":          "7",
		"talus_angle":        "120",
		"relaxation":         "0.9",
		"deposition":         "-1",
		"detail_octaves":     "40",
		"detail_persistence": "1",
		"erosion_iterations": "nope",
		"unknown":            "1",
	})
	def := DefaultConfig()
	if cfg.Side != 129 || cfg.Seed != -4 || cfg.Producer != ProducerPerlin {
		t.Fatalf("tile fields not parsed: %+v", cfg)
	}
	if cfg.Params.Beta != 2.5 || cfg.Params.SpillLookahead != 7 {
		t.Fatalf("params not parsed: %+v", cfg.Params)
	}
	if cfg.Params.TalusAngle != 89 || cfg.Params.Relaxation != 0.5 || cfg.Params.Deposition != 0 {
		t.Fatalf("erosion params not clamped: %+v", cfg.Params)
	}
	if cfg.Params.DetailOctaves != 16 {
		t.Fatalf("detail octaves = %d, want 16", cfg.Params.DetailOctaves)
	}
	if cfg.Params.DetailPersistence != def.Params.DetailPersistence {
		t.Fatalf("persistence 1 should be rejected, got %v", cfg.Params.DetailPersistence)
	}
	if cfg.Params.ErosionIterations != def.Params.ErosionIterations {
		t.Fatalf("unparsable iterations should keep default, got %d", cfg.Params.ErosionIterations)
	}
}

func TestFromMapNil(t *testing.T) {
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("FromMap(nil) should return the defaults")
	}
}

func TestMapRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Side = 65
	cfg.Seed = 42
	cfg.Params.Beta = 1.7
	cfg.Params.Extent = 12345.5
	cfg.Params.DetailDisplacement = 0.015
	if got := FromMap(cfg.Map()); got != cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestStringIsCanonical(t *testing.T) {
	a := DefaultConfig()
	b := FromMap(a.Map())
	if a.String() != b.String() {
		t.Fatalf("equal configs render differently: %q vs %q", a.String(), b.String())
	}
	b.Seed++
	if a.String() == b.String() {
		t.Fatal("different seeds render the same key")
	}
}

func TestParametersCoverMap(t *testing.T) {
	cfg := DefaultConfig()
	snap := cfg.Parameters()
	for key, value := range cfg.Map() {
		p, ok := snap.Lookup(key)
		if !ok {
			t.Fatalf("parameter %q missing from snapshot", key)
		}
		if p.Type == core.ParamTypeFloat {
			continue
		}
		if p.Value != value {
			t.Fatalf("parameter %q = %q, want %q", key, p.Value, value)
		}
	}
	for _, ctrl := range ParameterControls() {
		if _, ok := snap.Lookup(ctrl.Key); !ok {
			t.Fatalf("control %q has no parameter", ctrl.Key)
		}
	}
}
