package terrain

import (
	"errors"
	"slices"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	p := DefaultConfig().Params
	a, err := Generate(65, 9, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(65, 9, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("same seed produced different heightmaps")
	}
	c, err := Generate(65, 10, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if slices.Equal(a.Cells(), c.Cells()) {
		t.Fatal("different seeds produced identical heightmaps")
	}
	if lo, hi := a.Range(); lo != 0 || hi != 1 {
		t.Fatalf("heights span [%v, %v], want [0, 1]", lo, hi)
	}
}

func TestGenerateRejectsBadSide(t *testing.T) {
	p := DefaultConfig().Params
	for _, side := range []int{0, -3, 64, 100} {
		if _, err := Generate(side, 1, p); !errors.Is(err, ErrInvalidSide) {
			t.Fatalf("side %d: err = %v, want ErrInvalidSide", side, err)
		}
	}
	for _, side := range []int{1, 2, 3, 17} {
		g, err := Generate(side, 1, p)
		if err != nil {
			t.Fatalf("side %d: %v", side, err)
		}
		if g.Side != side {
			t.Fatalf("side %d: grid side %d", side, g.Side)
		}
	}
}

func TestCatmullMidpointReproducesLines(t *testing.T) {
	if got := catmullMidpoint(0, 1, 2, 3); got != 1.5 {
		t.Fatalf("midpoint of a line = %v, want 1.5", got)
	}
	if got := catmullMidpoint(4, 4, 4, 4); got != 4 {
		t.Fatalf("midpoint of a constant = %v, want 4", got)
	}
}

func TestMirror(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0}, {3, 3}, {8, 8}, {-1, 1}, {-8, 8}, {9, 7}, {16, 0}, {17, 1}, {-9, 7},
	}
	for _, tc := range cases {
		if got := mirror(tc.n, 8); got != tc.want {
			t.Fatalf("mirror(%d, 8) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestPerlinProducerAnySide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Side = 50
	cfg.Producer = ProducerPerlin
	p, err := NewProducer(cfg)
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	g, err := p.Produce(3)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if g.Side != 50 {
		t.Fatalf("side = %d", g.Side)
	}
	if lo, hi := g.Range(); lo != 0 || hi != 1 {
		t.Fatalf("heights span [%v, %v], want [0, 1]", lo, hi)
	}
}

func TestNewProducerUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Producer = "voronoi"
	if _, err := NewProducer(cfg); !errors.Is(err, ErrUnknownProducer) {
		t.Fatalf("err = %v, want ErrUnknownProducer", err)
	}
}
