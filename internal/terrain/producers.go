package terrain

import (
	"errors"
	"fmt"

	"terrafill/internal/core"

	"github.com/aquilax/go-perlin"
)

// Registered producer names.
const (
	ProducerFractal = "fractal"
	ProducerPerlin  = "perlin"
)

// ErrUnknownProducer is returned when a config names an unregistered producer.
var ErrUnknownProducer = errors.New("terrain: unknown producer")

func init() {
	core.Register(ProducerFractal, func(cfg map[string]string) core.Producer {
		return &fractalProducer{cfg: FromMap(cfg)}
	})
	core.Register(ProducerPerlin, func(cfg map[string]string) core.Producer {
		return &perlinProducer{cfg: FromMap(cfg)}
	})
}

type fractalProducer struct {
	cfg Config
}

func (p *fractalProducer) Name() string { return ProducerFractal }

func (p *fractalProducer) Produce(seed int64) (*core.Grid, error) {
	return Generate(p.cfg.Side, seed, p.cfg.Params)
}

// perlinProducer samples go-perlin's own octave sum over the tile, reusing
// the detail octave settings. It accepts any side.
type perlinProducer struct {
	cfg Config
}

func (p *perlinProducer) Name() string { return ProducerPerlin }

func (p *perlinProducer) Produce(seed int64) (*core.Grid, error) {
	side := p.cfg.Side
	if side < 1 {
		return nil, fmt.Errorf("%w: perlin side %d", ErrInvalidSide, side)
	}
	params := p.cfg.Params
	octaves := max(params.DetailOctaves, 1)
	noise := perlin.NewPerlin(1/params.DetailPersistence, params.DetailLacunarity, int32(octaves), seed)
	g := core.NewGrid(side)
	// Offsetting by half a cell keeps samples off the integer lattice where
	// Perlin noise is zero.
	scale := params.Crossover * 4 / float64(side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			g.Set(x, y, noise.Noise2D((float64(x)+0.5)*scale, (float64(y)+0.5)*scale))
		}
	}
	g.Normalize()
	return g, nil
}

// NewProducer resolves cfg.Producer through the registry.
func NewProducer(cfg Config) (core.Producer, error) {
	factory, ok := core.Producers()[cfg.Producer]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownProducer, cfg.Producer)
	}
	return factory(cfg.Map()), nil
}
