package terrain

import (
	"errors"
	"fmt"
	"math"

	"terrafill/internal/core"
	rng "terrafill/pkg/core"

	"github.com/aquilax/go-perlin"
)

// ErrInvalidSide is returned when a producer cannot build a grid of the
// requested side.
var ErrInvalidSide = errors.New("terrain: invalid side")

// crossoverThresholds gates perturbation at coarse levels: a lattice point
// is perturbed only where the crossover noise exceeds the threshold for the
// level's square count. Finer levels always perturb.
var crossoverThresholds = []struct {
	below     int
	threshold float64
}{
	{4, 0.65},
	{8, 0.60},
	{16, 0.55},
	{32, 0.50},
	{64, 0.30},
	{128, 0.20},
	{256, 0.10},
}

// Generate synthesises a fractal heightmap by repeated subdivision. The
// corner lattice starts flat; at each level the lattice points are
// perturbed by up to 1/f^beta, where f doubles per level, and then midpoints
// are interpolated with Catmull-Rom splines. side must be 2^k+1. The result
// is normalised into [0, 1].
func Generate(side int, seed int64, p Params) (*core.Grid, error) {
	if side < 1 || (side > 1 && (side-1)&(side-2) != 0) {
		return nil, fmt.Errorf("%w: fractal side %d is not 2^k+1", ErrInvalidSide, side)
	}
	g := core.NewGrid(side)
	if side == 1 {
		return g, nil
	}

	r := rng.NewRNG(seed)
	m := newCrossoverMask(side, p.Crossover, r)
	span := side - 1
	frequency := 1.0
	for step := span; step > 1; step /= 2 {
		perturb(g, step, frequency, p.Beta, m, r)
		subdivide(g, step)
		frequency *= 2
	}
	g.Normalize()
	return g, nil
}

func perturb(g *core.Grid, step int, frequency, beta float64, m *crossoverMask, r *rng.RNG) {
	amplitude := 1 / math.Pow(frequency, beta)
	squares := (g.Side - 1) / step
	for y := 0; y < g.Side; y += step {
		for x := 0; x < g.Side; x += step {
			if !m.active(x, y, squares) {
				continue
			}
			g.Set(x, y, g.At(x, y)+r.Float64()*amplitude)
		}
	}
}

// subdivide fills the points halfway between lattice points spaced step
// apart. Samples past the border are mirrored back inside.
func subdivide(g *core.Grid, step int) {
	half := step / 2
	last := g.Side - 1
	at := func(x, y int) float64 { return g.At(mirror(x, last), mirror(y, last)) }
	row := func(x, y int) float64 {
		return catmullMidpoint(at(x-step, y), at(x, y), at(x+step, y), at(x+2*step, y))
	}

	for y := 0; y < g.Side; y += step {
		for x := 0; x < last; x += step {
			g.Set(x+half, y, row(x, y))
		}
	}
	for y := 0; y < last; y += step {
		for x := 0; x < g.Side; x += step {
			g.Set(x, y+half, catmullMidpoint(at(x, y-step), at(x, y), at(x, y+step), at(x, y+2*step)))
		}
	}
	for y := 0; y < last; y += step {
		for x := 0; x < last; x += step {
			g.Set(x+half, y+half, catmullMidpoint(row(x, y-step), row(x, y), row(x, y+step), row(x, y+2*step)))
		}
	}
}

// catmullMidpoint evaluates the Catmull-Rom spline through p1 and p2 at t=0.5.
func catmullMidpoint(p0, p1, p2, p3 float64) float64 {
	return (9*(p1+p2) - p0 - p3) / 16
}

// mirror reflects n into [0, last].
func mirror(n, last int) int {
	if last == 0 {
		return 0
	}
	period := 2 * last
	n %= period
	if n < 0 {
		n += period
	}
	if n > last {
		n = period - n
	}
	return n
}

type crossoverMask struct {
	noise  *perlin.Perlin
	scale  float64
	offX   float64
	offY   float64
	invMax float64
}

func newCrossoverMask(side int, scale float64, r *rng.RNG) *crossoverMask {
	return &crossoverMask{
		noise:  perlin.NewPerlin(2, 2, 6, r.Int64()),
		scale:  scale,
		offX:   r.Offset(1000),
		offY:   r.Offset(1000),
		invMax: 1 / float64(side-1),
	}
}

func (m *crossoverMask) active(x, y, squares int) bool {
	if squares < 2 {
		return false
	}
	for _, level := range crossoverThresholds {
		if squares < level.below {
			return m.sample(x, y) > level.threshold
		}
	}
	return true
}

// sample maps the crossover noise at a grid point into [0, 1].
func (m *crossoverMask) sample(x, y int) float64 {
	px := float64(x)*m.invMax*m.scale + m.offX
	py := float64(y)*m.invMax*m.scale + m.offY
	return clamp((m.noise.Noise2D(px, py)+1)/2, 0, 1)
}
