package terrain

import (
	"math"

	"terrafill/internal/core"
	rng "terrafill/pkg/core"

	"github.com/aquilax/go-perlin"
)

// Fractal is a seeded multi-octave Perlin sum normalised into
// [0, maxDisplacement].
type Fractal struct {
	octaves     []*perlin.Perlin
	offsets     [][2]float64
	lacunarity  float64
	persistence float64
	scale       float64
	maxDisp     float64
	norm        float64
}

// NewFractal builds the detail fractal described by p. Each octave samples
// its own noise field at a random offset.
func NewFractal(seed int64, p Params) *Fractal {
	r := rng.NewRNG(seed)
	f := &Fractal{
		lacunarity:  p.DetailLacunarity,
		persistence: p.DetailPersistence,
		scale:       p.DetailScale,
		maxDisp:     p.DetailDisplacement,
	}
	for o := 0; o < p.DetailOctaves; o++ {
		f.octaves = append(f.octaves, perlin.NewPerlin(2, 2, 1, r.Int64()))
		f.offsets = append(f.offsets, [2]float64{r.Offset(1000), r.Offset(1000)})
	}
	// Geometric series of the amplitudes, scale factor included.
	if p.DetailPersistence == 1 {
		f.norm = p.DetailScale * float64(p.DetailOctaves)
	} else {
		f.norm = p.DetailScale * (1 - math.Pow(p.DetailPersistence, float64(p.DetailOctaves))) / (1 - p.DetailPersistence)
	}
	return f
}

// Sample evaluates the fractal at normalised tile coordinates (u, v).
func (f *Fractal) Sample(u, v float64) float64 {
	if len(f.octaves) == 0 || f.norm <= 0 {
		return 0
	}
	amplitude, frequency := f.scale, f.scale
	sum := 0.0
	for i, noise := range f.octaves {
		n := (noise.Noise2D(f.offsets[i][0]+frequency*u, f.offsets[i][1]+frequency*v) + 1) / 2
		sum += amplitude * n
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}
	return clamp(sum/f.norm, 0, 1) * f.maxDisp
}

// Detail re-adds small scale relief lost to erosion, clamping the result
// into [0, 1].
func Detail(g *core.Grid, seed int64, p Params) {
	if p.DetailOctaves <= 0 || p.DetailDisplacement <= 0 {
		return
	}
	f := NewFractal(seed, p)
	span := float64(max(g.Side-1, 1))
	for y := 0; y < g.Side; y++ {
		for x := 0; x < g.Side; x++ {
			h := g.At(x, y) + f.Sample(float64(x)/span, float64(y)/span)
			g.Set(x, y, clamp(h, 0, 1))
		}
	}
}
