package terrain

import (
	"math"

	"terrafill/internal/core"
)

// Erode applies thermal erosion in place. A cell whose mean downhill slope,
// measured in world units, exceeds the talus slope is lowered by the excess
// scaled by p.Relaxation. A fraction p.Deposition of the removed material is
// spread over the downhill neighbours in proportion to how far each one
// exceeds the talus slope. Cells are swept in row-major order and updates
// are visible to later cells of the same sweep.
func Erode(g *core.Grid, p Params) {
	if g.Side < 2 || p.ErosionIterations <= 0 || p.HeightScale <= 0 || p.Extent <= 0 {
		return
	}
	e := newEroder(g, p)
	for it := 0; it < p.ErosionIterations; it++ {
		for y := 0; y < g.Side; y++ {
			for x := 0; x < g.Side; x++ {
				e.erodeCell(x, y)
			}
		}
	}
}

type eroder struct {
	g     *core.Grid
	p     Params
	talus float64
	// dist holds the world-space horizontal distance to each Moore
	// neighbour, indexed [dy+1][dx+1].
	dist [3][3]float64
}

func newEroder(g *core.Grid, p Params) *eroder {
	step := p.Extent / float64(g.Side-1)
	diag := step * math.Sqrt2
	return &eroder{
		g:     g,
		p:     p,
		talus: math.Tan(p.TalusAngle * math.Pi / 180),
		dist: [3][3]float64{
			{diag, step, diag},
			{step, 0, step},
			{diag, step, diag},
		},
	}
}

// slope is the world-space gradient from a cell at h down to a neighbour at hi.
func (e *eroder) slope(h, hi float64, dx, dy int) float64 {
	return (h - hi) * e.p.HeightScale / e.dist[dy+1][dx+1]
}

func (e *eroder) erodeCell(x, y int) {
	h := e.g.At(x, y)
	sum, talusSum := 0.0, 0.0
	e.downhill(x, y, h, func(nx, ny int, grad float64) {
		sum += grad
		if grad > e.talus {
			talusSum += grad - e.talus
		}
	})
	if sum/2 <= e.talus {
		return
	}
	dhdt := (e.talus - sum/2) * e.p.Relaxation
	if dhdt >= 0 {
		return
	}
	e.g.Set(x, y, h+dhdt/e.p.HeightScale)

	if e.p.Deposition <= 0 || talusSum <= 0 {
		return
	}
	deposit := -dhdt * e.p.Deposition / e.p.HeightScale
	e.downhill(x, y, h, func(nx, ny int, grad float64) {
		if grad > e.talus {
			e.g.Set(nx, ny, e.g.At(nx, ny)+deposit*(grad-e.talus)/talusSum)
		}
	})
}

// downhill calls fn for every in-grid neighbour strictly below h.
func (e *eroder) downhill(x, y int, h float64, fn func(nx, ny int, grad float64)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !e.g.InBounds(nx, ny) {
				continue
			}
			if hi := e.g.At(nx, ny); hi < h {
				fn(nx, ny, e.slope(h, hi, dx, dy))
			}
		}
	}
}
