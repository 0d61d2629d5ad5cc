package core

import "math"

// Grid stores a square heightmap in row-major order.
type Grid struct {
	Side int
	data []float64
}

// NewGrid allocates a side x side grid of zero heights.
func NewGrid(side int) *Grid {
	if side <= 0 {
		side = 1
	}
	return &Grid{Side: side, data: make([]float64, side*side)}
}

// WrapGrid adopts heights as the backing store of a grid. It returns false if
// the length is not a perfect square.
func WrapGrid(heights []float64) (*Grid, bool) {
	side := int(math.Sqrt(float64(len(heights))))
	for side*side > len(heights) {
		side--
	}
	for (side+1)*(side+1) <= len(heights) {
		side++
	}
	if side == 0 || side*side != len(heights) {
		return nil, false
	}
	return &Grid{Side: side, data: heights}, true
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []float64 { return g.data }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.data) }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.Side + x }

// Coords is the inverse of Index.
func (g *Grid) Coords(i int) (int, int) { return i % g.Side, i / g.Side }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Side && y < g.Side
}

// At returns the height at (x, y).
func (g *Grid) At(x, y int) float64 { return g.data[g.Index(x, y)] }

// Set stores h at (x, y).
func (g *Grid) Set(x, y int, h float64) { g.data[g.Index(x, y)] = h }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{Side: g.Side, data: make([]float64, len(g.data))}
	copy(out.data, g.data)
	return out
}

// ArgMin returns the index of the lowest cell. Ties resolve to the first in
// row-major order.
func (g *Grid) ArgMin() int {
	best := 0
	for i, h := range g.data {
		if h < g.data[best] {
			best = i
		}
	}
	return best
}

// Range returns the lowest and highest heights.
func (g *Grid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, h := range g.data {
		lo = math.Min(lo, h)
		hi = math.Max(hi, h)
	}
	return lo, hi
}

// Sum adds up every height.
func (g *Grid) Sum() float64 {
	total := 0.0
	for _, h := range g.data {
		total += h
	}
	return total
}

// Normalize rescales heights linearly into [0, 1]. A flat grid becomes all
// zeros.
func (g *Grid) Normalize() {
	lo, hi := g.Range()
	span := hi - lo
	for i, h := range g.data {
		if span == 0 {
			g.data[i] = 0
			continue
		}
		g.data[i] = (h - lo) / span
	}
}
