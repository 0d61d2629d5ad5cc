// Package priorityflood removes depressions from square heightmaps so that
// every cell has a non-ascending path to a chosen outlet.
//
// The fill is a Priority-Flood variant: cells are released from a d-ary
// priority queue in order of the lowest elevation water is guaranteed to
// drain at. Depression interiors are grown with a FIFO and raised to their
// spill elevation, rising slopes are traced with a second FIFO without
// touching the priority queue, and spill candidates found close to the flood
// front are parked in a third FIFO for a short lookahead, since most of them
// are enclosed by the time the front has moved on.
package priorityflood

import (
	"fmt"

	"terrafill/pkg/dheap"
)

// Filler runs depression fills with a fixed set of Options. A Filler holds no
// per-fill state and may be shared between goroutines filling different
// heightmaps.
type Filler struct {
	opts Options
}

// NewFiller validates opts and returns a Filler using them.
func NewFiller(opts Options) (*Filler, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Filler{opts: opts}, nil
}

// Options returns the tuning the Filler was built with.
func (f *Filler) Options() Options { return f.opts }

// Fill raises every depression in heights, a row-major side x side grid, to
// its spill elevation so that water drains to seed. seed should be the global
// minimum (or designated outlet) for the drainage guarantee to hold for every
// cell. heights is modified in place and must not be accessed concurrently
// while Fill runs.
func Fill(side int, heights []float64, seed int) error {
	f := Filler{opts: DefaultOptions()}
	_, err := f.Fill(side, heights, seed)
	return err
}

// Fill is like the package-level Fill but reports statistics about the work
// performed.
func (f *Filler) Fill(side int, heights []float64, seed int) (Stats, error) {
	if err := validateGrid(side, heights, seed); err != nil {
		return Stats{}, err
	}

	capacity := max(int(float64(len(heights))*f.opts.CapacityHint), 1)
	pq, err := dheap.NewWithCacheLine[int](capacity, f.opts.CacheLineSize)
	if err != nil {
		return Stats{}, err
	}
	defer pq.Release()

	s := &fillState{
		grid:       grid{side: side},
		heights:    heights,
		processed:  make([]bool, len(heights)),
		pq:         pq,
		depression: newFIFO(side),
		slope:      newFIFO(side),
		potential:  newFIFO(side),
		lookahead:  f.opts.SpillLookahead,
	}
	defer s.release()

	if err := s.run(seed); err != nil {
		return s.stats, fmt.Errorf("priorityflood: %w", err)
	}
	return s.stats, nil
}

func validateGrid(side int, heights []float64, seed int) error {
	if side <= 0 {
		return fmt.Errorf("%w: side %d must be positive", ErrInvalidArgument, side)
	}
	if len(heights) != side*side {
		return fmt.Errorf("%w: heightmap has %d cells, want %d", ErrInvalidArgument, len(heights), side*side)
	}
	if seed < 0 || seed >= len(heights) {
		return fmt.Errorf("%w: seed %d outside [0, %d)", ErrInvalidArgument, seed, len(heights))
	}
	return nil
}

type fillState struct {
	grid
	heights   []float64
	processed []bool

	pq         *dheap.Heap[int]
	depression *fifo
	slope      *fifo
	potential  *fifo

	lookahead int
	stats     Stats
}

func (s *fillState) release() {
	s.processed = nil
	s.depression.release()
	s.slope.release()
	s.potential.release()
}

func (s *fillState) run(seed int) error {
	s.visit(seed)
	s.insert(s.heights[seed], seed)

	for !s.pq.IsEmpty() {
		spill, cell, err := s.pq.PopMin()
		if err != nil {
			return err
		}
		cx, cy := s.coords(cell)
		for _, o := range moore {
			nx, ny := cx+o.dx, cy+o.dy
			if !s.inBounds(nx, ny) {
				continue
			}
			n := s.index(nx, ny)
			if s.processed[n] {
				continue
			}
			s.visit(n)
			if s.heights[n] <= spill {
				s.raise(n, spill)
				s.depression.push(spillNode{cell: n, spill: spill})
				s.growDepression()
			} else {
				s.slope.push(spillNode{cell: n, spill: s.heights[n]})
			}
			s.traceSlope()
			s.promoteSpills()
		}
	}
	return nil
}

func (s *fillState) visit(cell int) {
	s.processed[cell] = true
	s.stats.Cells++
}

func (s *fillState) insert(key float64, cell int) {
	s.pq.Insert(key, cell)
	s.stats.Inserted++
}

func (s *fillState) raise(cell int, spill float64) {
	if h := s.heights[cell]; h < spill {
		s.stats.Raised++
		s.stats.Volume += spill - h
		s.heights[cell] = spill
	}
}

// growDepression floods outward from the queued depression cells. Neighbours
// at or below the spill elevation join the depression; higher ones are left
// at their own elevation for slope tracing.
func (s *fillState) growDepression() {
	for !s.depression.empty() {
		c := s.depression.pop()
		cx, cy := s.coords(c.cell)
		for _, o := range moore {
			nx, ny := cx+o.dx, cy+o.dy
			if !s.inBounds(nx, ny) {
				continue
			}
			n := s.index(nx, ny)
			if s.processed[n] {
				continue
			}
			s.visit(n)
			if s.heights[n] <= c.spill {
				s.raise(n, c.spill)
				s.depression.push(spillNode{cell: n, spill: c.spill})
				continue
			}
			s.slope.push(spillNode{cell: n, spill: s.heights[n]})
		}
	}
}

// traceSlope climbs the queued slope cells. A slope cell with an unprocessed
// neighbour at or below its own height is a spill candidate unless canSpill
// shows that neighbour already has a cheaper way out.
func (s *fillState) traceSlope() {
	for !s.slope.empty() {
		c := s.slope.pop()
		cx, cy := s.coords(c.cell)

		var win window
		candidate := false
		for _, o := range moore {
			nx, ny := cx+o.dx, cy+o.dy
			if !s.inBounds(nx, ny) {
				continue
			}
			n := s.index(nx, ny)
			if s.processed[n] {
				continue
			}
			if s.heights[n] > c.spill {
				s.visit(n)
				s.slope.push(spillNode{cell: n, spill: s.heights[n], depth: c.depth + 1})
				continue
			}
			if candidate {
				continue
			}
			if s.canSpill(c, o.dx, o.dy, &win) {
				s.stats.CanSpillHits++
				continue
			}
			candidate = true
		}

		if !candidate {
			continue
		}
		if c.depth <= s.lookahead {
			s.potential.push(c)
			s.stats.Deferred++
			continue
		}
		s.insert(c.spill, c.cell)
	}
}

// canSpill reports whether the unprocessed neighbour of focus at (dx, dy)
// will drain without help from focus: some cell around it is processed at a
// strictly lower elevation than focus, or is a sibling already confirmed in
// win. Confirmed neighbours are marked in win, which is centred on focus.
func (s *fillState) canSpill(focus spillNode, dx, dy int, win *window) bool {
	fx, fy := s.coords(focus.cell)
	mx, my := fx+dx, fy+dy
	for _, o := range moore {
		wx, wy := mx+o.dx, my+o.dy
		if !s.inBounds(wx, wy) {
			continue
		}
		if win.marked(dx+o.dx, dy+o.dy) {
			win.mark(dx, dy)
			return true
		}
		w := s.index(wx, wy)
		if s.processed[w] && s.heights[w] < focus.spill {
			win.mark(dx, dy)
			return true
		}
	}
	return false
}

// promoteSpills moves deferred candidates that still border unprocessed cells
// into the priority queue and drops the rest.
func (s *fillState) promoteSpills() {
	for !s.potential.empty() {
		c := s.potential.pop()
		if !s.hasOpenNeighbor(c.cell) {
			s.stats.Discarded++
			continue
		}
		s.insert(c.spill, c.cell)
		s.stats.Promoted++
	}
}

func (s *fillState) hasOpenNeighbor(cell int) bool {
	cx, cy := s.coords(cell)
	for _, o := range moore {
		nx, ny := cx+o.dx, cy+o.dy
		if s.inBounds(nx, ny) && !s.processed[s.index(nx, ny)] {
			return true
		}
	}
	return false
}
