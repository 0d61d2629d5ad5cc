package priorityflood

import (
	"container/heap"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func argmin(heights []float64) int {
	best := 0
	for i, h := range heights {
		if h < heights[best] {
			best = i
		}
	}
	return best
}

// noisyGrid returns uniform noise, which is riddled with single-cell pits.
func noisyGrid(side int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, 1))
	heights := make([]float64, side*side)
	for i := range heights {
		heights[i] = rng.Float64()
	}
	return heights
}

// terracedGrid quantises noise into a few levels so that flats and ties are
// everywhere.
func terracedGrid(side int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, 2))
	heights := make([]float64, side*side)
	for i := range heights {
		heights[i] = float64(rng.IntN(4))
	}
	return heights
}

// ridgedGrid layers a few sine ridges with noise to produce large basins with
// long rising slopes between them.
func ridgedGrid(side int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, 3))
	fx, fy := 1+rng.Float64()*4, 1+rng.Float64()*4
	heights := make([]float64, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			u, v := float64(x)/float64(side), float64(y)/float64(side)
			h := math.Sin(u*fx*math.Pi)*math.Cos(v*fy*math.Pi) + 0.6*math.Sin((u+v)*7)
			heights[y*side+x] = h + rng.Float64()*0.05
		}
	}
	return heights
}

type heightEntry struct {
	h    float64
	cell int
}

type referenceQueue []heightEntry

func (q referenceQueue) Len() int           { return len(q) }
func (q referenceQueue) Less(i, j int) bool { return q[i].h < q[j].h }
func (q referenceQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *referenceQueue) Push(x any)        { *q = append(*q, x.(heightEntry)) }
func (q *referenceQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// referenceFill is the textbook Priority-Flood: every frontier cell goes
// through the priority queue.
func referenceFill(side int, heights []float64, seed int) {
	g := grid{side: side}
	closed := make([]bool, len(heights))
	open := &referenceQueue{{h: heights[seed], cell: seed}}
	closed[seed] = true
	for open.Len() > 0 {
		c := heap.Pop(open).(heightEntry)
		cx, cy := g.coords(c.cell)
		for _, o := range moore {
			nx, ny := cx+o.dx, cy+o.dy
			if !g.inBounds(nx, ny) {
				continue
			}
			n := g.index(nx, ny)
			if closed[n] {
				continue
			}
			closed[n] = true
			if heights[n] < c.h {
				heights[n] = c.h
			}
			heap.Push(open, heightEntry{h: heights[n], cell: n})
		}
	}
}

func assertDrains(t *testing.T, side int, heights []float64, seed int) {
	t.Helper()
	dirs, err := FlowDirections(side, heights, seed)
	if err != nil {
		t.Fatalf("FlowDirections: %v", err)
	}
	for start := range heights {
		cell := start
		for steps := 0; cell != seed; steps++ {
			if steps > len(heights) {
				t.Fatalf("walk from %d did not reach seed %d", start, seed)
			}
			d := dirs[cell]
			if d == NoFlow {
				t.Fatalf("walk from %d stalled at %d (h=%v)", start, cell, heights[cell])
			}
			dx, dy := Offset(d)
			next := (cell/side+dy)*side + cell%side + dx
			if heights[next] > heights[cell] {
				t.Fatalf("walk from %d ascends %v -> %v", start, heights[cell], heights[next])
			}
			cell = next
		}
	}
}

func TestFillRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		side    int
		heights []float64
		seed    int
	}{
		{"zero side", 0, nil, 0},
		{"negative side", -3, make([]float64, 9), 0},
		{"short buffer", 3, make([]float64, 8), 0},
		{"long buffer", 3, make([]float64, 10), 0},
		{"negative seed", 3, make([]float64, 9), -1},
		{"seed past end", 3, make([]float64, 9), 9},
	}
	for _, tc := range cases {
		if err := Fill(tc.side, tc.heights, tc.seed); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestNewFillerRejectsInvalidOptions(t *testing.T) {
	bad := []Options{
		{SpillLookahead: -1, CacheLineSize: 64, CapacityHint: 0.3},
		{SpillLookahead: 2, CacheLineSize: 0, CapacityHint: 0.3},
		{SpillLookahead: 2, CacheLineSize: 64, CapacityHint: 0},
		{SpillLookahead: 2, CacheLineSize: 64, CapacityHint: 1.5},
		{SpillLookahead: 2, CacheLineSize: 64, CapacityHint: math.NaN()},
	}
	for _, opts := range bad {
		if _, err := NewFiller(opts); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("options %+v: expected ErrInvalidArgument, got %v", opts, err)
		}
	}
	if _, err := NewFiller(DefaultOptions()); err != nil {
		t.Fatalf("default options rejected: %v", err)
	}
}

func TestBowlCentreRaisedToRimMinimum(t *testing.T) {
	const side = 5
	heights := make([]float64, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			rim := x == 0 || y == 0 || x == side-1 || y == side-1
			if rim {
				heights[y*side+x] = 10
			} else {
				heights[y*side+x] = float64(1 + (x+y)%3)
			}
		}
	}
	const seed = 2 // top edge, middle
	heights[seed] = 8
	input := slices.Clone(heights)

	f, err := NewFiller(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	stats, err := f.Fill(side, heights, seed)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}

	wantVolume := 0.0
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			idx := y*side + x
			rim := x == 0 || y == 0 || x == side-1 || y == side-1
			if rim {
				if heights[idx] != input[idx] {
					t.Fatalf("rim cell (%d,%d) changed %v -> %v", x, y, input[idx], heights[idx])
				}
				continue
			}
			if heights[idx] != 8 {
				t.Fatalf("centre cell (%d,%d) = %v, want 8", x, y, heights[idx])
			}
			wantVolume += 8 - input[idx]
		}
	}
	if stats.Raised != 9 {
		t.Fatalf("expected 9 raised cells, got %d", stats.Raised)
	}
	if stats.Volume != wantVolume {
		t.Fatalf("expected volume %v, got %v", wantVolume, stats.Volume)
	}
	if stats.Cells != side*side {
		t.Fatalf("expected every cell processed, got %d", stats.Cells)
	}
}

func TestFlatGridUnchanged(t *testing.T) {
	const side = 7
	heights := make([]float64, side*side)
	for i := range heights {
		heights[i] = 3.5
	}
	stats, err := (&Filler{opts: DefaultOptions()}).Fill(side, heights, 24)
	if err != nil {
		t.Fatal(err)
	}
	for i, h := range heights {
		if h != 3.5 {
			t.Fatalf("cell %d changed to %v", i, h)
		}
	}
	if stats.Raised != 0 || stats.Volume != 0 {
		t.Fatalf("flat grid should not be raised, got %+v", stats)
	}
}

func TestSingleCellGrid(t *testing.T) {
	heights := []float64{4}
	if err := Fill(1, heights, 0); err != nil {
		t.Fatal(err)
	}
	if heights[0] != 4 {
		t.Fatalf("single cell changed to %v", heights[0])
	}
}

func TestFillMatchesReferenceAndDrains(t *testing.T) {
	type generator func(side int, seed uint64) []float64
	gens := map[string]generator{
		"noise":    noisyGrid,
		"terraced": terracedGrid,
		"ridged":   ridgedGrid,
	}
	sides := []int{2, 3, 8, 33, 64}
	lookaheads := []int{0, 1, 2, 5}

	for name, gen := range gens {
		for _, side := range sides {
			for s := uint64(0); s < 3; s++ {
				input := gen(side, s)
				seed := argmin(input)

				want := slices.Clone(input)
				referenceFill(side, want, seed)

				for _, la := range lookaheads {
					opts := DefaultOptions()
					opts.SpillLookahead = la
					f, err := NewFiller(opts)
					if err != nil {
						t.Fatal(err)
					}
					got := slices.Clone(input)
					stats, err := f.Fill(side, got, seed)
					if err != nil {
						t.Fatalf("%s side=%d lookahead=%d: %v", name, side, la, err)
					}
					if !slices.Equal(want, got) {
						t.Fatalf("%s side=%d seed=%d lookahead=%d: result differs from reference", name, side, s, la)
					}
					if stats.Cells != side*side {
						t.Fatalf("%s side=%d: processed %d of %d cells", name, side, stats.Cells, side*side)
					}
					if stats.Promoted+stats.Discarded != stats.Deferred {
						t.Fatalf("%s side=%d: deferred %d != promoted %d + discarded %d",
							name, side, stats.Deferred, stats.Promoted, stats.Discarded)
					}
					assertDrains(t, side, got, seed)
				}
			}
		}
	}
}

func TestFillFromNonMinimumOutlet(t *testing.T) {
	const side = 24
	input := ridgedGrid(side, 9)
	seed := side*side/2 + 5

	want := slices.Clone(input)
	referenceFill(side, want, seed)

	got := slices.Clone(input)
	if err := Fill(side, got, seed); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(want, got) {
		t.Fatal("fill from an interior outlet differs from reference")
	}
	for i, h := range got {
		if h < got[seed] {
			t.Fatalf("cell %d left below the outlet: %v < %v", i, h, got[seed])
		}
	}
	assertDrains(t, side, got, seed)
}

func TestFillMonotonicAndIdempotent(t *testing.T) {
	const side = 65
	for s := uint64(0); s < 4; s++ {
		input := noisyGrid(side, s+100)
		seed := argmin(input)

		once := slices.Clone(input)
		if err := Fill(side, once, seed); err != nil {
			t.Fatal(err)
		}
		for i := range input {
			if once[i] < input[i] {
				t.Fatalf("cell %d lowered %v -> %v", i, input[i], once[i])
			}
		}

		twice := slices.Clone(once)
		f, _ := NewFiller(DefaultOptions())
		stats, err := f.Fill(side, twice, seed)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(once, twice) {
			t.Fatal("second fill changed the heightmap")
		}
		if stats.Raised != 0 {
			t.Fatalf("second fill raised %d cells", stats.Raised)
		}
	}
}

func TestFilledGridHasNoPits(t *testing.T) {
	const side = 48
	input := noisyGrid(side, 42)
	seed := argmin(input)

	pits, err := LocalMinima(side, input, seed)
	if err != nil {
		t.Fatal(err)
	}
	if len(pits) == 0 {
		t.Fatal("expected noise to contain pits before filling")
	}
	undrained, err := Undrained(side, input, seed)
	if err != nil {
		t.Fatal(err)
	}
	if len(undrained) == 0 {
		t.Fatal("expected undrained cells before filling")
	}

	if err := Fill(side, input, seed); err != nil {
		t.Fatal(err)
	}
	if pits, _ = LocalMinima(side, input, seed); len(pits) != 0 {
		t.Fatalf("pits left after fill: %v", pits)
	}
	if undrained, _ = Undrained(side, input, seed); len(undrained) != 0 {
		t.Fatalf("undrained cells left after fill: %v", undrained)
	}
}

func TestLookaheadAccounting(t *testing.T) {
	const side = 96
	input := noisyGrid(side, 5)
	seed := argmin(input)

	for _, lookahead := range []int{0, 2, side * side} {
		opts := DefaultOptions()
		opts.SpillLookahead = lookahead
		f, err := NewFiller(opts)
		if err != nil {
			t.Fatal(err)
		}
		stats, err := f.Fill(side, slices.Clone(input), seed)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Inserted > stats.Cells {
			t.Fatalf("lookahead %d: inserted %d entries for %d cells", lookahead, stats.Inserted, stats.Cells)
		}
		if stats.Deferred == 0 {
			t.Fatalf("lookahead %d: expected deferred candidates on noise", lookahead)
		}
		if stats.Promoted+stats.Discarded != stats.Deferred {
			t.Fatalf("lookahead %d: %+v", lookahead, stats)
		}
	}
}

func BenchmarkFill(b *testing.B) {
	const side = 513
	input := ridgedGrid(side, 1)
	seed := argmin(input)
	work := make([]float64, len(input))
	for i := 0; i < b.N; i++ {
		copy(work, input)
		if err := Fill(side, work, seed); err != nil {
			b.Fatal(err)
		}
	}
}
