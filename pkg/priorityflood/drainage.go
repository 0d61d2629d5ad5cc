package priorityflood

// NoFlow marks the outlet and cells without a non-ascending path to it.
const NoFlow int8 = -1

// FlowDirections assigns every cell a downstream neighbour no higher than
// itself such that following the directions from any drained cell reaches
// seed. Codes index the Moore offsets returned by Offset. The seed and
// undrained cells get NoFlow.
func FlowDirections(side int, heights []float64, seed int) ([]int8, error) {
	if err := validateGrid(side, heights, seed); err != nil {
		return nil, err
	}
	g := grid{side: side}
	dirs := make([]int8, len(heights))
	for i := range dirs {
		dirs[i] = NoFlow
	}
	seen := make([]bool, len(heights))
	seen[seed] = true

	// Breadth-first climb from the outlet: a neighbour at or above the
	// current cell can drain into it.
	frontier := make([]int, 0, side)
	frontier = append(frontier, seed)
	for head := 0; head < len(frontier); head++ {
		c := frontier[head]
		cx, cy := g.coords(c)
		for k, o := range moore {
			nx, ny := cx+o.dx, cy+o.dy
			if !g.inBounds(nx, ny) {
				continue
			}
			n := g.index(nx, ny)
			if seen[n] || heights[n] < heights[c] {
				continue
			}
			seen[n] = true
			dirs[n] = int8(len(moore) - 1 - k)
			frontier = append(frontier, n)
		}
	}
	return dirs, nil
}

// Undrained returns the cells, other than seed, with no non-ascending path
// to seed. It is empty for any heightmap produced by Fill with the same seed.
func Undrained(side int, heights []float64, seed int) ([]int, error) {
	dirs, err := FlowDirections(side, heights, seed)
	if err != nil {
		return nil, err
	}
	var out []int
	for i, d := range dirs {
		if d == NoFlow && i != seed {
			out = append(out, i)
		}
	}
	return out, nil
}

// LocalMinima returns the cells, other than seed, whose neighbours are all
// strictly higher.
func LocalMinima(side int, heights []float64, seed int) ([]int, error) {
	if err := validateGrid(side, heights, seed); err != nil {
		return nil, err
	}
	g := grid{side: side}
	var out []int
	for i, h := range heights {
		if i == seed {
			continue
		}
		x, y := g.coords(i)
		pit := true
		for _, o := range moore {
			nx, ny := x+o.dx, y+o.dy
			if g.inBounds(nx, ny) && heights[g.index(nx, ny)] <= h {
				pit = false
				break
			}
		}
		if pit && side > 1 {
			out = append(out, i)
		}
	}
	return out, nil
}
