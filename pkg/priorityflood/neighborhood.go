package priorityflood

// moore lists the eight neighbour offsets in row-major order, skipping the
// centre. Direction codes returned by FlowDirections index into this table.
var moore = [8]struct{ dx, dy int }{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Offset returns the (dx, dy) step for a direction code in [0, 8).
func Offset(dir int8) (dx, dy int) {
	o := moore[dir]
	return o.dx, o.dy
}

// window is the 3x3 scratch bitmap centred on the cell being evaluated. It is
// a plain value so it lives on the stack and is zeroed per evaluation.
type window [3][3]bool

func (w *window) marked(dx, dy int) bool {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return false
	}
	return w[dy+1][dx+1]
}

func (w *window) mark(dx, dy int) { w[dy+1][dx+1] = true }

// grid bundles the side length with bounds-checked index helpers. Cells
// outside the square are absent neighbours, never wrapped.
type grid struct {
	side int
}

func (g grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.side && y < g.side
}

func (g grid) coords(cell int) (int, int) { return cell % g.side, cell / g.side }

func (g grid) index(x, y int) int { return y*g.side + x }
