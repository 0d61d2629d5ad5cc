package priorityflood

// spillNode is a cell queued with the elevation water must reach there before
// draining further. depth counts slope hops away from the last cell popped
// off the priority queue.
type spillNode struct {
	cell  int
	spill float64
	depth int
}

// fifo is a slice-backed queue that reuses its storage once drained.
type fifo struct {
	items []spillNode
	head  int
}

func newFIFO(capacity int) *fifo {
	return &fifo{items: make([]spillNode, 0, capacity)}
}

func (q *fifo) push(n spillNode) { q.items = append(q.items, n) }

func (q *fifo) empty() bool { return q.head == len(q.items) }

func (q *fifo) pop() spillNode {
	n := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return n
}

func (q *fifo) release() {
	q.items = nil
	q.head = 0
}
