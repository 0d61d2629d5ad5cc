// Package dheap implements a d-ary min-heap keyed by float64 whose arity is
// chosen so that a node's children occupy a single cache line.
package dheap

import (
	"errors"
	"fmt"
	"unsafe"
)

// DefaultCacheLineSize is the cache line width assumed by New.
const DefaultCacheLineSize = 64

// minArity keeps tiny cache lines or fat entries from degrading into a
// binary heap with a pathological depth.
const minArity = 3

var (
	// ErrEmptyQueue is returned when reading or removing from an empty heap.
	ErrEmptyQueue = errors.New("dheap: empty queue")
	// ErrInvalidArgument is returned for non-positive capacities or sizes.
	ErrInvalidArgument = errors.New("dheap: invalid argument")
)

type entry[V any] struct {
	key   float64
	value V
}

// Heap is a min-priority queue over (key, value) pairs backed by a single
// contiguous slice. Ties between equal keys are returned in no particular
// order. A Heap is not safe for concurrent use.
type Heap[V any] struct {
	buf   []entry[V]
	n     int
	arity int
}

// New returns an empty heap with room for capacity entries, tuned for
// DefaultCacheLineSize.
func New[V any](capacity int) (*Heap[V], error) {
	return NewWithCacheLine[V](capacity, DefaultCacheLineSize)
}

// NewWithCacheLine returns an empty heap whose arity is derived from the given
// cache line width in bytes.
func NewWithCacheLine[V any](capacity, cacheLine int) (*Heap[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d must be positive", ErrInvalidArgument, capacity)
	}
	if cacheLine <= 0 {
		return nil, fmt.Errorf("%w: cache line size %d must be positive", ErrInvalidArgument, cacheLine)
	}
	return &Heap[V]{
		buf:   make([]entry[V], capacity),
		arity: Arity[V](cacheLine),
	}, nil
}

// Arity reports the number of children per node a Heap[V] uses for the given
// cache line width: max(cacheLine/entrySize, 3).
func Arity[V any](cacheLine int) int {
	var e entry[V]
	size := int(unsafe.Sizeof(e))
	if size == 0 {
		return minArity
	}
	return max(cacheLine/size, minArity)
}

// Len returns the number of queued entries.
func (h *Heap[V]) Len() int { return h.n }

// Cap returns the number of entries the heap can hold before growing.
func (h *Heap[V]) Cap() int { return len(h.buf) }

// Arity returns the number of children per node.
func (h *Heap[V]) Arity() int { return h.arity }

// IsEmpty reports whether the heap holds no entries.
func (h *Heap[V]) IsEmpty() bool { return h.n == 0 }

// Release drops the backing buffer. The heap is empty afterwards and regrows
// on the next Insert.
func (h *Heap[V]) Release() {
	h.buf = nil
	h.n = 0
}

// Insert adds value with the given priority key.
func (h *Heap[V]) Insert(key float64, value V) {
	if h.n == len(h.buf) {
		h.grow()
	}
	h.buf[h.n] = entry[V]{key: key, value: value}
	h.siftUp(h.n)
	h.n++
}

// PeekMin returns the value with the smallest key.
func (h *Heap[V]) PeekMin() (V, error) {
	if h.n == 0 {
		var zero V
		return zero, ErrEmptyQueue
	}
	return h.buf[0].value, nil
}

// MinKey returns the smallest key.
func (h *Heap[V]) MinKey() (float64, error) {
	if h.n == 0 {
		return 0, ErrEmptyQueue
	}
	return h.buf[0].key, nil
}

// DeleteMin removes the entry with the smallest key.
func (h *Heap[V]) DeleteMin() error {
	if h.n == 0 {
		return ErrEmptyQueue
	}
	h.n--
	h.buf[0] = h.buf[h.n]
	var zero entry[V]
	h.buf[h.n] = zero
	h.siftDown(0)
	return nil
}

// PopMin removes and returns the entry with the smallest key.
func (h *Heap[V]) PopMin() (float64, V, error) {
	if h.n == 0 {
		var zero V
		return 0, zero, ErrEmptyQueue
	}
	top := h.buf[0]
	if err := h.DeleteMin(); err != nil {
		return 0, top.value, err
	}
	return top.key, top.value, nil
}

func (h *Heap[V]) grow() {
	size := 2 * len(h.buf)
	if size == 0 {
		size = 1
	}
	buf := make([]entry[V], size)
	copy(buf, h.buf[:h.n])
	h.buf = buf
}

func (h *Heap[V]) child(i, k int) int { return i*h.arity + k + 1 }

func (h *Heap[V]) parent(i int) int { return (i - 1) / h.arity }

func (h *Heap[V]) siftUp(i int) {
	item := h.buf[i]
	for i > 0 {
		p := h.parent(i)
		if h.buf[p].key <= item.key {
			break
		}
		h.buf[i] = h.buf[p]
		i = p
	}
	h.buf[i] = item
}

func (h *Heap[V]) siftDown(i int) {
	if h.n == 0 {
		return
	}
	item := h.buf[i]
	for {
		first := h.child(i, 0)
		if first >= h.n {
			break
		}
		last := min(first+h.arity, h.n)

		best := first
		bestKey := h.buf[first].key
		for c := first + 1; c < last; c++ {
			if k := h.buf[c].key; k < bestKey {
				best, bestKey = c, k
			}
		}
		if bestKey >= item.key {
			break
		}
		h.buf[i] = h.buf[best]
		i = best
	}
	h.buf[i] = item
}
