package priorityflood

import (
	"fmt"

	"terrafill/pkg/dheap"
)

// ErrInvalidArgument is returned for malformed grids, seeds or options. It is
// the same value as dheap.ErrInvalidArgument.
var ErrInvalidArgument = dheap.ErrInvalidArgument

// Options tunes a Filler. None of the values affect the filled result, only
// how much work the priority queue does to get there.
type Options struct {
	// SpillLookahead is how many slope hops away from the cell being
	// expanded a spill candidate may be and still be deferred instead of
	// going straight into the priority queue.
	SpillLookahead int
	// CacheLineSize is the cache line width in bytes used to pick the
	// priority queue arity.
	CacheLineSize int
	// CapacityHint is the fraction of the cell count preallocated for the
	// priority queue.
	CapacityHint float64
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		SpillLookahead: 2,
		CacheLineSize:  dheap.DefaultCacheLineSize,
		CapacityHint:   0.3,
	}
}

func (o Options) validate() error {
	if o.SpillLookahead < 0 {
		return fmt.Errorf("%w: spill lookahead %d is negative", ErrInvalidArgument, o.SpillLookahead)
	}
	if o.CacheLineSize <= 0 {
		return fmt.Errorf("%w: cache line size %d must be positive", ErrInvalidArgument, o.CacheLineSize)
	}
	if !(o.CapacityHint > 0 && o.CapacityHint <= 1) {
		return fmt.Errorf("%w: capacity hint %g outside (0, 1]", ErrInvalidArgument, o.CapacityHint)
	}
	return nil
}

// Stats summarises the work done by a single fill.
type Stats struct {
	Cells  int     // cells processed
	Raised int     // cells whose elevation was increased
	Volume float64 // sum of elevation increases

	Inserted     int // priority queue inserts, seed included
	Deferred     int // candidates parked in the potential spill queue
	Promoted     int // deferred candidates later inserted
	Discarded    int // deferred candidates dropped with no open neighbour
	CanSpillHits int // candidate outlets skipped via an existing cheaper path
}
