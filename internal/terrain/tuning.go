package terrain

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"terrafill/internal/core"
	"terrafill/pkg/priorityflood"
)

// FillTrial is the measured cost of filling a set of raw heightmaps with one
// set of fill options.
type FillTrial struct {
	Options priorityflood.Options
	// Stats are summed over the heightmaps of one repetition.
	Stats priorityflood.Stats
	// Elapsed is the fastest repetition.
	Elapsed time.Duration
	// Matches reports whether every filled heightmap equals the one produced
	// with the first option set of the sweep.
	Matches bool
}

// LookaheadSweep fills every raw heightmap, draining to its minimum, for
// each combination of spill lookahead and cache line size. Trials are
// spread over workers goroutines and returned in sweep order, lookahead
// major.
func LookaheadSweep(raws []*core.Grid, lookaheads, cacheLines []int, reps, workers int) ([]FillTrial, error) {
	if len(raws) == 0 || len(lookaheads) == 0 || len(cacheLines) == 0 {
		return nil, nil
	}
	reps = max(reps, 1)
	workers = max(workers, 1)

	var opts []priorityflood.Options
	for _, la := range lookaheads {
		for _, cl := range cacheLines {
			o := priorityflood.DefaultOptions()
			o.SpillLookahead = la
			o.CacheLineSize = cl
			opts = append(opts, o)
		}
	}

	reference, err := fillAll(raws, opts[0])
	if err != nil {
		return nil, err
	}

	type job struct {
		idx  int
		opts priorityflood.Options
	}
	type outcome struct {
		idx   int
		trial FillTrial
		err   error
	}
	jobs := make(chan job)
	results := make(chan outcome)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				trial, err := runTrial(raws, reference, j.opts, reps)
				results <- outcome{idx: j.idx, trial: trial, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		for i, o := range opts {
			jobs <- job{idx: i, opts: o}
		}
		close(jobs)
	}()

	trials := make([]FillTrial, len(opts))
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		trials[res.idx] = res.trial
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return trials, nil
}

func runTrial(raws []*core.Grid, reference [][]float64, opts priorityflood.Options, reps int) (FillTrial, error) {
	filler, err := priorityflood.NewFiller(opts)
	if err != nil {
		return FillTrial{}, fmt.Errorf("terrain: %w", err)
	}
	trial := FillTrial{Options: opts, Matches: true}
	scratch := make([][]float64, len(raws))
	for r := 0; r < reps; r++ {
		var sum priorityflood.Stats
		var elapsed time.Duration
		for i, raw := range raws {
			scratch[i] = append(scratch[i][:0], raw.Cells()...)
			start := time.Now()
			st, err := filler.Fill(raw.Side, scratch[i], raw.ArgMin())
			elapsed += time.Since(start)
			if err != nil {
				return FillTrial{}, fmt.Errorf("terrain: %w", err)
			}
			sum = addStats(sum, st)
			if r == 0 && !slices.Equal(scratch[i], reference[i]) {
				trial.Matches = false
			}
		}
		if r == 0 || elapsed < trial.Elapsed {
			trial.Elapsed = elapsed
		}
		trial.Stats = sum
	}
	return trial, nil
}

func fillAll(raws []*core.Grid, opts priorityflood.Options) ([][]float64, error) {
	filler, err := priorityflood.NewFiller(opts)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	out := make([][]float64, len(raws))
	for i, raw := range raws {
		out[i] = slices.Clone(raw.Cells())
		if _, err := filler.Fill(raw.Side, out[i], raw.ArgMin()); err != nil {
			return nil, fmt.Errorf("terrain: %w", err)
		}
	}
	return out, nil
}

func addStats(a, b priorityflood.Stats) priorityflood.Stats {
	return priorityflood.Stats{
		Cells:        a.Cells + b.Cells,
		Raised:       a.Raised + b.Raised,
		Volume:       a.Volume + b.Volume,
		Inserted:     a.Inserted + b.Inserted,
		Deferred:     a.Deferred + b.Deferred,
		Promoted:     a.Promoted + b.Promoted,
		Discarded:    a.Discarded + b.Discarded,
		CanSpillHits: a.CanSpillHits + b.CanSpillHits,
	}
}
