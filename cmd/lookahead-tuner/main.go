package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"terrafill/internal/app"
	"terrafill/internal/core"
	"terrafill/internal/terrain"
	"terrafill/pkg/dheap"
)

func main() {
	cfg := app.NewConfig()
	cfg.Side = 513
	cfg.Bind(flag.CommandLine)
	tiles := flag.Int("tiles", 4, "raw tiles per trial, seeds seed..seed+tiles-1")
	reps := flag.Int("reps", 3, "repetitions per trial; the fastest is reported")
	workers := flag.Int("workers", 1, "trials timed in parallel (>1 skews timings)")
	lookaheadList := flag.String("lookaheads", "0,1,2,3,4,6,8", "comma separated spill lookaheads")
	cacheLineList := flag.String("cachelines", "32,64,128", "comma separated cache line sizes in bytes")
	flag.Parse()

	lookaheads, err := parseInts(*lookaheadList)
	if err != nil {
		log.Fatalf("-lookaheads: %v", err)
	}
	cacheLines, err := parseInts(*cacheLineList)
	if err != nil {
		log.Fatalf("-cachelines: %v", err)
	}

	base := cfg.Terrain()
	producer, err := terrain.NewProducer(base)
	if err != nil {
		log.Fatal(err)
	}
	raws := make([]*core.Grid, 0, *tiles)
	for i := 0; i < *tiles; i++ {
		g, err := producer.Produce(base.Seed + int64(i))
		if err != nil {
			log.Fatalf("produce seed %d: %v", base.Seed+int64(i), err)
		}
		raws = append(raws, g)
	}

	fmt.Printf("Sweeping %d lookaheads x %d cache lines over %d %s tiles of side %d (%d reps, %d workers)\n",
		len(lookaheads), len(cacheLines), len(raws), base.Producer, base.Side, *reps, *workers)
	start := time.Now()
	trials, err := terrain.LookaheadSweep(raws, lookaheads, cacheLines, *reps, *workers)
	if err != nil {
		log.Fatalf("sweep: %v", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\n%9s %6s %5s %10s %9s %9s %9s %9s %8s\n", "lookahead", "cache", "arity", "time", "inserts", "deferred", "promoted", "canspill", "result")
	for _, tr := range trials {
		result := "ok"
		if !tr.Matches {
			result = "MISMATCH"
		}
		fmt.Printf("%9d %6d %5d %10s %9d %9d %9d %9d %8s\n",
			tr.Options.SpillLookahead, tr.Options.CacheLineSize, dheap.Arity[int](tr.Options.CacheLineSize),
			tr.Elapsed.Round(time.Microsecond), tr.Stats.Inserted, tr.Stats.Deferred, tr.Stats.Promoted, tr.Stats.CanSpillHits, result)
	}

	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Elapsed < trials[j].Elapsed })
	best := trials[0]
	fmt.Printf("\nFastest: lookahead=%d cache=%d in %s (sweep took %s)\n",
		best.Options.SpillLookahead, best.Options.CacheLineSize, best.Elapsed.Round(time.Microsecond), elapsed.Round(time.Millisecond))
	fmt.Printf("Re-run terrafill with -lookahead %d to use it.\n", best.Options.SpillLookahead)
	for _, tr := range trials {
		if !tr.Matches {
			log.Fatalf("lookahead %d cache %d changed the filled heights", tr.Options.SpillLookahead, tr.Options.CacheLineSize)
		}
	}
}

func parseInts(list string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
