package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"terrafill/internal/app"
	"terrafill/internal/render"
	"terrafill/internal/terrain"
	"terrafill/internal/tilestore"
	"terrafill/pkg/priorityflood"

	"golang.org/x/sync/errgroup"
)

type bakeResult struct {
	seed    int64
	tile    *terrain.Tile
	cached  bool
	elapsed time.Duration
}

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	count := flag.Int("count", 1, "number of tiles to bake, seeds seed..seed+count-1")
	workers := flag.Int("workers", runtime.NumCPU(), "tiles baked in parallel")
	out := flag.String("out", "", "directory for PNG output (empty skips images)")
	cache := flag.String("cache", "", "LevelDB tile cache directory (empty disables caching)")
	lookahead := flag.Int("lookahead", -1, "spill lookahead override (-1 keeps the configured value)")
	flag.Parse()

	base := cfg.Terrain()
	if *lookahead >= 0 {
		base.Params.SpillLookahead = *lookahead
	}
	if *count <= 0 {
		log.Fatalf("count must be positive, got %d", *count)
	}

	var store *tilestore.Store
	if *cache != "" {
		var err error
		store, err = tilestore.Open(*cache)
		if err != nil {
			log.Fatalf("open cache: %v", err)
		}
		defer store.Close()
	}
	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			log.Fatalf("create output dir: %v", err)
		}
	}

	log.Printf("baking %d %s tiles of side %d (%d workers)", *count, base.Producer, base.Side, *workers)
	results := make([]bakeResult, *count)
	var g errgroup.Group
	g.SetLimit(max(*workers, 1))
	for i := 0; i < *count; i++ {
		g.Go(func() error {
			tc := base
			tc.Seed = base.Seed + int64(i)
			res, err := bakeOne(store, tc)
			if err != nil {
				return fmt.Errorf("seed %d: %w", tc.Seed, err)
			}
			if *out != "" {
				if err := writeImages(*out, res.tile); err != nil {
					return fmt.Errorf("seed %d: %w", tc.Seed, err)
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("bake failed: %v", err)
	}

	printReport(results)
}

func bakeOne(store *tilestore.Store, tc terrain.Config) (bakeResult, error) {
	start := time.Now()
	if store != nil {
		tile, err := store.Get(tc)
		switch {
		case err == nil && drains(tile):
			return bakeResult{seed: tc.Seed, tile: tile, cached: true, elapsed: time.Since(start)}, nil
		case err == nil:
			log.Printf("cached tile for seed %d does not drain, rebaking", tc.Seed)
		case !errors.Is(err, tilestore.ErrNotFound):
			log.Printf("cache read for seed %d failed, rebaking: %v", tc.Seed, err)
		}
	}

	tile, err := terrain.Bake(tc)
	if err != nil {
		return bakeResult{}, err
	}
	if store != nil {
		if err := store.Put(tile); err != nil {
			return bakeResult{}, err
		}
	}
	return bakeResult{seed: tc.Seed, tile: tile, elapsed: time.Since(start)}, nil
}

// drains re-checks the drainage guarantee on a cached tile.
func drains(t *terrain.Tile) bool {
	undrained, err := priorityflood.Undrained(t.Filled.Side, t.Filled.Cells(), t.Outlet)
	return err == nil && len(undrained) == 0
}

func writeImages(dir string, t *terrain.Tile) error {
	prefix := filepath.Join(dir, fmt.Sprintf("tile-%d", t.Config.Seed))
	images := []struct {
		suffix string
		build  func() error
	}{
		{"raw", func() error { return render.SavePNG(prefix+"-raw.png", render.Heightmap(t.Raw, render.ModeShaded)) }},
		{"filled", func() error { return render.SavePNG(prefix+"-filled.png", render.Heightmap(t.Filled, render.ModeShaded)) }},
		{"final", func() error { return render.SavePNG(prefix+"-final.png", render.Heightmap(t.Final, render.ModeShaded)) }},
		{"depressions", func() error { return render.SavePNG(prefix+"-depressions.png", render.Depressions(t.Raw, t.Filled)) }},
	}
	for _, img := range images {
		if err := img.build(); err != nil {
			return fmt.Errorf("write %s: %w", img.suffix, err)
		}
	}
	return nil
}

func printReport(results []bakeResult) {
	fmt.Printf("%-10s %-6s %8s %10s %9s %9s %9s %10s\n", "seed", "cache", "raised", "volume", "inserts", "deferred", "canspill", "time")
	var total time.Duration
	for _, r := range results {
		st := r.tile.Fill
		cached := "miss"
		if r.cached {
			cached = "hit"
		}
		fmt.Printf("%-10d %-6s %8d %10.3f %9d %9d %9d %10s\n",
			r.seed, cached, st.Raised, st.Volume, st.Inserted, st.Deferred, st.CanSpillHits, r.elapsed.Round(time.Microsecond))
		total += r.elapsed
	}
	fmt.Printf("total %s over %d tiles\n", total.Round(time.Millisecond), len(results))

	if len(results) == 1 && !results[0].cached {
		fmt.Println("\nPhases:")
		for _, p := range results[0].tile.Timings {
			fmt.Printf("  %-8s %s\n", p.Name, p.Duration.Round(time.Microsecond))
		}
	}
}
