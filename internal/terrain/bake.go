package terrain

import (
	"errors"
	"fmt"

	"terrafill/internal/core"
	"terrafill/pkg/priorityflood"
)

// ErrUndrained is returned when a filled heightmap still has cells that
// cannot drain to the outlet.
var ErrUndrained = errors.New("terrain: filled heightmap does not drain")

// Pipeline phase names reported in Tile.Timings.
const (
	PhaseProduce = "produce"
	PhaseFill    = "fill"
	PhaseVerify  = "verify"
	PhaseErode   = "erode"
	PhaseDetail  = "detail"
)

// Tile is the output of one bake. Raw is the producer output, Filled the
// depression-free heightmap draining to Outlet and Final the eroded and
// detailed result.
type Tile struct {
	Config Config
	Outlet int

	Raw    *core.Grid
	Filled *core.Grid
	Final  *core.Grid

	Fill    priorityflood.Stats
	Timings []core.Phase
}

// Bake runs produce, fill, verify, erode and detail for cfg.
func Bake(cfg Config) (*Tile, error) {
	opts := priorityflood.DefaultOptions()
	opts.SpillLookahead = cfg.Params.SpillLookahead
	filler, err := priorityflood.NewFiller(opts)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	return BakeWith(filler, cfg)
}

// BakeWith is Bake using a caller supplied Filler, whose options take
// precedence over cfg.Params.SpillLookahead.
func BakeWith(filler *priorityflood.Filler, cfg Config) (*Tile, error) {
	timer := core.NewPhaseTimer()
	producer, err := NewProducer(cfg)
	if err != nil {
		return nil, err
	}

	stop := timer.Start(PhaseProduce)
	raw, err := producer.Produce(cfg.Seed)
	stop()
	if err != nil {
		return nil, fmt.Errorf("terrain: produce %s: %w", producer.Name(), err)
	}

	t := &Tile{Config: cfg, Raw: raw, Outlet: raw.ArgMin()}
	filled := raw.Clone()
	stop = timer.Start(PhaseFill)
	t.Fill, err = filler.Fill(filled.Side, filled.Cells(), t.Outlet)
	stop()
	if err != nil {
		return nil, fmt.Errorf("terrain: fill: %w", err)
	}
	t.Filled = filled

	stop = timer.Start(PhaseVerify)
	undrained, err := priorityflood.Undrained(filled.Side, filled.Cells(), t.Outlet)
	stop()
	if err != nil {
		return nil, fmt.Errorf("terrain: verify: %w", err)
	}
	if len(undrained) > 0 {
		return nil, fmt.Errorf("%w: %d cells, first at %d", ErrUndrained, len(undrained), undrained[0])
	}

	final := filled.Clone()
	stop = timer.Start(PhaseErode)
	Erode(final, cfg.Params)
	stop()

	stop = timer.Start(PhaseDetail)
	Detail(final, cfg.Seed+1, cfg.Params)
	stop()
	t.Final = final

	t.Timings = timer.Phases()
	return t, nil
}
