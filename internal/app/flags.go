package app

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"terrafill/internal/terrain"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set implements flag.Value.
func (l *KVList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q is not key=value", value)
	}
	*l = append(*l, value)
	return nil
}

// Map splits the entries; later duplicates win.
func (l KVList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// Config gathers the options shared by the commands: the tile being baked
// plus viewer presentation.
type Config struct {
	Side     int
	Seed     int64
	Producer string

	Scale    int
	HUDWidth int
	TPS      int

	Overrides KVList
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	def := terrain.DefaultConfig()
	return &Config{
		Side:     def.Side,
		Seed:     def.Seed,
		Producer: def.Producer,
		Scale:    2,
		HUDWidth: 260,
		TPS:      30,
	}
}

// Bind registers the tile flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Side, "side", c.Side, "tile side in cells (2^k+1 for the fractal producer)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "generation seed")
	fs.StringVar(&c.Producer, "producer", c.Producer, "heightmap producer ("+terrain.ProducerFractal+" or "+terrain.ProducerPerlin+")")
	fs.Var(&c.Overrides, "set", "parameter override in key=value form (repeatable)")
}

// BindView registers the viewer flags on fs.
func (c *Config) BindView(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "screen pixels per cell")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.IntVar(&c.TPS, "tps", c.TPS, "UI updates per second")
}

// Terrain resolves the bake config: defaults, then the dedicated flags,
// then -set overrides.
func (c *Config) Terrain() terrain.Config {
	m := c.Overrides.Map()
	if _, ok := m["side"]; !ok {
		m["side"] = strconv.Itoa(c.Side)
	}
	if _, ok := m["seed"]; !ok {
		m["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	if _, ok := m["producer"]; !ok {
		m["producer"] = c.Producer
	}
	return terrain.FromMap(m)
}
