package terrain

import (
	"sort"
	"strconv"
	"strings"
)

// Params holds the tunables of every pipeline stage.
type Params struct {
	// Fractal synthesis.
	Beta      float64
	Crossover float64

	// Depression filling.
	SpillLookahead int

	// Thermal erosion. Extent and HeightScale convert grid units into world
	// units so TalusAngle is a real slope angle.
	ErosionIterations int
	TalusAngle        float64
	Relaxation        float64
	Deposition        float64
	Extent            float64
	HeightScale       float64

	// Perlin detail re-added after erosion.
	DetailOctaves      int
	DetailLacunarity   float64
	DetailPersistence  float64
	DetailScale        float64
	DetailDisplacement float64
}

// Config describes one tile bake.
type Config struct {
	Side     int
	Seed     int64
	Producer string

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Side:     257,
		Seed:     1337,
		Producer: ProducerFractal,
		Params: Params{
			Beta:               2.0,
			Crossover:          1.0,
			SpillLookahead:     2,
			ErosionIterations:  16,
			TalusAngle:         35,
			Relaxation:         0.25,
			Deposition:         0.5,
			Extent:             1000,
			HeightScale:        600,
			DetailOctaves:      4,
			DetailLacunarity:   2.0,
			DetailPersistence:  0.5,
			DetailScale:        8,
			DetailDisplacement: 0.02,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys and unparsable or out-of-range values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["side"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Side = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["producer"]; ok && v != "" {
		c.Producer = v
	}

	p := &c.Params
	if v, ok := cfg["beta"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Beta = parsed
		}
	}
	if v, ok := cfg["crossover"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Crossover = parsed
		}
	}
	if v, ok := cfg["lookahead"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.SpillLookahead = parsed
		}
	}
	if v, ok := cfg["erosion_iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.ErosionIterations = parsed
		}
	}
	if v, ok := cfg["talus_angle"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.TalusAngle = clamp(parsed, 0, 89)
		}
	}
	if v, ok := cfg["relaxation"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.Relaxation = clamp(parsed, 0, 0.5)
		}
	}
	if v, ok := cfg["deposition"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.Deposition = clamp(parsed, 0, 1)
		}
	}
	if v, ok := cfg["extent"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Extent = parsed
		}
	}
	if v, ok := cfg["height_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.HeightScale = parsed
		}
	}
	if v, ok := cfg["detail_octaves"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.DetailOctaves = min(parsed, 16)
		}
	}
	if v, ok := cfg["detail_lacunarity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 1 {
			p.DetailLacunarity = parsed
		}
	}
	if v, ok := cfg["detail_persistence"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed < 1 {
			p.DetailPersistence = parsed
		}
	}
	if v, ok := cfg["detail_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.DetailScale = parsed
		}
	}
	if v, ok := cfg["detail_displacement"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.DetailDisplacement = clamp(parsed, 0, 1)
		}
	}
	return c
}

// Map renders the config back into FromMap form.
func (c Config) Map() map[string]string {
	p := c.Params
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return map[string]string{
		"side":                strconv.Itoa(c.Side),
		"seed":                strconv.FormatInt(c.Seed, 10),
		"producer":            c.Producer,
		"beta":                f(p.Beta),
		"crossover":           f(p.Crossover),
		"lookahead":           strconv.Itoa(p.SpillLookahead),
		"erosion_iterations":  strconv.Itoa(p.ErosionIterations),
		"talus_angle":         f(p.TalusAngle),
		"relaxation":          f(p.Relaxation),
		"deposition":          f(p.Deposition),
		"extent":              f(p.Extent),
		"height_scale":        f(p.HeightScale),
		"detail_octaves":      strconv.Itoa(p.DetailOctaves),
		"detail_lacunarity":   f(p.DetailLacunarity),
		"detail_persistence":  f(p.DetailPersistence),
		"detail_scale":        f(p.DetailScale),
		"detail_displacement": f(p.DetailDisplacement),
	}
}

// String is a canonical, sorted key=value rendering that identifies the bake.
func (c Config) String() string {
	m := c.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
	}
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
