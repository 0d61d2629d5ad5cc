package terrain

import "terrafill/internal/core"

// Parameters reports the config grouped by pipeline stage.
func (c Config) Parameters() core.ParameterSnapshot {
	p := c.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Tile",
			Params: []core.Parameter{
				core.IntParam("side", "Side", c.Side),
				core.Int64Param("seed", "Seed", c.Seed),
				core.StringParam("producer", "Producer", c.Producer),
			},
		},
		{
			Name: "Synthesis",
			Params: []core.Parameter{
				core.FloatParam("beta", "Beta", p.Beta),
				core.FloatParam("crossover", "Crossover scale", p.Crossover),
			},
		},
		{
			Name:    "Fill",
			Summary: "Affects queue traffic only, never the filled heights.",
			Params: []core.Parameter{
				core.IntParam("lookahead", "Spill lookahead", p.SpillLookahead),
			},
		},
		{
			Name: "Erosion",
			Params: []core.Parameter{
				core.IntParam("erosion_iterations", "Iterations", p.ErosionIterations),
				core.FloatParam("talus_angle", "Talus angle", p.TalusAngle),
				core.FloatParam("relaxation", "Relaxation", p.Relaxation),
				core.FloatParam("deposition", "Deposition", p.Deposition),
				core.FloatParam("extent", "Extent", p.Extent),
				core.FloatParam("height_scale", "Height scale", p.HeightScale),
			},
		},
		{
			Name: "Detail",
			Params: []core.Parameter{
				core.IntParam("detail_octaves", "Octaves", p.DetailOctaves),
				core.FloatParam("detail_lacunarity", "Lacunarity", p.DetailLacunarity),
				core.FloatParam("detail_persistence", "Persistence", p.DetailPersistence),
				core.FloatParam("detail_scale", "Scale", p.DetailScale),
				core.FloatParam("detail_displacement", "Max displacement", p.DetailDisplacement),
			},
		},
	}}
}

// ParameterControls lists the values adjustable from the viewer HUD.
func ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "beta", Label: "Beta", Type: core.ParamTypeFloat, Step: 0.1, Min: 1, Max: 3, HasMin: true, HasMax: true},
		{Key: "crossover", Label: "Crossover", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, Max: 3, HasMin: true, HasMax: true},
		{Key: "lookahead", Label: "Lookahead", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 16, HasMin: true, HasMax: true},
		{Key: "erosion_iterations", Label: "Erosion its", Type: core.ParamTypeInt, Step: 4, Min: 0, Max: 256, HasMin: true, HasMax: true},
		{Key: "talus_angle", Label: "Talus angle", Type: core.ParamTypeFloat, Step: 1, Min: 30, Max: 45, HasMin: true, HasMax: true},
		{Key: "relaxation", Label: "Relaxation", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 0.5, HasMin: true, HasMax: true},
		{Key: "deposition", Label: "Deposition", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "detail_octaves", Label: "Detail octaves", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 16, HasMin: true, HasMax: true},
		{Key: "detail_displacement", Label: "Detail disp", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, Max: 0.2, HasMin: true, HasMax: true},
	}
}
