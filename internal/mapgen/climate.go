package mapgen

import "github.com/talgya/hexmap/internal/world"

// createClimate runs the cloud and moisture simulation for the configured
// number of cycles. Each cycle reads the current buffer and accumulates
// into the next one, then the buffers swap.
func (ctx *Context) createClimate() {
	n := ctx.Grid.CellCount()
	ctx.climate = make([]climateData, n)
	ctx.nextClimate = make([]climateData, n)
	for i := range ctx.climate {
		ctx.climate[i].moisture = ctx.cfg.StartingMoisture
	}

	for cycle := 0; cycle < ctx.cfg.ClimateCycles; cycle++ {
		for i := 0; i < n; i++ {
			ctx.evolveClimate(i)
		}
		// Later cells in the pass may push runoff past the per-cell clamp.
		for i := range ctx.nextClimate {
			if ctx.nextClimate[i].moisture > 1 {
				ctx.nextClimate[i].moisture = 1
			}
		}
		ctx.climate, ctx.nextClimate = ctx.nextClimate, ctx.climate
	}
}

func (ctx *Context) evolveClimate(index int) {
	cfg := &ctx.cfg
	cell := ctx.Grid.Cell(index)
	data := ctx.climate[index]

	if cell.IsUnderwater() {
		data.moisture = 1
		data.clouds += cfg.EvaporationFactor
	} else {
		evaporation := data.moisture * cfg.EvaporationFactor
		data.clouds += evaporation
		data.moisture -= evaporation
	}

	precipitation := data.clouds * cfg.PrecipitationFactor
	data.clouds -= precipitation
	data.moisture += precipitation

	// Higher cells hold fewer clouds; the excess rains out.
	cloudMaximum := 1 - float64(cell.ViewElevation())/float64(cfg.ElevationMaximum+1)
	if data.clouds > cloudMaximum {
		data.moisture += data.clouds - cloudMaximum
		data.clouds = cloudMaximum
	}

	downwind := cfg.WindDirection.Opposite()
	dispersal := data.clouds * (1 / (5 + cfg.WindStrength))
	runoff := data.moisture * cfg.RunoffFactor * (1.0 / 6)
	seepage := data.moisture * cfg.SeepageFactor * (1.0 / 6)

	for _, d := range world.Directions {
		neighbor := cell.Neighbor(d)
		if neighbor == nil {
			continue
		}
		next := &ctx.nextClimate[neighbor.Index()]
		if d == downwind {
			next.clouds += dispersal * cfg.WindStrength
		} else {
			next.clouds += dispersal
		}

		delta := neighbor.ViewElevation() - cell.ViewElevation()
		if delta < 0 {
			data.moisture -= runoff
			next.moisture += runoff
		} else if delta == 0 {
			data.moisture -= seepage
			next.moisture += seepage
		}
	}

	next := &ctx.nextClimate[index]
	next.moisture += data.moisture
	if next.moisture > 1 {
		next.moisture = 1
	}
	ctx.climate[index] = climateData{}
}
