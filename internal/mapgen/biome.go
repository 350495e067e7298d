package mapgen

import "github.com/talgya/hexmap/internal/world"

var (
	temperatureBands = [3]float64{0.1, 0.3, 0.6}
	moistureBands    = [3]float64{0.12, 0.28, 0.85}
)

// biome pairs a terrain with a plant level.
type biome struct {
	terrain world.Terrain
	plant   int
}

// biomes is indexed by temperatureBand*4 + moistureBand, coldest and driest first.
var biomes = [16]biome{
	{world.TerrainSand, 0}, {world.TerrainSnow, 0}, {world.TerrainSnow, 0}, {world.TerrainSnow, 0},
	{world.TerrainSand, 0}, {world.TerrainMud, 0}, {world.TerrainMud, 1}, {world.TerrainMud, 2},
	{world.TerrainSand, 0}, {world.TerrainGrass, 0}, {world.TerrainGrass, 1}, {world.TerrainGrass, 2},
	{world.TerrainSand, 0}, {world.TerrainGrass, 1}, {world.TerrainGrass, 2}, {world.TerrainGrass, 3},
}

func band(value float64, bands [3]float64) int {
	i := 0
	for ; i < len(bands); i++ {
		if value < bands[i] {
			break
		}
	}
	return i
}

// setTerrainType assigns terrain and plant levels from temperature, moisture
// and the local shape of the sea floor.
func (ctx *Context) setTerrainType() {
	cfg := &ctx.cfg
	channel := ctx.Rand.Intn(noiseChannels)
	rockDesertElevation := cfg.ElevationMaximum - (cfg.ElevationMaximum-cfg.WaterLevel)/2

	for i, cell := range ctx.Grid.Cells() {
		temperature := ctx.temperature(cell, channel)
		if !cell.IsUnderwater() {
			ctx.classifyLand(cell, temperature, ctx.climate[i].moisture, rockDesertElevation)
		} else {
			ctx.classifyUnderwater(cell, temperature)
		}
	}
}

func (ctx *Context) classifyLand(cell *world.Cell, temperature, moisture float64, rockDesertElevation int) {
	b := biomes[band(temperature, temperatureBands)*4+band(moisture, moistureBands)]

	if b.terrain == world.TerrainSand {
		if cell.Elevation() >= rockDesertElevation {
			b.terrain = world.TerrainStone
		}
	} else if cell.Elevation() == ctx.cfg.ElevationMaximum {
		b.terrain = world.TerrainSnow
	}

	if b.terrain == world.TerrainSnow {
		b.plant = 0
	} else if b.plant < world.MaxFeatureLevel && cell.HasRiver() {
		b.plant++
	}

	cell.SetTerrain(b.terrain)
	cell.SetPlantLevel(b.plant)
}

// classifyUnderwater picks a sea floor terrain. Shallow cells follow their
// shoreline: cliffs give stone, beaches give sand.
func (ctx *Context) classifyUnderwater(cell *world.Cell, temperature float64) {
	terrain := world.TerrainGrass
	switch {
	case cell.Elevation() == ctx.cfg.WaterLevel-1:
		cliffs, slopes := 0, 0
		for _, d := range world.Directions {
			n := cell.Neighbor(d)
			if n == nil {
				continue
			}
			delta := n.Elevation() - cell.WaterLevel()
			if delta == 0 {
				slopes++
			} else if delta > 0 {
				cliffs++
			}
		}
		switch {
		case cliffs+slopes > 3:
			terrain = world.TerrainGrass
		case cliffs > 0:
			terrain = world.TerrainStone
		case slopes > 0:
			terrain = world.TerrainSand
		}
	case cell.Elevation() >= ctx.cfg.WaterLevel:
		// Lakes above sea level.
		terrain = world.TerrainGrass
	case cell.Elevation() < 0:
		terrain = world.TerrainStone
	default:
		terrain = world.TerrainMud
	}

	if terrain == world.TerrainGrass && temperature < temperatureBands[0] {
		terrain = world.TerrainMud
	}
	cell.SetTerrain(terrain)
}

// temperature derives a cell's temperature from latitude and height, then
// perturbs it with the run's noise channel.
func (ctx *Context) temperature(cell *world.Cell, channel int) float64 {
	cfg := &ctx.cfg
	latitude := float64(cell.Coordinates().Z) / float64(ctx.Grid.Height)
	switch cfg.Hemisphere {
	case HemisphereBoth:
		latitude *= 2
		if latitude > 1 {
			latitude = 2 - latitude
		}
	case HemisphereNorth:
		latitude = 1 - latitude
	}

	t := cfg.LowTemperature + (cfg.HighTemperature-cfg.LowTemperature)*latitude
	t = t*0.3 + t*0.7*(1-float64(cell.ViewElevation()-cfg.WaterLevel)/float64(cfg.ElevationMaximum-cfg.WaterLevel+1))

	px, pz := cell.Position()
	jitter := ctx.noise.sample(channel, px, pz)
	return t + (jitter*2-1)*cfg.TemperatureJitter
}
