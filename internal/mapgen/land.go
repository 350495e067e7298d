package mapgen

import (
	"math"

	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

// landGuard bounds the raise/sink iterations of a run.
const landGuard = 10000

// createLand raises and sinks chunks until the land budget is spent or the
// guard runs out. Leftover budget is recorded as a shortfall.
func (ctx *Context) createLand() {
	budget := int(math.RoundToEven(float64(ctx.Grid.CellCount()*ctx.cfg.LandPercentage) * 0.01))
	ctx.landCells = budget

	for guard := 0; guard < landGuard; guard++ {
		sink := ctx.chance(ctx.cfg.SinkProbability)
		for _, region := range ctx.regions {
			chunkSize := ctx.cfg.ChunkSizeMin + ctx.Rand.Intn(ctx.cfg.ChunkSizeMax-ctx.cfg.ChunkSizeMin+1)
			if sink {
				budget = ctx.sinkTerrain(chunkSize, budget, region)
			} else {
				budget = ctx.raiseTerrain(chunkSize, budget, region)
				if budget == 0 {
					return
				}
			}
		}
	}

	if budget > 0 {
		ctx.landShortfall = budget
		ctx.landCells -= budget
	}
}

// raiseTerrain grows a chunk around a random cell, lifting each cell by one
// or two steps. It returns early once the budget reaches zero.
func (ctx *Context) raiseTerrain(chunkSize, budget int, region Region) int {
	rise := 1
	center := ctx.beginChunk(region)
	if ctx.chance(ctx.cfg.HighRiseProbability) {
		rise = 2
	}

	size := 0
	for size < chunkSize {
		index, ok := ctx.Search.Next()
		if !ok {
			break
		}
		cell := ctx.Grid.Cell(index)
		original := cell.Elevation()
		elevation := original + rise
		if elevation > ctx.cfg.ElevationMaximum {
			continue
		}
		cell.SetElevation(elevation)
		if original < ctx.cfg.WaterLevel && elevation >= ctx.cfg.WaterLevel {
			budget--
			if budget == 0 {
				break
			}
		}
		size++
		ctx.expandChunk(cell, center)
	}
	return budget
}

// sinkTerrain is the inverse of raiseTerrain. Cells dropping below the water
// level return land to the budget.
func (ctx *Context) sinkTerrain(chunkSize, budget int, region Region) int {
	sink := 1
	center := ctx.beginChunk(region)
	if ctx.chance(ctx.cfg.HighRiseProbability) {
		sink = 2
	}

	size := 0
	for size < chunkSize {
		index, ok := ctx.Search.Next()
		if !ok {
			break
		}
		cell := ctx.Grid.Cell(index)
		original := cell.Elevation()
		elevation := original - sink
		if elevation < ctx.cfg.ElevationMinimum {
			continue
		}
		cell.SetElevation(elevation)
		if original >= ctx.cfg.WaterLevel && elevation < ctx.cfg.WaterLevel {
			budget++
		}
		size++
		ctx.expandChunk(cell, center)
	}
	return budget
}

// beginChunk starts a flood at a random region cell.
func (ctx *Context) beginChunk(region Region) world.Coordinates {
	ctx.Search.Begin(search.StrideFlood)
	first := ctx.randomCell(region)
	ctx.Search.Visit(first.Index(), 0, 0, -1)
	return first.Coordinates()
}

// expandChunk queues unvisited neighbors by distance to the chunk center,
// occasionally nudged back one step to roughen the outline.
func (ctx *Context) expandChunk(cell *world.Cell, center world.Coordinates) {
	for _, d := range world.Directions {
		neighbor := cell.Neighbor(d)
		if neighbor == nil || !ctx.Search.Unvisited(neighbor.Index()) {
			continue
		}
		heuristic := 0
		if ctx.chance(ctx.cfg.JitterProbability) {
			heuristic = 1
		}
		ctx.Search.Visit(neighbor.Index(), neighbor.Coordinates().DistanceTo(center), heuristic, cell.Index())
	}
}
