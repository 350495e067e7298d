package mapgen

import (
	"math/rand"
	"time"

	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

// Context carries the mutable state of one generation run. Every stage draws
// from the same rand source so a seed reproduces the whole pipeline.
type Context struct {
	Seed   int64
	Rand   *rand.Rand
	Grid   *world.Grid
	Search *search.Searcher

	cfg     Config
	regions []Region
	noise   *temperatureNoise

	// Climate double buffer, indexed by cell.
	climate     []climateData
	nextClimate []climateData

	landCells      int
	landShortfall  int
	riverCells     int
	riverShortfall int
}

// climateData is the per-cell state of the climate simulation.
type climateData struct {
	clouds   float64
	moisture float64
}

// newContext seeds a run. The process-wide rand source is only consulted
// for a time-derived seed when no fixed seed is configured.
func newContext(cfg Config, grid *world.Grid, searcher *search.Searcher) *Context {
	seed := cfg.Seed
	if !cfg.UseFixedSeed {
		seed = timeSeed(time.Now())
	}
	return &Context{
		Seed:   seed,
		Rand:   rand.New(rand.NewSource(seed)),
		Grid:   grid,
		Search: searcher,
		cfg:    cfg,
		noise:  newTemperatureNoise(seed),
	}
}

// timeSeed derives a non-negative seed from a clock reading. It draws from
// a private source so the process-wide rand stream is left alone.
func timeSeed(now time.Time) int64 {
	nanos := now.UnixNano()
	seed := rand.New(rand.NewSource(nanos)).Int63()
	seed ^= nanos
	return seed & (1<<63 - 1)
}

// Moisture returns the final moisture of a cell after the climate stage.
func (ctx *Context) Moisture(index int) float64 {
	if index < 0 || index >= len(ctx.climate) {
		return 0
	}
	return ctx.climate[index].moisture
}

// randomCell picks a cell uniformly inside a region.
func (ctx *Context) randomCell(r Region) *world.Cell {
	x := r.XMin + ctx.Rand.Intn(r.XMax-r.XMin)
	z := r.ZMin + ctx.Rand.Intn(r.ZMax-r.ZMin)
	return ctx.Grid.CellAt(x, z)
}

// chance reports true with probability p.
func (ctx *Context) chance(p float64) bool {
	return ctx.Rand.Float64() < p
}
