// Package mapgen carves continents, erodes them, simulates climate, and
// places rivers and biomes on a hex grid.
//
// A run is a fixed pipeline over one explicit Context:
//
//	regions → land → erosion → climate → rivers → biomes → settlements
//
// Runs with the same seed, config and grid size produce identical cells.
package mapgen

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

// Report summarizes a generation run.
type Report struct {
	Seed           int64         `json:"seed"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	Regions        []Region      `json:"regions"`
	LandCells      int           `json:"land_cells"`
	LandShortfall  int           `json:"land_shortfall"`
	RiverCells     int           `json:"river_cells"`
	RiverShortfall int           `json:"river_shortfall"`
	Settlements    []Settlement  `json:"settlements,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Generator runs the generation pipeline with a fixed configuration.
type Generator struct {
	cfg      Config
	searcher *search.Searcher
	last     *Context
}

// NewGenerator validates cfg and returns a generator for it.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config { return g.cfg }

// Searcher returns the scratch state used by the last run, sized to its
// grid. Phases are reset after every run so queries may reuse it.
func (g *Generator) Searcher() *search.Searcher { return g.searcher }

// LastRun returns the context of the most recent run, or nil.
func (g *Generator) LastRun() *Context { return g.last }

// Generate creates a width×height grid and fills it.
func (g *Generator) Generate(width, height int) (*world.Grid, Report, error) {
	grid, err := world.NewGrid(width, height)
	if err != nil {
		return nil, Report{}, err
	}
	report, err := g.GenerateInto(grid)
	if err != nil {
		return nil, Report{}, err
	}
	return grid, report, nil
}

// GenerateInto resets grid and regenerates every cell. The grid is left
// untouched when the region layout does not fit its dimensions.
func (g *Generator) GenerateInto(grid *world.Grid) (Report, error) {
	start := time.Now()
	if g.searcher == nil || g.searcher.Size() != grid.CellCount() {
		g.searcher = search.NewSearcher(grid.CellCount())
	}

	ctx := newContext(g.cfg, grid, g.searcher)
	if err := ctx.createRegions(); err != nil {
		return Report{}, fmt.Errorf("generate %s: %w", grid, err)
	}

	grid.Reset()
	for _, c := range grid.Cells() {
		c.SetWaterLevel(g.cfg.WaterLevel)
	}
	// Queries between runs leave settled phases behind.
	g.searcher.Reset()
	slog.Debug("map generation started", "seed", ctx.Seed, "width", grid.Width, "height", grid.Height,
		"regions", len(ctx.regions))

	ctx.createLand()
	slog.Debug("land created", "land_cells", ctx.landCells, "shortfall", ctx.landShortfall)

	ctx.erodeLand()
	slog.Debug("land eroded")

	ctx.createClimate()
	slog.Debug("climate simulated", "cycles", g.cfg.ClimateCycles)

	ctx.createRivers()
	slog.Debug("rivers carved", "river_cells", ctx.riverCells, "shortfall", ctx.riverShortfall)

	ctx.setTerrainType()

	settlements := ctx.placeSettlements()
	if len(settlements) > 0 {
		slog.Debug("settlements placed", "count", len(settlements))
	}
	g.searcher.Reset()
	g.last = ctx

	report := Report{
		Seed:           ctx.Seed,
		Width:          grid.Width,
		Height:         grid.Height,
		Regions:        ctx.regions,
		LandCells:      ctx.landCells,
		LandShortfall:  ctx.landShortfall,
		RiverCells:     ctx.riverCells,
		RiverShortfall: ctx.riverShortfall,
		Settlements:    settlements,
		Duration:       time.Since(start),
	}
	if ctx.landShortfall > 0 {
		msg := fmt.Sprintf("land budget not spent: %d cells short, check map borders and land percentage", ctx.landShortfall)
		report.Warnings = append(report.Warnings, msg)
		slog.Warn("land budget not spent", "seed", ctx.Seed, "shortfall", ctx.landShortfall)
	}
	if ctx.riverShortfall > 0 {
		msg := fmt.Sprintf("river budget not spent: %d cells short", ctx.riverShortfall)
		report.Warnings = append(report.Warnings, msg)
		slog.Warn("river budget not spent", "seed", ctx.Seed, "shortfall", ctx.riverShortfall)
	}

	slog.Debug("map generation finished", "seed", ctx.Seed, "duration", report.Duration)
	return report, nil
}
