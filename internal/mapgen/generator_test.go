package mapgen

import (
	"testing"
	"time"

	"github.com/talgya/hexmap/internal/navigation"
	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

// newTestContext prepares a flooded grid the way GenerateInto does before
// running any stage.
func newTestContext(t *testing.T, cfg Config, width, height int) *Context {
	t.Helper()
	grid, err := world.NewGrid(width, height)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	ctx := newContext(cfg, grid, search.NewSearcher(grid.CellCount()))
	for _, c := range grid.Cells() {
		c.SetWaterLevel(cfg.WaterLevel)
	}
	if err := ctx.createRegions(); err != nil {
		t.Fatalf("createRegions: %v", err)
	}
	return ctx
}

func countLand(g *world.Grid) int {
	n := 0
	for _, c := range g.Cells() {
		if !c.IsUnderwater() {
			n++
		}
	}
	return n
}

func countErodible(g *world.Grid) int {
	n := 0
	for _, c := range g.Cells() {
		if isErodible(c) {
			n++
		}
	}
	return n
}

func assertElevationBounds(t *testing.T, cfg Config, g *world.Grid) {
	t.Helper()
	for _, c := range g.Cells() {
		if e := c.Elevation(); e < cfg.ElevationMinimum || e > cfg.ElevationMaximum {
			t.Fatalf("cell %d elevation %d outside [%d, %d]",
				c.Index(), e, cfg.ElevationMinimum, cfg.ElevationMaximum)
		}
	}
}

func TestCreateLandMeetsBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.UseFixedSeed = true
	ctx := newTestContext(t, cfg, 40, 30)

	ctx.createLand()

	assertElevationBounds(t, cfg, ctx.Grid)
	if got := countLand(ctx.Grid); got != ctx.landCells {
		t.Fatalf("land cells = %d, tracked %d", got, ctx.landCells)
	}
	if ctx.landShortfall == 0 && ctx.landCells != 600 {
		t.Fatalf("land cells = %d, want 600 (50%% of 1200)", ctx.landCells)
	}
}

func TestCreateLandShortfallIsReported(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.LandPercentage = 100
	cfg.ChunkSizeMin = 1
	cfg.ChunkSizeMax = 1
	ctx := newTestContext(t, cfg, 20, 15)

	ctx.createLand()

	// Borders stay underwater, so a full-map budget cannot be met.
	if ctx.landShortfall == 0 {
		t.Fatal("expected a land shortfall")
	}
	if got := countLand(ctx.Grid); got != ctx.landCells {
		t.Fatalf("land cells = %d, tracked %d", got, ctx.landCells)
	}
}

func TestErosionConverges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	cfg.UseFixedSeed = true
	ctx := newTestContext(t, cfg, 40, 30)
	ctx.createLand()

	initial := countErodible(ctx.Grid)
	if initial == 0 {
		t.Fatal("setup: expected erodible cells after land creation")
	}
	ctx.erodeLand()

	target := int(float64(initial*(100-cfg.ErosionPercentage)) * 0.01)
	if got := countErodible(ctx.Grid); got > target {
		t.Fatalf("%d erodible cells remain, target %d (initial %d)", got, target, initial)
	}
	assertElevationBounds(t, cfg, ctx.Grid)
}

func TestErosionLowersSpike(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.ErosionPercentage = 100
	ctx := newTestContext(t, cfg, 5, 5)
	spike := ctx.Grid.CellAt(2, 2)
	spike.SetElevation(6)

	ctx.erodeLand()

	if countErodible(ctx.Grid) != 0 {
		t.Fatal("full erosion should leave no erodible cells")
	}
	total := 0
	for _, c := range ctx.Grid.Cells() {
		total += c.Elevation()
	}
	if total != 6 {
		t.Fatalf("erosion must conserve elevation, total = %d", total)
	}
}

func TestErodibleSet(t *testing.T) {
	grid, err := world.NewGrid(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	s := newErodibleSet(grid.CellCount())
	a, b, c := grid.Cell(1), grid.Cell(2), grid.Cell(3)
	s.add(a)
	s.add(b)
	s.add(c)
	s.add(b)
	if s.len() != 3 {
		t.Fatalf("len = %d, want 3", s.len())
	}
	s.remove(a)
	if s.contains(a) || !s.contains(b) || !s.contains(c) || s.len() != 2 {
		t.Fatal("remove broke membership")
	}
	s.remove(a)
	s.remove(c)
	s.remove(b)
	if s.len() != 0 {
		t.Fatal("set should be empty")
	}
}

func TestClimateMoistureClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.UseFixedSeed = true
	ctx := newTestContext(t, cfg, 40, 30)
	ctx.createLand()
	ctx.erodeLand()

	ctx.createClimate()

	wet := 0
	for i := range ctx.Grid.Cells() {
		m := ctx.Moisture(i)
		if m < 0 || m > 1 {
			t.Fatalf("cell %d moisture %f outside [0, 1]", i, m)
		}
		if m > cfg.StartingMoisture {
			wet++
		}
	}
	if wet == 0 {
		t.Fatal("expected water to spread moisture")
	}
}

func TestClimateUnderwaterSaturates(t *testing.T) {
	cfg := SmallTestConfig()
	ctx := newTestContext(t, cfg, 5, 5)

	ctx.createClimate()

	for i := range ctx.Grid.Cells() {
		if ctx.Moisture(i) != 1 {
			t.Fatalf("flooded cell %d moisture %f, want 1", i, ctx.Moisture(i))
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, ra, err := gen.Generate(20, 15)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, rb, err := gen.Generate(20, 15)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if ra.Seed != rb.Seed || ra.LandCells != rb.LandCells || ra.RiverCells != rb.RiverCells {
		t.Fatalf("reports differ: %+v vs %+v", ra, rb)
	}
	for i, ca := range a.Cells() {
		cb := b.Cell(i)
		if ca.Elevation() != cb.Elevation() || ca.WaterLevel() != cb.WaterLevel() ||
			ca.Terrain() != cb.Terrain() || ca.PlantLevel() != cb.PlantLevel() ||
			ca.HasIncomingRiver() != cb.HasIncomingRiver() ||
			ca.HasOutgoingRiver() != cb.HasOutgoingRiver() ||
			ca.IncomingRiver() != cb.IncomingRiver() || ca.OutgoingRiver() != cb.OutgoingRiver() {
			t.Fatalf("cell %d differs between runs with seed %d", i, ra.Seed)
		}
	}
}

func TestRegenerateAfterQueriesIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	cfg.UseFixedSeed = true
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	grid, _, err := gen.Generate(40, 30)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	type snapshot struct {
		elevation, water int
		terrain          world.Terrain
		outgoing         bool
	}
	snap := make([]snapshot, grid.CellCount())
	for i, c := range grid.Cells() {
		snap[i] = snapshot{c.Elevation(), c.WaterLevel(), c.Terrain(), c.HasOutgoingRiver()}
	}

	// Queries share the generator's searcher and settle cells past the
	// next run's first flood phase.
	paths := navigation.New(grid, gen.Searcher())
	if len(paths.VisibleCells(grid.Cell(620), 20)) == 0 {
		t.Fatal("visibility query returned nothing")
	}
	paths.FindPath(grid.Cell(0), grid.Cell(grid.CellCount()-1), 24)

	if _, err := gen.GenerateInto(grid); err != nil {
		t.Fatalf("GenerateInto: %v", err)
	}
	for i, c := range grid.Cells() {
		got := snapshot{c.Elevation(), c.WaterLevel(), c.Terrain(), c.HasOutgoingRiver()}
		if got != snap[i] {
			t.Fatalf("cell %d = %+v after queries, want %+v", i, got, snap[i])
		}
	}
}

func TestTimeSeed(t *testing.T) {
	now := time.Unix(1700000000, 123456789)
	a, b := timeSeed(now), timeSeed(now)
	if a != b {
		t.Fatalf("same clock reading gave %d and %d", a, b)
	}
	if a < 0 {
		t.Fatalf("seed %d should be non-negative", a)
	}
	if timeSeed(now.Add(time.Nanosecond)) == a {
		t.Error("different clock readings should give different seeds")
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	cfg := SmallTestConfig()
	genA, _ := NewGenerator(cfg)
	cfg.Seed = 43
	genB, _ := NewGenerator(cfg)

	a, _, err := genA.Generate(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := genB.Generate(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range a.Cells() {
		if c.Elevation() != b.Cell(i).Elevation() {
			return
		}
	}
	t.Fatal("different seeds produced identical elevation")
}

func TestGenerateInvariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 2024
	cfg.UseFixedSeed = true
	cfg.RegionCount = 2
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	grid, report, err := gen.Generate(40, 30)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	assertElevationBounds(t, cfg, grid)
	if len(report.Regions) != 2 {
		t.Errorf("report regions = %d, want 2", len(report.Regions))
	}
	if report.Seed != 2024 {
		t.Errorf("report seed = %d", report.Seed)
	}

	rivers := 0
	for _, c := range grid.Cells() {
		if c.HasOutgoingRiver() {
			rivers++
			n := c.Neighbor(c.OutgoingRiver())
			if n == nil || !n.HasIncomingRiver() || n.IncomingRiver() != c.OutgoingRiver().Opposite() {
				t.Fatalf("cell %d outgoing river has no matching incoming edge", c.Index())
			}
		}
		if c.HasIncomingRiver() {
			n := c.Neighbor(c.IncomingRiver())
			if n == nil || !n.HasOutgoingRiver() || n.OutgoingRiver() != c.IncomingRiver().Opposite() {
				t.Fatalf("cell %d incoming river has no matching outgoing edge", c.Index())
			}
		}
		if c.Terrain() == world.TerrainSnow && c.PlantLevel() != 0 {
			t.Fatalf("snow cell %d has plants", c.Index())
		}
	}
	if report.RiverCells > 0 && rivers == 0 {
		t.Fatal("report counts river cells but none were carved")
	}
	if gen.Searcher().Phase() != 0 {
		t.Fatal("search phases should be reset after generation")
	}
}

func TestGenerateRejectsBadDimensions(t *testing.T) {
	gen, _ := NewGenerator(SmallTestConfig())
	if _, _, err := gen.Generate(21, 15); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestRandomSeedWhenNotFixed(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.UseFixedSeed = false
	cfg.Seed = 42
	gen, _ := NewGenerator(cfg)
	_, report, err := gen.Generate(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	if report.Seed < 0 {
		t.Fatalf("seed %d should be non-negative", report.Seed)
	}
}
