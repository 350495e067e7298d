package mapgen

import (
	"testing"

	"github.com/talgya/hexmap/internal/world"
)

// riverTestContext returns a dry 10×5 plateau at elevation 5.
func riverTestContext(t *testing.T) *Context {
	t.Helper()
	cfg := SmallTestConfig()
	cfg.WaterLevel = 0
	cfg.ElevationMinimum = -2
	cfg.ExtraLakeProbability = 0
	ctx := newTestContext(t, cfg, 10, 5)
	for _, c := range ctx.Grid.Cells() {
		c.SetElevation(5)
	}
	return ctx
}

func TestCreateRiverMergesIntoExistingRiver(t *testing.T) {
	ctx := riverTestContext(t)
	g := ctx.Grid

	// Existing river: P -> Q -> sea.
	p, q, sea := g.CellAt(4, 2), g.CellAt(5, 2), g.CellAt(6, 2)
	p.SetElevation(3)
	q.SetElevation(2)
	sea.SetElevation(1)
	sea.SetWaterLevel(2)
	p.SetOutgoingRiver(world.E)
	q.SetOutgoingRiver(world.E)
	if !p.HasOutgoingRiver() || !q.HasOutgoingRiver() {
		t.Fatal("setup: existing river not carved")
	}

	origin := g.CellAt(3, 2)
	origin.SetElevation(4)

	length := ctx.createRiver(origin)

	if length != 1 {
		t.Fatalf("merged river length = %d, want 1", length)
	}
	if !origin.HasOutgoingRiver() || origin.OutgoingRiver() != world.E {
		t.Fatal("origin should flow east into the existing river")
	}
	if !p.HasIncomingRiver() || p.IncomingRiver() != world.W {
		t.Fatal("junction should report the new incoming edge")
	}
	if !p.HasOutgoingRiver() || p.OutgoingRiver() != world.E {
		t.Fatal("junction must keep its outgoing edge")
	}
	if !q.HasIncomingRiver() || q.IncomingRiver() != world.W {
		t.Fatal("downstream cell lost its incoming edge")
	}
}

func TestCreateRiverEndsInLake(t *testing.T) {
	ctx := riverTestContext(t)
	g := ctx.Grid

	origin := g.CellAt(3, 2)
	origin.SetElevation(4)
	pit := origin.Neighbor(world.E)
	pit.SetElevation(3)

	length := ctx.createRiver(origin)

	if length != 2 {
		t.Fatalf("river length = %d, want 2", length)
	}
	if !origin.HasOutgoingRiver() || origin.OutgoingRiver() != world.E {
		t.Fatal("origin should flow into the pit")
	}
	if pit.WaterLevel() != 4 || !pit.IsUnderwater() {
		t.Fatalf("pit should become a lake at the lowest neighbor level, water level %d", pit.WaterLevel())
	}
	if pit.Elevation() != 3 {
		t.Fatalf("pit elevation changed to %d", pit.Elevation())
	}
}

func TestCreateRiverDeepensFlatLake(t *testing.T) {
	ctx := riverTestContext(t)
	g := ctx.Grid

	for _, c := range g.Cells() {
		c.SetElevation(6)
	}
	// A level channel from origin into end, walled in on every other side.
	origin := g.CellAt(3, 2)
	origin.SetElevation(5)
	end := origin.Neighbor(world.E)
	end.SetElevation(5)

	length := ctx.createRiver(origin)

	if length != 2 {
		t.Fatalf("river length = %d, want 2", length)
	}
	if end.WaterLevel() != 5 || end.Elevation() != 4 {
		t.Fatalf("flat lake: water level %d elevation %d, want 5 and 4", end.WaterLevel(), end.Elevation())
	}
	if !origin.HasOutgoingRiver() || !end.HasIncomingRiver() {
		t.Fatal("lowering the lake floor must keep the river")
	}
}

func TestCreateRiverAbandonsStuckOrigin(t *testing.T) {
	ctx := riverTestContext(t)
	origin := ctx.Grid.CellAt(3, 2)
	origin.SetElevation(2)

	if length := ctx.createRiver(origin); length != 0 {
		t.Fatalf("stuck origin length = %d, want 0", length)
	}
	if origin.HasRiver() {
		t.Fatal("stuck origin must not keep a river")
	}
}

func TestCreateRiverReachesSea(t *testing.T) {
	ctx := riverTestContext(t)
	g := ctx.Grid
	for x := 0; x < g.Width; x++ {
		for z := 0; z < g.Height; z++ {
			g.CellAt(x, z).SetElevation(9 - x)
		}
	}
	for z := 0; z < g.Height; z++ {
		g.CellAt(9, z).SetWaterLevel(3)
	}

	origin := g.CellAt(2, 2)
	length := ctx.createRiver(origin)

	if length < 8 {
		t.Fatalf("river length = %d, expected to run downhill to the sea", length)
	}
	cell := origin
	for steps := 0; !cell.IsUnderwater(); steps++ {
		if steps > g.CellCount() || !cell.HasOutgoingRiver() {
			t.Fatalf("river broken at cell %d", cell.Index())
		}
		next := cell.Neighbor(cell.OutgoingRiver())
		if next.Elevation() > cell.Elevation() && cell.WaterLevel() != next.Elevation() {
			t.Fatalf("river flows uphill from %d to %d", cell.Index(), next.Index())
		}
		cell = next
	}
}

func TestIsValidRiverOrigin(t *testing.T) {
	ctx := riverTestContext(t)
	g := ctx.Grid
	origin := g.CellAt(3, 2)
	if !isValidRiverOrigin(origin) {
		t.Fatal("dry plateau cell should be a valid origin")
	}
	origin.Neighbor(world.SW).SetWaterLevel(6)
	if isValidRiverOrigin(origin) {
		t.Fatal("origin next to water should be rejected")
	}
}
