package world

import (
	"errors"
	"testing"
)

func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d): %v", w, h, err)
	}
	return g
}

func TestNewGridRejectsInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 5},
		{"negative height", 5, -5},
		{"width not chunk multiple", 7, 5},
		{"height not chunk multiple", 10, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.w, tt.h)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("expected ErrInvalidDimensions, got %v", err)
			}
			if g != nil {
				t.Fatal("expected nil grid on error")
			}
		})
	}
}

func TestAdjacencySymmetry(t *testing.T) {
	g := mustGrid(t, 20, 15)
	for _, c := range g.Cells() {
		for _, d := range Directions {
			n := c.Neighbor(d)
			if n == nil {
				continue
			}
			if back := n.Neighbor(d.Opposite()); back != c {
				t.Fatalf("cell %d neighbor %s is %d, but its %s neighbor is %v",
					c.Index(), d, n.Index(), d.Opposite(), back)
			}
			if c.Coordinates().DistanceTo(n.Coordinates()) != 1 {
				t.Fatalf("cell %d and neighbor %d are not adjacent", c.Index(), n.Index())
			}
		}
	}
}

func TestInteriorCellsHaveSixNeighbors(t *testing.T) {
	g := mustGrid(t, 10, 10)
	for z := 1; z < g.Height-1; z++ {
		for x := 1; x < g.Width-1; x++ {
			c := g.CellAt(x, z)
			for _, d := range Directions {
				if c.Neighbor(d) == nil {
					t.Fatalf("interior cell (%d,%d) missing %s neighbor", x, z, d)
				}
			}
		}
	}
}

func TestCellLookups(t *testing.T) {
	g := mustGrid(t, 10, 5)
	for _, c := range g.Cells() {
		if got := g.CellByCoordinates(c.Coordinates()); got != c {
			t.Fatalf("CellByCoordinates(%v) = %v, want cell %d", c.Coordinates(), got, c.Index())
		}
		px, pz := c.Position()
		if got := g.CellAtPosition(px, pz); got != c {
			t.Fatalf("CellAtPosition(%.1f, %.1f) did not return cell %d", px, pz, c.Index())
		}
	}
	if g.CellAt(-1, 0) != nil || g.CellAt(10, 0) != nil || g.Cell(50) != nil {
		t.Fatal("out of range lookups should return nil")
	}
}

func TestDirectionHelpers(t *testing.T) {
	tests := []struct {
		d                                         Direction
		opposite, next, previous, next2, previous2 Direction
	}{
		{NE, SW, E, NW, SE, W},
		{E, W, SE, NE, SW, NW},
		{NW, SE, NE, W, E, SW},
	}
	for _, tt := range tests {
		if got := tt.d.Opposite(); got != tt.opposite {
			t.Errorf("%s.Opposite() = %s, want %s", tt.d, got, tt.opposite)
		}
		if got := tt.d.Next(); got != tt.next {
			t.Errorf("%s.Next() = %s, want %s", tt.d, got, tt.next)
		}
		if got := tt.d.Previous(); got != tt.previous {
			t.Errorf("%s.Previous() = %s, want %s", tt.d, got, tt.previous)
		}
		if got := tt.d.Next2(); got != tt.next2 {
			t.Errorf("%s.Next2() = %s, want %s", tt.d, got, tt.next2)
		}
		if got := tt.d.Previous2(); got != tt.previous2 {
			t.Errorf("%s.Previous2() = %s, want %s", tt.d, got, tt.previous2)
		}
	}
}

func TestDistanceTo(t *testing.T) {
	a := FromOffset(0, 0)
	b := FromOffset(4, 4)
	if got := a.DistanceTo(b); got != 6 {
		t.Errorf("distance (0,0)->(4,4) = %d, want 6", got)
	}
	if got := b.DistanceTo(a); got != 6 {
		t.Errorf("distance should be symmetric, got %d", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Errorf("distance to self = %d, want 0", got)
	}
}

func TestEdgeTypeBetween(t *testing.T) {
	if EdgeTypeBetween(2, 2) != EdgeFlat {
		t.Error("equal elevations should be flat")
	}
	if EdgeTypeBetween(2, 3) != EdgeSlope || EdgeTypeBetween(3, 2) != EdgeSlope {
		t.Error("one step should be a slope")
	}
	if EdgeTypeBetween(0, 2) != EdgeCliff || EdgeTypeBetween(5, 1) != EdgeCliff {
		t.Error("two or more steps should be a cliff")
	}
}

func TestResetKeepsTopology(t *testing.T) {
	g := mustGrid(t, 5, 5)
	c := g.CellAt(2, 2)
	c.SetElevation(4)
	c.SetWaterLevel(2)
	c.SetPlantLevel(2)
	c.IncreaseVisibility()

	g.Reset()

	if c.Elevation() != 0 || c.WaterLevel() != 0 || c.PlantLevel() != 0 || c.IsExplored() {
		t.Fatal("Reset should clear cell attributes")
	}
	if c.Neighbor(E) != g.CellAt(3, 2) || c.Index() != 12 {
		t.Fatal("Reset should keep identity and neighbors")
	}
}
