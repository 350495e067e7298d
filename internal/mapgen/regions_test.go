package mapgen

import (
	"errors"
	"testing"

	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

func TestPartitionRegions(t *testing.T) {
	cfg := DefaultConfig()
	heads := func() bool { return true }
	tails := func() bool { return false }

	tests := []struct {
		name  string
		count int
		coin  func() bool
		want  []Region
	}{
		{"one", 1, heads, []Region{{5, 75, 5, 55}}},
		{"two side by side", 2, heads, []Region{{5, 35, 5, 55}, {45, 75, 5, 55}}},
		{"two stacked", 2, tails, []Region{{5, 75, 5, 25}, {5, 75, 35, 55}}},
		{"three", 3, heads, []Region{{5, 21, 5, 55}, {31, 48, 5, 55}, {58, 75, 5, 55}}},
		{"four", 4, heads, []Region{{5, 35, 5, 25}, {45, 75, 5, 25}, {45, 75, 35, 55}, {5, 35, 35, 55}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.RegionCount = tt.count
			got := partitionRegions(cfg, 80, 60, tt.coin)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d regions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("region %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCreateRegionsRejectsEmptyLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RegionCount = 4
	grid, err := world.NewGrid(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	ctx := newContext(cfg, grid, search.NewSearcher(grid.CellCount()))
	if err := ctx.createRegions(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGenerateIntoLeavesGridOnLayoutError(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.MapBorderX = 10
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	grid, err := world.NewGrid(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	grid.Cell(3).SetElevation(4)

	if _, err := gen.GenerateInto(grid); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if grid.Cell(3).Elevation() != 4 {
		t.Fatal("failed run must not modify the grid")
	}
}
