package world

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is returned when grid dimensions are not positive
// multiples of the chunk size.
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Grid holds the complete hex cell array in row-major order.
type Grid struct {
	cells  []*Cell
	Width  int `json:"width"`  // Cells per row
	Height int `json:"height"` // Rows

	hook func(*Cell)
}

// NewGrid creates a flat grid of width×height cells with six-way adjacency.
// Nothing is allocated when the dimensions are rejected.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 || width%ChunkSizeX != 0 || height%ChunkSizeZ != 0 {
		return nil, fmt.Errorf("%w: %dx%d must be positive multiples of %dx%d",
			ErrInvalidDimensions, width, height, ChunkSizeX, ChunkSizeZ)
	}

	g := &Grid{
		cells:  make([]*Cell, width*height),
		Width:  width,
		Height: height,
	}
	for z, i := 0, 0; z < height; z++ {
		for x := 0; x < width; x++ {
			g.createCell(x, z, i)
			i++
		}
	}
	return g, nil
}

// createCell places a cell and links it to the already created cells west
// and south of it. Links are symmetric, so later cells complete the rest.
func (g *Grid) createCell(x, z, i int) {
	c := &Cell{
		index:   i,
		offsetX: x,
		offsetZ: z,
		coords:  FromOffset(x, z),
		grid:    g,
	}
	g.cells[i] = c

	if x > 0 {
		c.setNeighbor(W, g.cells[i-1])
	}
	if z > 0 {
		if z&1 == 0 {
			c.setNeighbor(SE, g.cells[i-g.Width])
			if x > 0 {
				c.setNeighbor(SW, g.cells[i-g.Width-1])
			}
		} else {
			c.setNeighbor(SW, g.cells[i-g.Width])
			if x < g.Width-1 {
				c.setNeighbor(SE, g.cells[i-g.Width+1])
			}
		}
	}
}

// SetChangeHook registers the observer notified after every mutating cell
// setter. Pass nil to disable notifications.
func (g *Grid) SetChangeHook(hook func(*Cell)) {
	g.hook = hook
}

// Reset restores every cell to default attributes.
func (g *Grid) Reset() {
	for _, c := range g.cells {
		c.reset()
	}
}

// Cell returns the cell at a flat index, or nil if out of range.
func (g *Grid) Cell(index int) *Cell {
	if index < 0 || index >= len(g.cells) {
		return nil
	}
	return g.cells[index]
}

// CellAt returns the cell at an offset position, or nil if out of bounds.
func (g *Grid) CellAt(x, z int) *Cell {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Height {
		return nil
	}
	return g.cells[x+z*g.Width]
}

// CellByCoordinates returns the cell at cube coordinates, or nil if out of bounds.
func (g *Grid) CellByCoordinates(c Coordinates) *Cell {
	return g.CellAt(c.X+c.Z/2, c.Z)
}

// CellAtPosition returns the cell containing a local-space point.
func (g *Grid) CellAtPosition(px, pz float64) *Cell {
	return g.CellByCoordinates(FromPosition(px, pz))
}

// Cells returns the flat cell slice. Callers must not reorder it.
func (g *Grid) Cells() []*Cell {
	return g.cells
}

// CellCount returns the total number of cells.
func (g *Grid) CellCount() int {
	return len(g.cells)
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, cells=%d)", g.Width, g.Height, g.CellCount())
}
