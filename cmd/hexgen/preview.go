package main

import (
	"strings"

	"github.com/talgya/hexmap/internal/world"
)

var terrainGlyphs = [...]byte{
	world.TerrainSand:  ':',
	world.TerrainGrass: ',',
	world.TerrainMud:   '%',
	world.TerrainStone: '^',
	world.TerrainSnow:  '#',
}

// renderPreview draws the grid north row first. Odd rows are shifted half a
// cell to the right, matching the offset layout.
func renderPreview(g *world.Grid) string {
	var b strings.Builder
	for z := g.Height - 1; z >= 0; z-- {
		if z&1 == 1 {
			b.WriteByte(' ')
		}
		for x := 0; x < g.Width; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(glyph(g.CellAt(x, z)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func glyph(c *world.Cell) byte {
	switch {
	case c.IsUnderwater():
		return '~'
	case c.HasRiver():
		return '='
	case int(c.Terrain()) < len(terrainGlyphs):
		return terrainGlyphs[c.Terrain()]
	default:
		return '?'
	}
}
