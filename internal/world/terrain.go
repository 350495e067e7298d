package world

// Terrain types for cell surfaces.
type Terrain uint8

const (
	TerrainSand  Terrain = iota // Deserts and beaches
	TerrainGrass                // Temperate land, lake beds
	TerrainMud                  // Wetlands, cold shallows, sea floor
	TerrainStone                // Rock deserts, cliffs, deep sea floor
	TerrainSnow                 // Peaks and frozen land
)

// TerrainTypes lists every terrain in index order.
var TerrainTypes = [5]Terrain{TerrainSand, TerrainGrass, TerrainMud, TerrainStone, TerrainSnow}

// String returns a human-readable name for a terrain type.
func (t Terrain) String() string {
	switch t {
	case TerrainSand:
		return "Sand"
	case TerrainGrass:
		return "Grass"
	case TerrainMud:
		return "Mud"
	case TerrainStone:
		return "Stone"
	case TerrainSnow:
		return "Snow"
	default:
		return "Unknown"
	}
}

// TerrainCounts returns a summary of terrain type distribution, split by land
// and underwater cells.
func TerrainCounts(g *Grid) (land, underwater map[Terrain]int) {
	land = make(map[Terrain]int)
	underwater = make(map[Terrain]int)
	for _, c := range g.cells {
		if c.IsUnderwater() {
			underwater[c.terrain]++
		} else {
			land[c.terrain]++
		}
	}
	return land, underwater
}
