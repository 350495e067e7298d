package world

// MaxFeatureLevel caps urban, farm, and plant density.
const MaxFeatureLevel = 3

// Cell is a single tile on the hex grid.
//
// Neighbors are non-owning references; the grid's flat cell slice owns every
// cell. All mutating setters are no-ops when nothing changes and report a
// real change to the grid's change hook exactly once.
type Cell struct {
	index   int
	offsetX int
	offsetZ int
	coords  Coordinates
	grid    *Grid

	neighbors [6]*Cell

	elevation  int
	waterLevel int
	terrain    Terrain

	urbanLevel   int
	farmLevel    int
	plantLevel   int
	specialIndex int
	walled       bool

	hasIncomingRiver bool
	hasOutgoingRiver bool
	incomingRiver    Direction
	outgoingRiver    Direction

	roads [6]bool

	visibility int
	explored   bool
}

// Index returns the cell's position in the grid's flat array.
func (c *Cell) Index() int { return c.index }

// Coordinates returns the cube coordinates of the cell.
func (c *Cell) Coordinates() Coordinates { return c.coords }

// Offset returns the column and row of the cell.
func (c *Cell) Offset() (x, z int) { return c.offsetX, c.offsetZ }

// Position returns the local-space center of the cell on the map plane.
func (c *Cell) Position() (x, z float64) {
	x = float64(c.offsetX)*(InnerRadius*2) + InnerRadius*float64(c.offsetZ%2)
	z = float64(c.offsetZ) * (OuterRadius * 1.5)
	return x, z
}

// Neighbor returns the adjacent cell in the given direction, or nil at the map edge.
func (c *Cell) Neighbor(d Direction) *Cell {
	return c.neighbors[d]
}

// setNeighbor links two cells across an edge in both directions. Any cell
// previously linked on either side loses its back-link. A nil other unlinks.
func (c *Cell) setNeighbor(d Direction, other *Cell) {
	opp := d.Opposite()
	if old := c.neighbors[d]; old != nil && old.neighbors[opp] == c {
		old.neighbors[opp] = nil
	}
	c.neighbors[d] = other
	if other == nil {
		return
	}
	if prev := other.neighbors[opp]; prev != nil && prev.neighbors[d] == other {
		prev.neighbors[d] = nil
	}
	other.neighbors[opp] = c
}

// EdgeType returns the edge classification toward a neighbor direction.
func (c *Cell) EdgeType(d Direction) EdgeType {
	return EdgeTypeBetween(c.elevation, c.neighbors[d].elevation)
}

// EdgeTypeTo returns the edge classification toward any other cell.
func (c *Cell) EdgeTypeTo(other *Cell) EdgeType {
	return EdgeTypeBetween(c.elevation, other.elevation)
}

// ElevationDifference returns the absolute elevation difference to a neighbor.
func (c *Cell) ElevationDifference(d Direction) int {
	return abs(c.elevation - c.neighbors[d].elevation)
}

func (c *Cell) changed() {
	if c.grid != nil && c.grid.hook != nil {
		c.grid.hook(c)
	}
}

// ── Elevation and water ─────────────────────────────────────────────

// Elevation returns the terrain height in steps.
func (c *Cell) Elevation() int { return c.elevation }

// SetElevation changes the terrain height. Rivers that become uphill are
// removed and roads across steep edges are dropped.
func (c *Cell) SetElevation(elevation int) {
	if c.elevation == elevation {
		return
	}
	c.elevation = elevation
	c.validateRivers()
	for i, road := range c.roads {
		if road && c.ElevationDifference(Direction(i)) > 1 {
			c.setRoad(Direction(i), false)
		}
	}
	c.changed()
}

// WaterLevel returns the water surface height in steps.
func (c *Cell) WaterLevel() int { return c.waterLevel }

// SetWaterLevel changes the water surface height.
func (c *Cell) SetWaterLevel(level int) {
	if c.waterLevel == level {
		return
	}
	c.waterLevel = level
	c.validateRivers()
	c.changed()
}

// IsUnderwater reports whether the water surface is above the terrain.
func (c *Cell) IsUnderwater() bool {
	return c.waterLevel > c.elevation
}

// ViewElevation is the greater of elevation and water level.
func (c *Cell) ViewElevation() int {
	if c.elevation >= c.waterLevel {
		return c.elevation
	}
	return c.waterLevel
}

// ── Surface features ────────────────────────────────────────────────

// Terrain returns the surface type.
func (c *Cell) Terrain() Terrain { return c.terrain }

// SetTerrain changes the surface type.
func (c *Cell) SetTerrain(t Terrain) {
	if c.terrain == t {
		return
	}
	c.terrain = t
	c.changed()
}

// UrbanLevel returns urban density (0–3).
func (c *Cell) UrbanLevel() int { return c.urbanLevel }

// SetUrbanLevel changes urban density, clamped to 0–3.
func (c *Cell) SetUrbanLevel(level int) {
	c.setLevel(&c.urbanLevel, level)
}

// FarmLevel returns farm density (0–3).
func (c *Cell) FarmLevel() int { return c.farmLevel }

// SetFarmLevel changes farm density, clamped to 0–3.
func (c *Cell) SetFarmLevel(level int) {
	c.setLevel(&c.farmLevel, level)
}

// PlantLevel returns vegetation density (0–3).
func (c *Cell) PlantLevel() int { return c.plantLevel }

// SetPlantLevel changes vegetation density, clamped to 0–3.
func (c *Cell) SetPlantLevel(level int) {
	c.setLevel(&c.plantLevel, level)
}

func (c *Cell) setLevel(field *int, level int) {
	if level < 0 {
		level = 0
	} else if level > MaxFeatureLevel {
		level = MaxFeatureLevel
	}
	if *field == level {
		return
	}
	*field = level
	c.changed()
}

// SpecialIndex returns the special feature id, 0 when none.
func (c *Cell) SpecialIndex() int { return c.specialIndex }

// IsSpecial reports whether the cell holds a special feature.
func (c *Cell) IsSpecial() bool { return c.specialIndex > 0 }

// SetSpecialIndex places or clears a special feature. Cells with rivers
// cannot hold one. Placing a feature removes the cell's roads.
func (c *Cell) SetSpecialIndex(index int) {
	if c.specialIndex == index || c.HasRiver() {
		return
	}
	c.specialIndex = index
	c.removeRoads()
	c.changed()
}

// Walled reports whether the cell is enclosed by walls.
func (c *Cell) Walled() bool { return c.walled }

// SetWalled changes the wall flag.
func (c *Cell) SetWalled(walled bool) {
	if c.walled == walled {
		return
	}
	c.walled = walled
	c.changed()
}

// ── Rivers ──────────────────────────────────────────────────────────

// HasIncomingRiver reports whether a river flows into the cell.
func (c *Cell) HasIncomingRiver() bool { return c.hasIncomingRiver }

// HasOutgoingRiver reports whether a river flows out of the cell.
func (c *Cell) HasOutgoingRiver() bool { return c.hasOutgoingRiver }

// IncomingRiver returns the direction a river flows in from.
func (c *Cell) IncomingRiver() Direction { return c.incomingRiver }

// OutgoingRiver returns the direction a river flows out toward.
func (c *Cell) OutgoingRiver() Direction { return c.outgoingRiver }

// HasRiver reports whether any river touches the cell.
func (c *Cell) HasRiver() bool {
	return c.hasIncomingRiver || c.hasOutgoingRiver
}

// HasRiverBeginOrEnd reports whether the cell is a river source or mouth.
func (c *Cell) HasRiverBeginOrEnd() bool {
	return c.hasIncomingRiver != c.hasOutgoingRiver
}

// RiverBeginOrEndDirection returns the incoming direction if present,
// otherwise the outgoing direction.
func (c *Cell) RiverBeginOrEndDirection() Direction {
	if c.hasIncomingRiver {
		return c.incomingRiver
	}
	return c.outgoingRiver
}

// HasRiverThroughEdge reports whether a river crosses the given edge.
func (c *Cell) HasRiverThroughEdge(d Direction) bool {
	return c.hasIncomingRiver && c.incomingRiver == d ||
		c.hasOutgoingRiver && c.outgoingRiver == d
}

// isValidRiverDestination allows flow downhill or level, or out of a lake
// whose surface meets the neighbor's terrain.
func (c *Cell) isValidRiverDestination(neighbor *Cell) bool {
	return neighbor != nil &&
		(c.elevation >= neighbor.elevation || c.waterLevel == neighbor.elevation)
}

// SetOutgoingRiver starts a river flowing toward a neighbor. Invalid
// destinations are ignored. Any previous outgoing river is replaced and the
// neighbor's previous incoming river is removed.
func (c *Cell) SetOutgoingRiver(d Direction) {
	if c.hasOutgoingRiver && c.outgoingRiver == d {
		return
	}
	neighbor := c.neighbors[d]
	if !c.isValidRiverDestination(neighbor) {
		return
	}

	c.removeOutgoingRiver()
	if c.hasIncomingRiver && c.incomingRiver == d {
		c.removeIncomingRiver()
	}
	c.hasOutgoingRiver = true
	c.outgoingRiver = d
	c.specialIndex = 0

	neighbor.removeIncomingRiver()
	neighbor.hasIncomingRiver = true
	neighbor.incomingRiver = d.Opposite()
	neighbor.specialIndex = 0

	c.setRoad(d, false)
	c.changed()
}

// RemoveOutgoingRiver removes the river leaving this cell.
func (c *Cell) RemoveOutgoingRiver() {
	if c.removeOutgoingRiver() {
		c.changed()
	}
}

// RemoveIncomingRiver removes the river entering this cell.
func (c *Cell) RemoveIncomingRiver() {
	if c.removeIncomingRiver() {
		c.changed()
	}
}

// RemoveRiver removes both river edges.
func (c *Cell) RemoveRiver() {
	out := c.removeOutgoingRiver()
	in := c.removeIncomingRiver()
	if out || in {
		c.changed()
	}
}

func (c *Cell) removeOutgoingRiver() bool {
	if !c.hasOutgoingRiver {
		return false
	}
	c.hasOutgoingRiver = false
	c.neighbors[c.outgoingRiver].hasIncomingRiver = false
	return true
}

func (c *Cell) removeIncomingRiver() bool {
	if !c.hasIncomingRiver {
		return false
	}
	c.hasIncomingRiver = false
	c.neighbors[c.incomingRiver].hasOutgoingRiver = false
	return true
}

func (c *Cell) validateRivers() {
	if c.hasOutgoingRiver && !c.isValidRiverDestination(c.neighbors[c.outgoingRiver]) {
		c.removeOutgoingRiver()
	}
	if c.hasIncomingRiver && !c.neighbors[c.incomingRiver].isValidRiverDestination(c) {
		c.removeIncomingRiver()
	}
}

// ── Roads ───────────────────────────────────────────────────────────

// HasRoadThroughEdge reports whether a road crosses the given edge.
func (c *Cell) HasRoadThroughEdge(d Direction) bool {
	return c.roads[d]
}

// HasRoads reports whether the cell has at least one road.
func (c *Cell) HasRoads() bool {
	for _, road := range c.roads {
		if road {
			return true
		}
	}
	return false
}

// AddRoad builds a road toward a neighbor. Roads are refused across rivers,
// steep edges, and special features.
func (c *Cell) AddRoad(d Direction) {
	neighbor := c.neighbors[d]
	if neighbor == nil || c.roads[d] || c.HasRiverThroughEdge(d) ||
		c.IsSpecial() || neighbor.IsSpecial() ||
		c.ElevationDifference(d) > 1 {
		return
	}
	c.setRoad(d, true)
	c.changed()
}

// RemoveRoads clears every road touching the cell.
func (c *Cell) RemoveRoads() {
	if c.removeRoads() {
		c.changed()
	}
}

func (c *Cell) removeRoads() bool {
	removed := false
	for i, road := range c.roads {
		if road {
			c.setRoad(Direction(i), false)
			removed = true
		}
	}
	return removed
}

func (c *Cell) setRoad(d Direction, state bool) {
	c.roads[d] = state
	if n := c.neighbors[d]; n != nil {
		n.roads[d.Opposite()] = state
	}
}

// ── Visibility ──────────────────────────────────────────────────────

// IsVisible reports whether any observer currently sees the cell.
func (c *Cell) IsVisible() bool { return c.visibility > 0 }

// IsExplored reports whether the cell has ever been seen.
func (c *Cell) IsExplored() bool { return c.explored }

// Visibility returns the number of observers that see the cell.
func (c *Cell) Visibility() int { return c.visibility }

// IncreaseVisibility registers one more observer. The cell becomes explored
// when first seen.
func (c *Cell) IncreaseVisibility() {
	c.visibility++
	if c.visibility == 1 {
		c.explored = true
		c.changed()
	}
}

// DecreaseVisibility removes an observer.
func (c *Cell) DecreaseVisibility() {
	if c.visibility == 0 {
		return
	}
	c.visibility--
	if c.visibility == 0 {
		c.changed()
	}
}

// reset restores default attributes, keeping identity and links.
func (c *Cell) reset() {
	neighbors := c.neighbors
	*c = Cell{
		index:     c.index,
		offsetX:   c.offsetX,
		offsetZ:   c.offsetZ,
		coords:    c.coords,
		grid:      c.grid,
		neighbors: neighbors,
	}
}
