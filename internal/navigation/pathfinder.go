// Package navigation answers turn-based movement and line-of-sight queries
// over a generated grid.
//
// A Pathfinder owns no cell state. It shares search scratch space with
// whatever else uses its Searcher, so queries must not run concurrently.
package navigation

import (
	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

// Unit defaults.
const (
	DefaultSpeed       = 24 // Movement points per turn
	DefaultVisionRange = 3  // Cells seen around a unit

	blocked = -1
)

// Path is the result of a successful path query.
type Path struct {
	Cells []*world.Cell // From start to destination, both included
	Cost  int           // Accumulated movement cost including turn padding
	Turns int           // Turns needed to arrive, 0 when already there
}

// Pathfinder runs path and visibility searches on one grid.
type Pathfinder struct {
	Grid     *world.Grid
	Searcher *search.Searcher

	// Occupied reports cells holding a unit. Occupied cells are never entered.
	Occupied func(*world.Cell) bool
}

// New returns a pathfinder for grid. A nil searcher allocates a fresh one.
func New(grid *world.Grid, searcher *search.Searcher) *Pathfinder {
	if searcher == nil || searcher.Size() != grid.CellCount() {
		searcher = search.NewSearcher(grid.CellCount())
	}
	return &Pathfinder{Grid: grid, Searcher: searcher}
}

// MoveCost returns the cost of stepping from a cell to its neighbor in
// direction d, or -1 when the step is not allowed. Roads cost 1 regardless
// of terrain. Cliffs and wall boundaries without a road are impassable.
func MoveCost(from *world.Cell, d world.Direction) int {
	to := from.Neighbor(d)
	if to == nil {
		return blocked
	}
	edge := from.EdgeTypeTo(to)
	if edge == world.EdgeCliff {
		return blocked
	}
	if from.HasRoadThroughEdge(d) {
		return 1
	}
	if from.Walled() != to.Walled() {
		return blocked
	}
	cost := 5
	if edge == world.EdgeSlope {
		cost = 10
	}
	return cost + to.UrbanLevel() + to.FarmLevel() + to.PlantLevel()
}

// TurnAt returns the zero-based turn in which a unit with the given speed
// has spent distance movement points.
func TurnAt(distance, speed int) int {
	return (distance - 1) / speed
}

// FindPath returns the cheapest route from one cell to another for a unit
// moving speed points per turn. A step that would overrun the current turn
// starts the next turn instead, forfeiting the leftover points.
func (p *Pathfinder) FindPath(from, to *world.Cell, speed int) (Path, bool) {
	if from == nil || to == nil || speed <= 0 {
		return Path{}, false
	}
	if from == to {
		return Path{Cells: []*world.Cell{from}}, true
	}
	if !p.search(from, to, speed) {
		return Path{}, false
	}

	var cells []*world.Cell
	for i := to.Index(); i != -1; i = p.Searcher.PathFrom(i) {
		cells = append(cells, p.Grid.Cell(i))
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	cost := p.Searcher.Distance(to.Index())
	return Path{Cells: cells, Cost: cost, Turns: TurnAt(cost, speed) + 1}, true
}

func (p *Pathfinder) search(from, to *world.Cell, speed int) bool {
	s := p.Searcher
	phase := s.Begin(search.StrideSettle)
	s.Visit(from.Index(), 0, 0, -1)
	target := to.Coordinates()

	for {
		index, ok := s.Next()
		if !ok {
			return false
		}
		s.Settle(index)
		if index == to.Index() {
			return true
		}

		current := p.Grid.Cell(index)
		currentDistance := s.Distance(index)
		currentTurn := TurnAt(currentDistance, speed)

		for _, d := range world.Directions {
			neighbor := current.Neighbor(d)
			if neighbor == nil || s.CellPhase(neighbor.Index()) > phase {
				continue
			}
			if neighbor.IsUnderwater() || p.occupied(neighbor) {
				continue
			}
			cost := MoveCost(current, d)
			if cost < 0 {
				continue
			}

			distance := currentDistance + cost
			if turn := TurnAt(distance, speed); turn > currentTurn {
				distance = turn*speed + cost
			}

			if s.Unvisited(neighbor.Index()) {
				s.Visit(neighbor.Index(), distance, neighbor.Coordinates().DistanceTo(target), index)
			} else if distance < s.Distance(neighbor.Index()) {
				s.Improve(neighbor.Index(), distance, index)
			}
		}
	}
}

func (p *Pathfinder) occupied(c *world.Cell) bool {
	return p.Occupied != nil && p.Occupied(c)
}
