package navigation

import (
	"github.com/talgya/hexmap/internal/search"
	"github.com/talgya/hexmap/internal/world"
)

// VisibleCells returns every cell within radius steps of origin, origin
// included, in the order the flood reaches them. Terrain does not block sight.
func (p *Pathfinder) VisibleCells(origin *world.Cell, radius int) []*world.Cell {
	if origin == nil || radius < 0 {
		return nil
	}
	s := p.Searcher
	phase := s.Begin(search.StrideSettle)
	s.Visit(origin.Index(), 0, 0, -1)

	var visible []*world.Cell
	for {
		index, ok := s.Next()
		if !ok {
			return visible
		}
		s.Settle(index)
		current := p.Grid.Cell(index)
		visible = append(visible, current)

		distance := s.Distance(index) + 1
		if distance > radius {
			continue
		}
		for _, d := range world.Directions {
			neighbor := current.Neighbor(d)
			if neighbor == nil || s.CellPhase(neighbor.Index()) > phase {
				continue
			}
			if s.Unvisited(neighbor.Index()) {
				s.Visit(neighbor.Index(), distance, 0, index)
			} else if distance < s.Distance(neighbor.Index()) {
				s.Improve(neighbor.Index(), distance, index)
			}
		}
	}
}

// IncreaseVisibility adds one observer to every cell in range of origin.
func (p *Pathfinder) IncreaseVisibility(origin *world.Cell, radius int) {
	for _, c := range p.VisibleCells(origin, radius) {
		c.IncreaseVisibility()
	}
}

// DecreaseVisibility removes one observer from every cell in range of origin.
func (p *Pathfinder) DecreaseVisibility(origin *world.Cell, radius int) {
	for _, c := range p.VisibleCells(origin, radius) {
		c.DecreaseVisibility()
	}
}
