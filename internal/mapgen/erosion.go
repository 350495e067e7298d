package mapgen

import "github.com/talgya/hexmap/internal/world"

// erodibleSet is a worklist of cells with O(1) membership, insertion and
// swap-removal. slot maps a cell index to its position, -1 when absent.
type erodibleSet struct {
	cells []*world.Cell
	slot  []int
}

func newErodibleSet(cellCount int) *erodibleSet {
	s := &erodibleSet{slot: make([]int, cellCount)}
	for i := range s.slot {
		s.slot[i] = -1
	}
	return s
}

func (s *erodibleSet) len() int { return len(s.cells) }

func (s *erodibleSet) contains(c *world.Cell) bool { return s.slot[c.Index()] >= 0 }

func (s *erodibleSet) add(c *world.Cell) {
	if s.contains(c) {
		return
	}
	s.slot[c.Index()] = len(s.cells)
	s.cells = append(s.cells, c)
}

func (s *erodibleSet) remove(c *world.Cell) {
	i := s.slot[c.Index()]
	if i < 0 {
		return
	}
	last := len(s.cells) - 1
	moved := s.cells[last]
	s.cells[i] = moved
	s.slot[moved.Index()] = i
	s.cells = s.cells[:last]
	s.slot[c.Index()] = -1
}

// isErodible reports whether some neighbor sits at least two steps lower.
func isErodible(c *world.Cell) bool {
	threshold := c.Elevation() - 2
	for _, d := range world.Directions {
		if n := c.Neighbor(d); n != nil && n.Elevation() <= threshold {
			return true
		}
	}
	return false
}

// erodeLand moves elevation from steep cells to their low neighbors until only
// (100 - ErosionPercentage)% of the initially erodible cells remain erodible.
// Erodibility is re-evaluated only around the two cells each transfer touches.
func (ctx *Context) erodeLand() {
	set := newErodibleSet(ctx.Grid.CellCount())
	for _, c := range ctx.Grid.Cells() {
		if isErodible(c) {
			set.add(c)
		}
	}

	target := int(float64(set.len()*(100-ctx.cfg.ErosionPercentage)) * 0.01)
	for set.len() > target {
		cell := set.cells[ctx.Rand.Intn(set.len())]
		targetCell := ctx.erosionTarget(cell)

		cell.SetElevation(cell.Elevation() - 1)
		targetCell.SetElevation(targetCell.Elevation() + 1)

		if !isErodible(cell) {
			set.remove(cell)
		}
		for _, d := range world.Directions {
			n := cell.Neighbor(d)
			if n != nil && n.Elevation() == cell.Elevation()+2 {
				set.add(n)
			}
		}

		if isErodible(targetCell) {
			set.add(targetCell)
		}
		for _, d := range world.Directions {
			n := targetCell.Neighbor(d)
			if n != nil && n != cell && n.Elevation() == targetCell.Elevation()+1 && !isErodible(n) {
				set.remove(n)
			}
		}
	}
}

// erosionTarget picks one of the cell's sufficiently low neighbors at random.
func (ctx *Context) erosionTarget(c *world.Cell) *world.Cell {
	var candidates [6]*world.Cell
	n := 0
	threshold := c.Elevation() - 2
	for _, d := range world.Directions {
		if neighbor := c.Neighbor(d); neighbor != nil && neighbor.Elevation() <= threshold {
			candidates[n] = neighbor
			n++
		}
	}
	return candidates[ctx.Rand.Intn(n)]
}
