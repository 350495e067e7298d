package mapgen

import (
	"math"

	"github.com/talgya/hexmap/internal/world"
)

// createRivers draws weighted origins and carves rivers from them until the
// river budget is spent or no candidates remain.
func (ctx *Context) createRivers() {
	cfg := &ctx.cfg
	var origins []*world.Cell
	for i, cell := range ctx.Grid.Cells() {
		if cell.IsUnderwater() {
			continue
		}
		weight := ctx.climate[i].moisture * float64(cell.Elevation()-cfg.WaterLevel) /
			float64(cfg.ElevationMaximum-cfg.WaterLevel)
		if weight > 0.75 {
			origins = append(origins, cell, cell)
		}
		if weight > 0.5 {
			origins = append(origins, cell)
		}
		if weight > 0.25 {
			origins = append(origins, cell)
		}
	}

	initial := int(math.RoundToEven(float64(ctx.landCells*cfg.RiverPercentage) * 0.01))
	budget := initial
	for budget > 0 && len(origins) > 0 {
		i := ctx.Rand.Intn(len(origins))
		last := len(origins) - 1
		origin := origins[i]
		if isValidRiverOrigin(origin) {
			budget -= ctx.createRiver(origin)
		}
		origins[i] = origins[last]
		origins = origins[:last]
	}

	ctx.riverCells = initial - budget
	if budget > 0 {
		ctx.riverShortfall = budget
	}
}

// isValidRiverOrigin keeps sources away from water and existing rivers.
func isValidRiverOrigin(origin *world.Cell) bool {
	for _, d := range world.Directions {
		n := origin.Neighbor(d)
		if n != nil && (n.HasRiver() || n.IsUnderwater()) {
			return false
		}
	}
	return true
}

// createRiver grows a river downhill from origin and returns its length in
// cells, or 0 when the origin has nowhere to flow. A river that reaches an
// existing river's outflow joins it. A river stuck in a depression ends in a
// lake.
func (ctx *Context) createRiver(origin *world.Cell) int {
	length := 1
	cell := origin
	direction := world.NE
	var flow []world.Direction

	for !cell.IsUnderwater() {
		minNeighborElevation := math.MaxInt
		flow = flow[:0]
		for _, d := range world.Directions {
			neighbor := cell.Neighbor(d)
			if neighbor == nil {
				continue
			}
			if neighbor.Elevation() < minNeighborElevation {
				minNeighborElevation = neighbor.Elevation()
			}
			if neighbor == origin || neighbor.HasIncomingRiver() {
				continue
			}
			delta := neighbor.Elevation() - cell.Elevation()
			if delta > 0 {
				continue
			}
			if neighbor.HasOutgoingRiver() {
				cell.SetOutgoingRiver(d)
				return length
			}
			if delta < 0 {
				flow = append(flow, d, d, d)
			}
			if length == 1 || (d != direction.Next2() && d != direction.Previous2()) {
				flow = append(flow, d)
			}
			flow = append(flow, d)
		}

		if len(flow) == 0 {
			if length == 1 {
				return 0
			}
			if minNeighborElevation >= cell.Elevation() {
				cell.SetWaterLevel(minNeighborElevation)
				if minNeighborElevation == cell.Elevation() {
					cell.SetElevation(minNeighborElevation - 1)
				}
			}
			break
		}

		direction = flow[ctx.Rand.Intn(len(flow))]
		cell.SetOutgoingRiver(direction)
		length++

		if minNeighborElevation >= cell.Elevation() && ctx.Rand.Float64() <= ctx.cfg.ExtraLakeProbability {
			cell.SetWaterLevel(cell.Elevation())
			cell.SetElevation(cell.Elevation() - 1)
		}
		cell = cell.Neighbor(direction)
	}
	return length
}
