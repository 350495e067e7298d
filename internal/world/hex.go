// Package world provides the hex grid, cells, and spatial data structures.
// Cells are stored in offset rows and addressed with cube-style coordinates
// (X, Y, Z) where Y is derived: Y = -X - Z.
package world

import (
	"fmt"
	"math"
	"strings"
)

// Grid metrics shared by generation and picking.
const (
	OuterRadius   = 10.0
	OuterToInner  = 0.866025404
	InnerRadius   = OuterRadius * OuterToInner
	ElevationStep = 3.0

	// Grid dimensions must be multiples of the chunk size.
	ChunkSizeX = 5
	ChunkSizeZ = 5
)

// Direction is one of the six hex edges, clockwise from north-east.
type Direction uint8

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// Directions lists all six directions in iteration order.
var Directions = [6]Direction{NE, E, SE, SW, W, NW}

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	if d < 3 {
		return d + 3
	}
	return d - 3
}

// Previous returns the counter-clockwise neighbor direction.
func (d Direction) Previous() Direction {
	if d == NE {
		return NW
	}
	return d - 1
}

// Previous2 returns the direction two steps counter-clockwise.
func (d Direction) Previous2() Direction {
	return (d + 4) % 6
}

// Next returns the clockwise neighbor direction.
func (d Direction) Next() Direction {
	if d == NW {
		return NE
	}
	return d + 1
}

// Next2 returns the direction two steps clockwise.
func (d Direction) Next2() Direction {
	return (d + 2) % 6
}

func (d Direction) String() string {
	switch d {
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	default:
		return "?"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if d > NW {
		return nil, fmt.Errorf("invalid direction %d", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses a direction name such as "NW" (case-insensitive).
func (d *Direction) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for _, dir := range Directions {
		if dir.String() == name {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

// EdgeType classifies the connection between two cells by elevation difference.
type EdgeType uint8

const (
	EdgeFlat  EdgeType = iota // Same elevation
	EdgeSlope                 // One step apart, terraced
	EdgeCliff                 // Two or more steps apart
)

// EdgeTypeBetween returns the edge type for two elevations.
func EdgeTypeBetween(elevation1, elevation2 int) EdgeType {
	if elevation1 == elevation2 {
		return EdgeFlat
	}
	delta := elevation2 - elevation1
	if delta == 1 || delta == -1 {
		return EdgeSlope
	}
	return EdgeCliff
}

// Coordinates is a cube-style hex coordinate. Y is implicit.
type Coordinates struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Y returns the implicit third coordinate.
func (c Coordinates) Y() int {
	return -c.X - c.Z
}

// FromOffset converts an offset (column, row) position into cube coordinates.
func FromOffset(x, z int) Coordinates {
	return Coordinates{X: x - z/2, Z: z}
}

// FromPosition returns the coordinates of the cell containing a local-space
// point on the map plane.
func FromPosition(px, pz float64) Coordinates {
	offset := pz * math.Tan(math.Pi/6)
	x := (px - offset) / (InnerRadius * 2)
	y := (-px - offset) / (InnerRadius * 2)

	ix := int(math.Round(x))
	iy := int(math.Round(y))
	iz := int(math.Round(-x - y))

	// Points outside the inscribed circle round badly on one axis.
	// Rebuild the axis with the largest rounding error from the other two.
	if ix+iy+iz != 0 {
		dx := math.Abs(x - float64(ix))
		dy := math.Abs(y - float64(iy))
		dz := math.Abs(-x - y - float64(iz))
		if dx > dy && dx > dz {
			ix = -iy - iz
		} else if dz > dy {
			iz = -ix - iy
		}
	}
	return Coordinates{X: ix, Z: iz}
}

// DistanceTo returns the hex distance between two coordinates.
func (c Coordinates) DistanceTo(other Coordinates) int {
	dx := abs(c.X - other.X)
	dy := abs(c.Y() - other.Y())
	dz := abs(c.Z - other.Z)
	max := dx
	if dy > max {
		max = dy
	}
	if dz > max {
		max = dz
	}
	return max
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y(), c.Z)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
