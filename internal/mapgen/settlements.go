package mapgen

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/talgya/hexmap/internal/navigation"
	"github.com/talgya/hexmap/internal/world"
)

// SettlementSize categorizes settlement scale. Urban level is size+1.
type SettlementSize uint8

const (
	SizeVillage SettlementSize = iota
	SizeTown
	SizeCity
)

// Minimum hex distance to any earlier settlement, by size.
var settlementSpacing = [...]int{SizeVillage: 2, SizeTown: 4, SizeCity: 8}

// roadSpeed is large enough that road planning never pays turn padding.
const roadSpeed = 1 << 20

func (s SettlementSize) String() string {
	switch s {
	case SizeVillage:
		return "village"
	case SizeTown:
		return "town"
	case SizeCity:
		return "city"
	default:
		return fmt.Sprintf("SettlementSize(%d)", s)
	}
}

// MarshalText encodes the size by name.
func (s SettlementSize) MarshalText() ([]byte, error) {
	if s > SizeCity {
		return nil, fmt.Errorf("invalid settlement size %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses a size name.
func (s *SettlementSize) UnmarshalText(text []byte) error {
	for _, size := range []SettlementSize{SizeVillage, SizeTown, SizeCity} {
		if strings.EqualFold(string(text), size.String()) {
			*s = size
			return nil
		}
	}
	return fmt.Errorf("unknown settlement size %q", text)
}

// Settlement is a placed town on the finished map.
type Settlement struct {
	Name  string         `json:"name"`
	Cell  int            `json:"cell"`
	Size  SettlementSize `json:"size"`
	Score float64        `json:"score"`
	Roads int            `json:"roads"` // Road edges built toward the nearest city
}

// placeSettlements seeds up to cfg.Settlements towns on the best land,
// farms their surroundings and links each to its nearest city by road.
func (ctx *Context) placeSettlements() []Settlement {
	total := ctx.cfg.Settlements
	if total == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(ctx.Seed + 200))

	type scored struct {
		cell  *world.Cell
		score float64
	}
	var candidates []scored
	for _, c := range ctx.Grid.Cells() {
		if s := settlementScore(c); s > 0 {
			candidates = append(candidates, scored{c, s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	cities := max(1, total/6)
	towns := total / 3
	quota := [...]int{SizeVillage: total - cities - towns, SizeTown: towns, SizeCity: cities}

	var placed []Settlement
	taken := make(map[*world.Cell]bool)
	for _, size := range []SettlementSize{SizeCity, SizeTown, SizeVillage} {
		count := 0
		for _, cand := range candidates {
			if count >= quota[size] {
				break
			}
			if taken[cand.cell] || ctx.tooClose(cand.cell, placed, settlementSpacing[size]) {
				continue
			}
			taken[cand.cell] = true
			placed = append(placed, Settlement{Cell: cand.cell.Index(), Size: size, Score: cand.score})
			count++
		}
	}

	names := generateNames(rng, len(placed))
	for i := range placed {
		placed[i].Name = names[i]
		ctx.buildSettlement(placed[i])
	}
	ctx.connectSettlements(placed)

	// Walls last: a wall edge without a road is impassable.
	for _, s := range placed {
		if s.Size == SizeCity {
			ctx.Grid.Cell(s.Cell).SetWalled(true)
		}
	}
	return placed
}

// settlementScore rates a cell for settling. Zero means unusable.
// Fertile land near water with varied surroundings scores highest.
func settlementScore(c *world.Cell) float64 {
	if c.IsUnderwater() || c.IsSpecial() {
		return 0
	}

	score := 0.0
	switch c.Terrain() {
	case world.TerrainGrass:
		score = 3
	case world.TerrainMud:
		score = 1.5
	case world.TerrainSand:
		score = 1
	case world.TerrainStone:
		score = 0.3
	default:
		return 0
	}

	if c.HasRiver() {
		score += 1
	}
	kinds := make(map[world.Terrain]bool)
	coast := false
	for _, d := range world.Directions {
		n := c.Neighbor(d)
		if n == nil {
			continue
		}
		if n.IsUnderwater() {
			coast = true
			continue
		}
		kinds[n.Terrain()] = true
		if c.EdgeType(d) == world.EdgeCliff {
			score -= 0.25
		}
	}
	if coast {
		score += 0.5
	}
	score += float64(len(kinds)) * 0.3
	return max(score, 0)
}

func (ctx *Context) tooClose(c *world.Cell, placed []Settlement, minDist int) bool {
	for _, s := range placed {
		if c.Coordinates().DistanceTo(ctx.Grid.Cell(s.Cell).Coordinates()) < minDist {
			return true
		}
	}
	return false
}

// buildSettlement raises urban density on the settlement cell and farms
// the dry land around it.
func (ctx *Context) buildSettlement(s Settlement) {
	level := int(s.Size) + 1
	c := ctx.Grid.Cell(s.Cell)
	c.SetUrbanLevel(level)
	c.SetPlantLevel(0)
	for _, d := range world.Directions {
		n := c.Neighbor(d)
		if n == nil || n.IsUnderwater() || n.UrbanLevel() > 0 {
			continue
		}
		if n.FarmLevel() < level {
			n.SetFarmLevel(level)
		}
		if n.PlantLevel() > 1 {
			n.SetPlantLevel(1)
		}
	}
}

// connectSettlements lays a road from every town and village to the
// nearest reachable city.
func (ctx *Context) connectSettlements(placed []Settlement) {
	paths := navigation.New(ctx.Grid, ctx.Search)
	for i := range placed {
		s := &placed[i]
		if s.Size == SizeCity {
			continue
		}
		from := ctx.Grid.Cell(s.Cell)
		var best navigation.Path
		found := false
		for _, city := range placed {
			if city.Size != SizeCity {
				continue
			}
			path, ok := paths.FindPath(from, ctx.Grid.Cell(city.Cell), roadSpeed)
			if ok && (!found || path.Cost < best.Cost) {
				best, found = path, true
			}
		}
		if found {
			s.Roads = layRoad(best.Cells)
		}
	}
}

// layRoad builds road edges along consecutive path cells and returns how
// many edges were accepted.
func layRoad(cells []*world.Cell) int {
	built := 0
	for i := 1; i < len(cells); i++ {
		a, b := cells[i-1], cells[i]
		for _, d := range world.Directions {
			if a.Neighbor(d) != b {
				continue
			}
			a.AddRoad(d)
			if a.HasRoadThroughEdge(d) {
				built++
			}
		}
	}
	return built
}

// generateNames produces unique settlement names from syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)
	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}
	return names
}
