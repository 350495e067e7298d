package mapgen

import "fmt"

// Region is a rectangle of offset coordinates where land may be seeded.
// Bounds are half-open: XMin <= x < XMax, ZMin <= z < ZMax.
type Region struct {
	XMin, XMax int
	ZMin, ZMax int
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.XMin, r.XMax, r.ZMin, r.ZMax)
}

func (r Region) empty() bool {
	return r.XMax <= r.XMin || r.ZMax <= r.ZMin
}

// partitionRegions splits a width×height map into RegionCount rectangles.
// Two regions split left/right or top/bottom on a coin flip.
func partitionRegions(cfg Config, width, height int, coin func() bool) []Region {
	bx, bz, gap := cfg.MapBorderX, cfg.MapBorderZ, cfg.RegionBorder

	switch cfg.RegionCount {
	case 2:
		if coin() {
			return []Region{
				{XMin: bx, XMax: width/2 - gap, ZMin: bz, ZMax: height - bz},
				{XMin: width/2 + gap, XMax: width - bx, ZMin: bz, ZMax: height - bz},
			}
		}
		return []Region{
			{XMin: bx, XMax: width - bx, ZMin: bz, ZMax: height/2 - gap},
			{XMin: bx, XMax: width - bx, ZMin: height/2 + gap, ZMax: height - bz},
		}
	case 3:
		return []Region{
			{XMin: bx, XMax: width/3 - gap, ZMin: bz, ZMax: height - bz},
			{XMin: width/3 + gap, XMax: width*2/3 - gap, ZMin: bz, ZMax: height - bz},
			{XMin: width*2/3 + gap, XMax: width - bx, ZMin: bz, ZMax: height - bz},
		}
	case 4:
		return []Region{
			{XMin: bx, XMax: width/2 - gap, ZMin: bz, ZMax: height/2 - gap},
			{XMin: width/2 + gap, XMax: width - bx, ZMin: bz, ZMax: height/2 - gap},
			{XMin: width/2 + gap, XMax: width - bx, ZMin: height/2 + gap, ZMax: height - bz},
			{XMin: bx, XMax: width/2 - gap, ZMin: height/2 + gap, ZMax: height - bz},
		}
	default:
		return []Region{
			{XMin: bx, XMax: width - bx, ZMin: bz, ZMax: height - bz},
		}
	}
}

// createRegions partitions the grid and rejects layouts whose borders leave
// no room for land.
func (ctx *Context) createRegions() error {
	regions := partitionRegions(ctx.cfg, ctx.Grid.Width, ctx.Grid.Height, func() bool {
		return ctx.Rand.Float64() < 0.5
	})
	for _, r := range regions {
		if r.empty() {
			return fmt.Errorf("%w: region %s is empty on a %dx%d map",
				ErrInvalidConfig, r, ctx.Grid.Width, ctx.Grid.Height)
		}
	}
	ctx.regions = regions
	return nil
}
