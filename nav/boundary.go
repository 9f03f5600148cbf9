package nav

import (
	"math"

	"github.com/pthm-cable/aeronav/geom"
)

// Boundary converts between world space and grid space for one grid
// geometry. World X/Z map to grid X/Y; conversions use the cell-center
// convention going out and floor division coming in.
type Boundary struct {
	width    int
	height   int
	cellSize float64
	origin   geom.Vec3
}

// NewBoundary builds the converter for a grid configuration.
func NewBoundary(cfg GridConfig) Boundary {
	return Boundary{
		width:    cfg.Width,
		height:   cfg.Height,
		cellSize: cfg.CellSize,
		origin:   cfg.Origin,
	}
}

// WorldToGrid converts a world position to a cell without clamping. The
// result may be out of range; callers wanting strict validation check it
// with Contains.
func (b Boundary) WorldToGrid(pos geom.Vec3) geom.GridPos {
	return geom.GridPos{
		X: int(math.Floor((pos.X - b.origin.X) / b.cellSize)),
		Y: int(math.Floor((pos.Z - b.origin.Z) / b.cellSize)),
	}
}

// WorldToGridClamped converts a world position to a valid in-range cell,
// reporting whether the position fell outside the grid.
func (b Boundary) WorldToGridClamped(pos geom.Vec3) (geom.GridPos, bool) {
	raw := b.WorldToGrid(pos)
	clamped := b.Clamp(raw)
	return clamped, clamped != raw
}

// GridToWorld returns the world-space center of a cell at the given height.
func (b Boundary) GridToWorld(p geom.GridPos, y float64) geom.Vec3 {
	return geom.Vec3{
		X: b.origin.X + (float64(p.X)+0.5)*b.cellSize,
		Y: y,
		Z: b.origin.Z + (float64(p.Y)+0.5)*b.cellSize,
	}
}

// Contains reports whether the cell lies inside the grid.
func (b Boundary) Contains(p geom.GridPos) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Clamp snaps each axis independently to [0, dimension-1]. Clamping an
// in-range cell is the identity.
func (b Boundary) Clamp(p geom.GridPos) geom.GridPos {
	if p.X < 0 {
		p.X = 0
	} else if p.X >= b.width {
		p.X = b.width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	} else if p.Y >= b.height {
		p.Y = b.height - 1
	}
	return p
}
