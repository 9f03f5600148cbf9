// Package heightfield provides concrete terrain height sources for grid
// initialization: flat, procedural-noise, static-sample, and triangle-mesh
// variants. All of them satisfy nav.HeightSource and cache their samples so
// the bulk SampleAll path never recomputes per cell.
package heightfield

import (
	"fmt"

	"github.com/pthm-cable/aeronav/geom"
)

// Geometry is the grid footprint shared by every source variant.
type Geometry struct {
	Width    int
	Height   int
	CellSize float64
	Origin   geom.Vec3
}

func (g Geometry) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("heightfield: invalid dimensions %dx%d", g.Width, g.Height)
	}
	if g.CellSize <= 0 {
		return fmt.Errorf("heightfield: invalid cell size %g", g.CellSize)
	}
	return nil
}

// base carries the geometry accessors common to all variants.
type base struct {
	geo Geometry
}

func (b base) CellSize() float64 { return b.geo.CellSize }

func (b base) Origin() geom.Vec3 { return b.geo.Origin }

func (b base) GridWidth() int { return b.geo.Width }

func (b base) GridHeight() int { return b.geo.Height }

// cellCenter returns the world-space center of a cell on the grid plane.
func (b base) cellCenter(x, y int) (wx, wz float64) {
	wx = b.geo.Origin.X + (float64(x)+0.5)*b.geo.CellSize
	wz = b.geo.Origin.Z + (float64(y)+0.5)*b.geo.CellSize
	return
}
