// Package geom holds the shared coordinate types for the navigation grid
// and world space. The grid is a 2D plane of cells; world space is 3D with
// Y up, so the grid plane maps to world X/Z.
package geom

import "math"

// GridPos is a cell coordinate on the navigation grid.
type GridPos struct {
	X int
	Y int
}

// Vec3 is a world-space position.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// HorizontalDistance returns the distance between a and b on the grid plane,
// ignoring the Y axis.
func HorizontalDistance(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// CellDistance returns the Chebyshev distance between two cells: the number
// of 8-connected steps separating them.
func CellDistance(a, b GridPos) int {
	dx := absInt(a.X - b.X)
	dy := absInt(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
