package nav

import (
	"math"

	"github.com/pthm-cable/aeronav/geom"
)

// StepKind distinguishes axis-aligned from corner-adjacent moves.
type StepKind uint8

const (
	StepCardinal StepKind = iota
	StepDiagonal
)

// Elevation cost term weights, applied on top of the configured multiplier.
const (
	altitudeWeight = 0.01 // biases whole paths away from high ground
	climbWeight    = 0.5  // ascent only; descent pays just the slope term
	slopeWeight    = 0.1  // discourages abrupt elevation change either way
)

// EdgeCost returns the cost of moving between two adjacent cells. Every
// term is non-negative, so the octile heuristic never overestimates and
// the search stays optimal for any costMultiplier >= 0.
func EdgeCost(fromElev, toElev float64, step StepKind, cellSize, costMultiplier float64) float64 {
	movement := cellSize
	if step == StepDiagonal {
		movement *= math.Sqrt2
	}
	altitude := toElev * costMultiplier * altitudeWeight
	delta := toElev - fromElev
	climb := 0.0
	if delta > 0 {
		climb = delta * costMultiplier * climbWeight
	}
	slope := math.Abs(delta) * costMultiplier * slopeWeight
	return movement + altitude + climb + slope
}

// Octile returns the 8-direction distance between two cells scaled by the
// cell size: max(|dx|,|dy|) + (sqrt2-1)*min(|dx|,|dy|). It is admissible
// and consistent under EdgeCost for any non-negative cost multiplier.
func Octile(a, b geom.GridPos, cellSize float64) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	lo, hi := dx, dy
	if lo > hi {
		lo, hi = hi, lo
	}
	return (float64(hi) + (math.Sqrt2-1)*float64(lo)) * cellSize
}
