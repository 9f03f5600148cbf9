package nav

import (
	"math"
	"testing"

	"github.com/pthm-cable/aeronav/geom"
)

func TestEdgeCost(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		step     StepKind
		cellSize float64
		mult     float64
		want     float64
	}{
		{
			name: "flat cardinal is pure cell size",
			from: 0, to: 0, step: StepCardinal, cellSize: 2, mult: 1,
			want: 2,
		},
		{
			name: "flat diagonal scales by sqrt2",
			from: 0, to: 0, step: StepDiagonal, cellSize: 2, mult: 1,
			want: 2 * math.Sqrt2,
		},
		{
			name: "climb pays altitude, climb, and slope",
			from: 10, to: 30, step: StepCardinal, cellSize: 1, mult: 2,
			// 1 + 30*2*0.01 + 20*2*0.5 + 20*2*0.1
			want: 1 + 0.6 + 20 + 4,
		},
		{
			name: "descent pays altitude and slope only",
			from: 30, to: 10, step: StepCardinal, cellSize: 1, mult: 2,
			// 1 + 10*2*0.01 + 0 + 20*2*0.1
			want: 1 + 0.2 + 4,
		},
		{
			name: "zero multiplier degrades to distance",
			from: 0, to: 500, step: StepDiagonal, cellSize: 3, mult: 0,
			want: 3 * math.Sqrt2,
		},
		{
			name: "level move at altitude pays only altitude",
			from: 50, to: 50, step: StepCardinal, cellSize: 1, mult: 1,
			want: 1 + 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EdgeCost(tt.from, tt.to, tt.step, tt.cellSize, tt.mult)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("EdgeCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgeCostNonNegative(t *testing.T) {
	elevs := []float64{0, 1, 50, 1000}
	for _, from := range elevs {
		for _, to := range elevs {
			for _, mult := range []float64{0, 0.5, 10} {
				if c := EdgeCost(from, to, StepDiagonal, 1, mult); c < 0 {
					t.Errorf("EdgeCost(%v, %v, mult %v) = %v, want >= 0", from, to, mult, c)
				}
			}
		}
	}
}

func TestOctile(t *testing.T) {
	tests := []struct {
		name     string
		a, b     geom.GridPos
		cellSize float64
		want     float64
	}{
		{"same cell", geom.GridPos{X: 3, Y: 3}, geom.GridPos{X: 3, Y: 3}, 1, 0},
		{"pure horizontal", geom.GridPos{}, geom.GridPos{X: 5}, 1, 5},
		{"pure vertical", geom.GridPos{}, geom.GridPos{Y: 4}, 2, 8},
		{"pure diagonal", geom.GridPos{}, geom.GridPos{X: 3, Y: 3}, 1, 3 * math.Sqrt2},
		{"mixed", geom.GridPos{}, geom.GridPos{X: 5, Y: 2}, 1, 5 + (math.Sqrt2-1)*2},
		{"symmetric", geom.GridPos{X: 5, Y: 2}, geom.GridPos{}, 1, 5 + (math.Sqrt2-1)*2},
		{"negative deltas", geom.GridPos{X: 4, Y: 7}, geom.GridPos{X: 1, Y: 1}, 1, 6 + (math.Sqrt2-1)*3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Octile(tt.a, tt.b, tt.cellSize)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Octile(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
