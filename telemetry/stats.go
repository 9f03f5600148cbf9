// Package telemetry provides search performance tracking and CSV output
// for the pathfinding core.
package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated search statistics for one window of
// requests.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	Searches    int     `csv:"searches"`
	Successes   int     `csv:"successes"`
	Failures    int     `csv:"failures"`
	SuccessRate float64 `csv:"success_rate"`

	// Search effort (all searches in window)
	DurationMeanUs float64 `csv:"duration_mean_us"`
	DurationP50Us  float64 `csv:"duration_p50_us"`
	DurationP90Us  float64 `csv:"duration_p90_us"`
	IterationsMean float64 `csv:"iterations_mean"`
	ExpandedMean   float64 `csv:"expanded_mean"`

	// Path shape (successful searches only)
	CostMean      float64 `csv:"cost_mean"`
	WaypointsMean float64 `csv:"waypoints_mean"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", s.WindowEnd),
		slog.Int("searches", s.Searches),
		slog.Int("successes", s.Successes),
		slog.Int("failures", s.Failures),
		slog.Float64("success_rate", s.SuccessRate),
		slog.Float64("duration_mean_us", s.DurationMeanUs),
		slog.Float64("duration_p90_us", s.DurationP90Us),
		slog.Float64("iterations_mean", s.IterationsMean),
		slog.Float64("expanded_mean", s.ExpandedMean),
		slog.Float64("cost_mean", s.CostMean),
		slog.Float64("waypoints_mean", s.WaypointsMean),
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := int(rank)
	hi := lo + 1
	frac := rank - float64(lo)
	if hi >= n {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// meanOf returns the arithmetic mean, 0 for an empty slice.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sortedCopy returns an ascending copy of values.
func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
