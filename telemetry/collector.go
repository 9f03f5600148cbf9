package telemetry

import (
	"github.com/pthm-cable/aeronav/nav"
)

// SearchSample records one completed search request.
type SearchSample struct {
	RequestID  uint64  `csv:"request_id"`
	Success    bool    `csv:"success"`
	Reason     string  `csv:"reason"`
	DurationUs float64 `csv:"duration_us"`
	Iterations int     `csv:"iterations"`
	Expanded   int     `csv:"expanded"`
	Waypoints  int     `csv:"waypoints"`
	Cost       float64 `csv:"cost"`
	Clamped    bool    `csv:"clamped"`
}

// SampleFromResult converts a path result into a telemetry sample.
func SampleFromResult(res nav.PathResult) SearchSample {
	return SearchSample{
		RequestID:  res.RequestID,
		Success:    res.Success,
		Reason:     res.Reason.String(),
		DurationUs: float64(res.Elapsed.Microseconds()),
		Iterations: res.Iterations,
		Expanded:   res.Expanded,
		Waypoints:  len(res.Waypoints),
		Cost:       res.Cost,
		Clamped:    res.Clamped,
	}
}

// Collector accumulates search samples into fixed-size windows and
// produces WindowStats when a window fills.
type Collector struct {
	windowSize int
	count      int // total samples recorded
	samples    []SearchSample
}

// NewCollector creates a collector. windowSize is the number of searches
// per stats window.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &Collector{
		windowSize: windowSize,
		samples:    make([]SearchSample, 0, windowSize),
	}
}

// Record adds a sample. When the current window fills, its aggregated
// stats are returned with true and a new window begins.
func (c *Collector) Record(s SearchSample) (WindowStats, bool) {
	c.samples = append(c.samples, s)
	c.count++
	if len(c.samples) < c.windowSize {
		return WindowStats{}, false
	}
	stats := c.flush()
	return stats, true
}

// Flush aggregates and clears a partially filled window, for end-of-run
// reporting. Returns false if the window is empty.
func (c *Collector) Flush() (WindowStats, bool) {
	if len(c.samples) == 0 {
		return WindowStats{}, false
	}
	return c.flush(), true
}

func (c *Collector) flush() WindowStats {
	stats := WindowStats{
		WindowStart: c.count - len(c.samples),
		WindowEnd:   c.count,
		Searches:    len(c.samples),
	}

	durations := make([]float64, 0, len(c.samples))
	var iterations, expanded float64
	var costs, waypoints []float64
	for _, s := range c.samples {
		durations = append(durations, s.DurationUs)
		iterations += float64(s.Iterations)
		expanded += float64(s.Expanded)
		if s.Success {
			stats.Successes++
			costs = append(costs, s.Cost)
			waypoints = append(waypoints, float64(s.Waypoints))
		} else {
			stats.Failures++
		}
	}

	n := float64(len(c.samples))
	stats.SuccessRate = float64(stats.Successes) / n
	stats.DurationMeanUs = meanOf(durations)
	sorted := sortedCopy(durations)
	stats.DurationP50Us = Percentile(sorted, 0.5)
	stats.DurationP90Us = Percentile(sorted, 0.9)
	stats.IterationsMean = iterations / n
	stats.ExpandedMean = expanded / n
	stats.CostMean = meanOf(costs)
	stats.WaypointsMean = meanOf(waypoints)

	c.samples = c.samples[:0]
	return stats
}
