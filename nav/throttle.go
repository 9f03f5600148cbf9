package nav

import (
	"time"

	"github.com/pthm-cable/aeronav/geom"
)

// ThrottleConfig tunes when a continuous-tracking search is re-issued.
// Displacement thresholds are in grid cells; a threshold <= 0 disables
// that trigger.
type ThrottleConfig struct {
	MinInterval     time.Duration // floor between recalculations
	TargetThreshold int           // cells the target must move
	OriginThreshold int           // cells the tracking origin must move

	// Distance-based throttling: farther targets recalculate less often.
	// The minimum interval scales linearly up to MaxIntervalScale as the
	// target distance approaches FarDistance.
	DistanceScaling  bool
	FarDistance      float64
	MaxIntervalScale float64
}

// DefaultThrottleConfig returns the tracking defaults.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		MinInterval:      500 * time.Millisecond,
		TargetThreshold:  2,
		OriginThreshold:  3,
		DistanceScaling:  true,
		FarDistance:      200,
		MaxIntervalScale: 4,
	}
}

// ThrottleState holds the baselines recorded at the last triggered
// recalculation. It persists for the lifetime of the tracking mode and is
// only mutated when a recalculation actually fires.
type ThrottleState struct {
	LastRecalc time.Time
	LastTarget geom.GridPos
	LastOrigin geom.GridPos
	Primed     bool // false until the first trigger
}

// RecalcThrottle decides whether a moving-target search should be
// re-issued now. The decision is pure apart from the baseline update on
// trigger.
type RecalcThrottle struct {
	cfg   ThrottleConfig
	state ThrottleState
}

// NewRecalcThrottle builds a throttle with the given policy.
func NewRecalcThrottle(cfg ThrottleConfig) *RecalcThrottle {
	return &RecalcThrottle{cfg: cfg}
}

// ShouldRecalculate reports whether to trigger a new search. Recalculation
// is suppressed unless the effective minimum interval has elapsed AND the
// target or origin has moved past its cell threshold. The first call after
// construction or Reset always triggers. On trigger the state records the
// new timestamp and both displacement baselines; on suppression it is
// unchanged.
func (t *RecalcThrottle) ShouldRecalculate(now time.Time, target, origin geom.GridPos, distanceToTarget float64) bool {
	if !t.state.Primed {
		t.trigger(now, target, origin)
		return true
	}
	if now.Sub(t.state.LastRecalc) < t.effectiveMinInterval(distanceToTarget) {
		return false
	}
	targetMoved := t.cfg.TargetThreshold > 0 && geom.CellDistance(target, t.state.LastTarget) >= t.cfg.TargetThreshold
	originMoved := t.cfg.OriginThreshold > 0 && geom.CellDistance(origin, t.state.LastOrigin) >= t.cfg.OriginThreshold
	if !targetMoved && !originMoved {
		return false
	}
	t.trigger(now, target, origin)
	return true
}

func (t *RecalcThrottle) trigger(now time.Time, target, origin geom.GridPos) {
	t.state = ThrottleState{
		LastRecalc: now,
		LastTarget: target,
		LastOrigin: origin,
		Primed:     true,
	}
}

// effectiveMinInterval scales the configured interval by distance to the
// target, monotonically up to the configured cap.
func (t *RecalcThrottle) effectiveMinInterval(distanceToTarget float64) time.Duration {
	if !t.cfg.DistanceScaling || t.cfg.FarDistance <= 0 || t.cfg.MaxIntervalScale <= 1 {
		return t.cfg.MinInterval
	}
	s := distanceToTarget / t.cfg.FarDistance
	if s < 0 {
		s = 0
	} else if s > 1 {
		s = 1
	}
	scale := 1 + s*(t.cfg.MaxIntervalScale-1)
	return time.Duration(float64(t.cfg.MinInterval) * scale)
}

// State returns a copy of the current throttle state.
func (t *RecalcThrottle) State() ThrottleState {
	return t.state
}

// Reset clears the baselines so the next ShouldRecalculate triggers.
func (t *RecalcThrottle) Reset() {
	t.state = ThrottleState{}
}
