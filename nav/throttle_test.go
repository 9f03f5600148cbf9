package nav

import (
	"testing"
	"time"

	"github.com/pthm-cable/aeronav/geom"
)

var throttleEpoch = time.Unix(1000, 0)

func primedThrottle(cfg ThrottleConfig) *RecalcThrottle {
	th := NewRecalcThrottle(cfg)
	th.ShouldRecalculate(throttleEpoch, geom.GridPos{}, geom.GridPos{}, 0)
	return th
}

func TestThrottleFirstCallTriggers(t *testing.T) {
	th := NewRecalcThrottle(DefaultThrottleConfig())
	if !th.ShouldRecalculate(throttleEpoch, geom.GridPos{X: 3, Y: 3}, geom.GridPos{}, 0) {
		t.Fatal("first call should always trigger")
	}
	st := th.State()
	if !st.Primed || st.LastRecalc != throttleEpoch || st.LastTarget != (geom.GridPos{X: 3, Y: 3}) {
		t.Errorf("state after first trigger = %+v", st)
	}
}

// TestThrottleTargetMovement walks the canonical tracking sequence: small
// target moves stay suppressed through the interval, the threshold move
// after the interval triggers.
func TestThrottleTargetMovement(t *testing.T) {
	cfg := ThrottleConfig{
		MinInterval:     500 * time.Millisecond,
		TargetThreshold: 2,
	}
	th := primedThrottle(cfg)
	origin := geom.GridPos{}

	steps := []struct {
		name    string
		elapsed time.Duration
		target  geom.GridPos
		want    bool
	}{
		{"one cell before interval", 100 * time.Millisecond, geom.GridPos{X: 1}, false},
		{"still one cell after interval", 600 * time.Millisecond, geom.GridPos{X: 1}, false},
		{"two cells after interval", 700 * time.Millisecond, geom.GridPos{X: 2}, true},
	}
	for _, st := range steps {
		got := th.ShouldRecalculate(throttleEpoch.Add(st.elapsed), st.target, origin, 0)
		if got != st.want {
			t.Errorf("%s: ShouldRecalculate = %v, want %v", st.name, got, st.want)
		}
	}
}

func TestThrottleIntervalGatesThreshold(t *testing.T) {
	th := primedThrottle(ThrottleConfig{
		MinInterval:     500 * time.Millisecond,
		TargetThreshold: 2,
	})

	// A big jump inside the interval must still be suppressed.
	if th.ShouldRecalculate(throttleEpoch.Add(100*time.Millisecond), geom.GridPos{X: 10, Y: 10}, geom.GridPos{}, 0) {
		t.Fatal("triggered before minimum interval elapsed")
	}
}

func TestThrottleOriginMovement(t *testing.T) {
	th := primedThrottle(ThrottleConfig{
		MinInterval:     100 * time.Millisecond,
		TargetThreshold: 2,
		OriginThreshold: 3,
	})
	at := throttleEpoch.Add(200 * time.Millisecond)

	if th.ShouldRecalculate(at, geom.GridPos{}, geom.GridPos{X: 2, Y: 2}, 0) {
		t.Error("origin moved 2 cells, threshold is 3")
	}
	if !th.ShouldRecalculate(at, geom.GridPos{}, geom.GridPos{X: 3, Y: 1}, 0) {
		t.Error("origin moved 3 cells, should trigger")
	}
}

// TestThrottleDisplacementIsChebyshev verifies a pure diagonal move counts
// its cell distance as the larger axis delta.
func TestThrottleDisplacementIsChebyshev(t *testing.T) {
	th := primedThrottle(ThrottleConfig{
		MinInterval:     time.Millisecond,
		TargetThreshold: 2,
	})
	at := throttleEpoch.Add(time.Second)

	if th.ShouldRecalculate(at, geom.GridPos{X: 1, Y: 1}, geom.GridPos{}, 0) {
		t.Error("diagonal (1,1) is 1 cell, should not trigger")
	}
	if !th.ShouldRecalculate(at, geom.GridPos{X: 2, Y: 1}, geom.GridPos{}, 0) {
		t.Error("(2,1) is 2 cells, should trigger")
	}
}

func TestThrottleDisabledThresholds(t *testing.T) {
	// Both thresholds disabled: after the interval nothing ever retriggers.
	th := primedThrottle(ThrottleConfig{MinInterval: time.Millisecond})
	if th.ShouldRecalculate(throttleEpoch.Add(time.Hour), geom.GridPos{X: 50, Y: 50}, geom.GridPos{X: 50, Y: 50}, 0) {
		t.Error("no thresholds enabled, movement alone should not trigger")
	}
}

func TestThrottleDistanceScaling(t *testing.T) {
	cfg := ThrottleConfig{
		MinInterval:      500 * time.Millisecond,
		TargetThreshold:  2,
		DistanceScaling:  true,
		FarDistance:      100,
		MaxIntervalScale: 4,
	}
	target := geom.GridPos{X: 5}

	t.Run("far target stretches the interval", func(t *testing.T) {
		th := primedThrottle(cfg)
		// At FarDistance the effective interval is 2s; 1s elapsed suppresses.
		if th.ShouldRecalculate(throttleEpoch.Add(time.Second), target, geom.GridPos{}, 100) {
			t.Error("scaled interval not yet elapsed")
		}
		if !th.ShouldRecalculate(throttleEpoch.Add(2*time.Second), target, geom.GridPos{}, 100) {
			t.Error("scaled interval elapsed, should trigger")
		}
	})

	t.Run("near target keeps the base interval", func(t *testing.T) {
		th := primedThrottle(cfg)
		if !th.ShouldRecalculate(throttleEpoch.Add(time.Second), target, geom.GridPos{}, 0) {
			t.Error("base interval elapsed, should trigger")
		}
	})

	t.Run("scale clamps at the cap", func(t *testing.T) {
		th := primedThrottle(cfg)
		// Far beyond FarDistance the interval caps at 4x = 2s.
		if !th.ShouldRecalculate(throttleEpoch.Add(2*time.Second), target, geom.GridPos{}, 10000) {
			t.Error("interval beyond the cap, should trigger")
		}
	})
}

// TestThrottleStateOnlyMutatesOnTrigger verifies suppressed calls leave the
// baselines untouched, so displacement accumulates across them.
func TestThrottleStateOnlyMutatesOnTrigger(t *testing.T) {
	th := primedThrottle(ThrottleConfig{
		MinInterval:     100 * time.Millisecond,
		TargetThreshold: 3,
	})
	before := th.State()

	// Creep one cell at a time; each call alone is under threshold.
	th.ShouldRecalculate(throttleEpoch.Add(200*time.Millisecond), geom.GridPos{X: 1}, geom.GridPos{}, 0)
	th.ShouldRecalculate(throttleEpoch.Add(400*time.Millisecond), geom.GridPos{X: 2}, geom.GridPos{}, 0)
	if th.State() != before {
		t.Fatal("suppressed calls mutated throttle state")
	}

	// Accumulated displacement from the original baseline now triggers.
	if !th.ShouldRecalculate(throttleEpoch.Add(600*time.Millisecond), geom.GridPos{X: 3}, geom.GridPos{}, 0) {
		t.Fatal("accumulated displacement should trigger")
	}
	after := th.State()
	if after.LastTarget != (geom.GridPos{X: 3}) || after.LastRecalc != throttleEpoch.Add(600*time.Millisecond) {
		t.Errorf("state after trigger = %+v", after)
	}
}

func TestThrottleReset(t *testing.T) {
	th := primedThrottle(DefaultThrottleConfig())
	th.Reset()
	if th.State().Primed {
		t.Fatal("reset should clear primed state")
	}
	if !th.ShouldRecalculate(throttleEpoch.Add(time.Millisecond), geom.GridPos{}, geom.GridPos{}, 0) {
		t.Fatal("first call after reset should trigger")
	}
}
