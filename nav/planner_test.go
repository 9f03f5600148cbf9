package nav

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pthm-cable/aeronav/events"
	"github.com/pthm-cable/aeronav/geom"
)

func initPlanner(t *testing.T, samples []float64, opts ...Option) *Planner {
	t.Helper()
	p := NewPlanner(opts...)
	cfg := GridConfig{Width: 8, Height: 8, CellSize: 2, CostMultiplier: 1}
	var src HeightSource
	if samples != nil {
		src = &sliceSource{cfg: cfg, samples: samples}
	}
	if err := p.Initialize(cfg, src); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}

func TestPlannerUninitialized(t *testing.T) {
	p := NewPlanner()

	if p.Initialized() {
		t.Error("fresh planner reports initialized")
	}
	res := p.CalculatePath(geom.GridPos{}, geom.GridPos{X: 1}, 0)
	if res.Success || res.Reason != FailUninitialized {
		t.Errorf("result = %+v, want uninitialized failure", res)
	}
	if _, _, err := p.WorldToGrid(geom.Vec3{}, true); !errors.Is(err, ErrUninitialized) {
		t.Errorf("WorldToGrid error = %v, want ErrUninitialized", err)
	}
	if _, err := p.GridToWorld(geom.GridPos{}, 0); !errors.Is(err, ErrUninitialized) {
		t.Errorf("GridToWorld error = %v, want ErrUninitialized", err)
	}
	if err := p.Resample(nil); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Resample error = %v, want ErrUninitialized", err)
	}
}

func TestPlannerInitializeRejectsInvalidConfig(t *testing.T) {
	p := NewPlanner()
	err := p.Initialize(GridConfig{Width: 0, Height: 8, CellSize: 1}, nil)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("error = %v, want ErrInvalidConfiguration", err)
	}
	if p.Initialized() {
		t.Error("failed Initialize left planner initialized")
	}
}

func TestPlannerRequestIDsMonotonic(t *testing.T) {
	p := initPlanner(t, nil)

	var last uint64
	for i := 0; i < 5; i++ {
		res := p.CalculatePath(geom.GridPos{}, geom.GridPos{X: 3, Y: 3}, 0)
		if res.RequestID <= last {
			t.Fatalf("request ID %d not greater than previous %d", res.RequestID, last)
		}
		last = res.RequestID
	}
}

func TestPlannerWaypointHeights(t *testing.T) {
	samples := make([]float64, 8*8)
	for i := range samples {
		samples[i] = 10
	}
	p := initPlanner(t, samples)

	res := p.CalculatePath(geom.GridPos{}, geom.GridPos{X: 2, Y: 0}, 5)
	if !res.Success {
		t.Fatalf("search failed: %v", res.Reason)
	}
	want := []geom.Vec3{
		{X: 1, Y: 15, Z: 1},
		{X: 3, Y: 15, Z: 1},
		{X: 5, Y: 15, Z: 1},
	}
	if diff := cmp.Diff(want, res.Waypoints, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("waypoints mismatch (-want +got):\n%s", diff)
	}
}

func TestPlannerClampsOutOfRangeRequests(t *testing.T) {
	var got []events.Event
	p := initPlanner(t, nil, WithPublisher(events.Func(func(e events.Event) {
		got = append(got, e)
	})))

	res := p.CalculatePath(geom.GridPos{X: -5, Y: 0}, geom.GridPos{X: 3, Y: 3}, 0)
	if !res.Success {
		t.Fatalf("clamped request failed: %v", res.Reason)
	}
	if !res.Clamped {
		t.Error("result does not report clamping")
	}

	var violations int
	for _, e := range got {
		if e.Type == events.TypeBoundaryViolation {
			violations++
			if !e.AutoClamped {
				t.Error("violation signal should report auto-clamp")
			}
			if e.ClampedCell != (geom.GridPos{X: 0, Y: 0}) {
				t.Errorf("clamped cell = %v, want (0,0)", e.ClampedCell)
			}
		}
	}
	if violations != 1 {
		t.Errorf("boundary violations = %d, want 1", violations)
	}
}

func TestPlannerStrictBounds(t *testing.T) {
	var got []events.Event
	p := initPlanner(t, nil, WithStrictBounds(), WithPublisher(events.Func(func(e events.Event) {
		got = append(got, e)
	})))

	res := p.CalculatePath(geom.GridPos{X: -5, Y: 0}, geom.GridPos{X: 3, Y: 3}, 0)
	if res.Success || res.Reason != FailOutOfBounds {
		t.Errorf("result = %+v, want out-of-bounds failure", res)
	}
	for _, e := range got {
		if e.Type == events.TypeBoundaryViolation && e.AutoClamped {
			t.Error("strict mode signal should not report auto-clamp")
		}
	}
}

func TestPlannerBusy(t *testing.T) {
	p := initPlanner(t, nil)

	p.mu.Lock()
	res := p.CalculatePath(geom.GridPos{}, geom.GridPos{X: 1}, 0)
	p.mu.Unlock()

	if res.Success || res.Reason != FailBusy {
		t.Errorf("result = %+v, want busy rejection", res)
	}
}

func TestPlannerWorldEndpoints(t *testing.T) {
	p := initPlanner(t, nil)

	// World (1,0,1) is the center of cell (0,0); (9,0,1) is cell (4,0).
	res := p.CalculatePathWorld(geom.Vec3{X: 1, Z: 1}, geom.Vec3{X: 9, Z: 1}, 0)
	if !res.Success {
		t.Fatalf("search failed: %v", res.Reason)
	}
	if res.Clamped {
		t.Error("in-range world endpoints should not report clamping")
	}
	if len(res.Waypoints) != 5 {
		t.Errorf("waypoints = %d, want 5", len(res.Waypoints))
	}
	first, last := res.Waypoints[0], res.Waypoints[len(res.Waypoints)-1]
	if math.Abs(first.X-1) > 1e-9 || math.Abs(last.X-9) > 1e-9 {
		t.Errorf("endpoint centers = %v .. %v", first, last)
	}
}

func TestPlannerWorldClamped(t *testing.T) {
	p := initPlanner(t, nil)

	res := p.CalculatePathWorld(geom.Vec3{X: -100, Z: -100}, geom.Vec3{X: 9, Z: 1}, 0)
	if !res.Success || !res.Clamped {
		t.Errorf("result = %+v, want clamped success", res)
	}
}

func TestPlannerPathCalculatedEvent(t *testing.T) {
	var got []events.Event
	p := initPlanner(t, nil, WithPublisher(events.Func(func(e events.Event) {
		got = append(got, e)
	})))

	res := p.CalculatePath(geom.GridPos{}, geom.GridPos{X: 3, Y: 3}, 0)
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	e := got[0]
	if e.Type != events.TypePathCalculated || e.RequestID != res.RequestID || !e.Success {
		t.Errorf("event = %+v, result = %+v", e, res)
	}
	if len(e.Waypoints) != len(res.Waypoints) {
		t.Errorf("event waypoints = %d, result waypoints = %d", len(e.Waypoints), len(res.Waypoints))
	}
}

func TestPlannerConversionHelpers(t *testing.T) {
	samples := make([]float64, 8*8)
	samples[0] = 7
	p := initPlanner(t, samples)

	cell, out, err := p.WorldToGrid(geom.Vec3{X: 1, Z: 1}, false)
	if err != nil || out || cell != (geom.GridPos{X: 0, Y: 0}) {
		t.Errorf("WorldToGrid = %v, %v, %v", cell, out, err)
	}

	cell, out, err = p.WorldToGrid(geom.Vec3{X: -1, Z: 1}, true)
	if err != nil || !out || cell != (geom.GridPos{X: 0, Y: 0}) {
		t.Errorf("clamped WorldToGrid = %v, %v, %v", cell, out, err)
	}

	world, err := p.GridToWorld(geom.GridPos{X: 0, Y: 0}, 3)
	if err != nil {
		t.Fatalf("GridToWorld: %v", err)
	}
	if want := (geom.Vec3{X: 1, Y: 10, Z: 1}); world != want {
		t.Errorf("GridToWorld = %v, want %v", world, want)
	}

	if _, err := p.GridToWorld(geom.GridPos{X: 99, Y: 0}, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GridToWorld error = %v, want ErrOutOfBounds", err)
	}

	if !p.IsValidGridPosition(geom.GridPos{X: 7, Y: 7}) || p.IsValidGridPosition(geom.GridPos{X: 8, Y: 7}) {
		t.Error("IsValidGridPosition disagrees with grid dimensions")
	}
	if got := p.ClampToValidGridPosition(geom.GridPos{X: 8, Y: -1}); got != (geom.GridPos{X: 7, Y: 0}) {
		t.Errorf("ClampToValidGridPosition = %v", got)
	}
}

func TestSimplifyCollinear(t *testing.T) {
	tests := []struct {
		name string
		in   []geom.GridPos
		want []geom.GridPos
	}{
		{
			name: "straight run collapses to endpoints",
			in:   []geom.GridPos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
			want: []geom.GridPos{{X: 0, Y: 0}, {X: 3, Y: 0}},
		},
		{
			name: "turn is kept",
			in:   []geom.GridPos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}},
			want: []geom.GridPos{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}},
		},
		{
			name: "diagonal run collapses",
			in:   []geom.GridPos{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
			want: []geom.GridPos{{X: 0, Y: 0}, {X: 3, Y: 3}},
		},
		{
			name: "two points untouched",
			in:   []geom.GridPos{{X: 0, Y: 0}, {X: 1, Y: 1}},
			want: []geom.GridPos{{X: 0, Y: 0}, {X: 1, Y: 1}},
		},
		{
			name: "single point untouched",
			in:   []geom.GridPos{{X: 4, Y: 4}},
			want: []geom.GridPos{{X: 4, Y: 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := simplifyCollinear(append([]geom.GridPos(nil), tt.in...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("simplifyCollinear() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlannerSimplifyOption(t *testing.T) {
	p := initPlanner(t, nil, WithSimplify())

	res := p.CalculatePath(geom.GridPos{}, geom.GridPos{X: 5, Y: 0}, 0)
	if !res.Success {
		t.Fatalf("search failed: %v", res.Reason)
	}
	if len(res.Waypoints) != 2 {
		t.Errorf("simplified waypoints = %d, want 2", len(res.Waypoints))
	}
}
