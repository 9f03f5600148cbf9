package nav

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/aeronav/events"
	"github.com/pthm-cable/aeronav/geom"
)

// PathRequest describes one search. Requests are created by the caller and
// consumed exactly once by the engine.
type PathRequest struct {
	ID           uint64
	Start        geom.GridPos
	End          geom.GridPos
	HeightOffset float64
}

// PathResult is the outcome of one request. Ownership of the waypoint
// slice transfers to the caller.
type PathResult struct {
	RequestID  uint64
	Success    bool
	Waypoints  []geom.Vec3   // empty on failure
	Cost       float64       // total path cost on success
	Elapsed    time.Duration // computation time
	Reason     FailReason    // diagnostics; FailNone on success
	Clamped    bool          // a requested coordinate was auto-clamped
	Iterations int
	Expanded   int
}

// Option configures a Planner.
type Option func(*Planner)

// WithPublisher routes produced signals to an external event mechanism.
func WithPublisher(pub events.Publisher) Option {
	return func(p *Planner) { p.pub = pub }
}

// WithMaxIterations overrides the derived search iteration cap.
func WithMaxIterations(n int) Option {
	return func(p *Planner) { p.maxIterations = n }
}

// WithStrictBounds makes out-of-range requests fail instead of clamping.
func WithStrictBounds() Option {
	return func(p *Planner) { p.clampRequests = false }
}

// WithSimplify drops collinear intermediate waypoints from returned paths.
func WithSimplify() Option {
	return func(p *Planner) { p.simplify = true }
}

// WithThrottle sets the continuous-tracking recalculation policy.
func WithThrottle(cfg ThrottleConfig) Option {
	return func(p *Planner) { p.throttleCfg = cfg }
}

// Planner is the pathfinding core: it owns the sampled grid, one set of
// pre-allocated search buffers, and the tracking throttle, and sequences
// them behind the request/result contract.
//
// A search runs synchronously and at most one may be in flight; a
// concurrent CalculatePath on the same Planner is rejected as busy.
// Independent Planner instances share no state. Initialize and Resample
// must not race a search; the configuration and elevation data are
// immutable for the duration of any search.
type Planner struct {
	mu            sync.Mutex
	pub           events.Publisher
	maxIterations int
	clampRequests bool
	simplify      bool
	throttleCfg   ThrottleConfig

	grid     *ElevationGrid
	bounds   Boundary
	engine   *Engine
	throttle *RecalcThrottle
	nextID   atomic.Uint64
}

// NewPlanner creates an uninitialized planner. Initialize must be called
// before any search or conversion operation.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		pub:           events.Nop{},
		clampRequests: true,
		throttleCfg:   DefaultThrottleConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize validates the configuration, samples the height source, and
// allocates the working buffers. Calling it again replaces the grid
// wholesale; that is only legal between searches.
func (p *Planner) Initialize(cfg GridConfig, src HeightSource) error {
	grid, err := NewElevationGrid(cfg, src)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid = grid
	p.bounds = NewBoundary(cfg)
	p.engine = NewEngine(grid, p.maxIterations)
	p.throttle = NewRecalcThrottle(p.throttleCfg)
	return nil
}

// Initialized reports whether the planner is ready for requests.
func (p *Planner) Initialized() bool {
	return p.grid != nil
}

// Resample re-reads every elevation sample from the source. Must not be
// called while a search is in flight.
func (p *Planner) Resample(src HeightSource) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.grid == nil {
		return ErrUninitialized
	}
	p.grid.Resample(src)
	return nil
}

// CalculatePath runs a search between two grid cells and blocks until the
// result is ready. Out-of-range cells follow the configured clamping
// policy. If another search is in flight the request is rejected as busy.
func (p *Planner) CalculatePath(start, end geom.GridPos, heightOffset float64) PathResult {
	id := p.nextID.Add(1)
	if !p.mu.TryLock() {
		return PathResult{RequestID: id, Reason: FailBusy}
	}
	defer p.mu.Unlock()

	if p.grid == nil {
		return PathResult{RequestID: id, Reason: FailUninitialized}
	}
	res := PathResult{RequestID: id}
	s, sOK := p.resolveCell(start)
	e, eOK := p.resolveCell(end)
	if !sOK || !eOK {
		res.Reason = FailOutOfBounds
		return res
	}
	res.Clamped = s != start || e != end
	return p.searchLocked(PathRequest{ID: id, Start: s, End: e, HeightOffset: heightOffset}, res)
}

// CalculatePathWorld is the world-space overload: both endpoints are
// converted through the boundary handler using the configured clamping
// policy before the search runs.
func (p *Planner) CalculatePathWorld(start, end geom.Vec3, heightOffset float64) PathResult {
	id := p.nextID.Add(1)
	if !p.mu.TryLock() {
		return PathResult{RequestID: id, Reason: FailBusy}
	}
	defer p.mu.Unlock()

	if p.grid == nil {
		return PathResult{RequestID: id, Reason: FailUninitialized}
	}
	res := PathResult{RequestID: id}
	s, sOK := p.resolveWorld(start)
	e, eOK := p.resolveWorld(end)
	if !sOK || !eOK {
		res.Reason = FailOutOfBounds
		return res
	}
	res.Clamped = p.bounds.WorldToGrid(start) != s || p.bounds.WorldToGrid(end) != e
	return p.searchLocked(PathRequest{ID: id, Start: s, End: e, HeightOffset: heightOffset}, res)
}

// resolveCell applies the clamping policy to a requested cell, emitting a
// boundary-violation signal when the request fell outside the grid.
func (p *Planner) resolveCell(cell geom.GridPos) (geom.GridPos, bool) {
	if p.bounds.Contains(cell) {
		return cell, true
	}
	clamped := p.bounds.Clamp(cell)
	p.pub.Publish(events.NewBoundaryViolation(p.bounds.GridToWorld(cell, 0), clamped, p.clampRequests))
	if !p.clampRequests {
		return cell, false
	}
	return clamped, true
}

// resolveWorld converts a world position to a cell under the clamping
// policy.
func (p *Planner) resolveWorld(pos geom.Vec3) (geom.GridPos, bool) {
	raw := p.bounds.WorldToGrid(pos)
	if p.bounds.Contains(raw) {
		return raw, true
	}
	clamped := p.bounds.Clamp(raw)
	p.pub.Publish(events.NewBoundaryViolation(pos, clamped, p.clampRequests))
	if !p.clampRequests {
		return raw, false
	}
	return clamped, true
}

// searchLocked runs the engine on validated in-range endpoints and builds
// the world-space result. Caller holds the planner lock.
func (p *Planner) searchLocked(req PathRequest, res PathResult) PathResult {
	began := time.Now()
	cells, stats := p.engine.Search(req.Start, req.End)

	res.Success = stats.Found
	res.Reason = stats.Reason
	res.Cost = stats.Cost
	res.Iterations = stats.Iterations
	res.Expanded = stats.Expanded
	if stats.Found {
		if p.simplify {
			cells = simplifyCollinear(cells)
		}
		res.Waypoints = make([]geom.Vec3, len(cells))
		for i, c := range cells {
			res.Waypoints[i] = p.bounds.GridToWorld(c, p.grid.ElevationAt(c.X, c.Y)+req.HeightOffset)
		}
	}
	res.Elapsed = time.Since(began)
	p.pub.Publish(events.NewPathCalculated(req.ID, res.Success, res.Waypoints, res.Elapsed))
	return res
}

// WorldToGrid converts a world position to a cell. With clamp the result
// is always in range and the flag reports whether the position was out of
// bounds; without it the raw cell is returned with the same flag.
func (p *Planner) WorldToGrid(pos geom.Vec3, clamp bool) (geom.GridPos, bool, error) {
	if p.grid == nil {
		return geom.GridPos{}, false, ErrUninitialized
	}
	raw := p.bounds.WorldToGrid(pos)
	out := !p.bounds.Contains(raw)
	if clamp {
		return p.bounds.Clamp(raw), out, nil
	}
	return raw, out, nil
}

// GridToWorld returns the world-space center of a cell with its elevation
// plus yOffset.
func (p *Planner) GridToWorld(cell geom.GridPos, yOffset float64) (geom.Vec3, error) {
	if p.grid == nil {
		return geom.Vec3{}, ErrUninitialized
	}
	if !p.bounds.Contains(cell) {
		return geom.Vec3{}, ErrOutOfBounds
	}
	return p.bounds.GridToWorld(cell, p.grid.ElevationAt(cell.X, cell.Y)+yOffset), nil
}

// IsValidGridPosition reports whether the cell lies inside the grid.
func (p *Planner) IsValidGridPosition(cell geom.GridPos) bool {
	return p.grid != nil && p.bounds.Contains(cell)
}

// ClampToValidGridPosition snaps a cell into range per axis.
func (p *Planner) ClampToValidGridPosition(cell geom.GridPos) geom.GridPos {
	if p.grid == nil {
		return cell
	}
	return p.bounds.Clamp(cell)
}

// ShouldRecalculate asks the tracking throttle whether to re-issue a
// search now; the throttle state advances only when it returns true.
// Intended for a single control-loop goroutine.
func (p *Planner) ShouldRecalculate(now time.Time, target, origin geom.GridPos, distanceToTarget float64) bool {
	if p.throttle == nil {
		return false
	}
	return p.throttle.ShouldRecalculate(now, target, origin, distanceToTarget)
}

// simplifyCollinear removes interior waypoints that continue the previous
// step direction, keeping turns and both endpoints.
func simplifyCollinear(cells []geom.GridPos) []geom.GridPos {
	if len(cells) <= 2 {
		return cells
	}
	out := cells[:1]
	for i := 1; i < len(cells)-1; i++ {
		prev := out[len(out)-1]
		cur, next := cells[i], cells[i+1]
		d1x, d1y := sign(cur.X-prev.X), sign(cur.Y-prev.Y)
		d2x, d2y := sign(next.X-cur.X), sign(next.Y-cur.Y)
		if d1x == d2x && d1y == d2y {
			continue
		}
		out = append(out, cur)
	}
	return append(out, cells[len(cells)-1])
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
