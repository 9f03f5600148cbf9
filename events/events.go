// Package events defines the signals the pathfinding core produces and the
// narrow seam through which they reach an external delivery mechanism. The
// core never depends on any particular bus; callers plug in whatever
// transport they use.
package events

import (
	"time"

	"github.com/pthm-cable/aeronav/geom"
)

// Type identifies a produced signal.
type Type uint8

const (
	TypePathCalculated Type = iota
	TypeBoundaryViolation
)

// Event carries one produced signal. Fields beyond Type are populated per
// signal kind.
type Event struct {
	Type Type

	// Path calculated
	RequestID uint64
	Success   bool
	Waypoints []geom.Vec3
	Elapsed   time.Duration

	// Boundary violation
	Requested   geom.Vec3    // original world position
	ClampedCell geom.GridPos // cell actually used
	AutoClamped bool         // false when strict mode surfaced a failure instead
}

// NewPathCalculated creates a path-calculated signal. The waypoint slice is
// owned by the result's caller; subscribers that retain it must copy.
func NewPathCalculated(requestID uint64, success bool, waypoints []geom.Vec3, elapsed time.Duration) Event {
	return Event{
		Type:      TypePathCalculated,
		RequestID: requestID,
		Success:   success,
		Waypoints: waypoints,
		Elapsed:   elapsed,
	}
}

// NewBoundaryViolation creates a boundary-violation signal.
func NewBoundaryViolation(requested geom.Vec3, clamped geom.GridPos, autoClamped bool) Event {
	return Event{
		Type:        TypeBoundaryViolation,
		Requested:   requested,
		ClampedCell: clamped,
		AutoClamped: autoClamped,
	}
}

// Publisher delivers signals to the external event mechanism. Publish is
// called synchronously from the search path, so implementations should
// hand off quickly.
type Publisher interface {
	Publish(e Event)
}

// Nop discards every signal.
type Nop struct{}

func (Nop) Publish(Event) {}

// Func adapts a function to the Publisher interface.
type Func func(Event)

func (f Func) Publish(e Event) { f(e) }
