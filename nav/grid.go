// Package nav implements height-aware pathfinding for aerial agents over a
// 2D grid of elevation samples. Searches run on pre-allocated working memory
// and produce 3D world-space waypoint paths.
package nav

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/aeronav/geom"
)

// Sentinel errors for the recoverable failure taxonomy. Expected search
// outcomes (no path, iteration cap) are reported through PathResult instead.
var (
	ErrInvalidConfiguration = errors.New("nav: invalid grid configuration")
	ErrUninitialized        = errors.New("nav: planner not initialized")
	ErrOutOfBounds          = errors.New("nav: position outside grid")
)

// GridConfig describes the navigable grid: cell counts, geometry, and the
// elevation cost multiplier. A zero multiplier degrades the search to plain
// distance-only A*.
type GridConfig struct {
	Width          int       // cell count along world X
	Height         int       // cell count along world Z
	CellSize       float64   // world units per cell
	Origin         geom.Vec3 // world-space corner of cell (0,0)
	CostMultiplier float64   // scales all elevation cost terms, >= 0
}

// Validate rejects configurations that cannot describe a grid. An invalid
// configuration is never partially accepted.
func (c GridConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfiguration, c.Width, c.Height)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %g", ErrInvalidConfiguration, c.CellSize)
	}
	if c.CostMultiplier < 0 {
		return fmt.Errorf("%w: cost multiplier %g", ErrInvalidConfiguration, c.CostMultiplier)
	}
	return nil
}

// HeightSource supplies terrain elevation for grid initialization. The
// planner samples it once per (re)initialization; implementations should
// cache rather than recompute per cell.
type HeightSource interface {
	CellSize() float64
	Origin() geom.Vec3
	GridWidth() int
	GridHeight() int
	HeightAt(x, y int) float64
	// SampleAll returns one elevation per cell in row-major order,
	// GridWidth*GridHeight values.
	SampleAll() []float64
}

// ConfigFromSource builds a GridConfig from a height source's geometry.
func ConfigFromSource(src HeightSource, costMultiplier float64) GridConfig {
	return GridConfig{
		Width:          src.GridWidth(),
		Height:         src.GridHeight(),
		CellSize:       src.CellSize(),
		Origin:         src.Origin(),
		CostMultiplier: costMultiplier,
	}
}

// ElevationGrid owns the sampled elevation data for one grid configuration.
// Samples are populated once at construction and immutable until Resample
// replaces the whole array.
type ElevationGrid struct {
	cfg     GridConfig
	samples []float64
}

// NewElevationGrid validates the configuration and samples the height
// source over every cell. A nil source yields a flat grid at elevation 0.
func NewElevationGrid(cfg GridConfig, src HeightSource) (*ElevationGrid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &ElevationGrid{cfg: cfg}
	g.samples = sampleSource(cfg, src)
	return g, nil
}

// sampleSource fills a row-major elevation array from src, preferring the
// bulk SampleAll path when its shape matches the configuration.
func sampleSource(cfg GridConfig, src HeightSource) []float64 {
	samples := make([]float64, cfg.Width*cfg.Height)
	if src == nil {
		return samples
	}
	if bulk := src.SampleAll(); len(bulk) == len(samples) {
		copy(samples, bulk)
		return samples
	}
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			samples[y*cfg.Width+x] = src.HeightAt(x, y)
		}
	}
	return samples
}

// Config returns the grid configuration.
func (g *ElevationGrid) Config() GridConfig {
	return g.cfg
}

// ElevationAt returns the elevation sample for a cell. The caller must
// clamp first; querying outside the grid is a broken invariant and panics.
func (g *ElevationGrid) ElevationAt(x, y int) float64 {
	if x < 0 || x >= g.cfg.Width || y < 0 || y >= g.cfg.Height {
		panic(fmt.Sprintf("nav: elevation query (%d,%d) outside %dx%d grid", x, y, g.cfg.Width, g.cfg.Height))
	}
	return g.samples[y*g.cfg.Width+x]
}

// elevationAtIndex reads a sample by row-major index, for the search hot path.
func (g *ElevationGrid) elevationAtIndex(i int32) float64 {
	return g.samples[i]
}

// CellCount returns the number of cells in the grid.
func (g *ElevationGrid) CellCount() int {
	return len(g.samples)
}

// Resample replaces the whole elevation array from a new source pass.
// There is no partial update; callers must not resample during a search.
func (g *ElevationGrid) Resample(src HeightSource) {
	g.samples = sampleSource(g.cfg, src)
}
