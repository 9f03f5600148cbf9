package heightfield

import "fmt"

// Static wraps a caller-supplied dense sample array, row-major with one
// elevation per cell. Used for pre-baked terrain exported from an editor
// or captured from another source.
type Static struct {
	base
	samples []float64
}

// NewStatic validates the sample shape and takes its own copy.
func NewStatic(geo Geometry, samples []float64) (*Static, error) {
	if err := geo.validate(); err != nil {
		return nil, err
	}
	if len(samples) != geo.Width*geo.Height {
		return nil, fmt.Errorf("heightfield: %d samples for %dx%d grid", len(samples), geo.Width, geo.Height)
	}
	s := &Static{base: base{geo: geo}}
	s.samples = make([]float64, len(samples))
	copy(s.samples, samples)
	return s, nil
}

// HeightAt returns the elevation for a cell.
func (s *Static) HeightAt(x, y int) float64 {
	return s.samples[y*s.geo.Width+x]
}

// SampleAll returns the cached row-major sample array.
func (s *Static) SampleAll() []float64 {
	return s.samples
}
