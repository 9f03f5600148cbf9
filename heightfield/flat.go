package heightfield

// Flat is a constant-height source, the degenerate terrain used for open
// airspace and for distance-only search behavior.
type Flat struct {
	base
	height  float64
	samples []float64
}

// NewFlat creates a flat source at the given elevation.
func NewFlat(geo Geometry, height float64) (*Flat, error) {
	if err := geo.validate(); err != nil {
		return nil, err
	}
	f := &Flat{base: base{geo: geo}, height: height}
	f.samples = make([]float64, geo.Width*geo.Height)
	for i := range f.samples {
		f.samples[i] = height
	}
	return f, nil
}

// HeightAt returns the constant elevation for any cell.
func (f *Flat) HeightAt(x, y int) float64 {
	return f.height
}

// SampleAll returns the cached row-major sample array.
func (f *Flat) SampleAll() []float64 {
	return f.samples
}
