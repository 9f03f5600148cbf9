package heightfield

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// ProceduralParams tunes noise-generated terrain.
type ProceduralParams struct {
	Seed        int64
	NoiseScale  float64 // world-space frequency of the base octave
	Octaves     int     // fBm octave count
	Persistence float64 // amplitude falloff per octave
	HeightScale float64 // world height of full-amplitude noise
	BaseHeight  float64 // elevation floor added to every sample
}

// DefaultProceduralParams returns rolling-hills terrain.
func DefaultProceduralParams(seed int64) ProceduralParams {
	return ProceduralParams{
		Seed:        seed,
		NoiseScale:  0.02,
		Octaves:     4,
		Persistence: 0.5,
		HeightScale: 60,
	}
}

// Procedural generates terrain from seeded opensimplex fractal noise. The
// whole grid is sampled once at construction, so repeated queries and
// SampleAll are cache reads. The same seed and geometry always produce the
// same field.
type Procedural struct {
	base
	params  ProceduralParams
	samples []float64
}

// NewProcedural creates and samples a procedural source.
func NewProcedural(geo Geometry, params ProceduralParams) (*Procedural, error) {
	if err := geo.validate(); err != nil {
		return nil, err
	}
	if params.Octaves < 1 {
		params.Octaves = 1
	}
	if params.Persistence <= 0 {
		params.Persistence = 0.5
	}
	p := &Procedural{base: base{geo: geo}, params: params}
	p.samples = make([]float64, geo.Width*geo.Height)

	noise := opensimplex.NewNormalized(params.Seed)
	for y := 0; y < geo.Height; y++ {
		for x := 0; x < geo.Width; x++ {
			wx, wz := p.cellCenter(x, y)
			p.samples[y*geo.Width+x] = params.BaseHeight + params.HeightScale*fbm(noise, wx, wz, params)
		}
	}
	return p, nil
}

// fbm sums octaves of normalized noise into [0, 1].
func fbm(noise opensimplex.Noise, x, z float64, params ProceduralParams) float64 {
	var sum, amp, norm float64
	amp = 1
	freq := params.NoiseScale
	for i := 0; i < params.Octaves; i++ {
		sum += amp * noise.Eval2(x*freq, z*freq)
		norm += amp
		amp *= params.Persistence
		freq *= 2
	}
	return sum / norm
}

// HeightAt returns the cached elevation for a cell.
func (p *Procedural) HeightAt(x, y int) float64 {
	return p.samples[y*p.geo.Width+x]
}

// SampleAll returns the cached row-major sample array.
func (p *Procedural) SampleAll() []float64 {
	return p.samples
}
