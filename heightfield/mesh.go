package heightfield

import "github.com/pthm-cable/aeronav/geom"

// Triangle is one face of a terrain mesh in world space.
type Triangle struct {
	A, B, C geom.Vec3
}

// Mesh samples elevation from a triangle set by dropping a vertical ray
// through each cell center and interpolating the hit barycentrically.
// Overlapping faces resolve to the highest surface; cells over no face
// fall back to DefaultHeight. All cells are sampled once at construction.
type Mesh struct {
	base
	samples []float64
}

// NewMesh builds a mesh source. defaultHeight fills cells outside the mesh
// footprint.
func NewMesh(geo Geometry, tris []Triangle, defaultHeight float64) (*Mesh, error) {
	if err := geo.validate(); err != nil {
		return nil, err
	}
	m := &Mesh{base: base{geo: geo}}
	m.samples = make([]float64, geo.Width*geo.Height)
	for y := 0; y < geo.Height; y++ {
		for x := 0; x < geo.Width; x++ {
			wx, wz := m.cellCenter(x, y)
			h, ok := sampleMesh(tris, wx, wz)
			if !ok {
				h = defaultHeight
			}
			m.samples[y*geo.Width+x] = h
		}
	}
	return m, nil
}

// sampleMesh returns the highest surface height under (wx, wz), if any
// triangle covers the point on the grid plane.
func sampleMesh(tris []Triangle, wx, wz float64) (float64, bool) {
	var best float64
	found := false
	for i := range tris {
		h, ok := triangleHeightAt(&tris[i], wx, wz)
		if ok && (!found || h > best) {
			best = h
			found = true
		}
	}
	return best, found
}

// triangleHeightAt projects the triangle onto the X/Z plane and, when the
// point lies inside, interpolates Y with barycentric weights.
func triangleHeightAt(t *Triangle, px, pz float64) (float64, bool) {
	v0x, v0z := t.B.X-t.A.X, t.B.Z-t.A.Z
	v1x, v1z := t.C.X-t.A.X, t.C.Z-t.A.Z
	v2x, v2z := px-t.A.X, pz-t.A.Z

	den := v0x*v1z - v1x*v0z
	if den == 0 {
		return 0, false // degenerate in plan view
	}
	u := (v2x*v1z - v1x*v2z) / den
	v := (v0x*v2z - v2x*v0z) / den
	if u < 0 || v < 0 || u+v > 1 {
		return 0, false
	}
	return t.A.Y + u*(t.B.Y-t.A.Y) + v*(t.C.Y-t.A.Y), true
}

// HeightAt returns the cached elevation for a cell.
func (m *Mesh) HeightAt(x, y int) float64 {
	return m.samples[y*m.geo.Width+x]
}

// SampleAll returns the cached row-major sample array.
func (m *Mesh) SampleAll() []float64 {
	return m.samples
}
