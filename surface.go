package brane

import "gonum.org/v1/gonum/spatial/r3"

// SurfaceFunc generates the mesh of a single topology family from a
// displacement grid already resampled to resolution×resolution.
type SurfaceFunc func(grid DisplacementGrid, steering SteeringProfile, resolution int, amplitude float64) *Mesh

var surfaces = map[TopologyFamily]SurfaceFunc{
	PlanarRelief:       PlanarReliefSurface,
	Toroidal:           ToroidSurface,
	Spheroid:           SpheroidSurface,
	Helical:            HelicoidSurface,
	LatticeResonator:   LatticeSurface,
	CompactifiedFolded: CompactifiedSurface,
}

// GenerateSurface builds the mesh for family by mapping the displacement grid
// onto the family's parametric domain sampled on a resolution×resolution grid.
// Families without a generator of their own, such as KleinBottle, are built as a
// planar relief. An invalid grid or a resolution below 2 yields an *InputError.
func GenerateSurface(grid DisplacementGrid, family TopologyFamily, steering SteeringProfile, resolution int, amplitude float64) (*Mesh, error) {
	if resolution < 2 {
		return nil, inputErr("generate surface", "resolution must be at least 2, got %d", resolution)
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if !family.valid() {
		return nil, inputErr("generate surface", "invalid family %d", int(family))
	}
	resampled, err := grid.Resample(resolution, resolution)
	if err != nil {
		return nil, err
	}
	gen, ok := surfaces[family]
	if !ok {
		gen = PlanarReliefSurface
	}
	return gen(resampled, steering, resolution, amplitude), nil
}

// linspace returns n evenly spaced samples over [0,1], both ends included.
func linspace(n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / float64(n-1)
	}
	return t
}

// parametric evaluates fn over the res×res (u,v) grid in row major order with
// v along rows, sampling the grid at each point.
func parametric(grid DisplacementGrid, res int, fn func(u, v, d float64) r3.Vec) []r3.Vec {
	ts := linspace(res)
	out := make([]r3.Vec, 0, res*res)
	for _, v := range ts {
		for _, u := range ts {
			out = append(out, fn(u, v, grid.Sample(u, v)))
		}
	}
	return out
}
