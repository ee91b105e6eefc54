package brane

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Parametric constants of the family surfaces.
const (
	torusMajor = 1.0
	torusMinor = 0.4

	spheroidA = 1.2 // Z semi-axis
	spheroidB = 0.8 // XY semi-axes

	helixTurns  = 3
	helixHeight = 3.0
	helixMaxR   = 1.0
	// flowTwist is the rotation about Z, in radians per unit height, applied
	// to helicoids with Flowing phase.
	flowTwist = 0.2

	quantizeStep = 0.1
	softSnapStep = 0.15
	softResidual = 0.02
)

// ToroidSurface maps u to the major angle and v to the minor angle of a torus
// whose minor radius balloons with displacement. The u seam is stitched when
// the boundary condition is ClosedLoop.
func ToroidSurface(grid DisplacementGrid, sp SteeringProfile, res int, amp float64) *Mesh {
	verts := parametric(grid, res, func(u, v, d float64) r3.Vec {
		theta := u * tau
		phi := v * tau
		minor := torusMinor + d*amp*0.3
		ring := torusMajor + minor*math.Cos(phi)
		return r3.Vec{
			X: ring * math.Cos(theta),
			Y: ring * math.Sin(theta),
			Z: minor * math.Sin(phi),
		}
	})
	faces := gridFaces(res)
	if sp.BoundaryCondition() == ClosedLoop {
		faces = append(faces, seamFaces(res)...)
	}
	return newMesh(verts, faces)
}

// SpheroidSurface maps u to longitude and v to latitude of a prolate spheroid.
// The surface is closed by construction, its poles collapse to points.
func SpheroidSurface(grid DisplacementGrid, sp SteeringProfile, res int, amp float64) *Mesh {
	verts := parametric(grid, res, func(u, v, d float64) r3.Vec {
		theta := u * tau
		phi := v * pi
		a := spheroidA + d*amp*0.3
		b := spheroidB + d*amp*0.2
		return r3.Vec{
			X: b * math.Sin(phi) * math.Cos(theta),
			Y: b * math.Sin(phi) * math.Sin(theta),
			Z: a * math.Cos(phi),
		}
	})
	return newMesh(verts, gridFaces(res))
}

// HelicoidSurface sweeps v radially while u winds three turns upward.
// Displacement raises the sheet. With Flowing phase every point is further
// rotated about Z in proportion to its height.
func HelicoidSurface(grid DisplacementGrid, sp SteeringProfile, res int, amp float64) *Mesh {
	verts := parametric(grid, res, func(u, v, d float64) r3.Vec {
		theta := u * helixTurns * tau
		r := v * helixMaxR
		z := theta/tau*(helixHeight/helixTurns) + d*amp
		return r3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
	})
	if sp.PhaseBehavior() == Flowing {
		for i, p := range verts {
			r := math.Hypot(p.X, p.Y)
			angle := math.Atan2(p.Y, p.X) + flowTwist*p.Z
			verts[i] = r3.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle), Z: p.Z}
		}
	}
	return newMesh(verts, gridFaces(res))
}

// LatticeSurface is a planar relief with every coordinate snapped to a grid.
// Quantized phase snaps fully to a 0.1 step. Other phases snap to 0.15 and keep
// a small fraction of the remainder so the surface stays near smooth.
func LatticeSurface(grid DisplacementGrid, sp SteeringProfile, res int, amp float64) *Mesh {
	m := PlanarReliefSurface(grid, sp, res, amp)
	snap := softSnap
	if sp.PhaseBehavior() == Quantized {
		snap = hardSnap
	}
	for i, p := range m.Vertices {
		m.Vertices[i] = r3.Vec{X: snap(p.X), Y: snap(p.Y), Z: snap(p.Z)}
	}
	m.RecomputeNormals()
	return m
}

func hardSnap(x float64) float64 {
	return math.RoundToEven(x/quantizeStep) * quantizeStep
}

func softSnap(x float64) float64 {
	return math.RoundToEven(x/softSnapStep)*softSnapStep + softResidual*floorMod(x, softSnapStep)
}

// CompactifiedSurface is a sphere of unit radius perturbed by displacement and
// folded by a high frequency harmonic of u and v.
func CompactifiedSurface(grid DisplacementGrid, sp SteeringProfile, res int, amp float64) *Mesh {
	verts := parametric(grid, res, func(u, v, d float64) r3.Vec {
		theta := u * tau
		phi := v * pi
		r := 1 + d*amp*0.5
		r += 0.2 * math.Sin(3*tau*u) * math.Cos(3*tau*v)
		return r3.Vec{
			X: r * math.Sin(phi) * math.Cos(theta),
			Y: r * math.Sin(phi) * math.Sin(theta),
			Z: r * math.Cos(phi),
		}
	})
	return newMesh(verts, gridFaces(res))
}

// PlanarReliefSurface is a flat grid spanning [-1,1]² in XY whose height is the
// displacement times amplitude.
func PlanarReliefSurface(grid DisplacementGrid, sp SteeringProfile, res int, amp float64) *Mesh {
	verts := parametric(grid, res, func(u, v, d float64) r3.Vec {
		return r3.Vec{X: 2*u - 1, Y: 2*v - 1, Z: d * amp}
	})
	return newMesh(verts, gridFaces(res))
}

func newMesh(verts []r3.Vec, faces [][3]int) *Mesh {
	return &Mesh{Vertices: verts, Faces: faces, Normals: VertexNormals(verts, faces)}
}
