package form3

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Shape names a base primitive for Generate.
type Shape string

const (
	ShapeSphere           Shape = "sphere"
	ShapeTorus            Shape = "torus"
	ShapeEllipsoid        Shape = "ellipsoid"
	ShapeCone             Shape = "cone"
	ShapeCube             Shape = "cube"
	ShapeCuboid           Shape = "cuboid"
	ShapeHexPrism         Shape = "hexagonal_prism"
	ShapePyramid          Shape = "pyramid"
	ShapeHelix            Shape = "helix"
	ShapeTwistedTorus     Shape = "twisted_torus"
	ShapeWireframeSurface Shape = "wireframe_surface"
)

// Shapes returns every shape Generate knows, sorted by name.
func Shapes() []Shape {
	out := make([]Shape, 0, len(shapeBuilders))
	for s := range shapeBuilders {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseShape returns the shape named s, ignoring case. Unknown names
// yield ShapeSphere and false.
func ParseShape(s string) (Shape, bool) {
	sh := Shape(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := shapeBuilders[sh]; !ok {
		return ShapeSphere, false
	}
	return sh, true
}

// Point is a weighted 2D pattern point in image coordinates.
type Point struct {
	r2.Vec
	Weight float64
}

// Params configure Generate.
type Params struct {
	// ExtrusionDepth displaces vertices along their normals by (depth-1)/2.
	ExtrusionDepth float64
	// Curvature in [-1,1] scales point modulation by 1+Curvature.
	Curvature float64
	// SubdivisionLevel sets the base primitive detail and the number of
	// subdivision passes applied after modulation. Must be in [0,4].
	SubdivisionLevel    int
	SmoothingIterations int
	// PatternScale is the characteristic radius of the base primitive.
	PatternScale  float64
	Hollow        bool
	WallThickness float64
	// Twist in degrees per unit length along X, used by ShapeTwistedTorus.
	Twist float64
	// Taper scales the top of the mesh along Z relative to its bottom.
	// Zero or one leaves the mesh untouched.
	Taper float64
	// Bend in degrees curves the mesh along Z into X.
	Bend float64
	// MaxVertices decimates the final mesh to about this many vertices.
	// Zero keeps every vertex.
	MaxVertices int
}

// DefaultParams returns the default generation parameters.
func DefaultParams() Params {
	return Params{
		ExtrusionDepth:      1,
		SubdivisionLevel:    2,
		SmoothingIterations: 3,
		PatternScale:        1,
		WallThickness:       0.1,
		Twist:               45,
	}
}

const (
	maxSubdivision  = 4
	smoothingFactor = 0.5
	// modulationGain scales the interpolated point weight into a Z offset.
	modulationGain = 0.1
	minSigma       = 0.05
	defaultSigma   = 0.1
)

func (p Params) validate() error {
	switch {
	case p.PatternScale <= 0:
		return ErrMsg("pattern scale must be positive")
	case p.SubdivisionLevel < 0 || p.SubdivisionLevel > maxSubdivision:
		return ErrMsg(fmt.Sprintf("subdivision level %d out of range [0,%d]", p.SubdivisionLevel, maxSubdivision))
	case p.SmoothingIterations < 0:
		return ErrMsg("negative smoothing iterations")
	case p.Curvature < -1 || p.Curvature > 1:
		return ErrMsg("curvature out of range [-1,1]")
	case p.Hollow && p.WallThickness <= 0:
		return ErrMsg("hollow wall thickness must be positive")
	case p.Taper < 0:
		return ErrMsg("negative taper")
	case p.MaxVertices < 0:
		return ErrMsg("negative vertex limit")
	}
	return nil
}

var shapeBuilders = map[Shape]func(p Params) (*brane.Mesh, error){
	ShapeSphere: func(p Params) (*brane.Mesh, error) {
		return Icosphere(p.PatternScale, p.SubdivisionLevel, r3.Vec{})
	},
	ShapeEllipsoid: func(p Params) (*brane.Mesh, error) {
		return Icosphere(p.PatternScale, p.SubdivisionLevel, r3.Vec{})
	},
	ShapeWireframeSurface: func(p Params) (*brane.Mesh, error) {
		return Icosphere(p.PatternScale, p.SubdivisionLevel, r3.Vec{})
	},
	ShapeTorus: func(p Params) (*brane.Mesh, error) {
		return Torus(p.PatternScale, 0.3*p.PatternScale, 32*(p.SubdivisionLevel+1), 16)
	},
	ShapeTwistedTorus: func(p Params) (*brane.Mesh, error) {
		m, err := Torus(p.PatternScale, 0.2*p.PatternScale, 64, 16)
		if err != nil || p.Twist == 0 {
			return m, err
		}
		return brane.Twist(m, brane.AxisX, brane.DtoR(p.Twist)), nil
	},
	ShapeCone: func(p Params) (*brane.Mesh, error) {
		return Cone(p.PatternScale, 2*p.PatternScale, r3.Vec{})
	},
	ShapeCube: func(p Params) (*brane.Mesh, error) {
		return Cube(2*p.PatternScale, r3.Vec{})
	},
	ShapeCuboid: func(p Params) (*brane.Mesh, error) {
		return Cube(2*p.PatternScale, r3.Vec{})
	},
	ShapeHexPrism: func(p Params) (*brane.Mesh, error) {
		return HexPrism(p.PatternScale, 2*p.PatternScale, r3.Vec{})
	},
	ShapePyramid: func(p Params) (*brane.Mesh, error) {
		return Pyramid(p.PatternScale, 2*p.PatternScale, 4, r3.Vec{})
	},
	ShapeHelix: func(p Params) (*brane.Mesh, error) {
		hp := must3.DefaultHelixParms()
		hp.Radius = p.PatternScale
		hp.Height = 3 * p.PatternScale
		hp.TubeRadius = 0.1 * p.PatternScale
		return Helix(hp)
	},
}

// Generate builds the base primitive named by shape, modulates its height
// with the pattern points and applies the deformations configured in p in
// this order: extrude, subdivide, smooth, taper, bend, hollow, simplify.
// Unknown shapes build a sphere.
func Generate(shape Shape, points []Point, p Params) (*brane.Mesh, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	build, ok := shapeBuilders[shape]
	if !ok {
		build = shapeBuilders[ShapeSphere]
	}
	m, err := build(p)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", shape, err)
	}
	if len(points) > 0 {
		Modulate(m, normalizePoints(points), p.Curvature)
	}
	if p.ExtrusionDepth != 1 {
		m = brane.Extrude(m, p.ExtrusionDepth)
	}
	if p.SubdivisionLevel > 0 {
		m = brane.Subdivide(m, p.SubdivisionLevel)
	}
	if p.SmoothingIterations > 0 {
		m = brane.Smooth(m, p.SmoothingIterations, smoothingFactor)
	}
	if p.Taper != 0 && p.Taper != 1 {
		m = brane.Taper(m, brane.AxisZ, 1, p.Taper)
	}
	if p.Bend != 0 {
		m = brane.Bend(m, brane.AxisZ, brane.DtoR(p.Bend))
	}
	if p.Hollow {
		m, err = brane.Hollow(m, p.WallThickness)
		if err != nil {
			return nil, err
		}
	}
	if p.MaxVertices > 0 {
		m = brane.Simplify(m, p.MaxVertices)
	}
	return m, nil
}

// normalizePoints maps points into [-1,1] about the centre of their bounds,
// preserving aspect ratio.
func normalizePoints(points []Point) []Point {
	lo, hi := points[0].Vec, points[0].Vec
	for _, pt := range points[1:] {
		lo.X, lo.Y = math.Min(lo.X, pt.X), math.Min(lo.Y, pt.Y)
		hi.X, hi.Y = math.Max(hi.X, pt.X), math.Max(hi.Y, pt.Y)
	}
	center := r2.Scale(0.5, r2.Add(lo, hi))
	scale := math.Max(hi.X-lo.X, hi.Y-lo.Y) / 2
	if scale == 0 {
		scale = 1
	}
	out := make([]Point, len(points))
	for i, pt := range points {
		out[i] = Point{Vec: r2.Scale(1/scale, r2.Sub(pt.Vec, center)), Weight: pt.Weight}
	}
	return out
}

// Modulate raises every vertex of m along Z by the Gaussian weighted mean of
// the point weights around its XY position, scaled by 1+curvature.
// Normals are left as they were.
func Modulate(m *brane.Mesh, points []Point, curvature float64) {
	if len(points) == 0 {
		return
	}
	sigma := kernelWidth(points)
	inv := 1 / (2 * sigma * sigma)
	for i, v := range m.Vertices {
		q := r2.Vec{X: v.X, Y: v.Y}
		var wsum, vsum float64
		for _, pt := range points {
			d := r2.Sub(q, pt.Vec)
			g := math.Exp(-r2.Dot(d, d) * inv)
			wsum += g
			vsum += g * pt.Weight
		}
		if wsum > 0 {
			m.Vertices[i].Z += vsum / wsum * (1 + curvature) * modulationGain
		}
	}
}

// kernelWidth is half the median pairwise distance of points, at least minSigma.
func kernelWidth(points []Point) float64 {
	if len(points) < 2 {
		return defaultSigma
	}
	dists := make([]float64, 0, len(points)*(len(points)-1)/2)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			dists = append(dists, r2.Norm(r2.Sub(points[i].Vec, points[j].Vec)))
		}
	}
	sort.Float64s(dists)
	n := len(dists)
	median := dists[n/2]
	if n%2 == 0 {
		median = (dists[n/2-1] + dists[n/2]) / 2
	}
	return math.Max(median/2, minSigma)
}

// PointsFromGrid returns the cells of grid above level as points weighted by
// their value, in column and row coordinates. At most maxPoints are returned,
// taken at an even stride; maxPoints <= 0 means no limit.
func PointsFromGrid(grid brane.DisplacementGrid, level float64, maxPoints int) []Point {
	rows, cols := grid.Dims()
	var pts []Point
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if d := grid.At(i, j); d > level {
				pts = append(pts, Point{Vec: r2.Vec{X: float64(j), Y: float64(i)}, Weight: d})
			}
		}
	}
	if maxPoints <= 0 || len(pts) <= maxPoints {
		return pts
	}
	stride := (len(pts) + maxPoints - 1) / maxPoints
	out := make([]Point, 0, maxPoints)
	for k := 0; k < len(pts); k += stride {
		out = append(out, pts[k])
	}
	return out
}
