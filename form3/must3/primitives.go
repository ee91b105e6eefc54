package must3

import (
	"math"

	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/spatial/r3"
)

var icosahedronFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Icosphere returns a sphere built by subdividing an icosahedron. New
// vertices are projected back onto the sphere after every subdivision.
func Icosphere(radius float64, subdivisions int, center r3.Vec) *brane.Mesh {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if subdivisions < 0 {
		panic("subdivisions < 0")
	}
	phi := (1 + math.Sqrt(5)) / 2
	verts := []r3.Vec{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range verts {
		verts[i] = r3.Unit(verts[i])
	}
	faces := append([][3]int(nil), icosahedronFaces[:]...)
	for s := 0; s < subdivisions; s++ {
		verts, faces = subdivideSphere(verts, faces)
	}
	normals := make([]r3.Vec, len(verts))
	for i, v := range verts {
		normals[i] = v
		verts[i] = r3.Add(center, r3.Scale(radius, v))
	}
	return &brane.Mesh{Vertices: verts, Faces: faces, Normals: normals}
}

func subdivideSphere(verts []r3.Vec, faces [][3]int) ([]r3.Vec, [][3]int) {
	mids := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := [2]int{min(a, b), max(a, b)}
		if i, ok := mids[key]; ok {
			return i
		}
		verts = append(verts, r3.Unit(r3.Scale(0.5, r3.Add(verts[a], verts[b]))))
		mids[key] = len(verts) - 1
		return len(verts) - 1
	}
	out := make([][3]int, 0, 4*len(faces))
	for _, f := range faces {
		a := midpoint(f[0], f[1])
		b := midpoint(f[1], f[2])
		c := midpoint(f[2], f[0])
		out = append(out,
			[3]int{f[0], a, c},
			[3]int{f[1], b, a},
			[3]int{f[2], c, b},
			[3]int{a, b, c},
		)
	}
	return verts, out
}

// Torus returns a closed torus about the Z axis with segments rings of
// ringSegments vertices each.
func Torus(major, minor float64, segments, ringSegments int) *brane.Mesh {
	switch {
	case major <= 0:
		panic("major radius <= 0")
	case minor <= 0:
		panic("minor radius <= 0")
	case segments < 3 || ringSegments < 3:
		panic("torus needs at least 3 segments and ring segments")
	}
	n := segments * ringSegments
	verts := make([]r3.Vec, 0, n)
	normals := make([]r3.Vec, 0, n)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		st, ct := math.Sincos(theta)
		ring := r3.Vec{X: major * ct, Y: major * st}
		for j := 0; j < ringSegments; j++ {
			sp, cp := math.Sincos(2 * math.Pi * float64(j) / float64(ringSegments))
			dir := r3.Vec{X: cp * ct, Y: cp * st, Z: sp}
			verts = append(verts, r3.Add(ring, r3.Scale(minor, dir)))
			normals = append(normals, dir)
		}
	}
	faces := make([][3]int, 0, 2*n)
	for i := 0; i < segments; i++ {
		ni := (i + 1) % segments
		for j := 0; j < ringSegments; j++ {
			nj := (j + 1) % ringSegments
			v0 := i*ringSegments + j
			v1 := i*ringSegments + nj
			v2 := ni*ringSegments + nj
			v3 := ni*ringSegments + j
			faces = append(faces, [3]int{v0, v2, v1}, [3]int{v0, v3, v2})
		}
	}
	return &brane.Mesh{Vertices: verts, Faces: faces, Normals: normals}
}

// Cube returns an axis aligned cube of side size. Faces wind counter
// clockwise seen from outside, as do those of every primitive here.
func Cube(size float64, center r3.Vec) *brane.Mesh {
	if size <= 0 {
		panic("size <= 0")
	}
	h := size / 2
	verts := []r3.Vec{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	for i := range verts {
		verts[i] = r3.Add(center, verts[i])
	}
	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // front
		{5, 7, 4}, {5, 6, 7}, // back
		{4, 3, 0}, {4, 7, 3}, // left
		{1, 6, 5}, {1, 2, 6}, // right
		{3, 6, 2}, {3, 7, 6}, // top
		{4, 1, 5}, {4, 0, 1}, // bottom
	}
	return &brane.Mesh{Vertices: verts, Faces: faces, Normals: brane.VertexNormals(verts, faces)}
}

// HexPrism returns a hexagonal prism about the Z axis. The first 12
// vertices are the bottom and top rims, followed by the two cap centres.
func HexPrism(radius, height float64, center r3.Vec) *brane.Mesh {
	if radius <= 0 || height <= 0 {
		panic("radius and height must be positive")
	}
	hh := height / 2
	verts := make([]r3.Vec, 0, 14)
	for _, z := range []float64{-hh, hh} {
		for i := 0; i < 6; i++ {
			s, c := math.Sincos(math.Pi / 3 * float64(i))
			verts = append(verts, r3.Add(center, r3.Vec{X: radius * c, Y: radius * s, Z: z}))
		}
	}
	verts = append(verts,
		r3.Add(center, r3.Vec{Z: -hh}),
		r3.Add(center, r3.Vec{Z: hh}),
	)
	var faces [][3]int
	for i := 0; i < 6; i++ {
		faces = append(faces, [3]int{12, (i + 1) % 6, i})
	}
	for i := 0; i < 6; i++ {
		faces = append(faces, [3]int{13, i + 6, (i+1)%6 + 6})
	}
	for i := 0; i < 6; i++ {
		next := (i + 1) % 6
		faces = append(faces, [3]int{i, next, next + 6}, [3]int{i, next + 6, i + 6})
	}
	return &brane.Mesh{Vertices: verts, Faces: faces, Normals: brane.VertexNormals(verts, faces)}
}

// Pyramid returns a pyramid with a regular polygon base of the given number
// of sides resting on center. Many sides approximate a cone.
func Pyramid(baseRadius, height float64, sides int, center r3.Vec) *brane.Mesh {
	if baseRadius <= 0 || height <= 0 {
		panic("base radius and height must be positive")
	}
	if sides < 3 {
		panic("sides < 3")
	}
	verts := make([]r3.Vec, 0, sides+2)
	for i := 0; i < sides; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(sides))
		verts = append(verts, r3.Add(center, r3.Vec{X: baseRadius * c, Y: baseRadius * s}))
	}
	apex, base := sides, sides+1
	verts = append(verts, r3.Add(center, r3.Vec{Z: height}), center)
	faces := make([][3]int, 0, 2*sides)
	for i := 0; i < sides; i++ {
		faces = append(faces, [3]int{base, (i + 1) % sides, i})
	}
	for i := 0; i < sides; i++ {
		faces = append(faces, [3]int{i, (i + 1) % sides, apex})
	}
	return &brane.Mesh{Vertices: verts, Faces: faces, Normals: brane.VertexNormals(verts, faces)}
}

// HelixParms configures a helical tube.
type HelixParms struct {
	Radius          float64
	Height          float64
	Turns           int
	TubeRadius      float64
	SegmentsPerTurn int
	TubeSegments    int
}

// DefaultHelixParms returns a three turn helix of unit radius.
func DefaultHelixParms() HelixParms {
	return HelixParms{
		Radius:          1,
		Height:          3,
		Turns:           3,
		TubeRadius:      0.1,
		SegmentsPerTurn: 32,
		TubeSegments:    8,
	}
}

// Helix returns an open tube swept along a helix about the Z axis and
// centred on the origin.
func Helix(p HelixParms) *brane.Mesh {
	switch {
	case p.Radius <= 0 || p.Height <= 0 || p.TubeRadius <= 0:
		panic("helix radii and height must be positive")
	case p.Turns < 1:
		panic("turns < 1")
	case p.SegmentsPerTurn < 3 || p.TubeSegments < 3:
		panic("helix needs at least 3 segments per turn and tube segments")
	}
	total := p.Turns * p.SegmentsPerTurn
	sweep := 2 * math.Pi * float64(p.Turns)
	up := r3.Vec{Z: 1}
	verts := make([]r3.Vec, 0, (total+1)*p.TubeSegments)
	normals := make([]r3.Vec, 0, cap(verts))
	for i := 0; i <= total; i++ {
		t := float64(i) / float64(total)
		st, ct := math.Sincos(sweep * t)
		axis := r3.Vec{X: p.Radius * ct, Y: p.Radius * st, Z: p.Height*t - p.Height/2}
		tangent := r3.Unit(r3.Vec{X: -p.Radius * st * sweep, Y: p.Radius * ct * sweep, Z: p.Height})
		binormal := r3.Cross(tangent, up)
		if r3.Norm(binormal) < 0.1 {
			binormal = r3.Cross(tangent, r3.Vec{X: 1})
		}
		binormal = r3.Unit(binormal)
		normal := r3.Cross(binormal, tangent)
		for j := 0; j < p.TubeSegments; j++ {
			sp, cp := math.Sincos(2 * math.Pi * float64(j) / float64(p.TubeSegments))
			dir := r3.Add(r3.Scale(cp, binormal), r3.Scale(sp, normal))
			verts = append(verts, r3.Add(axis, r3.Scale(p.TubeRadius, dir)))
			normals = append(normals, dir)
		}
	}
	faces := make([][3]int, 0, 2*total*p.TubeSegments)
	for i := 0; i < total; i++ {
		for j := 0; j < p.TubeSegments; j++ {
			nj := (j + 1) % p.TubeSegments
			v0 := i*p.TubeSegments + j
			v1 := i*p.TubeSegments + nj
			v2 := (i+1)*p.TubeSegments + nj
			v3 := (i+1)*p.TubeSegments + j
			faces = append(faces, [3]int{v0, v2, v1}, [3]int{v0, v3, v2})
		}
	}
	return &brane.Mesh{Vertices: verts, Faces: faces, Normals: normals}
}
