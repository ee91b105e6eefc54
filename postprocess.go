package brane

import (
	"math"

	"github.com/planebrane/brane/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis selects a coordinate axis for deformations.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Vec returns the unit vector of the axis.
func (a Axis) Vec() r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: 1}
	case AxisY:
		return r3.Vec{Y: 1}
	}
	return r3.Vec{Z: 1}
}

func (a Axis) of(v r3.Vec) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	return v.Z
}

// axisRange returns the minimum and maximum coordinate of vertices along axis.
// An empty slice yields (0,0).
func axisRange(vertices []r3.Vec, axis Axis) (lo, hi float64) {
	if len(vertices) == 0 {
		return 0, 0
	}
	set := d3.Set(vertices)
	return axis.of(set.Min()), axis.of(set.Max())
}

// Extrude displaces every vertex along its normal by (depth-1)/2.
// A depth of 1 leaves the mesh unchanged.
func Extrude(m *Mesh, depth float64) *Mesh {
	out := m.Clone()
	offset := (depth - 1) * 0.5
	if offset == 0 {
		return out
	}
	for i, n := range out.Normals {
		out.Vertices[i] = r3.Add(out.Vertices[i], r3.Scale(offset, n))
	}
	return out
}

// Subdivide splits every triangle into four through its edge midpoints,
// repeated levels times. Midpoints are shared between adjacent faces.
func Subdivide(m *Mesh, levels int) *Mesh {
	verts := append([]r3.Vec(nil), m.Vertices...)
	faces := append([][3]int(nil), m.Faces...)
	for l := 0; l < levels; l++ {
		verts, faces = subdivideOnce(verts, faces)
	}
	return newMesh(verts, faces)
}

type edge [2]int

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

func subdivideOnce(verts []r3.Vec, faces [][3]int) ([]r3.Vec, [][3]int) {
	mid := make(map[edge]int, len(faces)*3/2)
	midpoint := func(a, b int) int {
		e := makeEdge(a, b)
		if idx, ok := mid[e]; ok {
			return idx
		}
		idx := len(verts)
		verts = append(verts, r3.Scale(0.5, r3.Add(verts[a], verts[b])))
		mid[e] = idx
		return idx
	}
	out := make([][3]int, 0, 4*len(faces))
	for _, f := range faces {
		a := midpoint(f[0], f[1])
		b := midpoint(f[1], f[2])
		c := midpoint(f[2], f[0])
		out = append(out,
			[3]int{f[0], a, c},
			[3]int{a, f[1], b},
			[3]int{c, b, f[2]},
			[3]int{a, b, c},
		)
	}
	return verts, out
}

// Smooth applies Laplacian smoothing: each pass moves every vertex toward the
// mean of its neighbours by factor. Isolated vertices stay put.
func Smooth(m *Mesh, iterations int, factor float64) *Mesh {
	adj := adjacency(len(m.Vertices), m.Faces)
	cur := append([]r3.Vec(nil), m.Vertices...)
	next := make([]r3.Vec, len(cur))
	for it := 0; it < iterations; it++ {
		for i, nb := range adj {
			if len(nb) == 0 {
				next[i] = cur[i]
				continue
			}
			var sum r3.Vec
			for _, j := range nb {
				sum = r3.Add(sum, cur[j])
			}
			avg := r3.Scale(1/float64(len(nb)), sum)
			next[i] = r3.Add(r3.Scale(1-factor, cur[i]), r3.Scale(factor, avg))
		}
		cur, next = next, cur
	}
	return newMesh(cur, append([][3]int(nil), m.Faces...))
}

// adjacency returns the sorted unique neighbours of each vertex.
func adjacency(n int, faces [][3]int) [][]int {
	seen := make([]map[int]struct{}, n)
	for _, f := range faces {
		for i := 0; i < 3; i++ {
			v := f[i]
			if seen[v] == nil {
				seen[v] = make(map[int]struct{})
			}
			for j := 0; j < 3; j++ {
				if i != j {
					seen[v][f[j]] = struct{}{}
				}
			}
		}
	}
	adj := make([][]int, n)
	for i, s := range seen {
		for j := range s {
			adj[i] = append(adj[i], j)
		}
	}
	return adj
}

// Twist rotates each vertex about axis by angleStep radians per unit of
// distance from the centre of the mesh along that axis.
func Twist(m *Mesh, axis Axis, angleStep float64) *Mesh {
	out := m.Clone()
	lo, hi := axisRange(out.Vertices, axis)
	center := (lo + hi) / 2
	dir := axis.Vec()
	for i, v := range out.Vertices {
		rot := r3.NewRotation(angleStep*(axis.of(v)-center), dir)
		out.Vertices[i] = rot.Rotate(v)
	}
	out.RecomputeNormals()
	return out
}

// Taper scales the coordinates perpendicular to axis linearly from start at the
// axis minimum to end at the axis maximum.
func Taper(m *Mesh, axis Axis, start, end float64) *Mesh {
	out := m.Clone()
	lo, hi := axisRange(out.Vertices, axis)
	if hi == lo {
		return out
	}
	dir := axis.Vec()
	for i, v := range out.Vertices {
		t := (axis.of(v) - lo) / (hi - lo)
		s := Mix(start, end, t)
		along := r3.Scale(axis.of(v), dir)
		perp := r3.Sub(v, along)
		out.Vertices[i] = r3.Add(along, r3.Scale(s, perp))
	}
	out.RecomputeNormals()
	return out
}

// Bend curves the mesh along axis through a total of angle radians.
// The axis coordinate is bent into the neighbouring axis: Z and Y bend into X,
// X bends into Y.
func Bend(m *Mesh, axis Axis, angle float64) *Mesh {
	out := m.Clone()
	lo, hi := axisRange(out.Vertices, axis)
	if hi == lo || angle == 0 {
		return out
	}
	radius := (hi - lo) / angle
	for i, v := range out.Vertices {
		a := (axis.of(v) - lo) / (hi - lo) * angle
		along := lo + radius*math.Sin(a)
		shift := radius * (math.Cos(a) - 1)
		switch axis {
		case AxisZ:
			v.X += shift
			v.Z = along
		case AxisY:
			v.X += shift
			v.Y = along
		default:
			v.Y += shift
			v.X = along
		}
		out.Vertices[i] = v
	}
	out.RecomputeNormals()
	return out
}

// Hollow adds an inner shell offset thickness along the inverted normals with
// reversed winding, producing a wall of that thickness.
func Hollow(m *Mesh, thickness float64) (*Mesh, error) {
	if m.IsEmpty() {
		return nil, errEmptyMesh
	}
	n := len(m.Vertices)
	verts := make([]r3.Vec, 0, 2*n)
	verts = append(verts, m.Vertices...)
	for i, v := range m.Vertices {
		verts = append(verts, r3.Sub(v, r3.Scale(thickness, m.Normals[i])))
	}
	faces := make([][3]int, 0, 2*len(m.Faces))
	faces = append(faces, m.Faces...)
	for _, f := range m.Faces {
		faces = append(faces, [3]int{f[2] + n, f[1] + n, f[0] + n})
	}
	return newMesh(verts, faces), nil
}

// Simplify decimates the mesh for previews by keeping every k-th vertex, with
// k chosen so at most about maxVertices remain. Faces referencing a dropped
// vertex are discarded. Meshes already within the limit are returned as a copy.
func Simplify(m *Mesh, maxVertices int) *Mesh {
	if maxVertices <= 0 || len(m.Vertices) <= maxVertices {
		return m.Clone()
	}
	step := len(m.Vertices) / maxVertices
	if step < 2 {
		step = 2
	}
	remap := make([]int, len(m.Vertices))
	out := &Mesh{}
	for i := range m.Vertices {
		remap[i] = -1
		if i%step == 0 {
			remap[i] = len(out.Vertices)
			out.Vertices = append(out.Vertices, m.Vertices[i])
			out.Normals = append(out.Normals, m.Normals[i])
		}
	}
	for _, f := range m.Faces {
		a, b, c := remap[f[0]], remap[f[1]], remap[f[2]]
		if a < 0 || b < 0 || c < 0 {
			continue
		}
		out.Faces = append(out.Faces, [3]int{a, b, c})
	}
	return out
}
