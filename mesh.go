package brane

import (
	"errors"
	"fmt"

	"github.com/planebrane/brane/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh with per-vertex normals.
// Every face index is less than len(Vertices) and Normals has one entry per
// vertex. Normals are unit length except at degenerate points such as the
// collapsed poles of a spheroid, where they are the zero vector.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
	Normals  []r3.Vec
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Validate checks face indices, vertex and normal values and the normal count.
func (m *Mesh) Validate() error {
	if len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh has %d normals for %d vertices", len(m.Normals), len(m.Vertices))
	}
	for i, v := range m.Vertices {
		if !d3.IsFinite(v) {
			return fmt.Errorf("vertex %d is not finite: %v", i, v)
		}
	}
	for i, n := range m.Normals {
		if !d3.IsFinite(n) {
			return fmt.Errorf("normal %d is not finite: %v", i, n)
		}
	}
	nv := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= nv {
				return fmt.Errorf("face %d references vertex %d out of %d", i, idx, nv)
			}
		}
	}
	return nil
}

// Bounds returns the axis aligned bounding box of the vertices.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	return r3.Box(d3.Set(m.Vertices).Bounds())
}

// Triangle returns the three vertices of face i.
func (m *Mesh) Triangle(i int) [3]r3.Vec {
	f := m.Faces[i]
	return [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
		Normals:  append([]r3.Vec(nil), m.Normals...),
	}
}

// RecomputeNormals replaces the normals with VertexNormals of the current geometry.
func (m *Mesh) RecomputeNormals() {
	m.Normals = VertexNormals(m.Vertices, m.Faces)
}

// VertexNormals accumulates the unnormalized face normal (the edge cross
// product, proportional to face area) at each incident vertex and then
// normalizes. Vertices whose accumulated normal has zero length keep the
// zero vector.
func VertexNormals(vertices []r3.Vec, faces [][3]int) []r3.Vec {
	normals := make([]r3.Vec, len(vertices))
	for _, f := range faces {
		v0, v1, v2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		n := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
		normals[f[0]] = r3.Add(normals[f[0]], n)
		normals[f[1]] = r3.Add(normals[f[1]], n)
		normals[f[2]] = r3.Add(normals[f[2]], n)
	}
	for i, n := range normals {
		l := r3.Norm(n)
		if l == 0 {
			continue
		}
		normals[i] = r3.Scale(1/l, n)
	}
	return normals
}

// gridFaces triangulates a res×res vertex grid laid out row major, where
// row i holds the v coordinate and column j the u coordinate. Each cell
// yields (v0,v2,v1) and (v1,v2,v3).
func gridFaces(res int) [][3]int {
	faces := make([][3]int, 0, 2*(res-1)*(res-1))
	for i := 0; i < res-1; i++ {
		for j := 0; j < res-1; j++ {
			v0 := i*res + j
			v1 := v0 + 1
			v2 := (i+1)*res + j
			v3 := v2 + 1
			faces = append(faces, [3]int{v0, v2, v1}, [3]int{v1, v2, v3})
		}
	}
	return faces
}

// seamFaces connects the last grid column (u=1) back to the first (u=0).
func seamFaces(res int) [][3]int {
	faces := make([][3]int, 0, 2*(res-1))
	for i := 0; i < res-1; i++ {
		last := i*res + res - 1
		first := i * res
		nextLast := (i+1)*res + res - 1
		nextFirst := (i + 1) * res
		faces = append(faces, [3]int{last, nextLast, first}, [3]int{first, nextLast, nextFirst})
	}
	return faces
}

var errEmptyMesh = errors.New("empty mesh")
