// Package render converts meshes to triangle streams for STL export and
// draws preview images of them.
package render

import (
	"github.com/planebrane/brane"
	"github.com/planebrane/brane/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a triangle in 3D space.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle by the right hand rule.
// Degenerate triangles have a zero normal.
func (t Triangle3) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two vertices of the triangle are within tol of
// each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Renderer streams triangles. ReadTriangles returns io.EOF once exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangles returns the faces of m as triangles.
func Triangles(m *brane.Mesh) []Triangle3 {
	out := make([]Triangle3, len(m.Faces))
	for i := range m.Faces {
		out[i] = Triangle3{V: m.Triangle(i)}
	}
	return out
}

// Mesh builds an unwelded mesh from triangles, three vertices per face,
// with face normals.
func Mesh(tris []Triangle3) *brane.Mesh {
	m := &brane.Mesh{
		Vertices: make([]r3.Vec, 0, 3*len(tris)),
		Faces:    make([][3]int, len(tris)),
		Normals:  make([]r3.Vec, 0, 3*len(tris)),
	}
	for i, t := range tris {
		n := t.Normal()
		m.Faces[i] = [3]int{3 * i, 3*i + 1, 3*i + 2}
		m.Vertices = append(m.Vertices, t.V[:]...)
		m.Normals = append(m.Normals, n, n, n)
	}
	return m
}
