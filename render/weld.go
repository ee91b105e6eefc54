package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld builds an indexed mesh from triangles such as those read from an STL
// file, sharing vertices that fall in the same cell of a grid of spacing tol.
// Vertex normals are the face normals weighted by the opening angle of each
// face at the vertex. A tol of 0 is inferred from the shortest edge.
func Weld(triangles []Triangle3, tol float64) (*brane.Mesh, error) {
	if len(triangles) == 0 {
		return nil, errors.New("no triangles to weld")
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for _, tri := range triangles {
		for j, vert := range tri.V {
			bb = bb.Include(vert)
			side2 := r3.Norm2(r3.Sub(tri.V[(j+1)%3], vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 {
		return nil, errors.New("degenerate triangles: cannot infer vertex tolerance")
	}
	size := bb.Size()
	div := d3.Max(size) / tol
	if div > math.MaxInt64/2 {
		return nil, errors.New("tolerance too small. overflowed int64")
	}
	m := &brane.Mesh{Faces: make([][3]int, len(triangles))}
	// vertex index cache
	cache := make(map[[3]int64]int)
	ri := 1 / tol
	for i, tri := range triangles {
		norm := tri.Normal()
		for j, vert := range tri.V {
			// Scale vert to be integer in resolution-space.
			v := r3.Scale(ri, vert)
			key := [3]int64{int64(math.Floor(v.X)), int64(math.Floor(v.Y)), int64(math.Floor(v.Z))}
			idx, ok := cache[key]
			if !ok {
				idx = len(m.Vertices)
				cache[key] = idx
				m.Vertices = append(m.Vertices, vert)
				m.Normals = append(m.Normals, r3.Vec{})
			}
			s1, s2 := r3.Sub(vert, tri.V[(j+1)%3]), r3.Sub(vert, tri.V[(j+2)%3])
			if alpha := openingAngle(s1, s2); alpha > 0 {
				m.Normals[idx] = r3.Add(m.Normals[idx], r3.Scale(alpha, norm))
			}
			m.Faces[i][j] = idx
		}
	}
	for i, n := range m.Normals {
		if l := r3.Norm(n); l > 0 {
			m.Normals[i] = r3.Scale(1/l, n)
		}
	}
	return m, nil
}

// openingAngle returns the angle between a and b, zero if either is zero.
func openingAngle(a, b r3.Vec) float64 {
	la, lb := r3.Norm(a), r3.Norm(b)
	if la == 0 || lb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
