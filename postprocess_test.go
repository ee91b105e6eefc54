package brane

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func triangleMesh() *Mesh {
	return newMesh(
		[]r3.Vec{{}, {X: 1}, {Y: 1}},
		[][3]int{{0, 1, 2}},
	)
}

func quadMesh() *Mesh {
	return newMesh(
		[]r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		gridFaces(2),
	)
}

func faceNormal(t [3]r3.Vec) r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

func sameVertices(t *testing.T, got, want *Mesh, tol float64) {
	t.Helper()
	if len(got.Vertices) != len(want.Vertices) {
		t.Fatalf("got %d vertices, want %d", len(got.Vertices), len(want.Vertices))
	}
	for i := range want.Vertices {
		if d := r3.Norm(r3.Sub(got.Vertices[i], want.Vertices[i])); d > tol {
			t.Fatalf("vertex %d moved by %g: %v -> %v", i, d, want.Vertices[i], got.Vertices[i])
		}
	}
}

func torusMesh(t *testing.T) *Mesh {
	t.Helper()
	m, err := GenerateSurface(ZeroGrid(2, 2), Toroidal, DefaultSteering(), 32, 1)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestExtrude(t *testing.T) {
	m := torusMesh(t)
	sameVertices(t, Extrude(m, 1), m, 0)
	thick := Extrude(m, 1.5)
	for i, v := range thick.Vertices {
		want := r3.Add(m.Vertices[i], r3.Scale(0.25, m.Normals[i]))
		if r3.Norm(r3.Sub(v, want)) > 1e-12 {
			t.Fatalf("vertex %d: got %v, want %v", i, v, want)
		}
	}
}

func TestSubdivide(t *testing.T) {
	tri := Subdivide(triangleMesh(), 1)
	if tri.VertexCount() != 6 || tri.FaceCount() != 4 {
		t.Errorf("triangle subdivided to %d vertices and %d faces", tri.VertexCount(), tri.FaceCount())
	}
	quad := Subdivide(quadMesh(), 1)
	if quad.VertexCount() != 9 || quad.FaceCount() != 8 {
		t.Errorf("quad subdivided to %d vertices and %d faces", quad.VertexCount(), quad.FaceCount())
	}
	twice := Subdivide(quadMesh(), 2)
	if twice.FaceCount() != 32 || twice.VertexCount() != 25 {
		t.Errorf("quad subdivided twice to %d vertices and %d faces", twice.VertexCount(), twice.FaceCount())
	}
	if err := twice.Validate(); err != nil {
		t.Fatal(err)
	}
	// Subdivision keeps the face orientation.
	base := faceNormal(quadMesh().Triangle(0))
	for i := range twice.Faces {
		if n := faceNormal(twice.Triangle(i)); r3.Dot(n, base) <= 0 {
			t.Fatalf("face %d flipped: %v", i, n)
		}
	}
}

func TestSmoothFlat(t *testing.T) {
	m := PlanarReliefSurface(ZeroGrid(4, 4), DefaultSteering(), 8, 1)
	s := Smooth(m, 5, 0.5)
	for i, v := range s.Vertices {
		if v.Z != 0 {
			t.Fatalf("vertex %d left the plane: %v", i, v)
		}
	}
	sameVertices(t, Smooth(m, 0, 0.5), m, 0)
}

func TestTwistKeepsAxisDistance(t *testing.T) {
	m := torusMesh(t)
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		tw := Twist(m, axis, DtoR(30))
		for i, v := range tw.Vertices {
			o := m.Vertices[i]
			along := axis.of(o)
			perpO := r3.Sub(o, r3.Scale(along, axis.Vec()))
			perpV := r3.Sub(v, r3.Scale(axis.of(v), axis.Vec()))
			if math.Abs(axis.of(v)-along) > 1e-12 {
				t.Fatalf("axis %d: vertex %d moved along the axis", axis, i)
			}
			if math.Abs(r3.Norm(perpO)-r3.Norm(perpV)) > 1e-9 {
				t.Fatalf("axis %d: vertex %d changed distance from the axis", axis, i)
			}
		}
	}
}

func TestTaperAndBendIdentity(t *testing.T) {
	m := torusMesh(t)
	sameVertices(t, Taper(m, AxisZ, 1, 1), m, 1e-12)
	sameVertices(t, Bend(m, AxisZ, 0), m, 0)

	tp := Taper(m, AxisZ, 0.5, 0.5)
	for i, v := range tp.Vertices {
		o := m.Vertices[i]
		if math.Abs(v.X-o.X/2) > 1e-12 || math.Abs(v.Y-o.Y/2) > 1e-12 || v.Z != o.Z {
			t.Fatalf("taper vertex %d: %v from %v", i, v, o)
		}
	}

	// Bending a straight segment by a quarter turn keeps its length.
	line := newMesh([]r3.Vec{{}, {Z: 0.5}, {Z: 1}}, [][3]int{{0, 1, 2}})
	b := Bend(line, AxisZ, math.Pi/2)
	r := 1 / (math.Pi / 2)
	end := b.Vertices[2]
	if !EqualFloat64(end.Z, r, 1e-12) || !EqualFloat64(end.X, -r, 1e-12) {
		t.Errorf("bent end at %v, want (%g, 0, %g)", end, -r, r)
	}
}

func TestHollow(t *testing.T) {
	m := torusMesh(t)
	h, err := Hollow(m, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if h.VertexCount() != 2*m.VertexCount() || h.FaceCount() != 2*m.FaceCount() {
		t.Errorf("hollow has %d vertices and %d faces", h.VertexCount(), h.FaceCount())
	}
	n := m.VertexCount()
	for i := range m.Vertices {
		if d := r3.Norm(r3.Sub(h.Vertices[i], h.Vertices[i+n])); !EqualFloat64(d, 0.05, 1e-12) {
			t.Fatalf("wall at vertex %d is %g thick", i, d)
		}
	}
	if _, err := Hollow(&Mesh{}, 0.1); !errors.Is(err, errEmptyMesh) {
		t.Errorf("expected empty mesh error, got %v", err)
	}
}

func TestSimplify(t *testing.T) {
	m := torusMesh(t)
	s := Simplify(m, 100)
	if s.VertexCount() != 103 {
		t.Errorf("simplified to %d vertices, want 103", s.VertexCount())
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	same := Simplify(m, 0)
	if same.VertexCount() != m.VertexCount() || same.FaceCount() != m.FaceCount() {
		t.Error("maxVertices 0 should keep the mesh")
	}
}

func TestMeshValidate(t *testing.T) {
	m := triangleMesh()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := m.Clone()
	bad.Faces[0][2] = 3
	if err := bad.Validate(); err == nil {
		t.Error("out of range face index validated")
	}
	bad = m.Clone()
	bad.Vertices[1].Y = math.Inf(-1)
	if err := bad.Validate(); err == nil {
		t.Error("infinite vertex validated")
	}
	box := quadMesh().Bounds()
	if box.Min != (r3.Vec{}) || box.Max != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("bounds %v", box)
	}
}
