package render_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/form3"
	"github.com/planebrane/brane/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLCreateWriteRead(t *testing.T) {
	sphere, err := form3.Icosphere(1, 2, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sphere.stl")
	err = render.CreateSTL(path, render.NewMeshRenderer(sphere))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewMeshRenderer(sphere))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != sphere.FaceCount() {
		t.Fatalf("rendered %d triangles, want %d", len(model), sphere.FaceCount())
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+50*len(model) {
		t.Fatalf("unexpected STL size %d", b.Len())
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestSTLReadback(t *testing.T) {
	const tol = 1e-6
	cube, err := form3.Cube(2, r3.Vec{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	input := render.Triangles(cube)
	var b bytes.Buffer
	if err := render.WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	output, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	for iface, expect := range input {
		got := output[iface]
		if got.Degenerate(1e-12) {
			t.Fatalf("triangle degenerate: %+v", got)
		}
		for i := range expect.V {
			if r3.Norm(r3.Sub(got.V[i], expect.V[i])) > tol {
				t.Errorf("%dth triangle vertex %d: got %v, want %v", iface, i, got.V[i], expect.V[i])
			}
		}
	}
	m := render.Mesh(output)
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 3*len(output) {
		t.Errorf("unwelded mesh has %d vertices, want %d", m.VertexCount(), 3*len(output))
	}
}

func TestSTLReadErrors(t *testing.T) {
	_, err := render.ReadSTL(bytes.NewReader(make([]byte, 10)))
	if err == nil {
		t.Error("expected error for truncated header")
	}
	_, err = render.ReadSTL(bytes.NewReader(make([]byte, 84)))
	if err == nil {
		t.Error("expected error for zero triangle count")
	}
	if err := render.WriteSTL(io.Discard, nil); err == nil {
		t.Error("expected error writing no triangles")
	}
	if err := render.SaveSTL(filepath.Join(t.TempDir(), "empty.stl"), &brane.Mesh{}); err == nil {
		t.Error("expected error saving empty mesh")
	}

	var b bytes.Buffer
	tri := render.Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}
	if err := render.WriteSTL(&b, []render.Triangle3{tri}); err != nil {
		t.Fatal(err)
	}
	raw := b.Bytes()
	// Store (1,0,0) as the normal of a triangle facing +Z.
	binary.LittleEndian.PutUint32(raw[84:], math.Float32bits(1))
	binary.LittleEndian.PutUint32(raw[92:], 0)
	tris, err := render.ReadSTL(bytes.NewReader(raw))
	if !errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("expected normal mismatch, got %v", err)
	}
	if len(tris) != 1 {
		t.Errorf("mismatched facets should still be returned, got %d", len(tris))
	}
	binary.LittleEndian.PutUint32(raw[96:], math.Float32bits(float32(math.NaN())))
	_, err = render.ReadSTL(bytes.NewReader(raw))
	if err == nil || errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("expected NaN vertex error, got %v", err)
	}
	_, err = render.ReadSTL(bytes.NewReader(raw[:120]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected truncated facet error, got %v", err)
	}
}

func TestSurfaceSTL(t *testing.T) {
	grid := brane.ZeroGrid(16, 16)
	for _, family := range brane.Families() {
		m, err := brane.GenerateSurface(grid, family, brane.DefaultSteering(), 16, 1)
		if err != nil {
			t.Fatal(err)
		}
		var b bytes.Buffer
		if err := render.WriteSTL(&b, render.Triangles(m)); err != nil {
			t.Fatalf("%s: %v", family, err)
		}
		if b.Len() != 84+50*m.FaceCount() {
			t.Errorf("%s: STL size %d for %d faces", family, b.Len(), m.FaceCount())
		}
	}
}

func TestWeldSTL(t *testing.T) {
	cube, err := form3.Cube(2, r3.Vec{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, render.Triangles(cube)); err != nil {
		t.Fatal(err)
	}
	tris, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	welded, err := render.Weld(tris, 0)
	if err != nil {
		t.Fatal(err)
	}
	if welded.VertexCount() != 8 || welded.FaceCount() != 12 {
		t.Fatalf("welded cube has %d vertices and %d faces, want 8 and 12", welded.VertexCount(), welded.FaceCount())
	}
	if err := welded.Validate(); err != nil {
		t.Fatal(err)
	}
	center := r3.Vec{X: 1}
	for i, n := range welded.Normals {
		// Corner normals point away from the cube centre.
		if r3.Dot(n, r3.Sub(welded.Vertices[i], center)) <= 0 {
			t.Errorf("vertex %d normal %v points inward", i, n)
		}
	}
	if _, err := render.Weld(nil, 0); err == nil {
		t.Error("expected error welding no triangles")
	}
}

func TestWeldSphere(t *testing.T) {
	sphere, err := form3.Icosphere(1, 2, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	welded, err := render.Weld(render.Triangles(sphere), 0)
	if err != nil {
		t.Fatal(err)
	}
	if welded.VertexCount() != sphere.VertexCount() {
		t.Errorf("welded sphere has %d vertices, want %d", welded.VertexCount(), sphere.VertexCount())
	}
}
