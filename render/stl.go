package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary STL: an 80 byte header and a little endian uint32 facet count,
// followed by 50 byte facets holding the normal, three vertices and an
// unused attribute count.
const (
	stlHeaderSize     = 84
	stlFacetSize      = 50
	trianglesInBuffer = 1 << 10
	// normalTol is the largest distance between a stored facet normal and
	// the one computed from its vertices.
	normalTol = 5e-2
)

// ErrNormalMismatch reports stored facet normals that disagree with the
// vertex winding. Triangles returned alongside it are usable.
var ErrNormalMismatch = errors.New("stl: facet normal disagrees with vertex winding")

// CreateSTL streams the triangles of r into a binary STL file at path.
// The facet count is written once r is exhausted.
func CreateSTL(path string, r Renderer) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if _, err = fp.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return err
	}
	w := bufio.NewWriterSize(fp, stlFacetSize*trianglesInBuffer)
	var (
		buf   = make([]Triangle3, trianglesInBuffer)
		facet [stlFacetSize]byte
		count uint32
	)
	for {
		nt, rerr := r.ReadTriangles(buf)
		for _, t := range buf[:nt] {
			encodeFacet(facet[:], t)
			if _, err = w.Write(facet[:]); err != nil {
				return err
			}
		}
		count += uint32(nt)
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if _, err = fp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err = writeSTLHeader(fp, count); err != nil {
		return err
	}
	return fp.Close()
}

// SaveSTL writes the faces of m to a binary STL file at path.
func SaveSTL(path string, m *brane.Mesh) error {
	if m.FaceCount() == 0 {
		return errors.New("mesh has no faces")
	}
	return CreateSTL(path, NewMeshRenderer(m))
}

// WriteSTL writes model to w in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	bw := bufio.NewWriter(w)
	if err := writeSTLHeader(bw, uint32(len(model))); err != nil {
		return err
	}
	var facet [stlFacetSize]byte
	for _, t := range model {
		encodeFacet(facet[:], t)
		if _, err := bw.Write(facet[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeSTLHeader(w io.Writer, count uint32) error {
	var hdr [stlHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[80:], count)
	_, err := w.Write(hdr[:])
	return err
}

// ReadSTL reads the triangles of a binary STL stream. Facets with NaN or Inf
// values fail the read. Facets whose stored normal disagrees with their
// winding are kept and reported with an error wrapping ErrNormalMismatch.
// Degenerate facets carry no usable normal and are never reported.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	var hdr [stlHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr[80:])
	if count == 0 {
		return nil, errors.New("STL header declares no triangles")
	}
	var (
		br         = bufio.NewReader(r)
		out        = make([]Triangle3, 0, min(count, 1<<20))
		facet      [stlFacetSize]byte
		mismatched int
	)
	for i := 0; i < int(count); i++ {
		if _, err := io.ReadFull(br, facet[:]); err != nil {
			return nil, fmt.Errorf("STL facet %d/%d: %w", i+1, count, err)
		}
		normal, t, err := decodeFacet(facet[:])
		if err != nil {
			return nil, fmt.Errorf("STL facet %d/%d: %w", i+1, count, err)
		}
		if !normalAgrees(normal, t) {
			mismatched++
		}
		out = append(out, t)
	}
	if mismatched > 0 {
		return out, fmt.Errorf("%d/%d facets: %w", mismatched, count, ErrNormalMismatch)
	}
	return out, nil
}

func encodeFacet(b []byte, t Triangle3) {
	_ = b[stlFacetSize-1] // early bounds check
	n := t.Normal()
	for i, v := range [4]r3.Vec{n, t.V[0], t.V[1], t.V[2]} {
		putVec32(b[12*i:], v)
	}
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func putVec32(b []byte, v r3.Vec) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

func decodeFacet(b []byte) (normal r3.Vec, t Triangle3, err error) {
	_ = b[stlFacetSize-1] // early bounds check
	var f [12]float32
	for i := range f {
		f[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
		if math32.IsNaN(f[i]) || math32.IsInf(f[i], 0) {
			return normal, t, errors.New("inf/NaN value in facet")
		}
	}
	vec := func(k int) r3.Vec {
		return r3.Vec{X: float64(f[k]), Y: float64(f[k+1]), Z: float64(f[k+2])}
	}
	normal = vec(0)
	t.V = [3]r3.Vec{vec(3), vec(6), vec(9)}
	return normal, t, nil
}

// normalAgrees accepts a stored normal of either orientation and anything
// stored for a degenerate facet.
func normalAgrees(stored r3.Vec, t Triangle3) bool {
	calc := t.Normal()
	if r3.Norm2(calc) == 0 || r3.Norm2(stored) == 0 {
		return true
	}
	return r3.Norm(r3.Sub(stored, calc)) <= normalTol ||
		r3.Norm(r3.Add(stored, calc)) <= normalTol
}
