package render

import (
	"io"

	"github.com/planebrane/brane"
)

// RenderAll reads every triangle of a Renderer. Reaching io.EOF is not an
// error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var (
		out = make([]Triangle3, 0, 1<<12)
		buf = make([]Triangle3, 1024)
	)
	for {
		nt, err := r.ReadTriangles(buf)
		out = append(out, buf[:nt]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// NewMeshRenderer returns a Renderer that streams the faces of m in order
// without copying them up front.
func NewMeshRenderer(m *brane.Mesh) Renderer {
	return &faceCursor{mesh: m}
}

// faceCursor walks the faces of a mesh.
type faceCursor struct {
	mesh *brane.Mesh
	next int
}

func (c *faceCursor) ReadTriangles(t []Triangle3) (int, error) {
	remaining := c.mesh.FaceCount() - c.next
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := min(len(t), remaining)
	for i := 0; i < n; i++ {
		t[i] = Triangle3{V: c.mesh.Triangle(c.next + i)}
	}
	c.next += n
	return n, nil
}
