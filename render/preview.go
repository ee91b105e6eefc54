package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures a preview camera. The mesh is fit into a bi-unit cube
// centred on the origin before drawing.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// Output size in pixels.
	Width, Height int
	// Supersampling factor used for antialiasing.
	Scale int
	// Hex colors of the object and background.
	Color      string
	Background string
}

// DefaultView returns an isometric view of 768x432 pixels.
func DefaultView() View {
	return View{
		Up:         r3.Vec{Z: 1},
		Eye:        r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
		Near:       1,
		Far:        10,
		Width:      768,
		Height:     432,
		Scale:      2,
		Color:      "#468966",
		Background: "#FFF8E3",
	}
}

// Fauxgl converts m to a fauxgl mesh with flat face normals.
func Fauxgl(m *brane.Mesh) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(m.Faces))
	for i := range m.Faces {
		t := m.Triangle(i)
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t[0]), vec(t[1]), vec(t[2])))
	}
	return fauxgl.NewTriangleMesh(tris)
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }

// Preview draws m with a Phong shader as seen from view.
func Preview(m *brane.Mesh, view View) (image.Image, error) {
	if m.FaceCount() == 0 {
		return nil, errors.New("mesh has no faces")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := max(view.Scale, 1)
	const fovy = 30 // vertical field of view in degrees
	var (
		eye    = vec(view.Eye)
		center = vec(view.LookAt)
		up     = vec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	mesh := Fauxgl(m)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	img := context.Image()
	return resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear), nil
}

// PreviewPNG draws m and saves the image as a PNG file at path.
func PreviewPNG(m *brane.Mesh, path string, view View) error {
	img, err := Preview(m, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}
