package render_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/planebrane/brane/form3"
	"github.com/planebrane/brane/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta a normalized imgDelta parameter to describe how close the matching
// should be performed (imgDelta=0: perfect match, imgDelta=1, loose match)
const imgDelta = 0

func TestPreviewDeterministic(t *testing.T) {
	torus, err := form3.Torus(1, 0.3, 48, 16)
	if err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView()
	view.Width, view.Height = 192, 108
	encode := func() []byte {
		img, err := render.Preview(torus, view)
		if err != nil {
			t.Fatal(err)
		}
		if got := img.Bounds().Size(); got.X != view.Width || got.Y != view.Height {
			t.Fatalf("preview size %v, want %dx%d", got, view.Width, view.Height)
		}
		var b bytes.Buffer
		if err := png.Encode(&b, img); err != nil {
			t.Fatal(err)
		}
		return b.Bytes()
	}
	equal, err := cmpimg.EqualApprox("png", encode(), encode(), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("rendering the same mesh twice produced different images")
	}
}

func TestPreviewErrors(t *testing.T) {
	cube, err := form3.Cube(1, r3.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView()
	view.Width = 0
	if _, err := render.Preview(cube, view); err == nil {
		t.Error("expected error for zero width")
	}
	if m := render.Fauxgl(cube); len(m.Triangles) != cube.FaceCount() {
		t.Errorf("fauxgl mesh has %d triangles, want %d", len(m.Triangles), cube.FaceCount())
	}
}
