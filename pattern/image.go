// Package pattern turns pattern images into grayscale matrices and
// displacement grids.
package pattern

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"reflect"

	"github.com/nfnt/resize"
	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/mat"
)

// MaxDimension is the largest width or height kept after loading. Larger
// images are downsized preserving aspect ratio.
const MaxDimension = 1024

// Load decodes the PNG, JPEG or GIF image at path.
func Load(path string) (image.Image, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &brane.InputError{Op: "load", Reason: "could not open image", Err: err}
	}
	defer fp.Close()
	return Decode(fp)
}

// Decode reads an image and bounds it to MaxDimension.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &brane.InputError{Op: "decode", Reason: "could not decode image", Err: err}
	}
	if err := checkImage("decode", img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = resize.Thumbnail(MaxDimension, MaxDimension, img, resize.Bilinear)
	}
	return img, nil
}

// Gray converts img to a luminance matrix with values in [0,1]. Rows follow
// image Y and columns image X. A nil or empty image is an *brane.InputError.
func Gray(img image.Image) (*mat.Dense, error) {
	if err := checkImage("gray", img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	m := mat.NewDense(b.Dy(), b.Dx(), nil)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.RawRowView(y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			row[x-b.Min.X] = float64(g.Y) / math.MaxUint16
		}
	}
	return m, nil
}

// checkImage rejects nil images, including typed nil pointers, and images
// without pixels.
func checkImage(op string, img image.Image) error {
	if img == nil {
		return &brane.InputError{Op: op, Reason: "nil image"}
	}
	if v := reflect.ValueOf(img); v.Kind() == reflect.Pointer && v.IsNil() {
		return &brane.InputError{Op: op, Reason: "nil image"}
	}
	if img.Bounds().Empty() {
		return &brane.InputError{Op: op, Reason: "image has no pixels"}
	}
	return nil
}

// Normalize returns a copy of m linearly stretched to span [0,1].
// A constant matrix normalizes to zeros.
func Normalize(m *mat.Dense) *mat.Dense {
	lo, hi := mat.Min(m), mat.Max(m)
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	if hi == lo {
		return out
	}
	scale := 1 / (hi - lo)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - lo) * scale
	}, m)
	return out
}

// ValidateMatrix checks that m is a non-empty finite intensity matrix.
func ValidateMatrix(m *mat.Dense) error {
	if m == nil || m.IsEmpty() {
		return &brane.InputError{Op: "matrix", Reason: "matrix is empty"}
	}
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for _, v := range m.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &brane.InputError{Op: "matrix", Reason: "non-finite value"}
			}
		}
	}
	return nil
}
