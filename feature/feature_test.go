package feature

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

const size = 128

func draw(on func(x, y int) bool) *mat.Dense {
	m := mat.NewDense(size, size, nil)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if on(x, y) {
				m.Set(y, x, 1)
			}
		}
	}
	return m
}

func ringsPattern() *mat.Dense {
	return draw(func(x, y int) bool {
		d := math.Hypot(float64(x-size/2), float64(y-size/2))
		for r := 10.0; r <= 60; r += 10 {
			if math.Abs(d-r) <= 1 {
				return true
			}
		}
		return false
	})
}

func gridPattern() *mat.Dense {
	return draw(func(x, y int) bool {
		return x%16 == 7 || x%16 == 8 || y%16 == 7 || y%16 == 8
	})
}

func TestExtractRings(t *testing.T) {
	b, err := Default{}.Extract(ringsPattern())
	if err != nil {
		t.Fatal(err)
	}
	if !b.Symmetry.HasRotational {
		t.Error("rings should be rotationally symmetric")
	}
	// Rings centred on a pixel are exactly symmetric about the main diagonal.
	var diagonal bool
	for _, a := range b.Symmetry.ReflectionAxes {
		diagonal = diagonal || a == 45
	}
	if !diagonal {
		t.Errorf("reflection axes %v miss the diagonal", b.Symmetry.ReflectionAxes)
	}
	if len(b.ConcentricCircles) != 6 {
		t.Fatalf("found rings at %v, want 6", b.ConcentricCircles)
	}
	for i, r := range b.ConcentricCircles {
		if want := 10 * float64(i+1); math.Abs(r-want) > 2 {
			t.Errorf("ring %d at radius %g, want about %g", i, r, want)
		}
	}
	if b.Geometry.ComponentCount != 6 {
		t.Errorf("got %d components, want 6", b.Geometry.ComponentCount)
	}
	c := b.Geometry.Centroid
	if math.Abs(c.X-size/2) > 1 || math.Abs(c.Y-size/2) > 1 {
		t.Errorf("centroid %v is off centre", c)
	}
	if b.Symmetry.RotationalCenter != c {
		t.Errorf("rotational centre %v differs from centroid %v", b.Symmetry.RotationalCenter, c)
	}
}

func TestExtractGrid(t *testing.T) {
	b, err := Default{}.Extract(gridPattern())
	if err != nil {
		t.Fatal(err)
	}
	if b.Geometry.RepetitionFrequency != 7 {
		t.Errorf("got repetition frequency %d, want 7", b.Geometry.RepetitionFrequency)
	}
	if b.Geometry.ComponentCount != 1 {
		t.Errorf("got %d components, want 1", b.Geometry.ComponentCount)
	}
	if !b.Symmetry.HasReflectional {
		t.Error("grid should be mirror symmetric")
	}
	var horizontal, vertical bool
	for _, a := range b.Geometry.DominantAngles {
		horizontal = horizontal || a < 10
		vertical = vertical || math.Abs(a-90) < 10
	}
	if !horizontal || !vertical {
		t.Errorf("dominant angles %v miss an axis", b.Geometry.DominantAngles)
	}
	if b.Geometry.EdgeDensity <= 0 || b.Geometry.EdgeDensity > 1 {
		t.Errorf("edge density %g", b.Geometry.EdgeDensity)
	}
	if b.Geometry.BoundingBox != image.Rect(0, 0, size, size) {
		t.Errorf("bounding box %v", b.Geometry.BoundingBox)
	}
}

func TestExtractErrors(t *testing.T) {
	_, err := Default{}.Extract(mat.NewDense(1, 1, []float64{math.Inf(1)}))
	if !errors.Is(err, brane.ErrInput) {
		t.Errorf("got %v, want ErrInput", err)
	}
	b, err := Default{}.Extract(mat.NewDense(16, 16, nil))
	if err != nil {
		t.Fatal(err)
	}
	if b.Symmetry.HasRotational || b.Radial.IsRadial || len(b.ConcentricCircles) != 0 {
		t.Errorf("blank image has features: %+v", b)
	}
}

func TestFindPeaks(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0, 0.5, 0}
	if got := findPeaks(x, 0.6, 1); !equalInts(got, []int{1, 3}) {
		t.Errorf("got %v, want [1 3]", got)
	}
	if got := findPeaks(x, 0.6, 3); !equalInts(got, []int{3}) {
		t.Errorf("got %v, want [3]", got)
	}
	if got := findPeaks(x, 0, 1); !equalInts(got, []int{1, 3, 5}) {
		t.Errorf("got %v, want [1 3 5]", got)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAutocorrelation(t *testing.T) {
	if ac := autocorrelation([]float64{3, 3, 3, 3}); ac != nil {
		t.Errorf("constant signal gave %v", ac)
	}
	x := make([]float64, 64)
	for i := range x {
		if i%8 < 2 {
			x[i] = 1
		}
	}
	ac := autocorrelation(x)
	if math.Abs(ac[0]-1) > 1e-9 || math.Abs(ac[8]-1) > 1e-9 {
		t.Errorf("got ac[0]=%g ac[8]=%g, want 1", ac[0], ac[8])
	}
	if ac[4] >= 0 {
		t.Errorf("half period lag should anticorrelate, got %g", ac[4])
	}
}

func TestComponents(t *testing.T) {
	m := mat.NewDense(5, 5, []float64{
		1, 1, 0, 0, 0,
		1, 0, 0, 1, 0,
		0, 0, 0, 1, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 0, 1,
	})
	// Diagonal neighbours are not connected.
	if got := components(m); got != 4 {
		t.Errorf("got %d components, want 4", got)
	}
	if got := components(mat.NewDense(3, 3, nil)); got != 0 {
		t.Errorf("empty image has %d components", got)
	}
}

func TestSimilarityAndRotate(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	if s := similarity(m, m); math.Abs(s-1) > 1e-12 {
		t.Errorf("self similarity %g", s)
	}
	var neg mat.Dense
	neg.Scale(-1, m)
	if s := similarity(m, &neg); s > 1e-12 {
		t.Errorf("negated similarity %g", s)
	}
	if s := similarity(m, mat.NewDense(3, 3, nil)); s != 0 {
		t.Errorf("similarity to constant %g", s)
	}
	rot := rotate(m, r2.Vec{X: 1, Y: 1}, 90)
	if rot.At(0, 0) != m.At(2, 0) || rot.At(1, 1) != m.At(1, 1) || rot.At(0, 2) != m.At(0, 0) {
		t.Errorf("quarter turn gave\n%v", mat.Formatted(rot))
	}
	sym := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		1, 1, 1,
		0, 1, 0,
	})
	if axes := reflectionAxes(sym, 0.99); len(axes) != 4 {
		t.Errorf("cross has mirror axes %v, want 4", axes)
	}
}

func TestGeometryHelpers(t *testing.T) {
	if got := complexity(0.05, 10, 2); math.Abs(got-0.31) > 1e-12 {
		t.Errorf("complexity %g, want 0.31", got)
	}
	if got := complexity(1, 1000, 18); got != 1 {
		t.Errorf("saturated complexity %g, want 1", got)
	}
	pts := []image.Point{{X: 1}, {X: 3}, {X: 2}}
	if got := medianDistance(pts, r2.Vec{}); got != 2 {
		t.Errorf("median distance %g, want 2", got)
	}
	pts = append(pts, image.Point{X: 6})
	if got := medianDistance(pts, r2.Vec{}); got != 2.5 {
		t.Errorf("even median distance %g, want 2.5", got)
	}
	if got := medianDistance(nil, r2.Vec{}); got != 0 {
		t.Errorf("median distance of nothing %g", got)
	}
	m := mat.NewDense(6, 8, nil)
	m.Set(2, 3, 1)
	m.Set(4, 5, 0.5)
	if got, want := contentBounds(m), image.Rect(3, 2, 6, 5); got != want {
		t.Errorf("content bounds %v, want %v", got, want)
	}
	if got := contentBounds(mat.NewDense(2, 3, nil)); got != image.Rect(0, 0, 3, 2) {
		t.Errorf("empty content bounds %v", got)
	}
}
