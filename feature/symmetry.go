package feature

import (
	"math"

	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

var rotationAngles = []int{30, 45, 60, 72, 90, 120, 180}

// similarity maps the Pearson correlation of two equally sized matrices to
// [0,1]. Matrices without variance have similarity 0.
func similarity(a, b *mat.Dense) float64 {
	x, y := flatten(a), flatten(b)
	if stat.StdDev(x, nil) < 1e-8 || stat.StdDev(y, nil) < 1e-8 {
		return 0
	}
	c := stat.Correlation(x, y, nil)
	return math.Max(0, math.Min(1, (c+1)/2))
}

func flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

// rotate returns m rotated by deg degrees about center using nearest
// neighbour sampling. Pixels mapped from outside m are zero.
func rotate(m *mat.Dense, center r2.Vec, deg float64) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	sin, cos := math.Sincos(brane.DtoR(deg))
	for y := 0; y < r; y++ {
		dy := float64(y) - center.Y
		for x := 0; x < c; x++ {
			dx := float64(x) - center.X
			sx := int(math.Floor(center.X + cos*dx + sin*dy + 0.5))
			sy := int(math.Floor(center.Y - sin*dx + cos*dy + 0.5))
			if sx < 0 || sx >= c || sy < 0 || sy >= r {
				continue
			}
			out.Set(y, x, m.At(sy, sx))
		}
	}
	return out
}

// rotationalSymmetry tests every angle of rotationAngles and keeps the first
// best match.
func rotationalSymmetry(m *mat.Dense, center r2.Vec, threshold float64) (order int, best float64) {
	for _, angle := range rotationAngles {
		s := similarity(m, rotate(m, center, float64(angle)))
		if s > best {
			best = s
			order = 360 / angle
		}
	}
	if best < threshold {
		order = 0
	}
	return order, best
}

// mirror maps a destination pixel to its source pixel under a reflection.
type mirror struct {
	axis float64
	src  func(y, x int) (int, int)
}

// reflectionAxes returns the mirror axes whose reflection matches m.
// Diagonal axes are only tested on square matrices.
func reflectionAxes(m *mat.Dense, threshold float64) []float64 {
	r, c := m.Dims()
	mirrors := []mirror{
		{0, func(y, x int) (int, int) { return r - 1 - y, x }},
		{90, func(y, x int) (int, int) { return y, c - 1 - x }},
	}
	if r == c {
		mirrors = append(mirrors,
			mirror{45, func(y, x int) (int, int) { return x, y }},
			mirror{135, func(y, x int) (int, int) { return c - 1 - x, r - 1 - y }},
		)
	}
	var axes []float64
	for _, mr := range mirrors {
		flipped := mat.NewDense(r, c, nil)
		for y := 0; y < r; y++ {
			for x := 0; x < c; x++ {
				sy, sx := mr.src(y, x)
				flipped.Set(y, x, m.At(sy, sx))
			}
		}
		if similarity(m, flipped) >= threshold {
			axes = append(axes, mr.axis)
		}
	}
	return axes
}

// radialPattern averages 360 rays cast from center and counts the arms from
// the peaks of the angular autocorrelation.
func radialPattern(m *mat.Dense, center r2.Vec) Radial {
	r, c := m.Dims()
	maxR := int(math.Min(math.Min(center.X, center.Y), math.Min(float64(c)-center.X, float64(r)-center.Y)))
	if maxR < 10 {
		return Radial{}
	}
	const rays = 360
	profile := make([]float64, rays)
	for k := range profile {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / rays)
		var sum float64
		var n int
		for rad := 1; rad < maxR; rad++ {
			x := int(math.Floor(center.X + float64(rad)*cos))
			y := int(math.Floor(center.Y + float64(rad)*sin))
			if x < 0 || x >= c || y < 0 || y >= r {
				continue
			}
			sum += m.At(y, x)
			n++
		}
		if n > 0 {
			profile[k] = sum / float64(n)
		}
	}
	ac := autocorrelation(profile)
	if ac == nil {
		return Radial{}
	}
	peaks := findPeaks(ac, 0.5, 10)
	if len(peaks) == 0 {
		return Radial{}
	}
	arms := len(peaks) + 1
	return Radial{IsRadial: arms >= 2, NumArms: arms, Periodicity: 360 / arms}
}
