package pattern

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ThresholdMethod selects how a grayscale matrix is binarized.
type ThresholdMethod int

const (
	// ThresholdOtsu picks the threshold maximizing between-class variance.
	ThresholdOtsu ThresholdMethod = iota
	// ThresholdFixed uses the caller supplied threshold value.
	ThresholdFixed
	// ThresholdAdaptive compares every pixel to the mean of its neighbourhood.
	ThresholdAdaptive
)

var thresholdNames = []string{
	ThresholdOtsu:     "otsu",
	ThresholdFixed:    "binary",
	ThresholdAdaptive: "adaptive",
}

func (t ThresholdMethod) String() string {
	if t < 0 || int(t) >= len(thresholdNames) {
		return fmt.Sprintf("ThresholdMethod(%d)", int(t))
	}
	return thresholdNames[t]
}

// ParseThresholdMethod parses "otsu", "binary" or "adaptive".
func ParseThresholdMethod(s string) (ThresholdMethod, error) {
	for i, name := range thresholdNames {
		if name == s {
			return ThresholdMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown threshold method %q", s)
}

const histogramBins = 256

// OtsuThreshold returns the threshold in [0,1] separating the two intensity
// classes of m with maximum between-class variance. Pixels strictly above
// the threshold belong to the bright class.
func OtsuThreshold(m *mat.Dense) float64 {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for _, v := range m.RawRowView(i) {
			data = append(data, math.Max(0, math.Min(1, v)))
		}
	}
	sort.Float64s(data)
	dividers := make([]float64, histogramBins+1)
	floats.Span(dividers, 0, 1+1e-9)
	hist := stat.Histogram(nil, dividers, data, nil)

	total := float64(len(data))
	var sumAll float64
	for i, h := range hist {
		sumAll += float64(i) * h
	}
	var (
		wB, sumB float64
		best     = -1.0
		bestT    int
	)
	for t, h := range hist {
		wB += h
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * h
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestT = t
		}
	}
	return (float64(bestT) + 1) / histogramBins
}

// Binarize returns a matrix of ones where m is above threshold and zeros
// elsewhere. With invert the classes are swapped, useful for dark lines drawn
// on a light background.
func Binarize(m *mat.Dense, threshold float64, invert bool) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		if (v > threshold) != invert {
			return 1
		}
		return 0
	}, m)
	return out
}

// AdaptiveBinarize thresholds each pixel against the mean of the
// (2·radius+1)² window around it minus offset.
func AdaptiveBinarize(m *mat.Dense, radius int, offset float64, invert bool) *mat.Dense {
	r, c := m.Dims()
	// Summed area table with a zero border row and column.
	sat := mat.NewDense(r+1, c+1, nil)
	for i := 0; i < r; i++ {
		var rowSum float64
		for j := 0; j < c; j++ {
			rowSum += m.At(i, j)
			sat.Set(i+1, j+1, sat.At(i, j+1)+rowSum)
		}
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		i0, i1 := max(0, i-radius), min(r, i+radius+1)
		for j := 0; j < c; j++ {
			j0, j1 := max(0, j-radius), min(c, j+radius+1)
			sum := sat.At(i1, j1) - sat.At(i0, j1) - sat.At(i1, j0) + sat.At(i0, j0)
			mean := sum / float64((i1-i0)*(j1-j0))
			if (m.At(i, j) > mean-offset) != invert {
				out.Set(i, j, 1)
			}
		}
	}
	return out
}

// DistanceFalloff turns a binary line image into a soft field: 1 on line
// pixels falling linearly to 0 at radius pixels away from the nearest line.
func DistanceFalloff(binary *mat.Dense, radius int) *mat.Dense {
	r, c := binary.Dims()
	out := mat.NewDense(r, c, nil)
	if radius <= 0 {
		out.Copy(binary)
		return out
	}
	rad := float64(radius)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			best := math.Inf(1)
			for di := -radius; di <= radius; di++ {
				ii := i + di
				if ii < 0 || ii >= r {
					continue
				}
				for dj := -radius; dj <= radius; dj++ {
					jj := j + dj
					if jj < 0 || jj >= c || binary.At(ii, jj) <= 0.5 {
						continue
					}
					if d := math.Hypot(float64(di), float64(dj)); d < best {
						best = d
					}
				}
			}
			out.Set(i, j, 1-math.Min(best/rad, 1))
		}
	}
	return out
}

// GaussianBlur convolves m with a separable Gaussian kernel of standard
// deviation sigma, clamping at the borders.
func GaussianBlur(m *mat.Dense, sigma float64) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	if sigma <= 0 {
		out.Copy(m)
		return out
	}
	half := int(math.Ceil(4 * sigma))
	kernel := make([]float64, 2*half+1)
	for k := range kernel {
		x := float64(k - half)
		kernel[k] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	tmp := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			var s float64
			for k, w := range kernel {
				s += w * m.At(i, clampInt(j+k-half, 0, c-1))
			}
			tmp.Set(i, j, s)
		}
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			var s float64
			for k, w := range kernel {
				s += w * tmp.At(clampInt(i+k-half, 0, r-1), j)
			}
			out.Set(i, j, s)
		}
	}
	return out
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
