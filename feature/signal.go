package feature

import (
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// autocorrelation returns the circular autocorrelation of x with its mean
// removed, normalized so lag 0 is 1. It returns nil for a constant signal.
func autocorrelation(x []float64) []float64 {
	n := len(x)
	if n < 2 {
		return nil
	}
	mean := stat.Mean(x, nil)
	d := make([]float64, n)
	for i, v := range x {
		d[i] = v - mean
	}
	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, d)
	for i, c := range coeff {
		coeff[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	ac := fft.Sequence(nil, coeff)
	if ac[0] <= 1e-12 {
		return nil
	}
	zero := ac[0]
	for i := range ac {
		ac[i] /= zero
	}
	return ac
}

// findPeaks returns the indices of local maxima of x at least height high.
// When two peaks are closer than distance the lower one is dropped, the
// higher peaks being kept first. Indices are returned in ascending order.
func findPeaks(x []float64, height float64, distance int) []int {
	var cand []int
	for i := 1; i < len(x)-1; i++ {
		if x[i] > x[i-1] && x[i] >= x[i+1] && x[i] >= height {
			cand = append(cand, i)
		}
	}
	sort.SliceStable(cand, func(a, b int) bool { return x[cand[a]] > x[cand[b]] })
	var keep []int
	for _, c := range cand {
		ok := true
		for _, k := range keep {
			if abs(c-k) < distance {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, c)
		}
	}
	sort.Ints(keep)
	return keep
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
