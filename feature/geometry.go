package feature

import (
	"image"
	"math"
	"sort"

	"github.com/planebrane/brane"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

const (
	// edgeMagnitude is the Sobel gradient magnitude above which a pixel is
	// an edge. A full 0 to 1 step yields a magnitude of 4.
	edgeMagnitude = 1.0
	angleBins     = 18
	// A dominant angle holds at least this fraction of edge pixels.
	dominantShare = 0.1
	// Pixels brighter than contentLevel count as content for the bounding box.
	contentLevel = 10.0 / 255
)

// centroid returns the mean position of the set pixels of binary, or the
// matrix centre if none are set.
func centroid(binary *mat.Dense) r2.Vec {
	r, c := binary.Dims()
	var sx, sy, n float64
	for y := 0; y < r; y++ {
		for x, v := range binary.RawRowView(y) {
			if v > 0.5 {
				sx += float64(x)
				sy += float64(y)
				n++
			}
		}
	}
	if n == 0 {
		return r2.Vec{X: float64(c) / 2, Y: float64(r) / 2}
	}
	return r2.Vec{X: sx / n, Y: sy / n}
}

// concentricCircles finds bright rings around center from the mean
// intensity of each one pixel wide annulus.
func concentricCircles(m *mat.Dense, center r2.Vec) []float64 {
	r, _ := m.Dims()
	var sums, counts []float64
	for y := 0; y < r; y++ {
		for x, v := range m.RawRowView(y) {
			k := int(math.Hypot(float64(x)-center.X, float64(y)-center.Y))
			for len(sums) <= k {
				sums = append(sums, 0)
				counts = append(counts, 0)
			}
			sums[k] += v
			counts[k]++
		}
	}
	profile := make([]float64, len(sums))
	for k := range profile {
		if counts[k] > 0 {
			profile[k] = sums[k] / counts[k]
		}
	}
	if len(profile) < 3 {
		return nil
	}
	mean, std := stat.PopMeanStdDev(profile, nil)
	height := mean + 0.25*std
	var rings []float64
	last := -1
	for k := 2; k < len(profile)-1; k++ {
		p := profile[k]
		if !(p > profile[k-1] && p >= profile[k+1]) || p < height || p < 0.6 {
			continue
		}
		lo, hi := max(0, k-5), min(len(profile), k+6)
		floor := p
		for _, q := range profile[lo:hi] {
			floor = math.Min(floor, q)
		}
		if p-floor < 0.3 {
			continue
		}
		if last >= 0 && k-last < 3 {
			continue
		}
		rings = append(rings, float64(k))
		last = k
	}
	return rings
}

// repetitionFrequency counts the peaks of the autocorrelation of the row and
// column mean profiles and returns the larger count. Fewer than two peaks
// along an axis count as no repetition.
func repetitionFrequency(m *mat.Dense) int {
	r, c := m.Dims()
	rows := make([]float64, r)
	cols := make([]float64, c)
	for y := 0; y < r; y++ {
		for x, v := range m.RawRowView(y) {
			rows[y] += v / float64(c)
			cols[x] += v / float64(r)
		}
	}
	best := 0
	for _, profile := range [][]float64{rows, cols} {
		ac := autocorrelation(profile)
		if ac == nil {
			continue
		}
		if n := len(findPeaks(ac, 0.3, 10)); n >= 2 && n > best {
			best = n
		}
	}
	return best
}

// sobel returns the gradient components of m at interior pixel (y,x).
func sobel(m *mat.Dense, y, x int) (gx, gy float64) {
	at := m.At
	gx = at(y-1, x+1) + 2*at(y, x+1) + at(y+1, x+1) -
		at(y-1, x-1) - 2*at(y, x-1) - at(y+1, x-1)
	gy = at(y+1, x-1) + 2*at(y+1, x) + at(y+1, x+1) -
		at(y-1, x-1) - 2*at(y-1, x) - at(y-1, x+1)
	return gx, gy
}

// edgeMap finds edge pixels and the histogram of their gradient orientation
// modulo 180 degrees.
func edgeMap(m *mat.Dense) (edges []image.Point, hist [angleBins]int) {
	r, c := m.Dims()
	for y := 1; y < r-1; y++ {
		for x := 1; x < c-1; x++ {
			gx, gy := sobel(m, y, x)
			if math.Hypot(gx, gy) < edgeMagnitude {
				continue
			}
			edges = append(edges, image.Pt(x, y))
			deg := math.Mod(brane.RtoD(math.Atan2(gy, gx))+180, 180)
			hist[min(int(deg/(180/angleBins)), angleBins-1)]++
		}
	}
	return edges, hist
}

func dominantAngles(hist [angleBins]int, total int) []float64 {
	var out []float64
	for i, n := range hist {
		if total > 0 && float64(n) >= dominantShare*float64(total) {
			out = append(out, (float64(i)+0.5)*180/angleBins)
		}
	}
	return out
}

// components counts the 4-connected regions of set pixels in binary.
func components(binary *mat.Dense) int {
	r, c := binary.Dims()
	seen := make([]bool, r*c)
	offsets := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	count := 0
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			i0 := y*c + x
			if seen[i0] || binary.At(y, x) <= 0.5 {
				continue
			}
			count++
			seen[i0] = true
			queue := []int{i0}
			for qi := 0; qi < len(queue); qi++ {
				ux, uy := queue[qi]%c, queue[qi]/c
				for _, d := range offsets {
					vx, vy := ux+d[0], uy+d[1]
					if vx < 0 || vx >= c || vy < 0 || vy >= r {
						continue
					}
					vi := vy*c + vx
					if seen[vi] || binary.At(vy, vx) <= 0.5 {
						continue
					}
					seen[vi] = true
					queue = append(queue, vi)
				}
			}
		}
	}
	return count
}

// contentBounds returns the smallest rectangle holding every pixel brighter
// than contentLevel, or the full matrix if there is none.
func contentBounds(m *mat.Dense) image.Rectangle {
	r, c := m.Dims()
	box := image.Rectangle{}
	found := false
	for y := 0; y < r; y++ {
		for x, v := range m.RawRowView(y) {
			if v <= contentLevel {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
				continue
			}
			box = box.Union(px)
		}
	}
	if !found {
		return image.Rect(0, 0, c, r)
	}
	return box
}

// medianDistance returns the median distance of pts from center, zero for no points.
func medianDistance(pts []image.Point, center r2.Vec) float64 {
	if len(pts) == 0 {
		return 0
	}
	d := make([]float64, len(pts))
	for i, p := range pts {
		d[i] = math.Hypot(float64(p.X)-center.X, float64(p.Y)-center.Y)
	}
	sort.Float64s(d)
	n := len(d)
	if n%2 == 0 {
		return (d[n/2-1] + d[n/2]) / 2
	}
	return d[n/2]
}

// complexity combines edge density, component count and angle variety.
func complexity(edgeDensity float64, components, angles int) float64 {
	score := 0.3*math.Min(edgeDensity*10, 1) +
		0.4*math.Min(float64(components)/100, 1) +
		0.3*math.Min(float64(angles)/5, 1)
	return math.Round(score*1000) / 1000
}
