package brane

import (
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// DisplacementGrid is a 2D field of intensity samples, semantically in [0,1],
// that drives per-vertex height or radius perturbation. Rows index the v
// parametric coordinate and columns index u. A grid is independent of mesh
// resolution.
type DisplacementGrid struct {
	m *mat.Dense
}

// NewDisplacementGrid copies rows into a grid. Rows must be non-empty,
// rectangular and finite.
func NewDisplacementGrid(rows [][]float64) (DisplacementGrid, error) {
	const op = "displacement grid"
	if len(rows) == 0 || len(rows[0]) == 0 {
		return DisplacementGrid{}, inputErr(op, "grid is empty")
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return DisplacementGrid{}, inputErr(op, "row %d has %d columns, want %d", i, len(row), c)
		}
		data = append(data, row...)
	}
	g := DisplacementGrid{m: mat.NewDense(len(rows), c, data)}
	if err := g.Validate(); err != nil {
		return DisplacementGrid{}, err
	}
	return g, nil
}

// GridFromDense wraps a matrix without copying it.
func GridFromDense(m *mat.Dense) (DisplacementGrid, error) {
	g := DisplacementGrid{m: m}
	if err := g.Validate(); err != nil {
		return DisplacementGrid{}, err
	}
	return g, nil
}

// ZeroGrid returns a rows×cols grid of zeros. It panics if either dimension is not positive.
func ZeroGrid(rows, cols int) DisplacementGrid {
	return DisplacementGrid{m: mat.NewDense(rows, cols, nil)}
}

// Validate returns an *InputError if the grid is empty or contains NaN or Inf.
func (g DisplacementGrid) Validate() error {
	const op = "displacement grid"
	if g.m == nil || g.m.IsEmpty() {
		return inputErr(op, "grid is empty")
	}
	r, _ := g.m.Dims()
	for i := 0; i < r; i++ {
		for j, v := range g.m.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return inputErr(op, "non-finite value %v at (%d,%d)", v, i, j)
			}
		}
	}
	return nil
}

// Dims returns the number of rows and columns of the grid.
func (g DisplacementGrid) Dims() (rows, cols int) {
	if g.m == nil {
		return 0, 0
	}
	return g.m.Dims()
}

// Dense returns the underlying matrix.
func (g DisplacementGrid) Dense() *mat.Dense { return g.m }

// At returns the value at row i, column j with both indices clamped to the
// valid range. It never reads out of bounds.
func (g DisplacementGrid) At(i, j int) float64 {
	r, c := g.m.Dims()
	return g.m.At(clampIndex(i, r), clampIndex(j, c))
}

// Sample returns the value at normalized coordinates u (columns) and v (rows),
// both in [0,1], using the truncated grid index of u·(cols-1) and v·(rows-1).
func (g DisplacementGrid) Sample(u, v float64) float64 {
	r, c := g.m.Dims()
	return g.At(sampleIndex(v, r), sampleIndex(u, c))
}

func sampleIndex(t float64, n int) int {
	// The small bias keeps j/(n-1)*(n-1) from truncating to j-1.
	return int(math.Floor(t*float64(n-1) + 1e-9))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// Resample returns the grid bilinearly resampled to rows×cols with the
// corner samples aligned. A grid already of that shape is returned as is.
func (g DisplacementGrid) Resample(rows, cols int) (DisplacementGrid, error) {
	if err := g.Validate(); err != nil {
		return DisplacementGrid{}, err
	}
	if rows < 1 || cols < 1 {
		return DisplacementGrid{}, inputErr("resample", "invalid target shape %dx%d", rows, cols)
	}
	r, c := g.m.Dims()
	if r == rows && c == cols {
		return g, nil
	}
	// Separable linear interpolation: along columns first, then rows.
	tmp := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		if err := resampleLine(tmp.RawRowView(i), g.m.RawRowView(i)); err != nil {
			return DisplacementGrid{}, err
		}
	}
	out := mat.NewDense(rows, cols, nil)
	src := make([]float64, r)
	dst := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(src, j, tmp)
		if err := resampleLine(dst, src); err != nil {
			return DisplacementGrid{}, err
		}
		out.SetCol(j, dst)
	}
	return DisplacementGrid{m: out}, nil
}

// resampleLine linearly interpolates src onto len(dst) evenly spaced samples
// spanning the same interval.
func resampleLine(dst, src []float64) error {
	if len(src) == 1 {
		for i := range dst {
			dst[i] = src[0]
		}
		return nil
	}
	xs := make([]float64, len(src))
	for i := range xs {
		xs[i] = float64(i)
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, src); err != nil {
		return &InputError{Op: "resample", Reason: "fitting line", Err: err}
	}
	span := float64(len(src) - 1)
	for i := range dst {
		if len(dst) == 1 {
			dst[i] = pl.Predict(span / 2)
			continue
		}
		dst[i] = pl.Predict(span * float64(i) / float64(len(dst)-1))
	}
	return nil
}
