// Package feature measures the structural features of a grayscale pattern
// that drive topology classification: symmetry, radial arms, concentric
// rings and geometric repetition.
package feature

import (
	"image"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Extractor computes the feature bundle of a grayscale matrix with values
// in [0,1]. Rows follow image Y and columns image X.
type Extractor interface {
	Extract(gray *mat.Dense) (Bundle, error)
}

// Bundle holds every feature used by topology scoring.
type Bundle struct {
	Symmetry Symmetry
	Radial   Radial
	// ConcentricCircles lists the radii, in pixels, of rings centred on the
	// pattern centroid.
	ConcentricCircles []float64
	Geometry          Geometry
}

// Symmetry describes rotational and mirror symmetry.
type Symmetry struct {
	HasRotational bool
	// RotationalOrder is 360 divided by the best matching rotation angle.
	// It is zero when HasRotational is false.
	RotationalOrder  int
	RotationalCenter r2.Vec
	HasReflectional  bool
	// ReflectionAxes holds the mirror axis angles in degrees:
	// 0 horizontal, 90 vertical, 45 and 135 the diagonals.
	ReflectionAxes []float64
	// Score weighs the best rotational similarity at 0.6 and the fraction
	// of the four tested mirror axes at 0.4.
	Score float64
}

// Radial describes arms radiating from the centroid.
type Radial struct {
	IsRadial bool
	NumArms  int
	// Periodicity is the angular spacing of arms in degrees.
	Periodicity int
}

// Geometry holds coarse shape measurements.
type Geometry struct {
	ComplexityScore float64
	// RepetitionFrequency counts the repeats of the dominant period along
	// rows or columns, zero when no repetition was found.
	RepetitionFrequency int
	EdgeDensity         float64
	ComponentCount      int
	DominantAngles      []float64
	Centroid            r2.Vec
	BoundingBox         image.Rectangle
	EstimatedRadius     float64
}
