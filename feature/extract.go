package feature

import (
	"github.com/planebrane/brane/pattern"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultSymmetryThreshold is the similarity at or above which a rotation or
// reflection is considered a symmetry.
const DefaultSymmetryThreshold = 0.85

// Default is the standard Extractor. The zero value is ready to use.
type Default struct {
	// SymmetryThreshold overrides DefaultSymmetryThreshold when positive.
	SymmetryThreshold float64
}

var _ Extractor = Default{}

// Extract computes the feature bundle of gray.
func (d Default) Extract(gray *mat.Dense) (Bundle, error) {
	if err := pattern.ValidateMatrix(gray); err != nil {
		return Bundle{}, err
	}
	threshold := d.SymmetryThreshold
	if threshold <= 0 {
		threshold = DefaultSymmetryThreshold
	}
	binary := pattern.Binarize(gray, pattern.OtsuThreshold(gray), false)
	content := centroid(binary)

	var b Bundle
	order, rotScore := rotationalSymmetry(gray, content, threshold)
	axes := reflectionAxes(gray, threshold)
	b.Symmetry = Symmetry{
		HasRotational:   order > 0,
		RotationalOrder: order,
		HasReflectional: len(axes) > 0,
		ReflectionAxes:  axes,
		Score:           0.6*rotScore + 0.4*float64(len(axes))/4,
	}

	// Radial and ring analysis use the content centre only when the pattern
	// turns about it, the matrix centre otherwise.
	r, c := gray.Dims()
	center := r2.Vec{X: float64(c) / 2, Y: float64(r) / 2}
	if b.Symmetry.HasRotational {
		b.Symmetry.RotationalCenter = content
		center = content
	}
	b.Radial = radialPattern(gray, center)
	b.ConcentricCircles = concentricCircles(gray, center)

	edges, hist := edgeMap(gray)
	density := float64(len(edges)) / float64(r*c)
	angles := dominantAngles(hist, len(edges))
	comps := components(binary)
	b.Geometry = Geometry{
		ComplexityScore:     complexity(density, comps, len(angles)),
		RepetitionFrequency: repetitionFrequency(gray),
		EdgeDensity:         density,
		ComponentCount:      comps,
		DominantAngles:      angles,
		Centroid:            content,
		BoundingBox:         contentBounds(gray),
		EstimatedRadius:     medianDistance(edges, content),
	}
	return b, nil
}
