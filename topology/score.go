package topology

import (
	"fmt"
	"strings"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/feature"
)

// Scores holds one score per family, indexed by brane.TopologyFamily.
// KleinBottle is never scored and stays zero.
type Scores [brane.NumFamilies]float64

// Of returns the score of f.
func (s Scores) Of(f brane.TopologyFamily) float64 { return s[f] }

func (s Scores) String() string {
	var b strings.Builder
	for i, f := range brane.Families() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%.2f", f, s[f])
	}
	return b.String()
}

// Score computes the per family scores of a feature bundle and zeroes every
// family outside the allowed set, PlanarRelief excepted.
func Score(b feature.Bundle, sp brane.SteeringProfile) Scores {
	var s Scores
	s[brane.PlanarRelief] = PlanarBaseline
	s[brane.Toroidal] = toroidalScore(b)
	s[brane.Helical] = helicalScore(b)
	s[brane.LatticeResonator] = latticeScore(b)
	s[brane.CompactifiedFolded] = compactifiedScore(b)
	for _, f := range brane.Families() {
		if f != brane.PlanarRelief && !sp.Allows(f) {
			s[f] = 0
		}
	}
	return s
}

// Classify selects the family of a feature bundle. Three or more concentric
// rings select Toroidal outright. Otherwise the strictly highest score wins,
// ties going to the family declared first, and a non-planar winner scoring
// below MinConfidence falls back to (PlanarRelief, PlanarBaseline).
func Classify(b feature.Bundle, sp brane.SteeringProfile) (brane.TopologyFamily, float64) {
	if len(b.ConcentricCircles) >= minRings {
		return brane.Toroidal, RingConfidence
	}
	return selectFamily(Score(b, sp))
}

func selectFamily(s Scores) (brane.TopologyFamily, float64) {
	best, bestScore := brane.PlanarRelief, 0.0
	for _, f := range brane.Families() {
		if f == brane.KleinBottle {
			continue
		}
		if s[f] > bestScore {
			best, bestScore = f, s[f]
		}
	}
	if best != brane.PlanarRelief && bestScore < MinConfidence {
		return brane.PlanarRelief, PlanarBaseline
	}
	return best, bestScore
}

func toroidalScore(b feature.Bundle) float64 {
	var score float64
	if b.Symmetry.HasRotational {
		score += 0.4
		if b.Symmetry.RotationalOrder > 2 {
			score += 0.1
		}
	}
	if len(b.ConcentricCircles) > 0 {
		score += 0.2
	}
	if len(b.ConcentricCircles) > 1 {
		score += 0.2
	}
	if b.Radial.IsRadial {
		score += 0.2
	}
	return clip(score)
}

func helicalScore(b feature.Bundle) float64 {
	var score float64
	if b.Symmetry.HasRotational {
		score += 0.3
	}
	// Spirals rarely read as rings.
	if len(b.ConcentricCircles) <= 1 {
		score += 0.2
	}
	if b.Radial.IsRadial && b.Radial.NumArms > 0 {
		score += 0.2
	}
	if b.Geometry.RepetitionFrequency > 0 {
		score += 0.1
	}
	return clip(score)
}

func latticeScore(b feature.Bundle) float64 {
	var score float64
	if f := b.Geometry.RepetitionFrequency; f > 2 {
		score += 0.5
		if f > 5 {
			score += 0.2
		}
	}
	if len(b.Symmetry.ReflectionAxes) >= 2 {
		score += 0.3
	}
	return clip(score)
}

func compactifiedScore(b feature.Bundle) float64 {
	var score float64
	c := b.Geometry.ComplexityScore
	switch {
	case c > 0.7:
		score += 0.4
	case c > 0.5:
		score += 0.2
	}
	if !b.Symmetry.HasRotational && !b.Symmetry.HasReflectional {
		score += 0.3
	}
	if c > 0.3 {
		score += 0.1
	}
	return clip(score)
}

func clip(x float64) float64 { return brane.Clamp(x, 0, 1) }
