// Package topology maps a pattern image to the 3D manifold family that best
// fits its structure, subject to a steering profile.
package topology

import (
	"image"
	"log"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/feature"
	"github.com/planebrane/brane/pattern"
	"gonum.org/v1/gonum/mat"
)

const (
	// PlanarBaseline is the fixed score of PlanarRelief and the confidence
	// reported when weak evidence falls back to it.
	PlanarBaseline = 0.5
	// MinConfidence is the lowest score a non-planar family may win with.
	MinConfidence = 0.6
	// RingConfidence is reported when three or more concentric rings short
	// circuit scoring to Toroidal.
	RingConfidence = 0.8
	minRings       = 3
)

// Analyzer classifies grayscale patterns into topology families.
// The zero value uses feature.Default and does not log.
type Analyzer struct {
	Extractor feature.Extractor
	// Logger receives analysis failures. May be nil.
	Logger *log.Logger
}

func (a *Analyzer) extractor() feature.Extractor {
	if a.Extractor == nil {
		return feature.Default{}
	}
	return a.Extractor
}

func (a *Analyzer) logf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

// Analyze returns the best fitting family of gray and a confidence in [0,1].
// A nil steering means DefaultSteering. A forced family is returned with
// confidence 1 without looking at gray. Invalid input never fails: it yields
// (PlanarRelief, 0).
func (a *Analyzer) Analyze(gray *mat.Dense, steering *brane.SteeringProfile) (brane.TopologyFamily, float64) {
	sp := resolve(steering)
	if f, ok := sp.ForceFamily(); ok {
		return f, 1
	}
	if err := pattern.ValidateMatrix(gray); err != nil {
		a.logf("topology: analysis error: %v", err)
		return brane.PlanarRelief, 0
	}
	b, err := a.extractor().Extract(pattern.Normalize(gray))
	if err != nil {
		a.logf("topology: feature extraction: %v", err)
		return brane.PlanarRelief, 0
	}
	return Classify(b, sp)
}

// AnalyzeImage converts img to grayscale and analyzes it.
func (a *Analyzer) AnalyzeImage(img image.Image, steering *brane.SteeringProfile) (brane.TopologyFamily, float64) {
	sp := resolve(steering)
	if f, ok := sp.ForceFamily(); ok {
		return f, 1
	}
	gray, err := pattern.Gray(img)
	if err != nil {
		a.logf("topology: analysis error: %v", err)
		return brane.PlanarRelief, 0
	}
	return a.Analyze(gray, &sp)
}

// AnalyzeFile loads the image at path and analyzes it. An unreadable file
// yields (PlanarRelief, 0).
func (a *Analyzer) AnalyzeFile(path string, steering *brane.SteeringProfile) (brane.TopologyFamily, float64) {
	sp := resolve(steering)
	if f, ok := sp.ForceFamily(); ok {
		return f, 1
	}
	img, err := pattern.Load(path)
	if err != nil {
		a.logf("topology: analysis error: %v", err)
		return brane.PlanarRelief, 0
	}
	return a.AnalyzeImage(img, &sp)
}

func resolve(steering *brane.SteeringProfile) brane.SteeringProfile {
	if steering == nil {
		return brane.DefaultSteering()
	}
	return *steering
}
