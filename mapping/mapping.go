// Package mapping converts pattern images into topology-aware meshes.
package mapping

import (
	"fmt"
	"image"

	"github.com/planebrane/brane"
	"github.com/planebrane/brane/pattern"
	"github.com/planebrane/brane/topology"
)

// Options configure MapImage.
type Options struct {
	Pattern   pattern.Options
	Amplitude float64
	// Steering constrains the family. Nil means brane.DefaultSteering.
	Steering *brane.SteeringProfile
	Analyzer *topology.Analyzer
}

// DefaultOptions returns the default pattern options with unit amplitude.
func DefaultOptions() Options {
	return Options{Pattern: pattern.DefaultOptions(), Amplitude: 1}
}

// Result is a generated mesh with the family it was shaped as.
type Result struct {
	Mesh       *brane.Mesh
	Family     brane.TopologyFamily
	Confidence float64
}

// MapImage loads the image at path, selects its topology family, derives a
// displacement grid from it and generates the family surface.
func MapImage(path string, opt Options) (*Result, error) {
	img, err := pattern.Load(path)
	if err != nil {
		return nil, err
	}
	return Map(img, opt)
}

// Map is MapImage for an already decoded image.
func Map(img image.Image, opt Options) (*Result, error) {
	sp := brane.DefaultSteering()
	if opt.Steering != nil {
		sp = *opt.Steering
	}
	an := opt.Analyzer
	if an == nil {
		an = &topology.Analyzer{}
	}
	family, confidence := an.AnalyzeImage(img, &sp)
	grid, err := pattern.Displacement(img, opt.Pattern)
	if err != nil {
		return nil, fmt.Errorf("deriving displacement: %w", err)
	}
	mesh, err := brane.GenerateSurface(grid, family, sp, opt.Pattern.Resolution, opt.Amplitude)
	if err != nil {
		return nil, fmt.Errorf("generating %s surface: %w", family, err)
	}
	return &Result{Mesh: mesh, Family: family, Confidence: confidence}, nil
}
